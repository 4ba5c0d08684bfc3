package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("find user: %w", ErrNotFound.Wrap(errors.New("record not found")))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrUserNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("title is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
		{ErrEmailExists, http.StatusBadRequest, "EMAIL_EXISTS"},
		{ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{StoreUnavailable(errors.New("refused")), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{&Error{Kind: KindInternal, Code: "X", Message: "secret detail"}, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
			assert.NotContains(t, got.Message, "secret")
		})
	}
}
