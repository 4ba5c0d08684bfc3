package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "teamdesk/internal/errors"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, apperrors.ErrorResponse) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.GET("/", h)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body apperrors.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "domain error", err: respondError(apperrors.ErrStaleRevision), wantStatus: http.StatusConflict, wantCode: "STALE_REVISION"},
		{name: "store unavailable", err: respondError(apperrors.StoreUnavailable(errors.New("dial tcp: refused"))), wantStatus: http.StatusServiceUnavailable, wantCode: "STORE_UNAVAILABLE"},
		{name: "bare error hides details", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
		{name: "echo string message", err: echo.ErrMethodNotAllowed, wantStatus: http.StatusMethodNotAllowed, wantCode: "METHOD_NOT_ALLOWED"},
		{name: "email exists overrides status", err: respondError(apperrors.ErrEmailExists), wantStatus: http.StatusBadRequest, wantCode: "EMAIL_EXISTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, func(c echo.Context) error { return tt.err })
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Msg)
		})
	}
}

func TestSessionFrom_Missing(t *testing.T) {
	rec, body := serve(t, func(c echo.Context) error {
		_, err := sessionFrom(c)
		return err
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestHealth(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("unreachable") })

	tests := []struct {
		name       string
		store      Pinger
		cache      Pinger
		wantStatus int
		want       HealthResponse
	}{
		{name: "all up", store: up, cache: up, wantStatus: http.StatusOK, want: HealthResponse{Status: "ok", DB: "up", Cache: "up"}},
		{name: "store down", store: down, cache: up, wantStatus: http.StatusServiceUnavailable, want: HealthResponse{Status: "degraded", DB: "down", Cache: "up"}},
		{name: "cache down stays ok", store: up, cache: down, wantStatus: http.StatusOK, want: HealthResponse{Status: "ok", DB: "up", Cache: "down"}},
		{name: "cache disabled", store: up, wantStatus: http.StatusOK, want: HealthResponse{Status: "ok", DB: "up", Cache: "disabled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.store, tt.cache)
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)

			require.NoError(t, h.Health(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var got HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskRequest_OnlyCompleted(t *testing.T) {
	done := true
	title := "x"
	assert.True(t, (&TaskRequest{Completed: &done, ID: "abc", Revision: 2}).onlyCompleted())
	assert.False(t, (&TaskRequest{Completed: &done, Title: &title}).onlyCompleted())
	assert.False(t, (&TaskRequest{}).onlyCompleted())
}
