package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.Issue(userID, model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, model.RoleAdmin, session.Role)
}

func TestJWTService_ExpiresAfterSevenDays(t *testing.T) {
	issuedAt := time.Now().Add(-DefaultSessionTTL - time.Minute)
	old := NewJWTService("test-secret", WithClock(func() time.Time { return issuedAt }))

	token, err := old.Issue(uuid.New(), model.RoleMember)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestJWTService_StillValidWithinWindow(t *testing.T) {
	issuedAt := time.Now().Add(-DefaultSessionTTL + time.Hour)
	svc := NewJWTService("test-secret", WithClock(func() time.Time { return issuedAt }))

	token, err := svc.Issue(uuid.New(), model.RoleMember)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Verify(token)
	assert.NoError(t, err)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	foreign, err := other.Issue(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: uuid.NewString(), Role: model.RoleMember}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID:               "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":          "",
		"malformed":      "not.a.token",
		"wrong secret":   foreign,
		"missing expiry": noExpiry,
		"bad subject id": badID,
	} {
		t.Run(name, func(t *testing.T) {
			session, err := svc.Verify(token)
			assert.Nil(t, session)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}
