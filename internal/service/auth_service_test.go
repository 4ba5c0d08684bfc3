package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"teamdesk/internal/auth"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

var testAdmin = AdminSeed{Name: "Administrator", Email: "admin@teamdesk.local", Password: "Admin#2025!"}

func newTestAuthService(repo *MockUserRepository) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, jwtService, nil, testAdmin, nil), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, apperrors.ErrNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RoleMember && u.Status == model.UserStatusActive &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
				})).Return(nil)
			},
		},
		{
			name:      "email already exists",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name:      "concurrent insert hits unique index",
			email:     "race@example.com",
			password:  "password123",
			nameField: "Racer",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, apperrors.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicate)
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name:      "store unavailable",
			email:     "down@example.com",
			password:  "password123",
			nameField: "Down",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "down@example.com").Return(nil, apperrors.ErrStoreUnavailable)
			},
			expectedError: apperrors.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			service, jwtService := newTestAuthService(mockRepo)

			result, err := service.Register(context.Background(), tt.nameField, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, tt.nameField, result.User.Name)
				assert.Equal(t, model.RoleMember, result.User.Role)

				session, err := jwtService.Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, result.User.ID, session.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := uuid.New()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleAdmin,
				}, nil)
			},
		},
		{
			name:     "user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, apperrors.ErrNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			service, jwtService := newTestAuthService(mockRepo)

			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, result.User.ID)

				session, err := jwtService.Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, userID, session.UserID)
				assert.Equal(t, model.RoleAdmin, session.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service, _ := newTestAuthService(mockRepo)
	userID := uuid.New()

	mockRepo.On("FindByID", mock.Anything, userID.String()).Return(&model.User{ID: userID, Name: "Ada"}, nil)
	user, err := service.Me(context.Background(), &auth.Session{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	ghost := uuid.New()
	mockRepo.On("FindByID", mock.Anything, ghost.String()).Return(nil, apperrors.ErrNotFound)
	_, err = service.Me(context.Background(), &auth.Session{UserID: ghost})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = service.Me(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_SeedAdmin(t *testing.T) {
	t.Run("creates the admin when missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, testAdmin.Email).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAdmin && u.Email == testAdmin.Email && u.Name == testAdmin.Name
		})).Return(nil)
		service, _ := newTestAuthService(mockRepo)

		require.NoError(t, service.SeedAdmin(context.Background()))
		mockRepo.AssertExpectations(t)
	})

	t.Run("no-op when present", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, testAdmin.Email).Return(&model.User{Email: testAdmin.Email}, nil)
		service, _ := newTestAuthService(mockRepo)

		require.NoError(t, service.SeedAdmin(context.Background()))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate key means already seeded", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, testAdmin.Email).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicate)
		service, _ := newTestAuthService(mockRepo)

		assert.NoError(t, service.SeedAdmin(context.Background()))
	})

	t.Run("store errors surface", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, testAdmin.Email).Return(nil, apperrors.ErrStoreUnavailable)
		service, _ := newTestAuthService(mockRepo)

		assert.ErrorIs(t, service.SeedAdmin(context.Background()), apperrors.ErrStoreUnavailable)
	})
}
