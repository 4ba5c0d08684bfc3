package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"teamdesk/internal/cache"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
)

const (
	userDirectoryCacheKey = "users:directory"
	userCacheTTL          = time.Minute
)

// UserService exposes the team directory.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.Profile, error)
	// ResolveAssignee turns a user id or display name into a user id.
	ResolveAssignee(ctx context.Context, ref string) (string, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.Profile, error) {
	var cached []model.Profile
	if s.cache.GetJSON(ctx, userDirectoryCacheKey, &cached) {
		return cached, nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]model.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	s.cache.SetJSON(ctx, userDirectoryCacheKey, profiles, userCacheTTL)
	return profiles, nil
}

func (s *userService) ResolveAssignee(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		user, err := s.repo.FindByID(ctx, id.String())
		if err == nil {
			return user.ID.String(), nil
		}
		if apperrors.KindOf(err) != apperrors.KindNotFound {
			return "", err
		}
		return "", apperrors.Validationf("assignedTo: no user with id %s", id)
	}
	user, err := s.repo.FindByName(ctx, ref)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return "", apperrors.Validationf("assignedTo: no user named %q", ref)
		}
		return "", err
	}
	return user.ID.String(), nil
}
