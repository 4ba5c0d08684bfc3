package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamdesk/internal/cache"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
)

const quickLinksCacheKey = "quicklinks:all"

// QuickLinkService defines bookmark operations.
type QuickLinkService interface {
	Create(ctx context.Context, title, rawURL, description string) (*model.QuickLink, error)
	List(ctx context.Context) ([]model.QuickLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type quickLinkService struct {
	repo  repository.QuickLinkRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewQuickLinkService creates a new quick-link service.
func NewQuickLinkService(repo repository.QuickLinkRepository, cache *cache.Client) QuickLinkService {
	return &quickLinkService{repo: repo, cache: cache, ttl: time.Minute}
}

func (s *quickLinkService) Create(ctx context.Context, title, rawURL, description string) (*model.QuickLink, error) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if rawURL == "" {
		return nil, apperrors.Validation("url is required")
	}
	if u, err := url.Parse(rawURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.Validationf("url %q is not an absolute URL", rawURL)
	}

	link := &model.QuickLink{Title: title, URL: rawURL, Description: description}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, quickLinksCacheKey)
	return link, nil
}

func (s *quickLinkService) List(ctx context.Context) ([]model.QuickLink, error) {
	var links []model.QuickLink
	if s.cache.GetJSON(ctx, quickLinksCacheKey, &links) {
		return links, nil
	}
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, quickLinksCacheKey, links, s.ttl)
	return links, nil
}

func (s *quickLinkService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, quickLinksCacheKey)
	return nil
}
