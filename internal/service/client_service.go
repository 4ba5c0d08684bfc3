package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
)

// ClientService defines billing client operations.
type ClientService interface {
	Create(ctx context.Context, name, email, address string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	repo repository.ClientRepository
}

// NewClientService creates a new client service.
func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, name, email, address string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	client := &model.Client{Name: name, Email: strings.TrimSpace(email), Address: strings.TrimSpace(address)}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context) ([]model.Client, error) {
	return s.repo.List(ctx)
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
