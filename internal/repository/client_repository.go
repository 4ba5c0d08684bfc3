package repository

import (
	"context"

	"github.com/google/uuid"

	"teamdesk/internal/db"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// ClientRepository defines billing client persistence operations.
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepository struct {
	base
}

// NewClientRepository creates a new client repository.
func NewClientRepository(conn db.Connector) ClientRepository {
	return &clientRepository{base{conn: conn}}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Create(client).Error)
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var client model.Client
	if err := tx.Where("id = ?", id).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

// List returns clients newest first.
func (r *clientRepository) List(ctx context.Context) ([]model.Client, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var clients []model.Client
	if err := tx.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, translate(err)
	}
	return clients, nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&model.Client{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
