package repository

import (
	"context"

	"github.com/google/uuid"

	"teamdesk/internal/db"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// QuickLinkRepository defines bookmark persistence operations.
type QuickLinkRepository interface {
	Create(ctx context.Context, link *model.QuickLink) error
	List(ctx context.Context) ([]model.QuickLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type quickLinkRepository struct {
	base
}

// NewQuickLinkRepository creates a new quick-link repository.
func NewQuickLinkRepository(conn db.Connector) QuickLinkRepository {
	return &quickLinkRepository{base{conn: conn}}
}

func (r *quickLinkRepository) Create(ctx context.Context, link *model.QuickLink) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Create(link).Error)
}

// List returns links in insertion order.
func (r *quickLinkRepository) List(ctx context.Context) ([]model.QuickLink, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var links []model.QuickLink
	if err := tx.Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, translate(err)
	}
	return links, nil
}

func (r *quickLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&model.QuickLink{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
