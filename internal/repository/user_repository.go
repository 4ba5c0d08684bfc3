package repository

import (
	"context"

	"teamdesk/internal/db"
	"teamdesk/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	base
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(conn db.Connector) UserRepository {
	return &userRepository{base{conn: conn}}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := tx.Where("name = ?", name).Order("created_at ASC").First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := tx.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}
