package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamdesk/internal/db"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// List returns every task, newest first.
	List(ctx context.Context) ([]model.Task, error)
	// Replace overwrites the editable fields of task. When expectedRevision
	// is non-zero the write only applies to that revision.
	Replace(ctx context.Context, task *model.Task, expectedRevision uint) error
	// SetCompleted writes only the completed flag.
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	// ToggleCompleted flips the completed flag in a single statement.
	ToggleCompleted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	base
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(conn db.Connector) TaskRepository {
	return &taskRepository{base{conn: conn}}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Create(task).Error)
}

// FindByID finds a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var task model.Task
	if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List lists tasks in descending creation order.
func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

// Replace overwrites every editable field of the task in one statement.
func (r *taskRepository) Replace(ctx context.Context, task *model.Task, expectedRevision uint) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	q := tx.Model(&model.Task{}).Where("id = ?", task.ID)
	if expectedRevision != 0 {
		q = q.Where("revision = ?", expectedRevision)
	}
	res := q.Updates(map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"deadline":    task.Deadline,
		"priority":    task.Priority,
		"category":    task.Category,
		"completed":   task.Completed,
		"assigned_to": task.AssignedTo,
		"doc_link":    task.DocLink,
		"file":        task.File,
		"revision":    gorm.Expr("revision + 1"),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrStale(ctx, task.ID, expectedRevision)
	}
	return nil
}

// SetCompleted updates only the completed column.
func (r *taskRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"completed": completed,
		"revision":  gorm.Expr("revision + 1"),
	})
}

// ToggleCompleted flips completed without reading the row first.
func (r *taskRepository) ToggleCompleted(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"completed": gorm.Expr("NOT completed"),
		"revision":  gorm.Expr("revision + 1"),
	})
}

// Delete hard-deletes a task.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *taskRepository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	res := tx.Model(&model.Task{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *taskRepository) missOrStale(ctx context.Context, id uuid.UUID, expectedRevision uint) error {
	if expectedRevision == 0 {
		return apperrors.ErrNotFound
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrStaleRevision
}
