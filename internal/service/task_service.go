package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamdesk/internal/auth"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
	"teamdesk/internal/taskview"
)

// TaskInput carries the editable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Deadline    string
	Priority    model.Priority
	Category    model.Category
	Completed   bool
	// AssignedTo may be a user id or a display name.
	AssignedTo string
	DocLink    string
	File       string
}

// TaskService defines task operations.
type TaskService interface {
	Create(ctx context.Context, session *auth.Session, in TaskInput) (*model.Task, error)
	// List returns every task, newest first.
	List(ctx context.Context) ([]model.Task, error)
	// ListView returns the tasks visible under filter, newest first.
	ListView(ctx context.Context, filter taskview.Filter) ([]model.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// Update replaces every editable field. A non-zero revision must match
	// the stored one.
	Update(ctx context.Context, id uuid.UUID, in TaskInput, revision uint) (*model.Task, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*model.Task, error)
	ToggleCompletion(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo   repository.TaskRepository
	users  UserService
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository, users UserService, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{repo: repo, users: users, logger: logger, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, session *auth.Session, in TaskInput) (*model.Task, error) {
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	task := &model.Task{CreatedBy: session.UserID}
	if err := s.apply(ctx, task, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", slog.String("task_id", task.ID.String()), slog.String("category", string(task.Category)))
	return task, nil
}

func (s *taskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *taskService) ListView(ctx context.Context, filter taskview.Filter) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return taskview.ListVisible(tasks, filter), nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, in TaskInput, revision uint) (*model.Task, error) {
	task := &model.Task{ID: id}
	if err := s.apply(ctx, task, in); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, task, revision); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*model.Task, error) {
	if err := s.repo.SetCompleted(ctx, id, completed); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) ToggleCompletion(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	if err := s.repo.ToggleCompleted(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// apply validates in, fills defaults and copies it onto task.
func (s *taskService) apply(ctx context.Context, task *model.Task, in TaskInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperrors.Validation("title is required")
	}

	deadline := strings.TrimSpace(in.Deadline)
	if deadline == "" {
		deadline = s.now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, deadline); err != nil {
		return apperrors.Validationf("deadline must be a date in YYYY-MM-DD form, got %q", in.Deadline)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return apperrors.Validationf("unknown priority %q", in.Priority)
	}

	category := in.Category
	if category == "" {
		category = model.CategoryToday
	}
	if !category.Valid() {
		return apperrors.Validationf("unknown category %q", in.Category)
	}

	assignee, err := s.users.ResolveAssignee(ctx, strings.TrimSpace(in.AssignedTo))
	if err != nil {
		return err
	}

	task.Title = title
	task.Description = in.Description
	task.Deadline = deadline
	task.Priority = priority
	task.Category = category
	task.Completed = in.Completed
	task.AssignedTo = assignee
	task.DocLink = in.DocLink
	task.File = in.File
	return nil
}
