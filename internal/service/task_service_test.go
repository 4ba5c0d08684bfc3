package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/auth"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/taskview"
)

func newTestTaskService(tasks *MockTaskRepository, users *MockUserRepository) *taskService {
	s := NewTaskService(tasks, NewUserService(users, nil), nil).(*taskService)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestTaskService_CreateDefaults(t *testing.T) {
	tasks := new(MockTaskRepository)
	users := new(MockUserRepository)
	service := newTestTaskService(tasks, users)
	session := &auth.Session{UserID: uuid.New(), Role: model.RoleMember}

	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	task, err := service.Create(context.Background(), session, TaskInput{Title: "  Write report  "})
	require.NoError(t, err)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "2026-03-14", task.Deadline)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.CategoryToday, task.Category)
	assert.False(t, task.Completed)
	assert.Equal(t, session.UserID, task.CreatedBy)
	tasks.AssertExpectations(t)
}

func TestTaskService_CreateValidation(t *testing.T) {
	session := &auth.Session{UserID: uuid.New()}
	tests := []struct {
		name  string
		input TaskInput
	}{
		{name: "missing title", input: TaskInput{Title: "   "}},
		{name: "bad deadline", input: TaskInput{Title: "x", Deadline: "14/03/2026"}},
		{name: "unknown priority", input: TaskInput{Title: "x", Priority: "Urgent"}},
		{name: "unknown category", input: TaskInput{Title: "x", Category: "Someday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := new(MockTaskRepository)
			service := newTestTaskService(tasks, new(MockUserRepository))

			_, err := service.Create(context.Background(), session, tt.input)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestTaskService_ResolvesAssigneeName(t *testing.T) {
	tasks := new(MockTaskRepository)
	users := new(MockUserRepository)
	service := newTestTaskService(tasks, users)
	bob := &model.User{ID: uuid.New(), Name: "Bob"}

	users.On("FindByName", mock.Anything, "Bob").Return(bob, nil)
	users.On("FindByName", mock.Anything, "Nobody").Return(nil, apperrors.ErrNotFound)
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	task, err := service.Create(context.Background(), &auth.Session{UserID: uuid.New()}, TaskInput{Title: "x", AssignedTo: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, bob.ID.String(), task.AssignedTo)

	_, err = service.Create(context.Background(), &auth.Session{UserID: uuid.New()}, TaskInput{Title: "x", AssignedTo: "Nobody"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTaskService_UpdatePassesRevision(t *testing.T) {
	tasks := new(MockTaskRepository)
	service := newTestTaskService(tasks, new(MockUserRepository))
	id := uuid.New()

	tasks.On("Replace", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.ID == id && task.Title == "renamed"
	}), uint(3)).Return(apperrors.ErrStaleRevision)

	_, err := service.Update(context.Background(), id, TaskInput{Title: "renamed"}, 3)
	assert.ErrorIs(t, err, apperrors.ErrStaleRevision)
	tasks.AssertExpectations(t)
}

func TestTaskService_ToggleCompletion(t *testing.T) {
	tasks := new(MockTaskRepository)
	service := newTestTaskService(tasks, new(MockUserRepository))
	id := uuid.New()

	tasks.On("ToggleCompleted", mock.Anything, id).Return(nil)
	tasks.On("FindByID", mock.Anything, id).Return(&model.Task{ID: id, Completed: true}, nil)

	task, err := service.ToggleCompletion(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	missing := uuid.New()
	tasks.On("ToggleCompleted", mock.Anything, missing).Return(apperrors.ErrNotFound)
	_, err = service.ToggleCompletion(context.Background(), missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaskService_ListAppliesFilter(t *testing.T) {
	tasks := new(MockTaskRepository)
	service := newTestTaskService(tasks, new(MockUserRepository))

	tasks.On("List", mock.Anything).Return([]model.Task{
		{Title: "a", Category: model.CategoryToday},
		{Title: "b", Category: model.CategoryToday, Completed: true},
		{Title: "c", Category: model.CategoryUpcoming},
	}, nil)

	all, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := service.ListView(context.Background(), taskview.Filter{Kind: taskview.All})
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "a", open[0].Title)
	assert.Equal(t, "c", open[1].Title)

	done, err := service.ListView(context.Background(), taskview.Filter{Kind: taskview.Completed})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "b", done[0].Title)

	invoices, err := service.ListView(context.Background(), taskview.Filter{Kind: taskview.Invoices})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
