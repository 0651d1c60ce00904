package service

import (
	"context"
	"fmt"

	"github.com/msomdec/taskflow/internal/domain"
)

// Listing bounds, mirroring the REST query contract.
const (
	defaultTaskLimit = 50
	maxTaskLimit     = 100
)

// TaskService handles task CRUD scoped to an owning user.
type TaskService struct {
	tasks domain.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// List returns the user's tasks matching the filter, newest first.
func (s *TaskService) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, filter.Priority)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultTaskLimit
	}
	if filter.Limit > maxTaskLimit {
		filter.Limit = maxTaskLimit
	}

	tasks, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create persists a new task for the user, applying the default status and
// priority when unset.
func (s *TaskService) Create(ctx context.Context, task *domain.Task) error {
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if !task.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, task.Status)
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, task.Priority)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Get returns a single task owned by the user.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id, userID)
}

// Update applies the non-nil fields of update to a task owned by the user.
func (s *TaskService) Update(ctx context.Context, id, userID string, update domain.TaskUpdate) (*domain.Task, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *update.Status)
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, *update.Priority)
	}

	task, err := s.tasks.Update(ctx, id, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task owned by the user.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
