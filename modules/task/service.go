package task

import (
	"context"
	"fmt"

	domain "github.com/example/todo-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// createTask handles the task.create service request.
func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("owner id is required")
	}
	if err := validateTitle(req.Title); err != nil {
		return TaskResponse{}, err
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return TaskResponse{}, err
		}
	}
	priority := domain.PriorityMedium
	if req.Priority != nil {
		if err := validatePriority(*req.Priority); err != nil {
			return TaskResponse{}, err
		}
		priority = domain.Priority(*req.Priority)
	}
	if req.Category != nil {
		if err := validateCategory(*req.Category); err != nil {
			return TaskResponse{}, err
		}
	}

	t := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
	}
	if err := m.repo.Create(ctx, t); err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// getTask handles the task.get service request.
func (m *Module) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("owner id is required")
	}
	if req.ID == "" {
		return TaskResponse{}, ErrNotFound
	}
	t, err := m.repo.FindByOwner(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// listTasks handles the task.list service request. The query is validated
// before anything touches the store: an invalid enum is a client error, not
// an invitation to guess a default.
func (m *Module) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.OwnerID == "" {
		return ListTasksResponse{}, fmt.Errorf("owner id is required")
	}
	q := ListQuery{
		Search:   req.Search,
		SortBy:   req.SortBy,
		Order:    req.Order,
		Priority: req.Priority,
		Category: req.Category,
	}
	if err := q.Validate(); err != nil {
		return ListTasksResponse{}, err
	}

	tasks, err := m.repo.List(ctx, req.OwnerID, q)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}
	return resp, nil
}

// updateTask handles the task.update service request. Omitted fields stay
// untouched; due_date, description and category distinguish omission from an
// explicit null, which clears the stored value.
func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("owner id is required")
	}
	if req.ID == "" {
		return TaskResponse{}, ErrNotFound
	}

	t, err := m.repo.FindByOwner(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return TaskResponse{}, err
		}
		t.Title = *req.Title
	}
	if req.Description.Set {
		if req.Description.Valid {
			if err := validateDescription(req.Description.Value); err != nil {
				return TaskResponse{}, err
			}
		}
		t.Description = req.Description.Ptr()
	}
	if req.IsCompleted != nil {
		t.IsCompleted = *req.IsCompleted
	}
	if req.Priority != nil {
		if err := validatePriority(*req.Priority); err != nil {
			return TaskResponse{}, err
		}
		t.Priority = domain.Priority(*req.Priority)
	}
	if req.DueDate.Set {
		t.DueDate = req.DueDate.Ptr()
	}
	if req.Category.Set {
		if req.Category.Valid {
			if err := validateCategory(req.Category.Value); err != nil {
				return TaskResponse{}, err
			}
		}
		t.Category = req.Category.Ptr()
	}

	if err := m.repo.Update(ctx, t); err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// deleteTask handles the task.delete service request.
func (m *Module) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.OwnerID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("owner id is required")
	}
	if req.ID == "" {
		return DeleteTaskResponse{ID: req.ID}, ErrNotFound
	}
	if err := m.repo.Delete(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteTaskResponse{ID: req.ID}, err
	}
	return DeleteTaskResponse{ID: req.ID, Deleted: true}, nil
}

// toTaskResponse converts a Task entity to its response payload. Rows written
// before the priority column existed read back as medium.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		Priority:    string(t.Priority.Normalize()),
		DueDate:     t.DueDate,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
