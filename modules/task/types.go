package task

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional distinguishes an omitted PATCH field from an explicit null.
// Omitted means "leave the stored value alone"; null means "clear it".
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON records that the field was present and whether it carried a
// value or an explicit null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON emits the value, or null when explicitly cleared.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero makes omitted fields drop out of marshaled payloads via the omitzero
// tag, so the omitted/cleared distinction survives the service boundary.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Ptr returns the carried value as a pointer, nil when cleared.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// CreateTaskRequest represents a task creation request. OwnerID is the
// authenticated subject, injected by the caller from verified claims.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// GetTaskRequest represents a single-task fetch request.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// ListTasksRequest represents a filtered, ordered list request.
type ListTasksRequest struct {
	OwnerID  string `json:"owner_id"`
	Search   string `json:"search,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	Order    string `json:"order,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

// UpdateTaskRequest represents a partial update. Pointer fields that are nil
// and Optional fields that are not Set leave the stored value unchanged.
type UpdateTaskRequest struct {
	OwnerID     string              `json:"owner_id"`
	ID          string              `json:"id"`
	Title       *string             `json:"title,omitempty"`
	Description Optional[string]    `json:"description,omitzero"`
	IsCompleted *bool               `json:"is_completed,omitempty"`
	Priority    *string             `json:"priority,omitempty"`
	DueDate     Optional[time.Time] `json:"due_date,omitzero"`
	Category    Optional[string]    `json:"category,omitzero"`
}

// DeleteTaskRequest represents a task deletion request.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse reports the outcome of a deletion.
type DeleteTaskResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// TaskResponse is the serialized task payload.
type TaskResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Category    *string    `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListTasksResponse carries the filtered result set and its count.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}
