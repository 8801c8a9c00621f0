package task

import (
	"time"
)

// Priority is the task priority level. The known set is {low, medium, high};
// anything else already in storage is an unrecognized legacy value, tolerated
// on read but rejected on write.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Known reports whether p is one of the three accepted values.
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank maps a priority to its ordering weight: high=3, medium=2, low=1.
// Unrecognized legacy values rank 0, below low, so they sort last in a
// descending list. Matches the CASE expression the repository orders by.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Normalize resolves a stored priority for presentation. Rows written before
// the priority column existed carry an empty string; they read back as the
// column default, medium. Unrecognized non-empty values pass through as-is.
func (p Priority) Normalize() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// Task is a user-owned todo item.
//
// OwnerID is set once at creation and never changes; every repository query
// filters on it. Nullable attributes use pointers so absent values persist
// as SQL NULL and serialize as JSON null.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	OwnerID     string     `gorm:"index;not null;type:text" json:"owner_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:2000" json:"description"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	Priority    Priority   `gorm:"size:10;index;default:medium" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	Category    *string    `gorm:"size:100;index" json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
