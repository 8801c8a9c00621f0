package task

import (
	"fmt"

	domain "github.com/example/todo-api/domain/task"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 2000
	maxCategoryLen    = 100
	maxSearchLen      = 255
)

// ValidationError identifies the offending field of a rejected request.
// It is a client error, never a server fault.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func validateTitle(title string) error {
	if title == "" {
		return invalid("title", "title is required")
	}
	if len(title) > maxTitleLen {
		return invalid("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return invalid("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	return nil
}

// validatePriority rejects anything outside the closed set. Legacy values
// already in storage are tolerated on read; they never pass back in on write.
func validatePriority(priority string) error {
	if !domain.Priority(priority).Known() {
		return invalid("priority", "priority must be one of low, medium, high")
	}
	return nil
}

func validateCategory(category string) error {
	if len(category) > maxCategoryLen {
		return invalid("category", fmt.Sprintf("category must be at most %d characters", maxCategoryLen))
	}
	return nil
}

// ListQuery is the validated, typed form of a list request. Sort key,
// direction and priority filter are closed sets; an unrecognized value is
// rejected outright rather than silently falling back to a default, so client
// bugs surface instead of producing a plausible-looking wrong order.
type ListQuery struct {
	Search   string
	SortBy   string
	Order    string
	Priority string
	Category string
}

// Sort keys and directions accepted by list requests.
const (
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"
	SortByPriority  = "priority"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Validate checks enum membership and bounds, then fills in defaults for
// fields that were genuinely absent.
func (q *ListQuery) Validate() error {
	if len(q.Search) > maxSearchLen {
		return invalid("search", fmt.Sprintf("search must be at most %d characters", maxSearchLen))
	}
	switch q.SortBy {
	case "":
		q.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByDueDate, SortByPriority:
	default:
		return invalid("sort_by", "sort_by must be one of created_at, due_date, priority")
	}
	switch q.Order {
	case "":
		q.Order = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		return invalid("order", "order must be one of asc, desc")
	}
	if q.Priority != "" {
		if err := validatePriority(q.Priority); err != nil {
			return err
		}
	}
	if err := validateCategory(q.Category); err != nil {
		return err
	}
	return nil
}
