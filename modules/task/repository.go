package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/todo-api/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist for the given owner.
// An existing task owned by someone else produces the same error, so
// ownership is never distinguishable from nonexistence.
var ErrNotFound = errors.New("task not found")

// priorityRankExpr orders the priority enum numerically instead of
// lexically ("high" < "low" alphabetically). Unrecognized legacy values
// rank below low. Evaluated inside the query so the ordering stays correct
// if result limiting is ever added.
const priorityRankExpr = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END"

// Repository translates owner-scoped task operations into single SQL
// statements. Every query and every mutation carries owner_id in its WHERE
// clause; no method ever touches a row the owner does not hold.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("task store: create failed: %w", err)
	}
	return nil
}

// FindByOwner retrieves a task by id, scoped to its owner.
func (r *Repository) FindByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("task store: find failed: %w", err)
	}
	return &t, nil
}

// List executes the filtered, ordered query for one owner. Filters combine
// with AND; ordering is evaluated entirely in SQL and always ends on the id
// tie-break so equal sort keys come back in the same relative order on every
// call. The query must be validated before it reaches this method.
func (r *Repository) List(ctx context.Context, ownerID string, q ListQuery) ([]*domain.Task, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Task{}).Where("owner_id = ?", ownerID)

	if q.Search != "" {
		pattern := "%" + strings.ToLower(escapeLike(q.Search)) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	if q.Priority != "" {
		tx = tx.Where("priority = ?", q.Priority)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	dir := "ASC"
	if q.Order == OrderDesc {
		dir = "DESC"
	}
	switch q.SortBy {
	case SortByPriority:
		tx = tx.Order(priorityRankExpr + " " + dir)
	case SortByDueDate:
		// Unscheduled tasks sort last in both directions.
		tx = tx.Order("due_date IS NULL ASC").Order("due_date " + dir)
	default:
		tx = tx.Order("created_at " + dir)
	}
	tx = tx.Order("id ASC")

	var tasks []*domain.Task
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task store: list failed: %w", err)
	}
	return tasks, nil
}

// escapeLike quotes LIKE wildcards so a search term always matches as a
// literal substring: "100%" must not match "100 bottles".
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Update writes the mutable columns of a task in a single owner-scoped
// statement. Explicit column selection makes cleared pointers persist as
// NULL and false booleans persist as false.
func (r *Repository) Update(ctx context.Context, t *domain.Task) error {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("title", "description", "is_completed", "priority", "due_date", "category", "updated_at").
		Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("task store: update failed: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by id, scoped to its owner. A repeat delete reports
// not-found, never a fault.
func (r *Repository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if err := result.Error; err != nil {
		return fmt.Errorf("task store: delete failed: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
