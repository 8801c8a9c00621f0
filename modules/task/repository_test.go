package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/todo-api/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedTask inserts a task directly, bypassing write-path validation, so
// tests can stage legacy rows the service would reject.
func seedTask(t *testing.T, db *gorm.DB, owner, title string, mutate func(*domain.Task)) *domain.Task {
	t.Helper()

	now := time.Now()
	tk := &domain.Task{
		ID:        uuid.New().String(),
		OwnerID:   owner,
		Title:     title,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(tk)
	}
	if err := db.Create(tk).Error; err != nil {
		t.Fatalf("failed to seed task %q: %v", title, err)
	}
	return tk
}

func strptr(s string) *string { return &s }

func timeptr(tm time.Time) *time.Time { return &tm }

func listTitles(t *testing.T, repo *Repository, owner string, q ListQuery) []string {
	t.Helper()

	tasks, err := repo.List(context.Background(), owner, q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	titles := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	return titles
}

func assertOrder(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("result length = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestList_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	ownerA := uuid.New().String()
	ownerB := uuid.New().String()

	taskA := seedTask(t, db, ownerA, "A's secret", nil)
	seedTask(t, db, ownerB, "B's task", nil)

	t.Run("list only returns own tasks", func(t *testing.T) {
		tasks, err := repo.List(context.Background(), ownerB, ListQuery{SortBy: SortByCreatedAt, Order: OrderDesc})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 task for owner B, got %d", len(tasks))
		}
		if tasks[0].OwnerID != ownerB {
			t.Errorf("leaked task owned by %q into owner B's list", tasks[0].OwnerID)
		}
	})

	t.Run("fetch by guessed id looks like not found", func(t *testing.T) {
		_, err := repo.FindByOwner(context.Background(), ownerB, taskA.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByOwner() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete by guessed id looks like not found", func(t *testing.T) {
		err := repo.Delete(context.Background(), ownerB, taskA.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
		// A's task must survive the attempt.
		if _, err := repo.FindByOwner(context.Background(), ownerA, taskA.ID); err != nil {
			t.Errorf("task was mutated by another owner's delete: %v", err)
		}
	})

	t.Run("update by guessed id looks like not found", func(t *testing.T) {
		stolen := *taskA
		stolen.OwnerID = ownerB
		stolen.Title = "hijacked"
		err := repo.Update(context.Background(), &stolen)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
		intact, err := repo.FindByOwner(context.Background(), ownerA, taskA.ID)
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if intact.Title != "A's secret" {
			t.Errorf("title = %q, want original preserved", intact.Title)
		}
	})
}

func TestList_SearchCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	seedTask(t, db, owner, "Buy milk", nil)
	seedTask(t, db, owner, "Call plumber", func(tk *domain.Task) {
		tk.Description = strptr("ask about the MILK frother leak")
	})
	seedTask(t, db, owner, "Write report", nil) // nil description must not break matching

	tasks, err := repo.List(context.Background(), owner, ListQuery{Search: "MiLk", SortBy: SortByCreatedAt, Order: OrderAsc})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 matches across title and description, got %d", len(tasks))
	}
}

func TestList_SearchWildcardsMatchLiterally(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	seedTask(t, db, owner, "discount 100% off", nil)
	seedTask(t, db, owner, "100 bottles", nil)
	seedTask(t, db, owner, "rename snake_case fields", nil)
	seedTask(t, db, owner, "rename snakeXcase fields", nil)
	seedTask(t, db, owner, "escape the \\ backslash", nil)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "100%", want: []string{"discount 100% off"}},
		{search: "snake_case", want: []string{"rename snake_case fields"}},
		{search: "the \\ back", want: []string{"escape the \\ backslash"}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := listTitles(t, repo, owner, ListQuery{Search: tt.search, SortBy: SortByCreatedAt, Order: OrderAsc})
			assertOrder(t, got, tt.want)
		})
	}
}

func TestList_FilterComposition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	seedTask(t, db, owner, "report alpha", func(tk *domain.Task) {
		tk.Priority = domain.PriorityHigh
		tk.Category = strptr("Work")
	})
	seedTask(t, db, owner, "report beta", func(tk *domain.Task) {
		tk.Priority = domain.PriorityLow
		tk.Category = strptr("Work")
	})
	seedTask(t, db, owner, "groceries", func(tk *domain.Task) {
		tk.Priority = domain.PriorityHigh
		tk.Category = strptr("Work")
	})
	seedTask(t, db, owner, "report gamma", func(tk *domain.Task) {
		tk.Priority = domain.PriorityHigh
		tk.Category = strptr("Home")
	})

	base := ListQuery{SortBy: SortByCreatedAt, Order: OrderAsc}

	// All three filters together must equal the intersection of each alone.
	combined := base
	combined.Search = "report"
	combined.Priority = "high"
	combined.Category = "Work"
	got := listTitles(t, repo, owner, combined)
	assertOrder(t, got, []string{"report alpha"})

	searchOnly := base
	searchOnly.Search = "report"
	if titles := listTitles(t, repo, owner, searchOnly); len(titles) != 3 {
		t.Errorf("search-only matches = %d, want 3", len(titles))
	}

	priorityOnly := base
	priorityOnly.Priority = "high"
	if titles := listTitles(t, repo, owner, priorityOnly); len(titles) != 3 {
		t.Errorf("priority-only matches = %d, want 3", len(titles))
	}

	categoryOnly := base
	categoryOnly.Category = "Work"
	if titles := listTitles(t, repo, owner, categoryOnly); len(titles) != 3 {
		t.Errorf("category-only matches = %d, want 3", len(titles))
	}
}

func TestList_CategoryFilterExactMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	seedTask(t, db, owner, "filed", func(tk *domain.Task) {
		tk.Category = strptr("Work")
	})

	tasks, err := repo.List(context.Background(), owner, ListQuery{Category: "work", SortBy: SortByCreatedAt, Order: OrderDesc})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("category filter is exact-match; %q must not match %q", "work", "Work")
	}
}

func TestList_PriorityOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	seedTask(t, db, owner, "low", func(tk *domain.Task) { tk.Priority = domain.PriorityLow })
	seedTask(t, db, owner, "high", func(tk *domain.Task) { tk.Priority = domain.PriorityHigh })
	// Legacy value written before the enum was enforced.
	seedTask(t, db, owner, "archived", func(tk *domain.Task) { tk.Priority = domain.Priority("archived") })
	seedTask(t, db, owner, "medium", func(tk *domain.Task) { tk.Priority = domain.PriorityMedium })

	desc := listTitles(t, repo, owner, ListQuery{SortBy: SortByPriority, Order: OrderDesc})
	assertOrder(t, desc, []string{"high", "medium", "low", "archived"})

	asc := listTitles(t, repo, owner, ListQuery{SortBy: SortByPriority, Order: OrderAsc})
	assertOrder(t, asc, []string{"archived", "low", "medium", "high"})
}

func TestList_DueDateNullLast(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, db, owner, "january", func(tk *domain.Task) { tk.DueDate = timeptr(jan) })
	seedTask(t, db, owner, "unscheduled", nil)
	seedTask(t, db, owner, "february", func(tk *domain.Task) { tk.DueDate = timeptr(feb) })

	asc := listTitles(t, repo, owner, ListQuery{SortBy: SortByDueDate, Order: OrderAsc})
	assertOrder(t, asc, []string{"january", "february", "unscheduled"})

	desc := listTitles(t, repo, owner, ListQuery{SortBy: SortByDueDate, Order: OrderDesc})
	assertOrder(t, desc, []string{"february", "january", "unscheduled"})
}

func TestList_CreatedAtTieBreakDeterministic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	// Two concurrent creates can land with identical timestamps; their
	// relative order must still be identical on every call.
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedTask(t, db, owner, "first", func(tk *domain.Task) { tk.CreatedAt = created })
	seedTask(t, db, owner, "second", func(tk *domain.Task) { tk.CreatedAt = created })

	q := ListQuery{SortBy: SortByCreatedAt, Order: OrderDesc}
	initial := listTitles(t, repo, owner, q)
	for i := 0; i < 5; i++ {
		assertOrder(t, listTitles(t, repo, owner, q), initial)
	}
}

func TestRepository_UpdateClearsNullableColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	tk := seedTask(t, db, owner, "scheduled", func(tk *domain.Task) {
		tk.DueDate = timeptr(due)
		tk.Category = strptr("Errands")
		tk.IsCompleted = true
	})

	tk.DueDate = nil
	tk.Category = nil
	tk.IsCompleted = false
	if err := repo.Update(context.Background(), tk); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByOwner(context.Background(), owner, tk.ID)
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	if found.DueDate != nil {
		t.Errorf("due date = %v, want cleared to NULL", found.DueDate)
	}
	if found.Category != nil {
		t.Errorf("category = %v, want cleared to NULL", *found.Category)
	}
	if found.IsCompleted {
		t.Error("is_completed = true, want false persisted")
	}
}

func TestRepository_DeleteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	tk := seedTask(t, db, owner, "doomed", nil)

	if err := repo.Delete(context.Background(), owner, tk.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Second delete reports not-found, never a fault.
	err := repo.Delete(context.Background(), owner, tk.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("repeat Delete() error = %v, want ErrNotFound", err)
	}

	// Deleted rows must not shadow list results or counts.
	tasks, err := repo.List(context.Background(), owner, ListQuery{SortBy: SortByCreatedAt, Order: OrderDesc})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list after delete, got %d tasks", len(tasks))
	}
}
