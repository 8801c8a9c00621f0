package task

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantField string
	}{
		{name: "valid", title: "Buy milk"},
		{name: "single char", title: "a"},
		{name: "max length", title: strings.Repeat("x", 255)},
		{name: "empty", title: "", wantField: "title"},
		{name: "too long", title: strings.Repeat("x", 256), wantField: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTitle(tt.title)
			assertValidation(t, err, tt.wantField)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if err := validateDescription(strings.Repeat("d", 2000)); err != nil {
		t.Errorf("2000 chars should pass, got %v", err)
	}
	assertValidation(t, validateDescription(strings.Repeat("d", 2001)), "description")
}

func TestValidatePriority(t *testing.T) {
	tests := []struct {
		name      string
		priority  string
		wantField string
	}{
		{name: "low", priority: "low"},
		{name: "medium", priority: "medium"},
		{name: "high", priority: "high"},
		{name: "unknown value", priority: "urgent", wantField: "priority"},
		{name: "case matters", priority: "High", wantField: "priority"},
		{name: "empty", priority: "", wantField: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePriority(tt.priority)
			assertValidation(t, err, tt.wantField)
		})
	}
}

func TestValidateCategory(t *testing.T) {
	if err := validateCategory(strings.Repeat("c", 100)); err != nil {
		t.Errorf("100 chars should pass, got %v", err)
	}
	assertValidation(t, validateCategory(strings.Repeat("c", 101)), "category")
}

func TestListQueryValidate(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		wantField string
	}{
		{name: "empty query gets defaults", query: ListQuery{}},
		{name: "all valid", query: ListQuery{Search: "milk", SortBy: "due_date", Order: "asc", Priority: "high", Category: "Work"}},
		{name: "invalid sort key", query: ListQuery{SortBy: "title"}, wantField: "sort_by"},
		{name: "invalid order", query: ListQuery{Order: "descending"}, wantField: "order"},
		{name: "invalid priority filter", query: ListQuery{Priority: "urgent"}, wantField: "priority"},
		{name: "oversized search", query: ListQuery{Search: strings.Repeat("s", 256)}, wantField: "search"},
		{name: "oversized category", query: ListQuery{Category: strings.Repeat("c", 101)}, wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			err := q.Validate()
			assertValidation(t, err, tt.wantField)
		})
	}
}

func TestListQueryValidate_Defaults(t *testing.T) {
	q := ListQuery{}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.SortBy != SortByCreatedAt {
		t.Errorf("default sort_by = %q, want %q", q.SortBy, SortByCreatedAt)
	}
	if q.Order != OrderDesc {
		t.Errorf("default order = %q, want %q", q.Order, OrderDesc)
	}

	// A present-but-invalid value must never fall back to the default.
	q = ListQuery{SortBy: "priorty"}
	if err := q.Validate(); err == nil {
		t.Error("misspelled sort_by was silently accepted")
	}
}

// assertValidation checks that err is nil when wantField is empty, and a
// ValidationError naming wantField otherwise.
func assertValidation(t *testing.T, err error, wantField string) {
	t.Helper()

	if wantField == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Field != wantField {
		t.Errorf("field = %q, want %q", verr.Field, wantField)
	}
}
