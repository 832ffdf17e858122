package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/mtbell/tasklight/internal/models"
)

func TestCheckDueDateForCreate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		dueDate *time.Time
		wantErr bool
	}{
		{name: "no due date", dueDate: nil, wantErr: false},
		{name: "future due date", dueDate: &future, wantErr: false},
		{name: "past due date rejected", dueDate: &past, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckDueDateForCreate(tt.dueDate, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDueDateForCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckDueDateForUpdate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name               string
		dueDate            *time.Time
		resultingCompleted bool
		wantErr            bool
	}{
		{name: "no due date on incomplete todo", dueDate: nil, resultingCompleted: false, wantErr: false},
		{name: "future due date on incomplete todo", dueDate: &future, resultingCompleted: false, wantErr: false},
		{name: "past due date on incomplete todo rejected", dueDate: &past, resultingCompleted: false, wantErr: true},
		{name: "past due date allowed when todo ends up completed", dueDate: &past, resultingCompleted: true, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckDueDateForUpdate(tt.dueDate, tt.resultingCompleted, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDueDateForUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckDueDateFieldDetail(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	err := CheckDueDateForCreate(&past, time.Now())

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "dueDate" {
		t.Errorf("expected a single dueDate field detail, got %+v", verr.Fields)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected models.StatusFilter
		wantErr  bool
	}{
		{name: "empty defaults to all", value: "", expected: models.StatusAll},
		{name: "completed", value: "completed", expected: models.StatusCompleted},
		{name: "incomplete", value: "incomplete", expected: models.StatusIncomplete},
		{name: "all", value: "all", expected: models.StatusAll},
		{name: "unknown value rejected", value: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatus(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParseSortField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected models.SortField
		wantErr  bool
	}{
		{name: "empty defaults to createdAt", value: "", expected: models.SortByCreatedAt},
		{name: "dueDate", value: "dueDate", expected: models.SortByDueDate},
		{name: "priority", value: "priority", expected: models.SortByPriority},
		{name: "title", value: "title", expected: models.SortByTitle},
		{name: "snake case rejected", value: "due_date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSortField(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortField(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseSortField(%q) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected models.SortOrder
		wantErr  bool
	}{
		{name: "empty defaults to desc", value: "", expected: models.SortDesc},
		{name: "asc", value: "asc", expected: models.SortAsc},
		{name: "desc", value: "desc", expected: models.SortDesc},
		{name: "uppercase rejected", value: "ASC", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSortOrder(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected *models.Priority
		wantErr  bool
	}{
		{name: "empty means no filter", value: "", expected: nil},
		{name: "valid priority", value: "3", expected: priorityPtr(3)},
		{name: "below range rejected", value: "0", wantErr: true},
		{name: "above range rejected", value: "5", wantErr: true},
		{name: "non-numeric rejected", value: "high", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePriority(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("ParsePriority(%q) = %v, want %v", tt.value, got, tt.expected)
			}
			if got != nil && *got != *tt.expected {
				t.Errorf("ParsePriority(%q) = %d, want %d", tt.value, *got, *tt.expected)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims whitespace", input: "  buy milk  ", expected: "buy milk"},
		{name: "strips control characters", input: "buy\x00 milk\x07", expected: "buy milk"},
		{name: "keeps newlines and tabs", input: "line one\n\tline two", expected: "line one\n\tline two"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeText(tt.input); got != tt.expected {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFromStruct(t *testing.T) {
	t.Parallel()

	type createRequest struct {
		Title    string `validate:"required,min=1,max=200"`
		Priority int    `validate:"omitempty,min=1,max=4"`
	}

	if err := FromStruct(createRequest{Title: "ok", Priority: 2}); err != nil {
		t.Fatalf("expected valid struct to pass, got %v", err)
	}

	err := FromStruct(createRequest{Priority: 9})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("expected details for Title and Priority, got %+v", verr.Fields)
	}
}

func priorityPtr(n int) *models.Priority {
	p := models.Priority(n)
	return &p
}
