package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPriorityUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Priority
		wantErr  bool
	}{
		{name: "json number", input: `3`, expected: PriorityHigh},
		{name: "numeric string", input: `"3"`, expected: PriorityHigh},
		{name: "low bound", input: `1`, expected: PriorityLow},
		{name: "high bound", input: `4`, expected: PriorityCritical},
		{name: "non-numeric string rejected", input: `"high"`, wantErr: true},
		{name: "boolean rejected", input: `true`, wantErr: true},
		{name: "object rejected", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p Priority
			err := json.Unmarshal([]byte(tt.input), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && p != tt.expected {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, p, tt.expected)
			}
		})
	}
}

func TestPriorityValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priority Priority
		valid    bool
	}{
		{0, false},
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{PriorityCritical, true},
		{5, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := tt.priority.Valid(); got != tt.valid {
			t.Errorf("Priority(%d).Valid() = %v, want %v", tt.priority, got, tt.valid)
		}
	}
}

func TestTodoUpdateIsEmpty(t *testing.T) {
	t.Parallel()

	if !(TodoUpdate{}).IsEmpty() {
		t.Error("expected zero update to be empty")
	}

	title := "x"
	if (TodoUpdate{Title: &title}).IsEmpty() {
		t.Error("expected title update to be non-empty")
	}

	if (TodoUpdate{ClearDueDate: true}).IsEmpty() {
		t.Error("expected due date clearing to be non-empty")
	}

	now := time.Now()
	if (TodoUpdate{DueDate: &now}).IsEmpty() {
		t.Error("expected due date update to be non-empty")
	}
}

func TestTodoJSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Todo{Title: "buy milk"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"id", "userId", "title", "isCompleted", "priority", "createdAt", "updatedAt"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected field %q in todo JSON, got keys %v", key, fields)
		}
	}
	if _, ok := fields["dueDate"]; ok {
		t.Error("expected unset dueDate to be omitted")
	}
}
