package task

import (
	"strings"
	"time"
)

// DefaultCategoryID is the reserved fallback category. It always exists and
// can never be deleted.
const DefaultCategoryID = "default"

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts the priority names case-insensitively
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PriorityNone, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return p, nil
}

type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	CategoryID  string
	ClassIDs    []string
	CreatedAt   time.Time
	Order       int
	DueDate     *time.Time
	Priority    Priority
}

// EffectiveCategory is the category a task is displayed and filtered under.
// An empty category means the default one.
func (t Task) EffectiveCategory() string {
	if t.CategoryID == "" {
		return DefaultCategoryID
	}
	return t.CategoryID
}

func (t Task) HasClass(id string) bool {
	for _, c := range t.ClassIDs {
		if c == id {
			return true
		}
	}
	return false
}

func (t Task) clone() Task {
	if t.ClassIDs != nil {
		t.ClassIDs = append([]string{}, t.ClassIDs...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// TaskInput holds the caller supplied fields of a new task. The store assigns
// the id, creation time and order.
type TaskInput struct {
	Title       string
	Description string
	Completed   bool
	CategoryID  string
	ClassIDs    []string
	DueDate     *time.Time
	Priority    Priority
}

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type CategoryInput struct {
	Name  string
	Color string
}

// Class is a custom label. A task can carry any number of them.
type Class struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type ClassInput struct {
	Name  string
	Color string
}
