package task

import (
	"slices"
	"strings"
	"time"

	"myday/internal/clock"
)

type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCategory is used when a draft carries neither a category nor tags.
const DefaultCategory = "work"

// Task fields are owned by Store. Values handed out are copies.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     clock.Date `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	IsImportant bool       `json:"isImportant"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t Task) Done() bool { return t.Status == StatusDone }

func (t Task) Scheduled() bool { return !t.DueDate.IsZero() }

// Labels returns the category followed by the tags.
func (t Task) Labels() []string {
	out := make([]string, 0, len(t.Tags)+1)
	if t.Category != "" {
		out = append(out, t.Category)
	}
	return append(out, t.Tags...)
}

func (t Task) clone() Task {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

// Draft is the input to Store.Create. Only Title is required.
type Draft struct {
	Title       string
	Description string
	DueDate     clock.Date
	Priority    Priority
	Category    string
	Tags        []string
}

// Patch represents a partial update.
// nil pointer => "no change"
type Patch struct {
	Title       *string
	Description *string
	DueDate     *clock.Date
	Priority    *Priority
	Category    *string
	Tags        *[]string
}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusTodo, nil
	case StatusTodo, StatusDone:
		return st, nil
	default:
		return "", &ValidationError{Field: "status", Reason: "must be todo or done"}
	}
}

func normalizePriority(p Priority) Priority {
	parsed, err := ParsePriority(string(p))
	if err != nil {
		return PriorityMedium
	}
	return parsed
}

func normalizeStatus(s Status) Status {
	parsed, err := ParseStatus(string(s))
	if err != nil {
		return StatusTodo
	}
	return parsed
}

// NormalizeTags trims, drops empties and removes case-insensitive duplicates,
// keeping the first spelling.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

func resolveCategory(category string, tags []string) string {
	if c := strings.ToLower(strings.TrimSpace(category)); c != "" {
		return c
	}
	if len(tags) > 0 {
		return strings.ToLower(tags[0])
	}
	return DefaultCategory
}

func normalizeTask(t *Task) {
	t.Priority = normalizePriority(t.Priority)
	t.Status = normalizeStatus(t.Status)
	t.Tags = NormalizeTags(t.Tags)
	if strings.TrimSpace(t.Category) == "" {
		t.Category = resolveCategory("", t.Tags)
	}
}
