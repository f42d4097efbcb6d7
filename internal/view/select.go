package view

import (
	"fmt"
	"strings"

	"myday/internal/clock"
	"myday/internal/task"
)

type Page string

const (
	PageMyDay     Page = "my-day"
	PageImportant Page = "important"
	PagePlanned   Page = "planned"
	PageAllTasks  Page = "all-tasks"
)

// Pages lists the pages in navigation order.
var Pages = []Page{PageMyDay, PageImportant, PagePlanned, PageAllTasks}

func ParsePage(s string) (Page, error) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q (want my-day, important, planned or all-tasks)", s)
}

func (p Page) Title() string {
	switch p {
	case PageImportant:
		return "Important"
	case PagePlanned:
		return "Planned"
	case PageAllTasks:
		return "All Tasks"
	default:
		return "My Day"
	}
}

// All is the sentinel that disables a secondary filter.
const All = "all"

// Filter holds the optional secondary criteria. Empty fields and All mean
// "not applied".
type Filter struct {
	Status   string
	Priority string
	Category string
	Search   string
}

func active(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	return v, v != "" && v != All
}

// TaskSource is satisfied by *task.Store.
type TaskSource interface {
	All() []task.Task
}

// Selector derives page views from a store.
type Selector struct {
	src   TaskSource
	clock clock.Clock
}

func NewSelector(src TaskSource, clk clock.Clock) *Selector {
	return &Selector{src: src, clock: clk}
}

func (s *Selector) Select(page Page, f Filter) []task.Task {
	return Select(s.src.All(), page, s.clock.Today(), f)
}

// Planned returns the planned page split into date buckets.
func (s *Selector) Planned(f Filter) []Bucket {
	today := s.clock.Today()
	return Group(Select(s.src.All(), PagePlanned, today, f), today)
}

func (s *Selector) Counts() Counts {
	return CountPages(s.src.All())
}

// Select applies the page's base filter, then status, priority, category and
// search. Input order is preserved. An unknown page behaves like my-day.
func Select(tasks []task.Task, page Page, today clock.Date, f Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if onPage(t, page, today) && f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func onPage(t task.Task, page Page, today clock.Date) bool {
	switch page {
	case PageImportant:
		return t.IsImportant
	case PagePlanned:
		return t.Scheduled()
	case PageAllTasks:
		return true
	default:
		return t.Scheduled() && t.DueDate == today
	}
}

// Match reports whether t passes every active criterion.
func (f Filter) Match(t task.Task) bool {
	if v, ok := active(f.Status); ok && string(t.Status) != v {
		return false
	}
	if v, ok := active(f.Priority); ok && string(t.Priority) != v {
		return false
	}
	if v, ok := active(f.Category); ok && strings.ToLower(t.Category) != v {
		return false
	}
	return matchSearch(t, f.Search)
}

func matchSearch(t task.Task, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, label := range t.Labels() {
		if strings.Contains(strings.ToLower(label), term) {
			return true
		}
	}
	return false
}
