package view

import (
	"fmt"

	"myday/internal/task"
)

type Progress struct {
	Completed  int
	Total      int
	Percentage float64
}

func ComputeProgress(tasks []task.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done() {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

func (p Progress) Remaining() int { return p.Total - p.Completed }

func (p Progress) String() string {
	return fmt.Sprintf("%d of %d completed", p.Completed, p.Total)
}

// Counts are the sidebar badges, always computed over the whole collection.
type Counts struct {
	Important int
	Planned   int
}

func CountPages(tasks []task.Task) Counts {
	var c Counts
	for _, t := range tasks {
		if t.IsImportant {
			c.Important++
		}
		if t.Scheduled() {
			c.Planned++
		}
	}
	return c
}

func (c Counts) ImportantLabel() string {
	return plural(c.Important, "task") + " starred"
}

func (c Counts) PlannedLabel() string {
	return plural(c.Planned, "task") + " scheduled"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
