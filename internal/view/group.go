package view

import (
	"myday/internal/clock"
	"myday/internal/task"
)

type BucketKind string

const (
	BucketOverdue  BucketKind = "overdue"
	BucketToday    BucketKind = "today"
	BucketTomorrow BucketKind = "tomorrow"
	BucketThisWeek BucketKind = "this-week"
)

var bucketOrder = []BucketKind{BucketOverdue, BucketToday, BucketTomorrow, BucketThisWeek}

func (k BucketKind) Label() string {
	switch k {
	case BucketOverdue:
		return "Overdue"
	case BucketToday:
		return "Today"
	case BucketTomorrow:
		return "Tomorrow"
	default:
		return "This Week"
	}
}

type Bucket struct {
	Kind  BucketKind
	Tasks []task.Task
}

func (b Bucket) Label() string { return b.Kind.Label() }

func (b Bucket) Count() int { return len(b.Tasks) }

// BucketFor classifies a due date. "This week" has no upper bound: anything
// after tomorrow lands there.
func BucketFor(due, today clock.Date) BucketKind {
	tomorrow := today.AddDays(1)
	switch {
	case due.Before(today):
		return BucketOverdue
	case due == today:
		return BucketToday
	case due == tomorrow:
		return BucketTomorrow
	default:
		return BucketThisWeek
	}
}

// Group partitions tasks into date buckets in fixed order, omitting empty
// buckets. Tasks without a due date are skipped. Order inside a bucket follows
// the input.
func Group(tasks []task.Task, today clock.Date) []Bucket {
	byKind := make(map[BucketKind][]task.Task, len(bucketOrder))
	for _, t := range tasks {
		if !t.Scheduled() {
			continue
		}
		k := BucketFor(t.DueDate, today)
		byKind[k] = append(byKind[k], t)
	}

	out := make([]Bucket, 0, len(bucketOrder))
	for _, k := range bucketOrder {
		if len(byKind[k]) == 0 {
			continue
		}
		out = append(out, Bucket{Kind: k, Tasks: byKind[k]})
	}
	return out
}

// Flatten returns bucket tasks in display order.
func Flatten(buckets []Bucket) []task.Task {
	var out []task.Task
	for _, b := range buckets {
		out = append(out, b.Tasks...)
	}
	return out
}
