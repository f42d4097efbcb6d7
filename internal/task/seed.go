package task

import "myday/internal/clock"

// DefaultTasks is the first-run collection. Due dates are relative to the
// clock's today: three tasks due yesterday, two today and one tomorrow, so
// every page and every planned bucket but "this week" has content.
func DefaultTasks(clk clock.Clock) []Task {
	today := clk.Today()
	yesterday := today.AddDays(-1)
	tomorrow := today.AddDays(1)
	created := clk.Now().Round(0).UTC()

	seed := []struct {
		title     string
		due       clock.Date
		priority  Priority
		category  string
		important bool
	}{
		{"Design new landing page", yesterday, PriorityHigh, "work", true},
		{"Fix critical bug in production", yesterday, PriorityHigh, "work", true},
		{"Buy groceries", yesterday, PriorityMedium, "personal", true},
		{"Client meeting preparation", today, PriorityHigh, "work", true},
		{"Front End Campus", today, PriorityMedium, "work", false},
		{"Review pull requests", tomorrow, PriorityMedium, "work", false},
	}

	tasks := make([]Task, 0, len(seed))
	for i, s := range seed {
		tasks = append(tasks, Task{
			ID:          int64(i + 1),
			Title:       s.title,
			DueDate:     s.due,
			Priority:    s.priority,
			Category:    s.category,
			Tags:        []string{},
			Status:      StatusTodo,
			IsImportant: s.important,
			CreatedAt:   created,
		})
	}
	return tasks
}
