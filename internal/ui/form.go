package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/clock"
	"myday/internal/task"
	"myday/internal/view"
)

// formState backs both the add and the edit form. taskID is 0 when adding.
type formState struct {
	taskID      int64
	title       string
	description string
	due         string
	priority    string
	category    string
	tags        string
	index       int
}

func formFields() []string {
	return []string{"title", "description", "due date (YYYY-MM-DD)", "priority (low/medium/high)", "category", "tags (comma separated)"}
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	if t == nil {
		m.form = &formState{
			due:      m.defaultDue(),
			priority: string(task.PriorityMedium),
		}
		m.status = "Add task: Enter to advance, Esc to cancel"
	} else {
		m.form = &formState{
			taskID:      t.ID,
			title:       t.Title,
			description: t.Description,
			due:         t.DueDate.String(),
			priority:    string(t.Priority),
			category:    t.Category,
			tags:        strings.Join(t.Tags, ", "),
		}
		m.status = "Edit task: Enter to advance, Esc to cancel"
	}
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.Focus()
	m.mode = modeForm
	return m, nil
}

// defaultDue pre-fills today on pages where an undated task would not show up.
func (m Model) defaultDue() string {
	switch m.page {
	case view.PageMyDay, view.PagePlanned:
		return m.clock.Today().String()
	default:
		return ""
	}
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	due, err := clock.ParseDate(f.due)
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	priority, err := task.ParsePriority(f.priority)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	tags := splitTags(f.tags)

	ctx := context.Background()
	var (
		id   int64
		done string
	)
	if f.taskID == 0 {
		var created task.Task
		created, err = m.store.Create(ctx, task.Draft{
			Title:       f.title,
			Description: f.description,
			DueDate:     due,
			Priority:    priority,
			Category:    f.category,
			Tags:        tags,
		})
		id, done = created.ID, "Added task"
	} else {
		_, _, err = m.store.Update(ctx, f.taskID, task.Patch{
			Title:       &f.title,
			Description: &f.description,
			DueDate:     &due,
			Priority:    &priority,
			Category:    &f.category,
			Tags:        &tags,
		})
		id, done = f.taskID, "Task saved"
	}
	if err != nil && !task.IsWarning(err) {
		m.status = err.Error()
		return m, nil
	}

	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.refresh()
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			break
		}
	}
	m.report(done, err)
	return m, nil
}

func splitTags(s string) []string {
	return task.NormalizeTags(strings.Split(s, ","))
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.description
	case 2:
		return fs.due
	case 3:
		return fs.priority
	case 4:
		return fs.category
	case 5:
		return fs.tags
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.due = v
	case 3:
		fs.priority = v
	case 4:
		fs.category = v
	case 5:
		fs.tags = v
	}
}

func (fs formState) values() []string {
	return []string{fs.title, fs.description, fs.due, fs.priority, fs.category, fs.tags}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
}
