package ui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"myday/internal/config"
	"myday/internal/task"
	"myday/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	starStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	overdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bucketStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	priorityStyle = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	today := m.clock.Now().Format("Monday, January 2, 2006")
	b.WriteString(titleStyle.Render(m.page.Title()) + "  " + dimStyle.Render(today))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString("No tasks found. Press '" + m.cfg.Keys.Add + "' to add one.\n")
	} else if m.page == view.PagePlanned {
		b.WriteString(m.renderBuckets())
	} else {
		b.WriteString(m.renderTaskList(m.tasks, 0))
	}

	b.WriteString("\n")
	b.WriteString(renderProgress(view.ComputeProgress(m.tasks)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.renderFilter()))
	b.WriteString("\n---\n")

	switch {
	case m.form != nil:
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTabs() string {
	counts := m.sel.Counts()
	parts := make([]string, 0, len(view.Pages))
	for i, p := range view.Pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		switch p {
		case view.PageImportant:
			label += " (" + counts.ImportantLabel() + ")"
		case view.PagePlanned:
			label += " (" + counts.PlannedLabel() + ")"
		}
		if p == m.page {
			label = titleStyle.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderBuckets() string {
	var b strings.Builder
	offset := 0
	for _, bucket := range m.buckets {
		style := bucketStyle
		if bucket.Kind == view.BucketOverdue {
			style = overdueStyle
		}
		noun := "tasks"
		if bucket.Count() == 1 {
			noun = "task"
		}
		b.WriteString(style.Render(bucket.Label()))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d %s", bucket.Count(), noun)))
		b.WriteString("\n")
		b.WriteString(m.renderTaskList(bucket.Tasks, offset))
		offset += bucket.Count()
	}
	return b.String()
}

// renderTaskList renders rows; offset is the index of the first row in m.tasks.
func (m Model) renderTaskList(tasks []task.Task, offset int) string {
	today := m.clock.Today()
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if m.cursor == offset+i && m.mode == modeList && m.form == nil {
			cursor = ">"
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Done() {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}
		star := " "
		if t.IsImportant {
			star = starStyle.Render("*")
		}

		meta := []string{
			capitalize(t.Category),
			priorityStyle[t.Priority].Render(strings.ToUpper(string(t.Priority))),
			view.DueLabel(t.DueDate, today),
		}
		fmt.Fprintf(&b, "%s %s %s %s  %s\n", cursor, checkbox, star, title, dimStyle.Render(strings.Join(meta, " | ")))
	}
	return b.String()
}

func renderProgress(p view.Progress) string {
	const width = 20
	filled := int(p.Percentage / 100 * width)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("[%s] %s", bar, p)
}

func (m Model) renderFilter() string {
	show := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return view.All
		}
		return v
	}
	s := fmt.Sprintf("status:%s  priority:%s  category:%s", show(m.filter.Status), show(m.filter.Priority), show(m.filter.Category))
	if m.filter.Search != "" {
		s += fmt.Sprintf("  search:%q", m.filter.Search)
	}
	return s
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	header := "New task"
	if m.form.taskID != 0 {
		header = fmt.Sprintf("Edit task #%d", m.form.taskID)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n")
	values := m.form.values()
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		fmt.Fprintf(&b, "%s %-26s : %s\n", prefix, name, emptyPlaceholder(values[i]))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Task #%d\n", t.ID)
	fmt.Fprintf(&b, "Title       : %s\n", t.Title)
	fmt.Fprintf(&b, "Description : %s\n", emptyPlaceholder(t.Description))
	fmt.Fprintf(&b, "Status      : %s\n", t.Status)
	fmt.Fprintf(&b, "Priority    : %s\n", t.Priority)
	fmt.Fprintf(&b, "Category    : %s\n", emptyPlaceholder(t.Category))
	fmt.Fprintf(&b, "Tags        : %s\n", emptyPlaceholder(strings.Join(t.Tags, ", ")))
	fmt.Fprintf(&b, "Due         : %s\n", view.DueLabel(t.DueDate, m.clock.Today()))
	fmt.Fprintf(&b, "Starred     : %t", t.IsImportant)
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • 1-4/%s page • %s add • %s edit • space toggle • %s star • %s delete • %s search • %s/%s/%s filter • %s quit",
		k.Up, k.Down, k.NextPage, k.Add, k.Edit, k.Star, k.Delete, k.Search, k.FilterStatus, k.FilterPriority, k.FilterCategory, k.Quit)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
