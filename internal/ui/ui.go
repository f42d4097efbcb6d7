package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"myday/internal/clock"
	"myday/internal/config"
	"myday/internal/task"
	"myday/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
)

var (
	statusCycle   = []string{view.All, string(task.StatusTodo), string(task.StatusDone)}
	priorityCycle = []string{view.All, string(task.PriorityLow), string(task.PriorityMedium), string(task.PriorityHigh)}
)

type Model struct {
	store  *task.Store
	sel    *view.Selector
	clock  clock.Clock
	cfg    config.Config
	logger *zap.Logger

	page    view.Page
	filter  view.Filter
	tasks   []task.Task
	buckets []view.Bucket

	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
}

func New(store *task.Store, clk clock.Clock, cfg config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	page, err := view.ParsePage(cfg.DefaultPage)
	if err != nil {
		page = view.PageMyDay
	}

	m := Model{
		store:  store,
		sel:    view.NewSelector(store, clk),
		clock:  clk,
		cfg:    cfg,
		logger: logger,
		page:   page,
		filter: view.Filter{Status: defaultStatus(cfg.DefaultFilter)},
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to star, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Star, cfg.Keys.Delete),
	}
	m.refresh()
	return m
}

// defaultStatus maps the configured status filter onto statusCycle, falling
// back to all for unknown values.
func defaultStatus(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if !slices.Contains(statusCycle, v) {
		return view.All
	}
	return v
}

func Run(store *task.Store, clk clock.Clock, cfg config.Config, logger *zap.Logger) error {
	program := tea.NewProgram(New(store, clk, cfg, logger))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeSearch {
			return m.updateSearchMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// refresh re-queries the selector. The planned page is shown bucketed, so the
// cursor walks the flattened bucket order.
func (m *Model) refresh() {
	if m.page == view.PagePlanned {
		m.buckets = m.sel.Planned(m.filter)
		m.tasks = view.Flatten(m.buckets)
	} else {
		m.buckets = nil
		m.tasks = m.sel.Select(m.page, m.filter)
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

// report turns a store error into a status line. Persistence failures are
// warnings: the change is kept in memory.
func (m *Model) report(done string, err error) {
	switch {
	case err == nil:
		m.status = done
	case task.IsWarning(err):
		m.logger.Warn("Change not saved", zap.Error(err))
		m.status = fmt.Sprintf("%s (not saved: %v)", done, err)
	default:
		m.status = fmt.Sprintf("failed: %v", err)
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case m.cfg.Keys.NextPage, "right":
		m.switchPage(1)
	case m.cfg.Keys.PrevPage, "left":
		m.switchPage(-1)
	case "1", "2", "3", "4":
		m.page = view.Pages[int(key[0]-'1')]
		m.cursor = 0
		m.refresh()
		m.status = m.page.Title()
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		err := m.store.ToggleStatus(ctx, t.ID)
		m.refresh()
		m.report("Toggled task", err)
	case m.cfg.Keys.Star:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		err := m.store.ToggleImportant(ctx, t.ID)
		m.refresh()
		m.report("Toggled star", err)
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.filter.Search)
		m.input.Placeholder = "search title, description, tags"
		m.input.Focus()
		m.status = "Search: Enter to apply, Esc to clear"
	case m.cfg.Keys.FilterStatus:
		m.filter.Status = next(statusCycle, m.filter.Status)
		m.refresh()
		m.status = "Status filter: " + m.filter.Status
	case m.cfg.Keys.FilterPriority:
		m.filter.Priority = next(priorityCycle, m.filter.Priority)
		m.refresh()
		m.status = "Priority filter: " + m.filter.Priority
	case m.cfg.Keys.FilterCategory:
		m.filter.Category = next(m.categories(), m.filter.Category)
		m.refresh()
		m.status = "Category filter: " + m.filter.Category
	}
	return m, nil
}

func (m *Model) switchPage(delta int) {
	i := slices.Index(view.Pages, m.page)
	m.page = view.Pages[wrapIndex(i+delta, len(view.Pages))]
	m.cursor = 0
	m.refresh()
	m.status = m.page.Title()
}

// categories lists "all" followed by every category in the store, in first-seen order.
func (m Model) categories() []string {
	out := []string{view.All}
	for _, t := range m.store.All() {
		c := strings.ToLower(t.Category)
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func next(cycle []string, cur string) string {
	cur = strings.ToLower(strings.TrimSpace(cur))
	if cur == "" {
		cur = view.All
	}
	i := slices.Index(cycle, cur)
	return cycle[wrapIndex(i+1, len(cycle))]
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.filter.Search = ""
		m.status = "Search cleared"
	case m.cfg.Keys.Confirm, "enter":
		m.filter.Search = strings.TrimSpace(m.input.Value())
		m.status = "Search: " + m.filter.Search
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.cursor = 0
	m.refresh()
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		err := m.store.Delete(context.Background(), m.pendingDel.ID)
		m.refresh()
		m.report("Deleted task", err)
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = nil
	return m, nil
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
