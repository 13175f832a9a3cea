package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/td0m/taskflow/internal/focus"
	"github.com/td0m/taskflow/internal/ui"
	"github.com/td0m/taskflow/pkg/dateinput"
	"github.com/td0m/taskflow/pkg/notify"
	"github.com/td0m/taskflow/pkg/task"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Open the interactive task list",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{interactive: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(e.store, e.events, focus.New(e.cfg.Focus.Focus(), e.cfg.Focus.Break()))
			p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err := p.Run()
			return err
		},
	}
}

const (
	headerHeight = 3
	footerHeight = 1
)

type mode int

const (
	modeNormal mode = iota
	modeNew
	modeRename
	modeDue
	modeFocus
)

type tickMsg time.Time

type app struct {
	mode mode

	viewport  viewport.Model
	nameinput textinput.Model
	dueinput  dateinput.Model
	tabs      ui.Tabs
	timer     *focus.Timer
	ticking   bool

	cursor  int
	visible []task.Task
	labels  ui.Labels

	// status is the last message shown in the footer
	status    string
	statusErr bool

	store  *task.Store
	events *notify.Recorder
	seen   int
	now    func() time.Time
}

func newApp(store *task.Store, events *notify.Recorder, timer *focus.Timer) *app {
	i := textinput.New()
	i.Focus()
	i.Prompt = ""
	i.Width = 40

	a := &app{
		nameinput: i,
		dueinput:  dateinput.NewModel(),
		timer:     timer,
		store:     store,
		events:    events,
		seen:      events.Len(),
		now:       time.Now,
	}
	a.refresh()
	return a
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *app) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.tabs.Width = msg.Width
		m.setCursor(m.cursor) // make sure cursor is visible
	case tickMsg:
		cmd = m.tick()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.mode == modeFocus {
				m.timer.Pause()
			}
			m.mode = modeNormal
		default:
			cmd = m.keyUpdate(msg)
		}
	}
	m.pollEvents()
	m.render()
	return m, cmd
}

// handle keys differently based on the current mode
func (m *app) keyUpdate(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeFocus:
		switch msg.String() {
		case " ", "enter":
			if ev, ok := m.timer.Toggle(); ok {
				m.setStatus(ev.Title+": "+ev.Detail, false)
			}
			return m.startTicking()
		case "r":
			m.timer.Reset()
		case "q", "f":
			m.timer.Pause()
			m.mode = modeNormal
		}
	case modeNew, modeRename:
		if msg.Type == tea.KeyEnter {
			m.submitName()
			return nil
		}
		m.nameinput, cmd = m.nameinput.Update(msg)
		m.nameinput.Width = len(m.nameinput.Value()) + 1
	case modeDue:
		if msg.Type == tea.KeyEnter {
			m.submitDue()
			return nil
		}
		m.dueinput, cmd = m.dueinput.Update(msg)
	case modeNormal:
		switch msg.String() {
		case "q":
			return tea.Quit
		case "g":
			m.setCursor(0)
		case "G":
			m.setCursor(len(m.visible))
		case "ctrl+d":
			m.setCursor(m.cursor + 10)
		case "ctrl+u":
			m.setCursor(m.cursor - 10)
		case "tab", "l":
			m.tabs.Next()
			m.setTab()
		case "shift+tab", "h":
			m.tabs.Prev()
			m.setTab()
		case "j", "down":
			m.setCursor(m.cursor + 1)
		case "k", "up":
			m.setCursor(m.cursor - 1)
		case "J":
			m.move(1)
		case "K":
			m.move(-1)
		case "o":
			m.mode = modeNew
			m.nameinput.SetValue("")
			m.nameinput.Width = 1
		case "i":
			if t, ok := m.atCursor(); ok {
				m.mode = modeRename
				m.nameinput.SetValue(t.Title)
				m.nameinput.Width = len(t.Title) + 1
				m.nameinput.CursorEnd()
			}
		case "d":
			if t, ok := m.atCursor(); ok {
				m.mode = modeDue
				m.dueinput.SetValue(t.DueDate)
			}
		case "t", " ":
			if t, ok := m.atCursor(); ok {
				m.check(m.store.ToggleTaskCompletion(t.ID))
				m.refresh()
			}
		case "x", "delete":
			if t, ok := m.atCursor(); ok {
				m.check(m.store.DeleteTask(t.ID))
				m.refresh()
			}
		case "f":
			if t, ok := m.atCursor(); ok {
				m.check(m.store.SetActiveTask(t.ID))
				m.mode = modeFocus
			}
		}
	}
	return cmd
}

func (m *app) submitName() {
	editing := m.mode
	m.mode = modeNormal
	title := m.nameinput.Value()
	if editing == modeNew {
		t, err := m.store.AddTask(task.TaskInput{Title: title, CategoryID: m.tabs.Value()})
		if m.check(err) {
			m.refresh()
			m.cursorTo(t.ID)
		}
		return
	}
	if t, ok := m.atCursor(); ok {
		t.Title = title
		m.check(m.store.UpdateTask(t))
		m.refresh()
	}
}

// submitDue keeps the input open until the text parses.
func (m *app) submitDue() {
	if !m.dueinput.Valid() {
		m.setStatus("unrecognised date", true)
		return
	}
	m.mode = modeNormal
	if t, ok := m.atCursor(); ok {
		t.DueDate = m.dueinput.Value()
		m.check(m.store.UpdateTask(t))
		m.refresh()
	}
}

// move swaps the task under the cursor with its neighbour in the active tab.
func (m *app) move(delta int) {
	to := m.cursor + delta
	if _, ok := m.atCursor(); !ok || to < 0 || to >= len(m.visible) {
		return
	}
	if m.check(m.store.ReorderTasks(m.cursor, to)) {
		m.refresh()
		m.setCursor(to)
	}
}

func (m *app) setTab() {
	m.check(m.store.SetActiveCategory(m.tabs.Value()))
	m.refresh()
	m.setCursor(0)
}

// refresh reloads tabs and the visible tasks from the store.
func (m *app) refresh() {
	tabs := []ui.Tab{{ID: "", Label: "All"}}
	for _, c := range m.store.Categories() {
		tabs = append(tabs, ui.Tab{ID: c.ID, Label: c.Name})
	}
	m.tabs.SetTabs(tabs)
	m.tabs.Select(m.store.ActiveCategory())

	m.visible = m.store.ActiveView()
	m.labels = ui.NewLabels(m.store.Categories(), m.store.Classes())
	st := m.store.Stats()
	m.tabs.Info = lipgloss.NewStyle().Foreground(ui.Secondary).Render(
		strconv.Itoa(st.Completed) + "/" + strconv.Itoa(st.Total) + " done")
	m.setCursor(m.cursor)
}

func (m *app) tick() tea.Cmd {
	if ev, ok := m.timer.Tick(time.Second); ok {
		m.setStatus(ev.Title+": "+ev.Detail, false)
	}
	if !m.timer.Running() {
		m.ticking = false
		return nil
	}
	return tickCmd()
}

// startTicking keeps a single tick loop alive while the timer runs.
func (m *app) startTicking() tea.Cmd {
	if !m.timer.Running() || m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollEvents shows the newest store notification in the footer.
func (m *app) pollEvents() {
	if n := m.events.Len(); n > m.seen {
		m.seen = n
		if ev, ok := m.events.Last(); ok {
			m.setStatus(ev.Title+": "+ev.Detail, false)
		}
	}
}

func (m *app) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// check reports err in the footer. The change may still have been applied,
// as with a failed save.
func (m *app) check(err error) bool {
	if err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	return true
}

func (m *app) render() {
	m.viewport.SetContent(m.viewTasks())
}

func (m *app) setCursor(value int) {
	size := len(m.visible)
	m.cursor = clamp(value, 0, max(size-1, 0))

	// for when no tasks
	if size == 0 || m.viewport.Height <= 0 {
		return
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.YOffset = m.cursor - m.viewport.Height + 1
	}
	if m.cursor < m.viewport.YOffset {
		m.viewport.YOffset = m.cursor
	}
}

func (m *app) cursorTo(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.setCursor(i)
			return
		}
	}
}

func (m app) atCursor() (task.Task, bool) {
	// if no items visible
	if m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m app) viewTasks() string {
	var b strings.Builder
	now := m.now()
	active, hasActive := m.store.ActiveTask()
	for i, t := range m.visible {
		opts := ui.RowOptions{
			Selected:     i == m.cursor,
			ShowCategory: m.tabs.Value() == "",
		}
		if m.mode == modeRename && i == m.cursor {
			opts.Title = m.nameinput.View()
		}
		b.WriteString(ui.RenderRow(t, m.labels, now, opts))
		if hasActive && active.ID == t.ID {
			b.WriteString(ui.TaskTimer.Render(" ◷"))
		}
		b.WriteString("\n")
	}
	switch {
	case m.mode == modeNew:
		b.WriteString(ui.RenderIcon(task.Task{}) + m.nameinput.View() + "\n")
	case len(m.visible) == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(ui.Faded).Padding(0, 1).Render("no tasks here, press o to add one") + "\n")
	}
	return b.String()
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *app) View() string {
	return m.tabs.View() + m.viewport.View() + "\n" + m.statusline()
}

func (m app) statusline() string {
	faded := lipgloss.NewStyle().Foreground(ui.Faded)
	switch m.mode {
	case modeDue:
		return m.dueinput.View()
	case modeNew:
		return faded.Render("new task, enter to save, esc to cancel")
	case modeFocus:
		title := ""
		if t, ok := m.store.ActiveTask(); ok {
			title = t.Title
		}
		state := "paused"
		if m.timer.Running() {
			state = "running"
		}
		return ui.TaskTimer.Render(m.timer.Mode().String()+" "+m.timer.String()) +
			ui.TaskDivider + title +
			ui.TaskDivider + faded.Render(state+", cycle "+strconv.Itoa(m.timer.Cycles())+", space start/pause, r reset, esc close")
	}
	if m.status == "" {
		return faded.Render("o new  i rename  d due  t toggle  x delete  J/K move  f focus  h/l tabs  q quit")
	}
	if m.statusErr {
		return lipgloss.NewStyle().Foreground(ui.Red).Render(m.status)
	}
	return lipgloss.NewStyle().Foreground(ui.Secondary).Render(m.status)
}

func clamp(v, low, high int) int {
	return min(high, max(low, v))
}
