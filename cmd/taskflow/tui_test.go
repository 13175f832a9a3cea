package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
	"github.com/td0m/taskflow/internal/focus"
	"github.com/td0m/taskflow/pkg/notify"
	"github.com/td0m/taskflow/pkg/persist"
	"github.com/td0m/taskflow/pkg/task"
)

func newTestApp(t *testing.T) (*app, *task.Store) {
	t.Helper()
	events := notify.NewRecorder()
	s, err := task.Open(persist.NewMemory(), events)
	if err != nil {
		t.Fatal(err)
	}
	a := newApp(s, events, focus.New(2*time.Second, time.Second))
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return a, s
}

// press feeds keys to the model. Named keys are given in angle brackets,
// everything else is typed rune by rune.
func press(a *app, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		switch k {
		case "<enter>":
			_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
		case "<esc>":
			_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
		case "<space>":
			_, cmd = a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			for _, r := range k {
				_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
			}
		}
	}
	return cmd
}

func titles(ts []task.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestApp_CreateRenameToggleDelete(t *testing.T) {
	is := is.New(t)
	a, s := newTestApp(t)

	press(a, "o", "Buy milk", "<enter>")
	is.Equal(titles(s.Tasks()), []string{"Buy milk"})
	is.True(strings.Contains(a.View(), "Task created"))

	press(a, "i", "!", "<enter>")
	is.Equal(titles(s.Tasks()), []string{"Buy milk!"})

	press(a, "t")
	is.True(s.Tasks()[0].Completed)

	press(a, "x")
	is.Equal(len(s.Tasks()), 0)
	is.True(strings.Contains(a.View(), "Task deleted"))
}

func TestApp_Reorder(t *testing.T) {
	is := is.New(t)
	a, s := newTestApp(t)
	press(a, "o", "a", "<enter>", "o", "b", "<enter>", "o", "c", "<enter>")

	press(a, "g", "J")
	is.Equal(titles(s.ActiveView()), []string{"b", "a", "c"})
	is.Equal(a.cursor, 1) // follows the task

	press(a, "K")
	is.Equal(titles(s.ActiveView()), []string{"a", "b", "c"})

	press(a, "K") // already on top
	is.Equal(titles(s.ActiveView()), []string{"a", "b", "c"})
}

func TestApp_TabsFilterAndCreateInCategory(t *testing.T) {
	is := is.New(t)
	a, s := newTestApp(t)
	press(a, "o", "loose", "<enter>")

	// All, Uncategorized, Work, Personal
	press(a, "l", "l")
	is.Equal(s.ActiveCategory(), "work")
	is.Equal(len(a.visible), 0)

	press(a, "o", "report", "<enter>")
	tk := s.View(task.Filter{Search: "report"})[0]
	is.Equal(tk.CategoryID, "work")
	is.Equal(titles(a.visible), []string{"report"})

	press(a, "h", "h")
	is.Equal(s.ActiveCategory(), "")
	is.Equal(len(a.visible), 2)
}

func TestApp_Due(t *testing.T) {
	is := is.New(t)
	a, s := newTestApp(t)
	press(a, "o", "pay rent", "<enter>")

	press(a, "d", "someday", "<enter>")
	is.Equal(a.mode, modeDue) // stays open on bad input
	is.True(s.Tasks()[0].DueDate == nil)

	press(a, "<esc>", "d", "tomorrow", "<enter>")
	is.Equal(a.mode, modeNormal)
	is.True(s.Tasks()[0].DueDate != nil)
}

func TestApp_Focus(t *testing.T) {
	is := is.New(t)
	a, s := newTestApp(t)
	press(a, "o", "deep work", "<enter>")

	press(a, "f")
	is.Equal(a.mode, modeFocus)
	active, ok := s.ActiveTask()
	is.True(ok)
	is.Equal(active.Title, "deep work")

	cmd := press(a, "<space>")
	is.True(cmd != nil) // tick loop started
	is.True(a.timer.Running())
	is.True(strings.Contains(a.View(), "00:02"))

	a.Update(tickMsg(time.Now()))
	_, cmd = a.Update(tickMsg(time.Now()))
	is.True(cmd == nil) // stopped on the switch to break
	is.Equal(a.timer.Cycles(), 1)
	is.Equal(a.timer.Mode(), focus.ModeBreak)

	press(a, "<esc>")
	is.Equal(a.mode, modeNormal)
	is.True(strings.Contains(a.View(), "Focus session completed"))
}
