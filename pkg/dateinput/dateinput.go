// Package dateinput parses natural due dates and provides a bubbletea input
// for typing them.
package dateinput

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	indicator = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	checkmark = indicator.
			Foreground(lipgloss.AdaptiveColor{Light: "#00ad3b", Dark: "#73F59F"}).
			Render("✓")

	cross = indicator.
		Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#FF5047"}).
		Render("✗")

	faded = lipgloss.AdaptiveColor{Light: "#666", Dark: "#999"}
)

type Model struct {
	i     textinput.Model
	value *time.Time
	err   error
	now   func() time.Time
}

func NewModel() Model {
	i := textinput.New()
	i.Focus()
	i.CharLimit = 20
	i.Prompt = ""
	return Model{
		i:   i,
		now: time.Now,
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.i, cmd = m.i.Update(msg)
		m.value, m.err = Parse(m.i.Value(), m.now())
		return m, cmd
	}
	return m, nil
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m Model) View() string {
	ind := ""
	switch {
	case m.err != nil:
		ind = cross
	case m.value != nil:
		ind = checkmark + " " + Relative(*m.value, m.now())
	}
	return lipgloss.NewStyle().Foreground(faded).Render("due: ") + m.i.View() + ind
}

// Value is the parsed date, nil when the input is empty or invalid.
func (m Model) Value() *time.Time {
	return m.value
}

// Valid reports whether the current text parses. An empty input is valid and
// clears the due date.
func (m Model) Valid() bool {
	return m.err == nil
}

func (m *Model) SetValue(t *time.Time) {
	m.value, m.err = t, nil
	if t == nil {
		m.i.SetValue("")
		return
	}
	m.i.SetValue(t.Format("2006-01-02"))
}
