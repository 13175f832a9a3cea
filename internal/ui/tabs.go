package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tabContainer = lipgloss.NewStyle().Padding(1, 1)
	activeTab    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	inactiveTab  = lipgloss.NewStyle().Foreground(Secondary)
	tabDivider   = lipgloss.NewStyle().Foreground(Faded)
)

// Tab is one entry of the tab bar. An empty ID stands for "all".
type Tab struct {
	ID    string
	Label string
}

type Tabs struct {
	tabs []Tab
	i    int

	Width int
	Info  string
}

// NewTabs creates a tab bar with the first tab selected
func NewTabs(tabs []Tab) Tabs {
	return Tabs{tabs: tabs}
}

// SetTabs replaces the entries, keeping the selection on the same id when it
// still exists.
func (m *Tabs) SetTabs(tabs []Tab) {
	current := m.Value()
	m.tabs = tabs
	m.i = 0
	m.Select(current)
}

// View renders the tab bar on a single padded line.
func (m Tabs) View() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		r := inactiveTab
		if i == m.i {
			r = activeTab
		}
		tabs[i] = r.Render(t.Label)
	}
	w := lipgloss.Width
	left := strings.Join(tabs, tabDivider.Render(" | "))
	right := m.Info
	space := lipgloss.NewStyle().Width(max(m.Width-2-w(left)-w(right), 0)).Render("")
	return tabContainer.Render(lipgloss.JoinHorizontal(lipgloss.Center, left, space, right)) + "\n"
}

// Value is the id of the selected tab.
func (m Tabs) Value() string {
	if len(m.tabs) == 0 {
		return ""
	}
	return m.tabs[m.i].ID
}

func (m Tabs) Index() int {
	return m.i
}

func (m Tabs) Len() int {
	return len(m.tabs)
}

func (m *Tabs) Set(i int) {
	m.i = min(max(i, 0), max(len(m.tabs)-1, 0))
}

// Next moves the selection right, wrapping around.
func (m *Tabs) Next() {
	if len(m.tabs) > 0 {
		m.i = (m.i + 1) % len(m.tabs)
	}
}

func (m *Tabs) Prev() {
	if len(m.tabs) > 0 {
		m.i = (m.i - 1 + len(m.tabs)) % len(m.tabs)
	}
}

// Select moves to the tab with the given id, reporting whether it exists.
func (m *Tabs) Select(id string) bool {
	for i, t := range m.tabs {
		if t.ID == id {
			m.i = i
			return true
		}
	}
	return false
}
