package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/taskflow/pkg/dateinput"
	"github.com/td0m/taskflow/pkg/task"
)

var (
	TaskIcon  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TaskTitle = lipgloss.NewStyle().Bold(true)
	TaskDone  = lipgloss.NewStyle().Foreground(Secondary).Strikethrough(true)
	Selected  = lipgloss.NewStyle().Background(Faded)

	TaskDivider = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1).Render("∙")
	TaskTimer   = lipgloss.NewStyle().Foreground(Blue)

	undone = TaskIcon.Foreground(Secondary).Render("•")
	done   = TaskIcon.Foreground(Green).Render("✓")
)

// Labels resolves the category and class ids shown next to a task.
type Labels struct {
	Categories map[string]task.Category
	Classes    map[string]task.Class
}

func NewLabels(cs []task.Category, cls []task.Class) Labels {
	l := Labels{
		Categories: make(map[string]task.Category, len(cs)),
		Classes:    make(map[string]task.Class, len(cls)),
	}
	for _, c := range cs {
		l.Categories[c.ID] = c
	}
	for _, c := range cls {
		l.Classes[c.ID] = c
	}
	return l
}

// RowOptions tweaks a single rendered row.
type RowOptions struct {
	Selected     bool
	ShowCategory bool
	// Title replaces the title, used while renaming
	Title string
}

func RenderIcon(t task.Task) string {
	if t.Completed {
		return done
	}
	return undone
}

func RenderTitle(t task.Task, selected bool) string {
	s := TaskTitle
	if t.Completed {
		s = TaskDone
	}
	if selected {
		s = s.Background(Faded)
	}
	return s.Render(t.Title)
}

// RenderDue shows the due date relative to now, colored by urgency.
func RenderDue(t task.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	return TaskDivider + lipgloss.NewStyle().Foreground(DueColor(*t.DueDate, now)).Render(dateinput.Relative(*t.DueDate, now))
}

func DueColor(due, now time.Time) lipgloss.Color {
	days := int(dateinput.StartOfDay(due).Sub(dateinput.StartOfDay(now)).Round(time.Hour).Hours()) / 24
	switch {
	case days <= 0:
		return Red
	case days == 1:
		return Orange
	case days < 14:
		return Yellow
	default:
		return Faded
	}
}

func RenderPriority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(Red).Render("!!!")
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(Orange).Render("!!")
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(Secondary).Render("!")
	}
	return ""
}

// RenderRow draws one task as a single line.
func RenderRow(t task.Task, l Labels, now time.Time, opts RowOptions) string {
	var b strings.Builder
	b.WriteString(RenderIcon(t))
	if opts.Title != "" {
		b.WriteString(opts.Title)
	} else {
		b.WriteString(RenderTitle(t, opts.Selected))
	}
	if p := RenderPriority(t.Priority); p != "" {
		b.WriteString(" " + p)
	}
	if opts.ShowCategory {
		if c, ok := l.Categories[t.EffectiveCategory()]; ok {
			b.WriteString(TaskDivider + Swatch(c.Color, c.Name))
		}
	}
	for _, id := range t.ClassIDs {
		if c, ok := l.Classes[id]; ok {
			b.WriteString(" " + Swatch(c.Color, "#"+c.Name))
		}
	}
	b.WriteString(RenderDue(t, now))
	return b.String()
}
