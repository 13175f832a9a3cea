package task

import (
	"math"
	"strings"
)

// Filter selects the tasks of a view. Zero values match everything.
type Filter struct {
	// Category matches the effective category of a task
	Category string
	// Search is a case-insensitive substring of the title
	Search string
	// Completed restricts the view to done (true) or open (false) tasks
	Completed *bool
}

func (f Filter) match(t Task) bool {
	if f.Category != "" && t.EffectiveCategory() != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// View returns the tasks matching f in display order.
func (s *Store) View(f Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(f)
}

// ActiveView is the sequence ReorderTasks indices refer to.
func (s *Store) ActiveView() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(Filter{Category: s.activeCategory})
}

func (s *Store) view(f Filter) []Task {
	idx := s.viewIndexes(f)
	out := make([]Task, len(idx))
	for i, j := range idx {
		out[i] = s.tasks[j].clone()
	}
	return out
}

type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
	// Percent of completed tasks, rounded
	Percent int `json:"percent" yaml:"percent"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.Percent = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}
