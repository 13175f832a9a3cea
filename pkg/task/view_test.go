package task

import (
	"testing"

	"github.com/matryer/is"
)

func TestStore_View(t *testing.T) {
	s, _, _ := newTestStore(t)
	report := mustAdd(t, s, "Write report", "work")
	plants := mustAdd(t, s, "Water plants", "personal")
	review := mustAdd(t, s, "Review PR", "work")
	misc := mustAdd(t, s, "Misc", "")
	if err := s.ToggleTaskCompletion(review.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.ReorderTasks(2, 0); err != nil {
		t.Fatal(err)
	}

	done, open := true, false
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all in display order", Filter{}, []string{review.ID, report.ID, plants.ID, misc.ID}},
		{"category", Filter{Category: "work"}, []string{review.ID, report.ID}},
		{"default category", Filter{Category: DefaultCategoryID}, []string{misc.ID}},
		{"search ignores case", Filter{Search: "WATER"}, []string{plants.ID}},
		{"completed", Filter{Completed: &done}, []string{review.ID}},
		{"open in category", Filter{Category: "work", Completed: &open}, []string{report.ID}},
		{"nothing", Filter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ids(s.View(tt.filter)), tt.want)
		})
	}
}

func TestStore_Stats(t *testing.T) {
	is := is.New(t)
	s, _, _ := newTestStore(t)
	is.Equal(s.Stats(), Stats{})

	a := mustAdd(t, s, "a", "")
	mustAdd(t, s, "b", "")
	mustAdd(t, s, "c", "")
	is.NoErr(s.ToggleTaskCompletion(a.ID))

	is.Equal(s.Stats(), Stats{Total: 3, Completed: 1, Pending: 2, Percent: 33})
}

func TestPriority(t *testing.T) {
	is := is.New(t)
	p, err := ParsePriority(" High ")
	is.NoErr(err)
	is.Equal(p, PriorityHigh)
	p, err = ParsePriority("")
	is.NoErr(err)
	is.Equal(p, PriorityNone)
	_, err = ParsePriority("asap")
	is.True(err != nil)
}
