package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func TestCodec_RoundTrip(t *testing.T) {
	is := is.New(t)
	due := time.Date(2024, 5, 4, 18, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	tasks := []Task{
		{
			ID:          "a",
			Title:       "Write report",
			Description: "quarterly",
			CategoryID:  "work",
			ClassIDs:    []string{"urgent", "important"},
			CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 123456789, time.UTC),
			Order:       1,
			DueDate:     &due,
			Priority:    PriorityHigh,
		},
		{
			ID:        "b",
			Title:     "Water plants",
			Completed: true,
			ClassIDs:  []string{},
			CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	bs, err := EncodeTasks(tasks)
	is.NoErr(err)
	got, err := DecodeTasks(bs)
	is.NoErr(err)
	// compare instants, the zone name does not survive the text form
	if diff := cmp.Diff(tasks, got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	cs, err := EncodeCategories(DefaultCategories())
	is.NoErr(err)
	categories, err := DecodeCategories(cs)
	is.NoErr(err)
	if diff := cmp.Diff(DefaultCategories(), categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	cls, err := EncodeClasses(DefaultClasses())
	is.NoErr(err)
	classes, err := DecodeClasses(cls)
	is.NoErr(err)
	if diff := cmp.Diff(DefaultClasses(), classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_TimestampsAreText(t *testing.T) {
	is := is.New(t)
	bs, err := EncodeTasks([]Task{{ID: "a", Title: "x", CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}})
	is.NoErr(err)

	var raw []map[string]interface{}
	is.NoErr(json.Unmarshal(bs, &raw))
	is.Equal(raw[0]["createdAt"], "2024-03-01T09:00:00Z")
	is.Equal(raw[0]["classIds"], []interface{}{})
	_, hasDue := raw[0]["dueDate"]
	is.True(!hasDue)
}

func TestCodec_ReadsBrowserExports(t *testing.T) {
	is := is.New(t)
	// shape written by JSON.stringify of the web version
	in := `[{"title":"Call mom","categoryId":"personal","classIds":[],"completed":false,
		"id":"0d5c7a52-3c0f-4d8e-9f0b-b7e1d52d2a11","createdAt":"2024-03-01T09:00:00.000Z",
		"order":0,"dueDate":"2024-03-05T00:00:00.000Z","priority":"medium"}]`
	ts, err := DecodeTasks([]byte(in))
	is.NoErr(err)
	is.Equal(len(ts), 1)
	is.Equal(ts[0].Priority, PriorityMedium)
	is.Equal(ts[0].DueDate.Day(), 5)
}

func TestCodec_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"object", `{"tasks":[]}`},
		{"truncated", `[{"id":"a"`},
		{"bad created", `[{"id":"a","createdAt":"monday"}]`},
		{"bad due", `[{"id":"a","createdAt":"2024-03-01T09:00:00Z","dueDate":"soon"}]`},
		{"missing id", `[{"title":"x","createdAt":"2024-03-01T09:00:00Z"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := DecodeTasks([]byte(tt.in))
			is.True(err != nil)
		})
	}
	t.Run("only arrays are collections", func(t *testing.T) {
		is := is.New(t)
		_, err := DecodeCategories([]byte("null"))
		is.True(err != nil)
		cs, err := DecodeCategories([]byte("[]"))
		is.NoErr(err)
		is.Equal(len(cs), 0)
	})
}
