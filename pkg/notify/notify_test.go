package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestRecorder(t *testing.T) {
	is := is.New(t)
	r := NewRecorder()
	_, ok := r.Last()
	is.True(!ok)

	r.Notify("Task created", `"a" has been added to your tasks`)
	r.Notify("Task deleted", `"a" has been removed`)
	is.Equal(r.Len(), 2)
	last, ok := r.Last()
	is.True(ok)
	is.Equal(last.Title, "Task deleted")
	is.Equal(r.Events()[0].Detail, `"a" has been added to your tasks`)
}

func TestWriter(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	NewWriter(&buf).Notify("Class created", `"Waiting" class has been created`)
	is.Equal(buf.String(), "Class created: \"Waiting\" class has been created\n")
}

func TestLog(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}.Notify("Task updated", "x")
	is.True(strings.Contains(buf.String(), `msg="Task updated"`))
	is.True(strings.Contains(buf.String(), "detail=x"))
}

func TestMulti(t *testing.T) {
	is := is.New(t)
	a, b := NewRecorder(), NewRecorder()
	Multi(a, nil, b, Discard).Notify("t", "d")
	is.Equal(a.Len(), 1)
	is.Equal(b.Len(), 1)
}
