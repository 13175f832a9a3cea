package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/viper"
	"github.com/td0m/taskflow/pkg/task"
	"gopkg.in/yaml.v3"
)

type cli struct {
	t    *testing.T
	args []string
}

func newCLI(t *testing.T, backend string) *cli {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root+"/config")
	t.Setenv("XDG_CACHE_HOME", root+"/cache")
	t.Cleanup(viper.Reset)
	return &cli{t: t, args: []string{"--backend", backend, "--dir", root + "/data"}}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	viper.Reset()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(append([]string{}, c.args...), args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("taskflow %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (c *cli) tasks(args ...string) []task.SnapshotTask {
	c.t.Helper()
	var ts []task.SnapshotTask
	out := c.must(append([]string{"list", "-o", "json"}, args...)...)
	if err := json.Unmarshal([]byte(out), &ts); err != nil {
		c.t.Fatalf("decode list: %v\n%s", err, out)
	}
	return ts
}

func TestCLI_TaskLifecycle(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			is := is.New(t)
			c := newCLI(t, backend)

			out := c.must("add", "Write", "report", "-c", "work", "--class", "urgent", "-p", "high", "--due", "tomorrow")
			is.Equal(out, "Task created: \"Write report\" has been added to your tasks\n")
			c.must("add", "Water plants", "-c", "Personal")

			ts := c.tasks()
			is.Equal(len(ts), 2)
			is.Equal(ts[0].Title, "Write report")
			is.Equal(ts[0].CategoryID, "work")
			is.Equal(ts[0].ClassIDs, []string{"urgent"})
			is.Equal(ts[0].Priority, task.PriorityHigh)
			is.True(ts[0].DueDate != nil)
			is.Equal(ts[1].CategoryID, "personal") // resolved by name

			// unique prefix
			id := ts[1].ID
			c.must("edit", id[:6], "--title", "Water all plants", "--due", "")
			c.must("done", id[:6])
			ts = c.tasks("--done")
			is.Equal(len(ts), 1)
			is.Equal(ts[0].Title, "Water all plants")

			c.must("mv", "1", "0")
			ts = c.tasks()
			is.Equal(ts[0].ID, id)

			c.must("rm", id)
			is.Equal(len(c.tasks()), 1)

			text := c.must("list")
			is.True(strings.Contains(text, "Write report"))
			is.True(strings.Contains(text, "#Urgent"))
		})
	}
}

func TestCLI_Labels(t *testing.T) {
	is := is.New(t)
	c := newCLI(t, "json")

	c.must("add", "Report", "-c", "work", "--class", "important")
	c.must("category", "add", "Errands", "--color", "#10B981")
	c.must("class", "add", "Waiting")

	var classes []label
	is.NoErr(json.Unmarshal([]byte(c.must("class", "list", "-o", "json")), &classes))
	is.Equal(len(classes), 3)
	is.Equal(classes[2].Name, "Waiting")

	c.must("category", "edit", "work", "--name", "Job")
	out := c.must("category", "ls")
	is.True(strings.Contains(out, "Job"))
	is.True(strings.Contains(out, "Errands"))

	// deleting cascades to the task
	c.must("category", "rm", "work")
	c.must("class", "rm", "important")
	ts := c.tasks()
	is.Equal(ts[0].CategoryID, task.DefaultCategoryID)
	is.Equal(len(ts[0].ClassIDs), 0)

	_, err := c.run("category", "rm", "default")
	is.True(errors.Is(err, task.ErrDefaultCategory))
}

func TestCLI_Errors(t *testing.T) {
	is := is.New(t)
	c := newCLI(t, "json")

	_, err := c.run("add", "   ")
	is.True(errors.Is(err, task.ErrValidation))

	_, err = c.run("done", "nope")
	is.True(errors.Is(err, task.ErrNotFound))

	_, err = c.run("add", "x", "--due", "someday")
	is.True(err != nil)

	c.must("add", "one")
	_, err = c.run("mv", "0", "5")
	is.True(errors.Is(err, task.ErrIndexOutOfRange))

	_, err = c.run("list", "-o", "xml")
	is.True(err != nil)
}

func TestCLI_StatsAndExport(t *testing.T) {
	is := is.New(t)
	c := newCLI(t, "json")
	c.must("add", "a")
	c.must("add", "b")
	c.must("add", "c", "-q")
	id := c.tasks()[0].ID
	c.must("done", id)

	var st task.Stats
	is.NoErr(yaml.Unmarshal([]byte(c.must("stats", "-o", "yaml")), &st))
	is.Equal(st, task.Stats{Total: 3, Completed: 1, Pending: 2, Percent: 33})

	var snap map[string]interface{}
	is.NoErr(yaml.Unmarshal([]byte(c.must("export", "-o", "yaml")), &snap))
	is.Equal(len(snap["tasks"].([]interface{})), 3)
	is.Equal(len(snap["categories"].([]interface{})), 3)
	is.Equal(len(snap["customClasses"].([]interface{})), 2)
}

func TestResolveID(t *testing.T) {
	is := is.New(t)
	ids := []string{"abc123", "abd456", "work"}

	id, err := resolveID("task", "abc", ids)
	is.NoErr(err)
	is.Equal(id, "abc123")

	_, err = resolveID("task", "ab", ids)
	is.True(errors.Is(err, errAmbiguous))

	_, err = resolveID("task", "zzz", ids)
	is.True(errors.Is(err, task.ErrNotFound))
}
