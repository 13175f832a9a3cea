package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/td0m/taskflow/pkg/task"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func addFormatFlag(cmd *cobra.Command, def string) {
	cmd.Flags().StringP("output", "o", def, "output format: text, json or yaml")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Flags().GetString("output")
	switch f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

// encode writes v as json or yaml.
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("cannot encode as %q", format)
}

func snapshotTasks(ts []task.Task) []task.SnapshotTask {
	out := make([]task.SnapshotTask, len(ts))
	for i, t := range ts {
		out[i] = task.SnapshotTask(t)
	}
	return out
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

var errAmbiguous = errors.New("ambiguous id")

// resolveID matches an argument against ids, exactly or by a unique prefix.
func resolveID(kind, arg string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", &task.NotFoundError{Kind: kind, ID: arg}
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s %q: %w, matches %s", kind, arg, errAmbiguous, strings.Join(matches, ", "))
}

func (e *env) resolveTask(arg string) (string, error) {
	ts := e.store.Tasks()
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return resolveID("task", arg, ids)
}

func (e *env) resolveCategory(arg string) (string, error) {
	if arg == "" {
		return "", nil
	}
	cs := e.store.Categories()
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
		// names are accepted too
		if strings.EqualFold(c.Name, arg) {
			return c.ID, nil
		}
	}
	return resolveID("category", arg, ids)
}

func (e *env) resolveClass(arg string) (string, error) {
	cs := e.store.Classes()
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
		if strings.EqualFold(c.Name, arg) {
			return c.ID, nil
		}
	}
	return resolveID("class", arg, ids)
}

func (e *env) resolveClasses(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		id, err := e.resolveClass(a)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
