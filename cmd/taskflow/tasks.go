package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/td0m/taskflow/internal/ui"
	"github.com/td0m/taskflow/pkg/dateinput"
	"github.com/td0m/taskflow/pkg/task"
)

func addTaskFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("description", "d", "", "task description")
	f.StringP("category", "c", "", "category id or name")
	f.StringSlice("class", nil, "class ids or names, repeatable")
	f.String("due", "", `due date, e.g. "tomorrow", "fri", "in 3 days", "21 jan"`)
	f.StringP("priority", "p", "", "priority: low, medium or high")
}

func newAddCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := task.TaskInput{Title: strings.Join(args, " ")}
			f := cmd.Flags()
			in.Description, _ = f.GetString("description")

			var err error
			category, _ := f.GetString("category")
			if in.CategoryID, err = e.resolveCategory(category); err != nil {
				return err
			}
			classes, _ := f.GetStringSlice("class")
			if in.ClassIDs, err = e.resolveClasses(classes); err != nil {
				return err
			}
			due, _ := f.GetString("due")
			if in.DueDate, err = dateinput.Parse(due, time.Now()); err != nil {
				return fmt.Errorf("due %q: %w", due, err)
			}
			p, _ := f.GetString("priority")
			if in.Priority, err = task.ParsePriority(p); err != nil {
				return err
			}

			t, err := e.store.AddTask(in)
			if err != nil {
				return err
			}
			e.log.Debug("task added", "id", t.ID)
			return nil
		},
	}
	addTaskFlags(cmd)
	return cmd
}

func newListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in display order",
		Long:    "List tasks in display order. The number in the first column is the position mv refers to.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var filter task.Filter
			category, _ := f.GetString("category")
			if filter.Category, err = e.resolveCategory(category); err != nil {
				return err
			}
			filter.Search, _ = f.GetString("search")
			open, _ := f.GetBool("active")
			done, _ := f.GetBool("done")
			switch {
			case open && done:
				return errors.New("--active and --done are mutually exclusive")
			case open:
				filter.Completed = new(bool)
			case done:
				filter.Completed = &done
			}

			ts := e.store.View(filter)
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, snapshotTasks(ts))
			}
			labels := ui.NewLabels(e.store.Categories(), e.store.Classes())
			now := time.Now()
			for i, t := range ts {
				row := ui.RenderRow(t, labels, now, ui.RowOptions{ShowCategory: filter.Category == ""})
				fmt.Fprintf(cmd.OutOrStdout(), "%3d %s%s\n", i, shortID(t.ID), row)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("category", "c", "", "only tasks in this category")
	f.StringP("search", "s", "", "only tasks whose title contains this text")
	f.Bool("active", false, "only open tasks")
	f.Bool("done", false, "only completed tasks")
	addFormatFlag(cmd, formatText)
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  "Change fields of a task. Only the flags given are applied; --due \"\" clears the due date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.resolveTask(args[0])
			if err != nil {
				return err
			}
			t, _ := e.store.Task(id)
			f := cmd.Flags()
			if f.Changed("title") {
				t.Title, _ = f.GetString("title")
			}
			if f.Changed("description") {
				t.Description, _ = f.GetString("description")
			}
			if f.Changed("category") {
				category, _ := f.GetString("category")
				if t.CategoryID, err = e.resolveCategory(category); err != nil {
					return err
				}
			}
			if f.Changed("class") {
				classes, _ := f.GetStringSlice("class")
				if t.ClassIDs, err = e.resolveClasses(classes); err != nil {
					return err
				}
			}
			if f.Changed("due") {
				due, _ := f.GetString("due")
				if t.DueDate, err = dateinput.Parse(due, time.Now()); err != nil {
					return fmt.Errorf("due %q: %w", due, err)
				}
			}
			if f.Changed("priority") {
				p, _ := f.GetString("priority")
				if t.Priority, err = task.ParsePriority(p); err != nil {
					return err
				}
			}
			return e.store.UpdateTask(t)
		},
	}
	addTaskFlags(cmd)
	cmd.Flags().String("title", "", "new title")
	return cmd
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Toggle completion of tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				id, err := e.resolveTask(arg)
				if err != nil {
					return err
				}
				if err := e.store.ToggleTaskCompletion(id); err != nil {
					return err
				}
				t, _ := e.store.Task(id)
				state := "open"
				if t.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", shortID(id), t.Title, state)
			}
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				id, err := e.resolveTask(arg)
				if err != nil {
					return err
				}
				if err := e.store.DeleteTask(id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMoveCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a task to another position of the list",
		Long:  "Move a task to another position. Positions are the ones list prints for the same --category.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("from: %w", err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}
			category, _ := cmd.Flags().GetString("category")
			id, err := e.resolveCategory(category)
			if err != nil {
				return err
			}
			if err := e.store.SetActiveCategory(id); err != nil {
				return err
			}
			return e.store.ReorderTasks(from, to)
		},
	}
	cmd.Flags().StringP("category", "c", "", "list the positions refer to")
	return cmd
}

func newStatsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			st := e.store.Stats()
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, st)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Total      %d\n", st.Total)
			fmt.Fprintf(w, "Completed  %d\n", st.Completed)
			fmt.Fprintf(w, "Pending    %d\n", st.Pending)
			fmt.Fprintf(w, "Progress   %d%%\n", st.Percent)
			return nil
		},
	}
	addFormatFlag(cmd, formatText)
	return cmd
}

func newExportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print every task, category and class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == formatText {
				return errors.New("export supports json and yaml")
			}
			return encode(cmd.OutOrStdout(), format, e.store.Snapshot())
		},
	}
	addFormatFlag(cmd, formatJSON)
	return cmd
}
