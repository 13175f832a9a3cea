package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/td0m/taskflow/internal/ui"
	"github.com/td0m/taskflow/pkg/task"
)

// label is the common shape of categories and classes, which the CLI manages
// with the same four subcommands.
type label struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type labelOps struct {
	noun    string
	list    func() []label
	resolve func(string) (string, error)
	add     func(name, color string) error
	update  func(l label) error
	remove  func(id string) error
	count   func(id string) int
}

func newCategoryCmd(e *env) *cobra.Command {
	return newLabelCmd(labelOps{
		noun: "category",
		list: func() []label {
			cs := e.store.Categories()
			out := make([]label, len(cs))
			for i, c := range cs {
				out[i] = label(c)
			}
			return out
		},
		resolve: e.resolveCategory,
		add: func(name, color string) error {
			_, err := e.store.AddCategory(task.CategoryInput{Name: name, Color: color})
			return err
		},
		update: func(l label) error { return e.store.UpdateCategory(task.Category(l)) },
		remove: func(id string) error { return e.store.DeleteCategory(id) },
		count: func(id string) int {
			return len(e.store.View(task.Filter{Category: id}))
		},
	}, "categories", "#9b87f5")
}

func newClassCmd(e *env) *cobra.Command {
	return newLabelCmd(labelOps{
		noun: "class",
		list: func() []label {
			cs := e.store.Classes()
			out := make([]label, len(cs))
			for i, c := range cs {
				out[i] = label(c)
			}
			return out
		},
		resolve: e.resolveClass,
		add: func(name, color string) error {
			_, err := e.store.AddCustomClass(task.ClassInput{Name: name, Color: color})
			return err
		},
		update: func(l label) error { return e.store.UpdateCustomClass(task.Class(l)) },
		remove: func(id string) error { return e.store.DeleteCustomClass(id) },
		count: func(id string) int {
			n := 0
			for _, t := range e.store.Tasks() {
				if t.HasClass(id) {
					n++
				}
			}
			return n
		},
	}, "classes", "#0EA5E9")
}

func newLabelCmd(ops labelOps, plural, defaultColor string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     ops.noun,
		Aliases: []string{plural},
		Short:   "Manage " + plural,
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + plural,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			ls := ops.list()
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, ls)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tTASKS")
			for _, l := range ls {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", shortID(l.ID), ui.Swatch(l.Color, l.Name), l.Color, ops.count(l.ID))
			}
			return w.Flush()
		},
	}
	addFormatFlag(list, formatText)

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a " + ops.noun,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, _ := cmd.Flags().GetString("color")
			return ops.add(strings.Join(args, " "), color)
		},
	}
	add.Flags().String("color", defaultColor, "hex color")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a " + ops.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ops.resolve(args[0])
			if err != nil {
				return err
			}
			var current label
			for _, l := range ops.list() {
				if l.ID == id {
					current = l
				}
			}
			if cmd.Flags().Changed("name") {
				current.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("color") {
				current.Color, _ = cmd.Flags().GetString("color")
			}
			return ops.update(current)
		},
	}
	edit.Flags().String("name", "", "new name")
	edit.Flags().String("color", "", "new hex color")

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a " + ops.noun + " and detach it from its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ops.resolve(args[0])
			if err != nil {
				return err
			}
			return ops.remove(id)
		},
	}

	cmd.AddCommand(list, add, edit, remove)
	return cmd
}
