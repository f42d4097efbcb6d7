package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"myday/internal/clock"
	"myday/internal/task"
	"myday/internal/view"
)

func newAddCmd() *cobra.Command {
	var (
		due, priority, category, description string
		tags                                 []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := clock.ParseDate(due)
			if err != nil {
				return err
			}
			prio, err := task.ParsePriority(priority)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.store.Create(cmd.Context(), task.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				DueDate:     dueDate,
				Priority:    prio,
				Category:    category,
				Tags:        tags,
			})
			if err := a.warnIf(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high (default medium)")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&description, "description", "", "longer description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag label (repeatable)")
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		title, due, priority, category, description string
		tags                                        []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p task.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("due") {
				d, err := clock.ParseDate(due)
				if err != nil {
					return err
				}
				p.DueDate = &d
			}
			if flags.Changed("priority") {
				prio, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				p.Priority = &prio
			}
			if flags.Changed("category") {
				p.Category = &category
			}
			if flags.Changed("tag") {
				p.Tags = &tags
			}

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			_, found, err := a.store.Update(cmd.Context(), id, p)
			if err := a.warnIf(err); err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No task #%d\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&description, "description", "", "longer description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag label (repeatable, replaces existing tags)")
	return cmd
}

func newToggleCmd(use, short string, op func(*task.Store, context.Context, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range ids {
				if err := a.warnIf(op(a.store, cmd.Context(), id)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type viewFlags struct {
	page   string
	filter view.Filter
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.page, "page", string(view.PageAllTasks), "my-day, important, planned or all-tasks")
	cmd.Flags().StringVar(&v.filter.Status, "status", view.All, "todo, done or all")
	cmd.Flags().StringVar(&v.filter.Priority, "priority", view.All, "low, medium, high or all")
	cmd.Flags().StringVar(&v.filter.Category, "category", view.All, "category or all")
	cmd.Flags().StringVar(&v.filter.Search, "search", "", "case-insensitive text in title, description or labels")
}

func newListCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tasks of a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := view.ParsePage(vf.page)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			sel := view.NewSelector(a.store, a.clock)
			today := a.clock.Today()
			out := cmd.OutOrStdout()
			if page == view.PagePlanned {
				for _, b := range sel.Planned(vf.filter) {
					fmt.Fprintf(out, "%s (%d)\n", b.Label(), b.Count())
					printTasks(out, b.Tasks, today)
				}
				return nil
			}
			tasks := sel.Select(page, vf.filter)
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found")
				return nil
			}
			printTasks(out, tasks, today)
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}

func newStatsCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print progress for a page and the page counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := view.ParsePage(vf.page)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			sel := view.NewSelector(a.store, a.clock)
			p := view.ComputeProgress(sel.Select(page, vf.filter))
			c := sel.Counts()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s (%.0f%%)\n", page.Title(), p, p.Percentage)
			fmt.Fprintf(out, "Important: %s\n", c.ImportantLabel())
			fmt.Fprintf(out, "Planned: %s\n", c.PlannedLabel())
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}

func printTasks(w io.Writer, tasks []task.Task, today clock.Date) {
	for _, t := range tasks {
		check := " "
		if t.Done() {
			check = "x"
		}
		star := " "
		if t.IsImportant {
			star = "*"
		}
		fmt.Fprintf(w, "[%s]%s #%d %s  (%s, %s, %s)\n",
			check, star, t.ID, t.Title, t.Category, t.Priority, view.DueLabel(t.DueDate, today))
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
