package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
	"daytodo/internal/views"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var date, priority, category, at string
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task to a day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if priority == "" {
				priority = a.cfg.DefaultPriority
			}
			if category == "" {
				category = a.cfg.DefaultCategory
			}
			day := dayOrToday(date)
			task, err := a.tracker.AddTask(day, model.Draft{
				Text:     strings.Join(args, " "),
				Priority: model.Priority(strings.ToLower(priority)),
				Category: model.Category(strings.ToLower(category)),
				Time:     at,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s on %s\n", shortID(task.ID), day)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "high, normal or low")
	cmd.Flags().StringVarP(&category, "category", "c", "", "work, personal, health, shopping, study or hobby")
	cmd.Flags().StringVarP(&at, "time", "t", "", "optional time of day, e.g. 07:30")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var date, priority, category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a day's tasks, highest priority first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := views.DefaultFilter().With(views.FilterPriority, priority)
			if err != nil {
				return err
			}
			if filter, err = filter.With(views.FilterCategory, category); err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			day := dayOrToday(date)
			list := a.tracker.FilteredTasksFor(day, filter)
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no tasks on %s\n", day)
				return nil
			}
			printTasks(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&priority, "priority", "p", views.All, "priority filter")
	cmd.Flags().StringVarP(&category, "category", "c", views.All, "category filter")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			day := dayOrToday(date)
			id, err := a.resolveID(day, args[0])
			if err != nil {
				return err
			}
			task, err := a.tracker.ToggleTask(day, id)
			if err != nil {
				return err
			}
			state := "open"
			if task.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", shortID(task.ID), state)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			day := dayOrToday(date)
			id, err := a.resolveID(day, args[0])
			if err != nil {
				return err
			}
			changed, err := a.tracker.EditTask(day, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", shortID(id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var date string
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			day := dayOrToday(date)
			task, err := a.resolveTask(day, args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, fmt.Sprintf("Delete %q?", task.Text), yes) {
				fmt.Fprintln(cmd.OutOrStdout(), "delete cancelled")
				return nil
			}
			if err := a.tracker.DeleteTask(day, task.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(task.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) resolveID(date, prefix string) (string, error) {
	task, err := a.resolveTask(date, prefix)
	return task.ID, err
}

// resolveTask accepts a full task id or a unique prefix of one on the given day.
func (a *app) resolveTask(date, prefix string) (model.Task, error) {
	if prefix == "" {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	var match *model.Task
	for _, t := range a.tracker.FilteredTasksFor(date, views.DefaultFilter()) {
		if t.ID == prefix {
			return t, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != nil {
				return model.Task{}, fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			found := t
			match = &found
		}
	}
	if match == nil {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	return *match, nil
}

func printTasks(w io.Writer, list []model.Task) {
	for _, t := range list {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("%s [%s] %-6s %-8s %s", shortID(t.ID), mark, t.Priority, t.Category, t.Text)
		if t.Time != "" {
			line += " @" + t.Time
		}
		fmt.Fprintln(w, line)
	}
}

func dayOrToday(date string) string {
	if date == "" {
		return model.Today()
	}
	return date
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
