package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ticklist/internal/task"
)

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

//nolint:gochecknoglobals // swapped in tests
var exit = os.Exit

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	exit(1)
}

// loadedApp opens the app and loads the stored list, exiting on failure.
func loadedApp() *app {
	a, err := openApp()
	if err != nil {
		printError(err)
	}
	if _, err := a.store.Load(); err != nil {
		a.fail(err)
	}
	return a
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printError(fmt.Errorf("invalid task id: %s", arg))
	}
	return id
}

// existingTask resolves id or exits with TaskNotFoundError. The store
// itself ignores unknown ids; the command line reports them.
func existingTask(a *app, id int64) task.Task {
	t, ok := a.store.Get(id)
	if !ok {
		a.fail(task.TaskNotFoundError{ID: id})
	}
	return t
}

// addCmd implements 'todo add'.
func addCmd() *cobra.Command {
	var priority string
	var due string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			p, err := task.ParsePriority(priority)
			if err != nil {
				printError(err)
			}
			d, err := task.ParseDueDate(due)
			if err != nil {
				printError(err)
			}

			a := loadedApp()
			defer a.Close()

			t, _, err := a.store.Add(args[0], p, d)
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(task.PriorityLow), "Priority (low, medium, high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

// listCmd implements 'todo list'.
func listCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a := loadedApp()
			defer a.Close()

			v, err := a.store.SetFilter(filter)
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatView(v))
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(task.FilterAll), "Filter (all, active, completed)")
	return cmd
}

// toggleCmd implements 'todo toggle'.
func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done, or open again",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id := parseID(args[0])
			a := loadedApp()
			defer a.Close()

			existingTask(a, id)
			if _, err := a.store.Toggle(id); err != nil {
				a.fail(err)
			}
			t, _ := a.store.Get(id)
			printOutput(formatter.FormatTask(t))
		},
	}
}

// rmCmd implements 'todo rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id := parseID(args[0])
			a := loadedApp()
			defer a.Close()

			existingTask(a, id)
			if _, err := a.store.Delete(id); err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted task %d", id)))
		},
	}
}

// editCmd implements 'todo edit'. Blank text leaves the task unchanged.
func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Change a task's text",
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			id := parseID(args[0])
			a := loadedApp()
			defer a.Close()

			existingTask(a, id)
			if _, err := a.store.EditText(id, args[1]); err != nil {
				a.fail(err)
			}
			t, _ := a.store.Get(id)
			printOutput(formatter.FormatTask(t))
		},
	}
}
