package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/pkg/core"
)

var (
	taskDetails  string
	taskPriority string
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task", "todo"},
	Short:   "List and manage the task list",
	Args:    cobra.NoArgs,
	RunE:    runTasksList,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks: open first, then by priority and age",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

func runTasksList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(ctx, app)
	return renderer(cmd.OutOrStdout()).Tasks(app.Tasks.List())
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		priority, err := core.ParsePriority(taskPriority)
		if err != nil {
			return err
		}
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		title := strings.Join(args, " ")
		ctx = changeReason(ctx, daybook.CommitTypeFeat, "tasks", "add "+strings.TrimSpace(title))
		task, err := app.AddTask(ctx, core.TaskDraft{Title: title, Details: taskDetails, Priority: priority})
		if err != nil {
			return err
		}
		return renderer(cmd.OutOrStdout()).Task(task)
	},
}

func completionCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(ctx, app)

			task, err := app.ResolveTask(args[0])
			if err != nil {
				return err
			}
			ctx = changeReason(ctx, daybook.CommitTypeChore, "tasks", use+" "+task.Title)
			app.Tasks.SetCompleted(ctx, task.ID, completed)
			task, _ = app.Tasks.Get(task.ID)
			return renderer(cmd.OutOrStdout()).Task(task)
		},
	}
}

var tasksDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		task, err := app.ResolveTask(args[0])
		if err != nil {
			return err
		}
		ctx = changeReason(ctx, daybook.CommitTypeChore, "tasks", "delete "+task.Title)
		app.Tasks.Remove(ctx, task.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", task.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(
		tasksListCmd,
		tasksAddCmd,
		completionCmd("done", "Mark a task complete", true),
		completionCmd("undo", "Mark a task incomplete", false),
		tasksDeleteCmd,
	)
	tasksAddCmd.Flags().StringVar(&taskDetails, "details", "", "Task details")
	tasksAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", string(core.DefaultPriority), "Priority: low, medium or high")
}
