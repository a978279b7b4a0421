// cmd/client/project.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
)

func projectCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			resp, err := api.CreateProject(cmd.Context(), &boardv1.CreateProjectRequest{Name: strings.Join(args, " ")})
			if err != nil {
				return rpcError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Project.ID)
			return nil
		},
	})
	return cmd
}

func taskCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(taskAddCmd(flags), taskDeleteCmd(flags))
	return cmd
}

func taskAddCmd(flags *globalFlags) *cobra.Command {
	var (
		projectID   string
		statusFlag  string
		description string
		assignee    string
		due         string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task at the end of a column",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := board.ParseStatus(statusFlag)
			if err != nil {
				return err
			}
			req := &boardv1.CreateTaskRequest{
				ProjectID:   projectID,
				Title:       strings.Join(args, " "),
				Description: description,
				Status:      s.String(),
				AssignedTo:  assignee,
			}
			if due != "" {
				d, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("invalid --due %q: want YYYY-MM-DD", due)
				}
				req.DueDate = &d
			}

			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			resp, err := api.CreateTask(cmd.Context(), req)
			if err != nil {
				return rpcError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID")
	cmd.Flags().StringVarP(&statusFlag, "status", "s", board.StatusTodo.String(), "Column: todo, in_progress or done")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func taskDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			if _, err := api.DeleteTask(cmd.Context(), &boardv1.DeleteTaskRequest{ID: args[0]}); err != nil {
				return rpcError(err)
			}
			return nil
		},
	}
}
