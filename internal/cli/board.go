package cli

import (
	"fmt"

	"github.com/dimitrije/projectboard/internal/client"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func boardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "board <project-id>",
		Short: "Show the kanban board of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			var (
				project *dto.ProjectResponse
				board   *dto.BoardResponse
			)
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				if project, err = api.Project(cmd.Context(), projectID); err != nil {
					return err
				}
				board, err = api.Board(cmd.Context(), projectID)
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n%s\n", renderProject(*project), renderBoard(*board))
			return nil
		},
	}
}

func taskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with tasks",
	}

	var (
		req      dto.CreateTaskRequest
		assignee string
	)
	add := &cobra.Command{
		Use:   "add <project-id> <title>",
		Short: "Add a task to the pending column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			req.Title = args[1]
			if assignee != "" {
				id, err := uuid.Parse(assignee)
				if err != nil {
					return fmt.Errorf("invalid assignee id %q", assignee)
				}
				req.AssigneeID = &id
			}

			var task *dto.TaskResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				task, err = api.CreateTask(cmd.Context(), projectID, req)
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderTask(*task))
			return nil
		},
	}
	add.Flags().StringVar(&req.Description, "description", "", "task details")
	add.Flags().StringVar(&req.Priority, "priority", string(models.PriorityMedium), "low, medium or high")
	add.Flags().StringVar(&assignee, "assignee", "", "member id to assign")

	cmd.AddCommand(add)
	return cmd
}

func moveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <project-id> <task-id> <pending|todo|doing|done>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			taskID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[1])
			}
			if !models.TaskStatus(args[2]).Valid() {
				return fmt.Errorf("unknown column %q", args[2])
			}

			var task *dto.TaskResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				task, err = api.MoveTask(cmd.Context(), projectID, taskID, args[2])
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderTask(*task))
			return nil
		},
	}
}
