package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/projectboard/internal/client"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func projectsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List the projects you own or belong to",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var projects []dto.ProjectResponse
			err := e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				projects, err = api.Projects(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderProjects(projects))
			return nil
		},
	}
}

func projectCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and change projects",
	}
	cmd.AddCommand(
		projectCreateCmd(e),
		projectStatusCmd(e),
		projectAddMemberCmd(e),
		projectSetRoleCmd(e),
		projectRemoveMemberCmd(e),
	)
	return cmd
}

func projectCreateCmd(e *env) *cobra.Command {
	var req dto.CreateProjectRequest
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			if req.StartDate == "" {
				req.StartDate = e.now().Format(dto.DateLayout)
			}

			var project *dto.ProjectResponse
			err := e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				project, err = api.CreateProject(cmd.Context(), req)
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderProject(*project))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Description, "description", "", "what the project is about")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "start date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&req.EstimatedEndDate, "end", "", "estimated end date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// projectStatusCmd changes the status of a project. Closing a project without
// --ended records today as its actual end date.
func projectStatusCmd(e *env) *cobra.Command {
	var ended string
	cmd := &cobra.Command{
		Use:   "status <project-id> <active|paused|completed|cancelled>",
		Short: "Change the status of a project you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			status := models.ProjectStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("unknown status %q", args[1])
			}

			var project *dto.ProjectResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				current, err := api.Project(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				project, err = api.UpdateProject(cmd.Context(), projectID, statusUpdate(*current, status, ended, e.now()))
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderProject(*project))
			return nil
		},
	}
	cmd.Flags().StringVar(&ended, "ended", "", "actual end date, YYYY-MM-DD")
	return cmd
}

// statusUpdate carries every field of current over unchanged except the
// status and, when closing, the actual end date.
func statusUpdate(current dto.ProjectResponse, status models.ProjectStatus, ended string, now time.Time) dto.UpdateProjectRequest {
	req := dto.UpdateProjectRequest{
		Name:             current.Name,
		Description:      current.Description,
		Status:           string(status),
		StartDate:        current.StartDate,
		EstimatedEndDate: current.EstimatedEndDate,
		ActualEndDate:    current.ActualEndDate,
	}

	switch {
	case ended != "":
		req.ActualEndDate = &ended
	case status.IsClosed() && req.ActualEndDate == nil:
		today := now.Format(dto.DateLayout)
		req.ActualEndDate = &today
	case !status.IsClosed():
		req.ActualEndDate = nil
	}
	return req
}

func projectAddMemberCmd(e *env) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add-member <project-id> <email>",
		Short: "Add a registered user to a project you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			var members []dto.MemberResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				members, err = api.AddMember(cmd.Context(), projectID, dto.AddMemberRequest{Email: args[1], Role: role})
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderMembers(members))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", models.DefaultRole, "developer, tester, designer or lead")
	return cmd
}

func projectSetRoleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <project-id> <member-email-or-id> <role>",
		Short: "Change a member's role on a project you own",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			var members []dto.MemberResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				member, err := findMember(cmd.Context(), api, projectID, args[1])
				if err != nil {
					return err
				}
				members, err = api.ChangeMemberRole(cmd.Context(), projectID, member.ID, args[2])
				return err
			})
			if err != nil {
				return err
			}
			e.printf("%s\n", renderMembers(members))
			return nil
		},
	}
}

func projectRemoveMemberCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <project-id> <member-email-or-id>",
		Short: "Remove a member from a project you own and unassign their tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			var removed dto.MemberResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				member, err := findMember(cmd.Context(), api, projectID, args[1])
				if err != nil {
					return err
				}
				removed = *member
				return api.RemoveMember(cmd.Context(), projectID, member.ID)
			})
			if err != nil {
				return err
			}
			e.printf("Removed %s from the project\n", removed.Name)
			return nil
		},
	}
}

// findMember matches ref against the member ids and emails of the project.
func findMember(ctx context.Context, api *client.Client, projectID uuid.UUID, ref string) (*dto.MemberResponse, error) {
	project, err := api.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i, m := range project.Members {
		if m.ID.String() == ref || strings.EqualFold(m.Email, strings.TrimSpace(ref)) {
			return &project.Members[i], nil
		}
	}
	return nil, fmt.Errorf("%q is not a member of %s", ref, project.Name)
}
