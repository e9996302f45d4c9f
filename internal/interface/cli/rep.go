package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func repCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:     "rep",
		Aliases: []string{"reps"},
		Short:   "Register and review company representatives",
	}

	c.AddCommand(
		repRegisterCmd(s),
		repReviewCmd(s, true),
		repReviewCmd(s, false),
		repPendingCmd(s),
		repPostingsCmd(s),
	)
	return c
}

func repRegisterCmd(s *session) *cobra.Command {
	var cmdArgs command.RegisterRepCommand

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a company representative (awaits staff approval)",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.RegisterRep.Handle(ctx, cmdArgs)
			if err != nil {
				return err
			}
			return out.reps([]query.RepDTO{query.ToRepDTO(res.Rep)})
		}),
	}

	cmd.Flags().StringVar(&cmdArgs.Name, "name", "", "full name")
	cmd.Flags().StringVar(&cmdArgs.CompanyName, "company", "", "company name")
	cmd.Flags().StringVar(&cmdArgs.Department, "department", "", "department")
	cmd.Flags().StringVar(&cmdArgs.Position, "position", "", "position")
	cmd.Flags().StringVar(&cmdArgs.Email, "email", "", "email (also the rep id)")
	for _, name := range []string{"name", "company", "department", "position", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func repReviewCmd(s *session, approve bool) *cobra.Command {
	var staffID, email, reason string

	use, short := "reject", "Reject a company representative"
	if approve {
		use, short = "approve", "Approve a company representative"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.ReviewRep.Handle(ctx, command.ReviewRepCommand{
				StaffID: staffID,
				RepID:   shared.NormalizeEmail(email),
				Approve: approve,
				Reason:  reason,
			})
			if err != nil {
				return err
			}
			return out.reps([]query.RepDTO{query.ToRepDTO(res.Rep)})
		}),
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&email, "email", "", "rep email")
	if !approve {
		cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	}
	_ = cmd.MarkFlagRequired("staff")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func repPendingCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List representatives awaiting approval",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			list, err := app.Queries.Staff.PendingReps(ctx)
			if err != nil {
				return err
			}
			return out.reps(list)
		}),
	}
}

func repPostingsCmd(s *session) *cobra.Command {
	var q query.CompanyPostingsQuery

	cmd := &cobra.Command{
		Use:   "postings",
		Short: "List the postings of the rep's company",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			q.RepID = shared.NormalizeEmail(q.RepID)
			res, err := app.Queries.CompanyPostings.Handle(ctx, q)
			if err != nil {
				return err
			}
			return out.postings(res)
		}),
	}

	cmd.Flags().StringVar(&q.RepID, "rep", "", "rep email")
	cmd.Flags().StringVar(&q.Status, "status", "", "PENDING|APPROVED|REJECTED|CLOSED")
	_ = cmd.MarkFlagRequired("rep")
	return cmd
}
