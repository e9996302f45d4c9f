package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/query"
)

func withdrawalCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:     "withdrawal",
		Aliases: []string{"withdrawals"},
		Short:   "Request and process application withdrawals",
	}

	c.AddCommand(
		withdrawalRequestCmd(s),
		withdrawalProcessCmd(s, true),
		withdrawalProcessCmd(s, false),
		withdrawalPendingCmd(s),
	)
	return c
}

func withdrawalRequestCmd(s *session) *cobra.Command {
	var cmdArgs command.RequestWithdrawalCommand

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask the career center to withdraw an application",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.RequestWithdrawal.Handle(ctx, cmdArgs)
			if err != nil {
				return err
			}
			return out.withdrawals([]query.WithdrawalDTO{query.ToWithdrawalDTO(res.Request)})
		}),
	}

	cmd.Flags().StringVar(&cmdArgs.StudentID, "student", "", "student id")
	cmd.Flags().StringVar(&cmdArgs.ApplicationID, "application", "", "application id")
	cmd.Flags().StringVar(&cmdArgs.Reason, "reason", "", "why the student is withdrawing")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("application")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func withdrawalProcessCmd(s *session, approve bool) *cobra.Command {
	var staffID, id, note string

	use, short := "reject", "Reject a pending withdrawal request"
	if approve {
		use, short = "approve", "Approve a pending withdrawal request"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.ProcessWithdrawal.Handle(ctx, command.ProcessWithdrawalCommand{
				StaffID:   staffID,
				RequestID: id,
				Approve:   approve,
				Note:      note,
			})
			if err != nil {
				return err
			}
			dto := query.ToWithdrawalDTO(res.Request)
			if out.json {
				return out.emit(map[string]any{
					"request":               dto,
					"offer_revoked":         res.Outcome.Revoked,
					"application_withdrawn": res.Outcome.Withdrawn,
				}, nil)
			}
			if err := out.withdrawals([]query.WithdrawalDTO{dto}); err != nil {
				return err
			}
			if res.Outcome.Revoked {
				_, err = fmt.Fprintln(out.w, "accepted offer revoked; slot released")
			}
			return err
		}),
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&id, "id", "", "withdrawal request id")
	cmd.Flags().StringVar(&note, "note", "", "staff note (a default note is used when empty)")
	_ = cmd.MarkFlagRequired("staff")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func withdrawalPendingCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List withdrawal requests awaiting a decision",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			list, err := app.Queries.Staff.PendingWithdrawals(ctx)
			if err != nil {
				return err
			}
			return out.withdrawals(list)
		}),
	}
}
