package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func applicationCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:     "application",
		Aliases: []string{"applications", "app"},
		Short:   "Apply to postings, decide outcomes and accept offers",
	}

	c.AddCommand(
		applicationApplyCmd(s),
		applicationDecideCmd(s),
		applicationAcceptCmd(s),
		applicationListCmd(s),
		applicationPostingCmd(s),
	)
	return c
}

func applicationApplyCmd(s *session) *cobra.Command {
	var studentID, internshipID string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit an application for a student",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.Apply.Handle(ctx, command.ApplyCommand{
				StudentID:    studentID,
				InternshipID: internshipID,
			})
			if err != nil {
				return err
			}
			return out.applications([]query.ApplicationDTO{query.ToApplicationDTO(res.Application)})
		}),
	}

	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&internshipID, "internship", "", "internship id")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("internship")
	return cmd
}

func applicationDecideCmd(s *session) *cobra.Command {
	var rep, id, outcome string

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Mark a PENDING application successful or unsuccessful",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			successful, err := parseOutcome(outcome)
			if err != nil {
				return err
			}
			res, err := app.Commands.DecideApplication.Handle(ctx, command.DecideApplicationCommand{
				RepID:         shared.NormalizeEmail(rep),
				ApplicationID: id,
				Successful:    successful,
			})
			if err != nil {
				return err
			}
			return out.applications([]query.ApplicationDTO{query.ToApplicationDTO(res.Application)})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	cmd.Flags().StringVar(&id, "id", "", "application id")
	cmd.Flags().StringVar(&outcome, "outcome", "", "successful|unsuccessful")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func parseOutcome(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "successful", "success", "yes":
		return true, nil
	case "unsuccessful", "fail", "no":
		return false, nil
	default:
		return false, shared.NewDomainError("cli", "parse --outcome", shared.ErrValidation,
			fmt.Sprintf("outcome %q is not one of successful|unsuccessful", s))
	}
}

func applicationAcceptCmd(s *session) *cobra.Command {
	var studentID, id string

	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Accept a SUCCESSFUL offer; other active applications are withdrawn",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.AcceptOffer.Handle(ctx, command.AcceptOfferCommand{
				StudentID:     studentID,
				ApplicationID: id,
			})
			if err != nil {
				return err
			}
			dto := query.ToApplicationDTO(res.Application)
			if out.json {
				return out.emit(map[string]any{
					"application":    dto,
					"auto_withdrawn": res.AutoWithdrawn,
				}, nil)
			}
			if err := out.applications([]query.ApplicationDTO{dto}); err != nil {
				return err
			}
			if len(res.AutoWithdrawn) > 0 {
				_, err = fmt.Fprintf(out.w, "withdrawn: %s\n", strings.Join(res.AutoWithdrawn, ", "))
			}
			return err
		}),
	}

	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&id, "id", "", "application id")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func applicationListCmd(s *session) *cobra.Command {
	var studentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a student's applications and withdrawal requests",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Queries.MyApplications.Handle(ctx, query.MyApplicationsQuery{StudentID: studentID})
			if err != nil {
				return err
			}
			if out.json {
				return out.emit(res, nil)
			}
			fmt.Fprintf(out.w, "student %s: %d active, placed: %s\n\n", studentID, res.Stats.Active, yesNo(res.Stats.Confirmed))
			if err := out.applications(res.Applications); err != nil {
				return err
			}
			if len(res.Withdrawals) == 0 {
				return nil
			}
			fmt.Fprintln(out.w)
			return out.withdrawals(res.Withdrawals)
		}),
	}

	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func applicationPostingCmd(s *session) *cobra.Command {
	var q query.PostingApplicationsQuery

	cmd := &cobra.Command{
		Use:   "posting",
		Short: "List applications for one of the rep's postings",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			q.RepID = shared.NormalizeEmail(q.RepID)
			list, err := app.Queries.PostingApps.Handle(ctx, q)
			if err != nil {
				return err
			}
			return out.applications(list)
		}),
	}

	cmd.Flags().StringVar(&q.RepID, "rep", "", "rep email")
	cmd.Flags().StringVar(&q.InternshipID, "internship", "", "internship id")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("internship")
	return cmd
}
