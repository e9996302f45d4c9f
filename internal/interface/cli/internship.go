package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func internshipCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:     "internship",
		Aliases: []string{"internships"},
		Short:   "Create, review and browse internship postings",
	}

	c.AddCommand(
		internshipCreateCmd(s),
		internshipEditCmd(s),
		internshipDeleteCmd(s),
		internshipVisibilityCmd(s),
		internshipCloseCmd(s),
		internshipReviewCmd(s, true),
		internshipReviewCmd(s, false),
		internshipListCmd(s),
		internshipAvailableCmd(s),
		internshipExpireCmd(s),
	)
	return c
}

// postingFlags are shared by create and edit.
type postingFlags struct {
	title       string
	description string
	level       string
	major       string
	open        string
	close       string
	slots       int
}

func (f *postingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "posting title")
	cmd.Flags().StringVar(&f.description, "description", "", "posting description")
	cmd.Flags().StringVar(&f.level, "level", "BASIC", "BASIC|INTERMEDIATE|ADVANCED")
	cmd.Flags().StringVar(&f.major, "major", "", "preferred major")
	cmd.Flags().StringVar(&f.open, "open", "", "opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.close, "close", "", "closing date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.slots, "slots", 1, "number of slots (1-10)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("major")
	_ = cmd.MarkFlagRequired("open")
	_ = cmd.MarkFlagRequired("close")
}

func (f *postingFlags) details() (command.PostingDetails, error) {
	open, err := parseDateFlag("open", f.open)
	if err != nil {
		return command.PostingDetails{}, err
	}
	closeDate, err := parseDateFlag("close", f.close)
	if err != nil {
		return command.PostingDetails{}, err
	}
	return command.PostingDetails{
		Title:          f.title,
		Description:    f.description,
		Level:          f.level,
		PreferredMajor: f.major,
		OpenDate:       open,
		CloseDate:      closeDate,
		MaxSlots:       f.slots,
	}, nil
}

func internshipCreateCmd(s *session) *cobra.Command {
	var rep string
	var posting postingFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a posting for the rep's company (starts PENDING)",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			details, err := posting.details()
			if err != nil {
				return err
			}
			res, err := app.Commands.CreateInternship.Handle(ctx, command.CreateInternshipCommand{
				RepID:   shared.NormalizeEmail(rep),
				Details: details,
			})
			if err != nil {
				return err
			}
			return out.internships([]query.InternshipDTO{query.ToInternshipDTO(res.Internship)})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	_ = cmd.MarkFlagRequired("rep")
	posting.bind(cmd)
	return cmd
}

func internshipEditCmd(s *session) *cobra.Command {
	var rep, id string
	var posting postingFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the details of a PENDING or REJECTED posting",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			details, err := posting.details()
			if err != nil {
				return err
			}
			res, err := app.Commands.EditInternship.Handle(ctx, command.EditInternshipCommand{
				RepID:        shared.NormalizeEmail(rep),
				InternshipID: id,
				Details:      details,
			})
			if err != nil {
				return err
			}
			return out.internships([]query.InternshipDTO{query.ToInternshipDTO(res.Internship)})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	cmd.Flags().StringVar(&id, "id", "", "internship id")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("id")
	posting.bind(cmd)
	return cmd
}

func internshipDeleteCmd(s *session) *cobra.Command {
	var rep, id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a PENDING or REJECTED posting",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			if _, err := app.Commands.DeleteInternship.Handle(ctx, command.DeleteInternshipCommand{
				RepID:        shared.NormalizeEmail(rep),
				InternshipID: id,
			}); err != nil {
				return err
			}
			return out.message("deleted "+id, map[string]any{"id": id})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	cmd.Flags().StringVar(&id, "id", "", "internship id")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func internshipVisibilityCmd(s *session) *cobra.Command {
	var rep, id string
	var visible bool

	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "Show or hide an APPROVED posting",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.SetVisibility.Handle(ctx, command.SetVisibilityCommand{
				RepID:        shared.NormalizeEmail(rep),
				InternshipID: id,
				Visible:      visible,
			})
			if err != nil {
				return err
			}
			return out.internships([]query.InternshipDTO{query.ToInternshipDTO(res.Internship)})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	cmd.Flags().StringVar(&id, "id", "", "internship id")
	cmd.Flags().BoolVar(&visible, "visible", true, "visibility to set (--visible=false hides)")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func internshipCloseCmd(s *session) *cobra.Command {
	var rep, id string

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an APPROVED posting early",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.ClosePosting.Handle(ctx, command.ClosePostingCommand{
				RepID:        shared.NormalizeEmail(rep),
				InternshipID: id,
			})
			if err != nil {
				return err
			}
			return out.internships([]query.InternshipDTO{query.ToInternshipDTO(res.Internship)})
		}),
	}

	cmd.Flags().StringVar(&rep, "rep", "", "rep email")
	cmd.Flags().StringVar(&id, "id", "", "internship id")
	_ = cmd.MarkFlagRequired("rep")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func internshipReviewCmd(s *session, approve bool) *cobra.Command {
	var staffID, id string
	var visible bool

	use, short := "reject", "Reject a PENDING posting"
	if approve {
		use, short = "approve", "Approve a PENDING posting"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Commands.ReviewInternship.Handle(ctx, command.ReviewInternshipCommand{
				StaffID:      staffID,
				InternshipID: id,
				Approve:      approve,
				MakeVisible:  approve && visible,
			})
			if err != nil {
				return err
			}
			return out.internships([]query.InternshipDTO{query.ToInternshipDTO(res.Internship)})
		}),
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&id, "id", "", "internship id")
	if approve {
		cmd.Flags().BoolVar(&visible, "visible", false, "make the posting visible to students")
	}
	_ = cmd.MarkFlagRequired("staff")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func internshipListCmd(s *session) *cobra.Command {
	var q query.InternshipFilterQuery
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Filter postings as career center staff",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			var (
				list []query.InternshipDTO
				err  error
			)
			if pending {
				list, err = app.Queries.Staff.PendingInternships(ctx, q.StaffID)
			} else {
				list, err = app.Queries.Staff.FilterInternships(ctx, q)
			}
			if err != nil {
				return err
			}
			return out.internships(list)
		}),
	}

	cmd.Flags().StringVar(&q.StaffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&q.Status, "status", "", "PENDING|APPROVED|REJECTED|CLOSED")
	cmd.Flags().StringVar(&q.Major, "major", "", "preferred major")
	cmd.Flags().StringVar(&q.Level, "level", "", "BASIC|INTERMEDIATE|ADVANCED")
	cmd.Flags().StringVar(&q.CompanyName, "company", "", "company name")
	cmd.Flags().BoolVar(&pending, "pending", false, "only postings awaiting review")
	_ = cmd.MarkFlagRequired("staff")
	return cmd
}

func internshipAvailableCmd(s *session) *cobra.Command {
	var q query.AvailableInternshipsQuery

	cmd := &cobra.Command{
		Use:   "available",
		Short: "List postings a student can apply to today",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			res, err := app.Queries.Available.Handle(ctx, q)
			if err != nil {
				return err
			}
			if out.json {
				return out.emit(res, nil)
			}
			if err := out.internships(res.Internships); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out.w, "\nactive applications: %d, placed: %s, can apply: %s\n",
				res.ActiveApplications, yesNo(res.HasPlacement), yesNo(res.CanApply))
			return err
		}),
	}

	cmd.Flags().StringVar(&q.StudentID, "student", "", "student id")
	cmd.Flags().StringVar(&q.Major, "major", "", "filter by preferred major")
	cmd.Flags().StringVar(&q.Level, "level", "", "filter by level")
	cmd.Flags().StringVar(&q.CompanyName, "company", "", "filter by company")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func internshipExpireCmd(s *session) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Close APPROVED postings whose closing date has passed",
		RunE: s.run(func(ctx context.Context, app *App, out *printer) error {
			day := app.Clock.Today()
			if asOf != "" {
				var err error
				if day, err = parseDateFlag("as-of", asOf); err != nil {
					return err
				}
			}
			res, err := app.Commands.CloseExpiredPostings.Handle(ctx, command.CloseExpiredPostingsCommand{AsOf: day})
			if err != nil {
				return err
			}
			return out.message(fmt.Sprintf("closed %d posting(s)", len(res.Closed)), map[string]any{"closed": res.Closed})
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD, default today)")
	return cmd
}

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := shared.ParseDate(value)
	if err != nil {
		return time.Time{}, shared.WrapError("cli", "parse --"+name, shared.ErrValidation, "invalid date "+value, err)
	}
	return t, nil
}
