package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/infrastructure/seed"
	"github.com/careerhub/placement-hub/pkg/logger"
	"github.com/careerhub/placement-hub/pkg/timeutil"
)

const (
	demoStaff  = "S0001"
	demoSenior = "U2100002B"
	demoJunior = "U2300001A"
	demoRep    = "hannah@acme.com"
)

func demoCmd(_ *session) *cobra.Command {
	var today string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through a full placement scenario on a throwaway in-memory store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := timeutil.DateOf(time.Now())
			if today != "" {
				var err error
				if day, err = parseDateFlag("today", today); err != nil {
					return err
				}
			}

			log := logger.Nop()
			if verbose {
				log = logger.New(logger.Options{Output: cmd.ErrOrStderr(), Level: logger.LevelDebug, Format: "text"})
			}
			app, err := NewMemoryApp(log, placement.ClockFunc(func() time.Time { return day }))
			if err != nil {
				return err
			}
			defer app.Close()

			return runDemo(cmd.Context(), app, day, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "pretend today is this date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every domain event to stderr")
	return cmd
}

// demoStep prints a numbered heading before each stage of the scenario.
type demoStep struct {
	w io.Writer
	n int
}

func (s *demoStep) say(format string, args ...any) {
	s.n++
	fmt.Fprintf(s.w, "\n==> %d. %s\n", s.n, fmt.Sprintf(format, args...))
}

func runDemo(ctx context.Context, app *App, day time.Time, w io.Writer) error {
	out := &printer{w: w}
	step := &demoStep{w: w}

	step.say("seed staff and students")
	report, err := seed.NewSeeder(app.Store, app.Commands, app.Log).Apply(ctx, &seed.File{
		Staff: []seed.StaffRecord{{
			ID: demoStaff, Name: "Olivia Tan", Role: "Placement Officer",
			Department: "Career Center", Email: "olivia.tan@uni.edu",
		}},
		Students: []seed.StudentRecord{
			{ID: demoJunior, Name: "Alice Lim", Year: 1, Major: "CSC", Email: "alice@e.uni.edu"},
			{ID: demoSenior, Name: "Ben Koh", Year: 3, Major: "CSC", Email: "ben@e.uni.edu"},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d staff, %d students\n", report.Staff, report.Students)

	step.say("register and approve a company representative")
	if _, err := app.Commands.RegisterRep.Handle(ctx, command.RegisterRepCommand{
		Name: "Hannah Ng", CompanyName: "Acme Robotics", Department: "Engineering",
		Position: "Talent Lead", Email: "Hannah@Acme.com",
	}); err != nil {
		return err
	}
	rep, err := app.Commands.ReviewRep.Handle(ctx, command.ReviewRepCommand{StaffID: demoStaff, RepID: demoRep, Approve: true})
	if err != nil {
		return err
	}
	if err := out.reps([]query.RepDTO{query.ToRepDTO(rep.Rep)}); err != nil {
		return err
	}

	step.say("post two internships and approve them as visible")
	window := func(title, level string, slots int) command.PostingDetails {
		return command.PostingDetails{
			Title:          title,
			Description:    title + " at Acme Robotics.",
			Level:          level,
			PreferredMajor: "CSC",
			OpenDate:       day.AddDate(0, 0, -1),
			CloseDate:      day.AddDate(0, 0, 30),
			MaxSlots:       slots,
		}
	}
	var postings []query.InternshipDTO
	for _, d := range []command.PostingDetails{
		window("Robotics Intern", "BASIC", 2),
		window("Vision Research Intern", "ADVANCED", 1),
	} {
		created, err := app.Commands.CreateInternship.Handle(ctx, command.CreateInternshipCommand{RepID: demoRep, Details: d})
		if err != nil {
			return err
		}
		reviewed, err := app.Commands.ReviewInternship.Handle(ctx, command.ReviewInternshipCommand{
			StaffID: demoStaff, InternshipID: created.Internship.ID, Approve: true, MakeVisible: true,
		})
		if err != nil {
			return err
		}
		postings = append(postings, query.ToInternshipDTO(reviewed.Internship))
	}
	if err := out.internships(postings); err != nil {
		return err
	}
	basic, advanced := postings[0].ID, postings[1].ID

	step.say("a first-year student only sees BASIC postings")
	avail, err := app.Queries.Available.Handle(ctx, query.AvailableInternshipsQuery{StudentID: demoJunior})
	if err != nil {
		return err
	}
	if err := out.internships(avail.Internships); err != nil {
		return err
	}
	_, err = app.Commands.Apply.Handle(ctx, command.ApplyCommand{StudentID: demoJunior, InternshipID: advanced})
	fmt.Fprintf(w, "applying to %s: [%s] %v\n", advanced, shared.KindOf(err), err)

	step.say("a third-year student applies to both postings")
	var appIDs []string
	for _, id := range []string{basic, advanced} {
		res, err := app.Commands.Apply.Handle(ctx, command.ApplyCommand{StudentID: demoSenior, InternshipID: id})
		if err != nil {
			return err
		}
		appIDs = append(appIDs, res.Application.ID)
	}

	step.say("the rep marks the ADVANCED application successful")
	if _, err := app.Commands.DecideApplication.Handle(ctx, command.DecideApplicationCommand{
		RepID: demoRep, ApplicationID: appIDs[1], Successful: true,
	}); err != nil {
		return err
	}

	step.say("the student accepts; the other application is withdrawn")
	accepted, err := app.Commands.AcceptOffer.Handle(ctx, command.AcceptOfferCommand{StudentID: demoSenior, ApplicationID: appIDs[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "auto-withdrawn: %v\n", accepted.AutoWithdrawn)
	if err := printStudent(ctx, app, out, demoSenior); err != nil {
		return err
	}

	step.say("the student asks to withdraw and staff approve; the slot is released")
	requested, err := app.Commands.RequestWithdrawal.Handle(ctx, command.RequestWithdrawalCommand{
		StudentID: demoSenior, ApplicationID: appIDs[1], Reason: "Accepted a research assistantship",
	})
	if err != nil {
		return err
	}
	processed, err := app.Commands.ProcessWithdrawal.Handle(ctx, command.ProcessWithdrawalCommand{
		StaffID: demoStaff, RequestID: requested.Request.ID, Approve: true,
	})
	if err != nil {
		return err
	}
	if err := out.withdrawals([]query.WithdrawalDTO{query.ToWithdrawalDTO(processed.Request)}); err != nil {
		return err
	}
	if err := printStudent(ctx, app, out, demoSenior); err != nil {
		return err
	}

	step.say("company view")
	postingsView, err := app.Queries.CompanyPostings.Handle(ctx, query.CompanyPostingsQuery{RepID: demoRep})
	if err != nil {
		return err
	}
	if err := out.postings(postingsView); err != nil {
		return err
	}

	fmt.Fprintf(w, "\ndone: %d applications submitted, %d offers accepted, %d withdrawals processed\n",
		app.Audit.Count(shared.EventApplicationSubmitted),
		app.Audit.Count(shared.EventOfferAccepted),
		app.Audit.Count(shared.EventWithdrawalProcessed))
	return nil
}

func printStudent(ctx context.Context, app *App, out *printer, studentID string) error {
	res, err := app.Queries.MyApplications.Handle(ctx, query.MyApplicationsQuery{StudentID: studentID})
	if err != nil {
		return err
	}
	return out.applications(res.Applications)
}
