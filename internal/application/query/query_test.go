package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/infrastructure/idgen"
	"github.com/careerhub/placement-hub/internal/infrastructure/lock"
	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/memory"
)

var today = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

const staffID = "S0001"

type env struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	cmd   *command.Handlers
	clock placement.Clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	clock := placement.ClockFunc(func() time.Time { return today })
	e := &env{
		t:     t,
		ctx:   context.Background(),
		store: store,
		clock: clock,
		cmd: command.NewHandlers(command.Deps{
			Store:  store,
			Locker: lock.NewKeyed(),
			IDs:    idgen.NewSequence(),
			Clock:  clock,
		}),
	}
	officer, err := staff.NewStaff(staff.NewStaffParams{
		ID: staffID, Name: "Olivia", Role: "Officer", Department: "Career Center", Email: "olivia@uni.edu",
	})
	require.NoError(t, err)
	require.NoError(t, store.Reader().Staff().Save(e.ctx, officer))
	return e
}

func (e *env) student(n, year int) string {
	e.t.Helper()
	id := fmt.Sprintf("U%07dA", n)
	s, err := student.NewStudent(student.NewStudentParams{ID: id, Name: "Student", YearOfStudy: year, Major: "CSC"})
	require.NoError(e.t, err)
	require.NoError(e.t, e.store.Reader().Students().Save(e.ctx, s))
	return id
}

func (e *env) rep(email, companyName string) string {
	e.t.Helper()
	res, err := e.cmd.RegisterRep.Handle(e.ctx, command.RegisterRepCommand{
		Name: "Rep", CompanyName: companyName, Department: "HR", Position: "Recruiter", Email: email,
	})
	require.NoError(e.t, err)
	_, err = e.cmd.ReviewRep.Handle(e.ctx, command.ReviewRepCommand{StaffID: staffID, RepID: res.Rep.ID, Approve: true})
	require.NoError(e.t, err)
	return res.Rep.ID
}

func (e *env) posting(repID, level, major string, approve bool) string {
	e.t.Helper()
	res, err := e.cmd.CreateInternship.Handle(e.ctx, command.CreateInternshipCommand{RepID: repID, Details: command.PostingDetails{
		Title:          "Intern",
		Description:    "Work",
		Level:          level,
		PreferredMajor: major,
		OpenDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CloseDate:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		MaxSlots:       2,
	}})
	require.NoError(e.t, err)
	if approve {
		_, err = e.cmd.ReviewInternship.Handle(e.ctx, command.ReviewInternshipCommand{
			StaffID: staffID, InternshipID: res.Internship.ID, Approve: true, MakeVisible: true,
		})
		require.NoError(e.t, err)
	}
	return res.Internship.ID
}

func (e *env) apply(studentID, internshipID string) string {
	e.t.Helper()
	res, err := e.cmd.Apply.Handle(e.ctx, command.ApplyCommand{StudentID: studentID, InternshipID: internshipID})
	require.NoError(e.t, err)
	return res.Application.ID
}

func ids(list []InternshipDTO) []string {
	out := make([]string, 0, len(list))
	for _, i := range list {
		out = append(out, i.ID)
	}
	return out
}

func TestAvailableInternships(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	basic := e.posting(rep, "BASIC", "CSC", true)
	advanced := e.posting(rep, "ADVANCED", "EEE", true)
	e.posting(rep, "BASIC", "CSC", false)

	junior := e.student(1, 1)
	senior := e.student(2, 3)
	h := NewAvailableInternshipsHandler(e.store.Reader(), e.clock)

	res, err := h.Handle(e.ctx, AvailableInternshipsQuery{StudentID: junior})
	require.NoError(t, err)
	assert.Equal(t, []string{basic}, ids(res.Internships))
	assert.True(t, res.CanApply)

	res, err = h.Handle(e.ctx, AvailableInternshipsQuery{StudentID: senior})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{basic, advanced}, ids(res.Internships))

	res, err = h.Handle(e.ctx, AvailableInternshipsQuery{StudentID: senior, Major: "eee"})
	require.NoError(t, err)
	assert.Equal(t, []string{advanced}, ids(res.Internships))

	_, err = h.Handle(e.ctx, AvailableInternshipsQuery{StudentID: senior, Level: "EXPERT"})
	assert.True(t, shared.IsValidation(err))

	_, err = h.Handle(e.ctx, AvailableInternshipsQuery{StudentID: "U9999999Z"})
	assert.True(t, shared.IsNotFound(err))
}

func TestAvailableInternships_CapReached(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	s := e.student(1, 3)
	for n := 0; n < 3; n++ {
		e.apply(s, e.posting(rep, "BASIC", "CSC", true))
	}

	res, err := NewAvailableInternshipsHandler(e.store.Reader(), e.clock).Handle(e.ctx, AvailableInternshipsQuery{StudentID: s})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ActiveApplications)
	assert.False(t, res.CanApply)
	assert.False(t, res.HasPlacement)
}

func TestMyApplications(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	s := e.student(1, 3)
	first := e.posting(rep, "BASIC", "CSC", true)
	second := e.posting(rep, "BASIC", "CSC", true)
	appID := e.apply(s, first)
	e.apply(s, second)

	_, err := e.cmd.RequestWithdrawal.Handle(e.ctx, command.RequestWithdrawalCommand{StudentID: s, ApplicationID: appID, Reason: "changed plans"})
	require.NoError(t, err)

	res, err := NewMyApplicationsHandler(e.store.Reader()).Handle(e.ctx, MyApplicationsQuery{StudentID: s})
	require.NoError(t, err)
	require.Len(t, res.Applications, 2)
	for _, a := range res.Applications {
		require.NotNil(t, a.Internship)
		assert.Equal(t, a.InternshipID, a.Internship.ID)
	}
	require.Len(t, res.Withdrawals, 1)
	assert.Equal(t, "PENDING", res.Withdrawals[0].Status)
	assert.Equal(t, 2, res.Stats.Active)
}

func TestCompanyPostings(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	colleague := e.rep("lead@acme.com", "ACME")
	other := e.rep("hr@globex.com", "Globex")

	open := e.posting(rep, "BASIC", "CSC", true)
	e.posting(colleague, "BASIC", "CSC", false)
	e.posting(other, "BASIC", "CSC", true)
	e.apply(e.student(1, 1), open)
	e.apply(e.student(2, 1), open)

	h := NewCompanyPostingsHandler(e.store.Reader())
	res, err := h.Handle(e.ctx, CompanyPostingsQuery{RepID: rep})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ActivePostings)
	require.Len(t, res.Postings, 2)
	assert.Equal(t, open, res.Postings[0].Internship.ID)
	assert.Equal(t, 2, res.Postings[0].Applications["PENDING"])

	res, err = h.Handle(e.ctx, CompanyPostingsQuery{RepID: colleague, Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, res.Postings, 1)
}

func TestPostingApplications_Ownership(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	other := e.rep("hr@globex.com", "Globex")
	open := e.posting(rep, "BASIC", "CSC", true)
	e.apply(e.student(1, 1), open)

	h := NewPostingApplicationsHandler(e.store.Reader())
	list, err := h.Handle(e.ctx, PostingApplicationsQuery{RepID: rep, InternshipID: open})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "U0000001A", list[0].StudentID)

	_, err = h.Handle(e.ctx, PostingApplicationsQuery{RepID: other, InternshipID: open})
	assert.True(t, shared.IsForbidden(err))
}

func TestStaffQueries(t *testing.T) {
	e := newEnv(t)
	rep := e.rep("hr@acme.com", "Acme")
	pending := e.posting(rep, "BASIC", "CSC", false)
	approved := e.posting(rep, "ADVANCED", "EEE", true)

	_, err := e.cmd.RegisterRep.Handle(e.ctx, command.RegisterRepCommand{
		Name: "New", CompanyName: "Initech", Department: "HR", Position: "Lead", Email: "new@initech.com",
	})
	require.NoError(t, err)

	s := e.student(1, 3)
	appID := e.apply(s, approved)
	_, err = e.cmd.RequestWithdrawal.Handle(e.ctx, command.RequestWithdrawalCommand{StudentID: s, ApplicationID: appID, Reason: "relocating"})
	require.NoError(t, err)

	q := NewStaffQueries(e.store.Reader())

	list, err := q.PendingInternships(e.ctx, staffID)
	require.NoError(t, err)
	assert.Equal(t, []string{pending}, ids(list))

	list, err = q.FilterInternships(e.ctx, InternshipFilterQuery{StaffID: staffID, Level: "ADVANCED", CompanyName: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{approved}, ids(list))

	_, err = q.FilterInternships(e.ctx, InternshipFilterQuery{StaffID: "S9999"})
	assert.True(t, shared.IsNotFound(err))

	withdrawals, err := q.PendingWithdrawals(e.ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, appID, withdrawals[0].ApplicationID)

	reps, err := q.PendingReps(e.ctx)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, "new@initech.com", reps[0].ID)
}
