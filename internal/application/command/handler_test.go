package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

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

type recorder struct {
	mu     sync.Mutex
	events []shared.Event
}

func (r *recorder) Publish(e shared.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count(t shared.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	h      *Handlers
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rec := &recorder{}
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		h: NewHandlers(Deps{
			Store:  store,
			Locker: lock.NewKeyed(),
			IDs:    idgen.NewSequence(),
			Events: rec,
			Clock:  placement.ClockFunc(func() time.Time { return today }),
		}),
		events: rec,
	}

	officer, err := staff.NewStaff(staff.NewStaffParams{
		ID: staffID, Name: "Olivia", Role: "Officer", Department: "Career Center", Email: "olivia@uni.edu",
	})
	require.NoError(t, err)
	require.NoError(t, store.Reader().Staff().Save(f.ctx, officer))
	return f
}

func (f *fixture) addStudent(id string, year int) {
	f.t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{ID: id, Name: "Student " + id, YearOfStudy: year, Major: "CSC"})
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Reader().Students().Save(f.ctx, s))
}

func (f *fixture) approvedRep(email, companyName string) string {
	f.t.Helper()
	res, err := f.h.RegisterRep.Handle(f.ctx, RegisterRepCommand{
		Name: "Rep", CompanyName: companyName, Department: "HR", Position: "Recruiter", Email: email,
	})
	require.NoError(f.t, err)
	_, err = f.h.ReviewRep.Handle(f.ctx, ReviewRepCommand{StaffID: staffID, RepID: res.Rep.ID, Approve: true})
	require.NoError(f.t, err)
	return res.Rep.ID
}

func details(level string, slots int) PostingDetails {
	return PostingDetails{
		Title:          "Backend Intern",
		Description:    "Go services",
		Level:          level,
		PreferredMajor: "CSC",
		OpenDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CloseDate:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		MaxSlots:       slots,
	}
}

// openPosting creates a posting and has staff approve it visible.
func (f *fixture) openPosting(repID, level string, slots int) string {
	f.t.Helper()
	res, err := f.h.CreateInternship.Handle(f.ctx, CreateInternshipCommand{RepID: repID, Details: details(level, slots)})
	require.NoError(f.t, err)
	_, err = f.h.ReviewInternship.Handle(f.ctx, ReviewInternshipCommand{
		StaffID: staffID, InternshipID: res.Internship.ID, Approve: true, MakeVisible: true,
	})
	require.NoError(f.t, err)
	return res.Internship.ID
}

func (f *fixture) apply(studentID, internshipID string) string {
	f.t.Helper()
	res, err := f.h.Apply.Handle(f.ctx, ApplyCommand{StudentID: studentID, InternshipID: internshipID})
	require.NoError(f.t, err)
	return res.Application.ID
}

func (f *fixture) offer(repID, studentID, internshipID string) string {
	f.t.Helper()
	appID := f.apply(studentID, internshipID)
	_, err := f.h.DecideApplication.Handle(f.ctx, DecideApplicationCommand{RepID: repID, ApplicationID: appID, Successful: true})
	require.NoError(f.t, err)
	return appID
}

func (f *fixture) accept(studentID, appID string) {
	f.t.Helper()
	_, err := f.h.AcceptOffer.Handle(f.ctx, AcceptOfferCommand{StudentID: studentID, ApplicationID: appID})
	require.NoError(f.t, err)
}

func studentID(n int) string {
	return fmt.Sprintf("U%07dA", n)
}
