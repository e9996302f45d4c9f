package withdrawal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/student"
)

var today = time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

type fixture struct {
	student    *student.Student
	internship *internship.Internship
	app        *application.Application
}

func newFixture(t *testing.T, slots int) fixture {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		ID: "U2000002B", Name: "Chen", YearOfStudy: 4, Major: "MAE",
	})
	require.NoError(t, err)

	i, err := internship.NewInternship(internship.NewInternshipParams{
		ID:          "INT0007",
		CompanyName: "Initech",
		Details: internship.Details{
			Title:          "Analyst",
			Description:    "Reports",
			Level:          internship.LevelAdvanced,
			PreferredMajor: "MAE",
			OpenDate:       today.AddDate(0, 0, -1),
			CloseDate:      today.AddDate(0, 0, 30),
			MaxSlots:       slots,
		},
	})
	require.NoError(t, err)
	require.NoError(t, i.Approve())
	require.NoError(t, i.SetVisible(true))

	a, err := application.NewApplication(application.NewApplicationParams{
		ID: "APP0003", Student: s, Internship: i,
		Apps:      student.PlacementStats{StudentID: s.ID},
		AppliedOn: today,
	})
	require.NoError(t, err)
	return fixture{student: s, internship: i, app: a}
}

func (f fixture) request(t *testing.T) *Request {
	t.Helper()
	r, err := NewRequest(NewRequestParams{
		ID: "WRQ0001", Application: f.app, StudentID: f.student.ID,
		Reason: "  changed plans  ", RequestedOn: today,
	})
	require.NoError(t, err)
	return r
}

func TestNewRequest_OwnerOnly(t *testing.T) {
	f := newFixture(t, 1)

	r := f.request(t)
	assert.Equal(t, StatusPending, r.Status())
	assert.Equal(t, "changed plans", r.Reason())
	assert.Equal(t, "APP0003", r.ApplicationID)

	_, err := NewRequest(NewRequestParams{ID: "WRQ0002", Application: f.app, StudentID: "U9999999Z"})
	assert.True(t, shared.IsForbidden(err))
}

func TestNewRequest_ReasonIsCapped(t *testing.T) {
	f := newFixture(t, 1)
	r, err := NewRequest(NewRequestParams{
		ID: "WRQ0001", Application: f.app, StudentID: f.student.ID,
		Reason: strings.Repeat("x", 2500),
	})
	require.NoError(t, err)
	assert.Len(t, r.Reason(), shared.MaxNoteLength)
}

func TestApprove_AcceptedApplicationReleasesSlot(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.app.MarkSuccessful())
	_, err := f.app.ConfirmAcceptance(student.PlacementStats{StudentID: f.student.ID})
	require.NoError(t, err)
	require.Equal(t, internship.StatusFilled, f.internship.Status())

	r := f.request(t)
	out, err := r.Approve("staff01", "ok", today)
	require.NoError(t, err)

	assert.True(t, out.Revoked)
	require.NotNil(t, out.Slots)
	assert.True(t, out.Slots.Reopened)
	assert.Equal(t, 0, f.internship.ConfirmedSlots())
	assert.Equal(t, internship.StatusApproved, f.internship.Status())
	assert.Equal(t, application.StatusSuccessful, f.app.Status())
	assert.False(t, f.app.StudentAccepted())
	assert.Equal(t, StatusApproved, r.Status())
	assert.Equal(t, "staff01", r.ProcessedBy())
	assert.Equal(t, "ok", r.StaffNote())
	assert.Equal(t, today, r.ProcessedOn())
}

func TestApprove_PendingApplicationIsWithdrawn(t *testing.T) {
	f := newFixture(t, 1)
	r := f.request(t)

	out, err := r.Approve("staff01", "", today)
	require.NoError(t, err)
	assert.True(t, out.Withdrawn)
	assert.Nil(t, out.Slots)
	assert.Equal(t, application.StatusWithdrawn, f.app.Status())
}

func TestApprove_TerminalApplicationUntouched(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.app.MarkUnsuccessful())
	r := f.request(t)

	out, err := r.Approve("staff01", "", today)
	require.NoError(t, err)
	assert.False(t, out.Withdrawn)
	assert.False(t, out.Revoked)
	assert.Equal(t, application.StatusUnsuccessful, f.app.Status())
	assert.Equal(t, StatusApproved, r.Status())
}

func TestReject_LeavesApplicationUnchanged(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.app.MarkSuccessful())
	_, err := f.app.ConfirmAcceptance(student.PlacementStats{StudentID: f.student.ID})
	require.NoError(t, err)

	r := f.request(t)
	require.NoError(t, r.Reject("staff02", "not justified", today))

	assert.Equal(t, StatusRejected, r.Status())
	assert.Equal(t, "not justified", r.StaffNote())
	assert.Equal(t, application.StatusSuccessful, f.app.Status())
	assert.True(t, f.app.StudentAccepted())
	assert.Equal(t, 1, f.internship.ConfirmedSlots())
}

func TestProcessing_OnlyOnce(t *testing.T) {
	f := newFixture(t, 1)
	r := f.request(t)
	require.NoError(t, r.Reject("staff02", "", today))

	_, err := r.Approve("staff02", "", today)
	assert.True(t, shared.IsInvalidState(err))
	assert.True(t, shared.IsInvalidState(r.Reject("staff02", "", today)))
	assert.Equal(t, StatusRejected, r.Status())
}

func TestApprove_RequiresAttachedApplication(t *testing.T) {
	r, err := Restore(Snapshot{ID: "WRQ0001", ApplicationID: "APP0003", RequestedBy: "U2000002B", Status: StatusPending})
	require.NoError(t, err)

	_, err = r.Approve("staff01", "", today)
	assert.True(t, shared.IsInvalidState(err))

	_, err = r.Approve("", "", today)
	assert.Error(t, err)
}

func TestHasPending(t *testing.T) {
	f := newFixture(t, 1)
	r := f.request(t)
	assert.True(t, HasPending([]*Request{r}))

	require.NoError(t, r.Reject("staff01", "", today))
	assert.False(t, HasPending([]*Request{r, nil}))
}
