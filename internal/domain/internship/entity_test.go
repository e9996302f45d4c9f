package internship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validParams(slots int) NewInternshipParams {
	return NewInternshipParams{
		ID:          "INT0001",
		CompanyName: "Acme",
		CreatedBy:   "rep@acme.com",
		Details: Details{
			Title:          "Backend Intern",
			Description:    "Build services",
			Level:          LevelBasic,
			PreferredMajor: "CS",
			OpenDate:       date(2025, 1, 1),
			CloseDate:      date(2025, 12, 31),
			MaxSlots:       slots,
		},
	}
}

func approvedVisible(t *testing.T, slots int) *Internship {
	t.Helper()
	i, err := NewInternship(validParams(slots))
	require.NoError(t, err)
	require.NoError(t, i.Approve())
	require.NoError(t, i.SetVisible(true))
	return i
}

func TestNewInternship_Defaults(t *testing.T) {
	i, err := NewInternship(validParams(3))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, i.Status())
	assert.False(t, i.Visible())
	assert.Equal(t, 0, i.ConfirmedSlots())
	assert.Equal(t, 3, i.MaxSlots())
	assert.True(t, i.IsEditable())
	assert.True(t, i.CanBeDeleted())
}

func TestNewInternship_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *NewInternshipParams)
	}{
		{"missing title", func(p *NewInternshipParams) { p.Title = "  " }},
		{"missing description", func(p *NewInternshipParams) { p.Description = "" }},
		{"missing major", func(p *NewInternshipParams) { p.PreferredMajor = "" }},
		{"bad level", func(p *NewInternshipParams) { p.Level = "EXPERT" }},
		{"close before open", func(p *NewInternshipParams) { p.CloseDate = date(2024, 12, 31) }},
		{"zero slots", func(p *NewInternshipParams) { p.MaxSlots = 0 }},
		{"too many slots", func(p *NewInternshipParams) { p.MaxSlots = 11 }},
		{"missing company", func(p *NewInternshipParams) { p.CompanyName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(2)
			tt.mutate(&p)
			_, err := NewInternship(p)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err), "got %v", err)
		})
	}
}

func TestInternship_ReviewTransitions(t *testing.T) {
	i, err := NewInternship(validParams(2))
	require.NoError(t, err)

	require.NoError(t, i.Approve())
	assert.Equal(t, StatusApproved, i.Status())

	// повторное одобрение - no-op
	require.NoError(t, i.Approve())
	assert.Equal(t, StatusApproved, i.Status())

	err = i.Reject()
	assert.True(t, shared.IsInvalidState(err))
	assert.Equal(t, StatusApproved, i.Status())
}

func TestInternship_RejectHides(t *testing.T) {
	i, err := NewInternship(validParams(2))
	require.NoError(t, err)

	require.NoError(t, i.Reject())
	assert.Equal(t, StatusRejected, i.Status())
	assert.False(t, i.Visible())
	assert.True(t, i.CanBeDeleted())

	assert.True(t, shared.IsInvalidState(i.Approve()))
}

func TestInternship_SetVisibleRequiresApproved(t *testing.T) {
	i, err := NewInternship(validParams(2))
	require.NoError(t, err)

	err = i.SetVisible(true)
	assert.True(t, shared.IsInvalidState(err))
	assert.False(t, i.Visible())

	require.NoError(t, i.SetVisible(false))
}

func TestInternship_SlotLedger(t *testing.T) {
	i := approvedVisible(t, 2)

	change, err := i.IncrementConfirmedSlots()
	require.NoError(t, err)
	assert.Equal(t, 1, change.Confirmed)
	assert.False(t, change.Filled)
	assert.Equal(t, StatusApproved, i.Status())

	change, err = i.IncrementConfirmedSlots()
	require.NoError(t, err)
	assert.True(t, change.Filled)
	assert.Equal(t, StatusFilled, i.Status())
	assert.False(t, i.IsOpenForApplications(date(2025, 6, 1)))
	assert.False(t, i.Visible(), "filled postings are hidden")
	assert.True(t, i.VisibilityFlag())

	_, err = i.IncrementConfirmedSlots()
	assert.True(t, shared.IsCapacityExceeded(err))
	assert.Equal(t, 2, i.ConfirmedSlots())
	assert.Equal(t, StatusFilled, i.Status())

	change = i.DecrementConfirmedSlots()
	assert.True(t, change.Reopened)
	assert.Equal(t, 1, i.ConfirmedSlots())
	assert.Equal(t, StatusApproved, i.Status())
	assert.True(t, i.Visible())
	assert.True(t, i.IsOpenForApplications(date(2025, 6, 1)))
}

func TestInternship_SlotLedger_ClosedIsFinal(t *testing.T) {
	i := approvedVisible(t, 2)
	_, err := i.IncrementConfirmedSlots()
	require.NoError(t, err)
	require.NoError(t, i.Close())

	_, err = i.IncrementConfirmedSlots()
	assert.True(t, shared.IsInvalidState(err))
	assert.Equal(t, 1, i.ConfirmedSlots())
	assert.Equal(t, StatusClosed, i.Status())

	change := i.DecrementConfirmedSlots()
	assert.False(t, change.Reopened)
	assert.Equal(t, 0, i.ConfirmedSlots())
	assert.Equal(t, StatusClosed, i.Status())
	assert.True(t, shared.IsInvalidState(i.SetVisible(true)))
}

func TestInternship_SlotLedger_PendingRejected(t *testing.T) {
	i, err := NewInternship(validParams(1))
	require.NoError(t, err)

	_, err = i.IncrementConfirmedSlots()
	assert.True(t, shared.IsInvalidState(err))
	assert.Equal(t, 0, i.ConfirmedSlots())
	assert.Equal(t, StatusPending, i.Status())
}

func TestInternship_DecrementFloorsAtZero(t *testing.T) {
	i := approvedVisible(t, 1)

	change := i.DecrementConfirmedSlots()
	assert.Equal(t, 0, change.Confirmed)
	assert.False(t, change.Reopened)
	assert.Equal(t, StatusApproved, i.Status())
}

func TestInternship_IsOpenForApplications(t *testing.T) {
	i := approvedVisible(t, 1)

	assert.True(t, i.IsOpenForApplications(date(2025, 1, 1)), "open date is inclusive")
	assert.True(t, i.IsOpenForApplications(date(2025, 12, 31)), "close date is inclusive")
	assert.True(t, i.IsOpenForApplications(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, i.IsOpenForApplications(date(2024, 12, 31)))
	assert.False(t, i.IsOpenForApplications(date(2026, 1, 1)))

	require.NoError(t, i.SetVisible(false))
	assert.False(t, i.IsOpenForApplications(date(2025, 6, 1)))
}

func TestInternship_Close(t *testing.T) {
	i := approvedVisible(t, 1)

	require.NoError(t, i.Close())
	assert.Equal(t, StatusClosed, i.Status())
	assert.False(t, i.Visible())
	assert.True(t, shared.IsInvalidState(i.SetVisible(true)))

	pending, err := NewInternship(validParams(1))
	require.NoError(t, err)
	assert.True(t, shared.IsInvalidState(pending.Close()))
}

func TestInternship_EditOnlyWhilePending(t *testing.T) {
	i, err := NewInternship(validParams(2))
	require.NoError(t, err)

	d := validParams(5).Details
	d.Title = "  Platform Intern "
	require.NoError(t, i.Edit(d))
	assert.Equal(t, "Platform Intern", i.Title)
	assert.Equal(t, 5, i.MaxSlots())
	assert.Equal(t, "INT0001", i.ID)

	require.NoError(t, i.Approve())
	assert.True(t, shared.IsInvalidState(i.Edit(d)))
}

func TestRestore_RejectsInconsistentSlots(t *testing.T) {
	snap := approvedVisible(t, 2).Snapshot()
	snap.ConfirmedSlots = 3

	_, err := Restore(snap)
	assert.True(t, shared.IsInvalidState(err))

	snap.ConfirmedSlots = 2
	snap.Status = StatusFilled
	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, StatusFilled, restored.Status())
	assert.Equal(t, 2, restored.ConfirmedSlots())
}

func TestFilter_Matches(t *testing.T) {
	i := approvedVisible(t, 2)

	assert.True(t, Filter{}.Matches(i))
	assert.True(t, Filter{Major: "cs", CompanyName: "ACME", Level: LevelBasic}.Matches(i))
	assert.False(t, Filter{Major: "Math"}.Matches(i))
	assert.False(t, Filter{Status: StatusPending}.Matches(i))
	assert.True(t, Filter{Statuses: []Status{StatusPending, StatusApproved}}.Matches(i))
	assert.True(t, Filter{ClosesBefore: date(2026, 1, 1)}.Matches(i))
	assert.False(t, Filter{ClosesBefore: date(2025, 12, 31)}.Matches(i))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" intermediate ")
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, l)

	_, err = ParseLevel("guru")
	assert.Error(t, err)
}
