package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newStudent(t *testing.T, year int) *Student {
	t.Helper()
	s, err := NewStudent(NewStudentParams{
		ID:          "U1234567A",
		Name:        "Alice Tan",
		YearOfStudy: year,
		Major:       "CSC",
		Email:       "Alice@u.edu",
	})
	require.NoError(t, err)
	return s
}

func openPosting(t *testing.T, id string, level internship.Level, slots int) *internship.Internship {
	t.Helper()
	i, err := internship.NewInternship(internship.NewInternshipParams{
		ID:          id,
		CompanyName: "Acme",
		Details: internship.Details{
			Title:          "Intern",
			Description:    "Work",
			Level:          level,
			PreferredMajor: "CSC",
			OpenDate:       today.AddDate(0, -1, 0),
			CloseDate:      today.AddDate(0, 1, 0),
			MaxSlots:       slots,
		},
	})
	require.NoError(t, err)
	require.NoError(t, i.Approve())
	require.NoError(t, i.SetVisible(true))
	return i
}

func TestNewStudent_Validation(t *testing.T) {
	s := newStudent(t, 2)
	assert.Equal(t, "alice@u.edu", s.Email)

	_, err := NewStudent(NewStudentParams{ID: "X1", Name: "A", YearOfStudy: 1, Major: "CSC"})
	assert.True(t, shared.IsValidation(err))

	_, err = NewStudent(NewStudentParams{ID: "U1234567A", Name: "A", YearOfStudy: 5, Major: "CSC"})
	assert.True(t, shared.IsValidation(err))

	_, err = NewStudent(NewStudentParams{ID: "U1234567A", Name: " ", YearOfStudy: 1, Major: "CSC"})
	assert.True(t, shared.IsValidation(err))
}

func TestStudent_IsEligibleFor(t *testing.T) {
	first := newStudent(t, 1)
	assert.True(t, first.IsEligibleFor(internship.LevelBasic))
	assert.False(t, first.IsEligibleFor(internship.LevelIntermediate))
	assert.False(t, first.IsEligibleFor(internship.LevelAdvanced))

	third := newStudent(t, 3)
	assert.True(t, third.IsEligibleFor(internship.LevelBasic))
	assert.True(t, third.IsEligibleFor(internship.LevelIntermediate))
	assert.True(t, third.IsEligibleFor(internship.LevelAdvanced))

	assert.False(t, third.IsEligibleFor(""))
}

func TestStudent_FilterEligibleVisibleOpen(t *testing.T) {
	s := newStudent(t, 2)

	basic := openPosting(t, "INT0001", internship.LevelBasic, 1)
	advanced := openPosting(t, "INT0002", internship.LevelAdvanced, 1)
	hidden := openPosting(t, "INT0003", internship.LevelBasic, 1)
	require.NoError(t, hidden.SetVisible(false))

	got := s.FilterEligibleVisibleOpen([]*internship.Internship{basic, advanced, hidden, nil}, today)
	require.Len(t, got, 1)
	assert.Equal(t, "INT0001", got[0].ID)
}

func TestStudent_AssertCanApply_CheckOrder(t *testing.T) {
	s := newStudent(t, 1)
	posting := openPosting(t, "INT0001", internship.LevelBasic, 2)

	require.NoError(t, s.AssertCanApply(posting, PlacementStats{StudentID: s.ID}, today))

	err := s.AssertCanApply(posting, PlacementStats{StudentID: s.ID, Confirmed: true, Active: 3}, today)
	assert.True(t, shared.IsNotEligible(err))
	assert.Contains(t, err.Error(), "confirmed placement")

	err = s.AssertCanApply(posting, PlacementStats{StudentID: s.ID, Active: 3}, today)
	assert.True(t, shared.IsNotEligible(err))
	assert.Contains(t, err.Error(), "cap reached (3)")

	advanced := openPosting(t, "INT0002", internship.LevelAdvanced, 1)
	err = s.AssertCanApply(advanced, PlacementStats{StudentID: s.ID, Active: 3}, today)
	assert.True(t, shared.IsNotEligible(err))
	assert.Contains(t, err.Error(), "level ADVANCED")

	err = s.AssertCanApply(posting, PlacementStats{StudentID: s.ID}, today.AddDate(1, 0, 0))
	assert.True(t, shared.IsInvalidState(err))
}

func TestStudent_AssertCanApply_FullPosting(t *testing.T) {
	s := newStudent(t, 3)
	posting := openPosting(t, "INT0001", internship.LevelBasic, 1)
	_, err := posting.IncrementConfirmedSlots()
	require.NoError(t, err)

	err = s.AssertCanApply(posting, PlacementStats{StudentID: s.ID}, today)
	assert.True(t, shared.IsCapacityExceeded(err))
}

func TestStudent_AssertCanConfirmOffer(t *testing.T) {
	s := newStudent(t, 3)

	assert.NoError(t, s.AssertCanConfirmOffer(PlacementStats{StudentID: s.ID}))
	assert.True(t, shared.IsNotEligible(s.AssertCanConfirmOffer(PlacementStats{StudentID: s.ID, Confirmed: true})))
}

func TestPlacementStats_OtherStudent(t *testing.T) {
	stats := PlacementStats{StudentID: "U1234567A", Active: 2, Confirmed: true}

	assert.Equal(t, 0, stats.CountActiveApplications("U7654321B"))
	assert.False(t, stats.HasConfirmedPlacement("U7654321B"))
	assert.True(t, newStudent(t, 3).CanStartAnotherApplication(stats))
}
