package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

var today = time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

func newStaff(t *testing.T) *Staff {
	t.Helper()
	s, err := NewStaff(NewStaffParams{
		ID: "sng001", Name: "Sam", Role: "Officer", Department: "CCDS", Email: "sam@u.edu",
	})
	require.NoError(t, err)
	return s
}

func posting(t *testing.T, id, company, major string, level internship.Level) *internship.Internship {
	t.Helper()
	i, err := internship.NewInternship(internship.NewInternshipParams{
		ID: id, CompanyName: company,
		Details: internship.Details{
			Title: "T", Description: "D", Level: level, PreferredMajor: major,
			OpenDate: today, CloseDate: today.AddDate(0, 1, 0), MaxSlots: 1,
		},
	})
	require.NoError(t, err)
	return i
}

func TestNewStaff_Validation(t *testing.T) {
	_, err := NewStaff(NewStaffParams{ID: "x", Name: "y", Role: "", Department: "d", Email: "a@b.c"})
	assert.True(t, shared.IsValidation(err))
}

func TestStaff_ReviewInternship(t *testing.T) {
	s := newStaff(t)

	i := posting(t, "INT0001", "Acme", "CSC", internship.LevelBasic)
	require.NoError(t, s.ApproveInternship(i, true))
	assert.Equal(t, internship.StatusApproved, i.Status())
	assert.True(t, i.Visible())

	assert.True(t, shared.IsInvalidState(s.ApproveInternship(i, true)))
	assert.True(t, shared.IsInvalidState(s.RejectInternship(i)))

	j := posting(t, "INT0002", "Acme", "CSC", internship.LevelBasic)
	require.NoError(t, s.ApproveInternship(j, false))
	assert.False(t, j.Visible())

	k := posting(t, "INT0003", "Acme", "CSC", internship.LevelBasic)
	require.NoError(t, s.RejectInternship(k))
	assert.Equal(t, internship.StatusRejected, k.Status())
}

func TestStaff_ReviewCompanyRep(t *testing.T) {
	s := newStaff(t)
	r, err := company.NewRep(company.NewRepParams{
		Name: "Rae", CompanyName: "Acme", Department: "HR", Position: "Lead", Email: "rae@acme.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.RejectCompanyRep(r, "incomplete details"))
	assert.Equal(t, "incomplete details", r.RejectionReason())
	require.NoError(t, s.ApproveCompanyRep(r))
	assert.True(t, r.IsApproved())
}

func TestStaff_FilterInternships(t *testing.T) {
	s := newStaff(t)
	all := []*internship.Internship{
		posting(t, "INT0001", "Acme", "CSC", internship.LevelBasic),
		posting(t, "INT0002", "acme", "EEE", internship.LevelAdvanced),
		posting(t, "INT0003", "Globex", "CSC", internship.LevelBasic),
	}
	require.NoError(t, all[2].Reject())

	got := s.FilterInternships(all, internship.Filter{CompanyName: " ACME "})
	assert.Len(t, got, 2)

	got = s.FilterInternships(all, internship.Filter{Major: "csc", Status: internship.StatusPending})
	require.Len(t, got, 1)
	assert.Equal(t, "INT0001", got[0].ID)

	got = s.FilterInternships(all, internship.Filter{Level: internship.LevelAdvanced})
	require.Len(t, got, 1)
	assert.Equal(t, "INT0002", got[0].ID)
}

func TestStaff_ProcessWithdrawal_DefaultNotes(t *testing.T) {
	s := newStaff(t)
	i := posting(t, "INT0001", "Acme", "CSC", internship.LevelBasic)
	require.NoError(t, s.ApproveInternship(i, true))

	st, err := student.NewStudent(student.NewStudentParams{ID: "U4000004D", Name: "Kim", YearOfStudy: 2, Major: "CSC"})
	require.NoError(t, err)
	a, err := application.NewApplication(application.NewApplicationParams{
		ID: "APP0001", Student: st, Internship: i,
		Apps: student.PlacementStats{StudentID: st.ID}, AppliedOn: today,
	})
	require.NoError(t, err)

	approveReq, err := withdrawal.NewRequest(withdrawal.NewRequestParams{ID: "WRQ0001", Application: a, StudentID: st.ID, Reason: "r"})
	require.NoError(t, err)
	out, err := s.ProcessWithdrawal(approveReq, true, "", today)
	require.NoError(t, err)
	assert.True(t, out.Withdrawn)
	assert.Equal(t, DefaultApproveNote, approveReq.StaffNote())
	assert.Equal(t, "sng001", approveReq.ProcessedBy())

	rejectReq, err := withdrawal.NewRequest(withdrawal.NewRequestParams{ID: "WRQ0002", Application: a, StudentID: st.ID, Reason: "r"})
	require.NoError(t, err)
	_, err = s.ProcessWithdrawal(rejectReq, false, "  ", today)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusRejected, rejectReq.Status())
	assert.Equal(t, DefaultRejectNote, rejectReq.StaffNote())
}
