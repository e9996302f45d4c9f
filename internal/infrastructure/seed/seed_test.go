package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/application/command"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/infrastructure/idgen"
	"github.com/careerhub/placement-hub/internal/infrastructure/lock"
	"github.com/careerhub/placement-hub/internal/infrastructure/persistence/memory"
)

func newSeeder(t *testing.T) (*Seeder, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	handlers := command.NewHandlers(command.Deps{
		Store:  store,
		Locker: lock.NewKeyed(),
		IDs:    idgen.NewSequence(),
		Clock:  placement.ClockFunc(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }),
	})
	return NewSeeder(store, handlers, nil), store
}

func TestLoad(t *testing.T) {
	f, err := Load("testdata/campus.yaml")
	require.NoError(t, err)

	assert.Len(t, f.Staff, 1)
	assert.Len(t, f.Students, 2)
	assert.Len(t, f.Reps, 2)
	require.Len(t, f.Internships, 2)
	assert.Equal(t, "2025-06-30", f.Internships[0].CloseDate)
	assert.True(t, f.Reps[0].Approved)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("students:\n  - id: U2300001A\n    gpa: 4.0\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Students)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)
	f, err := Load("testdata/campus.yaml")
	require.NoError(t, err)

	report, err := s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Report{Staff: 1, Students: 2, Reps: 2, Internships: 2}, report)

	rep, err := store.Reader().CompanyReps().GetByID(ctx, "hannah@acme.com")
	require.NoError(t, err)
	assert.True(t, rep.IsApproved())

	pending, err := store.Reader().CompanyReps().GetByID(ctx, "raj@bolt.io")
	require.NoError(t, err)
	assert.False(t, pending.IsApproved())

	postings, err := store.Reader().Internships().List(ctx, internship.Filter{CompanyName: "acme robotics"})
	require.NoError(t, err)
	require.Len(t, postings, 2)
	statuses := map[string]internship.Status{}
	for _, p := range postings {
		statuses[p.Title] = p.Status()
	}
	assert.Equal(t, internship.StatusApproved, statuses["Robotics Intern"])
	assert.Equal(t, internship.StatusPending, statuses["Firmware Intern"])

	again, err := s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 7}, again)
}

func TestSeeder_InvalidRecordsFail(t *testing.T) {
	ctx := context.Background()
	s, _ := newSeeder(t)

	_, err := s.Apply(ctx, &File{Students: []StudentRecord{{ID: "bad", Name: "X", Year: 1, Major: "CSC"}}})
	assert.True(t, shared.IsValidation(err))

	_, err = s.Apply(ctx, &File{Reps: []RepRecord{{
		Name: "R", Company: "C", Department: "D", Position: "P", Email: "r@c.com", Approved: true,
	}}})
	assert.Error(t, err, "approval needs a reviewer")

	_, err = s.Apply(ctx, &File{Internships: []InternshipRecord{{RepEmail: "ghost@c.com", Title: "T"}}})
	assert.True(t, shared.IsNotFound(err))
}
