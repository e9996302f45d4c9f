package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/application/query"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// detached shares the wiring but lets the test, not the command, close it.
func (a *App) detached() *App {
	c := *a
	c.closers = nil
	return &c
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewMemoryApp(logger.Nop(), placement.ClockFunc(func() time.Time { return testToday }))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	report, err := app.Seed(context.Background(), "testdata/campus.yaml")
	require.NoError(t, err)
	require.Equal(t, 2, report.Internships)
	return app
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(func(context.Context, Options) (*App, error) {
		return app.detached(), nil
	})
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func runJSON(t *testing.T, app *App, v any, args ...string) {
	t.Helper()
	out, err := run(t, app, append(args, "--format", "json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func postingID(t *testing.T, app *App, title string) string {
	t.Helper()
	var list []query.InternshipDTO
	runJSON(t, app, &list, "internship", "list", "--staff", "S0001")
	for _, i := range list {
		if i.Title == title {
			return i.ID
		}
	}
	t.Fatalf("posting %q not found", title)
	return ""
}

func TestInternshipAvailable_FiltersByYear(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "internship", "available", "--student", "U2300001A")
	require.NoError(t, err)
	assert.Contains(t, out, "Robotics Intern")
	assert.NotContains(t, out, "Firmware Intern", "pending postings are hidden")
	assert.Contains(t, out, "can apply: yes")
}

func TestInternshipReview_MakesPostingVisible(t *testing.T) {
	app := newTestApp(t)
	firmware := postingID(t, app, "Firmware Intern")

	var approved []query.InternshipDTO
	runJSON(t, app, &approved, "internship", "approve", "--staff", "S0001", "--id", firmware, "--visible")
	require.Len(t, approved, 1)
	assert.Equal(t, "APPROVED", approved[0].Status)
	assert.True(t, approved[0].Visible)

	var avail query.AvailableInternshipsResult
	runJSON(t, app, &avail, "internship", "available", "--student", "U2100002B")
	assert.Len(t, avail.Internships, 2)

	var juniors query.AvailableInternshipsResult
	runJSON(t, app, &juniors, "internship", "available", "--student", "U2300001A")
	assert.Len(t, juniors.Internships, 1, "ADVANCED postings are not offered to first years")
}

func TestInternshipCreate_ByRep(t *testing.T) {
	app := newTestApp(t)

	var created []query.InternshipDTO
	runJSON(t, app, &created, "internship", "create",
		"--rep", "Hannah@Acme.com",
		"--title", "QA Intern",
		"--description", "Test harnesses.",
		"--level", "INTERMEDIATE",
		"--major", "CSC",
		"--open", "2025-03-01",
		"--close", "2025-04-30",
		"--slots", "4",
	)
	require.Len(t, created, 1)
	assert.Equal(t, "PENDING", created[0].Status)
	assert.Equal(t, "Acme Robotics", created[0].CompanyName)

	var postings query.CompanyPostingsResult
	runJSON(t, app, &postings, "rep", "postings", "--rep", "hannah@acme.com")
	assert.Len(t, postings.Postings, 3)
	assert.Equal(t, 3, postings.ActivePostings)
}

func TestApplicationLifecycle(t *testing.T) {
	app := newTestApp(t)
	robotics := postingID(t, app, "Robotics Intern")

	var applied []query.ApplicationDTO
	runJSON(t, app, &applied, "application", "apply", "--student", "U2100002B", "--internship", robotics)
	require.Len(t, applied, 1)
	appID := applied[0].ID
	assert.Equal(t, "PENDING", applied[0].Status)

	var forPosting []query.ApplicationDTO
	runJSON(t, app, &forPosting, "application", "posting", "--rep", "hannah@acme.com", "--internship", robotics)
	require.Len(t, forPosting, 1)
	assert.Equal(t, "U2100002B", forPosting[0].StudentID)

	_, err := run(t, app, "application", "decide", "--rep", "hannah@acme.com", "--id", appID, "--outcome", "successful")
	require.NoError(t, err)

	out, err := run(t, app, "application", "accept", "--student", "U2100002B", "--id", appID)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESSFUL")

	var mine query.MyApplicationsResult
	runJSON(t, app, &mine, "application", "list", "--student", "U2100002B")
	require.Len(t, mine.Applications, 1)
	assert.True(t, mine.Applications[0].StudentAccepted)
	require.NotNil(t, mine.Applications[0].Internship)
	assert.Equal(t, 1, mine.Applications[0].Internship.ConfirmedSlots)

	// withdrawal round trip releases the slot
	var requested []query.WithdrawalDTO
	runJSON(t, app, &requested, "withdrawal", "request", "--student", "U2100002B", "--application", appID, "--reason", "moving abroad")
	require.Len(t, requested, 1)

	var pending []query.WithdrawalDTO
	runJSON(t, app, &pending, "withdrawal", "pending")
	require.Len(t, pending, 1)
	assert.Equal(t, requested[0].ID, pending[0].ID)

	out, err = run(t, app, "withdrawal", "approve", "--staff", "S0001", "--id", requested[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "accepted offer revoked")

	runJSON(t, app, &mine, "application", "list", "--student", "U2100002B")
	assert.Equal(t, "WITHDRAWN", mine.Applications[0].Status)
	assert.Equal(t, 0, mine.Applications[0].Internship.ConfirmedSlots)
}

func TestRepReview(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "rep", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "raj@bolt.io")

	_, err = run(t, app, "rep", "approve", "--staff", "S0001", "--email", "RAJ@bolt.io")
	require.NoError(t, err)

	out, err = run(t, app, "rep", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "(no representatives)")

	_, err = run(t, app, "rep", "approve", "--staff", "S0001", "--email", "raj@bolt.io")
	assert.True(t, shared.IsInvalidState(err))
}

func TestRepRegister(t *testing.T) {
	app := newTestApp(t)

	var reps []query.RepDTO
	runJSON(t, app, &reps, "rep", "register",
		"--name", "Mei Chen", "--company", "Bolt Labs", "--department", "R&D",
		"--position", "Manager", "--email", "Mei@Bolt.io")
	require.Len(t, reps, 1)
	assert.Equal(t, "mei@bolt.io", reps[0].ID)
	assert.False(t, reps[0].Approved)

	_, err := run(t, app, "rep", "register",
		"--name", "Mei Chen", "--company", "Bolt Labs", "--department", "R&D",
		"--position", "Manager", "--email", "mei@bolt.io")
	assert.True(t, shared.IsAlreadyExists(err))
}

func TestErrorKinds(t *testing.T) {
	app := newTestApp(t)
	robotics := postingID(t, app, "Robotics Intern")

	tests := []struct {
		name string
		args []string
		kind string
	}{
		{"malformed student id", []string{"application", "apply", "--student", "bad", "--internship", robotics}, "validation"},
		{"unknown student", []string{"application", "apply", "--student", "U9999999Z", "--internship", robotics}, "not_found"},
		{"bad outcome", []string{"application", "decide", "--rep", "hannah@acme.com", "--id", "APP0001", "--outcome", "maybe"}, "validation"},
		{"bad date", []string{"internship", "expire", "--as-of", "tomorrow"}, "validation"},
		{"foreign rep", []string{"internship", "close", "--rep", "raj@bolt.io", "--id", robotics}, "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, app, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, shared.KindOf(err), err.Error())
		})
	}
}

func TestInternshipExpire(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "internship", "expire", "--as-of", "2025-07-01")
	require.NoError(t, err)
	assert.Contains(t, out, "closed 1 posting(s)")

	var list []query.InternshipDTO
	runJSON(t, app, &list, "internship", "list", "--staff", "S0001", "--status", "CLOSED")
	require.Len(t, list, 1)
	assert.Equal(t, "Robotics Intern", list[0].Title)
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "migrate", "status")
	assert.ErrorIs(t, err, errNoMigrator)
}

func TestUnknownFormat(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "rep", "pending", "--format", "xml")
	assert.Error(t, err)
}

func TestSeedCommand_IsIdempotent(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "seed", "--file", "testdata/campus.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 staff, 0 students, 0 reps, 0 internships")
}

func TestDemo(t *testing.T) {
	root := NewRootCmd(func(context.Context, Options) (*App, error) {
		t.Fatal("demo must not open the configured app")
		return nil, nil
	})
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"demo", "--today", "2025-03-10"})

	require.NoError(t, root.Execute())
	out := buf.String()
	assert.Contains(t, out, "==> 9. company view")
	assert.Contains(t, out, "[not_eligible]")
	assert.Contains(t, out, "done: 2 applications submitted, 1 offers accepted, 1 withdrawals processed")
}
