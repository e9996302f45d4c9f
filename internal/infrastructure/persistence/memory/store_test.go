package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/student"
)

func posting(t *testing.T, id, company string) *internship.Internship {
	t.Helper()
	i, err := internship.NewInternship(internship.NewInternshipParams{
		ID: id, CompanyName: company,
		Details: internship.Details{
			Title: "T", Description: "D", Level: internship.LevelBasic, PreferredMajor: "CSC",
			OpenDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			CloseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			MaxSlots:  2,
		},
	})
	require.NoError(t, err)
	return i
}

func TestStore_CommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Internships().Save(ctx, posting(t, "INT0001", "Acme")))

	// буфер виден внутри единицы работы, но не снаружи
	_, err = uow.Internships().GetByID(ctx, "INT0001")
	require.NoError(t, err)
	_, err = store.Reader().Internships().GetByID(ctx, "INT0001")
	assert.True(t, shared.IsNotFound(err))

	require.NoError(t, uow.Commit(ctx))

	got, err := store.Reader().Internships().GetByID(ctx, "INT0001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestStore_WithinRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := placement.Within(ctx, store, func(uow placement.UnitOfWork) error {
		if err := uow.Internships().Save(ctx, posting(t, "INT0001", "Acme")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := store.Reader().Internships().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_DeleteInsideUnitOfWork(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Reader().Internships().Save(ctx, posting(t, "INT0001", "Acme")))
	require.NoError(t, store.Reader().Internships().Save(ctx, posting(t, "INT0002", "Acme")))

	err := placement.Within(ctx, store, func(uow placement.UnitOfWork) error {
		if err := uow.Internships().Delete(ctx, "INT0001"); err != nil {
			return err
		}
		list, err := uow.Internships().List(ctx, internship.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "INT0002", list[0].ID)
		return nil
	})
	require.NoError(t, err)

	count, err := store.Reader().Internships().CountActiveByCompany(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.True(t, shared.IsNotFound(store.Reader().Internships().Delete(ctx, "INT0001")))
}

func TestStore_StudentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	s, err := student.NewStudent(student.NewStudentParams{ID: "U1111111A", Name: "Ann", YearOfStudy: 1, Major: "CSC"})
	require.NoError(t, err)

	require.NoError(t, store.Reader().Students().Save(ctx, s))
	got, err := store.Reader().Students().GetByID(ctx, "U1111111A")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	got.Name = "changed"
	again, err := store.Reader().Students().GetByID(ctx, "U1111111A")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name, "stored rows are copies")
}

func TestUnitOfWork_CommitTwice(t *testing.T) {
	ctx := context.Background()
	uow, err := NewStore().Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, uow.Commit(ctx))
	assert.Error(t, uow.Commit(ctx))
	assert.NoError(t, uow.Rollback(ctx))
}
