package placement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUoW struct {
	Repositories
	committed  bool
	rolledBack bool
	commitErr  error
}

func (u *recordingUoW) Commit(context.Context) error {
	u.committed = true
	return u.commitErr
}

func (u *recordingUoW) Rollback(context.Context) error {
	u.rolledBack = true
	return nil
}

type fakeFactory struct {
	uow      *recordingUoW
	beginErr error
}

func (f *fakeFactory) Begin(context.Context) (UnitOfWork, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.uow, nil
}

func (f *fakeFactory) Reader() Repositories { return nil }

func TestWithin(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		f := &fakeFactory{uow: &recordingUoW{}}
		require.NoError(t, Within(ctx, f, func(UnitOfWork) error { return nil }))
		assert.True(t, f.uow.committed)
		assert.False(t, f.uow.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		f := &fakeFactory{uow: &recordingUoW{}}
		boom := errors.New("boom")
		err := Within(ctx, f, func(UnitOfWork) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, f.uow.committed)
		assert.True(t, f.uow.rolledBack)
	})

	t.Run("commit failure rolls back", func(t *testing.T) {
		f := &fakeFactory{uow: &recordingUoW{commitErr: errors.New("serialization failure")}}
		err := Within(ctx, f, func(UnitOfWork) error { return nil })
		assert.Error(t, err)
		assert.True(t, f.uow.rolledBack)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		f := &fakeFactory{uow: &recordingUoW{}}
		assert.PanicsWithValue(t, "kaboom", func() {
			_ = Within(ctx, f, func(UnitOfWork) error { panic("kaboom") })
		})
		assert.True(t, f.uow.rolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		f := &fakeFactory{beginErr: errors.New("no connection")}
		called := false
		err := Within(ctx, f, func(UnitOfWork) error { called = true; return nil })
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys([]string{
		InternshipKey("INT0002"),
		StudentKey("U2100002B"),
		"",
		InternshipKey("INT0002"),
		WithdrawalKey("WRQ0001"),
	})
	assert.Equal(t, []string{"internship:INT0002", "student:U2100002B", "withdrawal:WRQ0001"}, keys)
}

func TestKeys_NormalizeCase(t *testing.T) {
	assert.Equal(t, "rep:hannah@acme.com", RepKey(" Hannah@Acme.com "))
	assert.Equal(t, CompanyKey("Acme Robotics"), CompanyKey("ACME ROBOTICS"))
}

func TestClockFunc(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	var c Clock = ClockFunc(func() time.Time { return day })
	assert.Equal(t, day, c.Today())
}
