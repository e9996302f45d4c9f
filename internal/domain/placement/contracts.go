// Package placement declares the cross-aggregate contracts used by the
// application layer: a repository set, a unit of work that commits all of
// them atomically, and a locker that serializes work per aggregate.
package placement

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORIES
// ══════════════════════════════════════════════════════════════════════════════

// Repositories groups the per-aggregate repositories of one store.
type Repositories interface {
	Internships() internship.Repository
	Students() student.Repository
	Applications() application.Repository
	Withdrawals() withdrawal.Repository
	CompanyReps() company.Repository
	Staff() staff.Repository
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork is a transactional view over the store. Changes become visible
// to other readers only after Commit.
type UnitOfWork interface {
	Repositories

	// Commit makes all writes of the unit durable.
	Commit(ctx context.Context) error

	// Rollback discards all writes. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory opens units of work and exposes non-transactional reads.
type UnitOfWorkFactory interface {
	// Begin starts a new unit of work.
	Begin(ctx context.Context) (UnitOfWork, error)

	// Reader returns repositories for read-only queries outside a unit of work.
	Reader() Repositories
}

// Within runs fn inside a unit of work, committing on success and rolling
// back on error or panic.
func Within(ctx context.Context, f UnitOfWorkFactory, fn func(uow UnitOfWork) error) (err error) {
	uow, err := f.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = uow.Rollback(ctx)
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// LOCKING
// ══════════════════════════════════════════════════════════════════════════════

// Locker serializes mutations per aggregate key.
type Locker interface {
	// Lock acquires all keys and returns a release function. Implementations
	// acquire keys in sorted order so overlapping sets cannot deadlock.
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

// StudentKey locks everything that counts toward one student's caps.
func StudentKey(id string) string { return "student:" + id }

// InternshipKey locks one posting's slot ledger.
func InternshipKey(id string) string { return "internship:" + id }

// WithdrawalKey locks one withdrawal request.
func WithdrawalKey(id string) string { return "withdrawal:" + id }

// RepKey locks one representative account.
func RepKey(email string) string { return "rep:" + strings.ToLower(strings.TrimSpace(email)) }

// CompanyKey locks one company's posting cap.
func CompanyKey(name string) string { return "company:" + strings.ToLower(strings.TrimSpace(name)) }

// SortedKeys returns a de-duplicated, sorted copy of keys.
func SortedKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Clock supplies the current calendar date used by date-window checks.
type Clock interface {
	Today() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Today implements Clock.
func (f ClockFunc) Today() time.Time { return f() }
