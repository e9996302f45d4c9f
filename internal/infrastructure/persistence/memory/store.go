// Package memory provides an in-process store for all placement aggregates.
// Units of work buffer their writes and apply them atomically on commit.
// Isolation between concurrent units is provided by placement.Locker, not by
// the store itself.
package memory

import (
	"context"
	"sync"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// Store holds committed rows of every aggregate.
type Store struct {
	mu sync.RWMutex

	internships  *table[internship.Snapshot]
	students     *table[student.Student]
	applications *table[application.Snapshot]
	withdrawals  *table[withdrawal.Snapshot]
	reps         *table[company.Snapshot]
	staff        *table[staff.Staff]

	reader *repositories
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.internships = newTable[internship.Snapshot](&s.mu)
	s.students = newTable[student.Student](&s.mu)
	s.applications = newTable[application.Snapshot](&s.mu)
	s.withdrawals = newTable[withdrawal.Snapshot](&s.mu)
	s.reps = newTable[company.Snapshot](&s.mu)
	s.staff = newTable[staff.Staff](&s.mu)

	s.reader = &repositories{
		internships:  &internshipRepo{rows: s.internships},
		students:     &studentRepo{rows: s.students},
		applications: &applicationRepo{rows: s.applications},
		withdrawals:  &withdrawalRepo{rows: s.withdrawals},
		reps:         &companyRepo{rows: s.reps},
		staff:        &staffRepo{rows: s.staff},
	}
	return s
}

// Reader implements placement.UnitOfWorkFactory. Writes through the reader
// are committed immediately.
func (s *Store) Reader() placement.Repositories {
	return s.reader
}

// Begin implements placement.UnitOfWorkFactory.
func (s *Store) Begin(ctx context.Context) (placement.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := &unitOfWork{
		store:        s,
		internships:  newTxTable(s.internships),
		students:     newTxTable(s.students),
		applications: newTxTable(s.applications),
		withdrawals:  newTxTable(s.withdrawals),
		reps:         newTxTable(s.reps),
		staff:        newTxTable(s.staff),
	}
	u.repositories = repositories{
		internships:  &internshipRepo{rows: u.internships},
		students:     &studentRepo{rows: u.students},
		applications: &applicationRepo{rows: u.applications},
		withdrawals:  &withdrawalRepo{rows: u.withdrawals},
		reps:         &companyRepo{rows: u.reps},
		staff:        &staffRepo{rows: u.staff},
	}
	return u, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

type unitOfWork struct {
	repositories

	store *Store
	done  bool

	internships  *txTable[internship.Snapshot]
	students     *txTable[student.Student]
	applications *txTable[application.Snapshot]
	withdrawals  *txTable[withdrawal.Snapshot]
	reps         *txTable[company.Snapshot]
	staff        *txTable[staff.Staff]
}

// Commit applies every buffered write under a single store lock.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return shared.NewDomainError("memory", "Commit", shared.ErrInvalidState, "unit of work already finished")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	u.internships.apply()
	u.students.apply()
	u.applications.apply()
	u.withdrawals.apply()
	u.reps.apply()
	u.staff.apply()
	u.store.mu.Unlock()

	u.done = true
	return nil
}

// Rollback drops the buffer.
func (u *unitOfWork) Rollback(context.Context) error {
	if u.done {
		return nil
	}
	u.internships.reset()
	u.students.reset()
	u.applications.reset()
	u.withdrawals.reset()
	u.reps.reset()
	u.staff.reset()
	u.done = true
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY SET
// ══════════════════════════════════════════════════════════════════════════════

type repositories struct {
	internships  *internshipRepo
	students     *studentRepo
	applications *applicationRepo
	withdrawals  *withdrawalRepo
	reps         *companyRepo
	staff        *staffRepo
}

func (r *repositories) Internships() internship.Repository   { return r.internships }
func (r *repositories) Students() student.Repository         { return r.students }
func (r *repositories) Applications() application.Repository { return r.applications }
func (r *repositories) Withdrawals() withdrawal.Repository   { return r.withdrawals }
func (r *repositories) CompanyReps() company.Repository      { return r.reps }
func (r *repositories) Staff() staff.Repository              { return r.staff }

var (
	_ placement.UnitOfWorkFactory = (*Store)(nil)
	_ placement.UnitOfWork        = (*unitOfWork)(nil)
)
