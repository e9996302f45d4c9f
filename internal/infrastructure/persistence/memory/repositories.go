package memory

import (
	"context"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// ══════════════════════════════════════════════════════════════════════════════
// INTERNSHIPS
// ══════════════════════════════════════════════════════════════════════════════

type internshipRepo struct {
	rows rowStore[internship.Snapshot]
}

func (r *internshipRepo) Save(ctx context.Context, i *internship.Internship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(i.ID, i.Snapshot())
	return nil
}

func (r *internshipRepo) GetByID(ctx context.Context, id string) (*internship.Internship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := r.rows.get(id)
	if !ok {
		return nil, shared.ErrInternshipNotFound
	}
	return internship.Restore(snap)
}

func (r *internshipRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.rows.get(id); !ok {
		return shared.ErrInternshipNotFound
	}
	r.rows.del(id)
	return nil
}

func (r *internshipRepo) List(ctx context.Context, filter internship.Filter) ([]*internship.Internship, error) {
	all, err := r.restoreAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Normalized().Apply(all), nil
}

func (r *internshipRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.rows.all()), nil
}

func (r *internshipRepo) CountActiveByCompany(ctx context.Context, companyName string) (int, error) {
	all, err := r.restoreAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, i := range all {
		if i.IsOwnedBy(companyName) && i.Status().IsActivePosting() {
			n++
		}
	}
	return n, nil
}

func (r *internshipRepo) restoreAll(ctx context.Context) ([]*internship.Internship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snaps := r.rows.all()
	out := make([]*internship.Internship, 0, len(snaps))
	for _, s := range snaps {
		i, err := internship.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

type studentRepo struct {
	rows rowStore[student.Student]
}

func (r *studentRepo) Save(ctx context.Context, s *student.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(s.ID, *s)
	return nil
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := r.rows.get(id)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return &s, nil
}

func (r *studentRepo) List(ctx context.Context) ([]*student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := r.rows.all()
	out := make([]*student.Student, len(rows))
	for idx := range rows {
		out[idx] = &rows[idx]
	}
	return out, nil
}

func (r *studentRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.rows.all()), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

type applicationRepo struct {
	rows rowStore[application.Snapshot]
}

func (r *applicationRepo) Save(ctx context.Context, a *application.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(a.ID, a.Snapshot())
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*application.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := r.rows.get(id)
	if !ok {
		return nil, shared.ErrApplicationNotFound
	}
	return application.Restore(snap)
}

func (r *applicationRepo) List(ctx context.Context) ([]*application.Application, error) {
	return r.where(ctx, func(application.Snapshot) bool { return true })
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]*application.Application, error) {
	return r.where(ctx, func(s application.Snapshot) bool { return s.StudentID == studentID })
}

func (r *applicationRepo) ListByInternship(ctx context.Context, internshipID string) ([]*application.Application, error) {
	return r.where(ctx, func(s application.Snapshot) bool { return s.InternshipID == internshipID })
}

func (r *applicationRepo) ExistsByStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error) {
	apps, err := r.where(ctx, func(s application.Snapshot) bool {
		return s.StudentID == studentID && s.InternshipID == internshipID
	})
	if err != nil {
		return false, err
	}
	return len(apps) > 0, nil
}

func (r *applicationRepo) StatsForStudent(ctx context.Context, studentID string) (student.PlacementStats, error) {
	apps, err := r.ListByStudent(ctx, studentID)
	if err != nil {
		return student.PlacementStats{}, err
	}
	return application.ComputeStats(studentID, apps), nil
}

func (r *applicationRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.rows.all()), nil
}

func (r *applicationRepo) where(ctx context.Context, keep func(application.Snapshot) bool) ([]*application.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*application.Application
	for _, s := range r.rows.all() {
		if !keep(s) {
			continue
		}
		a, err := application.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WITHDRAWALS
// ══════════════════════════════════════════════════════════════════════════════

type withdrawalRepo struct {
	rows rowStore[withdrawal.Snapshot]
}

func (r *withdrawalRepo) Save(ctx context.Context, w *withdrawal.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(w.ID, w.Snapshot())
	return nil
}

func (r *withdrawalRepo) GetByID(ctx context.Context, id string) (*withdrawal.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := r.rows.get(id)
	if !ok {
		return nil, shared.ErrWithdrawalNotFound
	}
	return withdrawal.Restore(snap)
}

func (r *withdrawalRepo) List(ctx context.Context) ([]*withdrawal.Request, error) {
	return r.where(ctx, func(withdrawal.Snapshot) bool { return true })
}

func (r *withdrawalRepo) ListByApplication(ctx context.Context, applicationID string) ([]*withdrawal.Request, error) {
	return r.where(ctx, func(s withdrawal.Snapshot) bool { return s.ApplicationID == applicationID })
}

func (r *withdrawalRepo) ListByStudent(ctx context.Context, studentID string) ([]*withdrawal.Request, error) {
	return r.where(ctx, func(s withdrawal.Snapshot) bool { return s.RequestedBy == studentID })
}

func (r *withdrawalRepo) ListPending(ctx context.Context) ([]*withdrawal.Request, error) {
	return r.where(ctx, func(s withdrawal.Snapshot) bool { return s.Status == withdrawal.StatusPending })
}

func (r *withdrawalRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.rows.all()), nil
}

func (r *withdrawalRepo) where(ctx context.Context, keep func(withdrawal.Snapshot) bool) ([]*withdrawal.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*withdrawal.Request
	for _, s := range r.rows.all() {
		if !keep(s) {
			continue
		}
		w, err := withdrawal.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPANY REPRESENTATIVES & STAFF
// ══════════════════════════════════════════════════════════════════════════════

type companyRepo struct {
	rows rowStore[company.Snapshot]
}

func (r *companyRepo) Save(ctx context.Context, rep *company.Rep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(rep.ID, rep.Snapshot())
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*company.Rep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := r.rows.get(shared.NormalizeEmail(id))
	if !ok {
		return nil, shared.ErrCompanyRepNotFound
	}
	return company.Restore(snap), nil
}

func (r *companyRepo) List(ctx context.Context) ([]*company.Rep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snaps := r.rows.all()
	out := make([]*company.Rep, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, company.Restore(s))
	}
	return out, nil
}

func (r *companyRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.rows.all()), nil
}

type staffRepo struct {
	rows rowStore[staff.Staff]
}

func (r *staffRepo) Save(ctx context.Context, s *staff.Staff) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.rows.put(s.ID, *s)
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*staff.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := r.rows.get(id)
	if !ok {
		return nil, shared.ErrStaffNotFound
	}
	return &s, nil
}

func (r *staffRepo) List(ctx context.Context) ([]*staff.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := r.rows.all()
	out := make([]*staff.Staff, len(rows))
	for idx := range rows {
		out[idx] = &rows[idx]
	}
	return out, nil
}
