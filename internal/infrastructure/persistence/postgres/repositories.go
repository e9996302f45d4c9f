package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/internal/domain/student"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORIES
// Each repository runs against a Querier: the pool for plain reads, a pgx.Tx
// inside a unit of work. Inside a unit of work single-row reads of
// internships and applications take FOR UPDATE row locks.
// ══════════════════════════════════════════════════════════════════════════════

type repositories struct {
	internships  *InternshipRepository
	students     *StudentRepository
	applications *ApplicationRepository
	withdrawals  *WithdrawalRepository
	reps         *CompanyRepRepository
	staff        *StaffRepository
}

func newRepositories(q Querier, lockRows bool) repositories {
	return repositories{
		internships:  &InternshipRepository{q: q, lockRows: lockRows},
		students:     &StudentRepository{q: q},
		applications: &ApplicationRepository{q: q, lockRows: lockRows},
		withdrawals:  &WithdrawalRepository{q: q},
		reps:         &CompanyRepRepository{q: q},
		staff:        &StaffRepository{q: q},
	}
}

func (r repositories) Internships() internship.Repository   { return r.internships }
func (r repositories) Students() student.Repository         { return r.students }
func (r repositories) Applications() application.Repository { return r.applications }
func (r repositories) Withdrawals() withdrawal.Repository   { return r.withdrawals }
func (r repositories) CompanyReps() company.Repository      { return r.reps }
func (r repositories) Staff() staff.Repository              { return r.staff }

// forUpdate appends a row-lock clause when the repository runs inside a
// unit of work.
func forUpdate(query string, lock bool) string {
	if lock {
		return query + " FOR UPDATE"
	}
	return query
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := shared.DateOf(t)
	return &d
}

func count(ctx context.Context, q Querier, table string) (int, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNSHIPS
// ══════════════════════════════════════════════════════════════════════════════

// InternshipRepository implements internship.Repository for PostgreSQL.
type InternshipRepository struct {
	q        Querier
	lockRows bool
}

const internshipColumns = `id, title, description, level, preferred_major, open_date, close_date, status,
	company_name, created_by, max_slots, confirmed_slots, visible, created_at, updated_at`

// Save upserts the posting.
func (r *InternshipRepository) Save(ctx context.Context, i *internship.Internship) error {
	s := i.Snapshot()
	_, err := r.q.Exec(ctx, `
		INSERT INTO internships (`+internshipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			level = EXCLUDED.level,
			preferred_major = EXCLUDED.preferred_major,
			open_date = EXCLUDED.open_date,
			close_date = EXCLUDED.close_date,
			status = EXCLUDED.status,
			max_slots = EXCLUDED.max_slots,
			confirmed_slots = EXCLUDED.confirmed_slots,
			visible = EXCLUDED.visible,
			updated_at = EXCLUDED.updated_at
	`,
		s.ID, s.Title, s.Description, string(s.Level), s.PreferredMajor,
		shared.DateOf(s.OpenDate), shared.DateOf(s.CloseDate), string(s.Status),
		s.CompanyName, s.CreatedBy, s.MaxSlots, s.ConfirmedSlots, s.Visible, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save internship %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a posting by ID.
func (r *InternshipRepository) GetByID(ctx context.Context, id string) (*internship.Internship, error) {
	query := forUpdate("SELECT "+internshipColumns+" FROM internships WHERE id = $1", r.lockRows)
	i, err := scanInternship(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrInternshipNotFound
		}
		return nil, fmt.Errorf("failed to get internship %s: %w", id, err)
	}
	return i, nil
}

// Delete removes a posting.
func (r *InternshipRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, "DELETE FROM internships WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete internship %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrInternshipNotFound
	}
	return nil
}

// List returns postings matching the filter, ordered by ID.
func (r *InternshipRepository) List(ctx context.Context, filter internship.Filter) ([]*internship.Internship, error) {
	query, args := internshipListQuery(filter)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	var out []*internship.Internship
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Visibility and major matching stay in Go so both stores share one rule.
	return filter.Normalized().Apply(out), nil
}

// internshipListQuery pushes the indexed filter criteria into SQL.
func internshipListQuery(filter internship.Filter) (string, []any) {
	filter = filter.Normalized()

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if filter.Level != "" {
		where = append(where, "level = "+arg(string(filter.Level)))
	}
	if filter.CompanyName != "" {
		where = append(where, "LOWER(company_name) = LOWER("+arg(filter.CompanyName)+")")
	}
	if filter.VisibleOnly {
		where = append(where, "visible AND status = 'APPROVED'")
	}
	if !filter.ClosesBefore.IsZero() {
		where = append(where, "close_date < "+arg(shared.DateOf(filter.ClosesBefore)))
	}

	query := "SELECT " + internshipColumns + " FROM internships"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY id", args
}

// Count returns the number of postings.
func (r *InternshipRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, "internships")
}

// CountActiveByCompany counts PENDING and APPROVED postings of a company.
func (r *InternshipRepository) CountActiveByCompany(ctx context.Context, companyName string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM internships
		WHERE LOWER(company_name) = LOWER($1) AND status IN ('PENDING', 'APPROVED')
	`, strings.TrimSpace(companyName)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active postings: %w", err)
	}
	return n, nil
}

func scanInternship(row pgx.Row) (*internship.Internship, error) {
	var (
		s             internship.Snapshot
		level, status string
	)
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &level, &s.PreferredMajor, &s.OpenDate, &s.CloseDate, &status,
		&s.CompanyName, &s.CreatedBy, &s.MaxSlots, &s.ConfirmedSlots, &s.Visible, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Level = internship.Level(level)
	s.Status = internship.Status(status)
	return internship.Restore(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	q Querier
}

// Save upserts the student.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO students (id, name, year_of_study, major, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			year_of_study = EXCLUDED.year_of_study,
			major = EXCLUDED.major,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Name, s.YearOfStudy, s.Major, s.Email, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save student %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	s, err := scanStudent(r.q.QueryRow(ctx, `
		SELECT id, name, year_of_study, major, email, created_at, updated_at
		FROM students WHERE id = $1
	`, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student %s: %w", id, err)
	}
	return s, nil
}

// List returns all students ordered by ID.
func (r *StudentRepository) List(ctx context.Context) ([]*student.Student, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, year_of_study, major, email, created_at, updated_at
		FROM students ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var out []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, "students")
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	if err := row.Scan(&s.ID, &s.Name, &s.YearOfStudy, &s.Major, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ApplicationRepository implements application.Repository for PostgreSQL.
type ApplicationRepository struct {
	q        Querier
	lockRows bool
}

const applicationColumns = `id, student_id, internship_id, applied_on, status, student_accepted, updated_at`

// Save upserts the application. A second application by the same student
// for the same posting maps to ErrAlreadyExists.
func (r *ApplicationRepository) Save(ctx context.Context, a *application.Application) error {
	s := a.Snapshot()
	_, err := r.q.Exec(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			student_accepted = EXCLUDED.student_accepted,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.StudentID, s.InternshipID, shared.DateOf(s.AppliedOn), string(s.Status), s.StudentAccepted, s.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("application", "Save", shared.ErrAlreadyExists,
				"student already applied to this internship or already holds a placement", err)
		}
		return fmt.Errorf("failed to save application %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns an application by ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*application.Application, error) {
	query := forUpdate("SELECT "+applicationColumns+" FROM applications WHERE id = $1", r.lockRows)
	a, err := scanApplication(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return a, nil
}

// List returns all applications ordered by ID.
func (r *ApplicationRepository) List(ctx context.Context) ([]*application.Application, error) {
	return r.where(ctx, "")
}

// ListByStudent returns the student's applications.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*application.Application, error) {
	return r.where(ctx, "student_id = $1", studentID)
}

// ListByInternship returns the applications to a posting.
func (r *ApplicationRepository) ListByInternship(ctx context.Context, internshipID string) ([]*application.Application, error) {
	return r.where(ctx, "internship_id = $1", internshipID)
}

// ExistsByStudentAndInternship reports whether the pair already applied.
func (r *ApplicationRepository) ExistsByStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM applications WHERE student_id = $1 AND internship_id = $2)
	`, studentID, internshipID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

// StatsForStudent snapshots the student's active count and placement flag.
func (r *ApplicationRepository) StatsForStudent(ctx context.Context, studentID string) (student.PlacementStats, error) {
	apps, err := r.ListByStudent(ctx, studentID)
	if err != nil {
		return student.PlacementStats{}, err
	}
	return application.ComputeStats(studentID, apps), nil
}

// Count returns the number of applications.
func (r *ApplicationRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, "applications")
}

func (r *ApplicationRepository) where(ctx context.Context, cond string, args ...any) ([]*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications"
	if cond != "" {
		query += " WHERE " + cond
	}
	rows, err := r.q.Query(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []*application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (*application.Application, error) {
	var (
		s      application.Snapshot
		status string
	)
	if err := row.Scan(&s.ID, &s.StudentID, &s.InternshipID, &s.AppliedOn, &status, &s.StudentAccepted, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = application.Status(status)
	return application.Restore(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// WITHDRAWAL REQUESTS
// ══════════════════════════════════════════════════════════════════════════════

// WithdrawalRepository implements withdrawal.Repository for PostgreSQL.
type WithdrawalRepository struct {
	q Querier
}

const withdrawalColumns = `id, application_id, requested_by, requested_on, reason, status, processed_by, processed_on, staff_note`

// Save upserts the request. A second pending request for the same
// application maps to ErrAlreadyExists.
func (r *WithdrawalRepository) Save(ctx context.Context, w *withdrawal.Request) error {
	s := w.Snapshot()
	_, err := r.q.Exec(ctx, `
		INSERT INTO withdrawal_requests (`+withdrawalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			processed_by = EXCLUDED.processed_by,
			processed_on = EXCLUDED.processed_on,
			staff_note = EXCLUDED.staff_note
	`, s.ID, s.ApplicationID, s.RequestedBy, shared.DateOf(s.RequestedOn), s.Reason, string(s.Status),
		s.ProcessedBy, nullableDate(s.ProcessedOn), s.StaffNote)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("withdrawal", "Save", shared.ErrAlreadyExists,
				"a pending withdrawal request already exists for this application", err)
		}
		return fmt.Errorf("failed to save withdrawal request %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a request by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*withdrawal.Request, error) {
	w, err := scanWithdrawal(r.q.QueryRow(ctx, "SELECT "+withdrawalColumns+" FROM withdrawal_requests WHERE id = $1", id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal request %s: %w", id, err)
	}
	return w, nil
}

// List returns all requests ordered by ID.
func (r *WithdrawalRepository) List(ctx context.Context) ([]*withdrawal.Request, error) {
	return r.where(ctx, "")
}

// ListByApplication returns the requests filed against an application.
func (r *WithdrawalRepository) ListByApplication(ctx context.Context, applicationID string) ([]*withdrawal.Request, error) {
	return r.where(ctx, "application_id = $1", applicationID)
}

// ListByStudent returns the requests filed by a student.
func (r *WithdrawalRepository) ListByStudent(ctx context.Context, studentID string) ([]*withdrawal.Request, error) {
	return r.where(ctx, "requested_by = $1", studentID)
}

// ListPending returns unprocessed requests.
func (r *WithdrawalRepository) ListPending(ctx context.Context) ([]*withdrawal.Request, error) {
	return r.where(ctx, "status = 'PENDING'")
}

// Count returns the number of requests.
func (r *WithdrawalRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, "withdrawal_requests")
}

func (r *WithdrawalRepository) where(ctx context.Context, cond string, args ...any) ([]*withdrawal.Request, error) {
	query := "SELECT " + withdrawalColumns + " FROM withdrawal_requests"
	if cond != "" {
		query += " WHERE " + cond
	}
	rows, err := r.q.Query(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	defer rows.Close()

	var out []*withdrawal.Request
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*withdrawal.Request, error) {
	var (
		s           withdrawal.Snapshot
		status      string
		processedOn *time.Time
	)
	err := row.Scan(&s.ID, &s.ApplicationID, &s.RequestedBy, &s.RequestedOn, &s.Reason, &status,
		&s.ProcessedBy, &processedOn, &s.StaffNote)
	if err != nil {
		return nil, err
	}
	s.Status = withdrawal.Status(status)
	if processedOn != nil {
		s.ProcessedOn = *processedOn
	}
	return withdrawal.Restore(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPANY REPRESENTATIVES
// ══════════════════════════════════════════════════════════════════════════════

// CompanyRepRepository implements company.Repository for PostgreSQL.
type CompanyRepRepository struct {
	q Querier
}

const repColumns = `id, name, company_name, department, position, email, approved, rejection_reason, created_at, updated_at`

// Save upserts the representative.
func (r *CompanyRepRepository) Save(ctx context.Context, rep *company.Rep) error {
	s := rep.Snapshot()
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_reps (`+repColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			company_name = EXCLUDED.company_name,
			department = EXCLUDED.department,
			position = EXCLUDED.position,
			approved = EXCLUDED.approved,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Name, s.CompanyName, s.Department, s.Position, s.Email, s.Approved, s.RejectionReason, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save company rep %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a representative by lower-cased email.
func (r *CompanyRepRepository) GetByID(ctx context.Context, id string) (*company.Rep, error) {
	rep, err := scanRep(r.q.QueryRow(ctx, "SELECT "+repColumns+" FROM company_reps WHERE id = $1", shared.NormalizeEmail(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCompanyRepNotFound
		}
		return nil, fmt.Errorf("failed to get company rep %s: %w", id, err)
	}
	return rep, nil
}

// List returns all representatives ordered by ID.
func (r *CompanyRepRepository) List(ctx context.Context) ([]*company.Rep, error) {
	rows, err := r.q.Query(ctx, "SELECT "+repColumns+" FROM company_reps ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list company reps: %w", err)
	}
	defer rows.Close()

	var out []*company.Rep
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company rep: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Count returns the number of representatives.
func (r *CompanyRepRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, "company_reps")
}

func scanRep(row pgx.Row) (*company.Rep, error) {
	var s company.Snapshot
	err := row.Scan(&s.ID, &s.Name, &s.CompanyName, &s.Department, &s.Position, &s.Email,
		&s.Approved, &s.RejectionReason, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company.Restore(s), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STAFF
// ══════════════════════════════════════════════════════════════════════════════

// StaffRepository implements staff.Repository for PostgreSQL.
type StaffRepository struct {
	q Querier
}

// Save upserts the staff member.
func (r *StaffRepository) Save(ctx context.Context, s *staff.Staff) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO staff (id, name, role, department, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			department = EXCLUDED.department,
			email = EXCLUDED.email
	`, s.ID, s.Name, s.Role, s.Department, s.Email, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save staff %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id string) (*staff.Staff, error) {
	s, err := scanStaff(r.q.QueryRow(ctx, "SELECT id, name, role, department, email, created_at FROM staff WHERE id = $1", id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff %s: %w", id, err)
	}
	return s, nil
}

// List returns all staff ordered by ID.
func (r *StaffRepository) List(ctx context.Context) ([]*staff.Staff, error) {
	rows, err := r.q.Query(ctx, "SELECT id, name, role, department, email, created_at FROM staff ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var out []*staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStaff(row pgx.Row) (*staff.Staff, error) {
	var s staff.Staff
	if err := row.Scan(&s.ID, &s.Name, &s.Role, &s.Department, &s.Email, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
