// Package staff содержит доменную модель сотрудника центра карьеры.
package staff

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// Заметки по умолчанию при обработке запросов на отзыв.
const (
	DefaultApproveNote = "Approved by Career Center staff"
	DefaultRejectNote  = "Rejected by Career Center staff"
)

// Staff - сотрудник центра карьеры.
type Staff struct {
	ID         string
	Name       string
	Role       string
	Department string
	Email      string
	CreatedAt  time.Time
}

// NewStaffParams содержит параметры создания сотрудника.
type NewStaffParams struct {
	ID         string
	Name       string
	Role       string
	Department string
	Email      string
}

// NewStaff создаёт сотрудника; все поля обязательны.
func NewStaff(params NewStaffParams) (*Staff, error) {
	s := &Staff{
		ID:         strings.TrimSpace(params.ID),
		Name:       strings.TrimSpace(params.Name),
		Role:       strings.TrimSpace(params.Role),
		Department: strings.TrimSpace(params.Department),
		Email:      shared.NormalizeEmail(params.Email),
		CreatedAt:  time.Now().UTC(),
	}
	switch {
	case s.ID == "":
		return nil, shared.NewDomainError("staff", "Create", shared.ErrValidation, "staff id is required")
	case s.Name == "":
		return nil, shared.NewDomainError("staff", "Create", shared.ErrValidation, "name is required")
	case s.Role == "":
		return nil, shared.NewDomainError("staff", "Create", shared.ErrValidation, "role is required")
	case s.Department == "":
		return nil, shared.NewDomainError("staff", "Create", shared.ErrValidation, "department is required")
	case !shared.IsValidEmail(s.Email):
		return nil, shared.NewDomainError("staff", "Create", shared.ErrValidation, "invalid email")
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPANY REPRESENTATIVES
// ══════════════════════════════════════════════════════════════════════════════

// ApproveCompanyRep одобряет учётную запись представителя.
func (s *Staff) ApproveCompanyRep(r *company.Rep) error {
	if r == nil {
		return shared.ErrCompanyRepNotFound
	}
	return r.Approve()
}

// RejectCompanyRep отклоняет учётную запись представителя.
func (s *Staff) RejectCompanyRep(r *company.Rep, reason string) error {
	if r == nil {
		return shared.ErrCompanyRepNotFound
	}
	return r.Reject(reason)
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNSHIPS
// ══════════════════════════════════════════════════════════════════════════════

// ApproveInternship одобряет вакансию, ожидающую проверки, и при
// makeVisible сразу публикует её.
func (s *Staff) ApproveInternship(i *internship.Internship, makeVisible bool) error {
	if err := requireReviewable("ApproveInternship", i); err != nil {
		return err
	}
	if err := i.Approve(); err != nil {
		return err
	}
	if makeVisible {
		return i.SetVisible(true)
	}
	return nil
}

// RejectInternship отклоняет вакансию, ожидающую проверки.
func (s *Staff) RejectInternship(i *internship.Internship) error {
	if err := requireReviewable("RejectInternship", i); err != nil {
		return err
	}
	return i.Reject()
}

func requireReviewable(op string, i *internship.Internship) error {
	if i == nil {
		return shared.ErrInternshipNotFound
	}
	if i.Status() != internship.StatusPending {
		return shared.Errorf("staff", op, shared.ErrInvalidState,
			"only pending internships can be reviewed (status %s)", i.Status())
	}
	return nil
}

// FilterInternships отбирает вакансии по статусу, специальности, уровню и компании.
func (s *Staff) FilterInternships(all []*internship.Internship, filter internship.Filter) []*internship.Internship {
	return filter.Normalized().Apply(all)
}

// ══════════════════════════════════════════════════════════════════════════════
// WITHDRAWALS
// ══════════════════════════════════════════════════════════════════════════════

// ProcessWithdrawal одобряет или отклоняет запрос на отзыв.
func (s *Staff) ProcessWithdrawal(req *withdrawal.Request, approve bool, note string, at time.Time) (withdrawal.Outcome, error) {
	if req == nil {
		return withdrawal.Outcome{}, shared.ErrWithdrawalNotFound
	}
	if strings.TrimSpace(note) == "" {
		note = DefaultRejectNote
		if approve {
			note = DefaultApproveNote
		}
	}
	if approve {
		return req.Approve(s.ID, note, at)
	}
	return withdrawal.Outcome{}, req.Reject(s.ID, note, at)
}
