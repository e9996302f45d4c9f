// Package company содержит доменную модель представителя компании.
//
// Представитель - тонкая обёртка авторизации: каждая операция сначала
// проверяет одобрение учётной записи и владение вакансией (по имени компании
// без учёта регистра), затем делегирует изменение сущности вакансии или заявки.
package company

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// MaxPostings - лимит одновременно активных (PENDING/APPROVED) вакансий.
const MaxPostings = 5

// DefaultRejectionReason используется, если сотрудник не указал причину.
const DefaultRejectionReason = "Rejected by Career Center staff"

// ══════════════════════════════════════════════════════════════════════════════
// READ PORT
// ══════════════════════════════════════════════════════════════════════════════

// RepPostingReadPort сообщает число активных вакансий представителя.
type RepPostingReadPort interface {
	CountActivePostingsForRep(repID string) int
}

// PostingStats - снимок числа активных вакансий одного представителя.
type PostingStats struct {
	RepID  string
	Active int
}

// CountActivePostingsForRep implements RepPostingReadPort.
func (p PostingStats) CountActivePostingsForRep(repID string) int {
	if repID != p.RepID {
		return 0
	}
	return p.Active
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: REP
// ══════════════════════════════════════════════════════════════════════════════

// Rep - представитель компании. ID совпадает с e-mail в нижнем регистре.
type Rep struct {
	ID          string
	Name        string
	CompanyName string
	Department  string
	Position    string
	Email       string

	CreatedAt time.Time
	UpdatedAt time.Time

	approved        bool
	rejectionReason string
}

// NewRepParams содержит регистрационные данные.
type NewRepParams struct {
	Name        string
	CompanyName string
	Department  string
	Position    string
	Email       string
}

// NewRep регистрирует представителя. Учётная запись ждёт одобрения.
func NewRep(params NewRepParams) (*Rep, error) {
	fields := map[string]string{
		"name":         strings.TrimSpace(params.Name),
		"company name": strings.TrimSpace(params.CompanyName),
		"department":   strings.TrimSpace(params.Department),
		"position":     strings.TrimSpace(params.Position),
		"email":        strings.TrimSpace(params.Email),
	}
	for _, key := range []string{"name", "company name", "department", "position", "email"} {
		if fields[key] == "" {
			return nil, shared.Errorf("company", "Register", shared.ErrValidation, "%s is required", key)
		}
	}
	if !shared.IsValidEmail(fields["email"]) {
		return nil, shared.NewDomainError("company", "Register", shared.ErrValidation, "invalid email format")
	}

	email := shared.NormalizeEmail(fields["email"])
	now := time.Now().UTC()
	return &Rep{
		ID:          email,
		Name:        fields["name"],
		CompanyName: fields["company name"],
		Department:  fields["department"],
		Position:    fields["position"],
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Snapshot - плоское представление для хранилищ.
type Snapshot struct {
	ID              string
	Name            string
	CompanyName     string
	Department      string
	Position        string
	Email           string
	Approved        bool
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Restore восстанавливает представителя из хранилища.
func Restore(s Snapshot) *Rep {
	return &Rep{
		ID:              s.ID,
		Name:            s.Name,
		CompanyName:     s.CompanyName,
		Department:      s.Department,
		Position:        s.Position,
		Email:           s.Email,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		approved:        s.Approved,
		rejectionReason: s.RejectionReason,
	}
}

// Snapshot возвращает плоскую копию состояния.
func (r *Rep) Snapshot() Snapshot {
	return Snapshot{
		ID:              r.ID,
		Name:            r.Name,
		CompanyName:     r.CompanyName,
		Department:      r.Department,
		Position:        r.Position,
		Email:           r.Email,
		Approved:        r.approved,
		RejectionReason: r.rejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// IsApproved сообщает, одобрена ли учётная запись.
func (r *Rep) IsApproved() bool { return r.approved }

// RejectionReason возвращает причину отказа или пустую строку.
func (r *Rep) RejectionReason() string { return r.rejectionReason }

// IsRejected - не одобрен и есть причина отказа.
func (r *Rep) IsRejected() bool {
	return !r.approved && r.rejectionReason != ""
}

// IsPendingReview - ещё не одобрен и не отклонён.
func (r *Rep) IsPendingReview() bool {
	return !r.approved && r.rejectionReason == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REVIEW
// ══════════════════════════════════════════════════════════════════════════════

// Approve одобряет учётную запись.
func (r *Rep) Approve() error {
	if r.approved {
		return shared.NewDomainError("company", "Approve", shared.ErrInvalidState, "representative already approved")
	}
	r.approved = true
	r.rejectionReason = ""
	r.touch()
	return nil
}

// Reject отклоняет учётную запись с причиной.
func (r *Rep) Reject(reason string) error {
	if r.IsRejected() {
		return shared.NewDomainError("company", "Reject", shared.ErrInvalidState, "representative already rejected")
	}
	reason = shared.SanitizeNote(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	r.approved = false
	r.rejectionReason = reason
	r.touch()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// POSTINGS
// ══════════════════════════════════════════════════════════════════════════════

// CanCreateAnotherPosting проверяет лимит активных вакансий.
func (r *Rep) CanCreateAnotherPosting(port RepPostingReadPort) bool {
	return port.CountActivePostingsForRep(r.ID) < MaxPostings
}

// CreateInternship создаёт вакансию от имени компании представителя.
func (r *Rep) CreateInternship(id string, details internship.Details, port RepPostingReadPort) (*internship.Internship, error) {
	if err := r.requireApproved("CreateInternship"); err != nil {
		return nil, err
	}
	if port == nil || !r.CanCreateAnotherPosting(port) {
		return nil, shared.Errorf("company", "CreateInternship", shared.ErrCapacityExceeded,
			"posting cap reached (%d)", MaxPostings)
	}
	return internship.NewInternship(internship.NewInternshipParams{
		ID:          id,
		CompanyName: r.CompanyName,
		CreatedBy:   r.ID,
		Details:     details,
	})
}

// EditInternship редактирует свою вакансию, пока она ждёт проверки.
func (r *Rep) EditInternship(i *internship.Internship, details internship.Details) error {
	if err := r.AssertOwns("EditInternship", i); err != nil {
		return err
	}
	return i.Edit(details)
}

// AssertCanDelete проверяет, что вакансию можно удалить.
func (r *Rep) AssertCanDelete(i *internship.Internship) error {
	if err := r.AssertOwns("DeleteInternship", i); err != nil {
		return err
	}
	if !i.CanBeDeleted() {
		return shared.Errorf("company", "DeleteInternship", shared.ErrInvalidState,
			"only pending or rejected internships can be deleted (status %s)", i.Status())
	}
	return nil
}

// SetInternshipVisibility показывает или скрывает свою вакансию.
func (r *Rep) SetInternshipVisibility(i *internship.Internship, visible bool) error {
	if err := r.AssertOwns("SetInternshipVisibility", i); err != nil {
		return err
	}
	return i.SetVisible(visible)
}

// ClosePosting закрывает свою одобренную вакансию.
func (r *Rep) ClosePosting(i *internship.Internship) error {
	if err := r.AssertOwns("ClosePosting", i); err != nil {
		return err
	}
	return i.Close()
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION DECISIONS
// ══════════════════════════════════════════════════════════════════════════════

// ApproveApplication отмечает заявку на свою вакансию успешной.
func (r *Rep) ApproveApplication(a *application.Application, i *internship.Internship) error {
	if err := r.assertOwnsApplication("ApproveApplication", a, i); err != nil {
		return err
	}
	return a.MarkSuccessful()
}

// RejectApplication отклоняет заявку на свою вакансию.
func (r *Rep) RejectApplication(a *application.Application, i *internship.Internship) error {
	if err := r.assertOwnsApplication("RejectApplication", a, i); err != nil {
		return err
	}
	return a.MarkUnsuccessful()
}

// AssertOwns проверяет одобрение учётной записи и владение вакансией.
func (r *Rep) AssertOwns(op string, i *internship.Internship) error {
	if err := r.requireApproved(op); err != nil {
		return err
	}
	if i == nil {
		return shared.NewDomainError("company", op, shared.ErrValidation, "internship is required")
	}
	if !i.IsOwnedBy(r.CompanyName) {
		return shared.NewDomainError("company", op, shared.ErrForbidden, "cannot manage another company's posting")
	}
	return nil
}

func (r *Rep) assertOwnsApplication(op string, a *application.Application, i *internship.Internship) error {
	if a == nil {
		return shared.NewDomainError("company", op, shared.ErrValidation, "application is required")
	}
	if err := r.AssertOwns(op, i); err != nil {
		return err
	}
	if a.InternshipID() != i.ID {
		return shared.Errorf("company", op, shared.ErrValidation,
			"application %s is not for internship %s", a.ID, i.ID)
	}
	return nil
}

func (r *Rep) requireApproved(op string) error {
	if !r.approved {
		return shared.NewDomainError("company", op, shared.ErrForbidden, "representative account is not approved")
	}
	return nil
}

func (r *Rep) touch() {
	r.UpdatedAt = time.Now().UTC()
}
