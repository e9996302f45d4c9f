// Package application содержит доменную модель заявки студента на стажировку.
//
// Заявка - конечный автомат:
//
//	PENDING -> SUCCESSFUL | UNSUCCESSFUL | WITHDRAWN
//	SUCCESSFUL -> WITHDRAWN, либо остаётся SUCCESSFUL с переключением studentAccepted
//
// UNSUCCESSFUL и WITHDRAWN - терминальные состояния. Заявка никогда не удаляется.
package application

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет состояние заявки.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusSuccessful   Status = "SUCCESSFUL"
	StatusUnsuccessful Status = "UNSUCCESSFUL"
	StatusWithdrawn    Status = "WITHDRAWN"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccessful, StatusUnsuccessful, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true для UNSUCCESSFUL и WITHDRAWN.
func (s Status) IsTerminal() bool {
	return s == StatusUnsuccessful || s == StatusWithdrawn
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// Application - заявка студента на конкретную вакансию.
type Application struct {
	// ID - идентификатор вида APP0001.
	ID string

	// StudentID - владелец заявки, не меняется.
	StudentID string

	// AppliedOn - дата подачи, не меняется.
	AppliedOn time.Time

	UpdatedAt time.Time

	internshipID    string
	internship      *internship.Internship
	status          Status
	studentAccepted bool
}

// NewApplicationParams содержит параметры подачи заявки.
type NewApplicationParams struct {
	ID         string
	Student    *student.Student
	Internship *internship.Internship
	Apps       student.AppReadPort
	AppliedOn  time.Time
}

// NewApplication создаёт заявку в статусе PENDING. Перед созданием
// повторно выполняются проверки подачи на дату AppliedOn.
func NewApplication(params NewApplicationParams) (*Application, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, shared.NewDomainError("application", "Create", shared.ErrValidation, "application id is required")
	}
	if params.AppliedOn.IsZero() {
		return nil, shared.NewDomainError("application", "Create", shared.ErrValidation, "applied-on date is required")
	}
	if err := student.CheckApply("application", "Create",
		params.Student, params.Internship, params.Apps, params.AppliedOn); err != nil {
		return nil, err
	}

	return &Application{
		ID:           strings.TrimSpace(params.ID),
		StudentID:    params.Student.ID,
		AppliedOn:    shared.DateOf(params.AppliedOn),
		UpdatedAt:    time.Now().UTC(),
		internshipID: params.Internship.ID,
		internship:   params.Internship,
		status:       StatusPending,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - плоское представление заявки для хранилищ.
type Snapshot struct {
	ID              string
	StudentID       string
	InternshipID    string
	AppliedOn       time.Time
	Status          Status
	StudentAccepted bool
	UpdatedAt       time.Time
}

// Restore восстанавливает заявку из хранилища без вакансии.
func Restore(s Snapshot) (*Application, error) {
	if !s.Status.IsValid() {
		return nil, shared.Errorf("application", "Restore", shared.ErrInvalidState, "stored status %q is invalid", s.Status)
	}
	if s.StudentAccepted && s.Status != StatusSuccessful {
		return nil, shared.Errorf("application", "Restore", shared.ErrInvalidState,
			"application %s is accepted but in status %s", s.ID, s.Status)
	}
	return &Application{
		ID:              s.ID,
		StudentID:       s.StudentID,
		AppliedOn:       shared.DateOf(s.AppliedOn),
		UpdatedAt:       s.UpdatedAt,
		internshipID:    s.InternshipID,
		status:          s.Status,
		studentAccepted: s.StudentAccepted,
	}, nil
}

// Snapshot возвращает плоскую копию состояния.
func (a *Application) Snapshot() Snapshot {
	return Snapshot{
		ID:              a.ID,
		StudentID:       a.StudentID,
		InternshipID:    a.internshipID,
		AppliedOn:       a.AppliedOn,
		Status:          a.status,
		StudentAccepted: a.studentAccepted,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

// Status возвращает текущее состояние.
func (a *Application) Status() Status { return a.status }

// StudentAccepted сообщает, подтвердил ли студент предложение.
func (a *Application) StudentAccepted() bool { return a.studentAccepted }

// InternshipID возвращает устойчивую ссылку на вакансию.
func (a *Application) InternshipID() string { return a.internshipID }

// Internship возвращает присоединённую вакансию или nil.
func (a *Application) Internship() *internship.Internship { return a.internship }

// AttachInternship присоединяет загруженную вакансию. ID должен совпадать.
func (a *Application) AttachInternship(i *internship.Internship) error {
	if i == nil {
		a.internship = nil
		return nil
	}
	if a.internshipID != "" && i.ID != a.internshipID {
		return shared.Errorf("application", "AttachInternship", shared.ErrValidation,
			"application %s belongs to internship %s, not %s", a.ID, a.internshipID, i.ID)
	}
	a.internshipID = i.ID
	a.internship = i
	return nil
}

// IsOwnedBy проверяет владельца заявки.
func (a *Application) IsOwnedBy(studentID string) bool {
	return a.StudentID == studentID
}

// CanAccept - предложение можно принять: SUCCESSFUL и ещё не принято.
func (a *Application) CanAccept() bool {
	return a.status == StatusSuccessful && !a.studentAccepted
}

// IsActiveTowardCap - заявка занимает лимит активных заявок.
func (a *Application) IsActiveTowardCap() bool {
	return a.status == StatusPending || (a.status == StatusSuccessful && !a.studentAccepted)
}

// IsConfirmedPlacement - студент занимает место по этой заявке.
func (a *Application) IsConfirmedPlacement() bool {
	return a.status == StatusSuccessful && a.studentAccepted
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE TRANSITIONS
// ══════════════════════════════════════════════════════════════════════════════

// MarkSuccessful - решение компании "успешно". Только из PENDING.
func (a *Application) MarkSuccessful() error {
	if a.status != StatusPending {
		return shared.Errorf("application", "MarkSuccessful", shared.ErrInvalidState,
			"only pending applications can be marked successful (status %s)", a.status)
	}
	a.status = StatusSuccessful
	a.touch()
	return nil
}

// MarkUnsuccessful - решение компании "отказ". Только из PENDING; принятое
// предложение так отозвать нельзя.
func (a *Application) MarkUnsuccessful() error {
	if a.status == StatusSuccessful && a.studentAccepted {
		return shared.NewDomainError("application", "MarkUnsuccessful", shared.ErrInvalidState,
			"cannot reject after student accepted")
	}
	if a.status != StatusPending {
		return shared.Errorf("application", "MarkUnsuccessful", shared.ErrInvalidState,
			"only pending applications can be marked unsuccessful (status %s)", a.status)
	}
	a.status = StatusUnsuccessful
	a.touch()
	return nil
}

// MarkWithdrawn безусловно переводит заявку в WITHDRAWN.
// Используется одобрением отзыва и автоотзывом после принятия предложения.
// Если предложение было принято, место в присоединённой вакансии освобождается,
// чтобы WITHDRAWN никогда не держал слот.
func (a *Application) MarkWithdrawn() {
	if a.studentAccepted {
		if a.internship != nil {
			a.internship.DecrementConfirmedSlots()
		}
		a.studentAccepted = false
	}
	a.status = StatusWithdrawn
	a.touch()
}

// ConfirmAcceptance занимает место в вакансии и отмечает предложение принятым.
// Если место занять не удалось, флаг не выставляется.
func (a *Application) ConfirmAcceptance(port student.AppReadPort) (internship.SlotChange, error) {
	if !a.CanAccept() {
		if a.studentAccepted {
			return internship.SlotChange{}, shared.NewDomainError("application", "ConfirmAcceptance",
				shared.ErrInvalidState, "offer already accepted")
		}
		return internship.SlotChange{}, shared.Errorf("application", "ConfirmAcceptance", shared.ErrInvalidState,
			"only successful applications can be accepted (status %s)", a.status)
	}
	if port != nil && port.HasConfirmedPlacement(a.StudentID) {
		return internship.SlotChange{}, shared.NewDomainError("application", "ConfirmAcceptance",
			shared.ErrNotEligible, "cannot confirm: placement already confirmed")
	}
	if a.internship == nil {
		return internship.SlotChange{}, shared.NewDomainError("application", "ConfirmAcceptance",
			shared.ErrInvalidState, "internship is not attached")
	}

	change, err := a.internship.IncrementConfirmedSlots()
	if err != nil {
		return change, err
	}
	a.studentAccepted = true
	a.touch()
	return change, nil
}

// RevokeAcceptanceAfterApprovedWithdrawal освобождает место и снимает флаг.
// Статус остаётся SUCCESSFUL: предложение было, место больше не занято.
func (a *Application) RevokeAcceptanceAfterApprovedWithdrawal() (internship.SlotChange, error) {
	if !a.studentAccepted {
		return internship.SlotChange{}, shared.NewDomainError("application", "RevokeAcceptance",
			shared.ErrInvalidState, "application was not accepted")
	}
	if a.internship == nil {
		return internship.SlotChange{}, shared.NewDomainError("application", "RevokeAcceptance",
			shared.ErrInvalidState, "internship is not attached")
	}
	change := a.internship.DecrementConfirmedSlots()
	a.studentAccepted = false
	a.touch()
	return change, nil
}

func (a *Application) touch() {
	a.UpdatedAt = time.Now().UTC()
}
