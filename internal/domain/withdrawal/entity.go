// Package withdrawal содержит доменную модель запроса на отзыв заявки.
//
// Запрос создаёт студент-владелец заявки; обрабатывает его сотрудник центра
// карьеры ровно один раз. Одобрение каскадно меняет заявку и, если место было
// подтверждено, счётчик мест вакансии.
package withdrawal

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// Status определяет состояние запроса.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: REQUEST
// ══════════════════════════════════════════════════════════════════════════════

// Request - запрос студента на отзыв заявки.
type Request struct {
	// ID - идентификатор вида WRQ0001.
	ID string

	// ApplicationID и RequestedBy не меняются после создания.
	ApplicationID string
	RequestedBy   string
	RequestedOn   time.Time

	reason      string
	status      Status
	processedBy string
	processedOn time.Time
	staffNote   string

	application *application.Application
}

// NewRequestParams содержит параметры создания запроса.
type NewRequestParams struct {
	ID          string
	Application *application.Application
	StudentID   string
	Reason      string
	RequestedOn time.Time
}

// NewRequest создаёт запрос в статусе PENDING. Запросить отзыв может только владелец заявки.
func NewRequest(params NewRequestParams) (*Request, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, shared.NewDomainError("withdrawal", "Create", shared.ErrValidation, "request id is required")
	}
	if params.Application == nil {
		return nil, shared.NewDomainError("withdrawal", "Create", shared.ErrValidation, "application is required")
	}
	if !params.Application.IsOwnedBy(params.StudentID) {
		return nil, shared.Errorf("withdrawal", "Create", shared.ErrForbidden,
			"student %s does not own application %s", params.StudentID, params.Application.ID)
	}
	requestedOn := params.RequestedOn
	if requestedOn.IsZero() {
		requestedOn = time.Now().UTC()
	}

	return &Request{
		ID:            strings.TrimSpace(params.ID),
		ApplicationID: params.Application.ID,
		RequestedBy:   params.StudentID,
		RequestedOn:   shared.DateOf(requestedOn),
		reason:        shared.SanitizeNote(params.Reason),
		status:        StatusPending,
		application:   params.Application,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - плоское представление запроса для хранилищ.
type Snapshot struct {
	ID            string
	ApplicationID string
	RequestedBy   string
	RequestedOn   time.Time
	Reason        string
	Status        Status
	ProcessedBy   string
	ProcessedOn   time.Time
	StaffNote     string
}

// Restore восстанавливает запрос из хранилища без заявки.
func Restore(s Snapshot) (*Request, error) {
	if !s.Status.IsValid() {
		return nil, shared.Errorf("withdrawal", "Restore", shared.ErrInvalidState, "stored status %q is invalid", s.Status)
	}
	return &Request{
		ID:            s.ID,
		ApplicationID: s.ApplicationID,
		RequestedBy:   s.RequestedBy,
		RequestedOn:   shared.DateOf(s.RequestedOn),
		reason:        s.Reason,
		status:        s.Status,
		processedBy:   s.ProcessedBy,
		processedOn:   shared.DateOf(s.ProcessedOn),
		staffNote:     s.StaffNote,
	}, nil
}

// Snapshot возвращает плоскую копию состояния.
func (r *Request) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		RequestedBy:   r.RequestedBy,
		RequestedOn:   r.RequestedOn,
		Reason:        r.reason,
		Status:        r.status,
		ProcessedBy:   r.processedBy,
		ProcessedOn:   r.processedOn,
		StaffNote:     r.staffNote,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

func (r *Request) Status() Status                        { return r.status }
func (r *Request) Reason() string                        { return r.reason }
func (r *Request) ProcessedBy() string                   { return r.processedBy }
func (r *Request) ProcessedOn() time.Time                { return r.processedOn }
func (r *Request) StaffNote() string                     { return r.staffNote }
func (r *Request) Application() *application.Application { return r.application }

// IsPending сообщает, ждёт ли запрос решения.
func (r *Request) IsPending() bool {
	return r.status == StatusPending
}

// AttachApplication присоединяет загруженную заявку. ID должен совпадать.
func (r *Request) AttachApplication(a *application.Application) error {
	if a != nil && a.ID != r.ApplicationID {
		return shared.Errorf("withdrawal", "AttachApplication", shared.ErrValidation,
			"request %s belongs to application %s, not %s", r.ID, r.ApplicationID, a.ID)
	}
	r.application = a
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PROCESSING
// ══════════════════════════════════════════════════════════════════════════════

// Outcome описывает, что одобрение сделало с заявкой и вакансией.
type Outcome struct {
	// Revoked - принятое предложение отменено, место освобождено.
	Revoked bool
	// Withdrawn - заявка переведена в WITHDRAWN.
	Withdrawn bool
	// Slots - движение мест, если оно было.
	Slots *internship.SlotChange
}

// Approve одобряет отзыв. Если студент уже принял предложение, место
// освобождается, а заявка остаётся SUCCESSFUL; иначе активная заявка
// переводится в WITHDRAWN. Требует присоединённую заявку.
func (r *Request) Approve(staffID, note string, at time.Time) (Outcome, error) {
	if err := r.ensurePending("Approve"); err != nil {
		return Outcome{}, err
	}
	if err := requireStaff("Approve", staffID); err != nil {
		return Outcome{}, err
	}
	if r.application == nil {
		return Outcome{}, shared.NewDomainError("withdrawal", "Approve", shared.ErrInvalidState,
			"application is not attached")
	}

	var out Outcome
	app := r.application
	switch {
	case app.StudentAccepted():
		change, err := app.RevokeAcceptanceAfterApprovedWithdrawal()
		if err != nil {
			return Outcome{}, err
		}
		out.Revoked = true
		out.Slots = &change
	case app.Status() == application.StatusPending || app.Status() == application.StatusSuccessful:
		app.MarkWithdrawn()
		out.Withdrawn = true
	}

	r.stamp(StatusApproved, staffID, note, at)
	return out, nil
}

// Reject отклоняет отзыв; заявка не меняется.
func (r *Request) Reject(staffID, note string, at time.Time) error {
	if err := r.ensurePending("Reject"); err != nil {
		return err
	}
	if err := requireStaff("Reject", staffID); err != nil {
		return err
	}
	r.stamp(StatusRejected, staffID, note, at)
	return nil
}

func (r *Request) stamp(status Status, staffID, note string, at time.Time) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	r.status = status
	r.processedBy = strings.TrimSpace(staffID)
	r.processedOn = shared.DateOf(at)
	r.staffNote = shared.SanitizeNote(note)
}

func (r *Request) ensurePending(op string) error {
	if r.status != StatusPending {
		return shared.Errorf("withdrawal", op, shared.ErrAlreadyProcessed,
			"request already processed (status %s)", r.status)
	}
	return nil
}

func requireStaff(op, staffID string) error {
	if strings.TrimSpace(staffID) == "" {
		return shared.NewDomainError("withdrawal", op, shared.ErrValidation, "processing staff is required")
	}
	return nil
}
