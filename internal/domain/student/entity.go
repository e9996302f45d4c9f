package student

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// MaxActiveApplications - сколько заявок студент может держать одновременно.
const MaxActiveApplications = 3

// ══════════════════════════════════════════════════════════════════════════════
// READ PORT
// ══════════════════════════════════════════════════════════════════════════════

// AppReadPort - единственный способ, которым студент узнаёт состояние своих заявок.
type AppReadPort interface {
	// CountActiveApplications возвращает число заявок, занимающих лимит.
	CountActiveApplications(studentID string) int

	// HasConfirmedPlacement сообщает, подтвердил ли студент место.
	HasConfirmedPlacement(studentID string) bool
}

// PlacementStats - снимок агрегированного состояния заявок одного студента.
// Обработчики команд строят его внутри единицы работы.
type PlacementStats struct {
	StudentID string
	Active    int
	Confirmed bool
}

// CountActiveApplications implements AppReadPort.
func (p PlacementStats) CountActiveApplications(studentID string) int {
	if studentID != p.StudentID {
		return 0
	}
	return p.Active
}

// HasConfirmedPlacement implements AppReadPort.
func (p PlacementStats) HasConfirmedPlacement(studentID string) bool {
	return studentID == p.StudentID && p.Confirmed
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - студент университета.
type Student struct {
	// ID - номер студенческого вида U1234567A.
	ID string

	Name string

	// YearOfStudy - курс (1-4), определяет допуск к уровням.
	YearOfStudy int

	Major string
	Email string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStudentParams содержит параметры для создания студента.
type NewStudentParams struct {
	ID          string
	Name        string
	YearOfStudy int
	Major       string
	Email       string
}

// NewStudent создаёт студента с валидацией всех полей.
func NewStudent(params NewStudentParams) (*Student, error) {
	id, err := shared.NewStudentID(params.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrValidation, "name is required")
	}
	if params.YearOfStudy < 1 || params.YearOfStudy > 4 {
		return nil, shared.Errorf("student", "Create", shared.ErrValidation,
			"year of study must be between 1 and 4, got %d", params.YearOfStudy)
	}
	major := strings.TrimSpace(params.Major)
	if major == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrValidation, "major is required")
	}
	email := shared.NormalizeEmail(params.Email)
	if email != "" && !shared.IsValidEmail(email) {
		return nil, shared.NewDomainError("student", "Create", shared.ErrValidation, "invalid email")
	}

	now := time.Now().UTC()
	return &Student{
		ID:          id.String(),
		Name:        name,
		YearOfStudy: params.YearOfStudy,
		Major:       major,
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY
// ══════════════════════════════════════════════════════════════════════════════

// IsEligibleFor проверяет допуск к уровню: младшие курсы - только BASIC.
func (s *Student) IsEligibleFor(level internship.Level) bool {
	if !level.IsValid() {
		return false
	}
	if s.YearOfStudy <= 2 {
		return level == internship.LevelBasic
	}
	return true
}

// FilterEligibleVisibleOpen оставляет вакансии, открытые на дату asOf,
// видимые и подходящие студенту по уровню.
func (s *Student) FilterEligibleVisibleOpen(all []*internship.Internship, asOf time.Time) []*internship.Internship {
	out := make([]*internship.Internship, 0, len(all))
	for _, i := range all {
		if i == nil {
			continue
		}
		if i.IsOpenForApplications(asOf) && i.Visible() && s.IsEligibleFor(i.Level) {
			out = append(out, i)
		}
	}
	return out
}

// ActiveApplicationsCount возвращает число активных заявок.
func (s *Student) ActiveApplicationsCount(port AppReadPort) int {
	return port.CountActiveApplications(s.ID)
}

// CanStartAnotherApplication - есть ли ещё место под лимит заявок.
func (s *Student) CanStartAnotherApplication(port AppReadPort) bool {
	return port.CountActiveApplications(s.ID) < MaxActiveApplications
}

// HasConfirmedPlacement - подтвердил ли студент место.
func (s *Student) HasConfirmedPlacement(port AppReadPort) bool {
	return port.HasConfirmedPlacement(s.ID)
}

// AssertCanApply проверяет, может ли студент подать заявку на вакансию.
// Порядок проверок фиксирован, причину определяет первая неудачная.
func (s *Student) AssertCanApply(i *internship.Internship, port AppReadPort, asOf time.Time) error {
	return CheckApply("student", "AssertCanApply", s, i, port, asOf)
}

// AssertCanConfirmOffer запрещает подтверждать второе место.
func (s *Student) AssertCanConfirmOffer(port AppReadPort) error {
	if port.HasConfirmedPlacement(s.ID) {
		return shared.NewDomainError("student", "AssertCanConfirmOffer", shared.ErrNotEligible,
			"cannot confirm: placement already confirmed")
	}
	return nil
}

// CheckApply выполняет четыре проверки подачи заявки от имени domain/op.
// Используется и студентом, и конструктором заявки.
func CheckApply(domain, op string, s *Student, i *internship.Internship, port AppReadPort, asOf time.Time) error {
	if s == nil {
		return shared.NewDomainError(domain, op, shared.ErrValidation, "student is required")
	}
	if i == nil {
		return shared.NewDomainError(domain, op, shared.ErrValidation, "internship is required")
	}
	if port == nil {
		return shared.NewDomainError(domain, op, shared.ErrValidation, "application read port is required")
	}

	if !i.IsOpenForApplications(asOf) || !i.Visible() {
		if i.IsFull() {
			return shared.Errorf(domain, op, shared.ErrCapacityExceeded,
				"internship %s has no remaining slots", i.ID)
		}
		return shared.Errorf(domain, op, shared.ErrInvalidState,
			"internship %s is not open/visible", i.ID)
	}
	if !s.IsEligibleFor(i.Level) {
		return shared.Errorf(domain, op, shared.ErrNotEligible,
			"not eligible for level %s", i.Level)
	}
	if port.HasConfirmedPlacement(s.ID) {
		return shared.NewDomainError(domain, op, shared.ErrNotEligible,
			"already have a confirmed placement")
	}
	if port.CountActiveApplications(s.ID) >= MaxActiveApplications {
		return shared.Errorf(domain, op, shared.ErrNotEligible,
			"application cap reached (%d)", MaxActiveApplications)
	}
	return nil
}
