// Package internship содержит доменную модель вакансии на стажировку.
// Здесь живёт учёт мест (слотов): только эта сущность меняет confirmedSlots
// и связанный с ним статус FILLED.
package internship

import (
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет этап жизненного цикла вакансии.
type Status string

const (
	// StatusPending - создана представителем, ждёт проверки центром карьеры.
	StatusPending Status = "PENDING"
	// StatusApproved - одобрена и может принимать заявки.
	StatusApproved Status = "APPROVED"
	// StatusRejected - отклонена центром карьеры.
	StatusRejected Status = "REJECTED"
	// StatusFilled - все места подтверждены.
	StatusFilled Status = "FILLED"
	// StatusClosed - закрыта вручную или по истечении срока.
	StatusClosed Status = "CLOSED"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFilled, StatusClosed:
		return true
	default:
		return false
	}
}

// IsActivePosting возвращает true для статусов, которые занимают лимит публикаций.
func (s Status) IsActivePosting() bool {
	return s == StatusPending || s == StatusApproved
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ParseStatus разбирает статус без учёта регистра.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.Errorf("internship", "ParseStatus", shared.ErrInvalidInput, "unknown internship status %q", s)
	}
	return st, nil
}

// Level - уровень сложности стажировки.
type Level string

const (
	LevelBasic        Level = "BASIC"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// IsValid проверяет, что уровень корректен.
func (l Level) IsValid() bool {
	switch l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление уровня.
func (l Level) String() string {
	return string(l)
}

// ParseLevel разбирает уровень без учёта регистра.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", shared.Errorf("internship", "ParseLevel", shared.ErrInvalidInput, "unknown internship level %q", s)
	}
	return l, nil
}

// MaxSlotsLimit - верхняя граница числа мест в одной вакансии.
const MaxSlotsLimit = 10

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: INTERNSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Internship - вакансия компании. Статус, число мест и видимость закрыты от
// прямой записи и меняются только методами сущности.
type Internship struct {
	// ID - идентификатор вида INT0001.
	ID string

	Title          string
	Description    string
	Level          Level
	PreferredMajor string

	// OpenDate и CloseDate - календарные даты, обе включительно.
	OpenDate  time.Time
	CloseDate time.Time

	// CompanyName - компания-владелец; сравнивается без учёта регистра.
	CompanyName string

	// CreatedBy - ID представителя, создавшего вакансию.
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time

	status         Status
	maxSlots       int
	confirmedSlots int
	visible        bool
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// Details содержит редактируемые поля вакансии.
type Details struct {
	Title          string
	Description    string
	Level          Level
	PreferredMajor string
	OpenDate       time.Time
	CloseDate      time.Time
	MaxSlots       int
}

// NewInternshipParams содержит параметры для создания вакансии.
type NewInternshipParams struct {
	ID          string
	CompanyName string
	CreatedBy   string
	Details
}

// NewInternship создаёт вакансию в статусе PENDING, скрытую, без подтверждённых мест.
func NewInternship(params NewInternshipParams) (*Internship, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, shared.NewDomainError("internship", "Create", shared.ErrValidation, "internship id is required")
	}
	company := strings.TrimSpace(params.CompanyName)
	if company == "" {
		return nil, shared.NewDomainError("internship", "Create", shared.ErrValidation, "company name is required")
	}
	details, err := normalizeDetails("Create", params.Details)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	i := &Internship{
		ID:          strings.TrimSpace(params.ID),
		CompanyName: company,
		CreatedBy:   strings.TrimSpace(params.CreatedBy),
		CreatedAt:   now,
		UpdatedAt:   now,
		status:      StatusPending,
	}
	i.applyDetails(details)
	return i, nil
}

func normalizeDetails(op string, d Details) (Details, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.PreferredMajor = strings.TrimSpace(d.PreferredMajor)

	switch {
	case d.Title == "":
		return d, shared.NewDomainError("internship", op, shared.ErrValidation, "title is required")
	case d.Description == "":
		return d, shared.NewDomainError("internship", op, shared.ErrValidation, "description is required")
	case d.PreferredMajor == "":
		return d, shared.NewDomainError("internship", op, shared.ErrValidation, "preferred major is required")
	case !d.Level.IsValid():
		return d, shared.Errorf("internship", op, shared.ErrValidation, "invalid level %q", d.Level)
	case d.OpenDate.IsZero() || d.CloseDate.IsZero():
		return d, shared.NewDomainError("internship", op, shared.ErrValidation, "open and close dates are required")
	}

	d.OpenDate = shared.DateOf(d.OpenDate)
	d.CloseDate = shared.DateOf(d.CloseDate)
	if d.CloseDate.Before(d.OpenDate) {
		return d, shared.NewDomainError("internship", op, shared.ErrValidation, "close date must not be before open date")
	}
	if d.MaxSlots < 1 || d.MaxSlots > MaxSlotsLimit {
		return d, shared.Errorf("internship", op, shared.ErrValidation, "slots must be between 1 and %d", MaxSlotsLimit)
	}
	return d, nil
}

func (i *Internship) applyDetails(d Details) {
	i.Title = d.Title
	i.Description = d.Description
	i.Level = d.Level
	i.PreferredMajor = d.PreferredMajor
	i.OpenDate = d.OpenDate
	i.CloseDate = d.CloseDate
	i.maxSlots = d.MaxSlots
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - плоское представление вакансии для хранилищ.
type Snapshot struct {
	ID             string
	Title          string
	Description    string
	Level          Level
	PreferredMajor string
	OpenDate       time.Time
	CloseDate      time.Time
	Status         Status
	CompanyName    string
	CreatedBy      string
	MaxSlots       int
	ConfirmedSlots int
	Visible        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Restore восстанавливает вакансию из хранилища. Это единственный путь,
// которым статус и число мест задаются напрямую.
func Restore(s Snapshot) (*Internship, error) {
	if !s.Status.IsValid() {
		return nil, shared.Errorf("internship", "Restore", shared.ErrInvalidState, "stored status %q is invalid", s.Status)
	}
	if s.MaxSlots < 1 || s.ConfirmedSlots < 0 || s.ConfirmedSlots > s.MaxSlots {
		return nil, shared.Errorf("internship", "Restore", shared.ErrInvalidState,
			"stored slots %d/%d are inconsistent", s.ConfirmedSlots, s.MaxSlots)
	}
	return &Internship{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Level:          s.Level,
		PreferredMajor: s.PreferredMajor,
		OpenDate:       shared.DateOf(s.OpenDate),
		CloseDate:      shared.DateOf(s.CloseDate),
		CompanyName:    s.CompanyName,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		status:         s.Status,
		maxSlots:       s.MaxSlots,
		confirmedSlots: s.ConfirmedSlots,
		visible:        s.Visible,
	}, nil
}

// Snapshot возвращает плоскую копию состояния.
func (i *Internship) Snapshot() Snapshot {
	return Snapshot{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		Level:          i.Level,
		PreferredMajor: i.PreferredMajor,
		OpenDate:       i.OpenDate,
		CloseDate:      i.CloseDate,
		Status:         i.status,
		CompanyName:    i.CompanyName,
		CreatedBy:      i.CreatedBy,
		MaxSlots:       i.maxSlots,
		ConfirmedSlots: i.confirmedSlots,
		Visible:        i.visible,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// Clone возвращает независимую копию.
func (i *Internship) Clone() *Internship {
	c := *i
	return &c
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

// Status возвращает текущий статус.
func (i *Internship) Status() Status { return i.status }

// MaxSlots возвращает общее число мест.
func (i *Internship) MaxSlots() int { return i.maxSlots }

// ConfirmedSlots возвращает число подтверждённых мест.
func (i *Internship) ConfirmedSlots() int { return i.confirmedSlots }

// Visible сообщает, видна ли вакансия студентам. Заполненная вакансия
// скрыта, но флаг представителя сохраняется и снова действует после
// освобождения места.
func (i *Internship) Visible() bool { return i.visible && i.status == StatusApproved }

// VisibilityFlag возвращает сохранённый флаг представителя без учёта статуса.
func (i *Internship) VisibilityFlag() bool { return i.visible }

// RemainingSlots возвращает число свободных мест.
func (i *Internship) RemainingSlots() int {
	return i.maxSlots - i.confirmedSlots
}

// IsFull возвращает true, если все места подтверждены.
func (i *Internship) IsFull() bool {
	return i.confirmedSlots >= i.maxSlots
}

// IsEditable - редактировать можно только до проверки.
func (i *Internship) IsEditable() bool {
	return i.status == StatusPending
}

// CanBeDeleted - удалять можно только непроверенные или отклонённые вакансии.
func (i *Internship) CanBeDeleted() bool {
	return i.status == StatusPending || i.status == StatusRejected
}

// IsOwnedBy сравнивает компанию-владельца без учёта регистра.
func (i *Internship) IsOwnedBy(companyName string) bool {
	return shared.EqualFold(i.CompanyName, companyName)
}

// IsOpenForApplications проверяет, принимает ли вакансия заявки на дату asOf.
func (i *Internship) IsOpenForApplications(asOf time.Time) bool {
	return i.status == StatusApproved &&
		i.visible &&
		shared.DateInRange(asOf, i.OpenDate, i.CloseDate) &&
		i.confirmedSlots < i.maxSlots
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW & VISIBILITY
// ══════════════════════════════════════════════════════════════════════════════

// Approve переводит PENDING -> APPROVED. Повторное одобрение ничего не меняет.
func (i *Internship) Approve() error {
	switch i.status {
	case StatusApproved:
		return nil
	case StatusPending:
		i.status = StatusApproved
		i.touch()
		return nil
	default:
		return shared.Errorf("internship", "Approve", shared.ErrInvalidState,
			"cannot approve internship in status %s", i.status)
	}
}

// Reject переводит PENDING -> REJECTED и скрывает вакансию.
func (i *Internship) Reject() error {
	switch i.status {
	case StatusRejected:
		i.visible = false
		return nil
	case StatusPending:
		i.status = StatusRejected
		i.visible = false
		i.touch()
		return nil
	default:
		return shared.Errorf("internship", "Reject", shared.ErrInvalidState,
			"cannot reject internship in status %s", i.status)
	}
}

// SetVisible меняет видимость. Показать можно только одобренную вакансию.
func (i *Internship) SetVisible(visible bool) error {
	if visible && i.status != StatusApproved {
		return shared.NewDomainError("internship", "SetVisible", shared.ErrInvalidState,
			"only approved internships can be made visible")
	}
	if i.visible != visible {
		i.visible = visible
		i.touch()
	}
	return nil
}

// Close закрывает одобренную вакансию и скрывает её.
func (i *Internship) Close() error {
	switch i.status {
	case StatusClosed:
		return nil
	case StatusApproved:
		i.status = StatusClosed
		i.visible = false
		i.touch()
		return nil
	default:
		return shared.Errorf("internship", "Close", shared.ErrInvalidState,
			"cannot close internship in status %s", i.status)
	}
}

// Edit обновляет поля вакансии, пока она ждёт проверки. ID не меняется.
func (i *Internship) Edit(d Details) error {
	if !i.IsEditable() {
		return shared.Errorf("internship", "Edit", shared.ErrInvalidState,
			"only pending internships can be edited (status %s)", i.status)
	}
	details, err := normalizeDetails("Edit", d)
	if err != nil {
		return err
	}
	i.applyDetails(details)
	i.touch()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SLOT LEDGER
// ══════════════════════════════════════════════════════════════════════════════

// SlotChange описывает результат движения мест.
type SlotChange struct {
	Confirmed int
	Max       int
	Status    Status
	// Filled - вакансия только что стала FILLED.
	Filled bool
	// Reopened - вакансия вернулась из FILLED в APPROVED.
	Reopened bool
}

// IncrementConfirmedSlots занимает одно место. Места занимаются только у
// APPROVED или FILLED вакансии; CLOSED и прочие статусы дают ErrInvalidState.
// Если мест нет, статус выставляется в FILLED и возвращается ErrCapacityExceeded.
func (i *Internship) IncrementConfirmedSlots() (SlotChange, error) {
	if i.status != StatusApproved && i.status != StatusFilled {
		return i.slotChange(false, false), shared.Errorf("internship", "IncrementConfirmedSlots",
			shared.ErrInvalidState, "cannot confirm a slot on internship in status %s", i.status)
	}
	if i.confirmedSlots >= i.maxSlots {
		i.status = StatusFilled
		i.touch()
		return i.slotChange(false, false), shared.NewDomainError("internship", "IncrementConfirmedSlots",
			shared.ErrCapacityExceeded, "no remaining slots")
	}
	i.confirmedSlots++
	filled := false
	if i.confirmedSlots == i.maxSlots {
		i.status = StatusFilled
		filled = true
	}
	i.touch()
	return i.slotChange(filled, false), nil
}

// DecrementConfirmedSlots освобождает одно место. Счётчик не уходит ниже нуля,
// а FILLED возвращается в APPROVED, как только появляется свободное место.
// Остальные статусы, включая CLOSED, не меняются.
func (i *Internship) DecrementConfirmedSlots() SlotChange {
	if i.confirmedSlots > 0 {
		i.confirmedSlots--
	}
	reopened := false
	if i.status == StatusFilled && i.confirmedSlots < i.maxSlots {
		i.status = StatusApproved
		reopened = true
	}
	i.touch()
	return i.slotChange(false, reopened)
}

func (i *Internship) slotChange(filled, reopened bool) SlotChange {
	return SlotChange{
		Confirmed: i.confirmedSlots,
		Max:       i.maxSlots,
		Status:    i.status,
		Filled:    filled,
		Reopened:  reopened,
	}
}

func (i *Internship) touch() {
	i.UpdatedAt = time.Now().UTC()
}
