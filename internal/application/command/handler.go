// Package command contains write operations (CQRS - Commands).
// Every handler runs its mutation inside one placement.UnitOfWork while
// holding placement.Locker keys for the aggregates it touches, and publishes
// domain events only after the unit commits.
package command

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Deps bundles the collaborators shared by all command handlers.
type Deps struct {
	// Store opens units of work.
	Store placement.UnitOfWorkFactory

	// Locker serializes mutations per aggregate.
	Locker placement.Locker

	// IDs issues identifiers for new internships, applications and requests.
	IDs shared.IDGenerator

	// Events receives domain events after commit. Optional.
	Events shared.EventPublisher

	// Clock supplies "today" for date-window checks. Optional.
	Clock placement.Clock

	// Log is the handler logger. Optional.
	Log *logger.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = shared.NopPublisher{}
	}
	if d.Clock == nil {
		d.Clock = placement.ClockFunc(func() time.Time { return shared.DateOf(time.Now()) })
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// base is embedded by every handler.
type base struct {
	deps Deps
	log  *logger.Logger
}

func newBase(deps Deps, name string) base {
	deps = deps.withDefaults()
	return base{
		deps: deps,
		log:  deps.Log.With(logger.Component("command"), logger.Operation(name)),
	}
}

func (b base) today() time.Time {
	return shared.DateOf(b.deps.Clock.Today())
}

// run acquires keys, executes fn in a unit of work and publishes the
// collected events once the unit has committed.
func (b base) run(ctx context.Context, keys []string, fn func(uow placement.UnitOfWork, events *[]shared.Event) error) ([]shared.Event, error) {
	release, err := b.deps.Locker.Lock(ctx, keys...)
	if err != nil {
		b.log.Warn("lock not acquired", logger.Err(err), logger.Any("keys", keys))
		return nil, err
	}
	defer release()

	var events []shared.Event
	err = placement.Within(ctx, b.deps.Store, func(uow placement.UnitOfWork) error {
		return fn(uow, &events)
	})
	if err != nil {
		b.reject(err)
		return nil, err
	}

	b.publish(events)
	return events, nil
}

func (b base) publish(events []shared.Event) {
	for _, event := range events {
		if err := b.deps.Events.Publish(event); err != nil {
			b.log.Error("failed to publish event",
				logger.String("event_type", string(event.EventType())),
				logger.String("aggregate_id", event.AggregateID()),
				logger.Err(err),
			)
		}
	}
}

// reject logs business-rule rejections at Warn and everything else at Error.
func (b base) reject(err error) {
	switch shared.KindOf(err) {
	case "internal", "retryable":
		b.log.Error("command failed", logger.Err(err), logger.String("kind", shared.KindOf(err)))
	default:
		b.log.Warn("command rejected", logger.Err(err), logger.String("kind", shared.KindOf(err)))
	}
}

func slotsEvent(internshipID string, change internship.SlotChange) shared.Event {
	return shared.NewSlotsChangedEvent(internshipID, change.Confirmed, change.Max,
		change.Status.String(), change.Filled, change.Reopened)
}

func internshipEvent(t shared.EventType, i *internship.Internship, actor string) shared.Event {
	return shared.NewInternshipEvent(t, i.ID, i.Title, i.CompanyName, i.Status().String(), i.Visible(), actor)
}

// ══════════════════════════════════════════════════════════════════════════════
// INPUT VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

var (
	validate       *validator.Validate
	studentIDRegex = regexp.MustCompile(`^U\d{7}[A-Z]$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
		return studentIDRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		_, err := internship.ParseLevel(fl.Field().String())
		return err == nil
	})
}

// validateStruct checks validate tags and converts the first failure into
// a validation DomainError naming the field.
func validateStruct(op string, cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return shared.WrapError("command", op, shared.ErrValidation, "invalid input", err)
	}
	return shared.NewDomainError("command", op, shared.ErrValidation, validationMessage(verrs[0]))
}

func validationMessage(e validator.FieldError) string {
	field := toSnake(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "studentid":
		return field + " must look like U1234567A"
	case "level":
		return field + " must be one of BASIC, INTERMEDIATE, ADVANCED"
	case "min", "gte":
		return field + " must be at least " + e.Param()
	case "max", "lte":
		return field + " must be at most " + e.Param()
	case "gtefield":
		return field + " must not be before " + toSnake(e.Param())
	default:
		return field + " is invalid"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER SET
// ══════════════════════════════════════════════════════════════════════════════

// Handlers groups every command handler built from one Deps.
type Handlers struct {
	CreateInternship     *CreateInternshipHandler
	EditInternship       *EditInternshipHandler
	DeleteInternship     *DeleteInternshipHandler
	SetVisibility        *SetVisibilityHandler
	ClosePosting         *ClosePostingHandler
	ReviewInternship     *ReviewInternshipHandler
	CloseExpiredPostings *CloseExpiredPostingsHandler
	Apply                *ApplyHandler
	DecideApplication    *DecideApplicationHandler
	AcceptOffer          *AcceptOfferHandler
	RequestWithdrawal    *RequestWithdrawalHandler
	ProcessWithdrawal    *ProcessWithdrawalHandler
	RegisterRep          *RegisterRepHandler
	ReviewRep            *ReviewRepHandler
}

// NewHandlers wires all command handlers.
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		CreateInternship:     NewCreateInternshipHandler(deps),
		EditInternship:       NewEditInternshipHandler(deps),
		DeleteInternship:     NewDeleteInternshipHandler(deps),
		SetVisibility:        NewSetVisibilityHandler(deps),
		ClosePosting:         NewClosePostingHandler(deps),
		ReviewInternship:     NewReviewInternshipHandler(deps),
		CloseExpiredPostings: NewCloseExpiredPostingsHandler(deps),
		Apply:                NewApplyHandler(deps),
		DecideApplication:    NewDecideApplicationHandler(deps),
		AcceptOffer:          NewAcceptOfferHandler(deps),
		RequestWithdrawal:    NewRequestWithdrawalHandler(deps),
		ProcessWithdrawal:    NewProcessWithdrawalHandler(deps),
		RegisterRep:          NewRegisterRepHandler(deps),
		ReviewRep:            NewReviewRepHandler(deps),
	}
}
