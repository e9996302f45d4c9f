package command

import (
	"context"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ApplicationResult is returned by application commands.
type ApplicationResult struct {
	Application *application.Application

	// AutoWithdrawn lists applications withdrawn because an offer was accepted.
	AutoWithdrawn []string

	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLY
// ══════════════════════════════════════════════════════════════════════════════

// ApplyCommand submits a student's application to an internship.
type ApplyCommand struct {
	StudentID    string `validate:"required,studentid"`
	InternshipID string `validate:"required"`
}

// ApplyHandler handles ApplyCommand.
type ApplyHandler struct{ base }

// NewApplyHandler creates a new ApplyHandler.
func NewApplyHandler(deps Deps) *ApplyHandler {
	return &ApplyHandler{newBase(deps, "apply")}
}

// Handle executes the command. The student's cap and the posting's open
// state are both evaluated under the student and internship locks.
func (h *ApplyHandler) Handle(ctx context.Context, cmd ApplyCommand) (*ApplicationResult, error) {
	if err := validateStruct("Apply", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	today := h.today()

	var created *application.Application
	events, err := h.run(ctx,
		[]string{placement.StudentKey(cmd.StudentID), placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			s, err := uow.Students().GetByID(ctx, cmd.StudentID)
			if err != nil {
				return err
			}
			i, err := uow.Internships().GetByID(ctx, cmd.InternshipID)
			if err != nil {
				return err
			}
			exists, err := uow.Applications().ExistsByStudentAndInternship(ctx, s.ID, i.ID)
			if err != nil {
				return err
			}
			if exists {
				return shared.Errorf("command", "Apply", shared.ErrAlreadyExists,
					"student %s already applied to %s", s.ID, i.ID)
			}
			stats, err := uow.Applications().StatsForStudent(ctx, s.ID)
			if err != nil {
				return err
			}
			if err := s.AssertCanApply(i, stats, today); err != nil {
				return err
			}

			created, err = application.NewApplication(application.NewApplicationParams{
				ID:         h.deps.IDs.NextID(shared.IDKindApplication),
				Student:    s,
				Internship: i,
				Apps:       stats,
				AppliedOn:  today,
			})
			if err != nil {
				return err
			}
			if err := uow.Applications().Save(ctx, created); err != nil {
				return err
			}
			*events = append(*events, shared.NewApplicationEvent(shared.EventApplicationSubmitted,
				created.ID, s.ID, i.ID, created.Status().String(), ""))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("application submitted",
		logger.ApplicationID(created.ID), logger.StudentID(cmd.StudentID), logger.InternshipID(cmd.InternshipID))
	return &ApplicationResult{Application: created, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DECIDE (COMPANY REP)
// ══════════════════════════════════════════════════════════════════════════════

// DecideApplicationCommand records the company's decision on a PENDING application.
type DecideApplicationCommand struct {
	RepID         string `validate:"required,email"`
	ApplicationID string `validate:"required"`
	Successful    bool
}

// DecideApplicationHandler handles DecideApplicationCommand.
type DecideApplicationHandler struct{ base }

// NewDecideApplicationHandler creates a new DecideApplicationHandler.
func NewDecideApplicationHandler(deps Deps) *DecideApplicationHandler {
	return &DecideApplicationHandler{newBase(deps, "decide_application")}
}

// Handle executes the command.
func (h *DecideApplicationHandler) Handle(ctx context.Context, cmd DecideApplicationCommand) (*ApplicationResult, error) {
	if err := validateStruct("DecideApplication", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	keys, err := h.applicationKeys(ctx, cmd.ApplicationID)
	if err != nil {
		h.reject(err)
		return nil, err
	}

	var decided *application.Application
	events, err := h.run(ctx, keys, func(uow placement.UnitOfWork, events *[]shared.Event) error {
		rep, err := uow.CompanyReps().GetByID(ctx, cmd.RepID)
		if err != nil {
			return err
		}
		a, i, err := loadApplication(ctx, uow, cmd.ApplicationID)
		if err != nil {
			return err
		}
		if cmd.Successful {
			err = rep.ApproveApplication(a, i)
		} else {
			err = rep.RejectApplication(a, i)
		}
		if err != nil {
			return err
		}
		if err := uow.Applications().Save(ctx, a); err != nil {
			return err
		}
		decided = a
		*events = append(*events, shared.NewApplicationEvent(shared.EventApplicationStatusChanged,
			a.ID, a.StudentID, i.ID, a.Status().String(), "decided by "+rep.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("application decided",
		logger.ApplicationID(decided.ID), logger.RepID(cmd.RepID),
		logger.String("status", decided.Status().String()))
	return &ApplicationResult{Application: decided, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCEPT OFFER
// ══════════════════════════════════════════════════════════════════════════════

// AcceptOfferCommand confirms a SUCCESSFUL application on behalf of its owner.
type AcceptOfferCommand struct {
	StudentID     string `validate:"required,studentid"`
	ApplicationID string `validate:"required"`
}

// AcceptOfferHandler handles AcceptOfferCommand.
type AcceptOfferHandler struct{ base }

// NewAcceptOfferHandler creates a new AcceptOfferHandler.
func NewAcceptOfferHandler(deps Deps) *AcceptOfferHandler {
	return &AcceptOfferHandler{newBase(deps, "accept_offer")}
}

// Handle reserves a slot and withdraws every other active application of the
// student in the same unit of work. A failed slot reservation leaves nothing
// changed.
func (h *AcceptOfferHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) (*ApplicationResult, error) {
	if err := validateStruct("AcceptOffer", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	keys, err := h.applicationKeys(ctx, cmd.ApplicationID)
	if err != nil {
		h.reject(err)
		return nil, err
	}
	keys = append(keys, placement.StudentKey(cmd.StudentID))

	var (
		accepted  *application.Application
		withdrawn []string
	)
	events, err := h.run(ctx, keys, func(uow placement.UnitOfWork, events *[]shared.Event) error {
		a, i, err := loadApplication(ctx, uow, cmd.ApplicationID)
		if err != nil {
			return err
		}
		if !a.IsOwnedBy(cmd.StudentID) {
			return shared.Errorf("command", "AcceptOffer", shared.ErrForbidden,
				"student %s does not own application %s", cmd.StudentID, a.ID)
		}

		all, err := uow.Applications().ListByStudent(ctx, cmd.StudentID)
		if err != nil {
			return err
		}
		change, err := a.ConfirmAcceptance(application.Index(all))
		if err != nil {
			return err
		}

		for _, other := range all {
			if other.ID == a.ID || !other.IsActiveTowardCap() {
				continue
			}
			other.MarkWithdrawn()
			if err := uow.Applications().Save(ctx, other); err != nil {
				return err
			}
			withdrawn = append(withdrawn, other.ID)
			*events = append(*events, shared.NewApplicationEvent(shared.EventApplicationStatusChanged,
				other.ID, other.StudentID, other.InternshipID(), other.Status().String(), "offer accepted elsewhere"))
		}

		if err := uow.Applications().Save(ctx, a); err != nil {
			return err
		}
		if err := uow.Internships().Save(ctx, i); err != nil {
			return err
		}
		accepted = a
		*events = append(*events,
			shared.NewOfferAcceptedEvent(a.ID, a.StudentID, i.ID, withdrawn),
			slotsEvent(i.ID, change),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("offer accepted",
		logger.ApplicationID(accepted.ID), logger.StudentID(cmd.StudentID),
		logger.Int("auto_withdrawn", len(withdrawn)))
	return &ApplicationResult{Application: accepted, AutoWithdrawn: withdrawn, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// applicationKeys resolves the lock keys of an application from committed
// state. Owner and internship never change after creation.
func (b base) applicationKeys(ctx context.Context, applicationID string) ([]string, error) {
	a, err := b.deps.Store.Reader().Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return []string{placement.StudentKey(a.StudentID), placement.InternshipKey(a.InternshipID())}, nil
}

// loadApplication reads an application with its internship attached.
func loadApplication(ctx context.Context, uow placement.UnitOfWork, id string) (*application.Application, *internship.Internship, error) {
	a, err := uow.Applications().GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	i, err := uow.Internships().GetByID(ctx, a.InternshipID())
	if err != nil {
		return nil, nil, err
	}
	if err := a.AttachInternship(i); err != nil {
		return nil, nil, err
	}
	return a, i, nil
}
