package command

import (
	"context"
	"strings"

	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// WithdrawalResult is returned by withdrawal commands.
type WithdrawalResult struct {
	Request *withdrawal.Request

	// Outcome is set when a request was approved.
	Outcome withdrawal.Outcome

	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST
// ══════════════════════════════════════════════════════════════════════════════

// RequestWithdrawalCommand asks staff to withdraw one of the student's applications.
type RequestWithdrawalCommand struct {
	StudentID     string `validate:"required,studentid"`
	ApplicationID string `validate:"required"`
	Reason        string `validate:"required"`
}

// RequestWithdrawalHandler handles RequestWithdrawalCommand.
type RequestWithdrawalHandler struct{ base }

// NewRequestWithdrawalHandler creates a new RequestWithdrawalHandler.
func NewRequestWithdrawalHandler(deps Deps) *RequestWithdrawalHandler {
	return &RequestWithdrawalHandler{newBase(deps, "request_withdrawal")}
}

// Handle executes the command.
func (h *RequestWithdrawalHandler) Handle(ctx context.Context, cmd RequestWithdrawalCommand) (*WithdrawalResult, error) {
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if err := validateStruct("RequestWithdrawal", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	today := h.today()

	var created *withdrawal.Request
	events, err := h.run(ctx, []string{placement.StudentKey(cmd.StudentID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			a, err := uow.Applications().GetByID(ctx, cmd.ApplicationID)
			if err != nil {
				return err
			}
			if !a.IsOwnedBy(cmd.StudentID) {
				return shared.Errorf("command", "RequestWithdrawal", shared.ErrForbidden,
					"student %s does not own application %s", cmd.StudentID, a.ID)
			}
			if a.Status().IsTerminal() {
				return shared.Errorf("command", "RequestWithdrawal", shared.ErrInvalidState,
					"application %s is already %s", a.ID, a.Status())
			}
			existing, err := uow.Withdrawals().ListByApplication(ctx, a.ID)
			if err != nil {
				return err
			}
			if withdrawal.HasPending(existing) {
				return shared.Errorf("command", "RequestWithdrawal", shared.ErrAlreadyExists,
					"application %s already has a pending withdrawal request", a.ID)
			}

			created, err = withdrawal.NewRequest(withdrawal.NewRequestParams{
				ID:          h.deps.IDs.NextID(shared.IDKindWithdrawal),
				Application: a,
				StudentID:   cmd.StudentID,
				Reason:      cmd.Reason,
				RequestedOn: today,
			})
			if err != nil {
				return err
			}
			if err := uow.Withdrawals().Save(ctx, created); err != nil {
				return err
			}
			*events = append(*events, shared.NewWithdrawalEvent(shared.EventWithdrawalRequested,
				created.ID, a.ID, cmd.StudentID, created.Status().String(), "", created.Reason()))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("withdrawal requested",
		logger.WithdrawalID(created.ID), logger.ApplicationID(cmd.ApplicationID), logger.StudentID(cmd.StudentID))
	return &WithdrawalResult{Request: created, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PROCESS (STAFF)
// ══════════════════════════════════════════════════════════════════════════════

// ProcessWithdrawalCommand approves or rejects a PENDING withdrawal request.
// An empty Note is replaced with the default staff note.
type ProcessWithdrawalCommand struct {
	StaffID   string `validate:"required"`
	RequestID string `validate:"required"`
	Approve   bool
	Note      string
}

// ProcessWithdrawalHandler handles ProcessWithdrawalCommand.
type ProcessWithdrawalHandler struct{ base }

// NewProcessWithdrawalHandler creates a new ProcessWithdrawalHandler.
func NewProcessWithdrawalHandler(deps Deps) *ProcessWithdrawalHandler {
	return &ProcessWithdrawalHandler{newBase(deps, "process_withdrawal")}
}

// Handle executes the command. Request, application and internship are saved
// in one unit of work.
func (h *ProcessWithdrawalHandler) Handle(ctx context.Context, cmd ProcessWithdrawalCommand) (*WithdrawalResult, error) {
	if err := validateStruct("ProcessWithdrawal", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	req, err := h.deps.Store.Reader().Withdrawals().GetByID(ctx, cmd.RequestID)
	if err != nil {
		h.reject(err)
		return nil, err
	}
	keys, err := h.applicationKeys(ctx, req.ApplicationID)
	if err != nil {
		h.reject(err)
		return nil, err
	}
	keys = append(keys, placement.WithdrawalKey(req.ID))
	today := h.today()

	var (
		processed *withdrawal.Request
		outcome   withdrawal.Outcome
	)
	events, err := h.run(ctx, keys, func(uow placement.UnitOfWork, events *[]shared.Event) error {
		officer, err := loadStaff(ctx, uow, cmd.StaffID)
		if err != nil {
			return err
		}
		r, err := uow.Withdrawals().GetByID(ctx, cmd.RequestID)
		if err != nil {
			return err
		}
		a, i, err := loadApplication(ctx, uow, r.ApplicationID)
		if err != nil {
			return err
		}
		if err := r.AttachApplication(a); err != nil {
			return err
		}

		outcome, err = officer.ProcessWithdrawal(r, cmd.Approve, cmd.Note, today)
		if err != nil {
			return err
		}
		if err := uow.Withdrawals().Save(ctx, r); err != nil {
			return err
		}
		if outcome.Revoked || outcome.Withdrawn {
			if err := uow.Applications().Save(ctx, a); err != nil {
				return err
			}
			*events = append(*events, shared.NewApplicationEvent(shared.EventApplicationStatusChanged,
				a.ID, a.StudentID, i.ID, a.Status().String(), "withdrawal approved"))
		}
		if outcome.Slots != nil {
			if err := uow.Internships().Save(ctx, i); err != nil {
				return err
			}
			*events = append(*events, slotsEvent(i.ID, *outcome.Slots))
		}

		processed = r
		*events = append(*events, shared.NewWithdrawalEvent(shared.EventWithdrawalProcessed,
			r.ID, a.ID, r.RequestedBy, r.Status().String(), officer.ID, r.StaffNote()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("withdrawal processed",
		logger.WithdrawalID(processed.ID), logger.StaffID(cmd.StaffID),
		logger.String("status", processed.Status().String()),
		logger.Bool("slot_released", outcome.Revoked))
	return &WithdrawalResult{Request: processed, Outcome: outcome, Events: events}, nil
}
