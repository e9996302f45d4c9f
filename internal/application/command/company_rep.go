package command

import (
	"context"
	"strings"

	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// RepResult is returned by representative commands.
type RepResult struct {
	Rep    *company.Rep
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterRepCommand registers a company representative awaiting approval.
type RegisterRepCommand struct {
	Name        string `validate:"required"`
	CompanyName string `validate:"required"`
	Department  string `validate:"required"`
	Position    string `validate:"required"`
	Email       string `validate:"required,email"`
}

// RegisterRepHandler handles RegisterRepCommand.
type RegisterRepHandler struct{ base }

// NewRegisterRepHandler creates a new RegisterRepHandler.
func NewRegisterRepHandler(deps Deps) *RegisterRepHandler {
	return &RegisterRepHandler{newBase(deps, "register_rep")}
}

// Handle executes the command. Emails are unique regardless of case.
func (h *RegisterRepHandler) Handle(ctx context.Context, cmd RegisterRepCommand) (*RepResult, error) {
	cmd.Email = strings.TrimSpace(cmd.Email)
	if err := validateStruct("RegisterRep", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var registered *company.Rep
	events, err := h.run(ctx, []string{placement.RepKey(cmd.Email)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, err := company.NewRep(company.NewRepParams{
				Name:        cmd.Name,
				CompanyName: cmd.CompanyName,
				Department:  cmd.Department,
				Position:    cmd.Position,
				Email:       cmd.Email,
			})
			if err != nil {
				return err
			}
			if _, err := uow.CompanyReps().GetByID(ctx, rep.ID); err == nil {
				return shared.Errorf("command", "RegisterRep", shared.ErrAlreadyExists,
					"email %s is already registered", rep.Email)
			} else if !shared.IsNotFound(err) {
				return err
			}
			if err := uow.CompanyReps().Save(ctx, rep); err != nil {
				return err
			}
			registered = rep
			*events = append(*events, shared.NewCompanyRepEvent(shared.EventCompanyRepRegistered,
				rep.ID, rep.CompanyName, false, ""))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("company rep registered", logger.RepID(registered.ID), logger.Company(registered.CompanyName))
	return &RepResult{Rep: registered, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW (STAFF)
// ══════════════════════════════════════════════════════════════════════════════

// ReviewRepCommand approves or rejects a representative account.
type ReviewRepCommand struct {
	StaffID string `validate:"required"`
	RepID   string `validate:"required,email"`
	Approve bool
	Reason  string
}

// ReviewRepHandler handles ReviewRepCommand.
type ReviewRepHandler struct{ base }

// NewReviewRepHandler creates a new ReviewRepHandler.
func NewReviewRepHandler(deps Deps) *ReviewRepHandler {
	return &ReviewRepHandler{newBase(deps, "review_rep")}
}

// Handle executes the command.
func (h *ReviewRepHandler) Handle(ctx context.Context, cmd ReviewRepCommand) (*RepResult, error) {
	if err := validateStruct("ReviewRep", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var reviewed *company.Rep
	events, err := h.run(ctx, []string{placement.RepKey(cmd.RepID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			officer, err := loadStaff(ctx, uow, cmd.StaffID)
			if err != nil {
				return err
			}
			rep, err := uow.CompanyReps().GetByID(ctx, cmd.RepID)
			if err != nil {
				return err
			}
			if cmd.Approve {
				err = officer.ApproveCompanyRep(rep)
			} else {
				err = officer.RejectCompanyRep(rep, cmd.Reason)
			}
			if err != nil {
				return err
			}
			if err := uow.CompanyReps().Save(ctx, rep); err != nil {
				return err
			}
			reviewed = rep
			*events = append(*events, shared.NewCompanyRepEvent(shared.EventCompanyRepReviewed,
				rep.ID, rep.CompanyName, rep.IsApproved(), rep.RejectionReason()))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("company rep reviewed",
		logger.RepID(reviewed.ID), logger.StaffID(cmd.StaffID), logger.Bool("approved", reviewed.IsApproved()))
	return &RepResult{Rep: reviewed, Events: events}, nil
}
