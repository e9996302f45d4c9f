package command

import (
	"context"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/staff"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// PostingDetails carries the editable fields of a posting.
type PostingDetails struct {
	Title          string    `validate:"required,max=200"`
	Description    string    `validate:"required"`
	Level          string    `validate:"required,level"`
	PreferredMajor string    `validate:"required"`
	OpenDate       time.Time `validate:"required"`
	CloseDate      time.Time `validate:"required,gtefield=OpenDate"`
	MaxSlots       int       `validate:"min=1,max=10"`
}

func (d PostingDetails) toDomain() internship.Details {
	level, _ := internship.ParseLevel(d.Level)
	return internship.Details{
		Title:          d.Title,
		Description:    d.Description,
		Level:          level,
		PreferredMajor: d.PreferredMajor,
		OpenDate:       d.OpenDate,
		CloseDate:      d.CloseDate,
		MaxSlots:       d.MaxSlots,
	}
}

// InternshipResult is returned by every posting command.
type InternshipResult struct {
	Internship *internship.Internship
	Events     []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// CREATE
// ══════════════════════════════════════════════════════════════════════════════

// CreateInternshipCommand creates a PENDING posting for the rep's company.
type CreateInternshipCommand struct {
	RepID   string `validate:"required,email"`
	Details PostingDetails
}

// CreateInternshipHandler handles CreateInternshipCommand.
type CreateInternshipHandler struct{ base }

// NewCreateInternshipHandler creates a new CreateInternshipHandler.
func NewCreateInternshipHandler(deps Deps) *CreateInternshipHandler {
	return &CreateInternshipHandler{newBase(deps, "create_internship")}
}

// Handle executes the command. The company's posting cap is counted under
// the company lock so two concurrent creates cannot both take the last spot.
func (h *CreateInternshipHandler) Handle(ctx context.Context, cmd CreateInternshipCommand) (*InternshipResult, error) {
	if err := validateStruct("CreateInternship", cmd); err != nil {
		h.reject(err)
		return nil, err
	}
	rep, err := h.deps.Store.Reader().CompanyReps().GetByID(ctx, cmd.RepID)
	if err != nil {
		h.reject(err)
		return nil, err
	}

	var created *internship.Internship
	events, err := h.run(ctx, []string{placement.CompanyKey(rep.CompanyName)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, err := uow.CompanyReps().GetByID(ctx, cmd.RepID)
			if err != nil {
				return err
			}
			active, err := uow.Internships().CountActiveByCompany(ctx, rep.CompanyName)
			if err != nil {
				return err
			}
			stats := company.PostingStats{RepID: rep.ID, Active: active}

			created, err = rep.CreateInternship(h.deps.IDs.NextID(shared.IDKindInternship), cmd.Details.toDomain(), stats)
			if err != nil {
				return err
			}
			if err := uow.Internships().Save(ctx, created); err != nil {
				return err
			}
			*events = append(*events, internshipEvent(shared.EventInternshipCreated, created, rep.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("internship created",
		logger.InternshipID(created.ID), logger.Company(created.CompanyName), logger.RepID(rep.ID))
	return &InternshipResult{Internship: created, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EDIT / DELETE
// ══════════════════════════════════════════════════════════════════════════════

// EditInternshipCommand replaces the details of a PENDING posting.
type EditInternshipCommand struct {
	RepID        string `validate:"required,email"`
	InternshipID string `validate:"required"`
	Details      PostingDetails
}

// EditInternshipHandler handles EditInternshipCommand.
type EditInternshipHandler struct{ base }

// NewEditInternshipHandler creates a new EditInternshipHandler.
func NewEditInternshipHandler(deps Deps) *EditInternshipHandler {
	return &EditInternshipHandler{newBase(deps, "edit_internship")}
}

// Handle executes the command.
func (h *EditInternshipHandler) Handle(ctx context.Context, cmd EditInternshipCommand) (*InternshipResult, error) {
	if err := validateStruct("EditInternship", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var edited *internship.Internship
	events, err := h.run(ctx, []string{placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, posting, err := loadRepAndPosting(ctx, uow, cmd.RepID, cmd.InternshipID)
			if err != nil {
				return err
			}
			if err := rep.EditInternship(posting, cmd.Details.toDomain()); err != nil {
				return err
			}
			if err := uow.Internships().Save(ctx, posting); err != nil {
				return err
			}
			edited = posting
			*events = append(*events, internshipEvent(shared.EventInternshipEdited, posting, rep.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("internship edited", logger.InternshipID(edited.ID))
	return &InternshipResult{Internship: edited, Events: events}, nil
}

// DeleteInternshipCommand removes a PENDING or REJECTED posting.
type DeleteInternshipCommand struct {
	RepID        string `validate:"required,email"`
	InternshipID string `validate:"required"`
}

// DeleteInternshipHandler handles DeleteInternshipCommand.
type DeleteInternshipHandler struct{ base }

// NewDeleteInternshipHandler creates a new DeleteInternshipHandler.
func NewDeleteInternshipHandler(deps Deps) *DeleteInternshipHandler {
	return &DeleteInternshipHandler{newBase(deps, "delete_internship")}
}

// Handle executes the command.
func (h *DeleteInternshipHandler) Handle(ctx context.Context, cmd DeleteInternshipCommand) (*InternshipResult, error) {
	if err := validateStruct("DeleteInternship", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var deleted *internship.Internship
	events, err := h.run(ctx, []string{placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, posting, err := loadRepAndPosting(ctx, uow, cmd.RepID, cmd.InternshipID)
			if err != nil {
				return err
			}
			if err := rep.AssertCanDelete(posting); err != nil {
				return err
			}
			if err := uow.Internships().Delete(ctx, posting.ID); err != nil {
				return err
			}
			deleted = posting
			*events = append(*events, internshipEvent(shared.EventInternshipDeleted, posting, rep.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("internship deleted", logger.InternshipID(deleted.ID))
	return &InternshipResult{Internship: deleted, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VISIBILITY / CLOSE
// ══════════════════════════════════════════════════════════════════════════════

// SetVisibilityCommand shows or hides an owned posting.
type SetVisibilityCommand struct {
	RepID        string `validate:"required,email"`
	InternshipID string `validate:"required"`
	Visible      bool
}

// SetVisibilityHandler handles SetVisibilityCommand.
type SetVisibilityHandler struct{ base }

// NewSetVisibilityHandler creates a new SetVisibilityHandler.
func NewSetVisibilityHandler(deps Deps) *SetVisibilityHandler {
	return &SetVisibilityHandler{newBase(deps, "set_visibility")}
}

// Handle executes the command.
func (h *SetVisibilityHandler) Handle(ctx context.Context, cmd SetVisibilityCommand) (*InternshipResult, error) {
	if err := validateStruct("SetVisibility", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var posting *internship.Internship
	events, err := h.run(ctx, []string{placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, i, err := loadRepAndPosting(ctx, uow, cmd.RepID, cmd.InternshipID)
			if err != nil {
				return err
			}
			if err := rep.SetInternshipVisibility(i, cmd.Visible); err != nil {
				return err
			}
			if err := uow.Internships().Save(ctx, i); err != nil {
				return err
			}
			posting = i
			*events = append(*events, internshipEvent(shared.EventInternshipVisibilityChanged, i, rep.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("visibility changed", logger.InternshipID(posting.ID), logger.Bool("visible", posting.Visible()))
	return &InternshipResult{Internship: posting, Events: events}, nil
}

// ClosePostingCommand closes an owned APPROVED posting.
type ClosePostingCommand struct {
	RepID        string `validate:"required,email"`
	InternshipID string `validate:"required"`
}

// ClosePostingHandler handles ClosePostingCommand.
type ClosePostingHandler struct{ base }

// NewClosePostingHandler creates a new ClosePostingHandler.
func NewClosePostingHandler(deps Deps) *ClosePostingHandler {
	return &ClosePostingHandler{newBase(deps, "close_posting")}
}

// Handle executes the command.
func (h *ClosePostingHandler) Handle(ctx context.Context, cmd ClosePostingCommand) (*InternshipResult, error) {
	if err := validateStruct("ClosePosting", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var posting *internship.Internship
	events, err := h.run(ctx, []string{placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			rep, i, err := loadRepAndPosting(ctx, uow, cmd.RepID, cmd.InternshipID)
			if err != nil {
				return err
			}
			if err := rep.ClosePosting(i); err != nil {
				return err
			}
			if err := uow.Internships().Save(ctx, i); err != nil {
				return err
			}
			posting = i
			*events = append(*events, internshipEvent(shared.EventInternshipClosed, i, rep.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("posting closed", logger.InternshipID(posting.ID))
	return &InternshipResult{Internship: posting, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STAFF REVIEW
// ══════════════════════════════════════════════════════════════════════════════

// ReviewInternshipCommand approves or rejects a PENDING posting.
type ReviewInternshipCommand struct {
	StaffID      string `validate:"required"`
	InternshipID string `validate:"required"`
	Approve      bool
	MakeVisible  bool
}

// ReviewInternshipHandler handles ReviewInternshipCommand.
type ReviewInternshipHandler struct{ base }

// NewReviewInternshipHandler creates a new ReviewInternshipHandler.
func NewReviewInternshipHandler(deps Deps) *ReviewInternshipHandler {
	return &ReviewInternshipHandler{newBase(deps, "review_internship")}
}

// Handle executes the command.
func (h *ReviewInternshipHandler) Handle(ctx context.Context, cmd ReviewInternshipCommand) (*InternshipResult, error) {
	if err := validateStruct("ReviewInternship", cmd); err != nil {
		h.reject(err)
		return nil, err
	}

	var posting *internship.Internship
	events, err := h.run(ctx, []string{placement.InternshipKey(cmd.InternshipID)},
		func(uow placement.UnitOfWork, events *[]shared.Event) error {
			officer, err := loadStaff(ctx, uow, cmd.StaffID)
			if err != nil {
				return err
			}
			i, err := uow.Internships().GetByID(ctx, cmd.InternshipID)
			if err != nil {
				return err
			}

			eventType := shared.EventInternshipRejected
			if cmd.Approve {
				eventType = shared.EventInternshipApproved
				err = officer.ApproveInternship(i, cmd.MakeVisible)
			} else {
				err = officer.RejectInternship(i)
			}
			if err != nil {
				return err
			}
			if err := uow.Internships().Save(ctx, i); err != nil {
				return err
			}
			posting = i
			*events = append(*events, internshipEvent(eventType, i, officer.ID))
			return nil
		})
	if err != nil {
		return nil, err
	}

	h.log.Info("internship reviewed",
		logger.InternshipID(posting.ID), logger.StaffID(cmd.StaffID),
		logger.String("status", posting.Status().String()))
	return &InternshipResult{Internship: posting, Events: events}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRY
// ══════════════════════════════════════════════════════════════════════════════

// CloseExpiredPostingsCommand closes APPROVED postings whose close date is
// before AsOf. A zero AsOf means today.
type CloseExpiredPostingsCommand struct {
	AsOf time.Time
}

// CloseExpiredPostingsResult lists the postings that were closed.
type CloseExpiredPostingsResult struct {
	Closed []string
	Events []shared.Event
}

// CloseExpiredPostingsHandler handles CloseExpiredPostingsCommand.
type CloseExpiredPostingsHandler struct{ base }

// NewCloseExpiredPostingsHandler creates a new CloseExpiredPostingsHandler.
func NewCloseExpiredPostingsHandler(deps Deps) *CloseExpiredPostingsHandler {
	return &CloseExpiredPostingsHandler{newBase(deps, "close_expired_postings")}
}

// Handle closes each expired posting in its own unit of work. A posting that
// changed state in the meantime is skipped.
func (h *CloseExpiredPostingsHandler) Handle(ctx context.Context, cmd CloseExpiredPostingsCommand) (*CloseExpiredPostingsResult, error) {
	asOf := cmd.AsOf
	if asOf.IsZero() {
		asOf = h.today()
	}

	candidates, err := h.deps.Store.Reader().Internships().List(ctx, internship.Filter{
		Status:       internship.StatusApproved,
		ClosesBefore: asOf,
	})
	if err != nil {
		h.reject(err)
		return nil, err
	}

	result := &CloseExpiredPostingsResult{}
	for _, candidate := range candidates {
		id := candidate.ID
		events, err := h.run(ctx, []string{placement.InternshipKey(id)},
			func(uow placement.UnitOfWork, events *[]shared.Event) error {
				i, err := uow.Internships().GetByID(ctx, id)
				if err != nil {
					return err
				}
				if i.Status() != internship.StatusApproved || !i.CloseDate.Before(shared.DateOf(asOf)) {
					return nil
				}
				if err := i.Close(); err != nil {
					return err
				}
				if err := uow.Internships().Save(ctx, i); err != nil {
					return err
				}
				*events = append(*events, internshipEvent(shared.EventInternshipClosed, i, "system"))
				return nil
			})
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			continue
		}
		if len(events) > 0 {
			result.Closed = append(result.Closed, id)
			result.Events = append(result.Events, events...)
		}
	}

	if len(result.Closed) > 0 {
		h.log.Info("expired postings closed", logger.Int("count", len(result.Closed)))
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func loadRepAndPosting(ctx context.Context, uow placement.UnitOfWork, repID, internshipID string) (*company.Rep, *internship.Internship, error) {
	rep, err := uow.CompanyReps().GetByID(ctx, repID)
	if err != nil {
		return nil, nil, err
	}
	i, err := uow.Internships().GetByID(ctx, internshipID)
	if err != nil {
		return nil, nil, err
	}
	return rep, i, nil
}

func loadStaff(ctx context.Context, uow placement.UnitOfWork, id string) (*staff.Staff, error) {
	return uow.Staff().GetByID(ctx, id)
}
