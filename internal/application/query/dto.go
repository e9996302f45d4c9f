// Package query contains read operations (CQRS - Queries).
package query

import (
	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/company"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/withdrawal"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTO
// Плоские представления для CLI и JSON-вывода.
// ══════════════════════════════════════════════════════════════════════════════

// InternshipDTO - вакансия для вывода.
type InternshipDTO struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Level          string `json:"level"`
	PreferredMajor string `json:"preferred_major"`
	CompanyName    string `json:"company_name"`
	OpenDate       string `json:"open_date"`
	CloseDate      string `json:"close_date"`
	Status         string `json:"status"`
	Visible        bool   `json:"visible"`

	// ─────────────────────────────────────────────────────────────────────────
	// Места
	// ─────────────────────────────────────────────────────────────────────────

	MaxSlots       int `json:"max_slots"`
	ConfirmedSlots int `json:"confirmed_slots"`
	RemainingSlots int `json:"remaining_slots"`
}

// ApplicationDTO - заявка для вывода. Internship заполнен, если вакансия найдена.
type ApplicationDTO struct {
	ID              string         `json:"id"`
	StudentID       string         `json:"student_id"`
	InternshipID    string         `json:"internship_id"`
	AppliedOn       string         `json:"applied_on"`
	Status          string         `json:"status"`
	StudentAccepted bool           `json:"student_accepted"`
	Internship      *InternshipDTO `json:"internship,omitempty"`
}

// WithdrawalDTO - запрос на отзыв для вывода.
type WithdrawalDTO struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	RequestedBy   string `json:"requested_by"`
	RequestedOn   string `json:"requested_on"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	ProcessedBy   string `json:"processed_by,omitempty"`
	ProcessedOn   string `json:"processed_on,omitempty"`
	StaffNote     string `json:"staff_note,omitempty"`
}

// RepDTO - представитель компании для вывода.
type RepDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CompanyName     string `json:"company_name"`
	Department      string `json:"department"`
	Position        string `json:"position"`
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ToInternshipDTO преобразует вакансию.
func ToInternshipDTO(i *internship.Internship) InternshipDTO {
	return InternshipDTO{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		Level:          i.Level.String(),
		PreferredMajor: i.PreferredMajor,
		CompanyName:    i.CompanyName,
		OpenDate:       shared.FormatDate(i.OpenDate),
		CloseDate:      shared.FormatDate(i.CloseDate),
		Status:         i.Status().String(),
		Visible:        i.Visible(),
		MaxSlots:       i.MaxSlots(),
		ConfirmedSlots: i.ConfirmedSlots(),
		RemainingSlots: i.RemainingSlots(),
	}
}

// ToApplicationDTO преобразует заявку вместе с присоединённой вакансией.
func ToApplicationDTO(a *application.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:              a.ID,
		StudentID:       a.StudentID,
		InternshipID:    a.InternshipID(),
		AppliedOn:       shared.FormatDate(a.AppliedOn),
		Status:          a.Status().String(),
		StudentAccepted: a.StudentAccepted(),
	}
	if i := a.Internship(); i != nil {
		idto := ToInternshipDTO(i)
		dto.Internship = &idto
	}
	return dto
}

// ToWithdrawalDTO преобразует запрос на отзыв.
func ToWithdrawalDTO(r *withdrawal.Request) WithdrawalDTO {
	dto := WithdrawalDTO{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		RequestedBy:   r.RequestedBy,
		RequestedOn:   shared.FormatDate(r.RequestedOn),
		Reason:        r.Reason(),
		Status:        r.Status().String(),
		ProcessedBy:   r.ProcessedBy(),
		StaffNote:     r.StaffNote(),
	}
	if !r.ProcessedOn().IsZero() {
		dto.ProcessedOn = shared.FormatDate(r.ProcessedOn())
	}
	return dto
}

// ToRepDTO преобразует представителя.
func ToRepDTO(r *company.Rep) RepDTO {
	return RepDTO{
		ID:              r.ID,
		Name:            r.Name,
		CompanyName:     r.CompanyName,
		Department:      r.Department,
		Position:        r.Position,
		Approved:        r.IsApproved(),
		RejectionReason: r.RejectionReason(),
	}
}

func internshipDTOs(list []*internship.Internship) []InternshipDTO {
	out := make([]InternshipDTO, 0, len(list))
	for _, i := range list {
		out = append(out, ToInternshipDTO(i))
	}
	return out
}

func withdrawalDTOs(list []*withdrawal.Request) []WithdrawalDTO {
	out := make([]WithdrawalDTO, 0, len(list))
	for _, r := range list {
		out = append(out, ToWithdrawalDTO(r))
	}
	return out
}
