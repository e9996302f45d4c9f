package query

import (
	"context"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPANY POSTINGS
// Вакансии компании представителя со статистикой заявок.
// ══════════════════════════════════════════════════════════════════════════════

// CompanyPostingsQuery содержит параметры запроса.
type CompanyPostingsQuery struct {
	RepID  string
	Status string
}

// PostingSummary - вакансия и число заявок по статусам.
type PostingSummary struct {
	Internship   InternshipDTO  `json:"internship"`
	Applications map[string]int `json:"applications"`
}

// CompanyPostingsResult - результат запроса.
type CompanyPostingsResult struct {
	CompanyName    string           `json:"company_name"`
	ActivePostings int              `json:"active_postings"`
	Postings       []PostingSummary `json:"postings"`
}

// CompanyPostingsHandler обрабатывает CompanyPostingsQuery.
type CompanyPostingsHandler struct {
	repos placement.Repositories
}

// NewCompanyPostingsHandler создаёт обработчик.
func NewCompanyPostingsHandler(repos placement.Repositories) *CompanyPostingsHandler {
	return &CompanyPostingsHandler{repos: repos}
}

// Handle выполняет запрос.
func (h *CompanyPostingsHandler) Handle(ctx context.Context, q CompanyPostingsQuery) (*CompanyPostingsResult, error) {
	rep, err := h.repos.CompanyReps().GetByID(ctx, q.RepID)
	if err != nil {
		return nil, err
	}
	filter := internship.Filter{CompanyName: rep.CompanyName}
	if q.Status != "" {
		status, err := internship.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	postings, err := h.repos.Internships().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	active, err := h.repos.Internships().CountActiveByCompany(ctx, rep.CompanyName)
	if err != nil {
		return nil, err
	}

	result := &CompanyPostingsResult{
		CompanyName:    rep.CompanyName,
		ActivePostings: active,
		Postings:       make([]PostingSummary, 0, len(postings)),
	}
	for _, i := range postings {
		apps, err := h.repos.Applications().ListByInternship(ctx, i.ID)
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int)
		for _, a := range apps {
			counts[a.Status().String()]++
		}
		result.Postings = append(result.Postings, PostingSummary{Internship: ToInternshipDTO(i), Applications: counts})
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// POSTING APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

// PostingApplicationsQuery - заявки на вакансию своей компании.
type PostingApplicationsQuery struct {
	RepID        string
	InternshipID string
}

// PostingApplicationsHandler обрабатывает PostingApplicationsQuery.
type PostingApplicationsHandler struct {
	repos placement.Repositories
}

// NewPostingApplicationsHandler создаёт обработчик.
func NewPostingApplicationsHandler(repos placement.Repositories) *PostingApplicationsHandler {
	return &PostingApplicationsHandler{repos: repos}
}

// Handle выполняет запрос. Чужая вакансия - ошибка доступа.
func (h *PostingApplicationsHandler) Handle(ctx context.Context, q PostingApplicationsQuery) ([]ApplicationDTO, error) {
	rep, err := h.repos.CompanyReps().GetByID(ctx, q.RepID)
	if err != nil {
		return nil, err
	}
	i, err := h.repos.Internships().GetByID(ctx, q.InternshipID)
	if err != nil {
		return nil, err
	}
	if err := rep.AssertOwns("ListApplications", i); err != nil {
		return nil, err
	}

	apps, err := h.repos.Applications().ListByInternship(ctx, i.ID)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for _, a := range apps {
		if err := a.AttachInternship(i); err != nil {
			return nil, err
		}
		out = append(out, ToApplicationDTO(a))
	}
	return out, nil
}
