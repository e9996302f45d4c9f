package query

import (
	"context"
	"strings"

	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
)

// ══════════════════════════════════════════════════════════════════════════════
// STAFF VIEWS
// Очереди проверки и фильтр вакансий для центра карьеры.
// ══════════════════════════════════════════════════════════════════════════════

// InternshipFilterQuery - фильтр вакансий. Пустые поля не ограничивают выборку.
type InternshipFilterQuery struct {
	StaffID string

	Status      string
	Major       string
	Level       string
	CompanyName string
}

// StaffQueries объединяет запросы сотрудника.
type StaffQueries struct {
	repos placement.Repositories
}

// NewStaffQueries создаёт набор запросов.
func NewStaffQueries(repos placement.Repositories) *StaffQueries {
	return &StaffQueries{repos: repos}
}

// FilterInternships возвращает вакансии по фильтру. Доступно только сотрудникам.
func (s *StaffQueries) FilterInternships(ctx context.Context, q InternshipFilterQuery) ([]InternshipDTO, error) {
	officer, err := s.repos.Staff().GetByID(ctx, strings.TrimSpace(q.StaffID))
	if err != nil {
		return nil, err
	}
	filter := internship.Filter{Major: q.Major, CompanyName: q.CompanyName}
	if strings.TrimSpace(q.Status) != "" {
		status, err := internship.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(q.Level) != "" {
		level, err := internship.ParseLevel(q.Level)
		if err != nil {
			return nil, err
		}
		filter.Level = level
	}
	all, err := s.repos.Internships().List(ctx, internship.Filter{})
	if err != nil {
		return nil, err
	}
	return internshipDTOs(officer.FilterInternships(all, filter)), nil
}

// PendingInternships - вакансии, ожидающие проверки.
func (s *StaffQueries) PendingInternships(ctx context.Context, staffID string) ([]InternshipDTO, error) {
	return s.FilterInternships(ctx, InternshipFilterQuery{StaffID: staffID, Status: internship.StatusPending.String()})
}

// PendingWithdrawals - необработанные запросы на отзыв.
func (s *StaffQueries) PendingWithdrawals(ctx context.Context) ([]WithdrawalDTO, error) {
	list, err := s.repos.Withdrawals().ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return withdrawalDTOs(list), nil
}

// PendingReps - представители, ожидающие одобрения.
func (s *StaffQueries) PendingReps(ctx context.Context) ([]RepDTO, error) {
	reps, err := s.repos.CompanyReps().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RepDTO, 0)
	for _, r := range reps {
		if r.IsPendingReview() {
			out = append(out, ToRepDTO(r))
		}
	}
	return out, nil
}
