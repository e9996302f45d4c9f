package query

import (
	"context"
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/application"
	"github.com/careerhub/placement-hub/internal/domain/internship"
	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABLE INTERNSHIPS
// Вакансии, на которые студент может подать заявку сегодня.
// ══════════════════════════════════════════════════════════════════════════════

// AvailableInternshipsQuery содержит параметры запроса.
type AvailableInternshipsQuery struct {
	StudentID string

	// Необязательные фильтры, без учёта регистра.
	Major       string
	Level       string
	CompanyName string
}

// AvailableInternshipsResult - результат запроса.
type AvailableInternshipsResult struct {
	Internships []InternshipDTO `json:"internships"`

	// ActiveApplications и CanApply помогают интерфейсу объяснить отказ.
	ActiveApplications int  `json:"active_applications"`
	HasPlacement       bool `json:"has_placement"`
	CanApply           bool `json:"can_apply"`
}

// AvailableInternshipsHandler обрабатывает AvailableInternshipsQuery.
type AvailableInternshipsHandler struct {
	repos placement.Repositories
	clock placement.Clock
}

// NewAvailableInternshipsHandler создаёт обработчик.
func NewAvailableInternshipsHandler(repos placement.Repositories, clock placement.Clock) *AvailableInternshipsHandler {
	return &AvailableInternshipsHandler{repos: repos, clock: clockOrNow(clock)}
}

// Handle выполняет запрос.
func (h *AvailableInternshipsHandler) Handle(ctx context.Context, q AvailableInternshipsQuery) (*AvailableInternshipsResult, error) {
	s, err := h.repos.Students().GetByID(ctx, strings.TrimSpace(q.StudentID))
	if err != nil {
		return nil, err
	}
	filter := internship.Filter{Major: q.Major, CompanyName: q.CompanyName}
	if q.Level != "" {
		level, err := internship.ParseLevel(q.Level)
		if err != nil {
			return nil, err
		}
		filter.Level = level
	}

	all, err := h.repos.Internships().List(ctx, internship.Filter{VisibleOnly: true})
	if err != nil {
		return nil, err
	}
	stats, err := h.repos.Applications().StatsForStudent(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	open := s.FilterEligibleVisibleOpen(all, h.clock.Today())
	open = filter.Normalized().Apply(open)

	return &AvailableInternshipsResult{
		Internships:        internshipDTOs(open),
		ActiveApplications: s.ActiveApplicationsCount(stats),
		HasPlacement:       s.HasConfirmedPlacement(stats),
		CanApply:           s.CanStartAnotherApplication(stats) && !s.HasConfirmedPlacement(stats),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MY APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

// MyApplicationsQuery - заявки студента вместе с вакансиями.
type MyApplicationsQuery struct {
	StudentID string
}

// MyApplicationsResult - результат запроса.
type MyApplicationsResult struct {
	Applications []ApplicationDTO      `json:"applications"`
	Withdrawals  []WithdrawalDTO       `json:"withdrawals"`
	Stats        student.PlacementStats `json:"stats"`
}

// MyApplicationsHandler обрабатывает MyApplicationsQuery.
type MyApplicationsHandler struct {
	repos placement.Repositories
}

// NewMyApplicationsHandler создаёт обработчик.
func NewMyApplicationsHandler(repos placement.Repositories) *MyApplicationsHandler {
	return &MyApplicationsHandler{repos: repos}
}

// Handle выполняет запрос. Удалённые вакансии не ломают выдачу:
// такая заявка возвращается без вложенной вакансии.
func (h *MyApplicationsHandler) Handle(ctx context.Context, q MyApplicationsQuery) (*MyApplicationsResult, error) {
	s, err := h.repos.Students().GetByID(ctx, strings.TrimSpace(q.StudentID))
	if err != nil {
		return nil, err
	}
	apps, err := h.repos.Applications().ListByStudent(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if err := attachInternships(ctx, h.repos, apps); err != nil {
		return nil, err
	}
	requests, err := h.repos.Withdrawals().ListByStudent(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ApplicationDTO, 0, len(apps))
	for _, a := range apps {
		dtos = append(dtos, ToApplicationDTO(a))
	}
	return &MyApplicationsResult{
		Applications: dtos,
		Withdrawals:  withdrawalDTOs(requests),
		Stats:        application.ComputeStats(s.ID, apps),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func attachInternships(ctx context.Context, repos placement.Repositories, apps []*application.Application) error {
	cache := make(map[string]*internship.Internship)
	for _, a := range apps {
		i, ok := cache[a.InternshipID()]
		if !ok {
			var err error
			i, err = repos.Internships().GetByID(ctx, a.InternshipID())
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			cache[a.InternshipID()] = i
		}
		if i != nil {
			if err := a.AttachInternship(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func clockOrNow(c placement.Clock) placement.Clock {
	if c != nil {
		return c
	}
	return placement.ClockFunc(func() time.Time { return shared.DateOf(time.Now()) })
}
