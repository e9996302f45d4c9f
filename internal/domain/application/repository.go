package application

import (
	"context"

	"github.com/careerhub/placement-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения заявок.
type Repository interface {
	// Save создаёт или перезаписывает заявку по ID.
	Save(ctx context.Context, a *Application) error

	// GetByID возвращает заявку без присоединённой вакансии.
	// Возвращает shared.ErrApplicationNotFound, если заявка не найдена.
	GetByID(ctx context.Context, id string) (*Application, error)

	// List возвращает все заявки в порядке ID.
	List(ctx context.Context) ([]*Application, error)

	// ListByStudent возвращает заявки студента.
	ListByStudent(ctx context.Context, studentID string) ([]*Application, error)

	// ListByInternship возвращает заявки на вакансию.
	ListByInternship(ctx context.Context, internshipID string) ([]*Application, error)

	// ExistsByStudentAndInternship проверяет повторную подачу.
	ExistsByStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error)

	// StatsForStudent строит снимок для student.AppReadPort.
	StatsForStudent(ctx context.Context, studentID string) (student.PlacementStats, error)

	// Count возвращает общее число заявок.
	Count(ctx context.Context) (int, error)
}

// ComputeStats считает активные заявки и подтверждённое место студента.
func ComputeStats(studentID string, apps []*Application) student.PlacementStats {
	stats := student.PlacementStats{StudentID: studentID}
	for _, a := range apps {
		if a == nil || a.StudentID != studentID {
			continue
		}
		if a.IsActiveTowardCap() {
			stats.Active++
		}
		if a.IsConfirmedPlacement() {
			stats.Confirmed = true
		}
	}
	return stats
}

// Index - индекс заявок в памяти; реализует student.AppReadPort напрямую.
type Index []*Application

// CountActiveApplications implements student.AppReadPort.
func (idx Index) CountActiveApplications(studentID string) int {
	return ComputeStats(studentID, idx).Active
}

// HasConfirmedPlacement implements student.AppReadPort.
func (idx Index) HasConfirmedPlacement(studentID string) bool {
	return ComputeStats(studentID, idx).Confirmed
}
