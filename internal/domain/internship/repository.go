package internship

import (
	"context"
	"strings"
	"time"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения вакансий.
type Repository interface {
	// Save создаёт или полностью перезаписывает вакансию по ID.
	Save(ctx context.Context, i *Internship) error

	// GetByID возвращает вакансию по ID.
	// Возвращает shared.ErrInternshipNotFound, если вакансия не найдена.
	GetByID(ctx context.Context, id string) (*Internship, error)

	// Delete удаляет вакансию.
	Delete(ctx context.Context, id string) error

	// List возвращает вакансии, подходящие под фильтр, в порядке ID.
	List(ctx context.Context, filter Filter) ([]*Internship, error)

	// Count возвращает общее число вакансий.
	Count(ctx context.Context) (int, error)

	// CountActiveByCompany считает вакансии PENDING/APPROVED компании.
	CountActiveByCompany(ctx context.Context, companyName string) (int, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTER
// ══════════════════════════════════════════════════════════════════════════════

// Filter описывает критерии отбора. Пустые поля не ограничивают выборку.
// Строковые поля сравниваются без учёта регистра.
type Filter struct {
	Status      Status
	Statuses    []Status
	Major       string
	Level       Level
	CompanyName string
	VisibleOnly bool

	// ClosesBefore отбирает вакансии с CloseDate строго раньше указанной даты.
	ClosesBefore time.Time
}

// Matches проверяет вакансию по всем заданным критериям.
func (f Filter) Matches(i *Internship) bool {
	if i == nil {
		return false
	}
	if f.Status != "" && i.Status() != f.Status {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, i.Status()) {
		return false
	}
	if f.Major != "" && !shared.EqualFold(i.PreferredMajor, f.Major) {
		return false
	}
	if f.Level != "" && i.Level != f.Level {
		return false
	}
	if f.CompanyName != "" && !i.IsOwnedBy(f.CompanyName) {
		return false
	}
	if f.VisibleOnly && !i.Visible() {
		return false
	}
	if !f.ClosesBefore.IsZero() && !i.CloseDate.Before(shared.DateOf(f.ClosesBefore)) {
		return false
	}
	return true
}

// Apply возвращает подмножество вакансий, подходящих под фильтр.
func (f Filter) Apply(all []*Internship) []*Internship {
	out := make([]*Internship, 0, len(all))
	for _, i := range all {
		if f.Matches(i) {
			out = append(out, i)
		}
	}
	return out
}

// Normalized приводит строковые критерии к каноническому виду.
func (f Filter) Normalized() Filter {
	f.Major = strings.TrimSpace(f.Major)
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	return f
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
