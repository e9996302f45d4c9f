package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения студентов.
type Repository interface {
	// Save создаёт или перезаписывает студента по ID.
	Save(ctx context.Context, s *Student) error

	// GetByID возвращает студента по ID.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// List возвращает всех студентов в порядке ID.
	List(ctx context.Context) ([]*Student, error)

	// Count возвращает общее число студентов.
	Count(ctx context.Context) (int, error)
}
