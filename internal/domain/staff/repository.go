package staff

import "context"

// Repository определяет операции хранения сотрудников.
type Repository interface {
	// Save создаёт или перезаписывает сотрудника по ID.
	Save(ctx context.Context, s *Staff) error

	// GetByID возвращает сотрудника по ID.
	// Возвращает shared.ErrStaffNotFound, если сотрудник не найден.
	GetByID(ctx context.Context, id string) (*Staff, error)

	// List возвращает всех сотрудников в порядке ID.
	List(ctx context.Context) ([]*Staff, error)
}
