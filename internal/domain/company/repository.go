package company

import "context"

// Repository определяет операции хранения представителей компаний.
type Repository interface {
	// Save создаёт или перезаписывает представителя по ID.
	Save(ctx context.Context, r *Rep) error

	// GetByID возвращает представителя по ID (e-mail в нижнем регистре).
	// Возвращает shared.ErrCompanyRepNotFound, если представитель не найден.
	GetByID(ctx context.Context, id string) (*Rep, error)

	// List возвращает всех представителей в порядке ID.
	List(ctx context.Context) ([]*Rep, error)

	// Count возвращает общее число представителей.
	Count(ctx context.Context) (int, error)
}
