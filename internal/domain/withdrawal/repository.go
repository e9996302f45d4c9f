package withdrawal

import "context"

// Repository определяет операции хранения запросов на отзыв.
type Repository interface {
	// Save создаёт или перезаписывает запрос по ID.
	Save(ctx context.Context, r *Request) error

	// GetByID возвращает запрос без присоединённой заявки.
	// Возвращает shared.ErrWithdrawalNotFound, если запрос не найден.
	GetByID(ctx context.Context, id string) (*Request, error)

	// List возвращает все запросы в порядке ID.
	List(ctx context.Context) ([]*Request, error)

	// ListByApplication возвращает запросы по заявке.
	ListByApplication(ctx context.Context, applicationID string) ([]*Request, error)

	// ListByStudent возвращает запросы студента.
	ListByStudent(ctx context.Context, studentID string) ([]*Request, error)

	// ListPending возвращает необработанные запросы.
	ListPending(ctx context.Context) ([]*Request, error)

	// Count возвращает общее число запросов.
	Count(ctx context.Context) (int, error)
}

// HasPending сообщает, есть ли среди запросов необработанный.
func HasPending(requests []*Request) bool {
	for _, r := range requests {
		if r != nil && r.IsPending() {
			return true
		}
	}
	return false
}
