// Package eventhandler содержит обработчики доменных событий.
// Обработчики реагируют на уже зафиксированные изменения и не влияют
// на результат команды.
package eventhandler

import (
	"sort"
	"sync"

	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// AUDIT LOG
// Пишет каждое доменное событие в структурированный лог и ведёт счётчики
// по типам событий.
// ═══════════════════════════════════════════════════════════════════════════

// AuditLog записывает события в журнал.
type AuditLog struct {
	log *logger.Logger

	mu     sync.Mutex
	counts map[shared.EventType]int
}

// NewAuditLog создаёт обработчик.
func NewAuditLog(log *logger.Logger) *AuditLog {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditLog{
		log:    log.With(logger.Component("audit")),
		counts: make(map[shared.EventType]int),
	}
}

// Register подписывает журнал на все события шины.
func (a *AuditLog) Register(bus shared.EventSubscriber) error {
	return bus.SubscribeAll(a.Handle)
}

// Handle реализует shared.EventHandler.
func (a *AuditLog) Handle(event shared.Event) error {
	a.mu.Lock()
	a.counts[event.EventType()]++
	a.mu.Unlock()

	fields := []logger.Field{
		logger.String("event_type", string(event.EventType())),
		logger.String("aggregate_id", event.AggregateID()),
		logger.Time("occurred_at", event.OccurredAt()),
	}
	payload := event.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, logger.Any(k, payload[k]))
	}

	// Заполнение вакансии - заметное событие для центра карьеры.
	if e, ok := event.(shared.SlotsChangedEvent); ok && e.Filled {
		a.log.Info("internship filled", fields...)
		return nil
	}
	a.log.Info("domain event", fields...)
	return nil
}

// Count возвращает число обработанных событий данного типа.
func (a *AuditLog) Count(eventType shared.EventType) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[eventType]
}
