// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Handlers emit them after a unit of work commits.
const (
	// Internship events
	EventInternshipCreated           EventType = "internship.created"
	EventInternshipEdited            EventType = "internship.edited"
	EventInternshipDeleted           EventType = "internship.deleted"
	EventInternshipApproved          EventType = "internship.approved"
	EventInternshipRejected          EventType = "internship.rejected"
	EventInternshipVisibilityChanged EventType = "internship.visibility_changed"
	EventInternshipClosed            EventType = "internship.closed"
	EventSlotsChanged                EventType = "internship.slots_changed"

	// Application events
	EventApplicationSubmitted     EventType = "application.submitted"
	EventApplicationStatusChanged EventType = "application.status_changed"
	EventOfferAccepted            EventType = "application.offer_accepted"

	// Withdrawal events
	EventWithdrawalRequested EventType = "withdrawal.requested"
	EventWithdrawalProcessed EventType = "withdrawal.processed"

	// Company representative events
	EventCompanyRepRegistered EventType = "company_rep.registered"
	EventCompanyRepReviewed   EventType = "company_rep.reviewed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Internship Events
// ═══════════════════════════════════════════════════════════════════════════

// InternshipEvent describes a lifecycle change of a posting.
type InternshipEvent struct {
	BaseEvent
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	Visible     bool   `json:"visible"`
	Actor       string `json:"actor,omitempty"`
}

// Payload implements Event interface.
func (e InternshipEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":        e.Title,
		"company_name": e.CompanyName,
		"status":       e.Status,
		"visible":      e.Visible,
		"actor":        e.Actor,
	}
}

// NewInternshipEvent creates a new InternshipEvent.
func NewInternshipEvent(eventType EventType, internshipID, title, company, status string, visible bool, actor string) InternshipEvent {
	return InternshipEvent{
		BaseEvent:   NewBaseEvent(eventType, internshipID),
		Title:       title,
		CompanyName: company,
		Status:      status,
		Visible:     visible,
		Actor:       actor,
	}
}

// SlotsChangedEvent is emitted whenever confirmed slots move.
type SlotsChangedEvent struct {
	BaseEvent
	ConfirmedSlots int    `json:"confirmed_slots"`
	MaxSlots       int    `json:"max_slots"`
	Status         string `json:"status"`
	Filled         bool   `json:"filled"`
	Reopened       bool   `json:"reopened"`
}

// Payload implements Event interface.
func (e SlotsChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"confirmed_slots": e.ConfirmedSlots,
		"max_slots":       e.MaxSlots,
		"status":          e.Status,
		"filled":          e.Filled,
		"reopened":        e.Reopened,
	}
}

// NewSlotsChangedEvent creates a new SlotsChangedEvent.
func NewSlotsChangedEvent(internshipID string, confirmed, max int, status string, filled, reopened bool) SlotsChangedEvent {
	return SlotsChangedEvent{
		BaseEvent:      NewBaseEvent(EventSlotsChanged, internshipID),
		ConfirmedSlots: confirmed,
		MaxSlots:       max,
		Status:         status,
		Filled:         filled,
		Reopened:       reopened,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Application Events
// ═══════════════════════════════════════════════════════════════════════════

// ApplicationEvent is emitted when an application is submitted or changes status.
type ApplicationEvent struct {
	BaseEvent
	StudentID    string `json:"student_id"`
	InternshipID string `json:"internship_id"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e ApplicationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":    e.StudentID,
		"internship_id": e.InternshipID,
		"status":        e.Status,
		"reason":        e.Reason,
	}
}

// NewApplicationEvent creates a new ApplicationEvent.
func NewApplicationEvent(eventType EventType, applicationID, studentID, internshipID, status, reason string) ApplicationEvent {
	return ApplicationEvent{
		BaseEvent:    NewBaseEvent(eventType, applicationID),
		StudentID:    studentID,
		InternshipID: internshipID,
		Status:       status,
		Reason:       reason,
	}
}

// OfferAcceptedEvent is emitted when a student confirms a placement.
type OfferAcceptedEvent struct {
	BaseEvent
	StudentID     string   `json:"student_id"`
	InternshipID  string   `json:"internship_id"`
	AutoWithdrawn []string `json:"auto_withdrawn"`
}

// Payload implements Event interface.
func (e OfferAcceptedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":     e.StudentID,
		"internship_id":  e.InternshipID,
		"auto_withdrawn": e.AutoWithdrawn,
	}
}

// NewOfferAcceptedEvent creates a new OfferAcceptedEvent.
func NewOfferAcceptedEvent(applicationID, studentID, internshipID string, autoWithdrawn []string) OfferAcceptedEvent {
	return OfferAcceptedEvent{
		BaseEvent:     NewBaseEvent(EventOfferAccepted, applicationID),
		StudentID:     studentID,
		InternshipID:  internshipID,
		AutoWithdrawn: autoWithdrawn,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Withdrawal Events
// ═══════════════════════════════════════════════════════════════════════════

// WithdrawalEvent is emitted when a request is filed or processed.
type WithdrawalEvent struct {
	BaseEvent
	ApplicationID string `json:"application_id"`
	StudentID     string `json:"student_id"`
	Status        string `json:"status"`
	ProcessedBy   string `json:"processed_by,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Payload implements Event interface.
func (e WithdrawalEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"application_id": e.ApplicationID,
		"student_id":     e.StudentID,
		"status":         e.Status,
		"processed_by":   e.ProcessedBy,
		"note":           e.Note,
	}
}

// NewWithdrawalEvent creates a new WithdrawalEvent.
func NewWithdrawalEvent(eventType EventType, requestID, applicationID, studentID, status, processedBy, note string) WithdrawalEvent {
	return WithdrawalEvent{
		BaseEvent:     NewBaseEvent(eventType, requestID),
		ApplicationID: applicationID,
		StudentID:     studentID,
		Status:        status,
		ProcessedBy:   processedBy,
		Note:          note,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Company Representative Events
// ═══════════════════════════════════════════════════════════════════════════

// CompanyRepEvent is emitted on registration and on staff review.
type CompanyRepEvent struct {
	BaseEvent
	CompanyName string `json:"company_name"`
	Approved    bool   `json:"approved"`
	Reason      string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e CompanyRepEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"company_name": e.CompanyName,
		"approved":     e.Approved,
		"reason":       e.Reason,
	}
}

// NewCompanyRepEvent creates a new CompanyRepEvent.
func NewCompanyRepEvent(eventType EventType, repID, company string, approved bool, reason string) CompanyRepEvent {
	return CompanyRepEvent{
		BaseEvent:   NewBaseEvent(eventType, repID),
		CompanyName: company,
		Approved:    approved,
		Reason:      reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope serializes an event payload into an envelope.
func NewEventEnvelope(id string, event Event) (EventEnvelope, error) {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return EventEnvelope{}, err
	}
	env := EventEnvelope{
		ID:          id,
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		Timestamp:   event.OccurredAt(),
		Version:     1,
		Payload:     payload,
	}
	if b, ok := event.(interface{ Correlation() string }); ok {
		env.CorrelationID = b.Correlation()
	}
	return env, nil
}

// Correlation returns the correlation id carried by the event.
func (e BaseEvent) Correlation() string {
	return e.CorrelationID
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
