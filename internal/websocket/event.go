package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the action part of an event name
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeRecorded EventType = "recorded"
	EventTypePaid     EventType = "paid"
)

// EntityType is the subject part of an event name
type EntityType string

const (
	EntityTypeLoan          EntityType = "loan"
	EntityTypeLoanRepayment EntityType = "loan_repayment"
	EntityTypeContribution  EntityType = "contribution"
	EntityTypeSettings      EntityType = "settings"
	EntityTypeMember        EntityType = "member"
)

// Event is the message pushed to clients of a group.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // e.g. "loan_repayment.recorded"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanPaid creates a loan.paid event, sent once when a loan is fully repaid
func LoanPaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeLoan, payload)
}

// LoanRepaymentRecorded creates a loan_repayment.recorded event
func LoanRepaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypeLoanRepayment, payload)
}

// ContributionRecorded creates a contribution.recorded event
func ContributionRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypeContribution, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

// MemberUpdated creates a member.updated event
func MemberUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMember, payload)
}
