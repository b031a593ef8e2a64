package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventRoleRequestCreated  EventType = "role_request_created"
	EventRoleRequestDecided  EventType = "role_request_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subjectId"`
	ActorID   string      `json:"actorId"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assigneeId"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"oldStatus"`
	NewStatus domain.TicketStatus `json:"newStatus"`
}

// RoleRequestCreatedPayload carries what an admin needs to act on a request.
type RoleRequestCreatedPayload struct {
	UserID        string      `json:"userId"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	CurrentRole   domain.Role `json:"currentRole"`
	RequestedRole domain.Role `json:"requestedRole"`
}

// RoleRequestDecidedPayload payload.
type RoleRequestDecidedPayload struct {
	UserID        string                   `json:"userId"`
	RequestedRole domain.Role              `json:"requestedRole"`
	Status        domain.RoleRequestStatus `json:"status"`
}
