package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// ParseTicketStatus accepts any casing, and "in progress" / "in-progress" spellings.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, status := range TicketStatuses {
		if string(status) == normalized {
			return status, true
		}
	}
	return "", false
}

// VoteDirection is the kind of vote cast on a ticket.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is up or down.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// VoteTally holds two independent non-negative counters.
type VoteTally struct {
	Up   int
	Down int
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	CreatedBy   string
	AssigneeID  *string
	Attachment  string
	Status      TicketStatus
	Vote        VoteTally
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssigned reports whether the ticket already has an assignee.
func (t *Ticket) IsAssigned() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}
