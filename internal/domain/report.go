package domain

import "time"

// UnassignedBucket is the key used for tickets without an assignee.
const UnassignedBucket = "Unassigned"

// IntervalCount is the number of tickets created in [Start, Start+interval).
type IntervalCount struct {
	Start time.Time
	Count int
}

// UserTicketCount pairs a user with the number of tickets they created.
type UserTicketCount struct {
	ID          string
	Email       string
	Name        string
	Role        Role
	TicketCount int
	CreatedAt   time.Time
}

// AgentWorkload summarizes the tickets assigned to a support agent.
type AgentWorkload struct {
	ID         string
	Email      string
	Name       string
	Open       int
	InProgress int
	Resolved   int
	Closed     int
}
