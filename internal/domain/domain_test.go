package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   TicketStatus
		wantOK bool
	}{
		{"open", TicketStatusOpen, true},
		{"Resolved", TicketStatusResolved, true},
		{" in progress ", TicketStatusInProgress, true},
		{"IN-PROGRESS", TicketStatusInProgress, true},
		{"closed", TicketStatusClosed, true},
		{"cancelled", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTicketStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("Support")
	assert.True(t, ok)
	assert.Equal(t, RoleSupport, r)

	_, ok = ParseRole("moderator")
	assert.False(t, ok)
}

func TestDecisionStatus(t *testing.T) {
	s, ok := DecisionAccept.Status()
	assert.True(t, ok)
	assert.Equal(t, RoleRequestAccepted, s)

	s, ok = DecisionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, RoleRequestRejected, s)

	_, ok = Decision("maybe").Status()
	assert.False(t, ok)
}

func TestPrincipalHasRole(t *testing.T) {
	p := Principal{UserID: "u1", Role: RoleSupport}
	assert.True(t, p.HasRole(RoleSupport, RoleAdmin))
	assert.False(t, p.HasRole(RoleAdmin))
}

func TestTicketIsAssigned(t *testing.T) {
	ticket := &Ticket{}
	assert.False(t, ticket.IsAssigned())
	agent := "agent-1"
	ticket.AssigneeID = &agent
	assert.True(t, ticket.IsAssigned())
}
