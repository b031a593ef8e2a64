package domain

import "time"

// RoleRequestStatus enumerates the decision state of a role request.
type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestAccepted RoleRequestStatus = "accepted"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

// Decision is an admin verdict on a role request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Status maps a decision onto the resulting request status.
func (d Decision) Status() (RoleRequestStatus, bool) {
	switch d {
	case DecisionAccept:
		return RoleRequestAccepted, true
	case DecisionReject:
		return RoleRequestRejected, true
	}
	return "", false
}

// RoleRequest is a user's request to change their own role.
type RoleRequest struct {
	ID            string
	UserID        string
	RequestedRole Role
	Status        RoleRequestStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoleRequestWithUser joins a request with the requester's identity fields.
type RoleRequestWithUser struct {
	RoleRequest
	Email string
	Name  string
	Role  Role
}
