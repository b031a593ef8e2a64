package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTagRequest payload.
type CreateTagRequest struct {
	CategoryName string `json:"categoryName" validate:"required,max=64"`
}

// TagResponse view.
type TagResponse struct {
	ID           string    `json:"id"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecentTicketsRequest asks for the tickets of the last Hours. Zero means the default.
type RecentTicketsRequest struct {
	Hours int `json:"hours" validate:"gte=0"`
}

// IntervalCountsRequest asks for Interval-minute buckets over the last Hours.
type IntervalCountsRequest struct {
	Hours    int `json:"hours" validate:"gte=0"`
	Interval int `json:"interval" validate:"gte=0"`
}

// RecentTicketsResponse view.
type RecentTicketsResponse struct {
	Count int       `json:"count"`
	Since time.Time `json:"since"`
}

// IntervalCountResponse is one bucket.
type IntervalCountResponse struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// UserTicketCountResponse view.
type UserTicketCountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	TicketCount int       `json:"ticketCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AgentWorkloadResponse view.
type AgentWorkloadResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Open       int    `json:"open"`
	InProgress int    `json:"inProgress"`
	Resolved   int    `json:"resolved"`
	Closed     int    `json:"closed"`
}

// DecisionRequest payload.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

// RoleRequestResponse view.
type RoleRequestResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	RequestedRole string    `json:"requestedRole"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PendingRoleRequestResponse adds the requester's identity.
type PendingRoleRequestResponse struct {
	RoleRequestResponse
	Email       string `json:"email"`
	Name        string `json:"name"`
	CurrentRole string `json:"currentRole"`
}

// NewTagResponses maps the catalog.
func NewTagResponses(tags []domain.TagCategory) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTagResponse(&t))
	}
	return out
}

// NewTagResponse maps a tag.
func NewTagResponse(tag *domain.TagCategory) TagResponse {
	return TagResponse{ID: tag.ID, CategoryName: tag.Name, CreatedAt: tag.CreatedAt}
}

// NewRoleRequestResponse maps a request.
func NewRoleRequestResponse(r *domain.RoleRequest) RoleRequestResponse {
	return RoleRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		RequestedRole: string(r.RequestedRole),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// NewPendingRoleRequestResponses maps the pending queue.
func NewPendingRoleRequestResponses(pending []domain.RoleRequestWithUser) []PendingRoleRequestResponse {
	out := make([]PendingRoleRequestResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingRoleRequestResponse{
			RoleRequestResponse: NewRoleRequestResponse(&p.RoleRequest),
			Email:               p.Email,
			Name:                p.Name,
			CurrentRole:         string(p.Role),
		})
	}
	return out
}

// NewIntervalCountResponses maps buckets.
func NewIntervalCountResponses(buckets []domain.IntervalCount) []IntervalCountResponse {
	out := make([]IntervalCountResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, IntervalCountResponse{Start: b.Start, Count: b.Count})
	}
	return out
}

// NewUserTicketCountResponses maps the user report.
func NewUserTicketCountResponses(users []domain.UserTicketCount) []UserTicketCountResponse {
	out := make([]UserTicketCountResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserTicketCountResponse{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Role:        string(u.Role),
			TicketCount: u.TicketCount,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}

// NewAgentWorkloadResponses maps the agent report.
func NewAgentWorkloadResponses(agents []domain.AgentWorkload) []AgentWorkloadResponse {
	out := make([]AgentWorkloadResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentWorkloadResponse{
			ID:         a.ID,
			Email:      a.Email,
			Name:       a.Name,
			Open:       a.Open,
			InProgress: a.InProgress,
			Resolved:   a.Resolved,
			Closed:     a.Closed,
		})
	}
	return out
}
