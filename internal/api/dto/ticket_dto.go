package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Tag         []string `json:"tag"`
	Attachment  string   `json:"attachment" validate:"omitempty,url"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	TicketID string `json:"ticketId" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

// VoteRequest payload.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// CommentRequest payload.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=5000"`
}

// VoteResponse holds the tally.
type VoteResponse struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tag         []string     `json:"tag"`
	CreatedBy   string       `json:"createdBy"`
	AssignTo    *string      `json:"assignTo"`
	Attachment  string       `json:"attachment,omitempty"`
	Status      string       `json:"status"`
	Vote        VoteResponse `json:"vote"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CommentResponse view.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	AuthorID  string    `json:"authorId"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryResponse view.
type HistoryResponse struct {
	ID          string         `json:"id"`
	ChangedByID string         `json:"changedById"`
	ChangeType  string         `json:"changeType"`
	OldValue    map[string]any `json:"oldValue"`
	NewValue    map[string]any `json:"newValue"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Tag:         tags,
		CreatedBy:   ticket.CreatedBy,
		AssignTo:    ticket.AssigneeID,
		Attachment:  ticket.Attachment,
		Status:      string(ticket.Status),
		Vote:        VoteResponse{Up: ticket.Vote.Up, Down: ticket.Vote.Down},
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a list, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewCommentResponses maps a thread.
func NewCommentResponses(comments []domain.TicketComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResponse(&c))
	}
	return out
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Comment:   c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// NewHistoryResponses maps audit entries.
func NewHistoryResponses(entries []domain.TicketHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			ID:          e.ID,
			ChangedByID: e.ChangedByID,
			ChangeType:  string(e.ChangeType),
			OldValue:    e.OldValue,
			NewValue:    e.NewValue,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
