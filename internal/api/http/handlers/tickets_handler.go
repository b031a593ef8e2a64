package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// TicketsHandler exposes ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler returns handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /users/createTicket.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.UserContext(), p, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tag,
		Attachment:  req.Attachment,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewTicketResponse(ticket))
}

// Assign handles POST /users/assignTicket/:id.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Assign(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTicketResponse(ticket))
}

// UpdateStatus handles POST /users/updateTicketStatus.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), p, req.TicketID, req.Status)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTicketResponse(ticket))
}

// ListAll handles GET /users/getAllTickets.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTicketResponses(tickets))
}

// Get handles GET /users/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTicketResponse(ticket))
}

// Vote handles POST /users/tickets/:id/vote.
func (h *TicketsHandler) Vote(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.VoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.tickets.Vote(c.UserContext(), p, c.Params("id"), domain.VoteDirection(req.Direction))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTicketResponse(ticket))
}

// AddComment handles POST /users/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.tickets.AddComment(c.UserContext(), p, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewCommentResponse(comment))
}

// ListComments handles GET /users/tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.tickets.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCommentResponses(comments))
}

// History handles GET /users/tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	history, err := h.tickets.ListHistory(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewHistoryResponses(history))
}
