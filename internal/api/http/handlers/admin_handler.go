package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// AdminHandler serves dashboard metrics and role request management.
type AdminHandler struct {
	reports *service.ReportService
	roles   *service.RoleService
}

// NewAdminHandler returns handler.
func NewAdminHandler(reportService *service.ReportService, roleService *service.RoleService) *AdminHandler {
	return &AdminHandler{reports: reportService, roles: roleService}
}

// TicketCounts handles GET /admin/getTicketsCounts.
func (h *AdminHandler) TicketCounts(c *fiber.Ctx) error {
	counts, err := h.reports.CountByStatus(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, counts)
}

// TicketCountPerUser handles GET /admin/getTicketCountPerUser.
func (h *AdminHandler) TicketCountPerUser(c *fiber.Ctx) error {
	counts, err := h.reports.CountByAssignee(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, counts)
}

// TicketsFromLastHours handles POST /admin/getTicketsFromLastXHours.
func (h *AdminHandler) TicketsFromLastHours(c *fiber.Ctx) error {
	var req dto.RecentTicketsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Hours == 0 {
		req.Hours = service.DefaultRecentHours
	}

	recent, err := h.reports.CountRecent(c.UserContext(), req.Hours)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.RecentTicketsResponse{Count: recent.Count, Since: recent.Since})
}

// TicketCountsByInterval handles POST /admin/getTicketCountsByInterval.
func (h *AdminHandler) TicketCountsByInterval(c *fiber.Ctx) error {
	var req dto.IntervalCountsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Hours == 0 {
		req.Hours = service.DefaultIntervalHours
	}
	if req.Interval == 0 {
		req.Interval = service.DefaultIntervalMinutes
	}

	buckets, err := h.reports.CountByInterval(c.UserContext(), req.Hours, req.Interval)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewIntervalCountResponses(buckets))
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.reports.UsersWithTicketCounts(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserTicketCountResponses(users))
}

// SupportAgents handles GET /admin/supportAgents.
func (h *AdminHandler) SupportAgents(c *fiber.Ctx) error {
	agents, err := h.reports.SupportAgentWorkload(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAgentWorkloadResponses(agents))
}

// PendingRoleRequests handles GET /admin/roleRequests.
func (h *AdminHandler) PendingRoleRequests(c *fiber.Ctx) error {
	pending, err := h.roles.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewPendingRoleRequestResponses(pending))
}

// DecideRoleRequest handles POST /admin/roleRequests/:id/decision.
func (h *AdminHandler) DecideRoleRequest(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	request, err := h.roles.Decide(c.UserContext(), p, c.Params("id"), domain.Decision(req.Decision))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewRoleRequestResponse(request))
}
