package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Tickets       *handlers.TicketsHandler
	Tags          *handlers.TagsHandler
	Admin         *handlers.AdminHandler
	Notifications *handlers.NotificationsHandler
	Gate          *auth.Gate
	AuthLimiter   *ClientLimiter
	Metrics       *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authed := cfg.Gate.Handle
	limited := cfg.AuthLimiter.Handler()

	users := app.Group("/users")
	users.Post("/register", limited, cfg.Users.Register)
	users.Post("/login", limited, cfg.Users.Login)
	users.Get("/profile", authed, cfg.Users.Profile)
	users.Put("/profile", authed, cfg.Users.UpdateProfile)
	users.Post("/changePassword", authed, cfg.Users.ChangePassword)
	users.Post("/changerole", authed, auth.RequireRole(domain.RoleUser), cfg.Users.ChangeRole)

	users.Get("/getAllTickets", cfg.Tickets.ListAll)
	users.Post("/createTicket", authed, cfg.Tickets.Create)
	users.Post("/assignTicket/:id", authed, auth.RequireRole(domain.RoleSupport), cfg.Tickets.Assign)
	users.Post("/updateTicketStatus", authed, cfg.Tickets.UpdateStatus)
	users.Get("/tickets/:id", cfg.Tickets.Get)
	users.Post("/tickets/:id/vote", authed, cfg.Tickets.Vote)
	users.Get("/tickets/:id/comments", cfg.Tickets.ListComments)
	users.Post("/tickets/:id/comments", authed, cfg.Tickets.AddComment)
	users.Get("/tickets/:id/history", authed, cfg.Tickets.History)

	users.Get("/getAllTags", cfg.Tags.List)
	users.Post("/createTagCategory", authed, auth.RequireAdmin(), cfg.Tags.Create)

	admin := app.Group("/admin", authed, auth.RequireAdmin())
	admin.Get("/getTicketsCounts", cfg.Admin.TicketCounts)
	admin.Get("/getTicketCountPerUser", cfg.Admin.TicketCountPerUser)
	admin.Post("/getTicketsFromLastXHours", cfg.Admin.TicketsFromLastHours)
	admin.Post("/getTicketCountsByInterval", cfg.Admin.TicketCountsByInterval)
	admin.Get("/users", cfg.Admin.Users)
	admin.Get("/supportAgents", cfg.Admin.SupportAgents)
	admin.Get("/roleRequests", cfg.Admin.PendingRoleRequests)
	admin.Post("/roleRequests/:id/decision", cfg.Admin.DecideRoleRequest)
	if cfg.Notifications != nil {
		admin.Get("/notifications", cfg.Notifications.Stream)
	}
}
