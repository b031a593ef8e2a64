package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	auth  *service.AuthService
}

func newTestEnv(t *testing.T, limiter *ClientLimiter) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics("helpdesk_test")
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	hub := notify.NewHub(4, logger)
	service.NewNotificationService(dispatcher, hub, logger).RegisterHandlers()

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "router-secret", BcryptCost: 4},
		service.AuthDependencies{UserRepo: store.Users(), Logger: logger})
	roleService := service.NewRoleService(service.RoleDependencies{
		UserRepo:        store.Users(),
		RoleRequestRepo: store.RoleRequests(),
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  store.Tickets(),
		TagRepo:     store.Tags(),
		CommentRepo: store.Comments(),
		HistoryRepo: store.History(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := NewApp(config.AppConfig{Name: "helpdesk", RequestTimeoutSeconds: 5, CORSOrigins: "*"}, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("helpdesk", "test", nil, nil),
		Users:       handlers.NewUsersHandler(authService, roleService),
		Tickets:     handlers.NewTicketsHandler(ticketService),
		Tags:        handlers.NewTagsHandler(service.NewTagService(store.Tags())),
		Admin:       handlers.NewAdminHandler(service.NewReportService(store.Reports(), logger), roleService),
		Gate:        auth.NewGate(authService.TokenManager()),
		AuthLimiter: limiter,
		Metrics:     metrics,
	})

	_, err := authService.BootstrapAdmin(context.Background(), "root@x.com", "rootpass", "RootAdmin")
	require.NoError(t, err)
	return &testEnv{app: app, store: store, auth: authService}
}

type response struct {
	status int
	body   map[string]any
	raw    []byte
}

func (r response) data() map[string]any {
	d, _ := r.body["data"].(map[string]any)
	return d
}

func (r response) errorCode() string {
	e, _ := r.body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/users/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.status, string(resp.raw))
	token, _ := resp.data()["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// account registers a user, grants role and returns the id with a fresh token.
func (e *testEnv) account(t *testing.T, email string, role domain.Role) (string, string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/users/register", "", fiber.Map{"email": email, "password": "secret1", "name": email})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.raw))
	id := resp.data()["id"].(string)
	if role != domain.RoleUser {
		require.NoError(t, e.store.SetRole(id, role))
	}
	return id, e.login(t, email, "secret1")
}

func TestRegisterAndLoginScenario(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/users/register", "", fiber.Map{"email": "a@x.com", "password": "secret1", "name": "A"})
	require.Equal(t, http.StatusCreated, resp.status)
	assert.Equal(t, "user", resp.data()["role"])
	assert.NotContains(t, string(resp.raw), "password")

	token := env.login(t, "a@x.com", "secret1")
	assert.NotEmpty(t, token)

	resp = env.do(t, http.MethodPost, "/users/login", "", fiber.Map{"email": "a@x.com", "password": "wrong1"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.errorCode())

	resp = env.do(t, http.MethodPost, "/users/register", "", fiber.Map{"email": "a@x.com", "password": "secret1", "name": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "CONFLICT", resp.errorCode())

	resp = env.do(t, http.MethodPost, "/users/register", "", fiber.Map{"email": "long@x.com", "password": strings.Repeat("a", 80), "name": "L"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "VALIDATION_FAILED", resp.errorCode())

	resp = env.do(t, http.MethodPost, "/users/register", "", fiber.Map{"email": "bad", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	fields := resp.body["error"].(map[string]any)["fields"].([]any)
	assert.Len(t, fields, 3)

	resp = env.do(t, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "a@x.com", resp.data()["email"])
}

func TestGateResponses(t *testing.T) {
	env := newTestEnv(t, nil)
	_, userToken := env.account(t, "u@x.com", domain.RoleUser)

	resp := env.do(t, http.MethodPost, "/users/createTicket", "", fiber.Map{"title": "Cannot log in"})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodPost, "/users/createTicket", "garbage", fiber.Map{"title": "Cannot log in"})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodGet, "/admin/getTicketsCounts", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = env.do(t, http.MethodGet, "/admin/getTicketsCounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "NOT_FOUND", resp.errorCode())
}

func TestTicketLifecycleScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	adminToken := env.login(t, "root@x.com", "rootpass")
	ownerID, ownerToken := env.account(t, "owner@x.com", domain.RoleUser)
	_, strangerToken := env.account(t, "stranger@x.com", domain.RoleUser)
	agentA, agentAToken := env.account(t, "a@agents.com", domain.RoleSupport)
	_, agentBToken := env.account(t, "b@agents.com", domain.RoleSupport)

	resp := env.do(t, http.MethodPost, "/users/createTagCategory", ownerToken, fiber.Map{"categoryName": "bug"})
	assert.Equal(t, http.StatusForbidden, resp.status)
	resp = env.do(t, http.MethodPost, "/users/createTagCategory", adminToken, fiber.Map{"categoryName": "bug"})
	require.Equal(t, http.StatusCreated, resp.status)
	resp = env.do(t, http.MethodPost, "/users/createTagCategory", adminToken, fiber.Map{"categoryName": "bug"})
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodPost, "/users/createTicket", ownerToken, fiber.Map{"title": "Cannot log in", "tag": []string{"bug", "ghost"}})
	require.Equal(t, http.StatusBadRequest, resp.status)
	details := resp.body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, []any{"ghost"}, details["invalidTags"])

	resp = env.do(t, http.MethodPost, "/users/createTicket", ownerToken, fiber.Map{"title": "Cannot log in", "tag": []string{"bug"}})
	require.Equal(t, http.StatusCreated, resp.status)
	ticket := resp.data()
	ticketID := ticket["id"].(string)
	assert.Equal(t, "open", ticket["status"])
	assert.Nil(t, ticket["assignTo"])
	assert.Equal(t, ownerID, ticket["createdBy"])

	resp = env.do(t, http.MethodPost, "/users/assignTicket/"+ticketID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = env.do(t, http.MethodPost, "/users/assignTicket/"+ticketID, agentAToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, agentA, resp.data()["assignTo"])

	resp = env.do(t, http.MethodPost, "/users/assignTicket/"+ticketID, agentBToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "CONFLICT", resp.errorCode())

	resp = env.do(t, http.MethodGet, "/users/tickets/"+ticketID, "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, agentA, resp.data()["assignTo"])

	resp = env.do(t, http.MethodPost, "/users/assignTicket/does-not-exist", agentBToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodPost, "/users/updateTicketStatus", strangerToken, fiber.Map{"ticketId": ticketID, "status": "closed"})
	assert.Equal(t, http.StatusForbidden, resp.status)
	resp = env.do(t, http.MethodPost, "/users/updateTicketStatus", ownerToken, fiber.Map{"ticketId": "does-not-exist", "status": "closed"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	resp = env.do(t, http.MethodPost, "/users/updateTicketStatus", ownerToken, fiber.Map{"ticketId": ticketID, "status": "resolved"})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "resolved", resp.data()["status"])

	resp = env.do(t, http.MethodPost, "/users/tickets/"+ticketID+"/vote", strangerToken, fiber.Map{"direction": "up"})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, map[string]any{"up": float64(1), "down": float64(0)}, resp.data()["vote"])

	resp = env.do(t, http.MethodPost, "/users/tickets/"+ticketID+"/comments", strangerToken, fiber.Map{"comment": "same here"})
	require.Equal(t, http.StatusCreated, resp.status)
	resp = env.do(t, http.MethodGet, "/users/tickets/"+ticketID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.body["data"], 1)

	resp = env.do(t, http.MethodGet, "/users/tickets/"+ticketID+"/history", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)
	resp = env.do(t, http.MethodGet, "/users/tickets/"+ticketID+"/history", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.body["data"], 2)

	first := env.do(t, http.MethodGet, "/users/getAllTickets", "", nil)
	second := env.do(t, http.MethodGet, "/users/getAllTickets", "", nil)
	require.Equal(t, http.StatusOK, first.status)
	assert.Equal(t, first.raw, second.raw)
	assert.Len(t, first.body["data"], 1)

	resp = env.do(t, http.MethodGet, "/admin/getTicketsCounts", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.data()["resolved"])
	assert.Equal(t, float64(0), resp.data()["open"])

	resp = env.do(t, http.MethodGet, "/admin/getTicketCountPerUser", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.data()["a@agents.com"])

	resp = env.do(t, http.MethodPost, "/admin/getTicketsFromLastXHours", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.data()["count"])

	resp = env.do(t, http.MethodPost, "/admin/getTicketCountsByInterval", adminToken, fiber.Map{"hours": 2, "interval": 30})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.body["data"], 1)

	resp = env.do(t, http.MethodGet, "/admin/supportAgents", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.body["data"], 2)

	resp = env.do(t, http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.body["data"], 5)
}

func TestRoleRequestScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	adminToken := env.login(t, "root@x.com", "rootpass")
	userID, userToken := env.account(t, "u@x.com", domain.RoleUser)
	_, agentToken := env.account(t, "agent@x.com", domain.RoleSupport)

	resp := env.do(t, http.MethodPost, "/users/changerole", agentToken, fiber.Map{"requestedRole": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = env.do(t, http.MethodPost, "/users/changerole", userToken, fiber.Map{"requestedRole": "support"})
	require.Equal(t, http.StatusCreated, resp.status)
	requestID := resp.data()["id"].(string)
	assert.Equal(t, "pending", resp.data()["status"])

	resp = env.do(t, http.MethodPost, "/users/changerole", userToken, fiber.Map{"requestedRole": "support"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "CONFLICT", resp.errorCode())

	resp = env.do(t, http.MethodGet, "/admin/roleRequests", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.status)
	pending := resp.body["data"].([]any)
	require.Len(t, pending, 1)
	assert.Equal(t, "u@x.com", pending[0].(map[string]any)["email"])

	resp = env.do(t, http.MethodPost, "/admin/roleRequests/"+requestID+"/decision", adminToken, fiber.Map{"decision": "maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPost, "/admin/roleRequests/abc/decision", adminToken, fiber.Map{"decision": "accept"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "NOT_FOUND", resp.errorCode())

	resp = env.do(t, http.MethodPost, "/admin/roleRequests/"+requestID+"/decision", adminToken, fiber.Map{"decision": "accept"})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "accepted", resp.data()["status"])

	resp = env.do(t, http.MethodPost, "/admin/roleRequests/"+requestID+"/decision", adminToken, fiber.Map{"decision": "reject"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	user, err := env.store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupport, user.Role)

	fresh := env.login(t, "u@x.com", "secret1")
	principal, err := env.auth.TokenManager().ParseToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupport, principal.Role)
}

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnv(t, NewClientLimiter(config.RateLimitConfig{AuthPerMinute: 1, AuthBurst: 2}))
	body := fiber.Map{"email": "nobody@x.com", "password": "whatever"}

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/users/login", "", body).status)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/users/login", "", body).status)
	resp := env.do(t, http.MethodPost, "/users/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.status)
	assert.Equal(t, "RATE_LIMITED", resp.errorCode())
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)

	resp = env.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "disabled", resp.body["dependencies"].(map[string]any)["postgres"])

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, string(resp.raw), "helpdesk_test_http_requests_total")
}
