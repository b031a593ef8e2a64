package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// RoleService handles role elevation requests.
type RoleService struct {
	users      repository.UserRepository
	requests   repository.RoleRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RoleDependencies bundles repositories.
type RoleDependencies struct {
	UserRepo        repository.UserRepository
	RoleRequestRepo repository.RoleRequestRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewRoleService creates the service.
func NewRoleService(deps RoleDependencies) *RoleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		users:      deps.UserRepo,
		requests:   deps.RoleRequestRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Request files a pending role change for actor. Only accounts with role user
// may ask, and each may hold one pending request at a time.
func (s *RoleService) Request(ctx context.Context, actor domain.Principal, rawRole string) (*domain.RoleRequest, error) {
	if actor.Role != domain.RoleUser {
		return nil, apperrors.NewForbidden("only users can request a role change")
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, apperrors.NewValidationError("invalid role request", apperrors.FieldError{
			Field:   "requestedRole",
			Message: "requestedRole must be one of user, support, admin",
		})
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"userId": actor.UserID})
	}

	request := &domain.RoleRequest{UserID: actor.UserID, RequestedRole: role}
	if err := s.requests.CreatePending(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("a role request is already pending", map[string]any{"userId": actor.UserID})
		}
		return nil, notFoundOr(err, "user", map[string]any{"userId": actor.UserID})
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventRoleRequestCreated, request.ID, actor.UserID,
		events.RoleRequestCreatedPayload{
			UserID:        user.ID,
			Email:         user.Email,
			Name:          user.Name,
			CurrentRole:   user.Role,
			RequestedRole: role,
		}))
	return request, nil
}

// Decide accepts or rejects a pending request. Accepting grants the requested
// role. Requests that were already decided cannot be decided again.
func (s *RoleService) Decide(ctx context.Context, actor domain.Principal, requestID string, decision domain.Decision) (*domain.RoleRequest, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	status, ok := decision.Status()
	if !ok {
		return nil, apperrors.NewValidationError("invalid decision", apperrors.FieldError{
			Field:   "decision",
			Message: "decision must be accept or reject",
		})
	}

	request, err := s.requests.Decide(ctx, requestID, status)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("role request has already been decided", map[string]any{"requestId": requestID})
		}
		return nil, notFoundOr(err, "role request", map[string]any{"requestId": requestID})
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventRoleRequestDecided, request.ID, actor.UserID,
		events.RoleRequestDecidedPayload{
			UserID:        request.UserID,
			RequestedRole: request.RequestedRole,
			Status:        request.Status,
		}))
	return request, nil
}

// ListPending returns undecided requests with the requester's identity.
func (s *RoleService) ListPending(ctx context.Context) ([]domain.RoleRequestWithUser, error) {
	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return pending, nil
}
