package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// MinTitleLength is the shortest accepted ticket title.
const MinTitleLength = 3

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	tags       repository.TagRepository
	comments   repository.TicketCommentRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	TagRepo     repository.TagRepository
	CommentRepo repository.TicketCommentRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Tags        []string
	Attachment  string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		tags:       deps.TagRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create persists an open, unassigned ticket authored by actor. Every tag must
// already exist in the catalog.
func (s *TicketService) Create(ctx context.Context, actor domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return nil, apperrors.NewValidationError("invalid ticket", apperrors.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at least %d characters", MinTitleLength),
		})
	}

	tags := cleanTags(input.Tags)
	if len(tags) > 0 {
		missing, err := s.tags.FindMissing(ctx, tags)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if len(missing) > 0 {
			fields := make([]apperrors.FieldError, 0, len(missing))
			for _, name := range missing {
				fields = append(fields, apperrors.FieldError{
					Field:   "tag",
					Message: fmt.Sprintf("tag %q does not exist", name),
				})
			}
			return nil, apperrors.NewValidationErrorWithDetails("invalid tags",
				map[string]any{"invalidTags": missing}, fields...)
		}
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Tags:        tags,
		CreatedBy:   actor.UserID,
		Attachment:  strings.TrimSpace(input.Attachment),
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"userId": actor.UserID})
	}

	s.publishEvent(ctx, events.New(events.EventTicketCreated, ticket.ID, actor.UserID, events.TicketCreatedPayload{
		Title: ticket.Title,
		Tags:  ticket.Tags,
	}))
	return ticket, nil
}

// Assign makes the calling support agent the ticket's assignee. A ticket that
// already has an assignee is never reassigned.
func (s *TicketService) Assign(ctx context.Context, actor domain.Principal, ticketID string) (*domain.Ticket, error) {
	if !actor.HasRole(domain.RoleSupport) {
		return nil, apperrors.NewForbidden("only support agents can take tickets")
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	if current.IsAssigned() {
		return nil, alreadyAssigned(current, actor)
	}

	ticket, err := s.tickets.AssignIfUnassigned(ctx, ticketID, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost the race to another agent; report the winner
			if latest, getErr := s.tickets.GetByID(ctx, ticketID); getErr == nil {
				return nil, alreadyAssigned(latest, actor)
			}
			return nil, apperrors.NewConflict("ticket is already assigned", map[string]any{"ticketId": ticketID})
		}
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		ChangedByID: actor.UserID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue:    map[string]any{"assigneeId": nil},
		NewValue:    map[string]any{"assigneeId": actor.UserID},
	})
	s.publishEvent(ctx, events.New(events.EventTicketAssigned, ticket.ID, actor.UserID, events.TicketAssignedPayload{
		AssigneeID: actor.UserID,
	}))
	return ticket, nil
}

// UpdateStatus sets any of the four statuses. Support agents, admins and the
// ticket's creator may do so.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Principal, ticketID, rawStatus string) (*domain.Ticket, error) {
	status, ok := domain.ParseTicketStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status", apperrors.FieldError{
			Field:   "status",
			Message: "status must be one of open, in_progress, resolved, closed",
		})
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	if !canManage(actor, current) {
		return nil, apperrors.NewForbidden("not allowed to change this ticket")
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}

	if current.Status != status {
		s.recordHistory(ctx, &domain.TicketHistory{
			TicketID:    ticket.ID,
			ChangedByID: actor.UserID,
			ChangeType:  domain.ChangeTypeStatus,
			OldValue:    map[string]any{"status": string(current.Status)},
			NewValue:    map[string]any{"status": string(status)},
		})
	}
	s.publishEvent(ctx, events.New(events.EventTicketStatusChanged, ticket.ID, actor.UserID, events.TicketStatusChangedPayload{
		OldStatus: current.Status,
		NewStatus: status,
	}))
	return ticket, nil
}

// ListAll returns every ticket, newest first.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// Get returns a single ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	return ticket, nil
}

// Vote casts, moves or withdraws the actor's vote.
func (s *TicketService) Vote(ctx context.Context, actor domain.Principal, ticketID string, direction domain.VoteDirection) (*domain.Ticket, error) {
	if !direction.Valid() {
		return nil, apperrors.NewValidationError("invalid vote", apperrors.FieldError{
			Field:   "direction",
			Message: "direction must be up or down",
		})
	}
	ticket, err := s.tickets.ApplyVote(ctx, ticketID, actor.UserID, direction)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	return ticket, nil
}

// AddComment appends to the ticket's thread.
func (s *TicketService) AddComment(ctx context.Context, actor domain.Principal, ticketID, body string) (*domain.TicketComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("invalid comment", apperrors.FieldError{
			Field:   "comment",
			Message: "comment must not be empty",
		})
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}

	comment := &domain.TicketComment{TicketID: ticketID, AuthorID: actor.UserID, Body: body}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	return comment, nil
}

// ListComments returns the thread oldest first.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return comments, nil
}

// ListHistory returns the audit trail to support agents, admins and the creator.
func (s *TicketService) ListHistory(ctx context.Context, actor domain.Principal, ticketID string) ([]domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticketId": ticketID})
	}
	if !canManage(actor, ticket) {
		return nil, apperrors.NewForbidden("not allowed to view this ticket's history")
	}
	history, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return history, nil
}

func canManage(actor domain.Principal, ticket *domain.Ticket) bool {
	return actor.HasRole(domain.RoleSupport, domain.RoleAdmin) || ticket.CreatedBy == actor.UserID
}

func alreadyAssigned(ticket *domain.Ticket, actor domain.Principal) error {
	details := map[string]any{"ticketId": ticket.ID}
	if ticket.AssigneeID != nil && *ticket.AssigneeID == actor.UserID {
		return apperrors.NewConflict("ticket is already assigned to you", details)
	}
	return apperrors.NewConflict("ticket is already assigned", details)
}

// cleanTags trims names and drops blanks and repeats, keeping first occurrence order.
func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

func (s *TicketService) recordHistory(ctx context.Context, entry *domain.TicketHistory) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record ticket history",
			zap.String("ticket_id", entry.TicketID),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
