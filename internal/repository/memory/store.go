// Package memory is an in-process implementation of the repository interfaces.
// Every conditional update runs under a single lock, which gives it the same
// at-most-once guarantees the Postgres statements provide.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type voteKey struct {
	ticketID string
	userID   string
}

// Store keeps all records in maps guarded by one mutex.
type Store struct {
	mu sync.RWMutex

	// Now supplies timestamps. Tests may replace it before use.
	Now func() time.Time

	users        map[string]*domain.User
	emails       map[string]string
	tags         map[string]*domain.TagCategory
	tickets      map[string]*domain.Ticket
	ticketOrder  []string
	votes        map[voteKey]domain.VoteDirection
	comments     map[string][]domain.TicketComment
	history      map[string][]domain.TicketHistory
	roleRequests map[string]*domain.RoleRequest
	requestOrder []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Now:          func() time.Time { return time.Now().UTC() },
		users:        make(map[string]*domain.User),
		emails:       make(map[string]string),
		tags:         make(map[string]*domain.TagCategory),
		tickets:      make(map[string]*domain.Ticket),
		votes:        make(map[voteKey]domain.VoteDirection),
		comments:     make(map[string][]domain.TicketComment),
		history:      make(map[string][]domain.TicketHistory),
		roleRequests: make(map[string]*domain.RoleRequest),
	}
}

// Users exposes the account repository.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Tags exposes the tag catalog repository.
func (s *Store) Tags() repository.TagRepository { return &tagRepository{s} }

// Tickets exposes the ticket repository.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepository{s} }

// Comments exposes the ticket comment repository.
func (s *Store) Comments() repository.TicketCommentRepository { return &commentRepository{s} }

// History exposes the ticket audit repository.
func (s *Store) History() repository.TicketHistoryRepository { return &historyRepository{s} }

// RoleRequests exposes the role request repository.
func (s *Store) RoleRequests() repository.RoleRequestRepository { return &roleRequestRepository{s} }

// Reports exposes the reporting aggregations.
func (s *Store) Reports() repository.ReportRepository { return &reportRepository{s} }

func newID() string {
	return uuid.NewString()
}

func copyUser(u *domain.User) *domain.User {
	out := *u
	out.Interest = append([]string(nil), u.Interest...)
	return &out
}

func copyTicket(t *domain.Ticket) *domain.Ticket {
	out := *t
	out.Tags = append([]string(nil), t.Tags...)
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		out.AssigneeID = &assignee
	}
	return &out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
