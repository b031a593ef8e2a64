package memory

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type ticketRepository struct {
	s *Store
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ticket.CreatedBy]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.Now()
	ticket.ID = newID()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = copyTicket(ticket)
	r.s.ticketOrder = append(r.s.ticketOrder, ticket.ID)
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTicket(ticket), nil
}

func (r *ticketRepository) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(r.s.ticketOrder))
	for i := len(r.s.ticketOrder) - 1; i >= 0; i-- {
		result = append(result, *copyTicket(r.s.tickets[r.s.ticketOrder[i]]))
	}
	return result, nil
}

func (r *ticketRepository) AssignIfUnassigned(_ context.Context, ticketID, assigneeID string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ticket.IsAssigned() {
		return nil, repository.ErrConflict
	}
	assignee := assigneeID
	ticket.AssigneeID = &assignee
	ticket.UpdatedAt = r.s.Now()
	return copyTicket(ticket), nil
}

func (r *ticketRepository) UpdateStatus(_ context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = r.s.Now()
	return copyTicket(ticket), nil
}

func (r *ticketRepository) ApplyVote(_ context.Context, ticketID, voterID string, direction domain.VoteDirection) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	key := voteKey{ticketID: ticketID, userID: voterID}
	previous, voted := r.s.votes[key]
	switch {
	case !voted:
		r.s.votes[key] = direction
		adjustTally(&ticket.Vote, direction, 1)
	case previous == direction:
		delete(r.s.votes, key)
		adjustTally(&ticket.Vote, direction, -1)
	default:
		r.s.votes[key] = direction
		adjustTally(&ticket.Vote, previous, -1)
		adjustTally(&ticket.Vote, direction, 1)
	}
	ticket.UpdatedAt = r.s.Now()
	return copyTicket(ticket), nil
}

func adjustTally(tally *domain.VoteTally, direction domain.VoteDirection, step int) {
	counter := &tally.Down
	if direction == domain.VoteUp {
		counter = &tally.Up
	}
	*counter += step
	if *counter < 0 {
		*counter = 0
	}
}

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, comment *domain.TicketComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[comment.TicketID]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.Now()
	comment.ID = newID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.s.comments[comment.TicketID] = append(r.s.comments[comment.TicketID], *comment)
	return nil
}

func (r *commentRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.TicketComment{}, r.s.comments[ticketID]...), nil
}

type historyRepository struct {
	s *Store
}

func (r *historyRepository) Create(_ context.Context, entry *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[entry.TicketID]; !ok {
		return repository.ErrNotFound
	}
	entry.ID = newID()
	entry.CreatedAt = r.s.Now()
	stored := *entry
	stored.OldValue = copyMap(entry.OldValue)
	stored.NewValue = copyMap(entry.NewValue)
	r.s.history[entry.TicketID] = append(r.s.history[entry.TicketID], stored)
	return nil
}

func (r *historyRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.TicketHistory{}, r.s.history[ticketID]...), nil
}
