package memory

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type reportRepository struct {
	s *Store
}

func (r *reportRepository) CountByStatus(_ context.Context) (map[domain.TicketStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[domain.TicketStatus]int)
	for _, ticket := range r.s.tickets {
		result[ticket.Status]++
	}
	return result, nil
}

func (r *reportRepository) CountByAssignee(_ context.Context) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[string]int)
	for _, ticket := range r.s.tickets {
		key := domain.UnassignedBucket
		if ticket.IsAssigned() {
			if user, ok := r.s.users[*ticket.AssigneeID]; ok {
				key = user.Email
			}
		}
		result[key]++
	}
	return result, nil
}

func (r *reportRepository) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, ticket := range r.s.tickets {
		if !ticket.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *reportRepository) CountByInterval(_ context.Context, since time.Time, interval time.Duration) ([]domain.IntervalCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	buckets := make(map[int64]int)
	for _, ticket := range r.s.tickets {
		if ticket.CreatedAt.Before(since) {
			continue
		}
		unix := ticket.CreatedAt.UnixNano()
		start := unix - unix%int64(interval)
		buckets[start]++
	}

	result := make([]domain.IntervalCount, 0, len(buckets))
	for start, count := range buckets {
		result = append(result, domain.IntervalCount{Start: time.Unix(0, start).UTC(), Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}

func (r *reportRepository) UsersWithTicketCounts(_ context.Context) ([]domain.UserTicketCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int)
	for _, ticket := range r.s.tickets {
		counts[ticket.CreatedBy]++
	}
	result := make([]domain.UserTicketCount, 0, len(r.s.users))
	for _, user := range r.s.users {
		result = append(result, domain.UserTicketCount{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Role:        user.Role,
			TicketCount: counts[user.ID],
			CreatedAt:   user.CreatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Email < result[j].Email
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *reportRepository) SupportAgentWorkload(_ context.Context) ([]domain.AgentWorkload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	workloads := make(map[string]*domain.AgentWorkload)
	for _, user := range r.s.users {
		if user.Role == domain.RoleSupport {
			workloads[user.ID] = &domain.AgentWorkload{ID: user.ID, Email: user.Email, Name: user.Name}
		}
	}
	for _, ticket := range r.s.tickets {
		if !ticket.IsAssigned() {
			continue
		}
		load, ok := workloads[*ticket.AssigneeID]
		if !ok {
			continue
		}
		switch ticket.Status {
		case domain.TicketStatusOpen:
			load.Open++
		case domain.TicketStatusInProgress:
			load.InProgress++
		case domain.TicketStatusResolved:
			load.Resolved++
		case domain.TicketStatusClosed:
			load.Closed++
		}
	}
	result := make([]domain.AgentWorkload, 0, len(workloads))
	for _, load := range workloads {
		result = append(result, *load)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}
