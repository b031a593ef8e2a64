package memory

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type roleRequestRepository struct {
	s *Store
}

func (r *roleRequestRepository) CreatePending(_ context.Context, request *domain.RoleRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[request.UserID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.s.roleRequests {
		if existing.UserID == request.UserID && existing.Status == domain.RoleRequestPending {
			return repository.ErrDuplicate
		}
	}
	now := r.s.Now()
	request.ID = newID()
	request.Status = domain.RoleRequestPending
	request.CreatedAt = now
	request.UpdatedAt = now
	stored := *request
	r.s.roleRequests[request.ID] = &stored
	r.s.requestOrder = append(r.s.requestOrder, request.ID)
	return nil
}

func (r *roleRequestRepository) GetByID(_ context.Context, id string) (*domain.RoleRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	request, ok := r.s.roleRequests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *request
	return &out, nil
}

func (r *roleRequestRepository) ListPending(_ context.Context) ([]domain.RoleRequestWithUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.RoleRequestWithUser{}
	for _, id := range r.s.requestOrder {
		request := r.s.roleRequests[id]
		if request.Status != domain.RoleRequestPending {
			continue
		}
		user, ok := r.s.users[request.UserID]
		if !ok {
			continue
		}
		result = append(result, domain.RoleRequestWithUser{
			RoleRequest: *request,
			Email:       user.Email,
			Name:        user.Name,
			Role:        user.Role,
		})
	}
	return result, nil
}

func (r *roleRequestRepository) Decide(_ context.Context, id string, status domain.RoleRequestStatus) (*domain.RoleRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, ok := r.s.roleRequests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if request.Status != domain.RoleRequestPending {
		return nil, repository.ErrConflict
	}
	now := r.s.Now()
	if status == domain.RoleRequestAccepted {
		user, ok := r.s.users[request.UserID]
		if !ok {
			return nil, repository.ErrNotFound
		}
		user.Role = request.RequestedRole
		user.UpdatedAt = now
	}
	request.Status = status
	request.UpdatedAt = now
	out := *request
	return &out, nil
}
