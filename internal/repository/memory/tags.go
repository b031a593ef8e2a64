package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type tagRepository struct {
	s *Store
}

func (r *tagRepository) Create(_ context.Context, tag *domain.TagCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.tags[tag.Name]; exists {
		return repository.ErrDuplicate
	}
	tag.ID = newID()
	tag.CreatedAt = r.s.Now()
	stored := *tag
	r.s.tags[tag.Name] = &stored
	return nil
}

func (r *tagRepository) List(_ context.Context) ([]domain.TagCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.TagCategory, 0, len(r.s.tags))
	for _, tag := range r.s.tags {
		result = append(result, *tag)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *tagRepository) FindMissing(_ context.Context, names []string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	existing := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.s.tags[name]; ok {
			existing = append(existing, name)
		}
	}
	return repository.MissingNames(names, existing), nil
}
