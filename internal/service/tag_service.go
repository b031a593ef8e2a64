package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TagService manages the tag catalog.
type TagService struct {
	tags repository.TagRepository
}

// NewTagService constructs the service.
func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// Create adds a category. Names are unique.
func (s *TagService) Create(ctx context.Context, name string) (*domain.TagCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid tag category", apperrors.FieldError{
			Field:   "categoryName",
			Message: "categoryName is required",
		})
	}
	tag := &domain.TagCategory{Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyExists("tag category", map[string]any{"categoryName": name})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return tag, nil
}

// List returns the catalog ordered by name.
func (s *TagService) List(ctx context.Context) ([]domain.TagCategory, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tags, nil
}
