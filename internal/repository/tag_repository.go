package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TagRepository manages the tag catalog.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.TagCategory) error
	List(ctx context.Context) ([]domain.TagCategory, error)
	// FindMissing returns the requested names that are not in the catalog.
	FindMissing(ctx context.Context, names []string) ([]string, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository builds the repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.TagCategory) error {
	const query = `
        INSERT INTO tag_categories (category_name)
        VALUES ($1)
        RETURNING id::text, created_at`
	return translate(r.pool.QueryRow(ctx, query, tag.Name).Scan(&tag.ID, &tag.CreatedAt))
}

func (r *tagRepository) List(ctx context.Context) ([]domain.TagCategory, error) {
	const query = `
        SELECT id::text, category_name, created_at
        FROM tag_categories ORDER BY category_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.TagCategory{}
	for rows.Next() {
		var tag domain.TagCategory
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, rows.Err()
}

func (r *tagRepository) FindMissing(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	const query = `SELECT category_name FROM tag_categories WHERE category_name = ANY($1)`
	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing = append(existing, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return MissingNames(names, existing), nil
}
