package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RoleRequestRepository persists role elevation requests.
type RoleRequestRepository interface {
	// CreatePending inserts a pending request. A second pending request for the
	// same user fails with ErrDuplicate.
	CreatePending(ctx context.Context, request *domain.RoleRequest) error
	GetByID(ctx context.Context, id string) (*domain.RoleRequest, error)
	ListPending(ctx context.Context) ([]domain.RoleRequestWithUser, error)
	// Decide moves a pending request to status and, when accepted, grants the
	// requested role. Already decided requests yield ErrConflict.
	Decide(ctx context.Context, id string, status domain.RoleRequestStatus) (*domain.RoleRequest, error)
}

type roleRequestRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRequestRepository creates repository.
func NewRoleRequestRepository(pool *pgxpool.Pool) RoleRequestRepository {
	return &roleRequestRepository{pool: pool}
}

const roleRequestColumns = `id::text, user_id::text, requested_role, status, created_at, updated_at`

func (r *roleRequestRepository) CreatePending(ctx context.Context, request *domain.RoleRequest) error {
	const query = `
        INSERT INTO role_requests (user_id, requested_role, status)
        VALUES ($1,$2,'pending')
        RETURNING ` + roleRequestColumns
	stored, err := scanRoleRequest(r.pool.QueryRow(ctx, query, request.UserID, request.RequestedRole))
	if err != nil {
		return err
	}
	*request = *stored
	return nil
}

func (r *roleRequestRepository) GetByID(ctx context.Context, id string) (*domain.RoleRequest, error) {
	const query = `SELECT ` + roleRequestColumns + ` FROM role_requests WHERE id=$1`
	return scanRoleRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *roleRequestRepository) ListPending(ctx context.Context) ([]domain.RoleRequestWithUser, error) {
	const query = `
        SELECT rr.id::text, rr.user_id::text, rr.requested_role, rr.status, rr.created_at, rr.updated_at,
            u.email, u.name, u.role
        FROM role_requests rr
        JOIN users u ON u.id = rr.user_id
        WHERE rr.status='pending'
        ORDER BY rr.created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.RoleRequestWithUser{}
	for rows.Next() {
		var item domain.RoleRequestWithUser
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.RequestedRole,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Email,
			&item.Name,
			&item.Role,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *roleRequestRepository) Decide(ctx context.Context, id string, status domain.RoleRequestStatus) (*domain.RoleRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var decided *domain.RoleRequest
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const update = `
            UPDATE role_requests SET status=$2, updated_at=NOW()
            WHERE id=$1 AND status='pending'
            RETURNING ` + roleRequestColumns
		request, err := scanRoleRequest(tx.QueryRow(ctx, update, id, status))
		if err != nil {
			return err
		}

		if status == domain.RoleRequestAccepted {
			cmd, err := tx.Exec(ctx,
				`UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1`,
				request.UserID, request.RequestedRole,
			)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return errRequesterMissing
			}
		}
		decided = request
		return nil
	})
	switch {
	case err == nil:
		return decided, nil
	case errors.Is(err, errRequesterMissing):
		return nil, ErrNotFound
	case !errors.Is(err, ErrNotFound):
		return nil, translate(err)
	}

	// the transaction is gone; tell a decided request from a missing one
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM role_requests WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, translate(err)
	}
	if exists {
		return nil, ErrConflict
	}
	return nil, ErrNotFound
}

func scanRoleRequest(row pgx.Row) (*domain.RoleRequest, error) {
	var request domain.RoleRequest
	if err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.RequestedRole,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &request, nil
}
