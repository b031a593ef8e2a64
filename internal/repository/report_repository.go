package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ReportRepository runs the read-only aggregations behind the admin dashboard.
type ReportRepository interface {
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	// CountByAssignee keys counts by assignee email, with unassigned tickets
	// under domain.UnassignedBucket.
	CountByAssignee(ctx context.Context) (map[string]int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	// CountByInterval returns the non-empty buckets of width interval, aligned to
	// the Unix epoch, for tickets created at or after since.
	CountByInterval(ctx context.Context, since time.Time, interval time.Duration) ([]domain.IntervalCount, error)
	UsersWithTicketCounts(ctx context.Context) ([]domain.UserTicketCount, error)
	SupportAgentWorkload(ctx context.Context) ([]domain.AgentWorkload, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns repository implementation.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *reportRepository) CountByAssignee(ctx context.Context) (map[string]int, error) {
	const query = `
        SELECT COALESCE(u.email, $1), COUNT(*)
        FROM tickets t
        LEFT JOIN users u ON u.id = t.assignee_id
        GROUP BY 1`
	rows, err := r.pool.Query(ctx, query, domain.UnassignedBucket)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *reportRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *reportRepository) CountByInterval(ctx context.Context, since time.Time, interval time.Duration) ([]domain.IntervalCount, error) {
	const query = `
        SELECT date_bin(make_interval(secs => $2), created_at, TIMESTAMPTZ '1970-01-01 00:00:00+00') AS bucket,
            COUNT(*)
        FROM tickets
        WHERE created_at >= $1
        GROUP BY bucket
        ORDER BY bucket ASC`
	rows, err := r.pool.Query(ctx, query, since, interval.Seconds())
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.IntervalCount{}
	for rows.Next() {
		var bucket domain.IntervalCount
		if err := rows.Scan(&bucket.Start, &bucket.Count); err != nil {
			return nil, err
		}
		bucket.Start = bucket.Start.UTC()
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *reportRepository) UsersWithTicketCounts(ctx context.Context) ([]domain.UserTicketCount, error) {
	const query = `
        SELECT u.id::text, u.email, u.name, u.role, COUNT(t.id), u.created_at
        FROM users u
        LEFT JOIN tickets t ON t.created_by = u.id
        GROUP BY u.id
        ORDER BY u.created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.UserTicketCount{}
	for rows.Next() {
		var item domain.UserTicketCount
		if err := rows.Scan(&item.ID, &item.Email, &item.Name, &item.Role, &item.TicketCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) SupportAgentWorkload(ctx context.Context) ([]domain.AgentWorkload, error) {
	const query = `
        SELECT u.id::text, u.email, u.name,
            COUNT(t.id) FILTER (WHERE t.status='open'),
            COUNT(t.id) FILTER (WHERE t.status='in_progress'),
            COUNT(t.id) FILTER (WHERE t.status='resolved'),
            COUNT(t.id) FILTER (WHERE t.status='closed')
        FROM users u
        LEFT JOIN tickets t ON t.assignee_id = u.id
        WHERE u.role='support'
        GROUP BY u.id
        ORDER BY u.email ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.AgentWorkload{}
	for rows.Next() {
		var item domain.AgentWorkload
		if err := rows.Scan(&item.ID, &item.Email, &item.Name, &item.Open, &item.InProgress, &item.Resolved, &item.Closed); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
