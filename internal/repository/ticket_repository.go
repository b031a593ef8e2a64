package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	// AssignIfUnassigned sets the assignee only while none is set. It returns
	// ErrConflict when the ticket already has one and ErrNotFound when it is absent.
	AssignIfUnassigned(ctx context.Context, ticketID, assigneeID string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error)
	// ApplyVote records the voter's choice. Repeating a direction withdraws the
	// vote and the opposite direction moves it.
	ApplyVote(ctx context.Context, ticketID, voterID string, direction domain.VoteDirection) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id::text, title, description, tags, created_by::text, assignee_id::text,
        attachment, status, vote_up, vote_down, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, tags, created_by, attachment, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id::text, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		nonNilStrings(ticket.Tags),
		ticket.CreatedBy,
		ticket.Attachment,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translate(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) AssignIfUnassigned(ctx context.Context, ticketID, assigneeID string) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET assignee_id=$2, updated_at=NOW()
        WHERE id=$1 AND assignee_id IS NULL
        RETURNING ` + ticketColumns
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, ticketID, assigneeID))
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, ticketID).Scan(&exists); err != nil {
		return nil, translate(err)
	}
	if exists {
		return nil, ErrConflict
	}
	return nil, ErrNotFound
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$2, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query, ticketID, status))
}

func (r *ticketRepository) ApplyVote(ctx context.Context, ticketID, voterID string, direction domain.VoteDirection) (*domain.Ticket, error) {
	if err := checkID(ticketID); err != nil {
		return nil, err
	}
	var updated *domain.Ticket
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := scanTicket(tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE`, ticketID)); err != nil {
			return err
		}

		var previous domain.VoteDirection
		err := tx.QueryRow(ctx,
			`SELECT direction FROM ticket_votes WHERE ticket_id=$1 AND user_id=$2`,
			ticketID, voterID,
		).Scan(&previous)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		upDelta, downDelta := 0, 0
		switch {
		case previous == "":
			if _, err := tx.Exec(ctx,
				`INSERT INTO ticket_votes (ticket_id, user_id, direction) VALUES ($1,$2,$3)`,
				ticketID, voterID, direction,
			); err != nil {
				return err
			}
			upDelta, downDelta = voteDelta(direction, 1)
		case previous == direction:
			if _, err := tx.Exec(ctx,
				`DELETE FROM ticket_votes WHERE ticket_id=$1 AND user_id=$2`,
				ticketID, voterID,
			); err != nil {
				return err
			}
			upDelta, downDelta = voteDelta(direction, -1)
		default:
			if _, err := tx.Exec(ctx,
				`UPDATE ticket_votes SET direction=$3 WHERE ticket_id=$1 AND user_id=$2`,
				ticketID, voterID, direction,
			); err != nil {
				return err
			}
			oldUp, oldDown := voteDelta(previous, -1)
			newUp, newDown := voteDelta(direction, 1)
			upDelta, downDelta = oldUp+newUp, oldDown+newDown
		}

		const update = `
            UPDATE tickets
            SET vote_up=GREATEST(vote_up+$2, 0), vote_down=GREATEST(vote_down+$3, 0), updated_at=NOW()
            WHERE id=$1
            RETURNING ` + ticketColumns
		ticket, err := scanTicket(tx.QueryRow(ctx, update, ticketID, upDelta, downDelta))
		if err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

func voteDelta(direction domain.VoteDirection, step int) (up, down int) {
	if direction == domain.VoteUp {
		return step, 0
	}
	return 0, step
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Tags,
		&ticket.CreatedBy,
		&ticket.AssigneeID,
		&ticket.Attachment,
		&ticket.Status,
		&ticket.Vote.Up,
		&ticket.Vote.Down,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}
