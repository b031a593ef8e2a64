//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("helpdesk"),
		postgres.WithUsername("helpdesk"),
		postgres.WithPassword("helpdesk"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	return pool
}

func seedUser(t *testing.T, users UserRepository, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        uuid.NewString() + "@x.com",
		PasswordHash: "hash",
		Role:         role,
		Name:         "seed",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestPostgresRepositories(t *testing.T) {
	pool := startPostgres(t)
	users := NewUserRepository(pool)
	tickets := NewTicketRepository(pool)
	requests := NewRoleRequestRepository(pool)
	tags := NewTagRepository(pool)
	reports := NewReportRepository(pool)

	t.Run("email is unique", func(t *testing.T) {
		ctx := context.Background()
		user := seedUser(t, users, domain.RoleUser)
		err := users.Create(ctx, &domain.User{Email: user.Email, PasswordHash: "x", Role: domain.RoleUser, Name: "dup"})
		assert.ErrorIs(t, err, ErrDuplicate)

		_, err = users.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("assign happens once under contention", func(t *testing.T) {
		ctx := context.Background()
		owner := seedUser(t, users, domain.RoleUser)
		ticket := &domain.Ticket{Title: "Cannot log in", CreatedBy: owner.ID, Status: domain.TicketStatusOpen}
		require.NoError(t, tickets.Create(ctx, ticket))

		agents := make([]*domain.User, 8)
		for i := range agents {
			agents[i] = seedUser(t, users, domain.RoleSupport)
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			winners   []string
			conflicts int
		)
		for _, agent := range agents {
			wg.Add(1)
			go func(agentID string) {
				defer wg.Done()
				_, err := tickets.AssignIfUnassigned(ctx, ticket.ID, agentID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					winners = append(winners, agentID)
				case errors.Is(err, ErrConflict):
					conflicts++
				default:
					t.Errorf("unexpected assign error: %v", err)
				}
			}(agent.ID)
		}
		wg.Wait()

		require.Len(t, winners, 1)
		assert.Equal(t, len(agents)-1, conflicts)
		stored, err := tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, winners[0], *stored.AssigneeID)

		_, err = tickets.AssignIfUnassigned(ctx, "abc", agents[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = tickets.AssignIfUnassigned(ctx, uuid.NewString(), agents[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("votes toggle and move", func(t *testing.T) {
		ctx := context.Background()
		owner := seedUser(t, users, domain.RoleUser)
		voter := seedUser(t, users, domain.RoleUser)
		ticket := &domain.Ticket{Title: "Printer jam", CreatedBy: owner.ID, Status: domain.TicketStatusOpen}
		require.NoError(t, tickets.Create(ctx, ticket))

		updated, err := tickets.ApplyVote(ctx, ticket.ID, voter.ID, domain.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, domain.VoteTally{Up: 1}, updated.Vote)

		updated, err = tickets.ApplyVote(ctx, ticket.ID, voter.ID, domain.VoteDown)
		require.NoError(t, err)
		assert.Equal(t, domain.VoteTally{Down: 1}, updated.Vote)

		updated, err = tickets.ApplyVote(ctx, ticket.ID, voter.ID, domain.VoteDown)
		require.NoError(t, err)
		assert.Equal(t, domain.VoteTally{}, updated.Vote)

		_, err = tickets.ApplyVote(ctx, "abc", voter.ID, domain.VoteUp)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("role request is decided once", func(t *testing.T) {
		ctx := context.Background()
		requester := seedUser(t, users, domain.RoleUser)

		request := &domain.RoleRequest{UserID: requester.ID, RequestedRole: domain.RoleSupport}
		require.NoError(t, requests.CreatePending(ctx, request))
		err := requests.CreatePending(ctx, &domain.RoleRequest{UserID: requester.ID, RequestedRole: domain.RoleAdmin})
		assert.ErrorIs(t, err, ErrDuplicate)

		decided, err := requests.Decide(ctx, request.ID, domain.RoleRequestAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleRequestAccepted, decided.Status)

		stored, err := users.GetByID(ctx, requester.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSupport, stored.Role)

		_, err = requests.Decide(ctx, request.ID, domain.RoleRequestRejected)
		assert.ErrorIs(t, err, ErrConflict)
		_, err = requests.Decide(ctx, "abc", domain.RoleRequestAccepted)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = requests.Decide(ctx, uuid.NewString(), domain.RoleRequestAccepted)
		assert.ErrorIs(t, err, ErrNotFound)

		// a new pending request is allowed once the first is decided
		require.NoError(t, requests.CreatePending(ctx, &domain.RoleRequest{UserID: requester.ID, RequestedRole: domain.RoleAdmin}))
	})

	t.Run("tags and interval report", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, tags.Create(ctx, &domain.TagCategory{Name: "network"}))
		assert.ErrorIs(t, tags.Create(ctx, &domain.TagCategory{Name: "network"}), ErrDuplicate)

		missing, err := tags.FindMissing(ctx, []string{"network", "ghost"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ghost"}, missing)

		buckets, err := reports.CountByInterval(ctx, time.Now().Add(-time.Hour), 5*time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, buckets)
		for _, b := range buckets {
			assert.Positive(t, b.Count)
			assert.Zero(t, b.Start.Unix()%300)
		}
	})
}
