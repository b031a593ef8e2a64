package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
)

type repositories struct {
	users        repository.UserRepository
	tags         repository.TagRepository
	tickets      repository.TicketRepository
	comments     repository.TicketCommentRepository
	history      repository.TicketHistoryRepository
	roleRequests repository.RoleRequestRepository
	reports      repository.ReportRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics("helpdesk")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pg    *persistence.Postgres
		repos repositories
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = postgresRepositories(pg)
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		repos = memoryRepositories(memory.NewStore())
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	hub := notify.NewHub(cfg.Notification.SubscriberBuffer, logger)
	var (
		publisher notify.Publisher = hub
		bridge    *notify.RedisBridge
	)
	if redis != nil {
		bridge = notify.NewRedisBridge(redis.Client, cfg.Notification.Channel, hub, logger)
		publisher = bridge
	}

	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: repos.users,
		Logger:   logger,
	})
	roleService := service.NewRoleService(service.RoleDependencies{
		UserRepo:        repos.users,
		RoleRequestRepo: repos.roleRequests,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.tickets,
		TagRepo:     repos.tags,
		CommentRepo: repos.comments,
		HistoryRepo: repos.history,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	tagService := service.NewTagService(repos.tags)
	reportService := service.NewReportService(repos.reports, logger)
	notificationService := service.NewNotificationService(dispatcher, publisher, logger)

	if _, err := authService.BootstrapAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	stopWorker, err := worker.StartNotificationWorker(ctx, notificationService, bridge, logger)
	if err != nil {
		logger.Fatal("failed to start notification worker", zap.Error(err))
	}

	done := make(chan struct{})
	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:         handlers.NewUsersHandler(authService, roleService),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		Tags:          handlers.NewTagsHandler(tagService),
		Admin:         handlers.NewAdminHandler(reportService, roleService),
		Notifications: handlers.NewNotificationsHandler(hub, cfg.Notification.Heartbeat(), done, logger),
		Gate:          auth.NewGate(authService.TokenManager()),
		AuthLimiter:   httptransport.NewClientLimiter(cfg.RateLimit),
		Metrics:       metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	close(done)
	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	stopWorker()
	cancel()
}

func postgresRepositories(pg *persistence.Postgres) repositories {
	pool := pg.PoolHandle()
	return repositories{
		users:        repository.NewUserRepository(pool),
		tags:         repository.NewTagRepository(pool),
		tickets:      repository.NewTicketRepository(pool),
		comments:     repository.NewTicketCommentRepository(pool),
		history:      repository.NewTicketHistoryRepository(pool),
		roleRequests: repository.NewRoleRequestRepository(pool),
		reports:      repository.NewReportRepository(pool),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		users:        store.Users(),
		tags:         store.Tags(),
		tickets:      store.Tickets(),
		comments:     store.Comments(),
		history:      store.History(),
		roleRequests: store.RoleRequests(),
		reports:      store.Reports(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
