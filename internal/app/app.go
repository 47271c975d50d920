package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/rotaplan/rotaplan/external/notify"
	"github.com/rotaplan/rotaplan/external/timekeeper"
	"github.com/rotaplan/rotaplan/internal/config"
	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	cacherepo "github.com/rotaplan/rotaplan/internal/infrastructure/repository/cache"
	"github.com/rotaplan/rotaplan/internal/infrastructure/repository/memory"
	"github.com/rotaplan/rotaplan/internal/infrastructure/repository/postgres"
	"github.com/rotaplan/rotaplan/internal/interfaces/httpapi"
	basecache "github.com/rotaplan/rotaplan/internal/platform/cache"
	idgen "github.com/rotaplan/rotaplan/internal/platform/id"
	"github.com/rotaplan/rotaplan/internal/platform/logging"
	"github.com/rotaplan/rotaplan/internal/platform/resilience"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

// NewHTTPServer wires storage, domain services, and the HTTP surface
// together. The returned cleanup releases the plan worker pool and, for
// postgres storage, the connection pool.
func NewHTTPServer(cfg config.Config, appLogger *logging.Logger, httpLogger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if appLogger == nil {
		appLogger = logging.Default()
	}
	if httpLogger == nil {
		httpLogger = slog.Default()
	}

	teamRepo, playerRepo, matchRepo, db, err := buildRepositories(cfg, appLogger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, store)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, store)
		matchRepo = cacherepo.NewMatchRepository(matchRepo, store)
	}

	idGenerator := idgen.NewRandomGenerator()

	teamSvc := usecase.NewTeamService(teamRepo, idGenerator)
	rosterSvc := usecase.NewRosterService(teamRepo, playerRepo, idGenerator)
	matchSvc := usecase.NewMatchService(teamRepo, playerRepo, matchRepo, rosterSvc, idGenerator)
	rotationSvc := usecase.NewRotationService(teamRepo, playerRepo, matchRepo)
	pointsSvc := usecase.NewPointsService(teamRepo, playerRepo)

	planSvc, err := usecase.NewPlanService(
		rotationSvc,
		matchRepo,
		basecache.NewStore(cfg.CacheTTL),
		buildPlanNotifier(cfg, httpLogger),
		cfg.PlanWorkerCount,
		appLogger,
	)
	if err != nil {
		closeDB(db, appLogger)
		return nil, nil, fmt.Errorf("build plan service: %w", err)
	}

	statSyncSvc := usecase.NewStatSyncService(
		matchRepo,
		playerRepo,
		buildTimekeeperProvider(cfg, appLogger),
		cfg.PlanWorkerCount,
		appLogger,
	)

	handler := httpapi.NewHandler(teamSvc, rosterSvc, matchSvc, pointsSvc, planSvc, statSyncSvc, httpLogger)
	router := httpapi.NewRouter(handler, httpLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		planSvc.Close()
		closeDB(db, appLogger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		planSvc.Close()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (team.Repository, player.Repository, match.Repository, *sqlx.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		teamRepo := memory.NewTeamRepository()
		playerRepo := memory.NewPlayerRepository()
		matchRepo := memory.NewMatchRepository()
		if err := seedMemory(teamRepo, playerRepo); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("seed memory storage: %w", err)
		}
		logger.Info("storage ready", "driver", config.StorageMemory)
		return teamRepo, playerRepo, matchRepo, nil, nil

	case config.StoragePostgres:
		dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.Open("postgres", dbURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.BootstrapSeed(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "db_name", dbNameFromURL(cfg.DBURL))
		return postgres.NewTeamRepository(db), postgres.NewPlayerRepository(db), postgres.NewMatchRepository(db), db, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func seedMemory(teamRepo *memory.TeamRepository, playerRepo *memory.PlayerRepository) error {
	ctx := context.Background()
	for _, cfg := range memory.SeedTeams() {
		if err := teamRepo.Upsert(ctx, cfg); err != nil {
			return err
		}
	}
	for _, item := range memory.SeedPlayers() {
		if err := playerRepo.Upsert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func buildTimekeeperProvider(cfg config.Config, logger *logging.Logger) usecase.TimekeeperProvider {
	if !cfg.TimekeeperEnabled {
		return nil
	}
	return timekeeper.NewClient(timekeeper.ClientConfig{
		BaseURL:    cfg.TimekeeperBaseURL,
		Token:      cfg.TimekeeperToken,
		Timeout:    cfg.TimekeeperTimeout,
		MaxRetries: cfg.TimekeeperMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TimekeeperCircuitEnabled,
			FailureThreshold: cfg.TimekeeperCircuitFailures,
			OpenTimeout:      cfg.TimekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TimekeeperCircuitHalfOpenMax,
		},
	})
}

func buildPlanNotifier(cfg config.Config, logger *slog.Logger) usecase.PlanNotifier {
	if !cfg.NotifyEnabled {
		return nil
	}
	return notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
		WebhookURL: cfg.NotifyWebhookURL,
		Token:      cfg.NotifyToken,
		Timeout:    cfg.NotifyTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NotifyCircuitEnabled,
			FailureThreshold: cfg.NotifyCircuitFailures,
			OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMax,
		},
	}, logger)
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close postgres", "error", err)
	}
}
