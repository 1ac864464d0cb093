package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/effort-league/internal/config"
	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/infrastructure/account/gatekeeper"
	"github.com/riskibarqy/effort-league/internal/infrastructure/account/localjwt"
	"github.com/riskibarqy/effort-league/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/effort-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/effort-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/effort-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/effort-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/effort-league/internal/platform/cache"
	idgen "github.com/riskibarqy/effort-league/internal/platform/id"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
	"github.com/riskibarqy/effort-league/internal/platform/resilience"
	"github.com/riskibarqy/effort-league/internal/usecase"
)

const devJWTSecret = "effort-league-dev-secret"

// NewHTTPServer wires repositories, services and transport into a ready
// server. The returned cleanup closes the database pool and stops the local
// sweep ticker; call it after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		leagueRepo    league.Repository
		rosterRepo    roster.Repository
		effortRepo    effort.Repository
		challengeRepo challenge.Repository
		donationRepo  donation.Repository
	)

	cleanups := make([]func(), 0, 2)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		cleanups = append(cleanups, func() { _ = db.Close() })

		leagueRepo = postgres.NewLeagueRepository(db)
		rosterRepo = postgres.NewRosterRepository(db)
		effortRepo = postgres.NewEffortRepository(db)
		challengeRepo = postgres.NewChallengeRepository(db)
		donationRepo = postgres.NewDonationRepository(db)
		logger.Info("storage configured", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		leagueRepo = memory.NewLeagueRepository(memory.SeedLeagues())
		rosterRepo = memory.NewRosterRepository(memory.SeedTeams(), memory.SeedSubTeams(), memory.SeedMembers())
		effortRepo = memory.NewEffortRepository(memory.SeedEffortEntries())
		challengeRepo = memory.NewChallengeRepository(
			memory.SeedChallenges(),
			memory.SeedSubmissions(),
			nil,
			nil,
			memory.SeedTeamBonuses(),
		)
		logger.Info("storage configured", "backend", "memory", "reason", "DB_URL empty")
	}

	var leaderboardStore *basecache.Store
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, store)
		rosterRepo = cacherepo.NewRosterRepository(rosterRepo, store)
		leaderboardStore = basecache.NewStore(cfg.CacheTTL)
	}

	if donationRepo == nil {
		// Wired after the cache layer so an approval's balance transfer
		// invalidates the cached roster view.
		donationRepo = memory.NewDonationRepository(memory.SeedDonations(), rosterRepo)
	}

	roles := usecase.NewRoleResolver(leagueRepo, rosterRepo)

	var publisher usecase.JobPublisher
	if cfg.QStashEnabled {
		publisher = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
		}, logger)
	}

	leagueSvc := usecase.NewLeagueService(leagueRepo)
	leaderboardSvc := usecase.NewLeaderboardService(
		leagueRepo,
		rosterRepo,
		effortRepo,
		challengeRepo,
		cfg.RankingDelayDays,
		leaderboardStore,
		logger,
	)
	challengeSvc := usecase.NewChallengeService(leagueRepo, rosterRepo, challengeRepo, roles, logger)
	donationSvc := usecase.NewDonationService(leagueRepo, rosterRepo, donationRepo, roles, idgen.NewRandomGenerator(), logger)
	sweepSvc := usecase.NewSweepService(leagueRepo, publisher, cfg.SweepInterval, logger)

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	handler := httpapi.NewHandler(leagueSvc, leaderboardSvc, challengeSvc, donationSvc, sweepSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanups = append(cleanups, startSweepLoop(cfg, sweepSvc, logger))

	return server, cleanup, nil
}

// newTokenVerifier picks the identity backend: the gatekeeper introspection
// service when an admin key is configured, a shared-secret JWT verifier
// otherwise. Running prod without either is a misconfiguration.
func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	if cfg.GatekeeperAdminKey != "" {
		return gatekeeper.NewClient(
			&http.Client{Timeout: cfg.GatekeeperTimeout},
			cfg.GatekeeperBaseURL,
			cfg.GatekeeperIntrospectPath,
			cfg.GatekeeperAdminKey,
			resilience.CircuitBreakerConfig{
				Enabled:          cfg.GatekeeperCircuitEnabled,
				FailureThreshold: cfg.GatekeeperCircuitFailureCount,
				OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMaxReq,
			},
			logger,
		), nil
	}

	secret := cfg.AuthLocalJWTSecret
	if secret == "" {
		if cfg.AppEnv == config.EnvProd {
			return nil, fmt.Errorf("no identity backend: set GATEKEEPER_ADMIN_KEY or AUTH_LOCAL_JWT_SECRET")
		}
		secret = devJWTSecret
		logger.Warn("using built-in dev JWT secret", "reason", "AUTH_LOCAL_JWT_SECRET empty")
	}

	return localjwt.NewVerifier(secret), nil
}

// startSweepLoop bootstraps the league completion sweep. With a QStash
// publisher the first callback is scheduled and the job endpoint keeps the
// chain alive; without one a local ticker drives the sweep directly.
func startSweepLoop(cfg config.Config, sweepSvc *usecase.SweepService, logger *logging.Logger) func() {
	if cfg.QStashEnabled {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sweepSvc.ScheduleNext(ctx); err != nil {
				logger.Error("schedule initial sweep failed", "error", err)
			}
		}()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, err := sweepSvc.RunSweep(context.Background()); err != nil {
					logger.Error("scheduled sweep failed", "error", err)
				}
			}
		}
	}()

	return func() { close(done) }
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	conn, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	return conn, nil
}
