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

	"github.com/gridironlab/weekly-digest/external/buildhook"
	"github.com/gridironlab/weekly-digest/external/collegedata"
	"github.com/gridironlab/weekly-digest/external/teamdirectory"
	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
	cacherepo "github.com/gridironlab/weekly-digest/internal/infrastructure/repository/cache"
	"github.com/gridironlab/weekly-digest/internal/infrastructure/repository/fs"
	"github.com/gridironlab/weekly-digest/internal/infrastructure/repository/memory"
	"github.com/gridironlab/weekly-digest/internal/infrastructure/repository/postgres"
	"github.com/gridironlab/weekly-digest/internal/interfaces/httpapi"
	basecache "github.com/gridironlab/weekly-digest/internal/platform/cache"
	idgen "github.com/gridironlab/weekly-digest/internal/platform/id"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/platform/resilience"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
)

// pipeline bundles the wired services shared by the API and the batch CLI.
type pipeline struct {
	drafts  *usecase.DraftService
	batch   *usecase.BatchService
	runLogs *usecase.RunLogService
}

// NewHTTPServer wires repositories, clients, and services into the digest API
// server. The returned cleanup closes resources the wiring opened (today the
// archive database) and must run on shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	p, cleanup, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(p.drafts, p.batch, p.runLogs, cfg.ServiceVersion, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

// NewBatchPipeline wires the same pipeline the API uses and hands back only
// the batch service, for the generate CLI.
func NewBatchPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*usecase.BatchService, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	p, cleanup, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return p.batch, cleanup, nil
}

func buildPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (pipeline, func(context.Context) error, error) {
	var draftRepo draft.Repository = fs.NewDraftRepository(cfg.DraftsDir)
	var opinionRepo opinion.Repository = memory.NewOpinionRepository(memory.SeedOpinions())
	teamMetaRepo := newTeamMetaRepository(cfg, logger)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		draftRepo = cacherepo.NewDraftRepository(draftRepo, store)
		opinionRepo = cacherepo.NewOpinionRepository(opinionRepo, store)
		teamMetaRepo = cacherepo.NewTeamMetaRepository(teamMetaRepo, store)
	}

	cleanup := func(context.Context) error { return nil }
	var archiveRepo archive.Repository
	if cfg.ArchiveEnabled {
		db, err := openArchiveDB(ctx, cfg)
		if err != nil {
			return pipeline{}, nil, err
		}
		archiveRepo = postgres.NewArchiveRepository(db)
		cleanup = func(context.Context) error { return db.Close() }
		logger.Info("archive database connected", "db", dbNameFromURL(cfg.DBURL))
	}

	var hook usecase.BuildHookNotifier
	if cfg.BuildHookEnabled {
		hook = buildhook.NewNotifier(buildhook.NotifierConfig{
			HookURL: cfg.BuildHookURL,
			Timeout: cfg.BuildHookTimeout,
			Breaker: resilience.BreakerSettings{
				Enabled:    cfg.BuildHookCircuitEnabled,
				TripAfter:  cfg.BuildHookCircuitFailureCount,
				Cooldown:   cfg.BuildHookCircuitOpenTimeout,
				ProbeQuota: cfg.BuildHookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	digests := usecase.NewDigestService(
		newGameProvider(cfg, logger),
		collegedata.NewStubProvider(),
		opinionRepo,
		draftRepo,
		archiveRepo,
		usecase.NewRecapService(nil),
		usecase.NewPublishService(teamMetaRepo, logger),
		idgen.NewRandomGenerator(),
		hook,
		cfg.DivisionByScope,
		logger,
		nil,
	)

	p := pipeline{
		drafts:  usecase.NewDraftService(draftRepo, cfg.Scopes),
		batch:   usecase.NewBatchService(digests, cfg.Scopes, cfg.BatchMaxWorkers, logger),
		runLogs: usecase.NewRunLogService(archiveRepo),
	}

	return p, cleanup, nil
}

func newGameProvider(cfg config.Config, logger *logging.Logger) usecase.GameDataProvider {
	if !cfg.GameDataEnabled {
		logger.Info("game data client disabled, serving stub dataset", "reason", "GAMEDATA_ENABLED=false")
		return collegedata.NewStubProvider()
	}

	return collegedata.NewClient(collegedata.ClientConfig{
		BaseURL:      cfg.GameDataBaseURL,
		APIKey:       cfg.GameDataAPIKey,
		Timeout:      cfg.GameDataTimeout,
		RateLimitRPS: cfg.GameDataRateLimitRPS,
		Logger:       logger,
		Breaker: resilience.BreakerSettings{
			Enabled:    cfg.GameDataCircuitEnabled,
			TripAfter:  cfg.GameDataCircuitFailureCount,
			Cooldown:   cfg.GameDataCircuitOpenTimeout,
			ProbeQuota: cfg.GameDataCircuitHalfOpenMaxReq,
		},
	})
}

func newTeamMetaRepository(cfg config.Config, logger *logging.Logger) teammeta.Repository {
	if !cfg.TeamDirEnabled {
		return memory.NewTeamMetaRepository(memory.SeedTeamMeta())
	}

	return teamdirectory.NewClient(teamdirectory.ClientConfig{
		BaseURL:         cfg.TeamDirBaseURL,
		LookupPath:      cfg.TeamDirLookupPath,
		Timeout:         cfg.TeamDirTimeout,
		CacheTTL:        cfg.TeamDirCacheTTL,
		CacheMaxEntries: cfg.TeamDirCacheMaxEntries,
		Logger:          logger,
		Breaker: resilience.BreakerSettings{
			Enabled:    cfg.TeamDirCircuitEnabled,
			TripAfter:  cfg.TeamDirCircuitFailureCount,
			Cooldown:   cfg.TeamDirCircuitOpenTimeout,
			ProbeQuota: cfg.TeamDirCircuitHalfOpenMaxReq,
		},
	})
}

// openArchiveDB opens the postgres pool through the otelsql wrapper so every
// archive query shows up as a span under the active trace.
func openArchiveDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect archive database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	return db, nil
}
