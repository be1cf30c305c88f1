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

	"github.com/riskibarqy/coach-ledger/external/transfermarkt"
	"github.com/riskibarqy/coach-ledger/internal/config"
	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/stats"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	cachedrepo "github.com/riskibarqy/coach-ledger/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/coach-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/coach-ledger/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/coach-ledger/internal/interfaces/httpapi"
	"github.com/riskibarqy/coach-ledger/internal/observability"
	"github.com/riskibarqy/coach-ledger/internal/parser"
	"github.com/riskibarqy/coach-ledger/internal/platform/cache"
	idgen "github.com/riskibarqy/coach-ledger/internal/platform/id"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

// Stores holds the repositories of the configured driver.
type Stores struct {
	Matches match.Repository
	Tenures tenure.Repository
	db      *sqlx.DB
}

func (s Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStores opens postgres through the otel-instrumented driver, or builds memory repositories
// seeded with sample data in dev.
func OpenStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		var (
			matches []match.Match
			tenures []tenure.Tenure
		)
		if cfg.AppEnv == config.EnvDev {
			matches, tenures = memory.SeedMatches(), memory.SeedTenures()
		}
		logger.Info("using memory store", "seeded", len(matches) > 0)
		return Stores{
			Matches: memory.NewMatchRepository(matches),
			Tenures: memory.NewTenureRepository(tenures),
		}, nil
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return Stores{}, err
		}
		logger.Info("using postgres store", "db_name", dbNameFromURL(cfg.DBURL))
		return Stores{
			Matches: postgres.NewMatchRepository(db),
			Tenures: postgres.NewTenureRepository(db),
			db:      db,
		}, nil
	default:
		return Stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := DatabaseURL(cfg)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", usecase.ErrDependencyUnavailable, err)
	}
	return db, nil
}

// Services is the usecase layer wired over one set of stores.
type Services struct {
	Matches   *usecase.MatchService
	Tenures   *usecase.TenureService
	Stats     *usecase.StatsService
	Ingestion *usecase.IngestionService
}

func NewServices(cfg config.Config, stores Stores, metrics usecase.Metrics, logger *logging.Logger) Services {
	var statsService *usecase.StatsService
	var ingestion *usecase.IngestionService

	p := parser.New(ParserOptions(cfg))
	ids := idgen.NewTimeOrderedGenerator()
	var tenures tenure.Repository = stores.Tenures
	if cfg.CacheEnabled {
		tenures = cachedrepo.NewTenureRepository(stores.Tenures, cache.NewStore[any](cfg.CacheTTL))
		statsCache := cache.NewStore[[]stats.Row](cfg.CacheTTL)
		statsService = usecase.NewStatsService(stores.Matches, tenures, statsCache, metrics, logger)
		ingestion = usecase.NewIngestionService(p, stores.Matches, tenures, statsCache, ids, metrics, logger, cfg.IngestWorkers)
	} else {
		statsService = usecase.NewStatsService(stores.Matches, tenures, nil, metrics, logger)
		ingestion = usecase.NewIngestionService(p, stores.Matches, tenures, nil, ids, metrics, logger, cfg.IngestWorkers)
	}

	return Services{
		Matches:   usecase.NewMatchService(stores.Matches, tenures, metrics, logger),
		Tenures:   usecase.NewTenureService(tenures),
		Stats:     statsService,
		Ingestion: ingestion,
	}
}

func ParserOptions(cfg config.Config) parser.Options {
	return parser.Options{
		TenureCutoff:     cfg.IngestTenureCutoff,
		ExcludedNames:    cfg.IngestExcludedCoaches,
		MetaCompetitions: cfg.IngestMetaCompetitions,
	}
}

func NewHTTPServer(cfg config.Config, services Services, metrics *observability.Metrics, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(services.Matches, services.Tenures, services.Stats, logger)
	opts := httpapi.RouterOptions{CORSAllowedOrigins: cfg.CORSAllowedOrigins}
	if metrics != nil {
		opts.MetricsHandler = metrics.Handler()
		opts.Observer = metrics
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, logger, opts),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}

func NewScraper(cfg config.Config, logger *logging.Logger) *transfermarkt.Client {
	return transfermarkt.NewClient(transfermarkt.ClientConfig{
		BaseURL:        cfg.ScrapeBaseURL,
		ClubID:         cfg.ScrapeClubID,
		ClubSlug:       cfg.ScrapeClubSlug,
		Timeout:        cfg.ScrapeTimeout,
		Logger:         logger.Named("transfermarkt"),
		CircuitBreaker: cfg.ScrapeCircuit,
	})
}
