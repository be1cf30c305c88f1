package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/config"
	"github.com/riskibarqy/coach-ledger/internal/domain/stats"
	"github.com/riskibarqy/coach-ledger/internal/observability"
	"github.com/riskibarqy/coach-ledger/internal/parser"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		HTTPAddr:               ":0",
		StoreDriver:            config.StoreMemory,
		CacheEnabled:           true,
		CacheTTL:               time.Minute,
		IngestWorkers:          2,
		IngestTenureCutoff:     time.Date(2023, time.July, 18, 0, 0, 0, 0, time.UTC),
		IngestExcludedCoaches:  []string{"Pedro Martins"},
		IngestMetaCompetitions: []string{"Os últimos jogos"},
	}
}

func TestOpenStores_MemorySeedsInDev(t *testing.T) {
	stores, err := OpenStores(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	defer stores.Close()

	tenures, err := stores.Tenures.List(context.Background())
	if err != nil {
		t.Fatalf("list tenures: %v", err)
	}
	if len(tenures) == 0 {
		t.Fatalf("expected seeded tenures in dev")
	}
}

func TestOpenStores_MemoryEmptyOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = config.EnvProd

	stores, err := OpenStores(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	if _, ok, _ := stores.Matches.Latest(context.Background()); ok {
		t.Fatalf("expected empty match store outside dev")
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"

	if _, err := OpenStores(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNewHTTPServer_ServesMetricsAndStats(t *testing.T) {
	cfg := testConfig()
	logger := logging.NewNop()
	stores, err := OpenStores(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	metrics := observability.NewMetrics()
	services := NewServices(cfg, stores, metrics, logger)

	srv, err := NewHTTPServer(cfg, services, metrics, logger)
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	for _, path := range []string{"/v1/stats", "/metrics"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, Services{}, nil, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestServices_IngestInvalidatesStats(t *testing.T) {
	cfg := testConfig()
	logger := logging.NewNop()
	stores, err := OpenStores(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	services := NewServices(cfg, stores, nil, logger)
	ctx := context.Background()

	before, err := services.Stats.Stats(ctx, usecaseAll())
	if err != nil {
		t.Fatalf("stats before ingest: %v", err)
	}

	report, err := services.Ingestion.IngestMatches(ctx, []parser.MatchRow{{
		Competition: "Série A",
		Columns:     []string{"4", "Dom 20/04/2025", "16:00", "C", "(2.)", "", "Bahia (7.)", "4-3-3", "50.000", "3:0"},
	}})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if report.Accepted != 1 {
		t.Fatalf("expected 1 accepted row, got %+v", report)
	}

	after, err := services.Stats.Stats(ctx, usecaseAll())
	if err != nil {
		t.Fatalf("stats after ingest: %v", err)
	}
	if gamesOf(after) != gamesOf(before)+1 {
		t.Fatalf("expected cached stats to be invalidated: before=%d after=%d", gamesOf(before), gamesOf(after))
	}
}

func TestParserOptions(t *testing.T) {
	opts := ParserOptions(testConfig())
	if len(opts.ExcludedNames) != 1 || opts.ExcludedNames[0] != "Pedro Martins" {
		t.Fatalf("unexpected excluded names: %v", opts.ExcludedNames)
	}
	if opts.TenureCutoff.IsZero() {
		t.Fatalf("expected cutoff to be carried over")
	}
}

func usecaseAll() usecase.StatsQuery {
	return usecase.StatsQuery{GroupBy: usecase.StatsGroupAll}
}

func gamesOf(rows []stats.Row) int {
	total := 0
	for _, row := range rows {
		total += row.Games
	}
	return total
}
