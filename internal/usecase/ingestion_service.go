package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/parser"
	idgen "github.com/riskibarqy/coach-ledger/internal/platform/id"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

// Kind names the entity a batch carries.
type Kind string

const (
	KindMatch  Kind = "MATCH"
	KindTenure Kind = "TENURE"
)

const defaultIngestWorkers = 4

// IngestReport summarises one ingestion run. Reasons counts rejections by parser reason.
type IngestReport struct {
	RunID       uuid.UUID
	Kind        Kind
	Accepted    int
	Rejected    int
	Reasons     map[string]int
	CollectedAt time.Time
}

func (r *IngestReport) reject(reason string) {
	r.Rejected++
	r.Reasons[reason]++
}

type cacheInvalidator interface {
	Purge(ctx context.Context)
}

type IngestionService struct {
	parser     *parser.Parser
	matchRepo  match.Repository
	tenureRepo tenure.Repository
	cache      cacheInvalidator
	ids        idgen.Generator
	metrics    Metrics
	logger     *logging.Logger
	workers    int
	now        func() time.Time

	// writeMu serialises batches; parsing runs outside it.
	writeMu sync.Mutex
}

func NewIngestionService(
	p *parser.Parser,
	matchRepo match.Repository,
	tenureRepo tenure.Repository,
	cache cacheInvalidator,
	ids idgen.Generator,
	metrics Metrics,
	logger *logging.Logger,
	workers int,
) *IngestionService {
	if p == nil {
		p = parser.New(parser.DefaultOptions())
	}
	if ids == nil {
		ids = idgen.NewTimeOrderedGenerator()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultIngestWorkers
	}

	return &IngestionService{
		parser:     p,
		matchRepo:  matchRepo,
		tenureRepo: tenureRepo,
		cache:      cache,
		ids:        ids,
		metrics:    metrics,
		logger:     logger.Named("ingest"),
		workers:    workers,
		now:        time.Now,
	}
}

// IngestMatches parses and stores fixture rows. Rejected rows never abort the batch; a storage
// failure does, leaving earlier rows committed.
func (s *IngestionService) IngestMatches(ctx context.Context, rows []parser.MatchRow) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestMatches")
	defer span.End()

	return ingest(ctx, s, KindMatch, rows, s.parser.ParseMatch, func(ctx context.Context, item match.Match, collectedAt time.Time) error {
		item.CollectedAt = collectedAt
		if _, err := s.matchRepo.Upsert(ctx, item); err != nil {
			return fmt.Errorf("upsert match %s: %w", item.Key(), err)
		}
		return nil
	})
}

// IngestTenures parses and stores staff history rows.
func (s *IngestionService) IngestTenures(ctx context.Context, rows []parser.TenureRow) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestTenures")
	defer span.End()

	return ingest(ctx, s, KindTenure, rows, s.parser.ParseTenure, func(ctx context.Context, item tenure.Tenure, collectedAt time.Time) error {
		item.CollectedAt = collectedAt
		if _, err := s.tenureRepo.Upsert(ctx, item); err != nil {
			return fmt.Errorf("upsert tenure %s: %w", item.Key(), err)
		}
		return nil
	})
}

type parsed[T any] struct {
	value T
	err   error
}

func ingest[R, T any](
	ctx context.Context,
	s *IngestionService,
	kind Kind,
	rows []R,
	parse func(R) (T, error),
	store func(context.Context, T, time.Time) error,
) (IngestReport, error) {
	started := s.now()
	runID, err := s.ids.NewID()
	if err != nil {
		return IngestReport{}, fmt.Errorf("generate run id: %w", err)
	}
	report := IngestReport{
		RunID:       runID,
		Kind:        kind,
		Reasons:     make(map[string]int),
		CollectedAt: match.DateOnly(started),
	}
	logger := s.logger.With("run_id", runID.String(), "kind", string(kind))

	results, err := parseConcurrently(ctx, s.workers, rows, parse)
	if err != nil {
		return report, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for idx, result := range results {
		if result.err != nil {
			reason := string(parser.ReasonOf(result.err))
			if reason == "" {
				reason = "unknown"
			}
			report.reject(reason)
			s.metrics.IngestRow(kind, false)
			s.metrics.IngestRejection(kind, reason)
			logger.DebugContext(ctx, "row rejected", "row", idx, "reason", reason, "error", result.err)
			continue
		}

		if err := store(ctx, result.value, report.CollectedAt); err != nil {
			s.invalidate(ctx)
			return report, err
		}
		report.Accepted++
		s.metrics.IngestRow(kind, true)
	}

	s.invalidate(ctx)
	elapsed := s.now().Sub(started)
	s.metrics.IngestDuration(kind, elapsed)
	logger.InfoContext(ctx, "ingest finished",
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"duration", elapsed,
	)
	return report, nil
}

func (s *IngestionService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Purge(ctx)
	}
}

// parseConcurrently parses rows on a bounded pool and returns results in input order.
func parseConcurrently[R, T any](ctx context.Context, workers int, rows []R, parse func(R) (T, error)) ([]parsed[T], error) {
	results := make([]parsed[T], len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(min(workers, len(rows)))
	if err != nil {
		return nil, fmt.Errorf("create parse pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range rows {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		idx := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[idx] = parseRow(rows[idx], parse)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit parse task: %w", submitErr)
		}
	}
	wg.Wait()

	return results, nil
}

func parseRow[R, T any](row R, parse func(R) (T, error)) parsed[T] {
	var out parsed[T]
	var catcher panics.Catcher
	catcher.Try(func() {
		out.value, out.err = parse(row)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return parsed[T]{err: &parser.Rejection{Reason: parser.ReasonPanic, Detail: fmt.Sprint(recovered.Value)}}
	}
	return out
}
