package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/stats"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

type StatsGroup string

const (
	StatsGroupAll            StatsGroup = "ALL"
	StatsGroupPerCompetition StatsGroup = "PER_COMPETITION"
)

// ParseStatsGroup accepts all and per_competition in any case; empty means ALL.
func ParseStatsGroup(value string) (StatsGroup, error) {
	switch StatsGroup(strings.ToUpper(strings.TrimSpace(value))) {
	case "", StatsGroupAll:
		return StatsGroupAll, nil
	case StatsGroupPerCompetition:
		return StatsGroupPerCompetition, nil
	default:
		return "", fmt.Errorf("%w: unknown group_by %q", ErrInvalidInput, value)
	}
}

type StatsQuery struct {
	GroupBy  StatsGroup
	TenureID *int64
	Year     *int
}

func (q StatsQuery) cacheKey() string {
	var b strings.Builder
	b.WriteString("stats:")
	b.WriteString(string(q.GroupBy))
	b.WriteString(":tenure=")
	if q.TenureID != nil {
		b.WriteString(strconv.FormatInt(*q.TenureID, 10))
	}
	b.WriteString(":year=")
	if q.Year != nil {
		b.WriteString(strconv.Itoa(*q.Year))
	}
	return b.String()
}

type statsCache interface {
	GetOrLoad(ctx context.Context, key string, loader func(context.Context) ([]stats.Row, error)) ([]stats.Row, error)
}

type StatsService struct {
	matchRepo  match.Repository
	tenureRepo tenure.Repository
	cache      statsCache
	attributor attributor
}

// NewStatsService builds the service; a nil cache computes every query.
func NewStatsService(matchRepo match.Repository, tenureRepo tenure.Repository, cache statsCache, metrics Metrics, logger *logging.Logger) *StatsService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		matchRepo:  matchRepo,
		tenureRepo: tenureRepo,
		cache:      cache,
		attributor: attributor{tenureRepo: tenureRepo, metrics: metrics, logger: logger},
	}
}

// Stats aggregates resolved matches by tenure, or by tenure and competition. With a TenureID
// it returns that tenure's detail: a single row for ALL, one row per competition otherwise.
func (s *StatsService) Stats(ctx context.Context, query StatsQuery) ([]stats.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Stats")
	defer span.End()

	group, err := ParseStatsGroup(string(query.GroupBy))
	if err != nil {
		return nil, err
	}
	query.GroupBy = group
	if query.Year != nil && *query.Year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	var selected *tenure.Tenure
	if query.TenureID != nil {
		item, err := getTenure(ctx, s.tenureRepo, *query.TenureID)
		if err != nil {
			return nil, err
		}
		selected = &item
	}

	if s.cache == nil {
		return s.compute(ctx, query, selected)
	}
	rows, err := s.cache.GetOrLoad(ctx, query.cacheKey(), func(ctx context.Context) ([]stats.Row, error) {
		return s.compute(ctx, query, selected)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(rows), nil
}

func (s *StatsService) compute(ctx context.Context, query StatsQuery, selected *tenure.Tenure) ([]stats.Row, error) {
	filter := match.Filter{Year: query.Year}
	if selected != nil {
		start := selected.StartDate
		filter.From = &start
		filter.To = selected.EndDate
	}

	result, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	timeline, err := s.attributor.timeline(ctx)
	if err != nil {
		return nil, err
	}

	attributed := s.attributor.attribute(ctx, timeline, result.Items)
	items := make([]stats.Attributed, 0, len(attributed))
	for _, item := range attributed {
		if selected != nil && (item.Tenure == nil || item.Tenure.ID != selected.ID) {
			continue
		}
		items = append(items, stats.Attributed{Match: item.Match, Tenure: item.Tenure})
	}

	groupBy := stats.GroupByTenure
	switch {
	case query.GroupBy == StatsGroupPerCompetition:
		groupBy = stats.GroupByTenureCompetition
	case selected != nil:
		groupBy = stats.GroupByNone
	}

	rows := stats.Aggregate(items, groupBy)
	if groupBy == stats.GroupByNone && rows[0].TenureID == nil {
		rows[0] = detailWithoutGames(*selected)
	}
	return rows, nil
}

// detailWithoutGames describes a tenure with no resolved matches; Percentage stays nil.
func detailWithoutGames(t tenure.Tenure) stats.Row {
	id, start := t.ID, t.StartDate
	return stats.Row{
		TenureID:        &id,
		TenureName:      t.Name,
		TenureStartDate: &start,
		TenureEndDate:   t.EndDate,
	}
}
