package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 500
)

type MatchQuery struct {
	Year        *int
	Competition string
	Page        int
	PageSize    int
}

type MatchPage struct {
	Total       int
	Page        int
	PageSize    int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	Items       []AttributedMatch
}

type MatchService struct {
	matchRepo  match.Repository
	tenureRepo tenure.Repository
	attributor attributor
}

func NewMatchService(matchRepo match.Repository, tenureRepo tenure.Repository, metrics Metrics, logger *logging.Logger) *MatchService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		tenureRepo: tenureRepo,
		attributor: attributor{tenureRepo: tenureRepo, metrics: metrics, logger: logger},
	}
}

// List returns one page of matches, newest first, each paired with its tenure.
func (s *MatchService) List(ctx context.Context, query MatchQuery) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	page, pageSize, err := normalizePaging(query.Page, query.PageSize)
	if err != nil {
		return MatchPage{}, err
	}
	if query.Year != nil && *query.Year <= 0 {
		return MatchPage{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	return s.listPage(ctx, match.Filter{
		Year:        query.Year,
		Competition: strings.TrimSpace(query.Competition),
	}, page, pageSize)
}

// ListByTenure pages through matches played while the tenure was active.
func (s *MatchService) ListByTenure(ctx context.Context, tenureID int64, page, pageSize int) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTenure")
	defer span.End()

	page, pageSize, err := normalizePaging(page, pageSize)
	if err != nil {
		return MatchPage{}, err
	}
	item, err := getTenure(ctx, s.tenureRepo, tenureID)
	if err != nil {
		return MatchPage{}, err
	}

	start := item.StartDate
	return s.listPage(ctx, match.Filter{From: &start, To: item.EndDate}, page, pageSize)
}

// Latest returns the most recent match.
func (s *MatchService) Latest(ctx context.Context) (AttributedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Latest")
	defer span.End()

	item, ok, err := s.matchRepo.Latest(ctx)
	if err != nil {
		return AttributedMatch{}, fmt.Errorf("get latest match: %w", err)
	}
	if !ok {
		return AttributedMatch{}, fmt.Errorf("%w: no matches stored", ErrNotFound)
	}

	timeline, err := s.attributor.timeline(ctx)
	if err != nil {
		return AttributedMatch{}, err
	}
	return s.attributor.attribute(ctx, timeline, []match.Match{item})[0], nil
}

func (s *MatchService) listPage(ctx context.Context, filter match.Filter, page, pageSize int) (MatchPage, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	result, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return MatchPage{}, fmt.Errorf("list matches: %w", err)
	}
	timeline, err := s.attributor.timeline(ctx)
	if err != nil {
		return MatchPage{}, err
	}

	totalPages := 0
	if result.Total > 0 {
		totalPages = (result.Total + pageSize - 1) / pageSize
	}
	return MatchPage{
		Total:       result.Total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Items:       s.attributor.attribute(ctx, timeline, result.Items),
	}, nil
}

func normalizePaging(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return 0, 0, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidInput, MaxPageSize)
	}
	return page, pageSize, nil
}

func getTenure(ctx context.Context, repo tenure.Repository, id int64) (tenure.Tenure, error) {
	if id <= 0 {
		return tenure.Tenure{}, fmt.Errorf("%w: tenure id must be positive", ErrInvalidInput)
	}
	item, ok, err := repo.GetByID(ctx, id)
	if err != nil {
		return tenure.Tenure{}, fmt.Errorf("get tenure %d: %w", id, err)
	}
	if !ok {
		return tenure.Tenure{}, fmt.Errorf("%w: tenure %d", ErrNotFound, id)
	}
	return item, nil
}
