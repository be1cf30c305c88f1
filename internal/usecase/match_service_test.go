package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/coach-ledger/internal/mocks/domain/match"
	tenuremock "github.com/riskibarqy/coach-ledger/internal/mocks/domain/tenure"
)

func seededMatchService(t *testing.T, count int) (*MatchService, *memory.MatchRepository) {
	t.Helper()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository(nil)
	start := day(2024, time.January, 1)
	for i := 0; i < count; i++ {
		// Pairs of matches share a date so ordering has to fall back to id.
		date := start.AddDate(0, 0, i/2)
		if _, err := matchRepo.Upsert(ctx, resolvedMatch("Série A", fmt.Sprintf("%d", i), date, i%3, 1)); err != nil {
			t.Fatalf("seed match: %v", err)
		}
	}
	tenureRepo := memory.NewTenureRepository([]tenure.Tenure{
		{Name: "Tite", StartDate: day(2023, time.October, 9), EndDate: timePtr(day(2024, time.January, 3))},
		{Name: "Filipe Luís", StartDate: day(2024, time.January, 4)},
	})
	return NewMatchService(matchRepo, tenureRepo, nil, nil), matchRepo
}

func TestMatchService_List_PaginationIsDeterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, matchRepo := seededMatchService(t, 9)

	full, err := matchRepo.List(ctx, match.Filter{})
	if err != nil {
		t.Fatalf("list full: %v", err)
	}

	var (
		collected []int64
		seen      = make(map[int64]bool)
	)
	for page := 1; ; page++ {
		got, err := service.List(ctx, MatchQuery{Page: page, PageSize: 2})
		if err != nil {
			t.Fatalf("list page %d: %v", page, err)
		}
		if got.Total != 9 || got.TotalPages != 5 {
			t.Fatalf("unexpected totals on page %d: total=%d pages=%d", page, got.Total, got.TotalPages)
		}
		for _, item := range got.Items {
			if seen[item.Match.ID] {
				t.Fatalf("match %d returned twice", item.Match.ID)
			}
			seen[item.Match.ID] = true
			collected = append(collected, item.Match.ID)
		}
		if !got.HasNext {
			break
		}
	}

	if len(collected) != len(full.Items) {
		t.Fatalf("expected %d matches across pages, got %d", len(full.Items), len(collected))
	}
	for i, item := range full.Items {
		if collected[i] != item.ID {
			t.Fatalf("position %d: got id %d want %d", i, collected[i], item.ID)
		}
	}
}

func TestMatchService_List_AttributesTenure(t *testing.T) {
	t.Parallel()

	service, _ := seededMatchService(t, 10)
	got, err := service.List(context.Background(), MatchQuery{PageSize: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Page != DefaultPage || got.HasPrevious {
		t.Fatalf("unexpected paging defaults: %+v", got)
	}

	for _, item := range got.Items {
		if item.Tenure == nil {
			t.Fatalf("expected every match to have a tenure, match %d has none", item.Match.ID)
		}
		want := "Filipe Luís"
		if !item.Match.Date.After(day(2024, time.January, 3)) {
			want = "Tite"
		}
		if item.Tenure.Name != want {
			t.Fatalf("match on %s attributed to %s, want %s", item.Match.Date.Format(time.DateOnly), item.Tenure.Name, want)
		}
	}
}

func TestMatchService_List_InvalidPaging(t *testing.T) {
	t.Parallel()

	service, _ := seededMatchService(t, 1)
	cases := []MatchQuery{
		{Page: -1},
		{PageSize: MaxPageSize + 1},
		{PageSize: -5},
		{Year: intPtr(0)},
	}
	for _, query := range cases {
		if _, err := service.List(context.Background(), query); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("query %+v: expected ErrInvalidInput, got %v", query, err)
		}
	}
}

func TestMatchService_ListByTenure(t *testing.T) {
	t.Parallel()

	service, _ := seededMatchService(t, 10)

	got, err := service.ListByTenure(context.Background(), 1, 1, 50)
	if err != nil {
		t.Fatalf("list by tenure: %v", err)
	}
	// Tite covers 2024-01-01..2024-01-03, two matches per day.
	if got.Total != 6 {
		t.Fatalf("expected 6 matches in Tite's tenure, got %d", got.Total)
	}

	if _, err := service.ListByTenure(context.Background(), 99, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_Latest_EmptyStoreUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	tenureRepo := tenuremock.NewRepository(t)
	service := NewMatchService(matchRepo, tenureRepo, nil, nil)

	matchRepo.
		On("Latest", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return(match.Match{}, false, nil).
		Once()

	if _, err := service.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_Latest_WithTenureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	tenureRepo := tenuremock.NewRepository(t)
	service := NewMatchService(matchRepo, tenureRepo, nil, nil)

	latest := resolvedMatch("Série A", "3", day(2025, time.April, 13), 1, 1)
	latest.ID = 42
	matchRepo.
		On("Latest", mock.Anything).
		Return(latest, true, nil).
		Once()
	tenureRepo.
		On("List", mock.Anything).
		Return([]tenure.Tenure{{ID: 2, Name: "Filipe Luís", StartDate: day(2024, time.October, 1)}}, nil).
		Once()

	got, err := service.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Match.ID != 42 || got.Tenure == nil || got.Tenure.ID != 2 {
		t.Fatalf("unexpected latest: %+v", got)
	}
}

func TestMatchService_List_CountsAmbiguousAttribution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository([]match.Match{resolvedMatch("Série A", "1", day(2024, time.March, 10), 1, 0)})
	tenures := &staticTenures{items: []tenure.Tenure{
		{ID: 1, Name: "Long", StartDate: day(2024, time.January, 1)},
		{ID: 2, Name: "Caretaker", StartDate: day(2024, time.March, 1), EndDate: timePtr(day(2024, time.March, 31))},
	}}
	metrics := newRecordingMetrics()
	service := NewMatchService(matchRepo, tenures, metrics, nil)

	got, err := service.List(ctx, MatchQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Items[0].Tenure == nil || got.Items[0].Tenure.ID != 2 {
		t.Fatalf("expected latest-start tenure to win, got %+v", got.Items[0].Tenure)
	}
	if metrics.ambiguous != 1 {
		t.Fatalf("expected one ambiguous attribution, got %d", metrics.ambiguous)
	}
}
