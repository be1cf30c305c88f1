package httpapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/coach-ledger/internal/domain/stats"
	"github.com/riskibarqy/coach-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/coach-ledger/internal/platform/cache"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type observedRequest struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observedRequest
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedRequest{method: method, route: route, status: status})
}

// newSeededRouter serves the memory seed: Tite (id 1) won 2-1 on 2023-10-19; Filipe Luís (id 2)
// lost 0-1 on 2024-11-10 and drew 1-1 on 2025-04-13.
func newSeededRouter(t *testing.T, observer RequestObserver) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	tenureRepo := memory.NewTenureRepository(memory.SeedTenures())
	statsCache := cache.NewStore[[]stats.Row](time.Minute)

	handler := NewHandler(
		usecase.NewMatchService(matchRepo, tenureRepo, nil, logger),
		usecase.NewTenureService(tenureRepo),
		usecase.NewStatsService(matchRepo, tenureRepo, statsCache, nil, logger),
		logger,
	)
	return NewRouter(handler, logger, RouterOptions{Observer: observer})
}

func doGet[T any](t *testing.T, router http.Handler, target string, wantStatus int) envelope[T] {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != wantStatus {
		t.Fatalf("GET %s: expected status %d, got %d (body=%s)", target, wantStatus, rec.Code, rec.Body.String())
	}

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("GET %s: unmarshal response: %v", target, err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	router := newSeededRouter(t, nil)
	body := doGet[map[string]string](t, router, "/healthz", http.StatusOK)
	if body.Data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %+v", body.Data)
	}
}

func TestListMatches_PagesNewestFirstWithTenure(t *testing.T) {
	router := newSeededRouter(t, nil)

	body := doGet[matchPageDTO](t, router, "/v1/matches?page_size=2", http.StatusOK)
	page := body.Data
	if page.Total != 3 || page.TotalPages != 2 || !page.HasNext || page.HasPrevious {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	first := page.Items[0]
	if first.Date != "2025-04-13" || first.Outcome == nil || *first.Outcome != "DRAW" {
		t.Fatalf("unexpected first match: %+v", first)
	}
	if first.Tenure == nil || first.Tenure.Name != "Filipe Luís" {
		t.Fatalf("expected Filipe Luís attribution, got %+v", first.Tenure)
	}

	second := doGet[matchPageDTO](t, router, "/v1/matches?page=2&page_size=2", http.StatusOK).Data
	if len(second.Items) != 1 || second.Items[0].Tenure == nil || second.Items[0].Tenure.Name != "Tite" {
		t.Fatalf("unexpected second page: %+v", second.Items)
	}
	if second.HasNext || !second.HasPrevious {
		t.Fatalf("unexpected second page flags: %+v", second)
	}
}

func TestListMatches_Filters(t *testing.T) {
	router := newSeededRouter(t, nil)

	byYear := doGet[matchPageDTO](t, router, "/v1/matches?year=2024", http.StatusOK).Data
	if byYear.Total != 1 || byYear.Items[0].Competition != "Copa do Brasil" {
		t.Fatalf("unexpected year filter result: %+v", byYear)
	}

	byCompetition := doGet[matchPageDTO](t, router, "/v1/matches?competition=S%C3%A9rie+A", http.StatusOK).Data
	if byCompetition.Total != 2 {
		t.Fatalf("expected 2 Série A matches, got %d", byCompetition.Total)
	}
}

func TestListMatches_RejectsBadQuery(t *testing.T) {
	router := newSeededRouter(t, nil)

	for _, target := range []string{
		"/v1/matches?page=-1",
		"/v1/matches?page_size=501",
		"/v1/matches?page=abc",
		"/v1/matches?year=20x4",
	} {
		body := doGet[matchPageDTO](t, router, target, http.StatusBadRequest)
		if body.Error == nil || body.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("GET %s: expected INVALID_ARGUMENT, got %+v", target, body.Error)
		}
	}
}

func TestGetLatestMatch(t *testing.T) {
	router := newSeededRouter(t, nil)

	latest := doGet[matchDTO](t, router, "/v1/matches/latest", http.StatusOK).Data
	if latest.Date != "2025-04-13" || latest.OpponentName != "Grêmio" {
		t.Fatalf("unexpected latest match: %+v", latest)
	}
}

func TestGetLatestMatch_EmptyStoreIsNotFound(t *testing.T) {
	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository(nil)
	tenureRepo := memory.NewTenureRepository(nil)
	handler := NewHandler(
		usecase.NewMatchService(matchRepo, tenureRepo, nil, logger),
		usecase.NewTenureService(tenureRepo),
		usecase.NewStatsService(matchRepo, tenureRepo, nil, nil, logger),
		logger,
	)
	router := NewRouter(handler, logger, RouterOptions{})

	body := doGet[matchDTO](t, router, "/v1/matches/latest", http.StatusNotFound)
	if body.Error == nil || body.Error.Status != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %+v", body.Error)
	}
}

func TestTenureRoutes(t *testing.T) {
	router := newSeededRouter(t, nil)

	list := doGet[[]tenureDTO](t, router, "/v1/tenures", http.StatusOK).Data
	if len(list) != 2 || list[0].Name != "Filipe Luís" || list[0].EndDate != nil {
		t.Fatalf("unexpected tenure list: %+v", list)
	}

	tite := doGet[tenureDTO](t, router, "/v1/tenures/1", http.StatusOK).Data
	if tite.StartDate != "2023-10-09" || tite.EndDate == nil || *tite.EndDate != "2024-09-30" {
		t.Fatalf("unexpected tenure detail: %+v", tite)
	}

	doGet[tenureDTO](t, router, "/v1/tenures/99", http.StatusNotFound)
	doGet[tenureDTO](t, router, "/v1/tenures/abc", http.StatusBadRequest)

	matches := doGet[matchPageDTO](t, router, "/v1/tenures/2/matches", http.StatusOK).Data
	if matches.Total != 2 {
		t.Fatalf("expected 2 matches for tenure 2, got %d", matches.Total)
	}
	doGet[matchPageDTO](t, router, "/v1/tenures/99/matches", http.StatusNotFound)
}

func TestStatsRoutes(t *testing.T) {
	router := newSeededRouter(t, nil)

	all := doGet[[]statsRowDTO](t, router, "/v1/stats", http.StatusOK).Data
	if len(all) != 2 {
		t.Fatalf("expected 2 tenure rows, got %d", len(all))
	}
	if all[0].TenureName != "Tite" || all[0].Percentage == nil || *all[0].Percentage != 100 {
		t.Fatalf("unexpected first row: %+v", all[0])
	}
	if all[1].Games != 2 || all[1].Points != 1 || all[1].PointsPossible != 6 || *all[1].Percentage != 16.67 {
		t.Fatalf("unexpected second row: %+v", all[1])
	}

	perCompetition := doGet[[]statsRowDTO](t, router, "/v1/stats?group_by=per_competition", http.StatusOK).Data
	if len(perCompetition) != 3 {
		t.Fatalf("expected 3 (tenure, competition) rows, got %d", len(perCompetition))
	}

	detail := doGet[[]statsRowDTO](t, router, "/v1/tenures/2/stats", http.StatusOK).Data
	if len(detail) != 1 || detail[0].Draws != 1 || detail[0].Losses != 1 || detail[0].GoalDifference != -1 {
		t.Fatalf("unexpected tenure detail: %+v", detail)
	}

	doGet[[]statsRowDTO](t, router, "/v1/stats?group_by=weekly", http.StatusBadRequest)
	doGet[[]statsRowDTO](t, router, "/v1/tenures/99/stats", http.StatusNotFound)
}

func TestRouter_ObservesMatchedPattern(t *testing.T) {
	observer := &recordingObserver{}
	router := newSeededRouter(t, observer)

	doGet[tenureDTO](t, router, "/v1/tenures/1", http.StatusOK)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rec.Code)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if len(observer.calls) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observer.calls))
	}
	if got := observer.calls[0]; got.route != "GET /v1/tenures/{tenureID}" || got.status != http.StatusOK {
		t.Fatalf("unexpected observation: %+v", got)
	}
	if got := observer.calls[1]; got.route != "unmatched" || got.status != http.StatusNotFound {
		t.Fatalf("unexpected observation: %+v", got)
	}
}
