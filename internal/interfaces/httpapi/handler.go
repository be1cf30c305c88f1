package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

type Handler struct {
	matchService  *usecase.MatchService
	tenureService *usecase.TenureService
	statsService  *usecase.StatsService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	tenureService *usecase.TenureService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:  matchService,
		tenureService: tenureService,
		statsService:  statsService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	req, err := bindListMatchesRequest(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.matchService.List(ctx, usecase.MatchQuery{
		Year:        req.Year,
		Competition: req.Competition,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPageToDTO(page))
}

func (h *Handler) GetLatestMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestMatch")
	defer span.End()

	item, err := h.matchService.Latest(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get latest match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListTenures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTenures")
	defer span.End()

	items, err := h.tenureService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tenures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tenureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tenureToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTenure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTenure")
	defer span.End()

	id, err := parseTenureID(r.PathValue("tenureID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.tenureService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get tenure failed", "tenure_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tenureToDTO(item))
}

func (h *Handler) ListTenureMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTenureMatches")
	defer span.End()

	id, err := parseTenureID(r.PathValue("tenureID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req, err := bindPagingRequest(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.matchService.ListByTenure(ctx, id, req.Page, req.PageSize)
	if err != nil {
		h.logger.WarnContext(ctx, "list tenure matches failed", "tenure_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPageToDTO(page))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	h.writeStats(ctx, w, r, nil)
}

func (h *Handler) GetTenureStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTenureStats")
	defer span.End()

	id, err := parseTenureID(r.PathValue("tenureID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeStats(ctx, w, r, &id)
}

func (h *Handler) writeStats(ctx context.Context, w http.ResponseWriter, r *http.Request, tenureID *int64) {
	req, err := bindStatsRequest(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	group, err := usecase.ParseStatsGroup(req.GroupBy)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.statsService.Stats(ctx, usecase.StatsQuery{
		GroupBy:  group,
		TenureID: tenureID,
		Year:     req.Year,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "stats failed", "group_by", group, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsRowsToDTO(rows))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
