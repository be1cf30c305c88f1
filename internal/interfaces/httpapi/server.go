package httpapi

import (
	"net/http"

	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
	Observer       RequestObserver
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.MetricsHandler)
	registerMatchRoutes(mux, handler)
	registerTenureRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, opts.Observer, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/latest", handler.GetLatestMatch)
	mux.HandleFunc("GET /v1/stats", handler.GetStats)
}

func registerTenureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tenures", handler.ListTenures)
	mux.HandleFunc("GET /v1/tenures/{tenureID}", handler.GetTenure)
	mux.HandleFunc("GET /v1/tenures/{tenureID}/matches", handler.ListTenureMatches)
	mux.HandleFunc("GET /v1/tenures/{tenureID}/stats", handler.GetTenureStats)
}
