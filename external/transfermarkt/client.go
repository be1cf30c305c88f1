package transfermarkt

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/coach-ledger/internal/parser"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/platform/resilience"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

const (
	defaultBaseURL   = "https://www.transfermarkt.com.br"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"
	maxBodySize      = 8 << 20
	maxRedirects     = 3
)

var errTransient = crerr.New("transfermarkt transient failure")

type ClientConfig struct {
	BaseURL        string
	ClubID         string
	ClubSlug       string
	UserAgent      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Dial replaces the TCP dialer; tests point it at an in-memory listener.
	Dial func(addr string) (net.Conn, error)
}

type Client struct {
	http      *fasthttp.Client
	baseURL   string
	clubID    string
	clubSlug  string
	userAgent string
	logger    *logging.Logger
	breaker   *resilience.CircuitBreaker
	flight    resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := &fasthttp.Client{
		Name:                "coach-ledger",
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxResponseBodySize: maxBodySize,
		MaxConnsPerHost:     4,
	}
	if cfg.Dial != nil {
		httpClient.Dial = cfg.Dial
	}

	breaker := resilience.NewCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker))
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("transfermarkt circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		clubID:    strings.TrimSpace(cfg.ClubID),
		clubSlug:  strings.TrimSpace(cfg.ClubSlug),
		userAgent: userAgent,
		logger:    logger,
		breaker:   breaker,
	}
}

// FixturesURL is the club's fixtures page for a season id. Season ids name the year a season
// starts, so the calendar-year Brazilian season 2025 is season id 2024.
func (c *Client) FixturesURL(season int) string {
	return fmt.Sprintf("%s/%s/spielplan/verein/%s/saison_id/%d", c.baseURL, c.clubSlug, c.clubID, season)
}

func (c *Client) StaffHistoryURL() string {
	return fmt.Sprintf("%s/%s/mitarbeiterhistorie/verein/%s", c.baseURL, c.clubSlug, c.clubID)
}

func (c *Client) FetchMatchRows(ctx context.Context, season int) ([]parser.MatchRow, error) {
	if season <= 0 {
		return nil, crerr.Newf("season must be positive, got %d", season)
	}
	body, err := c.fetch(ctx, c.FixturesURL(season))
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch fixtures season=%d", season)
	}
	rows, err := ExtractMatchRows(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "fixtures page extracted", "season", season, "rows", len(rows))
	return rows, nil
}

func (c *Client) FetchTenureRows(ctx context.Context) ([]parser.TenureRow, error) {
	body, err := c.fetch(ctx, c.StaffHistoryURL())
	if err != nil {
		return nil, crerr.Wrap(err, "fetch staff history")
	}
	rows, err := ExtractTenureRows(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "staff history page extracted", "rows", len(rows))
	return rows, nil
}

// fetch shares concurrent requests for the same URL and runs each through the circuit breaker.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	out, err, _ := c.flight.Do(url, func() (any, error) {
		var body []byte
		execErr := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var reqErr error
			body, reqErr = c.get(ctx, url)
			return reqErr
		})
		return body, execErr
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "transfermarkt circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrapf(usecase.ErrDependencyUnavailable, "transfermarkt: %v", err)
		}
		return nil, err
	}

	body, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)
	req.Header.Set(fasthttp.HeaderAccept, "text/html")

	if err := c.http.DoRedirects(req, resp, maxRedirects); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "GET %s", url), errTransient)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		err := crerr.Newf("GET %s: status=%d", url, status)
		if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
			err = crerr.Mark(err, errTransient)
		}
		return nil, err
	}

	return append([]byte(nil), resp.Body()...), nil
}

// IsTransient reports whether err came from the network or an overloaded upstream.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}
