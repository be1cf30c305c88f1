package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/coach-ledger/internal/parser"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

// Ingester stores parsed source rows.
type Ingester interface {
	IngestMatches(ctx context.Context, rows []parser.MatchRow) (usecase.IngestReport, error)
	IngestTenures(ctx context.Context, rows []parser.TenureRow) (usecase.IngestReport, error)
}

// Scraper fetches source rows from the club pages.
type Scraper interface {
	FetchMatchRows(ctx context.Context, season int) ([]parser.MatchRow, error)
	FetchTenureRows(ctx context.Context) ([]parser.TenureRow, error)
}

type Deps struct {
	Ingestion Ingester
	Scraper   Scraper
	Logger    *logging.Logger
	Schedule  string
	Now       func() time.Time
}

// NewRootCmd builds the coach-ledger-ingest command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:           "coach-ledger-ingest",
		Short:         "Load match results and coach tenures into the ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newMatchesCmd(deps),
		newTenuresCmd(deps),
		newScrapeCmd(deps),
		newScheduleCmd(deps),
	)
	return cmd
}

func newMatchesCmd(deps Deps) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Ingest fixture rows from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []parser.MatchRow
			if err := decodeRows(cmd, file, &rows); err != nil {
				return err
			}
			report, err := deps.Ingestion.IngestMatches(cmd.Context(), rows)
			if err != nil {
				return fmt.Errorf("ingest matches: %w", err)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of match rows, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTenuresCmd(deps Deps) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "tenures",
		Short: "Ingest staff history rows from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []parser.TenureRow
			if err := decodeRows(cmd, file, &rows); err != nil {
				return err
			}
			report, err := deps.Ingestion.IngestTenures(cmd.Context(), rows)
			if err != nil {
				return fmt.Errorf("ingest tenures: %w", err)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of tenure rows, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newScrapeCmd(deps Deps) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch fixtures and staff history and ingest both",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if season <= 0 {
				season = defaultSeason(deps.Now())
			}
			reports, err := scrape(cmd.Context(), deps, season)
			if err != nil {
				return err
			}
			for _, report := range reports {
				if err := printReport(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season id (start year); defaults to last year")
	return cmd
}

func newScheduleCmd(deps Deps) *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run scrape on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd.Context(), deps, expr)
		},
	}
	cmd.Flags().StringVar(&expr, "cron", deps.Schedule, "cron expression or descriptor such as @daily")
	return cmd
}

func runSchedule(ctx context.Context, deps Deps, expr string) error {
	if expr == "" {
		expr = "@daily"
	}

	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		season := defaultSeason(deps.Now())
		if _, err := scrape(runCtx, deps, season); err != nil {
			deps.Logger.Error("scheduled scrape failed", "season", season, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	c.Start()
	deps.Logger.Info("ingest scheduler started", "schedule", expr)

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	deps.Logger.Info("ingest scheduler stopped")
	return nil
}

func scrape(ctx context.Context, deps Deps, season int) ([]usecase.IngestReport, error) {
	tenureRows, err := deps.Scraper.FetchTenureRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch staff history: %w", err)
	}
	matchRows, err := deps.Scraper.FetchMatchRows(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures season=%d: %w", season, err)
	}

	tenureReport, err := deps.Ingestion.IngestTenures(ctx, tenureRows)
	if err != nil {
		return nil, fmt.Errorf("ingest tenures: %w", err)
	}
	matchReport, err := deps.Ingestion.IngestMatches(ctx, matchRows)
	if err != nil {
		return nil, fmt.Errorf("ingest matches: %w", err)
	}

	deps.Logger.InfoContext(ctx, "scrape ingested",
		"season", season,
		"tenures_accepted", tenureReport.Accepted,
		"matches_accepted", matchReport.Accepted,
		"matches_rejected", matchReport.Rejected,
	)
	return []usecase.IngestReport{tenureReport, matchReport}, nil
}

// defaultSeason is the season that started last calendar year.
func defaultSeason(now time.Time) int {
	return now.Year() - 1
}

func decodeRows(cmd *cobra.Command, file string, out any) error {
	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode rows from %s: %w", file, err)
	}
	return nil
}

type reportOutput struct {
	RunID       string         `json:"run_id"`
	Kind        string         `json:"kind"`
	Accepted    int            `json:"accepted"`
	Rejected    int            `json:"rejected"`
	Reasons     map[string]int `json:"reasons,omitempty"`
	CollectedAt time.Time      `json:"collected_at"`
}

func printReport(w io.Writer, report usecase.IngestReport) error {
	raw, err := sonic.Marshal(reportOutput{
		RunID:       report.RunID.String(),
		Kind:        string(report.Kind),
		Accepted:    report.Accepted,
		Rejected:    report.Rejected,
		Reasons:     report.Reasons,
		CollectedAt: report.CollectedAt,
	})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
