// Package parser turns scraped table rows into typed match and tenure candidates.
package parser

import (
	"strings"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

const (
	minMatchColumns  = 9
	matchColumnCount = 10
	minTenureColumns = 7
)

const (
	colRound = iota
	colWeekdayDate
	colKickoff
	colVenue
	colOwnRank
	colCrest
	colOpponent
	colFormation
	colAttendance
	colScore
)

const (
	colTenureName      = 2
	colTenureBirthDate = 3
	colTenureStartDate = 5
	colTenureEndDate   = 6
)

// MatchRow is one fixture row; Competition comes from the heading of the table it sits in.
type MatchRow struct {
	Competition string   `json:"competition"`
	Columns     []string `json:"columns"`
}

// TenureRow is one row of the staff history table.
type TenureRow struct {
	Columns []string `json:"columns"`
}

type Options struct {
	// TenureCutoff drops tenures starting before it. Zero keeps every tenure.
	TenureCutoff time.Time
	// ExcludedNames are source artifacts that are not real coaches.
	ExcludedNames []string
	// MetaCompetitions are aggregate headers the source renders like fixture tables.
	MetaCompetitions []string
}

func DefaultOptions() Options {
	return Options{
		TenureCutoff:     time.Date(2023, time.July, 18, 0, 0, 0, 0, time.UTC),
		ExcludedNames:    []string{"Pedro Martins"},
		MetaCompetitions: []string{"Os últimos jogos"},
	}
}

type Parser struct {
	cutoff   time.Time
	excluded map[string]struct{}
	meta     map[string]struct{}
}

func New(opts Options) *Parser {
	excluded := make(map[string]struct{}, len(opts.ExcludedNames))
	for _, name := range opts.ExcludedNames {
		if key := normalizeLabel(name); key != "" {
			excluded[key] = struct{}{}
		}
	}
	meta := make(map[string]struct{}, len(opts.MetaCompetitions))
	for _, label := range opts.MetaCompetitions {
		if key := normalizeLabel(label); key != "" {
			meta[key] = struct{}{}
		}
	}

	return &Parser{
		cutoff:   match.DateOnly(opts.TenureCutoff),
		excluded: excluded,
		meta:     meta,
	}
}

// ParseMatch builds a match candidate. The returned error is always a *Rejection.
func (p *Parser) ParseMatch(row MatchRow) (match.Match, error) {
	if len(row.Columns) < minMatchColumns {
		return match.Match{}, reject(ReasonTooFewColumns, "got %d columns, need %d", len(row.Columns), minMatchColumns)
	}

	competition := strings.Join(strings.Fields(row.Competition), " ")
	if _, isMeta := p.meta[normalizeLabel(competition)]; isMeta {
		return match.Match{}, reject(ReasonMetaRow, "competition %q", competition)
	}

	cols := make([]string, matchColumnCount)
	copy(cols, row.Columns)

	weekday, rawDate := splitWeekdayDate(column(cols, colWeekdayDate))
	date, ok := parseDate(rawDate)
	if !ok {
		return match.Match{}, reject(ReasonInvalidDate, "date %q", rawDate)
	}

	venue := match.ParseVenue(column(cols, colVenue))
	opponent, opponentRank := splitOpponent(column(cols, colOpponent))
	home, away := splitScore(column(cols, colScore))

	goalsFor, goalsAgainst := away, home
	if venue == match.VenueHome {
		goalsFor, goalsAgainst = home, away
	}

	return match.Match{
		Competition:  competition,
		Round:        column(cols, colRound),
		Weekday:      weekday,
		Date:         match.DateOnly(date),
		KickoffTime:  column(cols, colKickoff),
		Venue:        venue,
		OpponentName: opponent,
		OpponentRank: opponentRank,
		OwnRank:      parseRank(column(cols, colOwnRank)),
		Formation:    column(cols, colFormation),
		Attendance:   parseAttendance(column(cols, colAttendance)),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Outcome:      match.DeriveOutcome(goalsFor, goalsAgainst),
	}, nil
}

// ParseTenure builds a tenure candidate. The returned error is always a *Rejection.
func (p *Parser) ParseTenure(row TenureRow) (tenure.Tenure, error) {
	if len(row.Columns) < minTenureColumns {
		return tenure.Tenure{}, reject(ReasonTooFewColumns, "got %d columns, need %d", len(row.Columns), minTenureColumns)
	}

	name := strings.Join(strings.Fields(column(row.Columns, colTenureName)), " ")
	if name == "" {
		return tenure.Tenure{}, reject(ReasonMissingName, "empty name column")
	}

	rawStart := column(row.Columns, colTenureStartDate)
	start, ok := parseDate(rawStart)
	if !ok {
		return tenure.Tenure{}, reject(ReasonInvalidDate, "start date %q", rawStart)
	}
	start = match.DateOnly(start)

	if !p.cutoff.IsZero() && start.Before(p.cutoff) {
		return tenure.Tenure{}, reject(ReasonBeforeCutoff, "%s started %s", name, start.Format(time.DateOnly))
	}
	if _, skip := p.excluded[normalizeLabel(name)]; skip {
		return tenure.Tenure{}, reject(ReasonExcludedName, "%s", name)
	}

	end := optionalDate(column(row.Columns, colTenureEndDate))
	if end != nil && end.Before(start) {
		return tenure.Tenure{}, reject(ReasonInvalidInterval, "%s ends %s before start %s", name, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	return tenure.Tenure{
		Name:      name,
		BirthDate: optionalDate(column(row.Columns, colTenureBirthDate)),
		StartDate: start,
		EndDate:   end,
	}, nil
}
