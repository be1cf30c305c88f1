// Package stats computes win/draw/loss records, points and percentages over attributed matches.
package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

type GroupBy string

const (
	GroupByTenure            GroupBy = "TENURE"
	GroupByTenureCompetition GroupBy = "TENURE_COMPETITION"
	GroupByNone              GroupBy = "NONE"
)

// Attributed pairs a match with the tenure in charge on its date; Tenure is nil for "no coach".
type Attributed struct {
	Match  match.Match
	Tenure *tenure.Tenure
}

// Row is one aggregate. Percentage is nil when Games is zero.
type Row struct {
	TenureID        *int64
	TenureName      string
	TenureStartDate *time.Time
	TenureEndDate   *time.Time
	Competition     string
	Games           int
	Wins            int
	Draws           int
	Losses          int
	Points          int
	PointsPossible  int
	Percentage      *float64
	GoalsFor        int
	GoalsAgainst    int
	GoalDifference  int
}

// Aggregate groups resolved matches and returns rows in display order. Matches without an
// outcome are skipped. GroupByNone always yields exactly one row.
func Aggregate(items []Attributed, groupBy GroupBy) []Row {
	groups := make(map[string]*Row)
	order := make([]string, 0)

	if groupBy == GroupByNone {
		groups[""] = &Row{}
		order = append(order, "")
	}

	for _, item := range items {
		if !item.Match.Resolved() {
			continue
		}

		key := groupKey(item, groupBy)
		row, ok := groups[key]
		if !ok {
			row = newRow(item, groupBy)
			groups[key] = row
			order = append(order, key)
		}
		if groupBy == GroupByNone && row.TenureID == nil && item.Tenure != nil {
			fillTenure(row, item.Tenure)
		}
		add(row, item.Match)
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		row := groups[key]
		finish(row)
		out = append(out, *row)
	}

	Sort(out)
	return out
}

// Sort orders rows by percentage desc (undefined last), games desc, then tenure start desc and
// competition asc.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Percentage != nil && b.Percentage == nil:
			return true
		case a.Percentage == nil && b.Percentage != nil:
			return false
		case a.Percentage != nil && b.Percentage != nil && *a.Percentage != *b.Percentage:
			return *a.Percentage > *b.Percentage
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		as, bs := startOf(a), startOf(b)
		if !as.Equal(bs) {
			return as.After(bs)
		}
		return a.Competition < b.Competition
	})
}

// Percentage returns points over points possible as a percentage rounded to two decimals,
// or nil when nothing was possible.
func Percentage(points, possible int) *float64 {
	if possible <= 0 {
		return nil
	}
	value := math.Round(float64(points)/float64(possible)*100*100) / 100
	return &value
}

func groupKey(item Attributed, groupBy GroupBy) string {
	tenureKey := "-"
	if item.Tenure != nil {
		tenureKey = strconv.FormatInt(item.Tenure.ID, 10)
	}

	switch groupBy {
	case GroupByTenureCompetition:
		return tenureKey + "|" + item.Match.Competition
	case GroupByNone:
		return ""
	default:
		return tenureKey
	}
}

func newRow(item Attributed, groupBy GroupBy) *Row {
	row := &Row{}
	if item.Tenure != nil {
		fillTenure(row, item.Tenure)
	}
	if groupBy == GroupByTenureCompetition {
		row.Competition = item.Match.Competition
	}
	return row
}

func fillTenure(row *Row, t *tenure.Tenure) {
	id := t.ID
	start := t.StartDate
	row.TenureID = &id
	row.TenureName = t.Name
	row.TenureStartDate = &start
	if t.EndDate != nil {
		end := *t.EndDate
		row.TenureEndDate = &end
	}
}

func add(row *Row, m match.Match) {
	row.Games++
	switch m.Outcome {
	case match.OutcomeWin:
		row.Wins++
	case match.OutcomeDraw:
		row.Draws++
	case match.OutcomeLoss:
		row.Losses++
	}
	row.GoalsFor += *m.GoalsFor
	row.GoalsAgainst += *m.GoalsAgainst
}

func finish(row *Row) {
	row.Points = pointsPerWin*row.Wins + pointsPerDraw*row.Draws
	row.PointsPossible = pointsPerWin * row.Games
	row.Percentage = Percentage(row.Points, row.PointsPossible)
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
}

func startOf(row Row) time.Time {
	if row.TenureStartDate == nil {
		return time.Time{}
	}
	return *row.TenureStartDate
}
