package httpapi

import (
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/stats"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/usecase"
)

type matchDTO struct {
	ID           int64             `json:"id"`
	Competition  string            `json:"competition"`
	Round        string            `json:"round"`
	Weekday      string            `json:"weekday"`
	Date         string            `json:"date"`
	KickoffTime  string            `json:"kickoffTime,omitempty"`
	Venue        string            `json:"venue"`
	OpponentName string            `json:"opponentName"`
	OpponentRank *int              `json:"opponentRank"`
	OwnRank      *int              `json:"ownRank"`
	Formation    string            `json:"formation,omitempty"`
	Attendance   *int              `json:"attendance"`
	GoalsFor     *int              `json:"goalsFor"`
	GoalsAgainst *int              `json:"goalsAgainst"`
	Outcome      *string           `json:"outcome"`
	CollectedAt  string            `json:"collectedAt"`
	Tenure       *tenureSummaryDTO `json:"tenure"`
}

type tenureSummaryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type matchPageDTO struct {
	Total       int        `json:"total"`
	Page        int        `json:"page"`
	PageSize    int        `json:"pageSize"`
	TotalPages  int        `json:"totalPages"`
	HasNext     bool       `json:"hasNext"`
	HasPrevious bool       `json:"hasPrevious"`
	Items       []matchDTO `json:"items"`
}

type tenureDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthDate   *string `json:"birthDate"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	CollectedAt string  `json:"collectedAt"`
}

type statsRowDTO struct {
	TenureID        *int64   `json:"tenureId"`
	TenureName      string   `json:"tenureName"`
	TenureStartDate *string  `json:"tenureStartDate"`
	TenureEndDate   *string  `json:"tenureEndDate"`
	Competition     string   `json:"competition,omitempty"`
	Games           int      `json:"games"`
	Wins            int      `json:"wins"`
	Draws           int      `json:"draws"`
	Losses          int      `json:"losses"`
	Points          int      `json:"points"`
	PointsPossible  int      `json:"pointsPossible"`
	Percentage      *float64 `json:"percentage"`
	GoalsFor        int      `json:"goalsFor"`
	GoalsAgainst    int      `json:"goalsAgainst"`
	GoalDifference  int      `json:"goalDifference"`
}

func matchToDTO(item usecase.AttributedMatch) matchDTO {
	m := item.Match
	out := matchDTO{
		ID:           m.ID,
		Competition:  m.Competition,
		Round:        m.Round,
		Weekday:      m.Weekday,
		Date:         formatDate(m.Date),
		KickoffTime:  m.KickoffTime,
		Venue:        string(m.Venue),
		OpponentName: m.OpponentName,
		OpponentRank: m.OpponentRank,
		OwnRank:      m.OwnRank,
		Formation:    m.Formation,
		Attendance:   m.Attendance,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		CollectedAt:  formatDate(m.CollectedAt),
	}
	if m.Outcome != "" {
		outcome := string(m.Outcome)
		out.Outcome = &outcome
	}
	if item.Tenure != nil {
		out.Tenure = &tenureSummaryDTO{ID: item.Tenure.ID, Name: item.Tenure.Name}
	}
	return out
}

func matchPageToDTO(page usecase.MatchPage) matchPageDTO {
	items := make([]matchDTO, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, matchToDTO(item))
	}
	return matchPageDTO{
		Total:       page.Total,
		Page:        page.Page,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
		Items:       items,
	}
}

func tenureToDTO(item tenure.Tenure) tenureDTO {
	return tenureDTO{
		ID:          item.ID,
		Name:        item.Name,
		BirthDate:   formatDatePtr(item.BirthDate),
		StartDate:   formatDate(item.StartDate),
		EndDate:     formatDatePtr(item.EndDate),
		CollectedAt: formatDate(item.CollectedAt),
	}
}

func statsRowsToDTO(rows []stats.Row) []statsRowDTO {
	out := make([]statsRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, statsRowDTO{
			TenureID:        row.TenureID,
			TenureName:      row.TenureName,
			TenureStartDate: formatDatePtr(row.TenureStartDate),
			TenureEndDate:   formatDatePtr(row.TenureEndDate),
			Competition:     row.Competition,
			Games:           row.Games,
			Wins:            row.Wins,
			Draws:           row.Draws,
			Losses:          row.Losses,
			Points:          row.Points,
			PointsPossible:  row.PointsPossible,
			Percentage:      row.Percentage,
			GoalsFor:        row.GoalsFor,
			GoalsAgainst:    row.GoalsAgainst,
			GoalDifference:  row.GoalDifference,
		})
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	out := formatDate(*t)
	return &out
}
