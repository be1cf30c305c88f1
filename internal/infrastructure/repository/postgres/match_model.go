package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
)

const matchesTable = "matches"

type matchTableModel struct {
	ID int64 `db:"id"`
	matchWriteModel
	CreatedAt time.Time `db:"created_at"`
}

type matchWriteModel struct {
	Competition  string         `db:"competition"`
	Round        string         `db:"round"`
	Weekday      string         `db:"weekday"`
	MatchDate    time.Time      `db:"match_date"`
	KickoffTime  sql.NullString `db:"kickoff_time"`
	Venue        string         `db:"venue"`
	OpponentName string         `db:"opponent_name"`
	OpponentRank sql.NullInt64  `db:"opponent_rank"`
	OwnRank      sql.NullInt64  `db:"own_rank"`
	Formation    sql.NullString `db:"formation"`
	Attendance   sql.NullInt64  `db:"attendance"`
	GoalsFor     sql.NullInt64  `db:"goals_for"`
	GoalsAgainst sql.NullInt64  `db:"goals_against"`
	Outcome      sql.NullString `db:"outcome"`
	CollectedAt  time.Time      `db:"collected_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func newMatchWriteModel(item match.Match, now time.Time) matchWriteModel {
	return matchWriteModel{
		Competition:  item.Competition,
		Round:        item.Round,
		Weekday:      item.Weekday,
		MatchDate:    dateUTC(item.Date),
		KickoffTime:  nullString(item.KickoffTime),
		Venue:        string(item.Venue),
		OpponentName: item.OpponentName,
		OpponentRank: nullInt(item.OpponentRank),
		OwnRank:      nullInt(item.OwnRank),
		Formation:    nullString(item.Formation),
		Attendance:   nullInt(item.Attendance),
		GoalsFor:     nullInt(item.GoalsFor),
		GoalsAgainst: nullInt(item.GoalsAgainst),
		Outcome:      nullString(string(item.Outcome)),
		CollectedAt:  dateUTC(item.CollectedAt),
		UpdatedAt:    now,
	}
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		Competition:  m.Competition,
		Round:        m.Round,
		Weekday:      m.Weekday,
		Date:         dateUTC(m.MatchDate),
		KickoffTime:  m.KickoffTime.String,
		Venue:        match.Venue(m.Venue),
		OpponentName: m.OpponentName,
		OpponentRank: intPtr(m.OpponentRank),
		OwnRank:      intPtr(m.OwnRank),
		Formation:    m.Formation.String,
		Attendance:   intPtr(m.Attendance),
		GoalsFor:     intPtr(m.GoalsFor),
		GoalsAgainst: intPtr(m.GoalsAgainst),
		Outcome:      match.ParseOutcome(m.Outcome.String),
		CollectedAt:  dateUTC(m.CollectedAt),
		CreatedAt:    m.CreatedAt,
	}
}
