package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/parser"
)

func fixtureRow(competition, round, date, venue, opponent, score string) parser.MatchRow {
	return parser.MatchRow{
		Competition: competition,
		Columns:     []string{round, "Dom " + date, "16:00", venue, "(3.)", "", opponent, "4-3-3", "44.661", score},
	}
}

func staffRow(name, birth, start, end string) parser.TenureRow {
	return parser.TenureRow{Columns: []string{"", "", name, birth, "Brasil", start, end}}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func intPtr(v int) *int {
	return &v
}

func resolvedMatch(competition, round string, date time.Time, goalsFor, goalsAgainst int) match.Match {
	gf, ga := intPtr(goalsFor), intPtr(goalsAgainst)
	return match.Match{
		Competition:  competition,
		Round:        round,
		Date:         date,
		Venue:        match.VenueHome,
		OpponentName: "Opponent " + round,
		GoalsFor:     gf,
		GoalsAgainst: ga,
		Outcome:      match.DeriveOutcome(gf, ga),
	}
}

type purgeCounter struct {
	mu    sync.Mutex
	count int
}

func (p *purgeCounter) Purge(context.Context) {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
}

func (p *purgeCounter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

type recordingMetrics struct {
	mu        sync.Mutex
	accepted  map[Kind]int
	rejected  map[string]int
	ambiguous int
	durations int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{accepted: make(map[Kind]int), rejected: make(map[string]int)}
}

func (m *recordingMetrics) IngestRow(kind Kind, accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accepted {
		m.accepted[kind]++
	}
}

func (m *recordingMetrics) IngestRejection(kind Kind, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[string(kind)+":"+reason]++
}

func (m *recordingMetrics) IngestDuration(Kind, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *recordingMetrics) AttributionAmbiguous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambiguous++
}

var _ tenure.Repository = (*staticTenures)(nil)

// staticTenures serves a fixed tenure list; writes are not expected.
type staticTenures struct {
	items []tenure.Tenure
}

func (s *staticTenures) Upsert(_ context.Context, item tenure.Tenure) (tenure.Tenure, error) {
	return item, nil
}

func (s *staticTenures) List(context.Context) ([]tenure.Tenure, error) {
	return append([]tenure.Tenure(nil), s.items...), nil
}

func (s *staticTenures) GetByID(_ context.Context, id int64) (tenure.Tenure, bool, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return tenure.Tenure{}, false, nil
}
