package match

import (
	"strings"
	"time"
)

type Venue string

const (
	VenueHome Venue = "HOME"
	VenueAway Venue = "AWAY"
)

type Outcome string

const (
	OutcomeUnknown Outcome = ""
	OutcomeWin     Outcome = "WIN"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeLoss    Outcome = "LOSS"
)

// Match represents one fixture of the club.
type Match struct {
	ID           int64
	Competition  string
	Round        string
	Weekday      string
	Date         time.Time
	KickoffTime  string
	Venue        Venue
	OpponentName string
	OpponentRank *int
	OwnRank      *int
	Formation    string
	Attendance   *int
	GoalsFor     *int
	GoalsAgainst *int
	Outcome      Outcome
	CollectedAt  time.Time
	CreatedAt    time.Time
}

// Key is the natural key of a fixture.
type Key struct {
	Competition string
	Round       string
	Date        time.Time
}

func (m Match) Key() Key {
	return Key{
		Competition: m.Competition,
		Round:       m.Round,
		Date:        DateOnly(m.Date),
	}
}

func (k Key) String() string {
	return k.Competition + "|" + k.Round + "|" + k.Date.Format(time.DateOnly)
}

// DeriveOutcome compares the two scores; a missing side yields OutcomeUnknown.
func DeriveOutcome(goalsFor, goalsAgainst *int) Outcome {
	if goalsFor == nil || goalsAgainst == nil {
		return OutcomeUnknown
	}
	switch {
	case *goalsFor > *goalsAgainst:
		return OutcomeWin
	case *goalsFor < *goalsAgainst:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Resolved reports whether the match takes part in aggregation.
func (m Match) Resolved() bool {
	return m.Outcome != OutcomeUnknown && m.GoalsFor != nil && m.GoalsAgainst != nil
}

func ParseVenue(value string) Venue {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "C", "H", "HOME", "CASA", "(C)", "(H)":
		return VenueHome
	default:
		return VenueAway
	}
}

func ParseOutcome(value string) Outcome {
	switch Outcome(strings.ToUpper(strings.TrimSpace(value))) {
	case OutcomeWin:
		return OutcomeWin
	case OutcomeDraw:
		return OutcomeDraw
	case OutcomeLoss:
		return OutcomeLoss
	default:
		return OutcomeUnknown
	}
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
