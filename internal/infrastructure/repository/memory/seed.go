package memory

import (
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

// SeedTenures and SeedMatches give a dev server something to serve before the first scrape.
func SeedTenures() []tenure.Tenure {
	titeEnd := date(2024, time.September, 30)
	titeBirth := date(1961, time.May, 25)
	filipeBirth := date(1985, time.August, 9)
	return []tenure.Tenure{
		{Name: "Tite", BirthDate: &titeBirth, StartDate: date(2023, time.October, 9), EndDate: &titeEnd},
		{Name: "Filipe Luís", BirthDate: &filipeBirth, StartDate: date(2024, time.October, 1)},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		seedMatch("Série A", "30", date(2023, time.October, 19), match.VenueHome, "Bahia", 2, 1),
		seedMatch("Copa do Brasil", "Final", date(2024, time.November, 10), match.VenueAway, "Atlético-MG", 0, 1),
		seedMatch("Série A", "3", date(2025, time.April, 13), match.VenueHome, "Grêmio", 1, 1),
	}
}

func seedMatch(competition, round string, day time.Time, venue match.Venue, opponent string, goalsFor, goalsAgainst int) match.Match {
	gf, ga := goalsFor, goalsAgainst
	return match.Match{
		Competition:  competition,
		Round:        round,
		Weekday:      day.Weekday().String()[:3],
		Date:         day,
		Venue:        venue,
		OpponentName: opponent,
		GoalsFor:     &gf,
		GoalsAgainst: &ga,
		Outcome:      match.DeriveOutcome(&gf, &ga),
		CollectedAt:  day,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
