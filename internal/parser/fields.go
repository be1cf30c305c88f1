package parser

import (
	"strconv"
	"strings"
	"time"
)

var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02-01-2006",
	"02/01/06",
	"2/1/06",
	"02.01.06",
	time.DateOnly,
}

// parseDate reads a day-first calendar date. Trailing annotations such as an age in
// parentheses are ignored. ok is false when nothing parses.
func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	if parsed, ok := parseDateToken(value); ok {
		return parsed, true
	}
	for _, token := range strings.Fields(value) {
		if parsed, ok := parseDateToken(token); ok {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func parseDateToken(value string) (time.Time, bool) {
	for _, layout := range dayFirstLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func optionalDate(raw string) *time.Time {
	parsed, ok := parseDate(raw)
	if !ok {
		return nil
	}
	return &parsed
}

// parseRank strips thousands dots and parentheses, e.g. "(12.)" -> 12.
func parseRank(raw string) *int {
	cleaned := strings.NewReplacer(".", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	return parseInt(cleaned)
}

// parseAttendance strips thousands dots, e.g. "44.661" -> 44661.
func parseAttendance(raw string) *int {
	return parseInt(strings.ReplaceAll(strings.TrimSpace(raw), ".", ""))
}

func parseInt(raw string) *int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	out, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &out
}

// splitWeekdayDate splits "Sat 12/04/2025" on the first space. Without a space the whole
// token is the date.
func splitWeekdayDate(raw string) (string, string) {
	value := strings.TrimSpace(raw)
	weekday, date, found := strings.Cut(value, " ")
	if !found {
		return "", value
	}
	return strings.TrimSpace(weekday), strings.TrimSpace(date)
}

// splitOpponent splits "Palmeiras (2.)" into the name and its table position.
func splitOpponent(raw string) (string, *int) {
	value := strings.TrimSpace(raw)
	name, rank, found := strings.Cut(value, "(")
	if !found {
		return value, nil
	}
	rank = strings.TrimSpace(rank)
	rank = strings.TrimSuffix(rank, ")")
	rank = strings.TrimSuffix(rank, ".")
	return strings.TrimSpace(name), parseInt(rank)
}

// splitScore reads a home:away score. Placeholders such as "-:-" yield nil sides.
func splitScore(raw string) (*int, *int) {
	home, away, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return nil, nil
	}
	// Extra-time or penalty annotations may follow the away side, e.g. "2:1 AET".
	if fields := strings.Fields(away); len(fields) > 0 {
		away = fields[0]
	}
	homeGoals := parseInt(home)
	awayGoals := parseInt(away)
	if homeGoals == nil || awayGoals == nil {
		return nil, nil
	}
	return homeGoals, awayGoals
}

func normalizeLabel(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

func column(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[idx])
}
