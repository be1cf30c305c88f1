// Package attribution assigns matches to the coaching tenure active on the match date.
package attribution

import (
	"sort"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

// Result is the outcome of one lookup. Tenure is nil when no tenure covers the date.
type Result struct {
	Tenure *tenure.Tenure
	Active int
}

// Ambiguous reports overlapping tenures on the looked-up date.
func (r Result) Ambiguous() bool {
	return r.Active > 1
}

// Timeline is an immutable, start-ordered view of tenures.
type Timeline struct {
	items []tenure.Tenure
	// maxEnd[i] is the latest end date among items[0..i]; the zero time marks an open-ended tenure.
	maxEnd []time.Time
	open   []bool
}

func NewTimeline(items []tenure.Tenure) *Timeline {
	sorted := make([]tenure.Tenure, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
			return sorted[i].StartDate.Before(sorted[j].StartDate)
		}
		// Descending ids so a backward scan meets the lowest id first among equal starts.
		return sorted[i].ID > sorted[j].ID
	})

	maxEnd := make([]time.Time, len(sorted))
	open := make([]bool, len(sorted))
	for i, item := range sorted {
		if i > 0 {
			maxEnd[i] = maxEnd[i-1]
			open[i] = open[i-1]
		}
		if item.EndDate == nil {
			open[i] = true
			continue
		}
		if item.EndDate.After(maxEnd[i]) {
			maxEnd[i] = *item.EndDate
		}
	}

	return &Timeline{items: sorted, maxEnd: maxEnd, open: open}
}

func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}

// Attribute returns the tenure active on date. When several are active the one with the
// latest start date wins, then the lowest id.
func (t *Timeline) Attribute(date time.Time) Result {
	if t == nil || len(t.items) == 0 {
		return Result{}
	}

	// First index whose start is after date; candidates live strictly below it.
	upper := sort.Search(len(t.items), func(i int) bool {
		return t.items[i].StartDate.After(date)
	})

	var (
		picked *tenure.Tenure
		active int
	)
	for i := upper - 1; i >= 0; i-- {
		if !t.open[i] && t.maxEnd[i].Before(date) {
			break
		}
		if !t.items[i].Contains(date) {
			continue
		}
		active++
		if picked == nil {
			item := t.items[i]
			picked = &item
		}
	}

	return Result{Tenure: picked, Active: active}
}

// Find returns the tenure with the given id.
func (t *Timeline) Find(id int64) (tenure.Tenure, bool) {
	if t == nil {
		return tenure.Tenure{}, false
	}
	for _, item := range t.items {
		if item.ID == id {
			return item, true
		}
	}
	return tenure.Tenure{}, false
}
