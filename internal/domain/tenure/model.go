package tenure

import (
	"time"
)

// Tenure is one contiguous period a coach held the role. A nil EndDate means still active.
type Tenure struct {
	ID          int64
	Name        string
	BirthDate   *time.Time
	StartDate   time.Time
	EndDate     *time.Time
	CollectedAt time.Time
	CreatedAt   time.Time
}

// Key is the natural key of a tenure.
type Key struct {
	Name      string
	StartDate time.Time
}

func (t Tenure) Key() Key {
	return Key{Name: t.Name, StartDate: t.StartDate}
}

func (k Key) String() string {
	return k.Name + "|" + k.StartDate.Format(time.DateOnly)
}

// Contains reports whether date falls inside the tenure, both bounds inclusive.
func (t Tenure) Contains(date time.Time) bool {
	if date.Before(t.StartDate) {
		return false
	}
	return t.EndDate == nil || !date.After(*t.EndDate)
}

func (t Tenure) Open() bool {
	return t.EndDate == nil
}
