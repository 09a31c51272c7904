package filter

import (
	"event-catalog/internal/domain"
	"fmt"
	"strings"
	"time"
)

// DateTest decides whether an event instant falls inside a bucket.
type DateTest func(time.Time) bool

func always(time.Time) bool { return true }

// dateLayouts are tried in order; the first one is the catalog's canonical form.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseEventDate parses an event date. Values without a zone are read in loc,
// values with an explicit offset are converted into loc.
func ParseEventDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Resolve returns the DateTest for bucket relative to now. Calendar days are
// taken in now's location. BucketNone and unknown buckets yield a test that
// always passes.
func Resolve(bucket domain.DateBucket, now time.Time) DateTest {
	today := startOfDay(now)

	switch bucket {
	case domain.BucketToday:
		return sameDay(today)
	case domain.BucketTomorrow:
		return sameDay(today.AddDate(0, 0, 1))
	case domain.BucketThisWeek:
		return between(today, today.AddDate(0, 0, 8))
	case domain.BucketThisWeekend:
		// Sunday = 0 ... Saturday = 6. On a Sunday this lands on the upcoming
		// weekend, never the one that just ended.
		wd := int(today.Weekday())
		saturday := today.AddDate(0, 0, 6-wd)
		sunday := today.AddDate(0, 0, 7-wd)
		return between(saturday, sunday.AddDate(0, 0, 1))
	default:
		return always
	}
}

// startOfDay truncates t to midnight in its own location. time.Truncate works
// on absolute time and would be wrong for non-UTC zones.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(day time.Time) DateTest {
	return func(t time.Time) bool {
		return startOfDay(t.In(day.Location())).Equal(day)
	}
}

// between matches from (inclusive) up to the start of until (exclusive), i.e.
// the closed range ending at the last instant of the previous day.
func between(from, until time.Time) DateTest {
	return func(t time.Time) bool {
		return !t.Before(from) && t.Before(until)
	}
}
