// Package calendar renders catalog events as an iCalendar feed.
package calendar

import (
	"event-catalog/internal/domain"
	"event-catalog/internal/filter"
	"event-catalog/internal/log"
	"regexp"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//event-catalog//events//EN"

// defaultDuration is used when an event has a start time but no end time.
const defaultDuration = 2 * time.Hour

// "19:00", "9:30 - 11:00", "19:00-21:30"
var timeRange = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*(?:-\s*(\d{1,2}):(\d{2}))?`)

// Render builds a PUBLISH calendar from events. Dates are interpreted in loc.
// Events whose date cannot be parsed are skipped.
func Render(events []domain.Event, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Events")
	cal.SetXWRTimezone(loc.String())

	skipped := 0
	for i, e := range events {
		day, err := filter.ParseEventDate(e.Date, loc)
		if err != nil {
			skipped++
			continue
		}
		addEvent(cal, e, i, day, loc, stamp)
	}
	if skipped > 0 {
		log.Debug("ics render skipped events", "skipped", skipped)
	}
	return cal.Serialize()
}

func addEvent(cal *ical.Calendar, e domain.Event, i int, day time.Time, loc *time.Location, stamp time.Time) {
	ve := cal.AddEvent(uid(e, i))
	ve.SetDtStampTime(stamp.UTC())
	ve.SetSummary(e.Title)
	if e.Description != "" {
		ve.SetDescription(e.Description)
	}
	if where := location(e); where != "" {
		ve.SetLocation(where)
	}
	if e.SourceURL != "" {
		ve.SetURL(e.SourceURL)
	}
	if e.Category != "" {
		ve.AddProperty(ical.ComponentPropertyCategories, e.Category)
	}

	start, end, timed := span(day, e.Time, loc)
	if !timed {
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end)
		return
	}
	ve.SetStartAt(start)
	ve.SetEndAt(end)
}

func uid(e domain.Event, i int) string {
	if e.ID != "" {
		return e.ID + "@event-catalog"
	}
	return e.Date + "-" + strconv.Itoa(i) + "@event-catalog"
}

func location(e domain.Event) string {
	switch {
	case e.Location != "" && e.Address != "":
		return e.Location + ", " + e.Address
	case e.Location != "":
		return e.Location
	default:
		return e.Address
	}
}

// span combines the calendar day with a free-form time string. timed is false
// for "All day" and anything else without a leading clock time.
func span(day time.Time, raw string, loc *time.Location) (start, end time.Time, timed bool) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	m := timeRange.FindStringSubmatch(raw)
	if m == nil {
		return date, date.AddDate(0, 0, 1), false
	}
	sh, _ := strconv.Atoi(m[1])
	sm, _ := strconv.Atoi(m[2])
	if sh > 23 || sm > 59 {
		return date, date.AddDate(0, 0, 1), false
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), sh, sm, 0, 0, loc)
	end = start.Add(defaultDuration)
	if m[3] != "" {
		eh, _ := strconv.Atoi(m[3])
		em, _ := strconv.Atoi(m[4])
		if eh <= 23 && em <= 59 {
			end = time.Date(date.Year(), date.Month(), date.Day(), eh, em, 0, 0, loc)
			if !end.After(start) {
				// Runs past midnight.
				end = end.AddDate(0, 0, 1)
			}
		}
	}
	return start, end, true
}
