package calendar

import (
	"event-catalog/internal/domain"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	day := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		raw       string
		timed     bool
		wantStart time.Time
		wantEnd   time.Time
	}{
		{raw: "All day", wantStart: day, wantEnd: day.AddDate(0, 0, 1)},
		{raw: "", wantStart: day, wantEnd: day.AddDate(0, 0, 1)},
		{raw: "19:00", timed: true, wantStart: day.Add(19 * time.Hour), wantEnd: day.Add(21 * time.Hour)},
		{raw: "9:30 - 11:00", timed: true, wantStart: day.Add(9*time.Hour + 30*time.Minute), wantEnd: day.Add(11 * time.Hour)},
		{raw: "22:00-01:00", timed: true, wantStart: day.Add(22 * time.Hour), wantEnd: day.Add(25 * time.Hour)},
		{raw: "27:00", wantStart: day, wantEnd: day.AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			start, end, timed := span(day, tt.raw, time.UTC)
			assert.Equal(t, tt.timed, timed)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}

func TestRender(t *testing.T) {
	events := []domain.Event{
		{ID: "a1", Title: "Jazz Night", Description: "Live jazz", Date: "2025-07-03", Time: "20:00 - 23:00", Location: "Bimhuis", Address: "Piet Heinkade 3", Category: "Music", SourceURL: "https://example.org/jazz"},
		{ID: "b2", Title: "Market", Date: "2025-07-05", Time: "All day"},
		{ID: "c3", Title: "Broken", Date: "soon"},
	}
	stamp := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	out := Render(events, time.UTC, stamp)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "METHOD:PUBLISH")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2, "malformed date is skipped")

	jazz := cal.Events()[0]
	assert.Equal(t, "a1@event-catalog", jazz.Id())
	assert.Equal(t, "Jazz Night", jazz.GetProperty(ical.ComponentPropertySummary).Value)
	where := jazz.GetProperty(ical.ComponentPropertyLocation).Value
	assert.Contains(t, where, "Bimhuis")
	assert.Contains(t, where, "Piet Heinkade 3")

	start, err := jazz.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 7, 3, 20, 0, 0, 0, time.UTC)))

	market := cal.Events()[1]
	allDay, err := market.GetAllDayStartAt()
	require.NoError(t, err)
	assert.Equal(t, 5, allDay.Day())
}

func TestRender_Empty(t *testing.T) {
	out := Render(nil, nil, time.Now())
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}
