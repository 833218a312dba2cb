package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimcal/ical/datetime"
)

func TestMinimalCalendarRoundTrip(t *testing.T) {
	src := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//E//P//EN\r\nEND:VCALENDAR\r\n"
	cal, diags := parseOne(t, src)
	assert.Empty(t, diags)
	assert.Equal(t, "-//E//P//EN", cal.ProdID.Value)

	got, err := Format(cal)
	require.NoError(t, err)
	assert.Equal(t, calHead+calTail, got)
}

func TestTodoOverlapScenarios(t *testing.T) {
	for _, tc := range []struct {
		name       string
		lines      []string
		start, end time.Time
		want       bool
	}{
		{
			name:  "start only inside range",
			lines: []string{"DTSTART:20240115T100000Z"},
			start: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "cancelled",
			lines: []string{"DTSTART:20240115T100000Z", "STATUS:CANCELLED"},
			start: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			want:  false,
		},
		{
			name:  "cancelled with wide range",
			lines: []string{"DTSTART:20240115T100000Z", "STATUS:CANCELLED"},
			start: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  false,
		},
		{
			name:  "no dates",
			start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cal, diags := parseOne(t, calendarOf(todoOf(tc.lines...)...))
			assert.Empty(t, diags)
			assert.Equal(t, tc.want, TodoOverlapsTimeRange(cal, tc.start, tc.end))
		})
	}
}

func TestFreeBusyDurationPeriod(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:VFREEBUSY",
		"UID:fb",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20250615T000000Z",
		"ORGANIZER:mailto:fb@example.com",
		"FREEBUSY;FBTYPE=BUSY:20250615T130000Z/PT2H",
		"END:VFREEBUSY",
	))
	assert.Empty(t, diags)
	fb := cal.FreeBusy()[0]
	require.Len(t, fb.Busy, 1)
	require.Len(t, fb.Busy[0].Value.Periods, 1)
	p := fb.Busy[0].Value.Periods[0]
	assert.Equal(t, PeriodDurationUTC, p.Kind())
	assert.Equal(t, time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC), p.StartInstant())
	assert.Equal(t, 2*time.Hour, p.Duration.Std())
	assert.Empty(t, fb.Free)
	assert.Empty(t, fb.BusyTentative)
	assert.Empty(t, fb.BusyUnavailable)
}

func TestLongDescriptionFoldsToThreeLines(t *testing.T) {
	text := strings.Repeat("0123456789", 20)
	cal, _ := parseOne(t, calendarOf(eventOf("DESCRIPTION:"+text)...))

	got, err := Format(cal)
	require.NoError(t, err)
	var folded []string
	lines := physicalLines(got, "\r\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "DESCRIPTION:") {
			folded = append(folded, l)
			for _, c := range lines[i+1:] {
				if !strings.HasPrefix(c, " ") {
					break
				}
				folded = append(folded, c)
			}
		}
	}
	require.Len(t, folded, 3)
	for _, l := range folded {
		assert.LessOrEqual(t, len(l), 75)
	}
	logical := folded[0]
	for _, c := range folded[1:] {
		logical += c[1:]
	}
	assert.Equal(t, "DESCRIPTION:"+text, logical)
}

func TestUnknownParameterPreserved(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:VEVENT",
		"UID:1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;X-FOO=bar:20250615T100000Z",
		"END:VEVENT",
	))
	assert.Empty(t, diags)
	got, err := Format(cal)
	require.NoError(t, err)
	assert.Contains(t, got, "\r\nDTSTART;X-FOO=bar:20250615T100000Z\r\n")
}

func TestRangePositionDateOnlyEdge(t *testing.T) {
	day := datetime.DateOnly(2024, 1, 15)
	at := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, datetime.InRange, datetime.PositionInRange(at, &day, &day))
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999999999, time.UTC), day.WithEndOfDay())
	assert.Equal(t, datetime.After, datetime.PositionInRange(at.Add(time.Second), &day, &day))
}
