//go:build go1.18
// +build go1.18

package ics

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzParseCalendar(f *testing.F) {
	ics, err := os.ReadFile("testdata/timeparsing.ics")
	require.NoError(f, err)
	f.Add(string(ics))
	f.Add(calendarOf())
	f.Add(calendarOf(eventOf("SUMMARY:a\\,b", "RRULE:FREQ=DAILY;COUNT=2")...))
	f.Add("BEGIN:VCALENDAR\r\nPRODID:x\r\n VERSION:2.0\r\nEND:VCALENDAR")
	f.Add("BEGIN:VCALENDAR\nX-A;P=\"q:\n END:VEVENT\n")
	f.Add("\xff\xfe:\r\n")
	f.Fuzz(func(t *testing.T, src string) {
		cals, diags := Parse(src)
		for _, d := range diags {
			if d.Span.Start < 0 || d.Span.Start > d.Span.End || d.Span.End > len(src) {
				t.Fatalf("diagnostic %v has span %v outside [0, %d]", d, d.Span, len(src))
			}
		}
		for _, cal := range cals {
			if _, err := Format(cal); err != nil {
				t.Fatalf("format: %v", err)
			}
			if _, err := Format(cal.Owned()); err != nil {
				t.Fatalf("format owned: %v", err)
			}
		}
	})
}
