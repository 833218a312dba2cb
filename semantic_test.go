package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	calHead = "BEGIN:VCALENDAR\r\nPRODID:-//E//P//EN\r\nVERSION:2.0\r\n"
	calTail = "END:VCALENDAR\r\n"
)

func calendarOf(lines ...string) string {
	if len(lines) == 0 {
		return calHead + calTail
	}
	return calHead + strings.Join(lines, "\r\n") + "\r\n" + calTail
}

func eventOf(lines ...string) []string {
	out := []string{"BEGIN:VEVENT", "UID:1", "DTSTAMP:20240101T000000Z", "DTSTART:20240102T100000Z"}
	out = append(out, lines...)
	return append(out, "END:VEVENT")
}

func todoOf(lines ...string) []string {
	out := []string{"BEGIN:VTODO", "UID:t", "DTSTAMP:20240101T000000Z"}
	out = append(out, lines...)
	return append(out, "END:VTODO")
}

func parseOne(t *testing.T, src string) (*ICalendar, Diagnostics) {
	t.Helper()
	cals, diags := Parse(src)
	require.Len(t, cals, 1, "diagnostics: %v", diags)
	return cals[0], diags
}

func TestAssembleMinimalCalendar(t *testing.T) {
	src := calendarOf()
	cal, diags := parseOne(t, src)
	assert.Empty(t, diags)
	assert.Equal(t, "-//E//P//EN", cal.ProdID.Value)
	assert.Equal(t, "2.0", cal.Version.Value)
	assert.Nil(t, cal.CalScale)
	assert.Empty(t, cal.Components)
	assert.Equal(t, Span{Start: 0, End: len(src)}, cal.Span)
}

func TestAssembleCalendarRequired(t *testing.T) {
	cals, diags := Parse("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")
	assert.Empty(t, cals)
	assert.Equal(t, []DiagnosticKind{KindMissingRequired}, kindsOf(diags))

	cal, diags := parseOne(t, "BEGIN:VCALENDAR\r\nPRODID:x\r\nVERSION:1.0\r\nMETHOD:publish\r\nX-WR-CALNAME:Home\r\nEND:VCALENDAR\r\n")
	assert.Equal(t, []DiagnosticKind{KindInvalidPropertyValue}, kindsOf(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	require.NotNil(t, cal.Method)
	assert.Equal(t, MethodPublish, cal.Method.Value)
	require.Len(t, cal.XProperties, 1)
	assert.Equal(t, "Home", cal.XProperties[0].Raw)
}

func TestAssembleTopLevelMustBeCalendar(t *testing.T) {
	cals, diags := Parse("BEGIN:VEVENT\r\nEND:VEVENT\r\n" + calendarOf())
	assert.Len(t, cals, 1)
	assert.Equal(t, []DiagnosticKind{KindInvalidNesting}, kindsOf(diags))
}

func TestAssembleEvent(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(eventOf(
		"SUMMARY;LANGUAGE=en:Team sync",
		"DESCRIPTION:Line one\\nLine two",
		`ATTENDEE;CN=Jane Doe;ROLE=CHAIR;RSVP=TRUE;DELEGATED-TO="mailto:a@x.org","mailto:b@x.org";X-P=1:mailto:jane@x.org`,
		"ORGANIZER;CN=Boss:mailto:boss@x.org",
		"CATEGORIES:WORK,MEETING",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"EXDATE:20240109T100000Z",
		"TRANSP:TRANSPARENT",
		"X-FOO:bar",
		"FOO:baz",
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder",
		"TRIGGER;RELATED=END:-PT5M",
		"END:VALARM",
	)...))
	assert.Empty(t, diags)
	events := cal.Events()
	require.Len(t, events, 1)
	e := events[0]

	assert.Equal(t, "1", e.UID.Value)
	assert.Equal(t, "1", e.Id())
	start, err := e.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), start)

	require.NotNil(t, e.Summary)
	assert.Equal(t, Text{Content: "Team sync", Language: "en"}, e.Summary.Value)
	assert.Empty(t, e.Summary.RetainedParameters)
	assert.Equal(t, "Line one\nLine two", e.Description.Value.Content)

	require.Len(t, e.Attendees, 1)
	a := e.Attendees[0]
	assert.Equal(t, "jane@x.org", a.Value.Email())
	assert.Equal(t, "Jane Doe", a.Value.CommonName)
	assert.Equal(t, ParticipationRoleChair, a.Value.Role)
	require.NotNil(t, a.Value.RSVP)
	assert.True(t, *a.Value.RSVP)
	assert.Equal(t, []CalAddress{"mailto:a@x.org", "mailto:b@x.org"}, a.Value.DelegatedTo)
	assert.Equal(t, ParticipationStatusNeedsAction, a.Value.ParticipationStatus.Effective())
	require.Len(t, a.XParameters, 1)
	assert.Equal(t, "X-P", a.XParameters[0].Name)

	assert.Equal(t, "Boss", e.Organizer.Value.CommonName)
	require.Len(t, e.Categories, 1)
	assert.Equal(t, []string{"WORK", "MEETING"}, e.Categories[0].Value.Values)
	assert.Equal(t, FrequencyWeekly, e.RRule.Value.Freq)
	require.Len(t, e.ExDates, 1)
	assert.Len(t, e.ExDates[0].Value, 1)
	assert.Equal(t, TimeTransparencyTransparent, e.Transparency.Value)

	require.Len(t, e.XProperties, 1)
	assert.Equal(t, "X-FOO", e.XProperties[0].Name)
	require.Len(t, e.RetainedProperties, 1)
	assert.Equal(t, "FOO", e.RetainedProperties[0].Name)

	require.Len(t, e.Alarms, 1)
	alarm := e.Alarms[0]
	assert.Equal(t, ActionDisplay, alarm.Action.Value)
	assert.Equal(t, RelatedEnd, alarm.Trigger.Value.Related)
	require.NotNil(t, alarm.Trigger.Value.Duration)
	assert.Equal(t, -5*time.Minute, alarm.Trigger.Value.Duration.Std())
	assert.True(t, e.Span.Contains(alarm.Span))

	end, err := e.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, start, end)
}

func TestAssembleInvalidEventIsKeptAsCustom(t *testing.T) {
	cal, diags := parseOne(t, calendarOf("BEGIN:VEVENT", "UID:1", "DTSTAMP:20240101T000000Z", "SUMMARY:x", "END:VEVENT"))
	assert.Equal(t, []DiagnosticKind{KindMissingRequired}, kindsOf(diags))
	assert.Empty(t, cal.Events())
	require.Len(t, cal.Components, 1)
	cc, ok := cal.Components[0].(*CustomComponent)
	require.True(t, ok)
	assert.Equal(t, ComponentVEvent, cc.ComponentType())
	assert.Len(t, cc.Properties, 3)
}

func TestAssembleJournalAndFreeBusyRequired(t *testing.T) {
	for _, tc := range []struct {
		name     string
		lines    []string
		kind     ComponentType
		missing  int
		messages []string
	}{
		{
			name:     "journal without start",
			lines:    []string{"BEGIN:VJOURNAL", "UID:j", "DTSTAMP:20240101T000000Z", "END:VJOURNAL"},
			kind:     ComponentVJournal,
			missing:  1,
			messages: []string{"DTSTART"},
		},
		{
			name:     "freebusy without start and organizer",
			lines:    []string{"BEGIN:VFREEBUSY", "UID:f", "DTSTAMP:20240101T000000Z", "END:VFREEBUSY"},
			kind:     ComponentVFreeBusy,
			missing:  2,
			messages: []string{"DTSTART", "ORGANIZER"},
		},
		{
			name:     "freebusy without organizer",
			lines:    []string{"BEGIN:VFREEBUSY", "UID:f", "DTSTAMP:20240101T000000Z", "DTSTART:20240101T000000Z", "END:VFREEBUSY"},
			kind:     ComponentVFreeBusy,
			missing:  1,
			messages: []string{"ORGANIZER"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cal, diags := parseOne(t, calendarOf(tc.lines...))
			require.Len(t, diags.Errors(), tc.missing)
			for i, d := range diags.Errors() {
				assert.Equal(t, KindMissingRequired, d.Kind)
				assert.Contains(t, d.Message, tc.messages[i])
			}
			assert.Empty(t, cal.Journals())
			assert.Empty(t, cal.FreeBusy())
			require.Len(t, cal.Components, 1)
			cc, ok := cal.Components[0].(*CustomComponent)
			require.True(t, ok)
			assert.Equal(t, tc.kind, cc.ComponentType())
		})
	}
}

func TestAssembleDuplicateKeepsFirst(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(eventOf("SUMMARY:first", "SUMMARY:second")...))
	assert.Equal(t, []DiagnosticKind{KindDuplicateProperty}, kindsOf(diags))
	assert.Equal(t, "first", cal.Events()[0].Summary.Value.Content)
}

func TestAssembleEventEndAndDuration(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(eventOf("DTEND:20240102T110000Z", "DURATION:PT2H")...))
	assert.Equal(t, []DiagnosticKind{KindMutuallyExclusive}, kindsOf(diags))
	assert.Equal(t, SeverityError, diags[0].Severity)
	e := cal.Events()[0]
	assert.NotNil(t, e.DTEnd)
	assert.NotNil(t, e.Duration)
}

func TestAssembleTodoDueAndDuration(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(todoOf("DTSTART:20240101T100000Z", "DUE:20240101T120000Z", "DURATION:PT1H")...))
	assert.Equal(t, []DiagnosticKind{KindMutuallyExclusive}, kindsOf(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	todo := cal.Todos()[0]
	assert.NotNil(t, todo.Due)
	assert.NotNil(t, todo.Duration)
}

func TestAssembleValueChecks(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(append(
		eventOf("STATUS:NEEDS-ACTION", "PRIORITY:10"),
		todoOf("STATUS:needs-action", "PERCENT-COMPLETE:101")...,
	)...))
	assert.Equal(t, []DiagnosticKind{KindInvalidPropertyValue, KindInvalidPropertyValue, KindInvalidPropertyValue}, kindsOf(diags))
	e := cal.Events()[0]
	assert.Nil(t, e.Status)
	assert.Nil(t, e.Priority)
	todo := cal.Todos()[0]
	require.NotNil(t, todo.Status)
	assert.Equal(t, ObjectStatusNeedsAction, todo.Status.Value)
	assert.Nil(t, todo.PercentComplete)
}

func TestAssembleAlarms(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		kinds  []DiagnosticKind
		alarms int
	}{
		{
			name:   "display",
			lines:  []string{"ACTION:DISPLAY", "DESCRIPTION:x", "TRIGGER:-PT15M", "REPEAT:2", "DURATION:PT5M"},
			alarms: 1,
		},
		{
			name:  "display without description",
			lines: []string{"ACTION:DISPLAY", "TRIGGER:-PT15M"},
			kinds: []DiagnosticKind{KindMissingRequired},
		},
		{
			name:  "email without attendee",
			lines: []string{"ACTION:EMAIL", "DESCRIPTION:x", "SUMMARY:y", "TRIGGER:-PT15M"},
			kinds: []DiagnosticKind{KindMissingRequired},
		},
		{
			name:   "audio keeps one attachment",
			lines:  []string{"ACTION:AUDIO", "TRIGGER:-PT15M", "ATTACH:http://x.org/a.wav", "ATTACH:http://x.org/b.wav"},
			kinds:  []DiagnosticKind{KindDuplicateProperty},
			alarms: 1,
		},
		{
			name:   "unknown action",
			lines:  []string{"ACTION:X-BLINK", "TRIGGER:-PT15M"},
			kinds:  []DiagnosticKind{KindInvalidPropertyValue},
			alarms: 1,
		},
		{
			name:  "repeat without duration",
			lines: []string{"ACTION:AUDIO", "TRIGGER:-PT15M", "REPEAT:2"},
			kinds: []DiagnosticKind{KindMissingRequired},
		},
		{
			name:  "missing trigger",
			lines: []string{"ACTION:AUDIO"},
			kinds: []DiagnosticKind{KindMissingRequired},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string{"BEGIN:VALARM"}, tt.lines...)
			lines = append(lines, "END:VALARM")
			cal, diags := parseOne(t, calendarOf(eventOf(lines...)...))
			assert.Equal(t, tt.kinds, kindsOf(diags))
			require.Len(t, cal.Events(), 1)
			alarms := cal.Events()[0].Alarms
			require.Len(t, alarms, tt.alarms)
			if tt.alarms > 0 {
				assert.LessOrEqual(t, len(alarms[0].Attachments), 1)
			}
		})
	}
}

func TestAssembleFreeBusyBuckets(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:VFREEBUSY",
		"UID:fb",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240101T000000Z",
		"ORGANIZER:mailto:fb@example.com",
		"FREEBUSY;FBTYPE=FREE:20240101T090000Z/PT1H",
		"FREEBUSY:20240101T100000Z/20240101T110000Z,20240101T120000Z/PT30M",
		"FREEBUSY;FBTYPE=X-OTHER:20240101T130000Z/PT1H",
		"FREEBUSY;FBTYPE=BUSY-TENTATIVE:20240101T140000Z/PT1H",
		"END:VFREEBUSY",
	))
	assert.Empty(t, diags)
	fbs := cal.FreeBusy()
	require.Len(t, fbs, 1)
	fb := fbs[0]
	require.NotNil(t, fb.DTStart)
	require.NotNil(t, fb.Organizer)
	assert.Equal(t, CalAddress("mailto:fb@example.com"), fb.Organizer.Value.Address)
	assert.Len(t, fb.Free, 1)
	require.Len(t, fb.Busy, 2)
	assert.Len(t, fb.Busy[0].Value.Periods, 2)
	assert.Equal(t, FreeBusyTimeType("X-OTHER"), fb.Busy[1].Value.Type)
	assert.Len(t, fb.BusyTentative, 1)
	assert.Empty(t, fb.BusyUnavailable)
}

func TestAssembleCustomComponents(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:X-THING",
		"X-A:1",
		"BEGIN:X-PART",
		"X-B:2",
		"END:X-PART",
		"END:X-THING",
		"BEGIN:FOO",
		"BAR:baz",
		"END:FOO",
	))
	assert.Equal(t, []DiagnosticKind{KindUnknownComponent}, kindsOf(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	require.Len(t, cal.Components, 2)

	thing := cal.Components[0].(*CustomComponent)
	assert.Equal(t, "X-THING", thing.Name)
	require.Len(t, thing.Children, 1)
	assert.Equal(t, "X-PART", thing.Children[0].Name)
	assert.Equal(t, "2", thing.Children[0].Properties[0].Raw)
	assert.Equal(t, ComponentType("FOO"), cal.Components[1].ComponentType())
}

func TestAssembleTimezone(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:VTIMEZONE",
		"TZID:Europe/Berlin",
		"BEGIN:DAYLIGHT",
		"DTSTART:19810329T020000",
		"TZOFFSETFROM:+0100",
		"TZOFFSETTO:+0200",
		"TZNAME:CEST",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU",
		"END:DAYLIGHT",
		"BEGIN:STANDARD",
		"DTSTART:19961027T030000",
		"TZOFFSETFROM:+0200",
		"TZOFFSETTO:+0100",
		"TZNAME:CET",
		"END:STANDARD",
		"END:VTIMEZONE",
		"BEGIN:VTIMEZONE",
		"TZID:Empty/Zone",
		"END:VTIMEZONE",
	))
	assert.Equal(t, []DiagnosticKind{KindMissingRequired}, kindsOf(diags))
	tzs := cal.Timezones()
	require.Len(t, tzs, 1)
	tz := tzs[0]
	assert.Equal(t, "Europe/Berlin", tz.TZID.Value)
	require.Len(t, tz.Observances, 2)
	assert.Equal(t, ComponentDaylight, tz.Observances[0].Kind)
	assert.Equal(t, ComponentStandard, tz.Observances[1].Kind)
	assert.Len(t, tz.Standard(), 1)
	assert.Len(t, tz.Daylight(), 1)
	assert.Equal(t, 3600, tz.Standard()[0].TZOffsetTo.Value.TotalSeconds())
	assert.Equal(t, "CEST", tz.Daylight()[0].TZNames[0].Value.Content)
	assert.NotNil(t, tz.Daylight()[0].RRule)

	_, ok := cal.Components[1].(*CustomComponent)
	assert.True(t, ok)
}

func TestAssembleNesting(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(append(
		eventOf("BEGIN:VTODO", "END:VTODO"),
		"BEGIN:STANDARD", "END:STANDARD",
		"BEGIN:VALARM", "ACTION:AUDIO", "TRIGGER:-PT1M", "END:VALARM",
	)...))
	assert.Equal(t, []DiagnosticKind{KindInvalidNesting, KindInvalidNesting}, kindsOf(diags))
	require.Len(t, cal.Components, 2)
	assert.Empty(t, cal.Events()[0].Alarms)
	alarm, ok := cal.Components[1].(*VAlarm)
	require.True(t, ok)
	assert.Equal(t, ActionAudio, alarm.Action.Value)
}

func TestAssembleJournal(t *testing.T) {
	cal, diags := parseOne(t, calendarOf(
		"BEGIN:VJOURNAL",
		"UID:j",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240101",
		"DESCRIPTION:one",
		"DESCRIPTION:two",
		"STATUS:FINAL",
		"END:VJOURNAL",
	))
	assert.Empty(t, diags)
	journals := cal.Journals()
	require.Len(t, journals, 1)
	require.NotNil(t, journals[0].DTStart)
	assert.Equal(t, DateTimeDateOnly, journals[0].DTStart.Value.Form)
	assert.Len(t, journals[0].Descriptions, 2)
	assert.Equal(t, ObjectStatusFinal, journals[0].Status.Value)
}

func TestParseCalendar(t *testing.T) {
	cal, err := ParseCalendar(strings.NewReader(calendarOf(eventOf()...)))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 1)

	cal, err = ParseCalendar(strings.NewReader(calendarOf(eventOf("SUMMARY:a", "SUMMARY:b")...)))
	require.NotNil(t, cal)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.Diagnostics, 1)

	_, err = ParseCalendar(strings.NewReader("BEGIN:VEVENT\r\nEND:VEVENT\r\n"))
	assert.ErrorIs(t, err, ErrNoCalendar)
	_, err = ParseCalendar(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoCalendar)
}
