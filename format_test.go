package ics

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unfold(s, nl string) string {
	return strings.ReplaceAll(s, nl+" ", "")
}

func physicalLines(s, nl string) []string {
	return strings.Split(strings.TrimSuffix(s, nl), nl)
}

var locationComparer = cmp.Comparer(func(a, b *time.Location) bool {
	return a.String() == b.String()
})

func TestFormatBuiltEvent(t *testing.T) {
	cal := NewCalendarFor("test")
	e := NewEvent("uid-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	e.SetSummary("Lunch; with a, b")
	e.AddAttendee("jane@example.com", WithCN("Doe, Jane"), ParticipationStatusAccepted, WithRSVP(true), WithDelegatedTo("bob@example.com"))
	cal.Add(e)

	got, err := Format(cal)
	require.NoError(t, err)
	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"PRODID:-//test//Golang ICS Library//EN",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:uid-1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240102T100000Z",
		`SUMMARY:Lunch\; with a\, b`,
		`ATTENDEE;PARTSTAT=ACCEPTED;RSVP=TRUE;DELEGATED-TO="mailto:bob@example.com";CN="Doe, Jane":mailto:jane@example.com`,
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	if diff := cmp.Diff(want, unfold(got, "\r\n")); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, got, cal.Serialize())
}

func TestFormatDateForms(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	zoned := NewEvent("z", stamp, time.Date(2024, 1, 2, 10, 0, 0, 0, ny))
	zoned.SetEndAt(time.Date(2024, 1, 2, 11, 0, 0, 0, ny))
	allDay := NewEvent("d", stamp, stamp)
	allDay.SetAllDayStartAt(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	allDay.SetAllDayEndAt(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	floating := NewTodo("f", stamp)
	floating.DTStart = &Prop[DateTime]{Value: NewDateTimeFloating(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC))}
	floating.SetDuration(90 * time.Minute)

	cal := NewCalendar()
	cal.Add(zoned, allDay, floating)
	got, err := Format(cal)
	require.NoError(t, err)
	for _, line := range []string{
		"DTSTART;TZID=America/New_York:20240102T100000\r\n",
		"DTEND;TZID=America/New_York:20240102T110000\r\n",
		"DTSTART;VALUE=DATE:20240102\r\n",
		"DTEND;VALUE=DATE:20240103\r\n",
		"DTSTART:20240102T093000\r\n",
		"DURATION:PT1H30M\r\n",
	} {
		assert.Contains(t, got, line)
	}
}

func TestFormatFolding(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{name: "ascii", text: strings.Repeat("abcdefghij", 30)},
		{name: "two byte runes", text: strings.Repeat("é", 120)},
		{name: "three byte runes", text: strings.Repeat("日本語", 40)},
		{name: "four byte runes", text: strings.Repeat("😀", 70)},
		{name: "mixed", text: strings.Repeat("a😀é日", 30)},
		{name: "escapes", text: strings.Repeat("a,b;c\\d\n", 20)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cal := NewCalendarFor("fold")
			e := NewEvent("uid", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
			e.SetDescription(tc.text)
			cal.Add(e)

			got, err := Format(cal)
			require.NoError(t, err)
			lines := physicalLines(got, "\r\n")
			for i, l := range lines {
				assert.LessOrEqual(t, len(l), 75, "line %d", i)
				assert.True(t, utf8.ValidString(l), "line %d splits a rune: %q", i, l)
			}
			assert.Contains(t, unfold(got, "\r\n"), "\r\nDESCRIPTION:"+ToText(tc.text)+"\r\n")

			back, diags := parseOne(t, got)
			assert.Empty(t, diags)
			require.Len(t, back.Events(), 1)
			require.NotNil(t, back.Events()[0].Description)
			assert.Equal(t, tc.text, back.Events()[0].Description.Value.Content)
		})
	}
}

func TestFormatFoldsAtMaxLength(t *testing.T) {
	cal := NewCalendarFor("fold")
	cal.XProperties = append(cal.XProperties, TypedProperty{
		Name:      "X-LONG",
		Class:     PropertyClassXName,
		ValueType: ValueDataTypeText,
		Raw:       strings.Repeat("x", 200),
	})

	got, err := Format(cal)
	require.NoError(t, err)
	// "X-LONG:" and 200 octets make 207: 75 + 1+74 + 1+58.
	assert.Contains(t, got, "X-LONG:"+strings.Repeat("x", 68)+"\r\n "+strings.Repeat("x", 74)+"\r\n "+strings.Repeat("x", 58)+"\r\n")
}

func TestSerializeOptions(t *testing.T) {
	cal := NewCalendarFor("options")
	e := NewEvent("uid", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	e.SetDescription(strings.Repeat("word ", 30))
	cal.Add(e)

	crlf := cal.Serialize()
	lf := cal.Serialize(WithLineLength(40), WithNewLineUnix)
	assert.NotContains(t, lf, "\r")
	for i, l := range physicalLines(lf, "\n") {
		assert.LessOrEqual(t, len(l), 40, "line %d", i)
	}
	assert.Equal(t, strings.ReplaceAll(unfold(crlf, "\r\n"), "\r\n", "\n"), unfold(lf, "\n"))

	b := &strings.Builder{}
	require.NoError(t, cal.SerializeTo(b, &SerializationConfiguration{MaxLength: 60, NewLine: "\n"}))
	for i, l := range physicalLines(b.String(), "\n") {
		assert.LessOrEqual(t, len(l), 60, "line %d", i)
	}
}

func TestSerializeOptionErrors(t *testing.T) {
	cal := NewCalendar()
	for _, tc := range []struct {
		name string
		ops  []any
	}{
		{name: "line too short", ops: []any{WithLineLength(4)}},
		{name: "unknown option", ops: []any{42}},
		{name: "config line of one octet", ops: []any{&SerializationConfiguration{MaxLength: 1, NewLine: "\r\n"}}},
		{name: "config line of zero octets", ops: []any{&SerializationConfiguration{MaxLength: 0, NewLine: "\r\n"}}},
		{name: "short line after config", ops: []any{&SerializationConfiguration{MaxLength: 75, NewLine: "\n"}, WithLineLength(3)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := &strings.Builder{}
			assert.Error(t, cal.SerializeTo(b, tc.ops...))
			assert.Empty(t, b.String())
		})
	}
	assert.NoError(t, cal.SerializeTo(&strings.Builder{}, WithLineLength(5)))

	cfg := &SerializationConfiguration{MaxLength: 75, NewLine: "\n"}
	assert.NoError(t, cal.SerializeTo(&strings.Builder{}, cfg, WithLineLength(40)))
	assert.Equal(t, 75, cfg.MaxLength)
}

func TestFormatParameterValue(t *testing.T) {
	for _, tc := range []struct {
		name  string
		param Parameter
		value string
		want  string
	}{
		{name: "plain token", param: ParameterCn, value: "Jane", want: "Jane"},
		{name: "space", param: ParameterCn, value: "Jane Doe", want: `"Jane Doe"`},
		{name: "comma", param: ParameterCn, value: "Doe, Jane", want: `"Doe, Jane"`},
		{name: "colon", param: ParameterCn, value: "a:b", want: `"a:b"`},
		{name: "semicolon", param: ParameterCn, value: "a;b", want: `"a;b"`},
		{name: "dquote", param: ParameterCn, value: `say "hi"`, want: `"say ^'hi^'"`},
		{name: "caret and newline", param: ParameterCn, value: "a^b\nc", want: "a^^b^nc"},
		{name: "uri always quoted", param: ParameterAltrep, value: "cid:x", want: `"cid:x"`},
		{name: "address always quoted", param: ParameterMember, value: "mailto:a@x.org", want: `"mailto:a@x.org"`},
		{name: "unknown name", param: "X-FOO", value: "bar", want: "bar"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatParameterValue(string(tc.param), tc.value))
		})
	}
}

func TestFormatValueParameter(t *testing.T) {
	cal := NewCalendarFor("v")
	e := NewEvent("uid", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	e.AddAttachmentBinary([]byte("hello"), "text/plain")
	e.AddAttachmentURL("https://example.com/a.txt", "text/plain")
	e.RDates = append(e.RDates, Prop[RecurrenceDates]{Value: RecurrenceDates{
		Periods: []Period{{
			Start:       NewDateTimeUTC(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)),
			Duration:    Duration{Hours: 2},
			HasDuration: true,
		}},
	}})
	a := e.AddAlarm(ActionDisplay)
	a.SetDescription("wake up")
	a.SetTriggerAt(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	cal.Add(e)

	got, err := Format(cal)
	require.NoError(t, err)
	got = unfold(got, "\r\n")
	for _, line := range []string{
		"ATTACH;VALUE=BINARY;ENCODING=BASE64;FMTTYPE=text/plain:aGVsbG8=\r\n",
		"ATTACH;FMTTYPE=text/plain:https://example.com/a.txt\r\n",
		"RDATE;VALUE=PERIOD:20240103T100000Z/PT2H\r\n",
		"TRIGGER;VALUE=DATE-TIME:20240102T090000Z\r\n",
	} {
		assert.Contains(t, got, line)
	}
}

func TestFormatWritesRawUnknownProperties(t *testing.T) {
	src := calendarOf(eventOf(
		"X-CUSTOM;X-A=1:some\\, raw;text",
		"IANA-THING:kept as is",
	)...)
	cal, _ := parseOne(t, src)
	got, err := Format(cal)
	require.NoError(t, err)
	assert.Contains(t, got, "X-CUSTOM;X-A=1:some\\, raw;text\r\n")
	assert.Contains(t, got, "IANA-THING:kept as is\r\n")
}

func TestFormatRoundTrip(t *testing.T) {
	src := calendarOf(
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"X-WR-CALNAME:Work",
		"BEGIN:VTIMEZONE",
		"TZID:America/New_York",
		"BEGIN:STANDARD",
		"DTSTART:19701101T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU",
		"TZOFFSETFROM:-0400",
		"TZOFFSETTO:-0500",
		"TZNAME:EST",
		"END:STANDARD",
		"BEGIN:DAYLIGHT",
		"DTSTART:19700308T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU",
		"TZOFFSETFROM:-0500",
		"TZOFFSETTO:-0400",
		"END:DAYLIGHT",
		"END:VTIMEZONE",
		"BEGIN:VEVENT",
		"UID:e1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;TZID=America/New_York:20240102T100000",
		"DURATION:PT1H30M",
		"SUMMARY;LANGUAGE=en:Weekly sync",
		"DESCRIPTION:First\\nSecond\\, with comma",
		"LOCATION:Room 1",
		"GEO:37.386013;-122.082932",
		"ORGANIZER;CN=Boss:mailto:boss@example.com",
		`ATTENDEE;CN="Doe, Jane";ROLE=CHAIR;RSVP=TRUE;X-P=1:mailto:jane@example.com`,
		"CATEGORIES:WORK,MEETING",
		"PRIORITY:5",
		"RRULE:FREQ=WEEKLY;COUNT=5;BYDAY=MO,WE",
		"EXDATE;TZID=America/New_York:20240108T100000",
		"COMMENT:note",
		"X-EXTRA;X-Q=2:raw",
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"DESCRIPTION:soon",
		"TRIGGER;RELATED=END:-PT5M",
		"END:VALARM",
		"END:VEVENT",
		"BEGIN:VTODO",
		"UID:t1",
		"DTSTAMP:20240101T000000Z",
		"DUE;VALUE=DATE:20240201",
		"STATUS:NEEDS-ACTION",
		"PERCENT-COMPLETE:40",
		"END:VTODO",
		"BEGIN:VFREEBUSY",
		"UID:f1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20250615T000000Z",
		"ORGANIZER:mailto:fb@example.com",
		"FREEBUSY;FBTYPE=BUSY:20250615T130000Z/PT2H",
		"FREEBUSY;FBTYPE=FREE:20250615T150000Z/20250615T170000Z",
		"END:VFREEBUSY",
	)
	first, diags := parseOne(t, src)
	require.Empty(t, diags)

	out, err := Format(first)
	require.NoError(t, err)
	second, diags := parseOne(t, out)
	require.Empty(t, diags)

	if diff := cmp.Diff(first.Owned(), second.Owned(), locationComparer); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
	again, err := Format(second)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
