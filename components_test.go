package ics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serializeComponent writes c alone with LF line endings.
func serializeComponent(c Component) string {
	b := &strings.Builder{}
	c.write(newLineWriter(b, &SerializationConfiguration{MaxLength: 75, NewLine: "\n"}))
	return b.String()
}

func TestSetDuration(t *testing.T) {
	date := time.Date(2006, 1, 2, 15, 4, 0, 0, time.UTC)

	e := NewEvent("test-duration", date, date)
	e.SetEndAt(date.Add(time.Hour))
	e.SetDuration(2 * time.Hour)

	assert.Equal(t, `BEGIN:VEVENT
UID:test-duration
DTSTAMP:20060102T150400Z
DTSTART:20060102T150400Z
DURATION:PT2H
END:VEVENT
`, serializeComponent(e))
	end, err := e.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, date.Add(2*time.Hour), end)

	e.SetEndAt(date.Add(time.Hour))
	assert.Nil(t, e.Duration)
	end, err = e.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, date.Add(time.Hour), end)
}

func TestSetAllDay(t *testing.T) {
	date := time.Date(2006, 1, 2, 15, 4, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		end    bool
		output string
		endAt  time.Time
	}{
		{
			name: "test set all day - start",
			output: `BEGIN:VEVENT
UID:test-allday
DTSTAMP:20060102T150400Z
DTSTART;VALUE=DATE:20060102
END:VEVENT
`,
			endAt: time.Date(2006, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "test set all day - end",
			end:  true,
			output: `BEGIN:VEVENT
UID:test-allday
DTSTAMP:20060102T150400Z
DTSTART;VALUE=DATE:20060102
DTEND;VALUE=DATE:20060104
END:VEVENT
`,
			endAt: time.Date(2006, 1, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEvent("test-allday", date, date)
			e.SetAllDayStartAt(date)
			if tc.end {
				e.SetAllDayEndAt(date.AddDate(0, 0, 2))
			}
			assert.Equal(t, tc.output, serializeComponent(e))
			end, err := e.GetEndAt()
			require.NoError(t, err)
			assert.Equal(t, tc.endAt, end)
		})
	}
}

func TestGetLastModifiedAt(t *testing.T) {
	e := NewEvent("test-last-modified", time.Now(), time.Now())
	_, err := e.GetLastModifiedAt()
	assert.True(t, errors.Is(err, ErrorPropertyNotFound))

	lastModified := time.Unix(123456789, 0)
	e.SetModifiedAt(lastModified)
	got, err := e.GetLastModifiedAt()
	if err != nil {
		t.Fatalf("e.GetLastModifiedAt: %v", err)
	}

	if !got.Equal(lastModified) {
		t.Errorf("got last modified = %q, want %q", got, lastModified)
	}
}

func TestSetMailtoPrefix(t *testing.T) {
	e := NewEvent("test-set-organizer", time.Now(), time.Now())

	e.SetOrganizer("org1@provider.com")
	assert.Contains(t, serializeComponent(e), "\nORGANIZER:mailto:org1@provider.com\n")

	e.SetOrganizer("mailto:org2@provider.com", WithCN("Org Two"))
	assert.Contains(t, serializeComponent(e), "\nORGANIZER;CN=\"Org Two\":mailto:org2@provider.com\n")

	e.AddAttendee("att1@provider.com")
	assert.Contains(t, serializeComponent(e), "\nATTENDEE:mailto:att1@provider.com\n")

	e.AddAttendee("MAILTO:att2@provider.com", CalendarUserTypeRoom, WithParameter("x-seat", "12"))
	assert.Contains(t, serializeComponent(e), "\nATTENDEE;CUTYPE=ROOM;X-SEAT=12:MAILTO:att2@provider.com\n")
	assert.Equal(t, "att2@provider.com", e.Attendees[1].Value.Address.Email())
}

func TestCalendarAttachment(t *testing.T) {
	cal := NewCalendar()
	event := NewEvent("test-event", time.Now(), time.Now())
	event.AddAttachmentURL("http://example.com/attachment.txt", "text/plain")
	cal.Add(event)

	serialized := cal.Serialize()
	assert.Contains(t, serialized, "\r\nATTACH;FMTTYPE=text/plain:http://example.com/attachment.txt\r\n")
}

func TestTodoDueAt(t *testing.T) {
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	todo := NewTodo("t", stamp)
	_, err := todo.GetDueAt()
	assert.True(t, errors.Is(err, ErrorPropertyNotFound))

	todo.SetStartAt(stamp)
	todo.SetDuration(36 * time.Hour)
	due, err := todo.GetDueAt()
	require.NoError(t, err)
	assert.Equal(t, stamp.Add(36*time.Hour), due)

	todo.SetAllDayDueAt(time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC))
	due, err = todo.GetDueAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), due)

	todo.SetPercentComplete(50)
	todo.SetPriority(1)
	todo.SetCompletedAt(stamp.AddDate(0, 1, 0))
	assert.Equal(t, `BEGIN:VTODO
UID:t
DTSTAMP:20240101T000000Z
DTSTART:20240101T000000Z
DUE;VALUE=DATE:20240201
COMPLETED:20240201T000000Z
DURATION:P1DT12H
PRIORITY:1
PERCENT-COMPLETE:50
END:VTODO
`, serializeComponent(todo))
}

func TestAlarmBuilders(t *testing.T) {
	e := NewEvent("alarms", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	before := e.AddAlarm(ActionDisplay)
	before.SetTrigger(-15 * time.Minute)
	before.SetDescription("Starting soon")
	after := e.AddAlarm(ActionEmail)
	after.SetTriggerFromEnd(5 * time.Minute)
	after.SetRepeat(2, 5*time.Minute)
	after.SetSummary("Done")
	after.SetDescription("It ended")
	after.AddAttendee("someone@example.com")

	assert.Equal(t, `BEGIN:VALARM
ACTION:DISPLAY
TRIGGER:-PT15M
DESCRIPTION:Starting soon
END:VALARM
`, serializeComponent(before))
	assert.Equal(t, `BEGIN:VALARM
ACTION:EMAIL
TRIGGER;RELATED=END:PT5M
REPEAT:2
DURATION:PT5M
DESCRIPTION:It ended
SUMMARY:Done
ATTENDEE:mailto:someone@example.com
END:VALARM
`, serializeComponent(after))

	cal := NewCalendar()
	cal.Add(e)
	out, err := Format(cal)
	require.NoError(t, err)
	back, diags := parseOne(t, out)
	assert.Empty(t, diags)
	assert.Len(t, back.Events()[0].Alarms, 2)
}

func TestFreeBusyAddPeriods(t *testing.T) {
	fb := NewFreeBusy("fb", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	period := Period{
		Start:       NewDateTimeUTC(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		Duration:    Duration{Hours: 1},
		HasDuration: true,
	}
	fb.AddPeriods(FreeBusyTimeTypeFree, period)
	fb.AddPeriods("busy-tentative", period)
	fb.AddPeriods("X-OUT-OF-OFFICE", period)
	fb.AddPeriods("", period, period)

	assert.Len(t, fb.Free, 1)
	assert.Len(t, fb.BusyTentative, 1)
	assert.Empty(t, fb.BusyUnavailable)
	require.Len(t, fb.Busy, 2)
	assert.Equal(t, `BEGIN:VFREEBUSY
UID:fb
DTSTAMP:20240101T000000Z
FREEBUSY;FBTYPE=X-OUT-OF-OFFICE:20240102T090000Z/PT1H
FREEBUSY:20240102T090000Z/PT1H,20240102T090000Z/PT1H
FREEBUSY;FBTYPE=FREE:20240102T090000Z/PT1H
FREEBUSY;FBTYPE=busy-tentative:20240102T090000Z/PT1H
END:VFREEBUSY
`, serializeComponent(fb))
}

func TestTimezoneBuilder(t *testing.T) {
	tz := NewTimezone("Europe/Copenhagen")
	std := tz.AddStandard(NewDateTimeFloating(time.Date(1970, 10, 25, 3, 0, 0, 0, time.UTC)), NewUTCOffset(7200), NewUTCOffset(3600))
	std.AddTzName("CET")
	require.NoError(t, std.AddRrule("FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU"))
	dst := tz.AddDaylight(NewDateTimeFloating(time.Date(1970, 3, 29, 2, 0, 0, 0, time.UTC)), NewUTCOffset(3600), NewUTCOffset(7200))
	dst.AddTzName("CEST")
	assert.Error(t, dst.AddRrule("FREQ=SOMETIMES"))

	assert.Equal(t, []*Observance{std}, tz.Standard())
	assert.Equal(t, []*Observance{dst}, tz.Daylight())
	assert.Equal(t, `BEGIN:VTIMEZONE
TZID:Europe/Copenhagen
BEGIN:STANDARD
DTSTART:19701025T030000
TZOFFSETFROM:+0200
TZOFFSETTO:+0100
TZNAME:CET
RRULE:FREQ=YEARLY;BYDAY=-1SU;BYMONTH=10
END:STANDARD
BEGIN:DAYLIGHT
DTSTART:19700329T020000
TZOFFSETFROM:+0100
TZOFFSETTO:+0200
TZNAME:CEST
END:DAYLIGHT
END:VTIMEZONE
`, serializeComponent(tz))
}
