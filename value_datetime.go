package ics

import (
	"fmt"
	"time"

	"github.com/aimcal/ical/datetime"
)

// Date is a DATE value (section 3.3.4).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) Type() ValueDataType { return ValueDataTypeDate }

func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time is a TIME value (section 3.3.12). A leap second is kept as second 59
// with LeapSecond set and written back as 60.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	UTC        bool
	LeapSecond bool
}

func (Time) Type() ValueDataType { return ValueDataTypeTime }

func (t Time) String() string {
	s := t.Second
	if t.LeapSecond {
		s = 60
	}
	z := ""
	if t.UTC {
		z = "Z"
	}
	return fmt.Sprintf("%02d%02d%02d%s", t.Hour, t.Minute, s, z)
}

// DateTimeForm says how a DATE-TIME relates to a time zone.
type DateTimeForm int

const (
	DateTimeFloating DateTimeForm = iota
	DateTimeUTC
	DateTimeZoned
	// DateTimeDateOnly is a DATE value.
	DateTimeDateOnly
)

func (f DateTimeForm) String() string {
	switch f {
	case DateTimeFloating:
		return "floating"
	case DateTimeUTC:
		return "utc"
	case DateTimeZoned:
		return "zoned"
	case DateTimeDateOnly:
		return "date"
	}
	return fmt.Sprintf("DateTimeForm(%d)", int(f))
}

// DateTime covers the DATE and DATE-TIME value types. TZID is set for zoned
// values, and also for floating values whose zone could not be resolved so
// that the identifier is written back unchanged.
type DateTime struct {
	Form     DateTimeForm
	Date     Date
	Time     Time
	TZID     string
	Location *time.Location
}

func (dt DateTime) Type() ValueDataType {
	if dt.Form == DateTimeDateOnly {
		return ValueDataTypeDate
	}
	return ValueDataTypeDateTime
}

func (dt DateTime) IsDate() bool {
	return dt.Form == DateTimeDateOnly
}

// NewDate returns a DATE value.
func NewDate(year int, month time.Month, day int) DateTime {
	return DateTime{Form: DateTimeDateOnly, Date: Date{Year: year, Month: month, Day: day}}
}

// NewDateTimeUTC returns a UTC DATE-TIME at the instant t.
func NewDateTimeUTC(t time.Time) DateTime {
	t = t.UTC()
	dt := newDateTime(DateTimeUTC, t)
	dt.Time.UTC = true
	return dt
}

// NewDateTimeFloating returns a floating DATE-TIME with the wall clock of t.
func NewDateTimeFloating(t time.Time) DateTime {
	return newDateTime(DateTimeFloating, t)
}

// NewDateTimeIn returns a DATE-TIME zoned to the location of t, using the
// location name as TZID. Times in UTC or in the unnamed process-local zone
// give the UTC form.
func NewDateTimeIn(t time.Time) DateTime {
	loc := t.Location()
	if loc == time.UTC || loc == time.Local || loc.String() == "UTC" {
		return NewDateTimeUTC(t)
	}
	dt := newDateTime(DateTimeZoned, t)
	dt.TZID = loc.String()
	dt.Location = loc
	return dt
}

func newDateTime(form DateTimeForm, t time.Time) DateTime {
	return DateTime{
		Form: form,
		Date: Date{Year: t.Year(), Month: t.Month(), Day: t.Day()},
		Time: Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()},
	}
}

// String is the value text without parameters.
func (dt DateTime) String() string {
	if dt.Form == DateTimeDateOnly {
		return dt.Date.String()
	}
	t := dt.Time
	t.UTC = dt.Form == DateTimeUTC
	return dt.Date.String() + "T" + t.String()
}

// civil is the wall clock in UTC.
func (dt DateTime) civil() time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day, dt.Time.Hour, dt.Time.Minute, dt.Time.Second, 0, time.UTC)
}

// Instant resolves dt for comparisons. Dates are midnight UTC, floating
// values read their wall clock as UTC and zoned values use their location.
func (dt DateTime) Instant() time.Time {
	return dt.In(time.UTC)
}

// In resolves dt reading dates and floating values in loc.
func (dt DateTime) In(loc *time.Location) time.Time {
	switch dt.Form {
	case DateTimeUTC:
		return dt.civil()
	case DateTimeZoned:
		if dt.Location != nil {
			return datetime.FromLocal(dt.civil(), dt.Location)
		}
	}
	return datetime.FromLocal(dt.civil(), loc)
}

// Loose converts to the loose model: dates are date-only, floating values
// stay floating, UTC and zoned values become local instants.
func (dt DateTime) Loose() datetime.Loose {
	switch dt.Form {
	case DateTimeDateOnly:
		return datetime.DateOnly(dt.Date.Year, dt.Date.Month, dt.Date.Day)
	case DateTimeUTC:
		return datetime.Local(dt.civil())
	case DateTimeZoned:
		if dt.Location != nil {
			return datetime.Local(datetime.FromLocal(dt.civil(), dt.Location))
		}
	}
	return datetime.Floating(dt.civil())
}

// DateTimeFromLoose converts back from the loose model. Local values in UTC
// give the UTC form, other locations are zoned by their name.
func DateTimeFromLoose(l datetime.Loose) DateTime {
	switch l.Kind() {
	case datetime.KindDateOnly:
		d := l.Date()
		return NewDate(d.Year, d.Month, d.Day)
	case datetime.KindFloating:
		return NewDateTimeFloating(l.Civil())
	}
	return NewDateTimeIn(l.Instant(time.UTC))
}

// ParseDate parses YYYYMMDD, validating the day against the month.
func ParseDate(s string) (Date, error) {
	p := newValueParser(ValueDataTypeDate, s)
	d, err := p.date()
	if err != nil {
		return d, err
	}
	return d, p.end()
}

func (p *valueParser) date() (Date, error) {
	var d Date
	start := p.offset
	y, err := p.digits(4)
	if err != nil {
		return d, err
	}
	m, err := p.digits(2)
	if err != nil {
		return d, err
	}
	if m < 1 || m > 12 {
		return d, p.errorAt(start+4, start+6, "month 01-12")
	}
	day, err := p.digits(2)
	if err != nil {
		return d, err
	}
	if day < 1 || day > daysIn(y, time.Month(m)) {
		return d, p.errorAt(start+6, start+8, "day 01-%02d", daysIn(y, time.Month(m)))
	}
	return Date{Year: y, Month: time.Month(m), Day: day}, nil
}

// ParseTime parses HHMMSS with an optional trailing Z.
func ParseTime(s string) (Time, error) {
	p := newValueParser(ValueDataTypeTime, s)
	t, err := p.time()
	if err != nil {
		return t, err
	}
	return t, p.end()
}

func (p *valueParser) time() (Time, error) {
	var t Time
	var err error
	start := p.offset
	if t.Hour, err = p.digits(2); err != nil {
		return t, err
	}
	if t.Hour > 23 {
		return t, p.errorAt(start, start+2, "hour 00-23")
	}
	if t.Minute, err = p.digits(2); err != nil {
		return t, err
	}
	if t.Minute > 59 {
		return t, p.errorAt(start+2, start+4, "minute 00-59")
	}
	if t.Second, err = p.digits(2); err != nil {
		return t, err
	}
	switch {
	case t.Second == 60:
		t.Second = 59
		t.LeapSecond = true
	case t.Second > 60:
		return t, p.errorAt(start+4, start+6, "second 00-60")
	}
	t.UTC = p.consumeFold('Z')
	return t, nil
}

// ParseDateTime parses DATE "T" TIME. The result is UTC when the time ends
// in Z and floating otherwise.
func ParseDateTime(s string) (DateTime, error) {
	p := newValueParser(ValueDataTypeDateTime, s)
	dt, err := p.dateTime()
	if err != nil {
		return dt, err
	}
	return dt, p.end()
}

func (p *valueParser) dateTime() (DateTime, error) {
	var dt DateTime
	d, err := p.date()
	if err != nil {
		return dt, err
	}
	if !p.consumeFold('T') {
		return dt, p.errorf("'T'")
	}
	t, err := p.time()
	if err != nil {
		return dt, err
	}
	dt = DateTime{Form: DateTimeFloating, Date: d, Time: t}
	if t.UTC {
		dt.Form = DateTimeUTC
	}
	return dt, nil
}
