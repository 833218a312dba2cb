// Package datetime holds the loose date-time model used by scheduling code:
// a value that is either a bare date, a floating wall-clock time or an
// instant in a known zone.
package datetime

import (
	"errors"
	"fmt"
	"time"
)

// Stable text forms. The length of the text picks the variant.
const (
	StableFormatDateOnly = "2006-01-02"
	StableFormatFloating = "2006-01-02T15:04:05"
	StableFormatLocal    = time.RFC3339
)

// ErrInvalidStable is returned by Parse for text in none of the stable forms.
var ErrInvalidStable = errors.New("invalid stable date-time")

type Kind int

const (
	KindDateOnly Kind = iota
	KindFloating
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindDateOnly:
		return "date-only"
	case KindFloating:
		return "floating"
	case KindLocal:
		return "local"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Date is a civil date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Clock is a civil time of day.
type Clock struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

var (
	startOfDay = Clock{}
	endOfDay   = Clock{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999999999}
)

// Civil joins a date and a clock into a wall-clock time expressed in UTC.
// Civil times compare by their fields only.
func Civil(d Date, c Clock) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, c.Second, c.Nanosecond, time.UTC)
}

// CivilOf drops the location of t, keeping its wall clock.
func CivilOf(t time.Time) time.Time {
	return Civil(DateOf(t), ClockOf(t))
}

// Loose is a date-only, floating or zoned date-time. The zero value is the
// date-only value 0001-01-01.
type Loose struct {
	kind Kind
	t    time.Time
}

// DateOnly returns a date-only value.
func DateOnly(year int, month time.Month, day int) Loose {
	return Loose{kind: KindDateOnly, t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Floating returns a floating value carrying the wall clock of t.
func Floating(t time.Time) Loose {
	return Loose{kind: KindFloating, t: CivilOf(t)}
}

// Local returns a zoned value.
func Local(t time.Time) Loose {
	return Loose{kind: KindLocal, t: t}
}

func (l Loose) Kind() Kind {
	return l.kind
}

func (l Loose) Date() Date {
	return DateOf(l.t)
}

// Time returns the time of day, or false for a date-only value.
func (l Loose) Time() (Clock, bool) {
	if l.kind == KindDateOnly {
		return Clock{}, false
	}
	return ClockOf(l.t), true
}

// Civil is the wall clock of l expressed in UTC. Date-only values give
// midnight.
func (l Loose) Civil() time.Time {
	return CivilOf(l.t)
}

// Instant resolves l to an instant. Date-only and floating values are read
// in loc; zoned values ignore it.
func (l Loose) Instant(loc *time.Location) time.Time {
	if l.kind == KindLocal {
		return l.t
	}
	return FromLocal(l.t, loc)
}

// WithStartOfDay is the civil time of l, with midnight filled in for a
// date-only value.
func (l Loose) WithStartOfDay() time.Time {
	c, ok := l.Time()
	if !ok {
		c = startOfDay
	}
	return Civil(l.Date(), c)
}

// WithEndOfDay is the civil time of l, with 23:59:59.999999999 filled in for
// a date-only value.
func (l Loose) WithEndOfDay() time.Time {
	c, ok := l.Time()
	if !ok {
		c = endOfDay
	}
	return Civil(l.Date(), c)
}

// Add shifts l by d keeping its variant. A date-only value moves by whole
// days; any time part of d is truncated away.
func (l Loose) Add(d Delta) Loose {
	switch l.kind {
	case KindDateOnly:
		t := d.AddTo(l.t)
		return DateOnly(t.Date())
	default:
		return Loose{kind: l.kind, t: d.AddTo(l.t)}
	}
}

// Equal reports whether l and o are the same variant and value.
func (l Loose) Equal(o Loose) bool {
	return l.kind == o.kind && l.t.Equal(o.t)
}

// String renders the stable form.
func (l Loose) String() string {
	switch l.kind {
	case KindDateOnly:
		return l.t.Format(StableFormatDateOnly)
	case KindFloating:
		return l.t.Format(StableFormatFloating)
	default:
		return l.t.Format(StableFormatLocal)
	}
}

// Parse reads a stable form. Zoned text keeps its numeric offset as a fixed
// location.
func Parse(s string) (Loose, error) {
	switch n := len(s); {
	case n == 10:
		t, err := time.Parse(StableFormatDateOnly, s)
		if err != nil {
			return Loose{}, fmt.Errorf("%w %q: %v", ErrInvalidStable, s, err)
		}
		return DateOnly(t.Date()), nil
	case n == 19:
		t, err := time.Parse(StableFormatFloating, s)
		if err != nil {
			return Loose{}, fmt.Errorf("%w %q: %v", ErrInvalidStable, s, err)
		}
		return Floating(t), nil
	case n >= 20:
		t, err := time.Parse(StableFormatLocal, s)
		if err != nil {
			return Loose{}, fmt.Errorf("%w %q: %v", ErrInvalidStable, s, err)
		}
		return Local(t), nil
	}
	return Loose{}, fmt.Errorf("%w %q", ErrInvalidStable, s)
}

func (l Loose) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Loose) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// FromLocal converts the wall clock of civil into an instant in loc. An
// ambiguous wall clock picks the earlier instant; a wall clock skipped by a
// transition is read as UTC.
func FromLocal(civil time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	c := CivilOf(civil)
	var found time.Time
	ok := false
	for _, probe := range []time.Duration{-26 * time.Hour, 26 * time.Hour} {
		_, off := c.Add(probe).In(loc).Zone()
		cand := c.Add(-time.Duration(off) * time.Second).In(loc)
		if !CivilOf(cand).Equal(c) {
			continue
		}
		if !ok || cand.Before(found) {
			found, ok = cand, true
		}
	}
	if !ok {
		return c.In(loc)
	}
	return found
}
