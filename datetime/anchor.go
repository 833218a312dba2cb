package datetime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidAnchor is returned by ParseAnchor for unrecognised text.
var ErrInvalidAnchor = errors.New("invalid date-time anchor")

// SuggestedHours are the hours offered when a day has no explicit time.
var SuggestedHours = []int{9, 13, 18}

type AnchorKind int

const (
	// AnchorRelative is an exact offset from now: "now", "10s", "10min", "2h".
	AnchorRelative AnchorKind = iota
	// AnchorDays is a whole number of days from today: "today", "tomorrow", "3d".
	AnchorDays
	// AnchorDateTime is an explicit date or date and time.
	AnchorDateTime
	// AnchorTime is a time of day on the reference date: "14:30".
	AnchorTime
	// AnchorMonthDay is a date in the reference year: "01-15".
	AnchorMonthDay
)

// Anchor is a user-facing date-time specifier resolved against a reference
// time.
type Anchor struct {
	Kind   AnchorKind
	Offset time.Duration
	Days   int
	Loose  Loose
	Clock  Clock
	Month  time.Month
	Day    int
}

func Now() Anchor       { return Anchor{Kind: AnchorRelative} }
func Today() Anchor     { return Anchor{Kind: AnchorDays} }
func Tomorrow() Anchor  { return Anchor{Kind: AnchorDays, Days: 1} }
func Yesterday() Anchor { return Anchor{Kind: AnchorDays, Days: -1} }

var anchorUnits = []struct {
	suffix string
	unit   time.Duration
	days   bool
}{
	{"min", time.Minute, false},
	{"s", time.Second, false},
	{"h", time.Hour, false},
	{"d", 0, true},
}

// ParseAnchor reads now, today, tomorrow, yesterday, HH:MM, YYYY-MM-DD,
// "YYYY-MM-DD HH:MM", MM-DD and signed counts with an s, min, h or d suffix.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "now":
		return Now(), nil
	case "today":
		return Today(), nil
	case "tomorrow":
		return Tomorrow(), nil
	case "yesterday":
		return Yesterday(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04", s); err == nil {
		return Anchor{Kind: AnchorDateTime, Loose: Floating(t)}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Anchor{Kind: AnchorDateTime, Loose: DateOnly(t.Date())}, nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return Anchor{Kind: AnchorTime, Clock: Clock{Hour: t.Hour(), Minute: t.Minute()}}, nil
	}
	if t, err := time.Parse("01-02", s); err == nil {
		return Anchor{Kind: AnchorMonthDay, Month: t.Month(), Day: t.Day()}, nil
	}
	for _, u := range anchorUnits {
		num, ok := strings.CutSuffix(strings.ToLower(s), u.suffix)
		if !ok || num == "" {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		if u.days {
			return Anchor{Kind: AnchorDays, Days: n}, nil
		}
		return Anchor{Kind: AnchorRelative, Offset: time.Duration(n) * u.unit}, nil
	}
	return Anchor{}, fmt.Errorf("%w: %q", ErrInvalidAnchor, s)
}

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorRelative:
		if a.Offset == 0 {
			return "now"
		}
		return a.Offset.String()
	case AnchorDays:
		switch a.Days {
		case 0:
			return "today"
		case 1:
			return "tomorrow"
		case -1:
			return "yesterday"
		}
		return strconv.Itoa(a.Days) + "d"
	case AnchorDateTime:
		if c, ok := a.Loose.Time(); ok {
			return a.Loose.Date().String() + fmt.Sprintf(" %02d:%02d", c.Hour, c.Minute)
		}
		return a.Loose.Date().String()
	case AnchorTime:
		return fmt.Sprintf("%02d:%02d", a.Clock.Hour, a.Clock.Minute)
	case AnchorMonthDay:
		return fmt.Sprintf("%02d-%02d", int(a.Month), a.Day)
	}
	return fmt.Sprintf("Anchor(%d)", int(a.Kind))
}

func (a *Anchor) UnmarshalText(b []byte) error {
	v, err := ParseAnchor(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// resolve turns the anchor into a loose value relative to ref.
func (a Anchor) resolve(ref time.Time) Loose {
	switch a.Kind {
	case AnchorRelative:
		return Local(ref.Add(a.Offset))
	case AnchorDays:
		d := DateOf(ref.AddDate(0, 0, a.Days))
		return DateOnly(d.Year, d.Month, d.Day)
	case AnchorTime:
		return Local(FromLocal(Civil(DateOf(ref), a.Clock), ref.Location()))
	case AnchorMonthDay:
		return DateOnly(ref.Year(), a.Month, a.Day)
	}
	return a.Loose
}

// ResolveAtStartOfDay resolves against now, filling a missing time of day
// with midnight.
func (a Anchor) ResolveAtStartOfDay(now time.Time) time.Time {
	l := a.resolve(now)
	if l.Kind() == KindLocal {
		return l.t
	}
	return FromLocal(l.WithStartOfDay(), now.Location())
}

// ResolveAtEndOfDay resolves against now, filling a missing time of day with
// the last nanosecond of the day.
func (a Anchor) ResolveAtEndOfDay(now time.Time) time.Time {
	l := a.resolve(now)
	if l.Kind() == KindLocal {
		return l.t
	}
	return FromLocal(l.WithEndOfDay(), now.Location())
}

// ResolveAtSuggestedTime resolves against now for use as a due time. A bare
// date that is today takes the next suggested hour after now, or stays
// date-only when the day is over; other bare dates take the first suggested
// hour.
func (a Anchor) ResolveAtSuggestedTime(now time.Time) Loose {
	l := a.resolve(now)
	if l.Kind() != KindDateOnly {
		if l.Kind() == KindFloating {
			return Local(FromLocal(l.t, now.Location()))
		}
		return l
	}
	d := l.Date()
	if d == DateOf(now) {
		if h, ok := NextSuggestedHour(now.Hour()); ok {
			return Local(FromLocal(Civil(d, Clock{Hour: h}), now.Location()))
		}
		return l
	}
	return Local(FromLocal(Civil(d, Clock{Hour: FirstSuggestedHour()}), now.Location()))
}

// ResolveSinceStartOfDay resolves relative to start, for the lower bound of
// a range that begins at start. A time of day already past on the start
// date moves to the following day.
func (a Anchor) ResolveSinceStartOfDay(start time.Time) time.Time {
	t := a.ResolveAtStartOfDay(start)
	if a.Kind == AnchorTime && t.Before(start) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ResolveSinceEndOfDay is ResolveSinceStartOfDay for the upper bound of a
// range.
func (a Anchor) ResolveSinceEndOfDay(start time.Time) time.Time {
	t := a.ResolveAtEndOfDay(start)
	if a.Kind == AnchorTime && t.Before(start) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// NextSuggestedHour is the earliest suggested hour strictly after hour.
func NextSuggestedHour(hour int) (int, bool) {
	for _, h := range SuggestedHours {
		if h > hour {
			return h, true
		}
	}
	return 0, false
}

func FirstSuggestedHour() int {
	return SuggestedHours[0]
}
