package ics

import (
	"fmt"
	"time"
)

// PeriodKind combines how a period ends with the time form of its start.
type PeriodKind int

const (
	PeriodExplicitUTC PeriodKind = iota
	PeriodExplicitFloating
	PeriodExplicitZoned
	PeriodDurationUTC
	PeriodDurationFloating
	PeriodDurationZoned
)

func (k PeriodKind) String() string {
	switch k {
	case PeriodExplicitUTC:
		return "ExplicitUtc"
	case PeriodExplicitFloating:
		return "ExplicitFloating"
	case PeriodExplicitZoned:
		return "ExplicitZoned"
	case PeriodDurationUTC:
		return "DurationUtc"
	case PeriodDurationFloating:
		return "DurationFloating"
	case PeriodDurationZoned:
		return "DurationZoned"
	}
	return fmt.Sprintf("PeriodKind(%d)", int(k))
}

// Period is a PERIOD value (section 3.3.9): a start and either an explicit
// end or a positive duration.
type Period struct {
	Start       DateTime
	End         DateTime
	Duration    Duration
	HasDuration bool
}

func (Period) Type() ValueDataType { return ValueDataTypePeriod }

func (p Period) Kind() PeriodKind {
	k := PeriodExplicitUTC
	if p.HasDuration {
		k = PeriodDurationUTC
	}
	switch p.Start.Form {
	case DateTimeFloating:
		k++
	case DateTimeZoned:
		k += 2
	}
	return k
}

// StartInstant and EndInstant resolve the period bounds like
// DateTime.Instant.
func (p Period) StartInstant() time.Time {
	return p.Start.Instant()
}

func (p Period) EndInstant() time.Time {
	if p.HasDuration {
		return p.Duration.AddTo(p.StartInstant())
	}
	return p.End.Instant()
}

func (p Period) String() string {
	if p.HasDuration {
		return p.Start.String() + "/" + p.Duration.String()
	}
	return p.Start.String() + "/" + p.End.String()
}

// ParsePeriod parses date-time "/" (date-time / duration). Both bounds of an
// explicit period must both be UTC or both floating, and a duration must be
// positive.
func ParsePeriod(s string) (Period, error) {
	p := newValueParser(ValueDataTypePeriod, s)
	var period Period
	start, err := p.dateTime()
	if err != nil {
		return period, err
	}
	period.Start = start
	if !p.consume('/') {
		return period, p.errorf("'/'")
	}
	at := p.offset
	switch c := p.peek(); {
	case c == 'P' || c == 'p' || c == '+' || c == '-':
		d, err := p.duration()
		if err != nil {
			return period, err
		}
		if !d.Positive() {
			return period, p.errorAt(at, p.offset, "positive duration")
		}
		period.Duration = d
		period.HasDuration = true
	default:
		end, err := p.dateTime()
		if err != nil {
			return period, err
		}
		if end.Form != start.Form {
			return period, p.errorAt(at, p.offset, "%s end to match the %s start", start.Form, start.Form)
		}
		period.End = end
	}
	return period, p.end()
}
