package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleFrequencies = map[Frequency]rrule.Frequency{
	FrequencyYearly:   rrule.YEARLY,
	FrequencyMonthly:  rrule.MONTHLY,
	FrequencyWeekly:   rrule.WEEKLY,
	FrequencyDaily:    rrule.DAILY,
	FrequencyHourly:   rrule.HOURLY,
	FrequencyMinutely: rrule.MINUTELY,
	FrequencySecondly: rrule.SECONDLY,
}

// Indexed by time.Weekday.
var rruleWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ROption converts r into rrule-go options starting at dtstart. A leap
// second in BYSECOND is read as second 59 since time.Time has no second 60.
// A DATE UNTIL covers the whole day in the location of dtstart.
func (r RecurrenceRule) ROption(dtstart time.Time) rrule.ROption {
	opt := rrule.ROption{
		Freq:       rruleFrequencies[r.Freq],
		Dtstart:    dtstart,
		Interval:   r.Interval,
		Bysetpos:   r.BySetPos,
		Bymonth:    r.ByMonth,
		Bymonthday: r.ByMonthDay,
		Byyearday:  r.ByYearDay,
		Byweekno:   r.ByWeekNo,
		Byhour:     r.ByHour,
		Byminute:   r.ByMinute,
	}
	if r.Count != nil {
		opt.Count = *r.Count
	}
	if r.Until != nil {
		if r.Until.IsDate() {
			opt.Until = r.Until.In(dtstart.Location()).AddDate(0, 0, 1).Add(-time.Second)
		} else {
			opt.Until = r.Until.In(dtstart.Location())
		}
	}
	for _, s := range r.BySecond {
		if s == 60 {
			s = 59
		}
		opt.Bysecond = append(opt.Bysecond, s)
	}
	for _, d := range r.ByDay {
		wd := rruleWeekdays[d.Weekday]
		if d.Ordinal != 0 {
			wd = wd.Nth(d.Ordinal)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}
	if r.WeekStart != nil {
		opt.Wkst = rruleWeekdays[*r.WeekStart]
	}
	return opt
}

// RRule builds an rrule-go iterator for r starting at dtstart.
func (r RecurrenceRule) RRule(dtstart time.Time) (*rrule.RRule, error) {
	if _, ok := rruleFrequencies[r.Freq]; !ok {
		return nil, fmt.Errorf("unsupported frequency %q", r.Freq)
	}
	rr, err := rrule.NewRRule(r.ROption(dtstart))
	if err != nil {
		return nil, fmt.Errorf("building rrule %s: %w", r, err)
	}
	return rr, nil
}

// Occurrences lists the start times of the component within [after, before],
// combining DTSTART, RRULE and RDATE and removing EXDATE. Floating and
// date values are read as UTC. A component without a rule or extra dates has
// the single occurrence DTSTART.
func (cb *ComponentBase) Occurrences(after, before time.Time) ([]time.Time, error) {
	if cb.DTStart == nil {
		return nil, fmt.Errorf("%w: %s", ErrorPropertyNotFound, PropertyDtstart)
	}
	start := cb.DTStart.Value.Instant()
	loc := start.Location()
	set := rrule.Set{}
	if cb.RRule != nil {
		rr, err := cb.RRule.Value.RRule(start)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", PropertyRrule, err)
		}
		set.RRule(rr)
	} else {
		set.RDate(start)
	}
	for _, rd := range cb.RDates {
		for _, dt := range rd.Value.DateTimes {
			set.RDate(dt.In(loc))
		}
		for _, p := range rd.Value.Periods {
			set.RDate(p.Start.In(loc))
		}
	}
	for _, ex := range cb.ExDates {
		for _, dt := range ex.Value {
			set.ExDate(dt.In(loc))
		}
	}
	return set.Between(after, before, true), nil
}
