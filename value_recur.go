package ics

import (
	"strconv"
	"strings"
	"time"
)

// Frequency is the FREQ part of a recurrence rule.
type Frequency string

const (
	FrequencySecondly Frequency = "SECONDLY"
	FrequencyMinutely Frequency = "MINUTELY"
	FrequencyHourly   Frequency = "HOURLY"
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyYearly   Frequency = "YEARLY"
)

var frequencies = map[string]Frequency{
	"SECONDLY": FrequencySecondly,
	"MINUTELY": FrequencyMinutely,
	"HOURLY":   FrequencyHourly,
	"DAILY":    FrequencyDaily,
	"WEEKLY":   FrequencyWeekly,
	"MONTHLY":  FrequencyMonthly,
	"YEARLY":   FrequencyYearly,
}

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func parseWeekday(s string) (time.Weekday, bool) {
	for i, c := range weekdayCodes {
		if strings.EqualFold(s, c) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayNum is a BYDAY entry: a weekday with an optional signed ordinal.
// Ordinal 0 means every such weekday.
type WeekdayNum struct {
	Ordinal int
	Weekday time.Weekday
}

func (w WeekdayNum) String() string {
	if w.Ordinal == 0 {
		return weekdayCodes[w.Weekday]
	}
	return strconv.Itoa(w.Ordinal) + weekdayCodes[w.Weekday]
}

// RecurrenceRule is a RECUR value (section 3.3.10). BYSECOND may hold 60.
type RecurrenceRule struct {
	Freq       Frequency
	Until      *DateTime
	Count      *int
	Interval   int
	BySecond   []int
	ByMinute   []int
	ByHour     []int
	ByDay      []WeekdayNum
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	ByMonth    []int
	BySetPos   []int
	WeekStart  *time.Weekday
}

func (RecurrenceRule) Type() ValueDataType { return ValueDataTypeRecur }

// HasLeapSecond reports whether BYSECOND names second 60.
func (r RecurrenceRule) HasLeapSecond() bool {
	for _, s := range r.BySecond {
		if s == 60 {
			return true
		}
	}
	return false
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// String writes the parts in a fixed order, FREQ first.
func (r RecurrenceRule) String() string {
	parts := []string{"FREQ=" + string(r.Freq)}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.String())
	}
	if r.Count != nil {
		parts = append(parts, "COUNT="+strconv.Itoa(*r.Count))
	}
	if r.Interval != 0 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	for _, p := range []struct {
		name string
		vs   []int
	}{
		{"BYSECOND", r.BySecond},
		{"BYMINUTE", r.ByMinute},
		{"BYHOUR", r.ByHour},
	} {
		if len(p.vs) > 0 {
			parts = append(parts, p.name+"="+joinInts(p.vs))
		}
	}
	if len(r.ByDay) > 0 {
		days := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			days[i] = d.String()
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	for _, p := range []struct {
		name string
		vs   []int
	}{
		{"BYMONTHDAY", r.ByMonthDay},
		{"BYYEARDAY", r.ByYearDay},
		{"BYWEEKNO", r.ByWeekNo},
		{"BYMONTH", r.ByMonth},
		{"BYSETPOS", r.BySetPos},
	} {
		if len(p.vs) > 0 {
			parts = append(parts, p.name+"="+joinInts(p.vs))
		}
	}
	if r.WeekStart != nil {
		parts = append(parts, "WKST="+weekdayCodes[*r.WeekStart])
	}
	return strings.Join(parts, ";")
}

type intRange struct {
	min, max int
	signed   bool
}

var recurLists = map[string]intRange{
	"BYSECOND":   {0, 60, false},
	"BYMINUTE":   {0, 59, false},
	"BYHOUR":     {0, 23, false},
	"BYMONTHDAY": {1, 31, true},
	"BYYEARDAY":  {1, 366, true},
	"BYWEEKNO":   {1, 53, true},
	"BYMONTH":    {1, 12, false},
	"BYSETPOS":   {1, 366, true},
}

// ParseRecurrenceRule parses "part *(;part)". FREQ must appear exactly once,
// every other part at most once, and UNTIL and COUNT exclude each other.
func ParseRecurrenceRule(s string) (RecurrenceRule, error) {
	var r RecurrenceRule
	seen := map[string]bool{}
	offset := 0
	for _, part := range strings.Split(s, ";") {
		start := offset
		offset += len(part) + 1
		p := &valueParser{typ: ValueDataTypeRecur, data: s, offset: start}
		eq := strings.IndexByte(part, '=')
		if eq <= 0 {
			return r, p.errorAt(start, start+len(part), "NAME=value")
		}
		name := strings.ToUpper(part[:eq])
		value := part[eq+1:]
		vstart := start + eq + 1
		if seen[name] {
			return r, p.errorAt(start, start+eq, "%s at most once", name)
		}
		seen[name] = true
		vp := &valueParser{typ: ValueDataTypeRecur, data: s[:vstart+len(value)], offset: vstart}
		var err error
		switch name {
		case "FREQ":
			f, ok := frequencies[strings.ToUpper(value)]
			if !ok {
				return r, vp.errorAt(vstart, vstart+len(value), "frequency")
			}
			r.Freq = f
		case "UNTIL":
			var until DateTime
			if len(value) == 8 {
				var d Date
				if d, err = vp.date(); err == nil {
					until = DateTime{Form: DateTimeDateOnly, Date: d}
				}
			} else {
				until, err = vp.dateTime()
			}
			if err == nil {
				err = vp.end()
			}
			r.Until = &until
		case "COUNT":
			var n int
			n, err = vp.number()
			if err == nil {
				err = vp.end()
			}
			r.Count = &n
		case "INTERVAL":
			r.Interval, err = vp.number()
			if err == nil {
				err = vp.end()
			}
			if err == nil && r.Interval < 1 {
				err = vp.errorAt(vstart, vstart+len(value), "positive interval")
			}
		case "BYDAY":
			r.ByDay, err = vp.weekdayList()
		case "WKST":
			wd, ok := parseWeekday(value)
			if !ok {
				return r, vp.errorAt(vstart, vstart+len(value), "weekday")
			}
			r.WeekStart = &wd
		default:
			rng, ok := recurLists[name]
			if !ok {
				return r, p.errorAt(start, start+eq, "recurrence rule part")
			}
			var vs []int
			vs, err = vp.intList(rng)
			switch name {
			case "BYSECOND":
				r.BySecond = vs
			case "BYMINUTE":
				r.ByMinute = vs
			case "BYHOUR":
				r.ByHour = vs
			case "BYMONTHDAY":
				r.ByMonthDay = vs
			case "BYYEARDAY":
				r.ByYearDay = vs
			case "BYWEEKNO":
				r.ByWeekNo = vs
			case "BYMONTH":
				r.ByMonth = vs
			case "BYSETPOS":
				r.BySetPos = vs
			}
		}
		if err != nil {
			return r, err
		}
	}
	p := &valueParser{typ: ValueDataTypeRecur, data: s}
	if !seen["FREQ"] {
		return r, p.errorAt(0, len(s), "FREQ part")
	}
	if seen["UNTIL"] && seen["COUNT"] {
		return r, p.errorAt(0, len(s), "UNTIL or COUNT, not both")
	}
	return r, nil
}

func (p *valueParser) intList(rng intRange) ([]int, error) {
	var vs []int
	for {
		start := p.offset
		neg := false
		if rng.signed {
			neg = p.sign()
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if n < rng.min || n > rng.max {
			return nil, p.errorAt(start, p.offset, "value in %d..%d", rng.min, rng.max)
		}
		if neg {
			n = -n
		}
		vs = append(vs, n)
		if !p.consume(',') {
			break
		}
	}
	return vs, p.end()
}

func (p *valueParser) weekdayList() ([]WeekdayNum, error) {
	var ws []WeekdayNum
	for {
		start := p.offset
		var w WeekdayNum
		if c := p.peek(); c == '+' || c == '-' || (c >= '0' && c <= '9') {
			neg := p.sign()
			n, err := p.number()
			if err != nil {
				return nil, err
			}
			if n < 1 || n > 53 {
				return nil, p.errorAt(start, p.offset, "ordinal in 1..53")
			}
			if neg {
				n = -n
			}
			w.Ordinal = n
		}
		if p.offset+2 > len(p.data) {
			return nil, p.errorAt(p.offset, len(p.data), "weekday")
		}
		wd, ok := parseWeekday(p.data[p.offset : p.offset+2])
		if !ok {
			return nil, p.errorAt(p.offset, p.offset+2, "weekday")
		}
		p.offset += 2
		w.Weekday = wd
		ws = append(ws, w)
		if !p.consume(',') {
			break
		}
	}
	return ws, p.end()
}
