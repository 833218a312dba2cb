package ics

import (
	"strconv"
	"strings"
	"time"

	"github.com/aimcal/ical/datetime"
)

// Duration is a DURATION value (section 3.3.6). Weeks are exclusive with the
// other fields on the wire.
type Duration struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

func (Duration) Type() ValueDataType { return ValueDataTypeDuration }

// NewDuration converts an exact duration into days, hours, minutes and
// seconds. Sub-second precision is dropped.
func NewDuration(d time.Duration) Duration {
	var r Duration
	if d < 0 {
		r.Negative = true
		d = -d
	}
	s := int64(d / time.Second)
	r.Days = int(s / 86400)
	r.Hours = int(s / 3600 % 24)
	r.Minutes = int(s / 60 % 60)
	r.Seconds = int(s % 60)
	return r
}

func (d Duration) IsZero() bool {
	return d.Weeks == 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// Positive reports whether d is longer than zero.
func (d Duration) Positive() bool {
	return !d.Negative && !d.IsZero()
}

// Delta is d as a nominal span.
func (d Duration) Delta() datetime.Delta {
	return datetime.Delta{
		Negative: d.Negative,
		Weeks:    d.Weeks,
		Days:     d.Days,
		Hours:    d.Hours,
		Minutes:  d.Minutes,
		Seconds:  d.Seconds,
	}
}

// AddTo applies d to t, moving weeks and days by calendar date.
func (d Duration) AddTo(t time.Time) time.Time {
	return d.Delta().AddTo(t)
}

// Std is d as an exact duration, counting days as 24 hours.
func (d Duration) Std() time.Duration {
	v := time.Duration(d.Weeks*7+d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
	if d.Negative {
		return -v
	}
	return v
}

func (d Duration) String() string {
	b := strings.Builder{}
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if d.Weeks != 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0 {
		b.WriteString(strconv.Itoa(d.Weeks))
		b.WriteByte('W')
		return b.String()
	}
	if days := d.Weeks*7 + d.Days; days != 0 {
		b.WriteString(strconv.Itoa(days))
		b.WriteByte('D')
	}
	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
		b.WriteByte('T')
		if d.Hours != 0 {
			b.WriteString(strconv.Itoa(d.Hours))
			b.WriteByte('H')
		}
		if d.Minutes != 0 {
			b.WriteString(strconv.Itoa(d.Minutes))
			b.WriteByte('M')
		}
		if d.Seconds != 0 {
			b.WriteString(strconv.Itoa(d.Seconds))
			b.WriteByte('S')
		}
	}
	if d.IsZero() {
		b.WriteString("T0S")
	}
	return b.String()
}

// ParseDuration parses [+/-] "P" followed by weeks, or days and an optional
// time part, or a time part alone.
func ParseDuration(s string) (Duration, error) {
	p := newValueParser(ValueDataTypeDuration, s)
	d, err := p.duration()
	if err != nil {
		return d, err
	}
	return d, p.end()
}

func (p *valueParser) duration() (Duration, error) {
	var d Duration
	d.Negative = p.sign()
	if !p.consumeFold('P') {
		return d, p.errorf("'P'")
	}
	if !p.consumeFold('T') {
		n, err := p.number()
		if err != nil {
			return d, err
		}
		switch {
		case p.consumeFold('W'):
			d.Weeks = n
			return d, nil
		case p.consumeFold('D'):
			d.Days = n
		default:
			return d, p.errorf("'W' or 'D'")
		}
		if !p.consumeFold('T') {
			return d, nil
		}
	}
	units := 0
	for _, u := range []struct {
		c   byte
		dst *int
	}{{'H', &d.Hours}, {'M', &d.Minutes}, {'S', &d.Seconds}} {
		save := p.offset
		if p.eof() {
			break
		}
		n, err := p.number()
		if err != nil {
			if units == 0 {
				return d, err
			}
			p.offset = save
			break
		}
		if !p.consumeFold(u.c) {
			p.offset = save
			continue
		}
		*u.dst = n
		units++
	}
	if units == 0 {
		return d, p.errorf("'H', 'M' or 'S'")
	}
	return d, nil
}
