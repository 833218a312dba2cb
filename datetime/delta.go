package datetime

import "time"

// Delta is a nominal span: weeks and days move the calendar date, the
// remaining fields are exact durations.
type Delta struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

// Days returns a delta of n days, negative when n < 0.
func Days(n int) Delta {
	if n < 0 {
		return Delta{Negative: true, Days: -n}
	}
	return Delta{Days: n}
}

// DeltaOf splits an exact duration into hours, minutes and seconds.
func DeltaOf(d time.Duration) Delta {
	var r Delta
	if d < 0 {
		r.Negative = true
		d = -d
	}
	s := int(d / time.Second)
	r.Hours = s / 3600
	r.Minutes = s / 60 % 60
	r.Seconds = s % 60
	return r
}

func (d Delta) IsZero() bool {
	return d.Weeks == 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// ClockDuration is the exact part of d, signed.
func (d Delta) ClockDuration() time.Duration {
	v := time.Duration(d.Hours)*time.Hour + time.Duration(d.Minutes)*time.Minute + time.Duration(d.Seconds)*time.Second
	if d.Negative {
		return -v
	}
	return v
}

// CalendarDays is the nominal part of d in days, signed.
func (d Delta) CalendarDays() int {
	n := d.Weeks*7 + d.Days
	if d.Negative {
		return -n
	}
	return n
}

// AddTo applies d to t: calendar days first, in the location of t, then the
// exact part.
func (d Delta) AddTo(t time.Time) time.Time {
	if n := d.CalendarDays(); n != 0 {
		t = t.AddDate(0, 0, n)
	}
	return t.Add(d.ClockDuration())
}
