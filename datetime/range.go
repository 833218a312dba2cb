package datetime

import (
	"fmt"
	"time"
)

// RangePosition is where a time lies relative to a range.
type RangePosition int

const (
	Before RangePosition = iota
	InRange
	After
	InvalidRange
)

func (p RangePosition) String() string {
	switch p {
	case Before:
		return "before"
	case InRange:
		return "in-range"
	case After:
		return "after"
	case InvalidRange:
		return "invalid-range"
	}
	return fmt.Sprintf("RangePosition(%d)", int(p))
}

// PositionInRange compares the wall clock of t with the range [start, end].
// Date-only bounds cover their whole day: start from midnight and end at
// 23:59:59.999999999. A nil bound is open; both nil is an invalid range.
func PositionInRange(t time.Time, start, end *Loose) RangePosition {
	c := CivilOf(t)
	switch {
	case start != nil && end != nil:
		s, e := start.WithStartOfDay(), end.WithEndOfDay()
		switch {
		case s.After(e):
			return InvalidRange
		case c.After(e):
			return After
		case c.Before(s):
			return Before
		}
		return InRange
	case start != nil:
		if c.Before(start.WithStartOfDay()) {
			return Before
		}
		return InRange
	case end != nil:
		if c.After(end.WithEndOfDay()) {
			return After
		}
		return InRange
	}
	return InvalidRange
}
