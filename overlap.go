package ics

import (
	"time"
)

// TodoOverlapsTimeRange reports whether the first VTODO of cal overlaps
// [start, end) under the rules of RFC 4791 section 9.9. A calendar without a
// todo never overlaps.
func TodoOverlapsTimeRange(cal *ICalendar, start, end time.Time) bool {
	todos := cal.Todos()
	if len(todos) == 0 {
		return false
	}
	return todos[0].OverlapsTimeRange(start, end)
}

// OverlapsTimeRange evaluates the RFC 4791 section 9.9 table for todo. A
// cancelled todo never overlaps. DATE values are read as midnight UTC and
// floating values as UTC wall clock.
//
// DUE is ignored when DURATION is also present, and DURATION without
// DTSTART gives no anchor, so such a todo never overlaps.
func (todo *VTodo) OverlapsTimeRange(start, end time.Time) bool {
	if todo.Status != nil && todo.Status.Value == ObjectStatusCancelled {
		return false
	}
	instant := func(p *Prop[DateTime]) time.Time {
		return p.Value.Instant()
	}
	switch {
	case todo.DTStart != nil && todo.Duration != nil:
		dtstart := instant(todo.DTStart)
		finish := todo.Duration.Value.AddTo(dtstart)
		return !start.After(finish) && (end.After(dtstart) || !end.Before(finish))
	case todo.DTStart != nil && todo.Due != nil:
		dtstart, due := instant(todo.DTStart), instant(todo.Due)
		return (start.Before(due) || !start.After(dtstart)) && (end.After(dtstart) || !end.Before(due))
	case todo.DTStart != nil:
		dtstart := instant(todo.DTStart)
		return !start.After(dtstart) && end.After(dtstart)
	case todo.Duration != nil:
		return false
	case todo.Due != nil:
		due := instant(todo.Due)
		return start.Before(due) && !end.Before(due)
	case todo.Completed != nil && todo.Created != nil:
		completed, created := instant(todo.Completed), instant(todo.Created)
		return (!start.After(created) || !start.After(completed)) && (!end.Before(created) || !end.Before(completed))
	case todo.Completed != nil:
		completed := instant(todo.Completed)
		return !start.After(completed) && !end.Before(completed)
	case todo.Created != nil:
		return end.After(instant(todo.Created))
	}
	return true
}
