package ics

import (
	"errors"
)

var (
	// ErrNoCalendar is returned when the input holds no usable VCALENDAR.
	ErrNoCalendar = errors.New("no calendar found")
	// ErrorPropertyNotFound is the error returned if the requested valid
	// property is not set.
	ErrorPropertyNotFound = errors.New("property not found")
	ErrUnexpectedStatus   = errors.New("unexpected http status")
)
