package ics

import (
	"strings"
	"sync"
	"time"

	"4d63.com/tz"
)

// TimezoneResolver maps a TZID to a location. ok is false for unknown zones.
type TimezoneResolver interface {
	Resolve(tzid string) (loc *time.Location, ok bool)
}

// TimezoneResolverFunc adapts a function to TimezoneResolver.
type TimezoneResolverFunc func(tzid string) (*time.Location, bool)

func (f TimezoneResolverFunc) Resolve(tzid string) (*time.Location, bool) {
	return f(tzid)
}

// IANAResolver resolves TZIDs against the host zone database, falling back
// to the database embedded in 4d63.com/tz. Lookups are cached and safe for
// concurrent use.
type IANAResolver struct {
	cache sync.Map
}

type resolved struct {
	loc *time.Location
	ok  bool
}

// DefaultTimezoneResolver is used when no resolver is configured.
var DefaultTimezoneResolver = &IANAResolver{}

func (r *IANAResolver) Resolve(tzid string) (*time.Location, bool) {
	if v, ok := r.cache.Load(tzid); ok {
		res := v.(resolved)
		return res.loc, res.ok
	}
	loc, ok := loadLocation(tzid)
	r.cache.Store(tzid, resolved{loc: loc, ok: ok})
	return loc, ok
}

func loadLocation(tzid string) (*time.Location, bool) {
	// RFC 5545 marks globally unique identifiers with a leading solidus.
	name := strings.TrimPrefix(strings.TrimSpace(tzid), "/")
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, false
	}
	if strings.EqualFold(name, "UTC") || strings.EqualFold(name, "Etc/UTC") || name == "Z" {
		return time.UTC, true
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, true
	}
	if loc, err := tz.LoadLocation(name); err == nil {
		return loc, true
	}
	return nil, false
}
