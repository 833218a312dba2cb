package ics

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type parseConfig struct {
	logger   logrus.FieldLogger
	resolver TimezoneResolver
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithLogger logs every diagnostic to l: warnings at debug level and errors
// at info level. Parsing is silent without it.
func WithLogger(l logrus.FieldLogger) ParseOption {
	return func(c *parseConfig) {
		c.logger = l
	}
}

// WithTimezoneResolver replaces DefaultTimezoneResolver for TZID lookups.
func WithTimezoneResolver(r TimezoneResolver) ParseOption {
	return func(c *parseConfig) {
		c.resolver = r
	}
}

// Parse runs the whole pipeline over src. It returns one calendar per
// top-level VCALENDAR that survived validation, and every diagnostic sorted
// by span. Recoverable errors never stop the parse, so calendars and error
// diagnostics can both be present.
func Parse(src string, opts ...ParseOption) ([]*ICalendar, Diagnostics) {
	cfg := parseConfig{resolver: DefaultTimezoneResolver}
	for _, opt := range opts {
		opt(&cfg)
	}
	tokens, diags := Lex(src)
	lines, d := Scan(src, tokens)
	diags = append(diags, d...)
	roots, d := BuildTree(lines)
	diags = append(diags, d...)
	typed, d := TypeTree(roots, cfg.resolver)
	diags = append(diags, d...)
	cals, d := Assemble(typed)
	diags = append(diags, d...)
	diags.Sort()
	if cfg.logger != nil {
		logDiagnostics(cfg.logger, src, diags)
		cfg.logger.WithFields(logrus.Fields{
			"calendars": len(cals),
			"errors":    len(diags.Errors()),
			"warnings":  len(diags.Warnings()),
		}).Debug("parsed icalendar source")
	}
	return cals, diags
}

func logDiagnostics(l logrus.FieldLogger, src string, diags Diagnostics) {
	li := NewLineIndex(src)
	for _, d := range diags {
		entry := l.WithFields(logrus.Fields{
			"phase": d.Phase.String(),
			"kind":  string(d.Kind),
			"span":  li.FormatSpan(d.Span),
		})
		if d.Severity == SeverityWarning {
			entry.Debug(d.Message)
		} else {
			entry.Info(d.Message)
		}
	}
}

// ParseCalendar reads r to the end and returns its first calendar. When the
// parse reported errors the calendar is returned together with a
// *ParseError; warnings are dropped.
func ParseCalendar(r io.Reader, opts ...ParseOption) (*ICalendar, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	cals, diags := Parse(string(b), opts...)
	if len(cals) == 0 {
		if err := diags.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoCalendar, err)
		}
		return nil, ErrNoCalendar
	}
	return cals[0], diags.Err()
}
