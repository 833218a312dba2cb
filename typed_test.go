package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZone = time.FixedZone("Test/Zone", 2*3600)

var testResolver = TimezoneResolverFunc(func(tzid string) (*time.Location, bool) {
	if tzid == "Test/Zone" {
		return testZone, true
	}
	return nil, false
})

// typeProps types the given content lines inside a VEVENT.
func typeProps(t *testing.T, lines ...string) (string, []TypedProperty, Diagnostics) {
	t.Helper()
	src := "BEGIN:VEVENT\r\n" + strings.Join(lines, "\r\n") + "\r\nEND:VEVENT\r\n"
	tokens, diags := Lex(src)
	scanned, d := Scan(src, tokens)
	diags = append(diags, d...)
	roots, d := BuildTree(scanned)
	diags = append(diags, d...)
	require.Len(t, roots, 1)
	typed, d := TypeTree(roots, testResolver)
	diags = append(diags, d...)
	require.Len(t, typed, 1)
	assert.Equal(t, "VEVENT", typed[0].Name)
	return src, typed[0].Properties, diags
}

func kindsOf(diags Diagnostics) []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range diags {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestTypeDateValues(t *testing.T) {
	_, props, diags := typeProps(t,
		"DTSTART;VALUE=DATE:20240101",
		"DTEND:20240102",
		"RECURRENCE-ID:20240101T100000Z",
	)
	assert.Equal(t, []DiagnosticKind{KindPropertyUnexpectedValue}, kindsOf(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	require.Len(t, props, 3)

	assert.Equal(t, ValueDataTypeDate, props[0].ValueType)
	assert.Equal(t, NewDate(2024, time.January, 1), props[0].Value())

	assert.Equal(t, ValueDataTypeDateTime, props[1].ValueType)
	assert.Equal(t, NewDate(2024, time.January, 2), props[1].Value())

	dt := props[2].Value().(DateTime)
	assert.Equal(t, DateTimeUTC, dt.Form)
}

func TestTypeTimezones(t *testing.T) {
	_, props, diags := typeProps(t,
		"DTSTART;TZID=Test/Zone:20240101T090000",
		"DTEND;TZID=Nowhere/Zone:20240101T100000",
		"DUE;TZID=Test/Zone:20240101T110000Z",
	)
	assert.Equal(t, []DiagnosticKind{KindUnknownTimezone, KindPropertyUnexpectedKind}, kindsOf(diags))
	require.Len(t, props, 3)

	zoned := props[0].Value().(DateTime)
	assert.Equal(t, DateTimeZoned, zoned.Form)
	assert.Equal(t, "Test/Zone", zoned.TZID)
	assert.True(t, zoned.Instant().Equal(time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)))

	floating := props[1].Value().(DateTime)
	assert.Equal(t, DateTimeFloating, floating.Form)
	assert.Equal(t, "Nowhere/Zone", floating.TZID)
	assert.Nil(t, floating.Location)

	utc := props[2].Value().(DateTime)
	assert.Equal(t, DateTimeUTC, utc.Form)
	assert.Empty(t, utc.TZID)
}

func TestTypeUnknownAndXProperties(t *testing.T) {
	_, props, diags := typeProps(t,
		"X-FOO;X-BAR=baz:hello\\, world",
		"FOO;VALUE=INTEGER:42",
		"SUMMARY;X-KEEP=1;NOT-KNOWN=2:hi",
	)
	assert.Empty(t, diags)
	require.Len(t, props, 3)

	x := props[0]
	assert.Equal(t, "X-FOO", x.Name)
	assert.Equal(t, PropertyClassXName, x.Class)
	assert.Equal(t, ValueDataTypeText, x.ValueType)
	assert.Equal(t, `hello\, world`, x.Raw)
	require.Len(t, x.XParameters, 1)
	assert.Equal(t, TypedParameter{Name: "X-BAR", Values: []string{"baz"}, Span: x.XParameters[0].Span}, x.XParameters[0])

	unknown := props[1]
	assert.Equal(t, PropertyClassUnrecognized, unknown.Class)
	assert.Equal(t, ValueDataTypeInteger, unknown.ValueType)
	assert.Equal(t, "42", unknown.Raw)
	assert.Empty(t, unknown.Values)

	summary := props[2]
	assert.Equal(t, PropertyClassKnown, summary.Class)
	assert.Equal(t, []Value{TextValue("hi")}, summary.Values)
	require.Len(t, summary.XParameters, 1)
	require.Len(t, summary.RetainedParameters, 1)
	assert.Equal(t, "NOT-KNOWN", summary.RetainedParameters[0].Name)
	assert.Len(t, summary.AllParameters(), 2)
}

func TestTypeParameterErrorsDropProperty(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind DiagnosticKind
	}{
		{"duplicate", "SUMMARY;LANGUAGE=en;LANGUAGE=fr:hi", KindParameterDuplicated},
		{"closed set", "ATTENDEE;RSVP=MAYBE:mailto:a@x.org", KindParameterInvalidValue},
		{"single value", "DTSTART;TZID=Test/Zone,Other/Zone:20240101T090000", KindParameterInvalidValue},
		{"value type", "DTSTART;VALUE=INTEGER:1", KindValueTypeDisallowed},
		{"bad value", "PRIORITY:high", KindPropertyInvalidValue},
		{"count", "SUMMARY:a,b", KindPropertyInvalidValueCount},
		{"empty", "DTSTAMP:", KindPropertyMissingValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, props, diags := typeProps(t, tt.line, "UID:kept")
			assert.Equal(t, []DiagnosticKind{tt.kind}, kindsOf(diags))
			assert.Equal(t, SeverityError, diags[0].Severity)
			require.Len(t, props, 1)
			assert.Equal(t, "UID", props[0].Name)
		})
	}
}

func TestTypeRepeatedParameters(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		kinds  []DiagnosticKind
		param  string
		values []string
	}{
		{
			name:  "unique parameter",
			line:  "DTSTART;TZID=Test/Zone;TZID=Test/Zone:20240101T090000",
			kinds: []DiagnosticKind{KindParameterDuplicated},
		},
		{
			name:   "address list merges",
			line:   `ATTENDEE;MEMBER="mailto:a@x.org";MEMBER="mailto:b@x.org","mailto:c@x.org":mailto:d@x.org`,
			param:  "MEMBER",
			values: []string{"mailto:a@x.org", "mailto:b@x.org", "mailto:c@x.org"},
		},
		{
			name:   "x parameter repeats",
			line:   "SUMMARY;X-TAG=a;X-TAG=b:hi",
			param:  "X-TAG",
			values: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, props, diags := typeProps(t, tt.line)
			assert.Equal(t, tt.kinds, kindsOf(diags))
			if tt.param == "" {
				assert.Empty(t, props)
				return
			}
			require.Len(t, props, 1)
			var got []string
			for _, p := range props[0].AllParameters() {
				if p.Name == tt.param {
					got = append(got, p.Values...)
				}
			}
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestTypeInvalidValueSpanPointsIntoValue(t *testing.T) {
	src, _, diags := typeProps(t, "PRIORITY:high")
	require.Len(t, diags, 1)
	at := strings.Index(src, "high")
	assert.Equal(t, Span{Start: at, End: at + 1}, diags[0].Span)
}

func TestTypeMultipleValues(t *testing.T) {
	_, props, diags := typeProps(t,
		"CATEGORIES:a,b\\,c",
		"EXDATE:20240101T000000Z,20240102T000000Z",
		"RDATE;VALUE=PERIOD:20240101T000000Z/PT1H",
		"GEO:1.5;-2.25",
	)
	assert.Empty(t, diags)
	require.Len(t, props, 4)
	assert.Equal(t, []Value{TextValue("a"), TextValue("b,c")}, props[0].Values)
	assert.Len(t, props[1].Values, 2)
	assert.IsType(t, Period{}, props[2].Value())
	assert.Equal(t, Geo{Latitude: 1.5, Longitude: -2.25}, props[3].Value())
}

func TestTypeBinaryAttachments(t *testing.T) {
	_, props, diags := typeProps(t,
		"ATTACH;ENCODING=BASE64;VALUE=BINARY:aGVsbG8=",
		"ATTACH;VALUE=BINARY:aGVsbG8=",
	)
	assert.Equal(t, []DiagnosticKind{KindPropertyUnexpectedValue}, kindsOf(diags))
	require.Len(t, props, 2)
	assert.Equal(t, Binary("hello"), props[0].Value())
	assert.Equal(t, ValueDataTypeUri, props[1].ValueType)
	assert.Equal(t, URI("aGVsbG8="), props[1].Value())
}

func TestTypeLeapSecond(t *testing.T) {
	_, props, diags := typeProps(t, "DTSTAMP:20161231T235960Z")
	assert.Equal(t, []DiagnosticKind{KindLeapSecond}, kindsOf(diags))
	dt := props[0].Value().(DateTime)
	assert.Equal(t, 59, dt.Time.Second)
	assert.True(t, dt.Time.LeapSecond)
	assert.Equal(t, "20161231T235960Z", dt.String())
}

func TestTypeParameterCaretDecoding(t *testing.T) {
	_, props, diags := typeProps(t, "ATTENDEE;CN=George Herman ^'Babe^' Ruth:mailto:babe@example.com")
	assert.Empty(t, diags)
	cn, ok := props[0].Parameter(ParameterCn)
	require.True(t, ok)
	assert.Equal(t, `George Herman "Babe" Ruth`, cn.Value())
	assert.Equal(t, "^^x^n^'", encodeParameterValue("^x\n\""))
}

func TestTypeLanguageTag(t *testing.T) {
	_, props, diags := typeProps(t, "SUMMARY;LANGUAGE=!!:hi")
	assert.Equal(t, []DiagnosticKind{KindParameterInvalidValue}, kindsOf(diags))
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Len(t, props, 1)
}

func TestIANAResolver(t *testing.T) {
	r := &IANAResolver{}
	loc, ok := r.Resolve("/Europe/Berlin")
	require.True(t, ok)
	assert.Equal(t, "Europe/Berlin", loc.String())

	loc, ok = r.Resolve("UTC")
	assert.True(t, ok)
	assert.Equal(t, time.UTC, loc)

	_, ok = r.Resolve("Mars/Olympus_Mons")
	assert.False(t, ok)
	_, ok = r.Resolve("Mars/Olympus_Mons")
	assert.False(t, ok)
}
