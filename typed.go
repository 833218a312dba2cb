package ics

import (
	"strings"
)

// PropertyNameClass says whether a property name is defined by RFC 5545.
type PropertyNameClass int

const (
	PropertyClassKnown PropertyNameClass = iota
	PropertyClassXName
	PropertyClassUnrecognized
)

// TypedProperty is a property with parsed parameters and values. Properties
// with an unknown name keep only Raw.
type TypedProperty struct {
	Name               string
	Class              PropertyNameClass
	Parameters         []TypedParameter
	XParameters        []TypedParameter
	RetainedParameters []TypedParameter
	ValueType          ValueDataType
	Values             []Value
	// Raw is the unfolded value text as written, escapes included.
	Raw  string
	Span Span
}

// Parameter returns the named RFC 5545 parameter.
func (p *TypedProperty) Parameter(name Parameter) (TypedParameter, bool) {
	for _, tp := range p.Parameters {
		if tp.Name == string(name) {
			return tp, true
		}
	}
	return TypedParameter{}, false
}

// Value returns the first value, nil when there is none.
func (p *TypedProperty) Value() Value {
	if len(p.Values) == 0 {
		return nil
	}
	return p.Values[0]
}

// AllParameters returns every parameter: known, then x-name, then retained.
func (p *TypedProperty) AllParameters() []TypedParameter {
	all := make([]TypedParameter, 0, len(p.Parameters)+len(p.XParameters)+len(p.RetainedParameters))
	all = append(all, p.Parameters...)
	all = append(all, p.XParameters...)
	return append(all, p.RetainedParameters...)
}

// TypedComponent is a component whose properties have been typed. Name is
// upper case.
type TypedComponent struct {
	Name       string
	Properties []TypedProperty
	Children   []*TypedComponent
	Span       Span
}

// TypeTree types every property of the raw tree. A property with a typed
// error is dropped and reported; its siblings are kept.
func TypeTree(roots []*RawComponent, resolver TimezoneResolver) ([]*TypedComponent, Diagnostics) {
	if resolver == nil {
		resolver = DefaultTimezoneResolver
	}
	t := &typer{resolver: resolver}
	out := make([]*TypedComponent, 0, len(roots))
	for _, r := range roots {
		out = append(out, t.component(r))
	}
	return out, t.diags
}

type typer struct {
	resolver TimezoneResolver
	diags    Diagnostics
}

func (t *typer) component(raw *RawComponent) *TypedComponent {
	c := &TypedComponent{Name: strings.ToUpper(raw.Name.String()), Span: raw.Span}
	for i := range raw.Properties {
		if p, ok := t.property(&raw.Properties[i]); ok {
			c.Properties = append(c.Properties, p)
		}
	}
	for _, child := range raw.Children {
		c.Children = append(c.Children, t.component(child))
	}
	return c
}

func (t *typer) property(raw *RawProperty) (TypedProperty, bool) {
	name := strings.ToUpper(raw.Name.String())
	p := TypedProperty{Name: name, Raw: raw.Value.String(), Span: raw.Span}
	spec, known := lookupPropertySpec(name)
	b, ok := typeParameters(raw.Parameters, known, &t.diags)
	p.Parameters, p.XParameters, p.RetainedParameters = b.Known, b.X, b.Retained
	if !known {
		p.Class = PropertyClassUnrecognized
		if isXName(name) {
			p.Class = PropertyClassXName
		}
		p.ValueType = ValueDataTypeText
		if v, has := b.get(ParameterValue); has {
			p.ValueType = ValueDataType(strings.ToUpper(v.Value()))
		}
		return p, true
	}
	if !ok {
		return p, false
	}
	vt, ok := t.valueType(name, spec, b)
	if !ok {
		return p, false
	}
	p.ValueType = vt
	p.Values, ok = t.values(name, spec, vt, b, raw)
	return p, ok
}

func (t *typer) valueType(name string, spec propertySpec, b parameterBuckets) (ValueDataType, bool) {
	enc, hasEnc := b.get(ParameterEncoding)
	base64 := hasEnc && strings.EqualFold(enc.Value(), "BASE64")
	v, has := b.get(ParameterValue)
	if !has {
		if base64 && spec.allows(ValueDataTypeBinary) {
			t.diags.add(PhaseTyped, SeverityWarning, KindPropertyUnexpectedValue, enc.Span, "%s has ENCODING=BASE64 without VALUE=BINARY, reading the value as URI", name)
		}
		return spec.Default, true
	}
	vt := ValueDataType(strings.ToUpper(v.Value()))
	if !spec.allows(vt) {
		t.diags.add(PhaseTyped, SeverityError, KindValueTypeDisallowed, v.Span, "value type %s is not allowed for %s", vt, name)
		return "", false
	}
	if vt == ValueDataTypeBinary && !base64 {
		t.diags.add(PhaseTyped, SeverityWarning, KindPropertyUnexpectedValue, v.Span, "%s has VALUE=BINARY without ENCODING=BASE64, reading the value as URI", name)
		return ValueDataTypeUri, true
	}
	return vt, true
}

// commaSeparable types never contain a comma in a single value.
func commaSeparable(vt ValueDataType) bool {
	switch vt {
	case ValueDataTypeDate, ValueDataTypeDateTime, ValueDataTypeDuration, ValueDataTypePeriod,
		ValueDataTypeInteger, ValueDataTypeFloat, ValueDataTypeUtcOffset, ValueDataTypeTime, ValueDataTypeBoolean:
		return true
	}
	return false
}

type valuePart struct {
	text  string
	start int
}

func (t *typer) values(name string, spec propertySpec, vt ValueDataType, b parameterBuckets, raw *RawProperty) ([]Value, bool) {
	text := raw.Value.String()
	invalid := func(err error, base int) {
		span := raw.Value.Span()
		if ve, ok := err.(*ValueError); ok {
			span = raw.Value.subSpan(base+ve.Offset, base+ve.End)
		}
		t.diags.add(PhaseTyped, SeverityError, KindPropertyInvalidValue, span, "%s: %v", name, err)
	}

	switch Property(name) {
	case PropertyGeo:
		g, err := ParseGeo(text)
		if err != nil {
			invalid(err, 0)
			return nil, false
		}
		return []Value{g}, true
	case PropertyRequestStatus:
		rs, err := ParseRequestStatus(text)
		if err != nil {
			invalid(err, 0)
			return nil, false
		}
		return []Value{rs}, true
	}

	if vt == ValueDataTypeText {
		ranges := parseTextRanges(text, true)
		if !spec.Multiple && len(ranges) > 1 {
			t.diags.add(PhaseTyped, SeverityError, KindPropertyInvalidValueCount, raw.Value.Span(), "%s takes exactly 1 value, found %d", name, len(ranges))
			return nil, false
		}
		vs := make([]Value, 0, len(ranges))
		for _, r := range ranges {
			vs = append(vs, r.Text)
		}
		return vs, true
	}

	if text == "" {
		t.diags.add(PhaseTyped, SeverityError, KindPropertyMissingValue, raw.Span, "%s has no value", name)
		return nil, false
	}
	parts := []valuePart{{text: text}}
	if spec.Multiple || commaSeparable(vt) {
		parts = parts[:0]
		start := 0
		for _, s := range strings.Split(text, ",") {
			parts = append(parts, valuePart{text: s, start: start})
			start += len(s) + 1
		}
	}
	if !spec.Multiple && len(parts) > 1 {
		t.diags.add(PhaseTyped, SeverityError, KindPropertyInvalidValueCount, raw.Value.Span(), "%s takes exactly 1 value, found %d", name, len(parts))
		return nil, false
	}

	_, explicit := b.get(ParameterValue)
	vs := make([]Value, 0, len(parts))
	for _, part := range parts {
		pvt := vt
		if !explicit && vt == ValueDataTypeDateTime && spec.allows(ValueDataTypeDate) && len(part.text) == 8 {
			t.diags.add(PhaseTyped, SeverityWarning, KindPropertyUnexpectedValue, raw.Value.subSpan(part.start, part.start+8), "%s value is a DATE but VALUE=DATE is missing", name)
			pvt = ValueDataTypeDate
		}
		v, err := parseValue(pvt, part.text)
		if err != nil {
			invalid(err, part.start)
			return nil, false
		}
		vs = append(vs, v)
	}
	t.zone(name, b, vs)
	t.leapSeconds(name, raw.Value.Span(), vs)
	return vs, true
}

func parseValue(vt ValueDataType, s string) (Value, error) {
	switch vt {
	case ValueDataTypeBinary:
		return ParseBinary(s)
	case ValueDataTypeBoolean:
		return ParseBoolean(s)
	case ValueDataTypeCalAddress:
		return CalAddress(s), nil
	case ValueDataTypeDate:
		d, err := ParseDate(s)
		return DateTime{Form: DateTimeDateOnly, Date: d}, err
	case ValueDataTypeDateTime:
		return ParseDateTime(s)
	case ValueDataTypeDuration:
		return ParseDuration(s)
	case ValueDataTypeFloat:
		return ParseFloat(s)
	case ValueDataTypeInteger:
		return ParseInteger(s)
	case ValueDataTypePeriod:
		return ParsePeriod(s)
	case ValueDataTypeRecur:
		return ParseRecurrenceRule(s)
	case ValueDataTypeTime:
		return ParseTime(s)
	case ValueDataTypeUri:
		return URI(s), nil
	case ValueDataTypeUtcOffset:
		return ParseUTCOffset(s)
	}
	return TextValue(FromText(s)), nil
}

// zone applies the TZID parameter to date-time values. Unknown zones leave
// the value floating with its TZID kept.
func (t *typer) zone(name string, b parameterBuckets, vs []Value) {
	tzp, ok := b.get(ParameterTzid)
	if !ok {
		return
	}
	tzid := tzp.Value()
	loc, known := t.resolver.Resolve(tzid)
	if !known {
		t.diags.add(PhaseTyped, SeverityWarning, KindUnknownTimezone, tzp.Span, "unknown time zone %q, %s read as floating", tzid, name)
	}
	ignored := false
	apply := func(dt *DateTime) {
		if dt.Form != DateTimeFloating {
			ignored = true
			return
		}
		dt.TZID = tzid
		if known {
			dt.Form = DateTimeZoned
			dt.Location = loc
		}
	}
	for i, v := range vs {
		switch v := v.(type) {
		case DateTime:
			apply(&v)
			vs[i] = v
		case Period:
			apply(&v.Start)
			if !v.HasDuration {
				apply(&v.End)
			}
			vs[i] = v
		}
	}
	if ignored {
		t.diags.add(PhaseTyped, SeverityWarning, KindPropertyUnexpectedKind, tzp.Span, "TZID on %s has no effect on UTC or DATE values", name)
	}
}

func (t *typer) leapSeconds(name string, span Span, vs []Value) {
	leap := false
	for _, v := range vs {
		switch v := v.(type) {
		case DateTime:
			leap = leap || v.Time.LeapSecond
		case Time:
			leap = leap || v.LeapSecond
		case Period:
			leap = leap || v.Start.Time.LeapSecond || v.End.Time.LeapSecond
		case RecurrenceRule:
			leap = leap || v.HasLeapSecond() || (v.Until != nil && v.Until.Time.LeapSecond)
		}
	}
	if leap {
		t.diags.add(PhaseTyped, SeverityWarning, KindLeapSecond, span, "%s: leap second is kept as second 59", name)
	}
}
