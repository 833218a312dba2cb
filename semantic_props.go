package ics

import (
	"fmt"
	"strings"
)

// Prop is a property value together with the parameters its value type does
// not consume. Parameters that map onto fields of T are rebuilt from T when
// the property is written.
type Prop[T any] struct {
	Value              T
	XParameters        []TypedParameter
	RetainedParameters []TypedParameter
	Span               Span
}

// Text is a TEXT value with its LANGUAGE and ALTREP parameters.
type Text struct {
	Content  string
	Language string
	AltRep   URI
}

func (t Text) String() string {
	return t.Content
}

// TextList is a comma separated TEXT property such as CATEGORIES.
type TextList struct {
	Values   []string
	Language string
	AltRep   URI
}

// Attendee is an ATTENDEE with the participant parameters of section 3.8.4.1.
// Enum fields are empty when the parameter is absent; use Effective for the
// RFC default.
type Attendee struct {
	Address             CalAddress
	CommonName          string
	CalendarUserType    CalendarUserType
	Role                ParticipationRole
	ParticipationStatus ParticipationStatus
	RSVP                *bool
	DelegatedFrom       []CalAddress
	DelegatedTo         []CalAddress
	Member              []CalAddress
	SentBy              CalAddress
	Dir                 URI
	Language            string
}

func (a Attendee) Email() string {
	return a.Address.Email()
}

// Organizer is an ORGANIZER (section 3.8.4.3).
type Organizer struct {
	Address    CalAddress
	CommonName string
	SentBy     CalAddress
	Dir        URI
	Language   string
}

func (o Organizer) Email() string {
	return o.Address.Email()
}

// Trigger is a VALARM TRIGGER: a Duration relative to the start or end of
// the parent, or an absolute DateTime.
type Trigger struct {
	Duration *Duration
	Related  Related
	DateTime *DateTime
}

// Attachment is an ATTACH holding either a URI or inline Binary data.
type Attachment struct {
	URI        URI
	Binary     Binary
	FormatType string
}

func (a Attachment) IsBinary() bool {
	return a.Binary != nil
}

// RecurrenceDates is the value list of one RDATE property.
type RecurrenceDates struct {
	DateTimes []DateTime
	Periods   []Period
}

// RecurrenceID is a RECURRENCE-ID with its RANGE parameter.
type RecurrenceID struct {
	DateTime DateTime
	Range    RecurrenceRange
}

// RelatedTo is a RELATED-TO with its RELTYPE parameter.
type RelatedTo struct {
	UID          string
	RelationType RelationshipType
}

// FreeBusyPeriods is the value list of one FREEBUSY property. Type is the
// FBTYPE as written, empty when absent.
type FreeBusyPeriods struct {
	Type    FreeBusyTimeType
	Periods []Period
}

// PropertyParameter is a parameter attached to a property built in code.
type PropertyParameter interface {
	KeyValue(s ...interface{}) (string, []string)
}

type KeyValues struct {
	Key   string
	Value []string
}

func (kv *KeyValues) KeyValue(s ...interface{}) (string, []string) {
	return kv.Key, kv.Value
}

func WithCN(cn string) PropertyParameter {
	return &KeyValues{
		Key:   string(ParameterCn),
		Value: []string{cn},
	}
}

func WithRSVP(b bool) PropertyParameter {
	v := "FALSE"
	if b {
		v = "TRUE"
	}
	return &KeyValues{
		Key:   string(ParameterRsvp),
		Value: []string{v},
	}
}

func WithLanguage(tag string) PropertyParameter {
	return &KeyValues{
		Key:   string(ParameterLanguage),
		Value: []string{tag},
	}
}

func WithSentBy(address string) PropertyParameter {
	return &KeyValues{
		Key:   string(ParameterSentBy),
		Value: []string{string(mailto(address))},
	}
}

func WithDelegatedTo(addresses ...string) PropertyParameter {
	vs := make([]string, len(addresses))
	for i, a := range addresses {
		vs[i] = string(mailto(a))
	}
	return &KeyValues{
		Key:   string(ParameterDelegatedTo),
		Value: vs,
	}
}

// WithParameter adds an arbitrary parameter, typically an x-name.
func WithParameter(name string, values ...string) PropertyParameter {
	return &KeyValues{
		Key:   strings.ToUpper(name),
		Value: values,
	}
}

// builtProperty sorts parameters given in code into the buckets the parser
// would have used.
func builtProperty(name Property, v Value, params []PropertyParameter) TypedProperty {
	p := TypedProperty{Name: string(name), ValueType: v.Type(), Values: []Value{v}}
	for _, param := range params {
		k, vs := param.KeyValue()
		tp := TypedParameter{Name: strings.ToUpper(k), Values: vs}
		switch {
		case IsKnownParameter(tp.Name):
			p.Parameters = append(p.Parameters, tp)
		case isXName(tp.Name):
			p.XParameters = append(p.XParameters, tp)
		default:
			p.RetainedParameters = append(p.RetainedParameters, tp)
		}
	}
	return p
}

// wrap builds a Prop, keeping every parameter not named in consumed. VALUE
// is always consumed since the writer derives it from the value.
func wrap[T any](p *TypedProperty, v T, consumed ...Parameter) Prop[T] {
	out := Prop[T]{Value: v, XParameters: p.XParameters, Span: p.Span}
	for _, tp := range p.Parameters {
		if tp.Name == string(ParameterValue) || consumes(consumed, tp.Name) {
			continue
		}
		out.RetainedParameters = append(out.RetainedParameters, tp)
	}
	out.RetainedParameters = append(out.RetainedParameters, p.RetainedParameters...)
	return out
}

func consumes(consumed []Parameter, name string) bool {
	for _, c := range consumed {
		if string(c) == name {
			return true
		}
	}
	return false
}

func paramValue(p *TypedProperty, name Parameter) string {
	tp, _ := p.Parameter(name)
	return tp.Value()
}

func paramAddresses(p *TypedProperty, name Parameter) []CalAddress {
	tp, ok := p.Parameter(name)
	if !ok {
		return nil
	}
	out := make([]CalAddress, len(tp.Values))
	for i, v := range tp.Values {
		out[i] = CalAddress(v)
	}
	return out
}

func errUnexpectedValue(p *TypedProperty) error {
	return fmt.Errorf("%s has an unexpected %s value", p.Name, p.ValueType)
}

// firstValue returns the single value of p as V.
func firstValue[V Value](p *TypedProperty) (V, error) {
	v, ok := p.Value().(V)
	if !ok {
		return v, errUnexpectedValue(p)
	}
	return v, nil
}

func stringProp(p *TypedProperty) (Prop[string], error) {
	v, err := firstValue[TextValue](p)
	return wrap(p, string(v)), err
}

func enumProp[E ~string](p *TypedProperty) (Prop[E], error) {
	v, err := firstValue[TextValue](p)
	return wrap(p, E(strings.ToUpper(string(v)))), err
}

func textProp(p *TypedProperty) (Prop[Text], error) {
	v, err := firstValue[TextValue](p)
	t := Text{
		Content:  string(v),
		Language: paramValue(p, ParameterLanguage),
		AltRep:   URI(paramValue(p, ParameterAltrep)),
	}
	return wrap(p, t, ParameterLanguage, ParameterAltrep), err
}

func textListProp(p *TypedProperty) (Prop[TextList], error) {
	l := TextList{
		Language: paramValue(p, ParameterLanguage),
		AltRep:   URI(paramValue(p, ParameterAltrep)),
	}
	for _, v := range p.Values {
		tv, ok := v.(TextValue)
		if !ok {
			return Prop[TextList]{}, errUnexpectedValue(p)
		}
		l.Values = append(l.Values, string(tv))
	}
	return wrap(p, l, ParameterLanguage, ParameterAltrep), nil
}

func intProp(p *TypedProperty) (Prop[int], error) {
	v, err := firstValue[Integer](p)
	return wrap(p, int(v)), err
}

func uriProp(p *TypedProperty) (Prop[URI], error) {
	v, err := firstValue[URI](p)
	return wrap(p, v), err
}

func durationProp(p *TypedProperty) (Prop[Duration], error) {
	v, err := firstValue[Duration](p)
	return wrap(p, v), err
}

func geoProp(p *TypedProperty) (Prop[Geo], error) {
	v, err := firstValue[Geo](p)
	return wrap(p, v), err
}

func utcOffsetProp(p *TypedProperty) (Prop[UTCOffset], error) {
	v, err := firstValue[UTCOffset](p)
	return wrap(p, v), err
}

func recurProp(p *TypedProperty) (Prop[RecurrenceRule], error) {
	v, err := firstValue[RecurrenceRule](p)
	return wrap(p, v), err
}

func requestStatusProp(p *TypedProperty) (Prop[RequestStatus], error) {
	v, err := firstValue[RequestStatus](p)
	return wrap(p, v), err
}

// zoneConsumed reports which parameters a date-time list consumes. TZID is
// only consumed when a value carries it.
func zoneConsumed(dts ...DateTime) []Parameter {
	for _, dt := range dts {
		if dt.TZID != "" {
			return []Parameter{ParameterTzid}
		}
	}
	return nil
}

func dateTimeProp(p *TypedProperty) (Prop[DateTime], error) {
	v, err := firstValue[DateTime](p)
	return wrap(p, v, zoneConsumed(v)...), err
}

func dateTimesProp(p *TypedProperty) (Prop[[]DateTime], error) {
	dts := make([]DateTime, 0, len(p.Values))
	for _, v := range p.Values {
		dt, ok := v.(DateTime)
		if !ok {
			return Prop[[]DateTime]{}, errUnexpectedValue(p)
		}
		dts = append(dts, dt)
	}
	return wrap(p, dts, zoneConsumed(dts...)...), nil
}

func recurrenceDatesProp(p *TypedProperty) (Prop[RecurrenceDates], error) {
	var rd RecurrenceDates
	var zoned []DateTime
	for _, v := range p.Values {
		switch v := v.(type) {
		case DateTime:
			rd.DateTimes = append(rd.DateTimes, v)
			zoned = append(zoned, v)
		case Period:
			rd.Periods = append(rd.Periods, v)
			zoned = append(zoned, v.Start)
		default:
			return Prop[RecurrenceDates]{}, errUnexpectedValue(p)
		}
	}
	return wrap(p, rd, zoneConsumed(zoned...)...), nil
}

func recurrenceIDProp(p *TypedProperty) (Prop[RecurrenceID], error) {
	v, err := firstValue[DateTime](p)
	rid := RecurrenceID{DateTime: v, Range: RecurrenceRange(strings.ToUpper(paramValue(p, ParameterRange)))}
	return wrap(p, rid, append(zoneConsumed(v), ParameterRange)...), err
}

func relatedToProp(p *TypedProperty) (Prop[RelatedTo], error) {
	v, err := firstValue[TextValue](p)
	rt := RelatedTo{UID: string(v), RelationType: RelationshipType(strings.ToUpper(paramValue(p, ParameterReltype)))}
	return wrap(p, rt, ParameterReltype), err
}

func freeBusyProp(p *TypedProperty) (Prop[FreeBusyPeriods], error) {
	fb := FreeBusyPeriods{Type: FreeBusyTimeType(strings.ToUpper(paramValue(p, ParameterFbtype)))}
	for _, v := range p.Values {
		period, ok := v.(Period)
		if !ok {
			return Prop[FreeBusyPeriods]{}, errUnexpectedValue(p)
		}
		fb.Periods = append(fb.Periods, period)
	}
	return wrap(p, fb, ParameterFbtype), nil
}

func attachmentProp(p *TypedProperty) (Prop[Attachment], error) {
	a := Attachment{FormatType: paramValue(p, ParameterFmttype)}
	switch v := p.Value().(type) {
	case URI:
		a.URI = v
	case Binary:
		a.Binary = v
		return wrap(p, a, ParameterFmttype, ParameterEncoding), nil
	default:
		return Prop[Attachment]{}, errUnexpectedValue(p)
	}
	return wrap(p, a, ParameterFmttype), nil
}

func triggerProp(p *TypedProperty) (Prop[Trigger], error) {
	var t Trigger
	switch v := p.Value().(type) {
	case Duration:
		t.Duration = &v
		t.Related = Related(strings.ToUpper(paramValue(p, ParameterRelated)))
		return wrap(p, t, ParameterRelated), nil
	case DateTime:
		t.DateTime = &v
		return wrap(p, t, zoneConsumed(v)...), nil
	}
	return Prop[Trigger]{}, errUnexpectedValue(p)
}

func attendeeProp(p *TypedProperty) (Prop[Attendee], error) {
	addr, err := firstValue[CalAddress](p)
	a := Attendee{
		Address:             addr,
		CommonName:          paramValue(p, ParameterCn),
		CalendarUserType:    CalendarUserType(strings.ToUpper(paramValue(p, ParameterCutype))),
		Role:                ParticipationRole(strings.ToUpper(paramValue(p, ParameterRole))),
		ParticipationStatus: ParticipationStatus(strings.ToUpper(paramValue(p, ParameterParticipationStatus))),
		DelegatedFrom:       paramAddresses(p, ParameterDelegatedFrom),
		DelegatedTo:         paramAddresses(p, ParameterDelegatedTo),
		Member:              paramAddresses(p, ParameterMember),
		SentBy:              CalAddress(paramValue(p, ParameterSentBy)),
		Dir:                 URI(paramValue(p, ParameterDir)),
		Language:            paramValue(p, ParameterLanguage),
	}
	if tp, ok := p.Parameter(ParameterRsvp); ok {
		rsvp := strings.EqualFold(tp.Value(), "TRUE")
		a.RSVP = &rsvp
	}
	return wrap(p, a,
		ParameterCn, ParameterCutype, ParameterRole, ParameterParticipationStatus, ParameterRsvp,
		ParameterDelegatedFrom, ParameterDelegatedTo, ParameterMember, ParameterSentBy, ParameterDir,
		ParameterLanguage,
	), err
}

func organizerProp(p *TypedProperty) (Prop[Organizer], error) {
	addr, err := firstValue[CalAddress](p)
	o := Organizer{
		Address:    addr,
		CommonName: paramValue(p, ParameterCn),
		SentBy:     CalAddress(paramValue(p, ParameterSentBy)),
		Dir:        URI(paramValue(p, ParameterDir)),
		Language:   paramValue(p, ParameterLanguage),
	}
	return wrap(p, o, ParameterCn, ParameterSentBy, ParameterDir, ParameterLanguage), err
}
