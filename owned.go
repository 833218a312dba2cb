package ics

import (
	"bytes"
	"slices"
	"strings"
)

// Owned returns a deep copy of cal that shares no memory with the parsed
// source. Every string is cloned and every span is zeroed, so the source
// buffer can be released. Locations are shared since they are immutable.
func (cal *ICalendar) Owned() *ICalendar {
	return &ICalendar{
		ProdID:             ownProp(cal.ProdID, strings.Clone),
		Version:            ownProp(cal.Version, strings.Clone),
		CalScale:           ownOpt(cal.CalScale, strings.Clone),
		Method:             ownOpt(cal.Method, ownString[Method]),
		Components:         ownEach(cal.Components, ownComponent),
		XProperties:        ownTypedProperties(cal.XProperties),
		RetainedProperties: ownTypedProperties(cal.RetainedProperties),
	}
}

// Owned returns a deep copy of p with cloned strings and a zero span.
func (p TypedProperty) Owned() TypedProperty {
	return TypedProperty{
		Name:               strings.Clone(p.Name),
		Class:              p.Class,
		Parameters:         ownParameters(p.Parameters),
		XParameters:        ownParameters(p.XParameters),
		RetainedParameters: ownParameters(p.RetainedParameters),
		ValueType:          p.ValueType,
		Values:             ownEach(p.Values, ownValue),
		Raw:                strings.Clone(p.Raw),
	}
}

// ownEach maps f over s keeping a nil slice nil.
func ownEach[T any](s []T, f func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = f(v)
	}
	return out
}

func ownProp[T any](p Prop[T], f func(T) T) Prop[T] {
	return Prop[T]{
		Value:              f(p.Value),
		XParameters:        ownParameters(p.XParameters),
		RetainedParameters: ownParameters(p.RetainedParameters),
	}
}

func ownOpt[T any](p *Prop[T], f func(T) T) *Prop[T] {
	if p == nil {
		return nil
	}
	v := ownProp(*p, f)
	return &v
}

func ownProps[T any](ps []Prop[T], f func(T) T) []Prop[T] {
	return ownEach(ps, func(p Prop[T]) Prop[T] { return ownProp(p, f) })
}

func ownString[S ~string](s S) S {
	return S(strings.Clone(string(s)))
}

func same[T any](v T) T {
	return v
}

func ownStrings[S ~string](ss []S) []S {
	return ownEach(ss, ownString[S])
}

func ownParameters(ps []TypedParameter) []TypedParameter {
	return ownEach(ps, func(p TypedParameter) TypedParameter {
		return TypedParameter{Name: strings.Clone(p.Name), Values: ownStrings(p.Values)}
	})
}

func ownTypedProperties(ps []TypedProperty) []TypedProperty {
	return ownEach(ps, TypedProperty.Owned)
}

func ownValue(v Value) Value {
	switch v := v.(type) {
	case TextValue:
		return ownString(v)
	case CalAddress:
		return ownString(v)
	case URI:
		return ownString(v)
	case Binary:
		return Binary(bytes.Clone(v))
	case DateTime:
		return ownDateTime(v)
	case Period:
		return ownPeriod(v)
	case RecurrenceRule:
		return ownRecurrenceRule(v)
	case RequestStatus:
		return ownRequestStatus(v)
	}
	return v
}

func ownDateTime(dt DateTime) DateTime {
	dt.TZID = strings.Clone(dt.TZID)
	return dt
}

func ownPeriod(p Period) Period {
	p.Start = ownDateTime(p.Start)
	p.End = ownDateTime(p.End)
	return p
}

func ownRecurrenceRule(r RecurrenceRule) RecurrenceRule {
	if r.Until != nil {
		u := ownDateTime(*r.Until)
		r.Until = &u
	}
	if r.Count != nil {
		c := *r.Count
		r.Count = &c
	}
	if r.WeekStart != nil {
		w := *r.WeekStart
		r.WeekStart = &w
	}
	r.BySecond = slices.Clone(r.BySecond)
	r.ByMinute = slices.Clone(r.ByMinute)
	r.ByHour = slices.Clone(r.ByHour)
	r.ByDay = slices.Clone(r.ByDay)
	r.ByMonthDay = slices.Clone(r.ByMonthDay)
	r.ByYearDay = slices.Clone(r.ByYearDay)
	r.ByWeekNo = slices.Clone(r.ByWeekNo)
	r.ByMonth = slices.Clone(r.ByMonth)
	r.BySetPos = slices.Clone(r.BySetPos)
	return r
}

func ownRequestStatus(r RequestStatus) RequestStatus {
	return RequestStatus{
		Code:        strings.Clone(r.Code),
		Description: strings.Clone(r.Description),
		Data:        strings.Clone(r.Data),
	}
}

func ownText(t Text) Text {
	return Text{Content: strings.Clone(t.Content), Language: strings.Clone(t.Language), AltRep: ownString(t.AltRep)}
}

func ownTextList(t TextList) TextList {
	return TextList{Values: ownStrings(t.Values), Language: strings.Clone(t.Language), AltRep: ownString(t.AltRep)}
}

func ownAttendee(a Attendee) Attendee {
	out := Attendee{
		Address:             ownString(a.Address),
		CommonName:          strings.Clone(a.CommonName),
		CalendarUserType:    ownString(a.CalendarUserType),
		Role:                ownString(a.Role),
		ParticipationStatus: ownString(a.ParticipationStatus),
		DelegatedFrom:       ownStrings(a.DelegatedFrom),
		DelegatedTo:         ownStrings(a.DelegatedTo),
		Member:              ownStrings(a.Member),
		SentBy:              ownString(a.SentBy),
		Dir:                 ownString(a.Dir),
		Language:            strings.Clone(a.Language),
	}
	if a.RSVP != nil {
		rsvp := *a.RSVP
		out.RSVP = &rsvp
	}
	return out
}

func ownOrganizer(o Organizer) Organizer {
	return Organizer{
		Address:    ownString(o.Address),
		CommonName: strings.Clone(o.CommonName),
		SentBy:     ownString(o.SentBy),
		Dir:        ownString(o.Dir),
		Language:   strings.Clone(o.Language),
	}
}

func ownTrigger(t Trigger) Trigger {
	out := Trigger{Related: ownString(t.Related)}
	if t.Duration != nil {
		d := *t.Duration
		out.Duration = &d
	}
	if t.DateTime != nil {
		dt := ownDateTime(*t.DateTime)
		out.DateTime = &dt
	}
	return out
}

func ownAttachment(a Attachment) Attachment {
	out := Attachment{URI: ownString(a.URI), FormatType: strings.Clone(a.FormatType)}
	if a.Binary != nil {
		out.Binary = Binary(bytes.Clone(a.Binary))
	}
	return out
}

func ownRecurrenceDates(r RecurrenceDates) RecurrenceDates {
	return RecurrenceDates{DateTimes: ownEach(r.DateTimes, ownDateTime), Periods: ownEach(r.Periods, ownPeriod)}
}

func ownDateTimes(dts []DateTime) []DateTime {
	return ownEach(dts, ownDateTime)
}

func ownRecurrenceID(r RecurrenceID) RecurrenceID {
	return RecurrenceID{DateTime: ownDateTime(r.DateTime), Range: ownString(r.Range)}
}

func ownRelatedTo(r RelatedTo) RelatedTo {
	return RelatedTo{UID: strings.Clone(r.UID), RelationType: ownString(r.RelationType)}
}

func ownFreeBusyPeriods(f FreeBusyPeriods) FreeBusyPeriods {
	return FreeBusyPeriods{Type: ownString(f.Type), Periods: ownEach(f.Periods, ownPeriod)}
}

func ownComponent(c Component) Component {
	switch c := c.(type) {
	case *VEvent:
		return c.owned()
	case *VTodo:
		return c.owned()
	case *VJournal:
		return c.owned()
	case *VFreeBusy:
		return c.owned()
	case *VTimeZone:
		return c.owned()
	case *VAlarm:
		return c.owned()
	case *CustomComponent:
		return c.owned()
	}
	return c
}

func (cb *ComponentBase) owned() ComponentBase {
	return ComponentBase{
		UID:                ownProp(cb.UID, strings.Clone),
		DTStamp:            ownProp(cb.DTStamp, ownDateTime),
		DTStart:            ownOpt(cb.DTStart, ownDateTime),
		Summary:            ownOpt(cb.Summary, ownText),
		Organizer:          ownOpt(cb.Organizer, ownOrganizer),
		Attendees:          ownProps(cb.Attendees, ownAttendee),
		LastModified:       ownOpt(cb.LastModified, ownDateTime),
		Status:             ownOpt(cb.Status, ownString[ObjectStatus]),
		Sequence:           ownOpt(cb.Sequence, same[int]),
		Classification:     ownOpt(cb.Classification, ownString[Classification]),
		Categories:         ownProps(cb.Categories, ownTextList),
		URL:                ownOpt(cb.URL, ownString[URI]),
		RRule:              ownOpt(cb.RRule, ownRecurrenceRule),
		RDates:             ownProps(cb.RDates, ownRecurrenceDates),
		ExDates:            ownProps(cb.ExDates, ownDateTimes),
		Created:            ownOpt(cb.Created, ownDateTime),
		RecurrenceID:       ownOpt(cb.RecurrenceID, ownRecurrenceID),
		Comments:           ownProps(cb.Comments, ownText),
		Contacts:           ownProps(cb.Contacts, ownText),
		RelatedTo:          ownProps(cb.RelatedTo, ownRelatedTo),
		Attachments:        ownProps(cb.Attachments, ownAttachment),
		RequestStatus:      ownProps(cb.RequestStatus, ownRequestStatus),
		XProperties:        ownTypedProperties(cb.XProperties),
		RetainedProperties: ownTypedProperties(cb.RetainedProperties),
	}
}

func ownAlarms(as []*VAlarm) []*VAlarm {
	return ownEach(as, (*VAlarm).owned)
}

func (event *VEvent) owned() *VEvent {
	return &VEvent{
		ComponentBase: event.ComponentBase.owned(),
		DTEnd:         ownOpt(event.DTEnd, ownDateTime),
		Duration:      ownOpt(event.Duration, same[Duration]),
		Description:   ownOpt(event.Description, ownText),
		Location:      ownOpt(event.Location, ownText),
		Geo:           ownOpt(event.Geo, same[Geo]),
		Transparency:  ownOpt(event.Transparency, ownString[TimeTransparency]),
		Priority:      ownOpt(event.Priority, same[int]),
		Resources:     ownProps(event.Resources, ownTextList),
		Alarms:        ownAlarms(event.Alarms),
	}
}

func (todo *VTodo) owned() *VTodo {
	return &VTodo{
		ComponentBase:   todo.ComponentBase.owned(),
		Due:             ownOpt(todo.Due, ownDateTime),
		Completed:       ownOpt(todo.Completed, ownDateTime),
		Duration:        ownOpt(todo.Duration, same[Duration]),
		PercentComplete: ownOpt(todo.PercentComplete, same[int]),
		Description:     ownOpt(todo.Description, ownText),
		Location:        ownOpt(todo.Location, ownText),
		Geo:             ownOpt(todo.Geo, same[Geo]),
		Priority:        ownOpt(todo.Priority, same[int]),
		Resources:       ownProps(todo.Resources, ownTextList),
		Alarms:          ownAlarms(todo.Alarms),
	}
}

func (journal *VJournal) owned() *VJournal {
	return &VJournal{
		ComponentBase: journal.ComponentBase.owned(),
		Descriptions:  ownProps(journal.Descriptions, ownText),
	}
}

func (fb *VFreeBusy) owned() *VFreeBusy {
	return &VFreeBusy{
		UID:                ownProp(fb.UID, strings.Clone),
		DTStamp:            ownProp(fb.DTStamp, ownDateTime),
		DTStart:            ownOpt(fb.DTStart, ownDateTime),
		Organizer:          ownOpt(fb.Organizer, ownOrganizer),
		DTEnd:              ownOpt(fb.DTEnd, ownDateTime),
		Duration:           ownOpt(fb.Duration, same[Duration]),
		Contact:            ownOpt(fb.Contact, ownText),
		URL:                ownOpt(fb.URL, ownString[URI]),
		Attendees:          ownProps(fb.Attendees, ownAttendee),
		Comments:           ownProps(fb.Comments, ownText),
		RequestStatus:      ownProps(fb.RequestStatus, ownRequestStatus),
		Busy:               ownProps(fb.Busy, ownFreeBusyPeriods),
		Free:               ownProps(fb.Free, ownFreeBusyPeriods),
		BusyTentative:      ownProps(fb.BusyTentative, ownFreeBusyPeriods),
		BusyUnavailable:    ownProps(fb.BusyUnavailable, ownFreeBusyPeriods),
		XProperties:        ownTypedProperties(fb.XProperties),
		RetainedProperties: ownTypedProperties(fb.RetainedProperties),
	}
}

func (tz *VTimeZone) owned() *VTimeZone {
	return &VTimeZone{
		TZID:               ownProp(tz.TZID, strings.Clone),
		LastModified:       ownOpt(tz.LastModified, ownDateTime),
		TZURL:              ownOpt(tz.TZURL, ownString[URI]),
		Observances:        ownEach(tz.Observances, (*Observance).owned),
		XProperties:        ownTypedProperties(tz.XProperties),
		RetainedProperties: ownTypedProperties(tz.RetainedProperties),
	}
}

func (o *Observance) owned() *Observance {
	return &Observance{
		Kind:               o.Kind,
		DTStart:            ownProp(o.DTStart, ownDateTime),
		TZOffsetFrom:       ownProp(o.TZOffsetFrom, same[UTCOffset]),
		TZOffsetTo:         ownProp(o.TZOffsetTo, same[UTCOffset]),
		TZNames:            ownProps(o.TZNames, ownText),
		RRule:              ownOpt(o.RRule, ownRecurrenceRule),
		RDates:             ownProps(o.RDates, ownRecurrenceDates),
		Comments:           ownProps(o.Comments, ownText),
		XProperties:        ownTypedProperties(o.XProperties),
		RetainedProperties: ownTypedProperties(o.RetainedProperties),
	}
}

func (alarm *VAlarm) owned() *VAlarm {
	return &VAlarm{
		Action:             ownProp(alarm.Action, ownString[Action]),
		Trigger:            ownProp(alarm.Trigger, ownTrigger),
		Repeat:             ownOpt(alarm.Repeat, same[int]),
		Duration:           ownOpt(alarm.Duration, same[Duration]),
		Description:        ownOpt(alarm.Description, ownText),
		Summary:            ownOpt(alarm.Summary, ownText),
		Attendees:          ownProps(alarm.Attendees, ownAttendee),
		Attachments:        ownProps(alarm.Attachments, ownAttachment),
		XProperties:        ownTypedProperties(alarm.XProperties),
		RetainedProperties: ownTypedProperties(alarm.RetainedProperties),
	}
}

func (cc *CustomComponent) owned() *CustomComponent {
	return &CustomComponent{
		Name:       strings.Clone(cc.Name),
		Properties: ownTypedProperties(cc.Properties),
		Children:   ownEach(cc.Children, (*CustomComponent).owned),
	}
}
