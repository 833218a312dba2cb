package ics

import (
	"strings"
)

// Format serializes cal with the default options: CRLF line endings and
// lines folded at 75 octets.
func Format(cal *ICalendar) (string, error) {
	b := &strings.Builder{}
	if err := cal.SerializeTo(b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// typedFrom assembles the typed property the writer emits. VALUE is added
// when the value type is not the default of the property, and BINARY values
// get ENCODING=BASE64.
func typedFrom(name Property, vs []Value, params, x, retained []TypedParameter) *TypedProperty {
	tp := &TypedProperty{
		Name:               string(name),
		Values:             vs,
		XParameters:        x,
		RetainedParameters: retained,
	}
	spec, _ := lookupPropertySpec(string(name))
	tp.ValueType = spec.Default
	if len(vs) > 0 {
		tp.ValueType = vs[0].Type()
	}
	if tp.ValueType != spec.Default {
		tp.Parameters = append(tp.Parameters, NewParameter(ParameterValue, string(tp.ValueType)))
	}
	if tp.ValueType == ValueDataTypeBinary {
		tp.Parameters = append(tp.Parameters, NewParameter(ParameterEncoding, "BASE64"))
	}
	tp.Parameters = append(tp.Parameters, params...)
	return tp
}

func writeProp[T any](lw *lineWriter, name Property, p *Prop[T], conv func(T) ([]Value, []TypedParameter)) {
	if p == nil {
		return
	}
	vs, params := conv(p.Value)
	lw.property(typedFrom(name, vs, params, p.XParameters, p.RetainedParameters))
}

func writeProps[T any](lw *lineWriter, name Property, ps []Prop[T], conv func(T) ([]Value, []TypedParameter)) {
	for i := range ps {
		writeProp(lw, name, &ps[i], conv)
	}
}

// optParam returns a one element parameter list when v is set.
func optParam[S ~string](name Parameter, v S) []TypedParameter {
	if v == "" {
		return nil
	}
	return []TypedParameter{NewParameter(name, string(v))}
}

func addressParam(name Parameter, as []CalAddress) []TypedParameter {
	if len(as) == 0 {
		return nil
	}
	vs := make([]string, len(as))
	for i, a := range as {
		vs[i] = string(a)
	}
	return []TypedParameter{NewParameter(name, vs...)}
}

func stringValues(s string) ([]Value, []TypedParameter) {
	return []Value{TextValue(s)}, nil
}

func enumValues[E ~string](e E) ([]Value, []TypedParameter) {
	return []Value{TextValue(e)}, nil
}

func textValues(t Text) ([]Value, []TypedParameter) {
	params := append(optParam(ParameterAltrep, t.AltRep), optParam(ParameterLanguage, t.Language)...)
	return []Value{TextValue(t.Content)}, params
}

func textListValues(l TextList) ([]Value, []TypedParameter) {
	vs := make([]Value, len(l.Values))
	for i, s := range l.Values {
		vs[i] = TextValue(s)
	}
	params := append(optParam(ParameterAltrep, l.AltRep), optParam(ParameterLanguage, l.Language)...)
	return vs, params
}

func intValues(n int) ([]Value, []TypedParameter) {
	return []Value{Integer(n)}, nil
}

func uriValues(u URI) ([]Value, []TypedParameter) {
	return []Value{u}, nil
}

func durationValues(d Duration) ([]Value, []TypedParameter) {
	return []Value{d}, nil
}

func geoValues(g Geo) ([]Value, []TypedParameter) {
	return []Value{g}, nil
}

func utcOffsetValues(o UTCOffset) ([]Value, []TypedParameter) {
	return []Value{o}, nil
}

func recurValues(r RecurrenceRule) ([]Value, []TypedParameter) {
	return []Value{r}, nil
}

func requestStatusValues(r RequestStatus) ([]Value, []TypedParameter) {
	return []Value{r}, nil
}

// zoneParams writes TZID for zoned values and for floating values that kept
// an unresolved TZID.
func zoneParams(dts ...DateTime) []TypedParameter {
	for _, dt := range dts {
		if dt.TZID != "" && (dt.Form == DateTimeZoned || dt.Form == DateTimeFloating) {
			return []TypedParameter{NewParameter(ParameterTzid, dt.TZID)}
		}
	}
	return nil
}

func dateTimeValues(dt DateTime) ([]Value, []TypedParameter) {
	return []Value{dt}, zoneParams(dt)
}

func dateTimeListValues(dts []DateTime) ([]Value, []TypedParameter) {
	vs := make([]Value, len(dts))
	for i, dt := range dts {
		vs[i] = dt
	}
	return vs, zoneParams(dts...)
}

func periodValues(ps []Period) ([]Value, []TypedParameter) {
	vs := make([]Value, len(ps))
	starts := make([]DateTime, len(ps))
	for i, p := range ps {
		vs[i] = p
		starts[i] = p.Start
	}
	return vs, zoneParams(starts...)
}

func recurrenceIDValues(rid RecurrenceID) ([]Value, []TypedParameter) {
	return []Value{rid.DateTime}, append(zoneParams(rid.DateTime), optParam(ParameterRange, rid.Range)...)
}

func relatedToValues(rt RelatedTo) ([]Value, []TypedParameter) {
	return []Value{TextValue(rt.UID)}, optParam(ParameterReltype, rt.RelationType)
}

func freeBusyValues(fb FreeBusyPeriods) ([]Value, []TypedParameter) {
	vs, params := periodValues(fb.Periods)
	return vs, append(optParam(ParameterFbtype, fb.Type), params...)
}

func attachmentValues(a Attachment) ([]Value, []TypedParameter) {
	params := optParam(ParameterFmttype, a.FormatType)
	if a.IsBinary() {
		return []Value{a.Binary}, params
	}
	return []Value{a.URI}, params
}

func triggerValues(t Trigger) ([]Value, []TypedParameter) {
	if t.DateTime != nil {
		return []Value{*t.DateTime}, zoneParams(*t.DateTime)
	}
	var d Duration
	if t.Duration != nil {
		d = *t.Duration
	}
	return []Value{d}, optParam(ParameterRelated, t.Related)
}

func attendeeValues(a Attendee) ([]Value, []TypedParameter) {
	var params []TypedParameter
	params = append(params, optParam(ParameterCutype, a.CalendarUserType)...)
	params = append(params, addressParam(ParameterMember, a.Member)...)
	params = append(params, optParam(ParameterRole, a.Role)...)
	params = append(params, optParam(ParameterParticipationStatus, a.ParticipationStatus)...)
	if a.RSVP != nil {
		v := "FALSE"
		if *a.RSVP {
			v = "TRUE"
		}
		params = append(params, NewParameter(ParameterRsvp, v))
	}
	params = append(params, addressParam(ParameterDelegatedTo, a.DelegatedTo)...)
	params = append(params, addressParam(ParameterDelegatedFrom, a.DelegatedFrom)...)
	params = append(params, optParam(ParameterSentBy, a.SentBy)...)
	params = append(params, optParam(ParameterCn, a.CommonName)...)
	params = append(params, optParam(ParameterDir, a.Dir)...)
	params = append(params, optParam(ParameterLanguage, a.Language)...)
	return []Value{a.Address}, params
}

func organizerValues(o Organizer) ([]Value, []TypedParameter) {
	var params []TypedParameter
	params = append(params, optParam(ParameterCn, o.CommonName)...)
	params = append(params, optParam(ParameterDir, o.Dir)...)
	params = append(params, optParam(ParameterSentBy, o.SentBy)...)
	params = append(params, optParam(ParameterLanguage, o.Language)...)
	return []Value{o.Address}, params
}

// writeRecurrenceDates writes date-times and periods of one RDATE as
// separate lines since a property holds a single value type.
func writeRecurrenceDates(lw *lineWriter, ps []Prop[RecurrenceDates]) {
	for _, p := range ps {
		if len(p.Value.DateTimes) > 0 || len(p.Value.Periods) == 0 {
			vs, params := dateTimeListValues(p.Value.DateTimes)
			lw.property(typedFrom(PropertyRdate, vs, params, p.XParameters, p.RetainedParameters))
		}
		if len(p.Value.Periods) > 0 {
			vs, params := periodValues(p.Value.Periods)
			lw.property(typedFrom(PropertyRdate, vs, params, p.XParameters, p.RetainedParameters))
		}
	}
}

func (cal *ICalendar) write(lw *lineWriter) {
	lw.begin(string(ComponentVCalendar))
	writeProp(lw, PropertyProductId, &cal.ProdID, stringValues)
	writeProp(lw, PropertyVersion, &cal.Version, stringValues)
	writeProp(lw, PropertyCalscale, cal.CalScale, stringValues)
	writeProp(lw, PropertyMethod, cal.Method, enumValues[Method])
	lw.properties(cal.XProperties)
	lw.properties(cal.RetainedProperties)
	for _, c := range cal.Components {
		c.write(lw)
	}
	lw.end(string(ComponentVCalendar))
}

// writeSupplemental writes the ComponentBase properties that follow the
// per-component order.
func (cb *ComponentBase) writeSupplemental(lw *lineWriter) {
	writeProp(lw, PropertyCreated, cb.Created, dateTimeValues)
	writeProp(lw, PropertyRecurrenceId, cb.RecurrenceID, recurrenceIDValues)
	writeProps(lw, PropertyComment, cb.Comments, textValues)
	writeProps(lw, PropertyContact, cb.Contacts, textValues)
	writeProps(lw, PropertyRelatedTo, cb.RelatedTo, relatedToValues)
	writeProps(lw, PropertyAttach, cb.Attachments, attachmentValues)
	writeProps(lw, PropertyRequestStatus, cb.RequestStatus, requestStatusValues)
	lw.properties(cb.XProperties)
	lw.properties(cb.RetainedProperties)
}

func (event *VEvent) write(lw *lineWriter) {
	lw.begin(string(ComponentVEvent))
	writeProp(lw, PropertyUid, &event.UID, stringValues)
	writeProp(lw, PropertyDtstamp, &event.DTStamp, dateTimeValues)
	writeProp(lw, PropertyDtstart, event.DTStart, dateTimeValues)
	writeProp(lw, PropertyDtend, event.DTEnd, dateTimeValues)
	writeProp(lw, PropertyDuration, event.Duration, durationValues)
	writeProp(lw, PropertySummary, event.Summary, textValues)
	writeProp(lw, PropertyDescription, event.Description, textValues)
	writeProp(lw, PropertyLocation, event.Location, textValues)
	writeProp(lw, PropertyGeo, event.Geo, geoValues)
	writeProp(lw, PropertyUrl, event.URL, uriValues)
	writeProp(lw, PropertyOrganizer, event.Organizer, organizerValues)
	writeProps(lw, PropertyAttendee, event.Attendees, attendeeValues)
	writeProp(lw, PropertyLastModified, event.LastModified, dateTimeValues)
	writeProp(lw, PropertyStatus, event.Status, enumValues[ObjectStatus])
	writeProp(lw, PropertyTransp, event.Transparency, enumValues[TimeTransparency])
	writeProp(lw, PropertySequence, event.Sequence, intValues)
	writeProp(lw, PropertyPriority, event.Priority, intValues)
	writeProp(lw, PropertyClass, event.Classification, enumValues[Classification])
	writeProps(lw, PropertyResources, event.Resources, textListValues)
	writeProps(lw, PropertyCategories, event.Categories, textListValues)
	writeProp(lw, PropertyRrule, event.RRule, recurValues)
	writeRecurrenceDates(lw, event.RDates)
	writeProps(lw, PropertyExdate, event.ExDates, dateTimeListValues)
	event.writeSupplemental(lw)
	for _, a := range event.Alarms {
		a.write(lw)
	}
	lw.end(string(ComponentVEvent))
}

func (todo *VTodo) write(lw *lineWriter) {
	lw.begin(string(ComponentVTodo))
	writeProp(lw, PropertyUid, &todo.UID, stringValues)
	writeProp(lw, PropertyDtstamp, &todo.DTStamp, dateTimeValues)
	writeProp(lw, PropertyDtstart, todo.DTStart, dateTimeValues)
	writeProp(lw, PropertyDue, todo.Due, dateTimeValues)
	writeProp(lw, PropertyCompleted, todo.Completed, dateTimeValues)
	writeProp(lw, PropertyDuration, todo.Duration, durationValues)
	writeProp(lw, PropertySummary, todo.Summary, textValues)
	writeProp(lw, PropertyDescription, todo.Description, textValues)
	writeProp(lw, PropertyLocation, todo.Location, textValues)
	writeProp(lw, PropertyGeo, todo.Geo, geoValues)
	writeProp(lw, PropertyUrl, todo.URL, uriValues)
	writeProp(lw, PropertyOrganizer, todo.Organizer, organizerValues)
	writeProps(lw, PropertyAttendee, todo.Attendees, attendeeValues)
	writeProp(lw, PropertyLastModified, todo.LastModified, dateTimeValues)
	writeProp(lw, PropertyStatus, todo.Status, enumValues[ObjectStatus])
	writeProp(lw, PropertySequence, todo.Sequence, intValues)
	writeProp(lw, PropertyPriority, todo.Priority, intValues)
	writeProp(lw, PropertyPercentComplete, todo.PercentComplete, intValues)
	writeProp(lw, PropertyClass, todo.Classification, enumValues[Classification])
	writeProps(lw, PropertyResources, todo.Resources, textListValues)
	writeProps(lw, PropertyCategories, todo.Categories, textListValues)
	writeProp(lw, PropertyRrule, todo.RRule, recurValues)
	writeRecurrenceDates(lw, todo.RDates)
	writeProps(lw, PropertyExdate, todo.ExDates, dateTimeListValues)
	todo.writeSupplemental(lw)
	for _, a := range todo.Alarms {
		a.write(lw)
	}
	lw.end(string(ComponentVTodo))
}

func (journal *VJournal) write(lw *lineWriter) {
	lw.begin(string(ComponentVJournal))
	writeProp(lw, PropertyUid, &journal.UID, stringValues)
	writeProp(lw, PropertyDtstamp, &journal.DTStamp, dateTimeValues)
	writeProp(lw, PropertyDtstart, journal.DTStart, dateTimeValues)
	writeProp(lw, PropertySummary, journal.Summary, textValues)
	writeProps(lw, PropertyDescription, journal.Descriptions, textValues)
	writeProp(lw, PropertyOrganizer, journal.Organizer, organizerValues)
	writeProps(lw, PropertyAttendee, journal.Attendees, attendeeValues)
	writeProp(lw, PropertyLastModified, journal.LastModified, dateTimeValues)
	writeProp(lw, PropertyStatus, journal.Status, enumValues[ObjectStatus])
	writeProp(lw, PropertySequence, journal.Sequence, intValues)
	writeProp(lw, PropertyClass, journal.Classification, enumValues[Classification])
	writeProps(lw, PropertyCategories, journal.Categories, textListValues)
	writeProp(lw, PropertyRrule, journal.RRule, recurValues)
	writeRecurrenceDates(lw, journal.RDates)
	writeProps(lw, PropertyExdate, journal.ExDates, dateTimeListValues)
	writeProp(lw, PropertyUrl, journal.URL, uriValues)
	journal.writeSupplemental(lw)
	lw.end(string(ComponentVJournal))
}

func (fb *VFreeBusy) write(lw *lineWriter) {
	lw.begin(string(ComponentVFreeBusy))
	writeProp(lw, PropertyUid, &fb.UID, stringValues)
	writeProp(lw, PropertyDtstamp, &fb.DTStamp, dateTimeValues)
	writeProp(lw, PropertyDtstart, fb.DTStart, dateTimeValues)
	writeProp(lw, PropertyOrganizer, fb.Organizer, organizerValues)
	writeProp(lw, PropertyDtend, fb.DTEnd, dateTimeValues)
	writeProp(lw, PropertyDuration, fb.Duration, durationValues)
	writeProp(lw, PropertyContact, fb.Contact, textValues)
	writeProp(lw, PropertyUrl, fb.URL, uriValues)
	writeProps(lw, PropertyFreebusy, fb.Busy, freeBusyValues)
	writeProps(lw, PropertyFreebusy, fb.Free, freeBusyValues)
	writeProps(lw, PropertyFreebusy, fb.BusyTentative, freeBusyValues)
	writeProps(lw, PropertyFreebusy, fb.BusyUnavailable, freeBusyValues)
	writeProps(lw, PropertyAttendee, fb.Attendees, attendeeValues)
	writeProps(lw, PropertyComment, fb.Comments, textValues)
	writeProps(lw, PropertyRequestStatus, fb.RequestStatus, requestStatusValues)
	lw.properties(fb.XProperties)
	lw.properties(fb.RetainedProperties)
	lw.end(string(ComponentVFreeBusy))
}

func (tz *VTimeZone) write(lw *lineWriter) {
	lw.begin(string(ComponentVTimezone))
	writeProp(lw, PropertyTzid, &tz.TZID, stringValues)
	writeProp(lw, PropertyLastModified, tz.LastModified, dateTimeValues)
	writeProp(lw, PropertyTzurl, tz.TZURL, uriValues)
	lw.properties(tz.XProperties)
	lw.properties(tz.RetainedProperties)
	for _, o := range tz.Observances {
		o.write(lw)
	}
	lw.end(string(ComponentVTimezone))
}

func (o *Observance) write(lw *lineWriter) {
	lw.begin(string(o.Kind))
	writeProp(lw, PropertyDtstart, &o.DTStart, dateTimeValues)
	writeProp(lw, PropertyTzoffsetfrom, &o.TZOffsetFrom, utcOffsetValues)
	writeProp(lw, PropertyTzoffsetto, &o.TZOffsetTo, utcOffsetValues)
	writeProps(lw, PropertyTzname, o.TZNames, textValues)
	writeProp(lw, PropertyRrule, o.RRule, recurValues)
	writeRecurrenceDates(lw, o.RDates)
	writeProps(lw, PropertyComment, o.Comments, textValues)
	lw.properties(o.XProperties)
	lw.properties(o.RetainedProperties)
	lw.end(string(o.Kind))
}

func (alarm *VAlarm) write(lw *lineWriter) {
	lw.begin(string(ComponentVAlarm))
	writeProp(lw, PropertyAction, &alarm.Action, enumValues[Action])
	writeProp(lw, PropertyTrigger, &alarm.Trigger, triggerValues)
	writeProp(lw, PropertyRepeat, alarm.Repeat, intValues)
	writeProp(lw, PropertyDuration, alarm.Duration, durationValues)
	writeProp(lw, PropertyDescription, alarm.Description, textValues)
	writeProp(lw, PropertySummary, alarm.Summary, textValues)
	writeProps(lw, PropertyAttendee, alarm.Attendees, attendeeValues)
	writeProps(lw, PropertyAttach, alarm.Attachments, attachmentValues)
	lw.properties(alarm.XProperties)
	lw.properties(alarm.RetainedProperties)
	lw.end(string(ComponentVAlarm))
}

func (cc *CustomComponent) write(lw *lineWriter) {
	lw.begin(cc.Name)
	lw.properties(cc.Properties)
	for _, c := range cc.Children {
		c.write(lw)
	}
	lw.end(cc.Name)
}
