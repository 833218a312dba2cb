package ics

func (a *assembler) event(c *TypedComponent) (*VEvent, bool) {
	e := &VEvent{}
	var uid *Prop[string]
	var dtstamp *Prop[DateTime]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyDtend:
			once(a, &e.DTEnd, p, dateTimeProp)
		case PropertyDuration:
			once(a, &e.Duration, p, durationProp)
		case PropertyDescription:
			once(a, &e.Description, p, textProp)
		case PropertyLocation:
			once(a, &e.Location, p, textProp)
		case PropertyGeo:
			once(a, &e.Geo, p, geoProp)
		case PropertyTransp:
			once(a, &e.Transparency, p, enumProp[TimeTransparency])
		case PropertyPriority:
			once(a, &e.Priority, p, intProp)
		case PropertyResources:
			many(a, &e.Resources, p, textListProp)
		default:
			if !a.base(&e.ComponentBase, p, &uid, &dtstamp) {
				extra(p, &e.XProperties, &e.RetainedProperties)
			}
		}
	}
	e.Alarms = a.alarms(c)
	ok := a.finishBase(c, &e.ComponentBase, uid, dtstamp, eventStatuses)
	ok = a.required(c, e.DTStart != nil, PropertyDtstart) && ok
	if !ok {
		return nil, false
	}
	if e.DTEnd != nil && e.Duration != nil {
		a.errorf(KindMutuallyExclusive, e.Duration.Span, "VEVENT has both DTEND and DURATION")
	}
	a.checkRange(&e.Priority, PropertyPriority, 0, 9)
	return e, true
}

func (a *assembler) todo(c *TypedComponent) (*VTodo, bool) {
	t := &VTodo{}
	var uid *Prop[string]
	var dtstamp *Prop[DateTime]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyDue:
			once(a, &t.Due, p, dateTimeProp)
		case PropertyCompleted:
			once(a, &t.Completed, p, dateTimeProp)
		case PropertyDuration:
			once(a, &t.Duration, p, durationProp)
		case PropertyPercentComplete:
			once(a, &t.PercentComplete, p, intProp)
		case PropertyDescription:
			once(a, &t.Description, p, textProp)
		case PropertyLocation:
			once(a, &t.Location, p, textProp)
		case PropertyGeo:
			once(a, &t.Geo, p, geoProp)
		case PropertyPriority:
			once(a, &t.Priority, p, intProp)
		case PropertyResources:
			many(a, &t.Resources, p, textListProp)
		default:
			if !a.base(&t.ComponentBase, p, &uid, &dtstamp) {
				extra(p, &t.XProperties, &t.RetainedProperties)
			}
		}
	}
	t.Alarms = a.alarms(c)
	if !a.finishBase(c, &t.ComponentBase, uid, dtstamp, todoStatuses) {
		return nil, false
	}
	// Both are kept; the overlap evaluator prefers DURATION.
	if t.Due != nil && t.Duration != nil {
		a.warnf(KindMutuallyExclusive, t.Duration.Span, "VTODO has both DUE and DURATION")
	}
	a.checkRange(&t.PercentComplete, PropertyPercentComplete, 0, 100)
	a.checkRange(&t.Priority, PropertyPriority, 0, 9)
	return t, true
}

func (a *assembler) journal(c *TypedComponent) (*VJournal, bool) {
	j := &VJournal{}
	var uid *Prop[string]
	var dtstamp *Prop[DateTime]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyDescription:
			many(a, &j.Descriptions, p, textProp)
		default:
			if !a.base(&j.ComponentBase, p, &uid, &dtstamp) {
				extra(p, &j.XProperties, &j.RetainedProperties)
			}
		}
	}
	a.noChildren(c)
	ok := a.finishBase(c, &j.ComponentBase, uid, dtstamp, journalStatuses)
	ok = a.required(c, j.DTStart != nil, PropertyDtstart) && ok
	if !ok {
		return nil, false
	}
	return j, true
}

func (a *assembler) freeBusy(c *TypedComponent) (*VFreeBusy, bool) {
	fb := &VFreeBusy{Span: c.Span}
	var uid *Prop[string]
	var dtstamp *Prop[DateTime]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyUid:
			once(a, &uid, p, stringProp)
		case PropertyDtstamp:
			once(a, &dtstamp, p, dateTimeProp)
		case PropertyDtstart:
			once(a, &fb.DTStart, p, dateTimeProp)
		case PropertyOrganizer:
			once(a, &fb.Organizer, p, organizerProp)
		case PropertyDtend:
			once(a, &fb.DTEnd, p, dateTimeProp)
		case PropertyDuration:
			once(a, &fb.Duration, p, durationProp)
		case PropertyContact:
			once(a, &fb.Contact, p, textProp)
		case PropertyUrl:
			once(a, &fb.URL, p, uriProp)
		case PropertyAttendee:
			many(a, &fb.Attendees, p, attendeeProp)
		case PropertyComment:
			many(a, &fb.Comments, p, textProp)
		case PropertyRequestStatus:
			many(a, &fb.RequestStatus, p, requestStatusProp)
		case PropertyFreebusy:
			v, err := freeBusyProp(p)
			if err != nil {
				a.errorf(KindInvalidPropertyValue, p.Span, "%v", err)
				continue
			}
			list := fb.bucket(v.Value.Type)
			*list = append(*list, v)
		default:
			extra(p, &fb.XProperties, &fb.RetainedProperties)
		}
	}
	a.noChildren(c)
	ok := a.required(c, uid != nil, PropertyUid)
	ok = a.required(c, dtstamp != nil, PropertyDtstamp) && ok
	ok = a.required(c, fb.DTStart != nil, PropertyDtstart) && ok
	ok = a.required(c, fb.Organizer != nil, PropertyOrganizer) && ok
	if !ok {
		return nil, false
	}
	fb.UID, fb.DTStamp = *uid, *dtstamp
	return fb, true
}

func (a *assembler) timezone(c *TypedComponent) (*VTimeZone, bool) {
	tz := &VTimeZone{Span: c.Span}
	var tzid *Prop[string]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyTzid:
			once(a, &tzid, p, stringProp)
		case PropertyLastModified:
			once(a, &tz.LastModified, p, dateTimeProp)
		case PropertyTzurl:
			once(a, &tz.TZURL, p, uriProp)
		default:
			extra(p, &tz.XProperties, &tz.RetainedProperties)
		}
	}
	for _, child := range c.Children {
		switch ComponentType(child.Name) {
		case ComponentStandard, ComponentDaylight:
			if o, ok := a.observance(child); ok {
				tz.Observances = append(tz.Observances, o)
			}
		default:
			a.errorf(KindInvalidNesting, child.Span, "%s cannot appear inside VTIMEZONE", child.Name)
		}
	}
	ok := a.required(c, tzid != nil, PropertyTzid)
	if len(tz.Observances) == 0 {
		a.errorf(KindMissingRequired, c.Span, "VTIMEZONE needs at least one STANDARD or DAYLIGHT")
		ok = false
	}
	if !ok {
		return nil, false
	}
	tz.TZID = *tzid
	return tz, true
}

func (a *assembler) observance(c *TypedComponent) (*Observance, bool) {
	o := &Observance{Kind: ComponentType(c.Name), Span: c.Span}
	var dtstart *Prop[DateTime]
	var from, to *Prop[UTCOffset]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyDtstart:
			once(a, &dtstart, p, dateTimeProp)
		case PropertyTzoffsetfrom:
			once(a, &from, p, utcOffsetProp)
		case PropertyTzoffsetto:
			once(a, &to, p, utcOffsetProp)
		case PropertyTzname:
			many(a, &o.TZNames, p, textProp)
		case PropertyRrule:
			once(a, &o.RRule, p, recurProp)
		case PropertyRdate:
			many(a, &o.RDates, p, recurrenceDatesProp)
		case PropertyComment:
			many(a, &o.Comments, p, textProp)
		default:
			extra(p, &o.XProperties, &o.RetainedProperties)
		}
	}
	a.noChildren(c)
	ok := a.required(c, dtstart != nil, PropertyDtstart)
	ok = a.required(c, from != nil, PropertyTzoffsetfrom) && ok
	ok = a.required(c, to != nil, PropertyTzoffsetto) && ok
	if !ok {
		return nil, false
	}
	o.DTStart, o.TZOffsetFrom, o.TZOffsetTo = *dtstart, *from, *to
	return o, true
}

func (a *assembler) alarm(c *TypedComponent) (*VAlarm, bool) {
	al := &VAlarm{Span: c.Span}
	var action *Prop[Action]
	var trigger *Prop[Trigger]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyAction:
			once(a, &action, p, enumProp[Action])
		case PropertyTrigger:
			once(a, &trigger, p, triggerProp)
		case PropertyRepeat:
			once(a, &al.Repeat, p, intProp)
		case PropertyDuration:
			once(a, &al.Duration, p, durationProp)
		case PropertyDescription:
			once(a, &al.Description, p, textProp)
		case PropertySummary:
			once(a, &al.Summary, p, textProp)
		case PropertyAttendee:
			many(a, &al.Attendees, p, attendeeProp)
		case PropertyAttach:
			many(a, &al.Attachments, p, attachmentProp)
		default:
			extra(p, &al.XProperties, &al.RetainedProperties)
		}
	}
	a.noChildren(c)
	ok := a.required(c, action != nil, PropertyAction)
	ok = a.required(c, trigger != nil, PropertyTrigger) && ok
	if (al.Repeat == nil) != (al.Duration == nil) {
		a.errorf(KindMissingRequired, c.Span, "VALARM needs REPEAT and DURATION together")
		ok = false
	}
	if action != nil {
		switch action.Value {
		case ActionDisplay:
			ok = a.required(c, al.Description != nil, PropertyDescription) && ok
		case ActionEmail:
			ok = a.required(c, al.Description != nil, PropertyDescription) && ok
			ok = a.required(c, al.Summary != nil, PropertySummary) && ok
			ok = a.required(c, len(al.Attendees) > 0, PropertyAttendee) && ok
		case ActionAudio:
			if len(al.Attachments) > 1 {
				a.errorf(KindDuplicateProperty, al.Attachments[1].Span, "an AUDIO alarm has at most one ATTACH, keeping the first")
				al.Attachments = al.Attachments[:1]
			}
		default:
			a.warnf(KindInvalidPropertyValue, action.Span, "unknown alarm action %s", action.Value)
		}
	}
	if !ok {
		return nil, false
	}
	al.Action, al.Trigger = *action, *trigger
	return al, true
}
