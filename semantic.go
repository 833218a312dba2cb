package ics

// Assemble builds calendars from typed trees, one per top-level VCALENDAR
// in source order. Roots of any other kind are reported and skipped.
func Assemble(roots []*TypedComponent) ([]*ICalendar, Diagnostics) {
	a := &assembler{}
	var cals []*ICalendar
	for _, r := range roots {
		if r.Name != string(ComponentVCalendar) {
			a.errorf(KindInvalidNesting, r.Span, "top-level component %s is not VCALENDAR", r.Name)
			continue
		}
		if cal, ok := a.calendar(r); ok {
			cals = append(cals, cal)
		}
	}
	return cals, a.diags
}

type assembler struct {
	diags Diagnostics
}

func (a *assembler) errorf(kind DiagnosticKind, span Span, format string, args ...any) {
	a.diags.add(PhaseSemantic, SeverityError, kind, span, format, args...)
}

func (a *assembler) warnf(kind DiagnosticKind, span Span, format string, args ...any) {
	a.diags.add(PhaseSemantic, SeverityWarning, kind, span, format, args...)
}

// once stores the first instance of an at-most-once property.
func once[T any](a *assembler, dst **Prop[T], p *TypedProperty, conv func(*TypedProperty) (Prop[T], error)) {
	if *dst != nil {
		a.errorf(KindDuplicateProperty, p.Span, "%s may appear at most once, keeping the first", p.Name)
		return
	}
	v, err := conv(p)
	if err != nil {
		a.errorf(KindInvalidPropertyValue, p.Span, "%v", err)
		return
	}
	*dst = &v
}

func many[T any](a *assembler, dst *[]Prop[T], p *TypedProperty, conv func(*TypedProperty) (Prop[T], error)) {
	v, err := conv(p)
	if err != nil {
		a.errorf(KindInvalidPropertyValue, p.Span, "%v", err)
		return
	}
	*dst = append(*dst, v)
}

// extra files a property the component does not model.
func extra(p *TypedProperty, x, retained *[]TypedProperty) {
	if p.Class == PropertyClassXName {
		*x = append(*x, *p)
		return
	}
	*retained = append(*retained, *p)
}

// required reports a missing required property and returns present.
func (a *assembler) required(c *TypedComponent, present bool, name Property) bool {
	if !present {
		a.errorf(KindMissingRequired, c.Span, "%s is missing required property %s", c.Name, name)
	}
	return present
}

func (a *assembler) calendar(c *TypedComponent) (*ICalendar, bool) {
	cal := &ICalendar{Span: c.Span}
	var prodID, version *Prop[string]
	for i := range c.Properties {
		p := &c.Properties[i]
		switch Property(p.Name) {
		case PropertyProductId:
			once(a, &prodID, p, stringProp)
		case PropertyVersion:
			once(a, &version, p, stringProp)
		case PropertyCalscale:
			once(a, &cal.CalScale, p, stringProp)
		case PropertyMethod:
			once(a, &cal.Method, p, enumProp[Method])
		default:
			extra(p, &cal.XProperties, &cal.RetainedProperties)
		}
	}
	ok := a.required(c, prodID != nil, PropertyProductId)
	ok = a.required(c, version != nil, PropertyVersion) && ok
	if !ok {
		return nil, false
	}
	cal.ProdID, cal.Version = *prodID, *version
	if cal.Version.Value != "2.0" {
		a.warnf(KindInvalidPropertyValue, cal.Version.Span, "VERSION %q is not 2.0", cal.Version.Value)
	}
	for _, child := range c.Children {
		if comp, ok := a.calendarChild(child); ok {
			cal.Components = append(cal.Components, comp)
		}
	}
	return cal, true
}

func (a *assembler) calendarChild(c *TypedComponent) (Component, bool) {
	var comp Component
	ok := false
	switch ComponentType(c.Name) {
	case ComponentVEvent:
		comp, ok = a.event(c)
	case ComponentVTodo:
		comp, ok = a.todo(c)
	case ComponentVJournal:
		comp, ok = a.journal(c)
	case ComponentVFreeBusy:
		comp, ok = a.freeBusy(c)
	case ComponentVTimezone:
		comp, ok = a.timezone(c)
	case ComponentVAlarm:
		comp, ok = a.alarm(c)
	case ComponentVCalendar, ComponentStandard, ComponentDaylight:
		a.errorf(KindInvalidNesting, c.Span, "%s cannot appear inside VCALENDAR", c.Name)
		return nil, false
	default:
		if !isXName(c.Name) {
			a.warnf(KindUnknownComponent, c.Span, "unknown component %s kept as is", c.Name)
		}
		return custom(c), true
	}
	if !ok {
		return custom(c), true
	}
	return comp, true
}

func custom(c *TypedComponent) *CustomComponent {
	cc := &CustomComponent{Name: c.Name, Properties: c.Properties, Span: c.Span}
	for _, child := range c.Children {
		cc.Children = append(cc.Children, custom(child))
	}
	return cc
}

// base handles the properties ComponentBase models. It returns false for
// any other property.
func (a *assembler) base(b *ComponentBase, p *TypedProperty, uid **Prop[string], dtstamp **Prop[DateTime]) bool {
	switch Property(p.Name) {
	case PropertyUid:
		once(a, uid, p, stringProp)
	case PropertyDtstamp:
		once(a, dtstamp, p, dateTimeProp)
	case PropertyDtstart:
		once(a, &b.DTStart, p, dateTimeProp)
	case PropertySummary:
		once(a, &b.Summary, p, textProp)
	case PropertyOrganizer:
		once(a, &b.Organizer, p, organizerProp)
	case PropertyAttendee:
		many(a, &b.Attendees, p, attendeeProp)
	case PropertyLastModified:
		once(a, &b.LastModified, p, dateTimeProp)
	case PropertyStatus:
		once(a, &b.Status, p, enumProp[ObjectStatus])
	case PropertySequence:
		once(a, &b.Sequence, p, intProp)
	case PropertyClass:
		once(a, &b.Classification, p, enumProp[Classification])
	case PropertyCategories:
		many(a, &b.Categories, p, textListProp)
	case PropertyUrl:
		once(a, &b.URL, p, uriProp)
	case PropertyRrule:
		once(a, &b.RRule, p, recurProp)
	case PropertyRdate:
		many(a, &b.RDates, p, recurrenceDatesProp)
	case PropertyExdate:
		many(a, &b.ExDates, p, dateTimesProp)
	case PropertyCreated:
		once(a, &b.Created, p, dateTimeProp)
	case PropertyRecurrenceId:
		once(a, &b.RecurrenceID, p, recurrenceIDProp)
	case PropertyComment:
		many(a, &b.Comments, p, textProp)
	case PropertyContact:
		many(a, &b.Contacts, p, textProp)
	case PropertyRelatedTo:
		many(a, &b.RelatedTo, p, relatedToProp)
	case PropertyAttach:
		many(a, &b.Attachments, p, attachmentProp)
	case PropertyRequestStatus:
		many(a, &b.RequestStatus, p, requestStatusProp)
	default:
		return false
	}
	return true
}

// finishBase checks UID and DTSTAMP and the STATUS value set.
func (a *assembler) finishBase(c *TypedComponent, b *ComponentBase, uid *Prop[string], dtstamp *Prop[DateTime], statuses []ObjectStatus) bool {
	ok := a.required(c, uid != nil, PropertyUid)
	ok = a.required(c, dtstamp != nil, PropertyDtstamp) && ok
	if !ok {
		return false
	}
	b.UID, b.DTStamp, b.Span = *uid, *dtstamp, c.Span
	if b.Status != nil && !validStatus(b.Status.Value, statuses) {
		a.errorf(KindInvalidPropertyValue, b.Status.Span, "STATUS %s is not valid in %s", b.Status.Value, c.Name)
		b.Status = nil
	}
	return true
}

func validStatus(s ObjectStatus, statuses []ObjectStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// checkRange drops an integer property outside [min, max].
func (a *assembler) checkRange(p **Prop[int], name Property, min, max int) {
	if *p == nil {
		return
	}
	if v := (*p).Value; v < min || v > max {
		a.errorf(KindInvalidPropertyValue, (*p).Span, "%s %d is outside %d..%d", name, v, min, max)
		*p = nil
	}
}

// alarms builds the VALARM children of an event or todo. Other children are
// reported and dropped.
func (a *assembler) alarms(c *TypedComponent) []*VAlarm {
	var out []*VAlarm
	for _, child := range c.Children {
		if child.Name != string(ComponentVAlarm) {
			a.errorf(KindInvalidNesting, child.Span, "%s cannot appear inside %s", child.Name, c.Name)
			continue
		}
		if alarm, ok := a.alarm(child); ok {
			out = append(out, alarm)
		}
	}
	return out
}

func (a *assembler) noChildren(c *TypedComponent) {
	for _, child := range c.Children {
		a.errorf(KindInvalidNesting, child.Span, "%s cannot appear inside %s", child.Name, c.Name)
	}
}
