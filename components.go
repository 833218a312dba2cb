package ics

import (
	"fmt"
	"strings"
	"time"
)

// Component To determine what this is please use a type switch or typecast to each of:
//   - *VEvent
//   - *VTodo
//   - *VJournal
//   - *VFreeBusy
//   - *VTimeZone
//   - *VAlarm
//   - *CustomComponent
type Component interface {
	ComponentType() ComponentType
	// SourceSpan covers the BEGIN line through the END line. It is zero for
	// components built in code or copied with Owned.
	SourceSpan() Span
	write(lw *lineWriter)
}

var (
	_ Component = (*VEvent)(nil)
	_ Component = (*VTodo)(nil)
	_ Component = (*VJournal)(nil)
	_ Component = (*VFreeBusy)(nil)
	_ Component = (*VTimeZone)(nil)
	_ Component = (*VAlarm)(nil)
	_ Component = (*CustomComponent)(nil)
)

// ComponentBase holds the properties VEVENT, VTODO and VJOURNAL share.
type ComponentBase struct {
	UID     Prop[string]
	DTStamp Prop[DateTime]
	// DTStart is always set on a parsed VEVENT.
	DTStart        *Prop[DateTime]
	Summary        *Prop[Text]
	Organizer      *Prop[Organizer]
	Attendees      []Prop[Attendee]
	LastModified   *Prop[DateTime]
	Status         *Prop[ObjectStatus]
	Sequence       *Prop[int]
	Classification *Prop[Classification]
	Categories     []Prop[TextList]
	URL            *Prop[URI]
	RRule          *Prop[RecurrenceRule]
	RDates         []Prop[RecurrenceDates]
	ExDates        []Prop[[]DateTime]

	Created       *Prop[DateTime]
	RecurrenceID  *Prop[RecurrenceID]
	Comments      []Prop[Text]
	Contacts      []Prop[Text]
	RelatedTo     []Prop[RelatedTo]
	Attachments   []Prop[Attachment]
	RequestStatus []Prop[RequestStatus]

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

func newComponentBase(uid string, dtstamp time.Time) ComponentBase {
	return ComponentBase{
		UID:     Prop[string]{Value: uid},
		DTStamp: Prop[DateTime]{Value: NewDateTimeUTC(dtstamp)},
	}
}

func (cb *ComponentBase) SourceSpan() Span {
	return cb.Span
}

func (cb *ComponentBase) Id() string {
	return cb.UID.Value
}

func (cb *ComponentBase) SetDtStampTime(t time.Time) {
	cb.DTStamp = Prop[DateTime]{Value: NewDateTimeUTC(t)}
}

func (cb *ComponentBase) GetDtStampTime() (time.Time, error) {
	return cb.DTStamp.Value.Instant(), nil
}

func (cb *ComponentBase) SetCreatedTime(t time.Time) {
	cb.Created = &Prop[DateTime]{Value: NewDateTimeUTC(t)}
}

func (cb *ComponentBase) SetModifiedAt(t time.Time) {
	cb.LastModified = &Prop[DateTime]{Value: NewDateTimeUTC(t)}
}

func (cb *ComponentBase) GetLastModifiedAt() (time.Time, error) {
	return propInstant(cb.LastModified, PropertyLastModified)
}

func (cb *ComponentBase) SetSequence(seq int) {
	cb.Sequence = &Prop[int]{Value: seq}
}

// SetStartAt sets DTSTART. Times in a named location keep their zone and are
// written with TZID.
func (cb *ComponentBase) SetStartAt(t time.Time) {
	cb.DTStart = &Prop[DateTime]{Value: NewDateTimeIn(t)}
}

func (cb *ComponentBase) SetAllDayStartAt(t time.Time) {
	cb.DTStart = &Prop[DateTime]{Value: NewDate(t.Date())}
}

func (cb *ComponentBase) GetStartAt() (time.Time, error) {
	return propInstant(cb.DTStart, PropertyDtstart)
}

func (cb *ComponentBase) SetSummary(s string) {
	cb.Summary = &Prop[Text]{Value: Text{Content: s}}
}

func (cb *ComponentBase) SetStatus(s ObjectStatus) {
	cb.Status = &Prop[ObjectStatus]{Value: s}
}

func (cb *ComponentBase) SetClass(c Classification) {
	cb.Classification = &Prop[Classification]{Value: c}
}

func (cb *ComponentBase) SetURL(s string) {
	cb.URL = &Prop[URI]{Value: URI(s)}
}

// SetOrganizer sets ORGANIZER, adding a mailto: scheme when s has none.
func (cb *ComponentBase) SetOrganizer(s string, params ...PropertyParameter) {
	p := builtProperty(PropertyOrganizer, mailto(s), params)
	o, _ := organizerProp(&p)
	cb.Organizer = &o
}

// AddAttendee appends an ATTENDEE. Parameters such as WithCN, WithRSVP,
// ParticipationStatusAccepted or CalendarUserTypeRoom fill the matching
// fields; any other parameter is kept as is.
func (cb *ComponentBase) AddAttendee(s string, params ...PropertyParameter) {
	p := builtProperty(PropertyAttendee, mailto(s), params)
	a, _ := attendeeProp(&p)
	cb.Attendees = append(cb.Attendees, a)
}

func mailto(s string) CalAddress {
	if !strings.HasPrefix(strings.ToLower(s), "mailto:") {
		s = "mailto:" + s
	}
	return CalAddress(s)
}

func (cb *ComponentBase) AddCategory(s ...string) {
	cb.Categories = append(cb.Categories, Prop[TextList]{Value: TextList{Values: s}})
}

func (cb *ComponentBase) AddComment(s string) {
	cb.Comments = append(cb.Comments, Prop[Text]{Value: Text{Content: s}})
}

func (cb *ComponentBase) AddContact(s string) {
	cb.Contacts = append(cb.Contacts, Prop[Text]{Value: Text{Content: s}})
}

// AddRrule parses s and sets it as the RRULE.
func (cb *ComponentBase) AddRrule(s string) error {
	r, err := ParseRecurrenceRule(s)
	if err != nil {
		return fmt.Errorf("parsing rrule: %w", err)
	}
	cb.RRule = &Prop[RecurrenceRule]{Value: r}
	return nil
}

func (cb *ComponentBase) AddExdate(dts ...DateTime) {
	cb.ExDates = append(cb.ExDates, Prop[[]DateTime]{Value: dts})
}

func (cb *ComponentBase) AddRdate(dts ...DateTime) {
	cb.RDates = append(cb.RDates, Prop[RecurrenceDates]{Value: RecurrenceDates{DateTimes: dts}})
}

func (cb *ComponentBase) AddRelatedTo(uid string, reltype RelationshipType) {
	cb.RelatedTo = append(cb.RelatedTo, Prop[RelatedTo]{Value: RelatedTo{UID: uid, RelationType: reltype}})
}

func (cb *ComponentBase) AddAttachmentURL(uri string, contentType string) {
	cb.Attachments = append(cb.Attachments, Prop[Attachment]{Value: Attachment{URI: URI(uri), FormatType: contentType}})
}

func (cb *ComponentBase) AddAttachmentBinary(binary []byte, contentType string) {
	cb.Attachments = append(cb.Attachments, Prop[Attachment]{Value: Attachment{Binary: binary, FormatType: contentType}})
}

func propInstant(p *Prop[DateTime], name Property) (time.Time, error) {
	if p == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrorPropertyNotFound, name)
	}
	return p.Value.Instant(), nil
}

// VEvent is a VEVENT (section 3.6.1).
type VEvent struct {
	ComponentBase
	DTEnd        *Prop[DateTime]
	Duration     *Prop[Duration]
	Description  *Prop[Text]
	Location     *Prop[Text]
	Geo          *Prop[Geo]
	Transparency *Prop[TimeTransparency]
	Priority     *Prop[int]
	Resources    []Prop[TextList]
	Alarms       []*VAlarm
}

func NewEvent(uniqueId string, dtstamp, start time.Time) *VEvent {
	e := &VEvent{ComponentBase: newComponentBase(uniqueId, dtstamp)}
	e.SetStartAt(start)
	return e
}

func (event *VEvent) ComponentType() ComponentType {
	return ComponentVEvent
}

func (event *VEvent) SetEndAt(t time.Time) {
	event.DTEnd = &Prop[DateTime]{Value: NewDateTimeIn(t)}
	event.Duration = nil
}

func (event *VEvent) SetAllDayEndAt(t time.Time) {
	event.DTEnd = &Prop[DateTime]{Value: NewDate(t.Date())}
	event.Duration = nil
}

// SetDuration sets DURATION and drops DTEND, the two exclude each other.
func (event *VEvent) SetDuration(d time.Duration) {
	event.Duration = &Prop[Duration]{Value: NewDuration(d)}
	event.DTEnd = nil
}

// GetEndAt returns DTEND, or DTSTART plus DURATION. Without either an event
// ends where it starts, or a day later when DTSTART is a DATE.
func (event *VEvent) GetEndAt() (time.Time, error) {
	if event.DTEnd != nil {
		return event.DTEnd.Value.Instant(), nil
	}
	start, err := event.GetStartAt()
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case event.Duration != nil:
		return event.Duration.Value.AddTo(start), nil
	case event.DTStart.Value.IsDate():
		return start.AddDate(0, 0, 1), nil
	}
	return start, nil
}

func (event *VEvent) SetDescription(s string) {
	event.Description = &Prop[Text]{Value: Text{Content: s}}
}

func (event *VEvent) SetLocation(s string) {
	event.Location = &Prop[Text]{Value: Text{Content: s}}
}

func (event *VEvent) SetGeo(lat, lng float64) {
	event.Geo = &Prop[Geo]{Value: Geo{Latitude: lat, Longitude: lng}}
}

func (event *VEvent) SetPriority(p int) {
	event.Priority = &Prop[int]{Value: p}
}

func (event *VEvent) SetResources(r ...string) {
	event.Resources = append(event.Resources, Prop[TextList]{Value: TextList{Values: r}})
}

func (event *VEvent) SetTimeTransparency(v TimeTransparency) {
	event.Transparency = &Prop[TimeTransparency]{Value: v}
}

func (event *VEvent) AddAlarm(action Action) *VAlarm {
	a := NewAlarm(action)
	event.Alarms = append(event.Alarms, a)
	return a
}

// VTodo is a VTODO (section 3.6.2).
type VTodo struct {
	ComponentBase
	Due             *Prop[DateTime]
	Completed       *Prop[DateTime]
	Duration        *Prop[Duration]
	PercentComplete *Prop[int]
	Description     *Prop[Text]
	Location        *Prop[Text]
	Geo             *Prop[Geo]
	Priority        *Prop[int]
	Resources       []Prop[TextList]
	Alarms          []*VAlarm
}

func NewTodo(uniqueId string, dtstamp time.Time) *VTodo {
	return &VTodo{ComponentBase: newComponentBase(uniqueId, dtstamp)}
}

func (todo *VTodo) ComponentType() ComponentType {
	return ComponentVTodo
}

func (todo *VTodo) SetCompletedAt(t time.Time) {
	todo.Completed = &Prop[DateTime]{Value: NewDateTimeUTC(t)}
}

func (todo *VTodo) SetDueAt(t time.Time) {
	todo.Due = &Prop[DateTime]{Value: NewDateTimeIn(t)}
}

func (todo *VTodo) SetAllDayDueAt(t time.Time) {
	todo.Due = &Prop[DateTime]{Value: NewDate(t.Date())}
}

// GetDueAt returns DUE, or DTSTART plus DURATION.
func (todo *VTodo) GetDueAt() (time.Time, error) {
	if todo.Due != nil {
		return todo.Due.Value.Instant(), nil
	}
	if todo.Duration != nil && todo.DTStart != nil {
		return todo.Duration.Value.AddTo(todo.DTStart.Value.Instant()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrorPropertyNotFound, PropertyDue)
}

func (todo *VTodo) SetPercentComplete(p int) {
	todo.PercentComplete = &Prop[int]{Value: p}
}

// SetDuration sets DURATION and drops DUE.
func (todo *VTodo) SetDuration(d time.Duration) {
	todo.Duration = &Prop[Duration]{Value: NewDuration(d)}
	todo.Due = nil
}

func (todo *VTodo) SetDescription(s string) {
	todo.Description = &Prop[Text]{Value: Text{Content: s}}
}

func (todo *VTodo) SetLocation(s string) {
	todo.Location = &Prop[Text]{Value: Text{Content: s}}
}

func (todo *VTodo) SetGeo(lat, lng float64) {
	todo.Geo = &Prop[Geo]{Value: Geo{Latitude: lat, Longitude: lng}}
}

func (todo *VTodo) SetPriority(p int) {
	todo.Priority = &Prop[int]{Value: p}
}

func (todo *VTodo) SetResources(r ...string) {
	todo.Resources = append(todo.Resources, Prop[TextList]{Value: TextList{Values: r}})
}

func (todo *VTodo) AddAlarm(action Action) *VAlarm {
	a := NewAlarm(action)
	todo.Alarms = append(todo.Alarms, a)
	return a
}

// VJournal is a VJOURNAL (section 3.6.3). It may carry several DESCRIPTION
// properties.
type VJournal struct {
	ComponentBase
	Descriptions []Prop[Text]
}

func NewJournal(uniqueId string, dtstamp time.Time) *VJournal {
	return &VJournal{ComponentBase: newComponentBase(uniqueId, dtstamp)}
}

func (journal *VJournal) ComponentType() ComponentType {
	return ComponentVJournal
}

func (journal *VJournal) AddDescription(s string) {
	journal.Descriptions = append(journal.Descriptions, Prop[Text]{Value: Text{Content: s}})
}

// VFreeBusy is a VFREEBUSY (section 3.6.4). FREEBUSY properties are sorted
// into four lists by their FBTYPE.
type VFreeBusy struct {
	UID             Prop[string]
	DTStamp         Prop[DateTime]
	DTStart         *Prop[DateTime]
	Organizer       *Prop[Organizer]
	DTEnd           *Prop[DateTime]
	Duration        *Prop[Duration]
	Contact         *Prop[Text]
	URL             *Prop[URI]
	Attendees       []Prop[Attendee]
	Comments        []Prop[Text]
	RequestStatus   []Prop[RequestStatus]
	Busy            []Prop[FreeBusyPeriods]
	Free            []Prop[FreeBusyPeriods]
	BusyTentative   []Prop[FreeBusyPeriods]
	BusyUnavailable []Prop[FreeBusyPeriods]

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

func NewFreeBusy(uniqueId string, dtstamp time.Time) *VFreeBusy {
	return &VFreeBusy{
		UID:     Prop[string]{Value: uniqueId},
		DTStamp: Prop[DateTime]{Value: NewDateTimeUTC(dtstamp)},
	}
}

func (fb *VFreeBusy) ComponentType() ComponentType {
	return ComponentVFreeBusy
}

func (fb *VFreeBusy) SourceSpan() Span {
	return fb.Span
}

// AddPeriods appends one FREEBUSY property to the list its type selects.
func (fb *VFreeBusy) AddPeriods(fbtype FreeBusyTimeType, periods ...Period) {
	p := Prop[FreeBusyPeriods]{Value: FreeBusyPeriods{Type: fbtype, Periods: periods}}
	list := fb.bucket(fbtype)
	*list = append(*list, p)
}

func (fb *VFreeBusy) bucket(fbtype FreeBusyTimeType) *[]Prop[FreeBusyPeriods] {
	switch fbtype.Effective() {
	case FreeBusyTimeTypeFree:
		return &fb.Free
	case FreeBusyTimeTypeBusyTentative:
		return &fb.BusyTentative
	case FreeBusyTimeTypeBusyUnavailable:
		return &fb.BusyUnavailable
	}
	return &fb.Busy
}

// VTimeZone is a VTIMEZONE (section 3.6.5). Observances keep their source
// order.
type VTimeZone struct {
	TZID         Prop[string]
	LastModified *Prop[DateTime]
	TZURL        *Prop[URI]
	Observances  []*Observance

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

func NewTimezone(tzid string) *VTimeZone {
	return &VTimeZone{TZID: Prop[string]{Value: tzid}}
}

func (tz *VTimeZone) ComponentType() ComponentType {
	return ComponentVTimezone
}

func (tz *VTimeZone) SourceSpan() Span {
	return tz.Span
}

func (tz *VTimeZone) Standard() []*Observance {
	return tz.observances(ComponentStandard)
}

func (tz *VTimeZone) Daylight() []*Observance {
	return tz.observances(ComponentDaylight)
}

func (tz *VTimeZone) observances(kind ComponentType) (r []*Observance) {
	for _, o := range tz.Observances {
		if o.Kind == kind {
			r = append(r, o)
		}
	}
	return
}

func (tz *VTimeZone) AddStandard(start DateTime, from, to UTCOffset) *Observance {
	return tz.addObservance(ComponentStandard, start, from, to)
}

func (tz *VTimeZone) AddDaylight(start DateTime, from, to UTCOffset) *Observance {
	return tz.addObservance(ComponentDaylight, start, from, to)
}

func (tz *VTimeZone) addObservance(kind ComponentType, start DateTime, from, to UTCOffset) *Observance {
	o := &Observance{
		Kind:         kind,
		DTStart:      Prop[DateTime]{Value: start},
		TZOffsetFrom: Prop[UTCOffset]{Value: from},
		TZOffsetTo:   Prop[UTCOffset]{Value: to},
	}
	tz.Observances = append(tz.Observances, o)
	return o
}

// Observance is a STANDARD or DAYLIGHT sub-component of a VTIMEZONE.
type Observance struct {
	Kind         ComponentType
	DTStart      Prop[DateTime]
	TZOffsetFrom Prop[UTCOffset]
	TZOffsetTo   Prop[UTCOffset]
	TZNames      []Prop[Text]
	RRule        *Prop[RecurrenceRule]
	RDates       []Prop[RecurrenceDates]
	Comments     []Prop[Text]

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

func (o *Observance) AddTzName(name string) {
	o.TZNames = append(o.TZNames, Prop[Text]{Value: Text{Content: name}})
}

func (o *Observance) AddRrule(s string) error {
	r, err := ParseRecurrenceRule(s)
	if err != nil {
		return fmt.Errorf("parsing rrule: %w", err)
	}
	o.RRule = &Prop[RecurrenceRule]{Value: r}
	return nil
}

// VAlarm is a VALARM (section 3.6.6).
type VAlarm struct {
	Action      Prop[Action]
	Trigger     Prop[Trigger]
	Repeat      *Prop[int]
	Duration    *Prop[Duration]
	Description *Prop[Text]
	Summary     *Prop[Text]
	Attendees   []Prop[Attendee]
	Attachments []Prop[Attachment]

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

// NewAlarm returns an alarm firing at the start of its parent.
func NewAlarm(action Action) *VAlarm {
	return &VAlarm{
		Action:  Prop[Action]{Value: action},
		Trigger: Prop[Trigger]{Value: Trigger{Duration: &Duration{}}},
	}
}

func (alarm *VAlarm) ComponentType() ComponentType {
	return ComponentVAlarm
}

func (alarm *VAlarm) SourceSpan() Span {
	return alarm.Span
}

// SetTrigger sets a trigger relative to the start of the parent. A negative
// d fires before the start.
func (alarm *VAlarm) SetTrigger(d time.Duration) {
	dur := NewDuration(d)
	alarm.Trigger = Prop[Trigger]{Value: Trigger{Duration: &dur}}
}

// SetTriggerFromEnd sets a trigger relative to the end of the parent.
func (alarm *VAlarm) SetTriggerFromEnd(d time.Duration) {
	dur := NewDuration(d)
	alarm.Trigger = Prop[Trigger]{Value: Trigger{Duration: &dur, Related: RelatedEnd}}
}

func (alarm *VAlarm) SetTriggerAt(t time.Time) {
	dt := NewDateTimeUTC(t)
	alarm.Trigger = Prop[Trigger]{Value: Trigger{DateTime: &dt}}
}

// SetRepeat sets REPEAT and DURATION, which RFC 5545 requires together.
func (alarm *VAlarm) SetRepeat(count int, every time.Duration) {
	alarm.Repeat = &Prop[int]{Value: count}
	alarm.Duration = &Prop[Duration]{Value: NewDuration(every)}
}

func (alarm *VAlarm) SetDescription(s string) {
	alarm.Description = &Prop[Text]{Value: Text{Content: s}}
}

func (alarm *VAlarm) SetSummary(s string) {
	alarm.Summary = &Prop[Text]{Value: Text{Content: s}}
}

func (alarm *VAlarm) AddAttendee(s string, params ...PropertyParameter) {
	p := builtProperty(PropertyAttendee, mailto(s), params)
	a, _ := attendeeProp(&p)
	alarm.Attendees = append(alarm.Attendees, a)
}

func (alarm *VAlarm) AddAttachmentURL(uri string, contentType string) {
	alarm.Attachments = append(alarm.Attachments, Prop[Attachment]{Value: Attachment{URI: URI(uri), FormatType: contentType}})
}

// CustomComponent passes an unrecognized component through unchanged. It is
// also used for a known component that failed validation.
type CustomComponent struct {
	Name       string
	Properties []TypedProperty
	Children   []*CustomComponent
	Span       Span
}

func (cc *CustomComponent) ComponentType() ComponentType {
	return ComponentType(cc.Name)
}

func (cc *CustomComponent) SourceSpan() Span {
	return cc.Span
}
