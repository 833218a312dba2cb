package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

type CalendarUserType string

// CalendarUserType enumerates the CUTYPE parameter values from RFC 5545 section 3.2.3.
const (
	// CalendarUserTypeIndividual identifies an individual calendar user.
	CalendarUserTypeIndividual CalendarUserType = "INDIVIDUAL"
	// CalendarUserTypeGroup identifies a group of users.
	CalendarUserTypeGroup CalendarUserType = "GROUP"
	// CalendarUserTypeResource identifies a physical resource.
	CalendarUserTypeResource CalendarUserType = "RESOURCE"
	// CalendarUserTypeRoom identifies a room resource.
	CalendarUserTypeRoom CalendarUserType = "ROOM"
	// CalendarUserTypeUnknown is used when the user type is unknown.
	CalendarUserTypeUnknown CalendarUserType = "UNKNOWN"
)

func (cut CalendarUserType) KeyValue(_ ...interface{}) (string, []string) {
	return string(ParameterCutype), []string{string(cut)}
}

// Effective returns the value that applies when the parameter is absent.
func (cut CalendarUserType) Effective() CalendarUserType {
	if cut == "" {
		return CalendarUserTypeIndividual
	}
	return cut
}

type FreeBusyTimeType string

// FreeBusyTimeType enumerates the FBTYPE parameter values used with FREEBUSY
// properties (RFC 5545 section 3.2.9).
const (
	// FreeBusyTimeTypeFree indicates the time is free.
	FreeBusyTimeTypeFree FreeBusyTimeType = "FREE"
	// FreeBusyTimeTypeBusy indicates the time is busy.
	FreeBusyTimeTypeBusy FreeBusyTimeType = "BUSY"
	// FreeBusyTimeTypeBusyUnavailable indicates the time is busy and unavailable.
	FreeBusyTimeTypeBusyUnavailable FreeBusyTimeType = "BUSY-UNAVAILABLE"
	// FreeBusyTimeTypeBusyTentative indicates tentative busy time.
	FreeBusyTimeTypeBusyTentative FreeBusyTimeType = "BUSY-TENTATIVE"
)

// Effective returns BUSY for an absent FBTYPE. Unrecognized types are
// treated as BUSY as section 3.2.9 requires.
func (fb FreeBusyTimeType) Effective() FreeBusyTimeType {
	switch fb := FreeBusyTimeType(strings.ToUpper(string(fb))); fb {
	case FreeBusyTimeTypeFree, FreeBusyTimeTypeBusyUnavailable, FreeBusyTimeTypeBusyTentative:
		return fb
	}
	return FreeBusyTimeTypeBusy
}

type ParticipationStatus string

// ParticipationStatus enumerates the PARTSTAT parameter values from RFC 5545 section 3.2.12.
const (
	// ParticipationStatusNeedsAction indicates a pending reply.
	ParticipationStatusNeedsAction ParticipationStatus = "NEEDS-ACTION"
	// ParticipationStatusAccepted indicates acceptance.
	ParticipationStatusAccepted ParticipationStatus = "ACCEPTED"
	// ParticipationStatusDeclined indicates the invitation was declined.
	ParticipationStatusDeclined ParticipationStatus = "DECLINED"
	// ParticipationStatusTentative indicates a tentative reply.
	ParticipationStatusTentative ParticipationStatus = "TENTATIVE"
	// ParticipationStatusDelegated indicates delegation to another party.
	ParticipationStatusDelegated ParticipationStatus = "DELEGATED"
	// ParticipationStatusCompleted indicates the task has been completed.
	ParticipationStatusCompleted ParticipationStatus = "COMPLETED"
	// ParticipationStatusInProcess indicates work is in progress.
	ParticipationStatusInProcess ParticipationStatus = "IN-PROCESS"
)

func (ps ParticipationStatus) KeyValue(_ ...interface{}) (string, []string) {
	return string(ParameterParticipationStatus), []string{string(ps)}
}

func (ps ParticipationStatus) Effective() ParticipationStatus {
	if ps == "" {
		return ParticipationStatusNeedsAction
	}
	return ps
}

type ObjectStatus string

// ObjectStatus enumerates allowed STATUS property values for calendar objects
// (RFC 5545 section 3.8.1.11).
const (
	// ObjectStatusTentative indicates the object is tentative.
	ObjectStatusTentative ObjectStatus = "TENTATIVE"
	// ObjectStatusConfirmed indicates the object is confirmed.
	ObjectStatusConfirmed ObjectStatus = "CONFIRMED"
	// ObjectStatusCancelled indicates the object is cancelled.
	ObjectStatusCancelled ObjectStatus = "CANCELLED"
	// ObjectStatusNeedsAction indicates further action is required.
	ObjectStatusNeedsAction ObjectStatus = "NEEDS-ACTION"
	// ObjectStatusCompleted indicates completion.
	ObjectStatusCompleted ObjectStatus = "COMPLETED"
	// ObjectStatusInProcess indicates processing is ongoing.
	ObjectStatusInProcess ObjectStatus = "IN-PROCESS"
	// ObjectStatusDraft indicates a draft state.
	ObjectStatusDraft ObjectStatus = "DRAFT"
	// ObjectStatusFinal indicates a final state.
	ObjectStatusFinal ObjectStatus = "FINAL"
)

var (
	eventStatuses   = []ObjectStatus{ObjectStatusTentative, ObjectStatusConfirmed, ObjectStatusCancelled}
	todoStatuses    = []ObjectStatus{ObjectStatusNeedsAction, ObjectStatusCompleted, ObjectStatusInProcess, ObjectStatusCancelled}
	journalStatuses = []ObjectStatus{ObjectStatusDraft, ObjectStatusFinal, ObjectStatusCancelled}
)

type RelationshipType string

// RelationshipType enumerates RELTYPE parameter values for RELATED-TO
// properties (RFC 5545 section 3.2.15).
const (
	// RelationshipTypeChild indicates a child relationship.
	RelationshipTypeChild RelationshipType = "CHILD"
	// RelationshipTypeParent indicates a parent relationship.
	RelationshipTypeParent RelationshipType = "PARENT"
	// RelationshipTypeSibling indicates a sibling relationship.
	RelationshipTypeSibling RelationshipType = "SIBLING"
)

func (rt RelationshipType) Effective() RelationshipType {
	if rt == "" {
		return RelationshipTypeParent
	}
	return rt
}

type ParticipationRole string

// ParticipationRole enumerates the ROLE parameter values for participants
// (RFC 5545 section 3.2.16).
const (
	// ParticipationRoleChair designates the chair of the meeting.
	ParticipationRoleChair ParticipationRole = "CHAIR"
	// ParticipationRoleReqParticipant indicates a required participant.
	ParticipationRoleReqParticipant ParticipationRole = "REQ-PARTICIPANT"
	// ParticipationRoleOptParticipant indicates an optional participant.
	ParticipationRoleOptParticipant ParticipationRole = "OPT-PARTICIPANT"
	// ParticipationRoleNonParticipant indicates a non-participant observer.
	ParticipationRoleNonParticipant ParticipationRole = "NON-PARTICIPANT"
)

func (pr ParticipationRole) KeyValue(_ ...interface{}) (string, []string) {
	return string(ParameterRole), []string{string(pr)}
}

func (pr ParticipationRole) Effective() ParticipationRole {
	if pr == "" {
		return ParticipationRoleReqParticipant
	}
	return pr
}

// RecurrenceRange is the RANGE parameter of RECURRENCE-ID (section 3.2.13).
// The zero value means the instance alone.
type RecurrenceRange string

const (
	RecurrenceRangeThisAndFuture RecurrenceRange = "THISANDFUTURE"
	// RecurrenceRangeThisAndPrior is deprecated by RFC 5545 but still parsed.
	RecurrenceRangeThisAndPrior RecurrenceRange = "THISANDPRIOR"
)

// Related is the RELATED parameter of a relative TRIGGER (section 3.2.14).
type Related string

const (
	RelatedStart Related = "START"
	RelatedEnd   Related = "END"
)

func (r Related) Effective() Related {
	if r == "" {
		return RelatedStart
	}
	return r
}

type Action string

// Action enumerates VALARM ACTION property values (RFC 5545 section 3.8.6.1).
const (
	// ActionAudio plays an audio alert.
	ActionAudio Action = "AUDIO"
	// ActionDisplay shows display text.
	ActionDisplay Action = "DISPLAY"
	// ActionEmail sends an email message.
	ActionEmail Action = "EMAIL"
	// ActionProcedure invokes a procedure. RFC 5545 deprecates it.
	ActionProcedure Action = "PROCEDURE"
)

type Classification string

// Classification enumerates CLASS property values (RFC 5545 section 3.8.1.3).
const (
	// ClassificationPublic marks information as public.
	ClassificationPublic Classification = "PUBLIC"
	// ClassificationPrivate marks information as private.
	ClassificationPrivate Classification = "PRIVATE"
	// ClassificationConfidential marks information as confidential.
	ClassificationConfidential Classification = "CONFIDENTIAL"
)

func (c Classification) Effective() Classification {
	if c == "" {
		return ClassificationPublic
	}
	return c
}

type TimeTransparency string

// TimeTransparency enumerates TRANSP property values (RFC 5545 section 3.8.2.7).
const (
	TimeTransparencyOpaque      TimeTransparency = "OPAQUE"
	TimeTransparencyTransparent TimeTransparency = "TRANSPARENT"
)

func (t TimeTransparency) Effective() TimeTransparency {
	if t == "" {
		return TimeTransparencyOpaque
	}
	return t
}

type Method string

// Method enumerates METHOD property values used with scheduling messages
// (RFC 5546 section 1.4).
const (
	// MethodPublish publishes a calendar.
	MethodPublish Method = "PUBLISH"
	// MethodRequest requests scheduling.
	MethodRequest Method = "REQUEST"
	// MethodReply sends a scheduling reply.
	MethodReply Method = "REPLY"
	// MethodAdd adds additional information.
	MethodAdd Method = "ADD"
	// MethodCancel cancels a previously scheduled object.
	MethodCancel Method = "CANCEL"
	// MethodRefresh requests a resend of a calendar.
	MethodRefresh Method = "REFRESH"
	// MethodCounter sends a counter proposal.
	MethodCounter Method = "COUNTER"
	// MethodDeclinecounter declines a counter proposal.
	MethodDeclinecounter Method = "DECLINECOUNTER"
)

// ICalendar is a VCALENDAR object. RFC 5545 section 3.6 says:
// "A 'VCALENDAR' object MUST include the 'PRODID' and 'VERSION' properties".
// Components keeps the source order of the nested components.
type ICalendar struct {
	ProdID   Prop[string]
	Version  Prop[string]
	CalScale *Prop[string]
	Method   *Prop[Method]

	Components []Component

	XProperties        []TypedProperty
	RetainedProperties []TypedProperty
	Span               Span
}

// NewCalendar returns a basic calendar using a default product identifier.
// The returned calendar satisfies the minimum requirements of RFC 5545 by
// including the VERSION and PRODID properties.
func NewCalendar() *ICalendar {
	return NewCalendarFor("aimcal")
}

// NewCalendarFor constructs a calendar for the given service. The VERSION
// property is set to "2.0" as defined in RFC 5545 section 3.7.4 and PRODID is
// populated using the provided service identifier per section 3.7.3.
func NewCalendarFor(service string) *ICalendar {
	return &ICalendar{
		ProdID:  Prop[string]{Value: "-//" + service + "//Golang ICS Library//EN"},
		Version: Prop[string]{Value: "2.0"},
	}
}

// SetMethod sets the METHOD property.
func (cal *ICalendar) SetMethod(method Method) {
	cal.Method = &Prop[Method]{Value: method}
}

// Add appends components in order.
func (cal *ICalendar) Add(cs ...Component) {
	cal.Components = append(cal.Components, cs...)
}

func (cal *ICalendar) Events() (r []*VEvent) {
	for _, c := range cal.Components {
		if e, ok := c.(*VEvent); ok {
			r = append(r, e)
		}
	}
	return
}

func (cal *ICalendar) Todos() (r []*VTodo) {
	for _, c := range cal.Components {
		if t, ok := c.(*VTodo); ok {
			r = append(r, t)
		}
	}
	return
}

func (cal *ICalendar) Journals() (r []*VJournal) {
	for _, c := range cal.Components {
		if j, ok := c.(*VJournal); ok {
			r = append(r, j)
		}
	}
	return
}

func (cal *ICalendar) Timezones() (r []*VTimeZone) {
	for _, c := range cal.Components {
		if tz, ok := c.(*VTimeZone); ok {
			r = append(r, tz)
		}
	}
	return
}

func (cal *ICalendar) FreeBusy() (r []*VFreeBusy) {
	for _, c := range cal.Components {
		if fb, ok := c.(*VFreeBusy); ok {
			r = append(r, fb)
		}
	}
	return
}

// Event returns the first event with the given UID.
func (cal *ICalendar) Event(uid string) (*VEvent, bool) {
	for _, e := range cal.Events() {
		if e.UID.Value == uid {
			return e, true
		}
	}
	return nil, false
}

// Todo returns the first todo with the given UID.
func (cal *ICalendar) Todo(uid string) (*VTodo, bool) {
	for _, t := range cal.Todos() {
		if t.UID.Value == uid {
			return t, true
		}
	}
	return nil, false
}

// RemoveEvent removes every event with the given UID.
func (cal *ICalendar) RemoveEvent(uid string) {
	kept := cal.Components[:0]
	for _, c := range cal.Components {
		if e, ok := c.(*VEvent); ok && e.UID.Value == uid {
			continue
		}
		kept = append(kept, c)
	}
	cal.Components = kept
}

func (cal *ICalendar) Serialize(ops ...any) string {
	b := &strings.Builder{}
	// We are intentionally ignoring the return value. _ used to communicate this to lint.
	_ = cal.SerializeTo(b, ops...)
	return b.String()
}

type WithLineLength int
type WithNewLine string

func (cal *ICalendar) SerializeTo(w io.Writer, ops ...any) error {
	serializeConfig, err := parseSerializeOps(ops)
	if err != nil {
		return err
	}
	lw := newLineWriter(w, serializeConfig)
	cal.write(lw)
	return lw.err
}

// SerializationConfiguration controls how calendars and components are written
// out. MaxLength is the 75 octet line length limit from RFC 5545 section 3.1.
// NewLine selects the line termination sequence.
type SerializationConfiguration struct {
	MaxLength int
	NewLine   string
}

// parseSerializeOps interprets the optional arguments provided to Serialize or
// SerializeTo. It accepts WithLineLength, WithNewLine or a
// *SerializationConfiguration. Unsupported types and line lengths below 5
// octets return an error.
func parseSerializeOps(ops []any) (*SerializationConfiguration, error) {
	serializeConfig := defaultSerializationOptions()
	for opi, op := range ops {
		switch op := op.(type) {
		case WithLineLength:
			serializeConfig.MaxLength = int(op)
		case WithNewLine:
			serializeConfig.NewLine = string(op)
		case *SerializationConfiguration:
			if op != nil {
				c := *op
				serializeConfig = &c
			}
		case error:
			return nil, op
		default:
			return nil, fmt.Errorf("unknown op %d of type %s", opi, reflect.TypeOf(op))
		}
	}
	if serializeConfig.MaxLength < 5 {
		return nil, fmt.Errorf("line length %d is too short to fold", serializeConfig.MaxLength)
	}
	return serializeConfig, nil
}

// defaultSerializationOptions returns the values RFC 5545 section 3.1
// prescribes: 75 octet lines ending in CRLF.
func defaultSerializationOptions() *SerializationConfiguration {
	return &SerializationConfiguration{
		MaxLength: 75,
		NewLine:   string(NewLine),
	}
}

func WithCustomClient(client *http.Client) *http.Client {
	return client
}

func WithCustomRequest(request *http.Request) *http.Request {
	return request
}

// ParseCalendarFromUrl retrieves an iCalendar object from the provided URL and
// parses it. Many calendaring services expose feeds over HTTP. This helper
// performs the request and then calls ParseCalendar on the response body.
func ParseCalendarFromUrl(url string, opts ...any) (*ICalendar, error) {
	var ctx context.Context
	var req *http.Request
	var client HttpClientLike = http.DefaultClient
	for opti, opt := range opts {
		switch opt := opt.(type) {
		case *http.Client:
			client = opt
		case HttpClientLike:
			client = opt
		case func() *http.Client:
			client = opt()
		case *http.Request:
			req = opt
		case func() *http.Request:
			req = opt()
		case context.Context:
			ctx = opt
		case func() context.Context:
			ctx = opt()
		default:
			return nil, fmt.Errorf("unknown optional argument %d on ParseCalendarFromUrl: %s", opti, reflect.TypeOf(opt))
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		var err error
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating http request: %w", err)
		}
	}
	return parseCalendarFromHttpRequest(client, req)
}

type HttpClientLike interface {
	Do(req *http.Request) (*http.Response, error)
}

// parseCalendarFromHttpRequest executes the HTTP request using the supplied
// client and parses the response body.
func parseCalendarFromHttpRequest(client HttpClientLike, request *http.Request) (cal *ICalendar, err error) {
	resp, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func(closer io.ReadCloser) {
		if derr := closer.Close(); derr != nil && err == nil {
			err = fmt.Errorf("http request close: %w", derr)
		}
	}(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return ParseCalendar(resp.Body)
}
