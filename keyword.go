package ics

import "strings"

// ComponentType enumerates the component names defined in RFC 5545 section 3.6.
type ComponentType string

const (
	// ComponentVCalendar is the VCALENDAR container component.
	ComponentVCalendar ComponentType = "VCALENDAR"
	// ComponentVEvent represents a VEVENT component.
	ComponentVEvent ComponentType = "VEVENT"
	// ComponentVTodo represents a VTODO component.
	ComponentVTodo ComponentType = "VTODO"
	// ComponentVJournal represents a VJOURNAL component.
	ComponentVJournal ComponentType = "VJOURNAL"
	// ComponentVFreeBusy represents a VFREEBUSY component.
	ComponentVFreeBusy ComponentType = "VFREEBUSY"
	// ComponentVTimezone represents a VTIMEZONE component.
	ComponentVTimezone ComponentType = "VTIMEZONE"
	// ComponentVAlarm represents a VALARM subcomponent.
	ComponentVAlarm ComponentType = "VALARM"
	// ComponentStandard represents a STANDARD timezone subcomponent.
	ComponentStandard ComponentType = "STANDARD"
	// ComponentDaylight represents a DAYLIGHT timezone subcomponent.
	ComponentDaylight ComponentType = "DAYLIGHT"
)

// IsExtension reports whether the name is an x-name ("X-" prefix).
func (ct ComponentType) IsExtension() bool {
	return isXName(string(ct))
}

// Property is an upper-case property name.
type Property string

// Property enumerates iCalendar property names as defined in RFC 5545
// section 3.7 and 3.8.
const (
	PropertyBegin Property = "BEGIN"
	PropertyEnd   Property = "END"

	// Calendar properties (section 3.7).
	PropertyCalscale  Property = "CALSCALE"
	PropertyMethod    Property = "METHOD"
	PropertyProductId Property = "PRODID"
	PropertyVersion   Property = "VERSION"

	// Descriptive component properties (section 3.8.1).
	PropertyAttach          Property = "ATTACH"
	PropertyCategories      Property = "CATEGORIES"
	PropertyClass           Property = "CLASS"
	PropertyComment         Property = "COMMENT"
	PropertyDescription     Property = "DESCRIPTION"
	PropertyGeo             Property = "GEO"
	PropertyLocation        Property = "LOCATION"
	PropertyPercentComplete Property = "PERCENT-COMPLETE"
	PropertyPriority        Property = "PRIORITY"
	PropertyResources       Property = "RESOURCES"
	PropertyStatus          Property = "STATUS"
	PropertySummary         Property = "SUMMARY"

	// Date and time component properties (section 3.8.2).
	PropertyCompleted Property = "COMPLETED"
	PropertyDtend     Property = "DTEND"
	PropertyDue       Property = "DUE"
	PropertyDtstart   Property = "DTSTART"
	PropertyDuration  Property = "DURATION"
	PropertyFreebusy  Property = "FREEBUSY"
	PropertyTransp    Property = "TRANSP"

	// Time zone component properties (section 3.8.3).
	PropertyTzid         Property = "TZID"
	PropertyTzname       Property = "TZNAME"
	PropertyTzoffsetfrom Property = "TZOFFSETFROM"
	PropertyTzoffsetto   Property = "TZOFFSETTO"
	PropertyTzurl        Property = "TZURL"

	// Relationship component properties (section 3.8.4).
	PropertyAttendee     Property = "ATTENDEE"
	PropertyContact      Property = "CONTACT"
	PropertyOrganizer    Property = "ORGANIZER"
	PropertyRecurrenceId Property = "RECURRENCE-ID"
	PropertyRelatedTo    Property = "RELATED-TO"
	PropertyUrl          Property = "URL"
	PropertyUid          Property = "UID"

	// Recurrence component properties (section 3.8.5).
	PropertyExdate Property = "EXDATE"
	PropertyRdate  Property = "RDATE"
	PropertyRrule  Property = "RRULE"

	// Alarm component properties (section 3.8.6).
	PropertyAction  Property = "ACTION"
	PropertyRepeat  Property = "REPEAT"
	PropertyTrigger Property = "TRIGGER"

	// Change management component properties (section 3.8.7).
	PropertyCreated      Property = "CREATED"
	PropertyDtstamp      Property = "DTSTAMP"
	PropertyLastModified Property = "LAST-MODIFIED"
	PropertySequence     Property = "SEQUENCE"

	// Miscellaneous component properties (section 3.8.8).
	PropertyRequestStatus Property = "REQUEST-STATUS"
)

// IsExtension reports whether the property is an x-name.
func (p Property) IsExtension() bool {
	return isXName(string(p))
}

// Parameter is an upper-case property parameter name.
type Parameter string

const (
	// ParameterAltrep references an alternate text representation (section 3.2.1).
	ParameterAltrep Parameter = "ALTREP"
	// ParameterCn provides a common name (section 3.2.2).
	ParameterCn Parameter = "CN"
	// ParameterCutype defines the calendar user type (section 3.2.3).
	ParameterCutype Parameter = "CUTYPE"
	// ParameterDelegatedFrom lists participants the request was delegated from (section 3.2.4).
	ParameterDelegatedFrom Parameter = "DELEGATED-FROM"
	// ParameterDelegatedTo lists participants the request was delegated to (section 3.2.5).
	ParameterDelegatedTo Parameter = "DELEGATED-TO"
	// ParameterDir gives a reference to directory information (section 3.2.6).
	ParameterDir Parameter = "DIR"
	// ParameterEncoding defines inline attachment encoding (section 3.2.7).
	ParameterEncoding Parameter = "ENCODING"
	// ParameterFmttype is the content type for a binary attachment (section 3.2.8).
	ParameterFmttype Parameter = "FMTTYPE"
	// ParameterFbtype specifies free/busy time type (section 3.2.9).
	ParameterFbtype Parameter = "FBTYPE"
	// ParameterLanguage indicates the language for text values (section 3.2.10).
	ParameterLanguage Parameter = "LANGUAGE"
	// ParameterMember identifies group membership (section 3.2.11).
	ParameterMember Parameter = "MEMBER"
	// ParameterParticipationStatus holds participation status (section 3.2.12).
	ParameterParticipationStatus Parameter = "PARTSTAT"
	// ParameterRange is used with RECURRENCE-ID (section 3.2.13).
	ParameterRange Parameter = "RANGE"
	// ParameterRelated anchors a relative TRIGGER (section 3.2.14).
	ParameterRelated Parameter = "RELATED"
	// ParameterReltype specifies relationship type for RELATED-TO (section 3.2.15).
	ParameterReltype Parameter = "RELTYPE"
	// ParameterRole indicates participant role (section 3.2.16).
	ParameterRole Parameter = "ROLE"
	// ParameterRsvp indicates whether a response is requested (section 3.2.17).
	ParameterRsvp Parameter = "RSVP"
	// ParameterSentBy gives the address responsible for sending a request (section 3.2.18).
	ParameterSentBy Parameter = "SENT-BY"
	// ParameterTzid references a time zone identifier (section 3.2.19).
	ParameterTzid Parameter = "TZID"
	// ParameterValue sets the value data type of the property (section 3.2.20).
	ParameterValue Parameter = "VALUE"
)

func (p Parameter) IsExtension() bool {
	return isXName(string(p))
}

// ValueDataType lists the VALUE parameter types described in RFC 5545 section 3.3.
type ValueDataType string

const (
	// ValueDataTypeBinary represents binary data (section 3.3.1).
	ValueDataTypeBinary ValueDataType = "BINARY"
	// ValueDataTypeBoolean represents boolean values (section 3.3.2).
	ValueDataTypeBoolean ValueDataType = "BOOLEAN"
	// ValueDataTypeCalAddress represents a calendar address (section 3.3.3).
	ValueDataTypeCalAddress ValueDataType = "CAL-ADDRESS"
	// ValueDataTypeDate represents a DATE value (section 3.3.4).
	ValueDataTypeDate ValueDataType = "DATE"
	// ValueDataTypeDateTime represents a DATE-TIME (section 3.3.5).
	ValueDataTypeDateTime ValueDataType = "DATE-TIME"
	// ValueDataTypeDuration represents a DURATION (section 3.3.6).
	ValueDataTypeDuration ValueDataType = "DURATION"
	// ValueDataTypeFloat represents floating point values (section 3.3.7).
	ValueDataTypeFloat ValueDataType = "FLOAT"
	// ValueDataTypeInteger represents integer values (section 3.3.8).
	ValueDataTypeInteger ValueDataType = "INTEGER"
	// ValueDataTypePeriod represents a PERIOD value (section 3.3.9).
	ValueDataTypePeriod ValueDataType = "PERIOD"
	// ValueDataTypeRecur represents a RECUR value (section 3.3.10).
	ValueDataTypeRecur ValueDataType = "RECUR"
	// ValueDataTypeText represents a TEXT value (section 3.3.11).
	ValueDataTypeText ValueDataType = "TEXT"
	// ValueDataTypeTime represents a TIME value (section 3.3.12).
	ValueDataTypeTime ValueDataType = "TIME"
	// ValueDataTypeUri represents a URI (section 3.3.13).
	ValueDataTypeUri ValueDataType = "URI"
	// ValueDataTypeUtcOffset represents UTC-OFFSET (section 3.3.14).
	ValueDataTypeUtcOffset ValueDataType = "UTC-OFFSET"
)

var knownValueDataTypes = map[ValueDataType]bool{
	ValueDataTypeBinary:     true,
	ValueDataTypeBoolean:    true,
	ValueDataTypeCalAddress: true,
	ValueDataTypeDate:       true,
	ValueDataTypeDateTime:   true,
	ValueDataTypeDuration:   true,
	ValueDataTypeFloat:      true,
	ValueDataTypeInteger:    true,
	ValueDataTypePeriod:     true,
	ValueDataTypeRecur:      true,
	ValueDataTypeText:       true,
	ValueDataTypeTime:       true,
	ValueDataTypeUri:        true,
	ValueDataTypeUtcOffset:  true,
}

func isXName(s string) bool {
	return len(s) > 2 && strings.EqualFold(s[:2], "X-")
}
