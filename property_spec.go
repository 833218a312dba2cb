package ics

// propertySpec describes the value grammar of a known property.
type propertySpec struct {
	Default ValueDataType
	// Allowed lists the legal VALUE= types, Default included.
	Allowed []ValueDataType
	// Multiple allows comma separated values.
	Multiple bool
}

func (s propertySpec) allows(vt ValueDataType) bool {
	for _, a := range s.Allowed {
		if a == vt {
			return true
		}
	}
	return false
}

func single(vts ...ValueDataType) propertySpec {
	return propertySpec{Default: vts[0], Allowed: vts}
}

func multiple(vts ...ValueDataType) propertySpec {
	return propertySpec{Default: vts[0], Allowed: vts, Multiple: true}
}

var propertySpecs = map[Property]propertySpec{
	PropertyCalscale:  single(ValueDataTypeText),
	PropertyMethod:    single(ValueDataTypeText),
	PropertyProductId: single(ValueDataTypeText),
	PropertyVersion:   single(ValueDataTypeText),

	PropertyAttach:          single(ValueDataTypeUri, ValueDataTypeBinary),
	PropertyCategories:      multiple(ValueDataTypeText),
	PropertyClass:           single(ValueDataTypeText),
	PropertyComment:         single(ValueDataTypeText),
	PropertyDescription:     single(ValueDataTypeText),
	PropertyGeo:             single(ValueDataTypeFloat),
	PropertyLocation:        single(ValueDataTypeText),
	PropertyPercentComplete: single(ValueDataTypeInteger),
	PropertyPriority:        single(ValueDataTypeInteger),
	PropertyResources:       multiple(ValueDataTypeText),
	PropertyStatus:          single(ValueDataTypeText),
	PropertySummary:         single(ValueDataTypeText),

	PropertyCompleted: single(ValueDataTypeDateTime),
	PropertyDtend:     single(ValueDataTypeDateTime, ValueDataTypeDate),
	PropertyDue:       single(ValueDataTypeDateTime, ValueDataTypeDate),
	PropertyDtstart:   single(ValueDataTypeDateTime, ValueDataTypeDate),
	PropertyDuration:  single(ValueDataTypeDuration),
	PropertyFreebusy:  multiple(ValueDataTypePeriod),
	PropertyTransp:    single(ValueDataTypeText),

	PropertyTzid:         single(ValueDataTypeText),
	PropertyTzname:       single(ValueDataTypeText),
	PropertyTzoffsetfrom: single(ValueDataTypeUtcOffset),
	PropertyTzoffsetto:   single(ValueDataTypeUtcOffset),
	PropertyTzurl:        single(ValueDataTypeUri),

	PropertyAttendee:     single(ValueDataTypeCalAddress),
	PropertyContact:      single(ValueDataTypeText),
	PropertyOrganizer:    single(ValueDataTypeCalAddress),
	PropertyRecurrenceId: single(ValueDataTypeDateTime, ValueDataTypeDate),
	PropertyRelatedTo:    single(ValueDataTypeText),
	PropertyUrl:          single(ValueDataTypeUri),
	PropertyUid:          single(ValueDataTypeText),

	PropertyExdate: multiple(ValueDataTypeDateTime, ValueDataTypeDate),
	PropertyRdate:  multiple(ValueDataTypeDateTime, ValueDataTypeDate, ValueDataTypePeriod),
	PropertyRrule:  single(ValueDataTypeRecur),

	PropertyAction:  single(ValueDataTypeText),
	PropertyRepeat:  single(ValueDataTypeInteger),
	PropertyTrigger: single(ValueDataTypeDuration, ValueDataTypeDateTime),

	PropertyCreated:      single(ValueDataTypeDateTime),
	PropertyDtstamp:      single(ValueDataTypeDateTime),
	PropertyLastModified: single(ValueDataTypeDateTime),
	PropertySequence:     single(ValueDataTypeInteger),

	PropertyRequestStatus: single(ValueDataTypeText),
}

func lookupPropertySpec(name string) (propertySpec, bool) {
	s, ok := propertySpecs[Property(name)]
	return s, ok
}
