package ics

import (
	"strings"

	"golang.org/x/text/language"
)

// TypedParameter is a parameter with an upper-case name and decoded values.
type TypedParameter struct {
	Name   string
	Values []string
	Span   Span
}

// NewParameter builds a parameter for a property built in code.
func NewParameter(name Parameter, values ...string) TypedParameter {
	return TypedParameter{Name: string(name), Values: values}
}

// Value is the first value, or "" when there is none.
func (p TypedParameter) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// Owned copies the parameter and clears its span.
func (p TypedParameter) Owned() TypedParameter {
	vs := make([]string, len(p.Values))
	for i, v := range p.Values {
		vs[i] = strings.Clone(v)
	}
	return TypedParameter{Name: strings.Clone(p.Name), Values: vs}
}

type parameterShape int

const (
	// single unquoted token
	shapeToken parameterShape = iota
	// single URI, quoted on output
	shapeURI
	// comma separated list of quoted cal-addresses
	shapeAddressList
)

type parameterSpec struct {
	shape parameterShape
	// values is the closed set of legal values, nil when open.
	values []string
}

var parameterSpecs = map[Parameter]parameterSpec{
	ParameterAltrep:              {shape: shapeURI},
	ParameterCn:                  {shape: shapeToken},
	ParameterCutype:              {shape: shapeToken},
	ParameterDelegatedFrom:       {shape: shapeAddressList},
	ParameterDelegatedTo:         {shape: shapeAddressList},
	ParameterDir:                 {shape: shapeURI},
	ParameterEncoding:            {shape: shapeToken, values: []string{"8BIT", "BASE64"}},
	ParameterFmttype:             {shape: shapeToken},
	ParameterFbtype:              {shape: shapeToken},
	ParameterLanguage:            {shape: shapeToken},
	ParameterMember:              {shape: shapeAddressList},
	ParameterParticipationStatus: {shape: shapeToken},
	ParameterRange:               {shape: shapeToken, values: []string{"THISANDFUTURE", "THISANDPRIOR"}},
	ParameterRelated:             {shape: shapeToken, values: []string{"START", "END"}},
	ParameterReltype:             {shape: shapeToken},
	ParameterRole:                {shape: shapeToken},
	ParameterRsvp:                {shape: shapeToken, values: []string{"TRUE", "FALSE"}},
	ParameterSentBy:              {shape: shapeURI},
	ParameterTzid:                {shape: shapeToken},
	ParameterValue:               {shape: shapeToken},
}

// IsKnownParameter reports whether name is a parameter defined by RFC 5545.
func IsKnownParameter(name string) bool {
	_, ok := parameterSpecs[Parameter(strings.ToUpper(name))]
	return ok
}

// parameterBuckets holds the parameters of one property split by kind.
type parameterBuckets struct {
	Known    []TypedParameter
	X        []TypedParameter
	Retained []TypedParameter
}

func (b parameterBuckets) get(name Parameter) (TypedParameter, bool) {
	if i := b.index(string(name)); i >= 0 {
		return b.Known[i], true
	}
	return TypedParameter{}, false
}

func (b parameterBuckets) index(name string) int {
	for i, p := range b.Known {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// typeParameters converts scanned parameters. With validate set, known
// parameters are checked against their shape and value set; a failure is an
// error diagnostic and ok is false. A single-valued known parameter may appear
// once per property. MEMBER, DELEGATED-TO and DELEGATED-FROM may repeat and
// their values are merged. X- and unrecognised parameters may always repeat.
func typeParameters(params []ScannedParameter, validate bool, diags *Diagnostics) (b parameterBuckets, ok bool) {
	ok = true
	seen := map[string]bool{}
	for _, sp := range params {
		tp := TypedParameter{
			Name: strings.ToUpper(sp.Name.String()),
			Span: sp.Span,
		}
		for _, v := range sp.Values {
			tp.Values = append(tp.Values, decodeParameterValue(v.Value.String()))
		}
		spec, known := parameterSpecs[Parameter(tp.Name)]
		switch {
		case known && spec.shape == shapeAddressList && b.index(tp.Name) >= 0:
			// Repeated address lists merge into the first occurrence.
			i := b.index(tp.Name)
			b.Known[i].Values = append(b.Known[i].Values, tp.Values...)
			b.Known[i].Span = b.Known[i].Span.Join(tp.Span)
			continue
		case known:
			b.Known = append(b.Known, tp)
		case isXName(tp.Name):
			b.X = append(b.X, tp)
			continue
		default:
			b.Retained = append(b.Retained, tp)
			continue
		}
		if !validate {
			continue
		}
		if seen[tp.Name] {
			diags.add(PhaseTyped, SeverityError, KindParameterDuplicated, sp.Span, "parameter %s appears more than once", tp.Name)
			ok = false
			continue
		}
		seen[tp.Name] = true
		if spec.shape != shapeAddressList && len(tp.Values) > 1 {
			diags.add(PhaseTyped, SeverityError, KindParameterInvalidValue, sp.Span, "parameter %s takes a single value, found %d", tp.Name, len(tp.Values))
			ok = false
			continue
		}
		if spec.values != nil && !containsFold(spec.values, tp.Value()) {
			diags.add(PhaseTyped, SeverityError, KindParameterInvalidValue, sp.Span, "invalid %s parameter value %q, expected one of %s", tp.Name, tp.Value(), strings.Join(spec.values, ", "))
			ok = false
			continue
		}
		if tp.Name == string(ParameterLanguage) {
			if _, err := language.Parse(tp.Value()); err != nil {
				diags.add(PhaseTyped, SeverityWarning, KindParameterInvalidValue, sp.Span, "LANGUAGE parameter %q is not a valid language tag", tp.Value())
			}
		}
	}
	return b, ok
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// decodeParameterValue applies RFC 6868 caret decoding.
func decodeParameterValue(s string) string {
	if strings.IndexByte(s, '^') < 0 {
		return s
	}
	b := strings.Builder{}
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '^' && i+1 < len(s) {
			switch s[i+1] {
			case 'n', 'N':
				b.WriteByte('\n')
				i++
				continue
			case '^':
				b.WriteByte('^')
				i++
				continue
			case '\'':
				b.WriteByte('"')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var parameterEncoder = strings.NewReplacer(
	"^", "^^",
	"\r\n", "^n",
	"\n", "^n",
	`"`, "^'",
)

// encodeParameterValue applies RFC 6868 caret encoding.
func encodeParameterValue(s string) string {
	return parameterEncoder.Replace(s)
}
