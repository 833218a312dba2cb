package ics

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Phase names the pipeline stage that produced a diagnostic.
type Phase int

const (
	PhaseLex Phase = iota
	PhaseScan
	PhaseTree
	PhaseTyped
	PhaseSemantic
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseScan:
		return "scan"
	case PhaseTree:
		return "tree"
	case PhaseTyped:
		return "typed"
	case PhaseSemantic:
		return "semantic"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticKind classifies a diagnostic. The zero value is never produced.
type DiagnosticKind string

const (
	// Lexer.
	KindInvalidCharacter   DiagnosticKind = "InvalidCharacter"
	KindInvalidUTF8        DiagnosticKind = "InvalidUTF8"
	KindBareCarriageReturn DiagnosticKind = "BareCarriageReturn"
	// Scanner.
	KindMissingColon     DiagnosticKind = "MissingColon"
	KindEmptyLine        DiagnosticKind = "EmptyLine"
	KindMalformedLine    DiagnosticKind = "MalformedLine"
	KindInvalidParameter DiagnosticKind = "InvalidParameter"
	// Tree builder.
	KindMismatchedNesting      DiagnosticKind = "MismatchedNesting"
	KindUnmatchedBegin         DiagnosticKind = "UnmatchedBegin"
	KindUnmatchedEnd           DiagnosticKind = "UnmatchedEnd"
	KindBeginEndWithParameters DiagnosticKind = "BeginEndWithParameters"
	// Typed phase.
	KindPropertyUnexpectedKind    DiagnosticKind = "PropertyUnexpectedKind"
	KindPropertyInvalidValue      DiagnosticKind = "PropertyInvalidValue"
	KindPropertyInvalidValueCount DiagnosticKind = "PropertyInvalidValueCount"
	KindPropertyMissingValue      DiagnosticKind = "PropertyMissingValue"
	KindPropertyUnexpectedValue   DiagnosticKind = "PropertyUnexpectedValue"
	KindParameterDuplicated       DiagnosticKind = "ParameterDuplicated"
	KindParameterInvalidValue     DiagnosticKind = "ParameterInvalidValue"
	KindValueTypeDisallowed       DiagnosticKind = "ValueTypeDisallowed"
	// Environmental, reported from the typed phase as warnings.
	KindUnknownTimezone DiagnosticKind = "UnknownTimezone"
	KindLeapSecond      DiagnosticKind = "LeapSecond"
	// Semantic phase.
	KindMissingRequired      DiagnosticKind = "MissingRequired"
	KindDuplicateProperty    DiagnosticKind = "DuplicateProperty"
	KindMutuallyExclusive    DiagnosticKind = "MutuallyExclusive"
	KindInvalidNesting       DiagnosticKind = "InvalidNesting"
	KindInvalidPropertyValue DiagnosticKind = "InvalidPropertyValue"
	KindUnknownComponent     DiagnosticKind = "UnknownComponent"
)

// Diagnostic is a single problem found while parsing.
type Diagnostic struct {
	Kind     DiagnosticKind
	Phase    Phase
	Severity Severity
	Span     Span
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %s", d.Phase, d.Severity, d.Message)
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(phase Phase, severity Severity, kind DiagnosticKind, span Span, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Kind:     kind,
		Phase:    phase,
		Severity: severity,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(SeverityError)
}

func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var r Diagnostics
	for _, d := range ds {
		if d.Severity == s {
			r = append(r, d)
		}
	}
	return r
}

// Sort orders diagnostics by span start, keeping the emission order of
// diagnostics that start at the same offset.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Span.Start < ds[j].Span.Start
	})
}

// Err returns nil when there are no error diagnostics, otherwise a *ParseError
// holding them.
func (ds Diagnostics) Err() error {
	errs := ds.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &ParseError{Diagnostics: errs}
}

// Render writes one "line:col-line:col: severity: message" line per
// diagnostic, computing positions from src.
func (ds Diagnostics) Render(w io.Writer, src string) error {
	li := NewLineIndex(src)
	for _, d := range ds {
		if _, err := fmt.Fprintf(w, "%s: %s: %s\n", li.FormatSpan(d.Span), d.Severity, d.Message); err != nil {
			return err
		}
	}
	return nil
}

// ParseError reports the error diagnostics of a parse.
type ParseError struct {
	Diagnostics Diagnostics
}

func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return fmt.Sprintf("%d errors: %s", len(e.Diagnostics), strings.Join(msgs, "; "))
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		errs = append(errs, d)
	}
	return errs
}
