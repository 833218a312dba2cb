package ics

import "fmt"

// ParameterErrorKind refines an InvalidParameter line error.
type ParameterErrorKind int

const (
	ParameterMissingEquals ParameterErrorKind = iota + 1
	ParameterMissingValue
	ParameterEmptyName
	ParameterUnterminatedQuote
)

func (k ParameterErrorKind) String() string {
	switch k {
	case ParameterMissingEquals:
		return "missing equals in parameter"
	case ParameterMissingValue:
		return "missing parameter value"
	case ParameterEmptyName:
		return "empty parameter name"
	case ParameterUnterminatedQuote:
		return "unterminated quoted string"
	}
	return fmt.Sprintf("ParameterErrorKind(%d)", int(k))
}

// LineError marks a content line the scanner could not read completely.
type LineError struct {
	Kind      DiagnosticKind
	Parameter ParameterErrorKind
	// Found describes the token seen where a colon was expected, empty at end
	// of input.
	Found   string
	Span    Span
	Message string
}

func (e *LineError) Error() string {
	return e.Message
}

// ScannedParameterValue is one comma separated value of a parameter. Quotes are not
// part of Value.
type ScannedParameterValue struct {
	Value  Segments
	Quoted bool
	Span   Span
}

type ScannedParameter struct {
	Name   Segments
	Values []ScannedParameterValue
	Span   Span
}

// ContentLine is one logical line: name *(";" param) ":" value.
type ContentLine struct {
	Name       Segments
	Parameters []ScannedParameter
	Value      Segments
	Span       Span
	Err        *LineError
}

type scanner struct {
	src    string
	tokens []Token
	pos    int
}

// Scan groups tokens into content lines. Lines that cannot be read are kept
// with Err set; the scanner resynchronises on the next newline.
func Scan(src string, tokens []Token) ([]ContentLine, Diagnostics) {
	s := &scanner{src: src, tokens: tokens}
	var lines []ContentLine
	var diags Diagnostics
	for s.pos < len(s.tokens) {
		line := s.line()
		if line.Err != nil {
			diags.add(PhaseScan, SeverityError, line.Err.Kind, line.Err.Span, "%s", line.Err.Message)
		}
		lines = append(lines, line)
	}
	return lines, diags
}

func (s *scanner) peek() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *scanner) next() (Token, bool) {
	t, ok := s.peek()
	if ok {
		s.pos++
	}
	return t, ok
}

// skipLine consumes tokens through the next newline and returns the end
// offset of the last consumed token.
func (s *scanner) skipLine(end int) int {
	for {
		t, ok := s.next()
		if !ok {
			return end
		}
		end = t.Span.End
		if t.Kind == TokenNewline {
			return end
		}
	}
}

func (s *scanner) line() ContentLine {
	first, _ := s.peek()
	start := first.Span.Start
	if first.Kind == TokenNewline {
		s.pos++
		return ContentLine{
			Span: first.Span,
			Err:  &LineError{Kind: KindEmptyLine, Span: first.Span, Message: "empty content line"},
		}
	}

	var line ContentLine
	for t, ok := s.peek(); ok && t.Kind == TokenWord; t, ok = s.peek() {
		line.Name = line.Name.extend(s.src, t.Span)
		s.pos++
	}
	if line.Name.IsEmpty() {
		end := s.skipLine(start)
		line.Span = Span{Start: start, End: end}
		line.Err = &LineError{Kind: KindMalformedLine, Span: first.Span, Message: fmt.Sprintf("expected property name, found %s", first.Kind)}
		return line
	}

	for t, ok := s.peek(); ok && t.Kind == TokenSemicolon; t, ok = s.peek() {
		s.pos++
		param, kind := s.parameter()
		if kind != 0 {
			end := s.skipLine(t.Span.End)
			line.Span = Span{Start: start, End: end}
			line.Err = &LineError{Kind: KindInvalidParameter, Parameter: kind, Span: t.Span, Message: kind.String()}
			return line
		}
		line.Parameters = append(line.Parameters, param)
	}

	t, ok := s.peek()
	switch {
	case !ok:
		at := line.Name.Span().End
		if n := len(line.Parameters); n > 0 {
			at = line.Parameters[n-1].Span.End
		}
		line.Span = Span{Start: start, End: at}
		line.Err = &LineError{Kind: KindMissingColon, Span: Span{Start: at, End: at}, Message: "missing colon in property: unexpected end of input"}
		return line
	case t.Kind != TokenColon:
		end := s.skipLine(t.Span.End)
		line.Span = Span{Start: start, End: end}
		line.Err = &LineError{
			Kind:    KindMissingColon,
			Found:   t.Kind.String(),
			Span:    t.Span,
			Message: fmt.Sprintf("missing colon in property: found %s", t.Kind),
		}
		return line
	}
	s.pos++
	end := t.Span.End

	for t, ok := s.next(); ok; t, ok = s.next() {
		end = t.Span.End
		if t.Kind == TokenNewline {
			break
		}
		if t.Kind != TokenError {
			line.Value = line.Value.extend(s.src, t.Span)
		}
	}
	line.Span = Span{Start: start, End: end}
	return line
}

func (s *scanner) parameter() (ScannedParameter, ParameterErrorKind) {
	var p ScannedParameter
	first, ok := s.peek()
	if !ok {
		return p, ParameterEmptyName
	}
	for t, ok := s.peek(); ok && t.Kind == TokenWord; t, ok = s.peek() {
		p.Name = p.Name.extend(s.src, t.Span)
		s.pos++
	}
	if p.Name.IsEmpty() {
		return p, ParameterEmptyName
	}
	if t, ok := s.next(); !ok || t.Kind != TokenEqual {
		if ok {
			s.pos--
		}
		return p, ParameterMissingEquals
	}
	for {
		v, present, kind := s.parameterValue()
		if kind != 0 {
			return p, kind
		}
		if !present {
			break
		}
		p.Values = append(p.Values, v)
		if t, ok := s.peek(); !ok || t.Kind != TokenComma {
			break
		}
		s.pos++
	}
	if len(p.Values) == 0 {
		return p, ParameterMissingValue
	}
	p.Span = Span{Start: first.Span.Start, End: p.Values[len(p.Values)-1].Span.End}
	return p, 0
}

func (s *scanner) parameterValue() (ScannedParameterValue, bool, ParameterErrorKind) {
	var v ScannedParameterValue
	first, ok := s.peek()
	if !ok {
		return v, false, 0
	}
	if first.Kind == TokenDQuote {
		s.pos++
		v.Quoted = true
		for {
			t, ok := s.peek()
			if !ok || t.Kind == TokenNewline {
				return v, false, ParameterUnterminatedQuote
			}
			s.pos++
			if t.Kind == TokenDQuote {
				v.Span = Span{Start: first.Span.Start, End: t.Span.End}
				return v, true, 0
			}
			if t.Kind != TokenError {
				v.Value = v.Value.extend(s.src, t.Span)
			}
		}
	}
	end := first.Span.Start
loop:
	for t, ok := s.peek(); ok; t, ok = s.peek() {
		switch t.Kind {
		case TokenSemicolon, TokenColon, TokenComma, TokenEqual, TokenNewline:
			break loop
		}
		s.pos++
		end = t.Span.End
		if t.Kind != TokenError {
			v.Value = v.Value.extend(s.src, t.Span)
		}
	}
	if end == first.Span.Start {
		return v, false, 0
	}
	v.Span = Span{Start: first.Span.Start, End: end}
	return v, true, 0
}
