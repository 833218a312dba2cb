package ics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineWriter writes content lines, folding each one once it is complete.
// The first write error is kept and later writes are skipped.
type lineWriter struct {
	w   io.Writer
	cfg *SerializationConfiguration
	err error
}

func newLineWriter(w io.Writer, cfg *SerializationConfiguration) *lineWriter {
	return &lineWriter{w: w, cfg: cfg}
}

func (lw *lineWriter) write(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s)
}

// line folds l so that no physical line exceeds MaxLength octets, never
// splitting a UTF-8 sequence. Continuation lines start with one space.
func (lw *lineWriter) line(l string) {
	max := lw.cfg.MaxLength
	n := foldPoint(max, l)
	lw.write(l[:n])
	lw.write(lw.cfg.NewLine)
	for l = l[n:]; len(l) > 0; l = l[n:] {
		n = foldPoint(max-1, l)
		lw.write(" ")
		lw.write(l[:n])
		lw.write(lw.cfg.NewLine)
	}
}

// foldPoint is the length of the longest prefix of s that fits in max
// octets and ends on a rune boundary.
func foldPoint(max int, s string) int {
	if len(s) <= max {
		return len(s)
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	if n == 0 {
		// Not reachable for valid UTF-8 and max >= 4.
		n = max
	}
	return n
}

func (lw *lineWriter) begin(name string) {
	lw.line(string(PropertyBegin) + ":" + name)
}

func (lw *lineWriter) end(name string) {
	lw.line(string(PropertyEnd) + ":" + name)
}

func (lw *lineWriter) property(p *TypedProperty) {
	lw.line(p.contentLine())
}

func (lw *lineWriter) properties(ps []TypedProperty) {
	for i := range ps {
		lw.property(&ps[i])
	}
}

// contentLine renders the property as one unfolded line without the line
// terminator.
func (p *TypedProperty) contentLine() string {
	b := strings.Builder{}
	b.WriteString(p.Name)
	for _, param := range p.AllParameters() {
		b.WriteByte(';')
		b.WriteString(param.Name)
		b.WriteByte('=')
		for vi, v := range param.Values {
			if vi > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatParameterValue(param.Name, v))
		}
	}
	b.WriteByte(':')
	b.WriteString(p.valueText())
	return b.String()
}

// formatParameterValue applies RFC 6868 encoding and quotes the value when
// it holds a delimiter or whitespace. URI and cal-address parameters are
// always quoted as section 3.2 requires.
func formatParameterValue(name, v string) string {
	v = encodeParameterValue(v)
	quote := strings.ContainsAny(v, ":;,") || strings.IndexFunc(v, unicode.IsSpace) >= 0
	if spec, ok := parameterSpecs[Parameter(name)]; ok && spec.shape != shapeToken {
		quote = true
	}
	if quote {
		return `"` + v + `"`
	}
	return v
}

// valueText is the escaped value. Properties that were not typed write their
// raw text back unchanged.
func (p *TypedProperty) valueText() string {
	if p.Values == nil {
		return p.Raw
	}
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ",")
}

func formatValue(v Value) string {
	switch v := v.(type) {
	case TextValue:
		return ToText(string(v))
	case CalAddress:
		return string(v)
	case URI:
		return string(v)
	case Integer:
		return strconv.Itoa(int(v))
	case fmt.Stringer:
		return v.String()
	}
	return ""
}
