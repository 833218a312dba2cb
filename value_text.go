package ics

import "strings"

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\r\n", `\n`,
	"\n", `\n`,
	`;`, `\;`,
	`,`, `\,`,
)

// ToText escapes s for use as a TEXT value (section 3.3.11).
func ToText(s string) string {
	return textEscaper.Replace(s)
}

var textUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\N`, "\n",
	`\;`, `;`,
	`\,`, `,`,
)

// FromText reverses ToText. Unknown escapes are left as they are.
func FromText(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	return textUnescaper.Replace(s)
}

// splitUnescaped splits s on sep bytes that are not escaped by a backslash.
// The parts keep their escapes.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// textRange is one comma separated TEXT value and its offsets in the raw
// value.
type textRange struct {
	Text  TextValue
	Start int
	End   int
}

// ParseText unescapes a TEXT value. When multiple is set the value is split
// on unescaped commas first.
func ParseText(s string, multiple bool) []TextValue {
	ranges := parseTextRanges(s, multiple)
	vs := make([]TextValue, 0, len(ranges))
	for _, r := range ranges {
		vs = append(vs, r.Text)
	}
	return vs
}

func parseTextRanges(s string, split bool) []textRange {
	if !split {
		return []textRange{{Text: TextValue(FromText(s)), End: len(s)}}
	}
	var rs []textRange
	start := 0
	for _, part := range splitUnescaped(s, ',') {
		rs = append(rs, textRange{Text: TextValue(FromText(part)), Start: start, End: start + len(part)})
		start += len(part) + 1
	}
	return rs
}
