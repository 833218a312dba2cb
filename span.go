package ics

import (
	"fmt"
	"sort"
	"strings"
)

// Span is a byte range [Start, End) into the parsed source. Nodes of an owned
// tree (see ICalendar.Owned) carry the zero Span.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Contains reports whether o lies inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Join returns the smallest span covering both s and o. A zero span is
// treated as absent.
func (s Span) Join(o Span) Span {
	switch {
	case s.IsZero():
		return o
	case o.IsZero():
		return s
	}
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Segment is a slice of the source together with its location. Text always
// aliases the source string.
type Segment struct {
	Text string
	Span Span
}

// Segments is the borrowed representation of a logical string. A value that
// was folded across physical lines is made of more than one segment.
type Segments []Segment

// String resolves the segments into one string. A single segment is returned
// without copying.
func (s Segments) String() string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return s[0].Text
	}
	b := strings.Builder{}
	b.Grow(s.Len())
	for _, seg := range s {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Len is the byte length of the resolved string.
func (s Segments) Len() int {
	n := 0
	for _, seg := range s {
		n += len(seg.Text)
	}
	return n
}

func (s Segments) IsEmpty() bool {
	return s.Len() == 0
}

// Span covers the first through the last segment.
func (s Segments) Span() Span {
	if len(s) == 0 {
		return Span{}
	}
	return Span{Start: s[0].Span.Start, End: s[len(s)-1].Span.End}
}

// EqualFold compares the resolved string with t, ignoring ASCII case, without
// resolving the segments.
func (s Segments) EqualFold(t string) bool {
	if s.Len() != len(t) {
		return false
	}
	p := 0
	for _, seg := range s {
		if !strings.EqualFold(seg.Text, t[p:p+len(seg.Text)]) {
			return false
		}
		p += len(seg.Text)
	}
	return true
}

// HasPrefixFold reports whether the resolved string starts with prefix,
// ignoring ASCII case.
func (s Segments) HasPrefixFold(prefix string) bool {
	if s.Len() < len(prefix) {
		return false
	}
	v := s.String()
	return strings.EqualFold(v[:len(prefix)], prefix)
}

// Owned returns a single segment holding a private copy of the text and no
// span.
func (s Segments) Owned() Segments {
	if len(s) == 0 {
		return nil
	}
	return Segments{{Text: strings.Clone(s.String())}}
}

// extend appends the source range span, merging it into the previous segment
// when the two are contiguous in src.
func (s Segments) extend(src string, span Span) Segments {
	if span.Len() == 0 {
		return s
	}
	if n := len(s); n > 0 && s[n-1].Span.End == span.Start {
		last := s[n-1].Span
		s[n-1] = Segment{Text: src[last.Start:span.End], Span: Span{Start: last.Start, End: span.End}}
		return s
	}
	return append(s, Segment{Text: src[span.Start:span.End], Span: span})
}

// Position is a 1-based line and column. Columns count bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex maps byte offsets of a source to line and column positions. Both
// CRLF and LF terminate a physical line.
type LineIndex struct {
	starts []int
	size   int
}

func NewLineIndex(src string) *LineIndex {
	li := &LineIndex{starts: []int{0}, size: len(src)}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			li.starts = append(li.starts, i+1)
		}
	}
	return li
}

// Position returns the position of offset. Offsets outside the source are
// clamped.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1
	return Position{Line: line + 1, Column: offset - li.starts[line] + 1}
}

// FormatSpan renders span as "line:col-line:col".
func (li *LineIndex) FormatSpan(span Span) string {
	return li.Position(span.Start).String() + "-" + li.Position(span.End).String()
}

// sourceOffset maps an offset into the resolved string back to the source.
// An offset that falls on a segment boundary maps to the end of the earlier
// segment when end is set, otherwise to the start of the later one.
func (s Segments) sourceOffset(off int, end bool) int {
	p := 0
	for i, seg := range s {
		n := len(seg.Text)
		if off < p+n || (end && off == p+n) || i == len(s)-1 {
			if off-p > n {
				return seg.Span.End
			}
			return seg.Span.Start + off - p
		}
		p += n
	}
	return 0
}

// subSpan returns the source span of the resolved range [from, to).
func (s Segments) subSpan(from, to int) Span {
	if len(s) == 0 {
		return Span{}
	}
	if to <= from {
		o := s.sourceOffset(from, false)
		return Span{Start: o, End: o}
	}
	return Span{Start: s.sourceOffset(from, false), End: s.sourceOffset(to, true)}
}
