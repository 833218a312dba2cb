package ics

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Value is one parsed property value.
type Value interface {
	Type() ValueDataType
}

// Binary is inline data carried as BASE64 (section 3.3.1).
type Binary []byte

func (Binary) Type() ValueDataType { return ValueDataTypeBinary }

func (b Binary) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

type Boolean bool

func (Boolean) Type() ValueDataType { return ValueDataTypeBoolean }

func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// CalAddress is a calendar user address, usually a mailto: URI (section 3.3.3).
type CalAddress string

func (CalAddress) Type() ValueDataType { return ValueDataTypeCalAddress }

// Email returns the address without a mailto: scheme.
func (a CalAddress) Email() string {
	s := string(a)
	if len(s) > 7 && strings.EqualFold(s[:7], "mailto:") {
		return s[7:]
	}
	return s
}

type URI string

func (URI) Type() ValueDataType { return ValueDataTypeUri }

type Integer int

func (Integer) Type() ValueDataType { return ValueDataTypeInteger }

type Float float64

func (Float) Type() ValueDataType { return ValueDataTypeFloat }

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// TextValue is an unescaped TEXT value.
type TextValue string

func (TextValue) Type() ValueDataType { return ValueDataTypeText }

// UTCOffset is a signed offset from UTC (section 3.3.14).
type UTCOffset struct {
	Negative bool
	Hours    int
	Minutes  int
	Seconds  int
}

func (UTCOffset) Type() ValueDataType { return ValueDataTypeUtcOffset }

// NewUTCOffset builds an offset from a number of seconds east of UTC.
func NewUTCOffset(seconds int) UTCOffset {
	o := UTCOffset{}
	if seconds < 0 {
		o.Negative = true
		seconds = -seconds
	}
	o.Hours = seconds / 3600
	o.Minutes = seconds / 60 % 60
	o.Seconds = seconds % 60
	return o
}

// TotalSeconds is the signed offset in seconds.
func (o UTCOffset) TotalSeconds() int {
	s := o.Hours*3600 + o.Minutes*60 + o.Seconds
	if o.Negative {
		return -s
	}
	return s
}

func (o UTCOffset) String() string {
	sign := '+'
	if o.Negative {
		sign = '-'
	}
	if o.Seconds != 0 {
		return fmt.Sprintf("%c%02d%02d%02d", sign, o.Hours, o.Minutes, o.Seconds)
	}
	return fmt.Sprintf("%c%02d%02d", sign, o.Hours, o.Minutes)
}

// Geo is the GEO property value: latitude and longitude as two FLOATs.
type Geo struct {
	Latitude  float64
	Longitude float64
}

func (Geo) Type() ValueDataType { return ValueDataTypeFloat }

func (g Geo) String() string {
	return Float(g.Latitude).String() + ";" + Float(g.Longitude).String()
}

// RequestStatus is the REQUEST-STATUS value: a status code, a description
// and optional exception data (section 3.8.8.3).
type RequestStatus struct {
	Code        string
	Description string
	Data        string
}

func (RequestStatus) Type() ValueDataType { return ValueDataTypeText }

func (r RequestStatus) String() string {
	s := r.Code + ";" + ToText(r.Description)
	if r.Data != "" {
		s += ";" + ToText(r.Data)
	}
	return s
}

// ValueError reports where a value stopped matching its grammar. Offsets
// index the unfolded value text.
type ValueError struct {
	Type     ValueDataType
	Offset   int
	End      int
	Expected string
	Found    string
}

func (e *ValueError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("invalid %s value: expected %s at offset %d", e.Type, e.Expected, e.Offset)
	}
	return fmt.Sprintf("invalid %s value: expected %s, found %q", e.Type, e.Expected, e.Found)
}

// valueParser is a cursor over one value string.
type valueParser struct {
	typ    ValueDataType
	data   string
	offset int
}

func newValueParser(typ ValueDataType, data string) *valueParser {
	return &valueParser{typ: typ, data: data}
}

func (p *valueParser) eof() bool {
	return p.offset >= len(p.data)
}

func (p *valueParser) peek() byte {
	if p.offset >= len(p.data) {
		return 0
	}
	return p.data[p.offset]
}

func (p *valueParser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.offset++
		return true
	}
	return false
}

// consumeFold consumes c in either case.
func (p *valueParser) consumeFold(c byte) bool {
	if !p.eof() && (p.data[p.offset]|0x20) == (c|0x20) {
		p.offset++
		return true
	}
	return false
}

func (p *valueParser) errorf(expected string, args ...any) *ValueError {
	return p.errorAt(p.offset, p.offset+1, expected, args...)
}

func (p *valueParser) errorAt(start, end int, expected string, args ...any) *ValueError {
	if end > len(p.data) {
		end = len(p.data)
	}
	if start > end {
		start = end
	}
	return &ValueError{
		Type:     p.typ,
		Offset:   start,
		End:      end,
		Expected: fmt.Sprintf(expected, args...),
		Found:    p.data[start:end],
	}
}

// digits reads exactly n ASCII digits.
func (p *valueParser) digits(n int) (int, error) {
	if p.offset+n > len(p.data) {
		return 0, p.errorAt(p.offset, len(p.data), "%d digits", n)
	}
	v := 0
	for i := 0; i < n; i++ {
		c := p.data[p.offset+i]
		if c < '0' || c > '9' {
			return 0, p.errorAt(p.offset+i, p.offset+i+1, "digit")
		}
		v = v*10 + int(c-'0')
	}
	p.offset += n
	return v, nil
}

// number reads one or more ASCII digits.
func (p *valueParser) number() (int, error) {
	start := p.offset
	for !p.eof() && p.data[p.offset] >= '0' && p.data[p.offset] <= '9' {
		p.offset++
	}
	if p.offset == start {
		return 0, p.errorf("digit")
	}
	v, err := strconv.Atoi(p.data[start:p.offset])
	if err != nil {
		return 0, p.errorAt(start, p.offset, "number in range")
	}
	return v, nil
}

// sign reads an optional "+" or "-" and reports whether it was "-".
func (p *valueParser) sign() bool {
	if p.consume('-') {
		return true
	}
	p.consume('+')
	return false
}

func (p *valueParser) end() error {
	if !p.eof() {
		return p.errorAt(p.offset, len(p.data), "end of value")
	}
	return nil
}

func ParseInteger(s string) (Integer, error) {
	p := newValueParser(ValueDataTypeInteger, s)
	neg := p.sign()
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	if err := p.end(); err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return Integer(n), nil
}

// ParseFloat accepts ["+"/"-"] 1*DIGIT ["." 1*DIGIT].
func ParseFloat(s string) (Float, error) {
	p := newValueParser(ValueDataTypeFloat, s)
	p.sign()
	if _, err := p.number(); err != nil {
		return 0, err
	}
	if p.consume('.') {
		if _, err := p.number(); err != nil {
			return 0, err
		}
	}
	if err := p.end(); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, p.errorAt(0, len(s), "float")
	}
	return Float(f), nil
}

func ParseBoolean(s string) (Boolean, error) {
	switch {
	case strings.EqualFold(s, "TRUE"):
		return true, nil
	case strings.EqualFold(s, "FALSE"):
		return false, nil
	}
	return false, newValueParser(ValueDataTypeBoolean, s).errorAt(0, len(s), "TRUE or FALSE")
}

// ParseUTCOffset parses ("+" / "-") HHMM [SS]. "-0000" is not a valid
// offset.
func ParseUTCOffset(s string) (UTCOffset, error) {
	p := newValueParser(ValueDataTypeUtcOffset, s)
	var o UTCOffset
	switch {
	case p.consume('+'):
	case p.consume('-'):
		o.Negative = true
	default:
		return o, p.errorf("'+' or '-'")
	}
	var err error
	start := p.offset
	if o.Hours, err = p.digits(2); err != nil {
		return o, err
	}
	if o.Hours > 23 {
		return o, p.errorAt(start, p.offset, "hour 00-23")
	}
	start = p.offset
	if o.Minutes, err = p.digits(2); err != nil {
		return o, err
	}
	if o.Minutes > 59 {
		return o, p.errorAt(start, p.offset, "minute 00-59")
	}
	if !p.eof() {
		start = p.offset
		if o.Seconds, err = p.digits(2); err != nil {
			return o, err
		}
		if o.Seconds > 59 {
			return o, p.errorAt(start, p.offset, "second 00-59")
		}
	}
	if err := p.end(); err != nil {
		return o, err
	}
	if o.Negative && o.TotalSeconds() == 0 {
		return o, p.errorAt(0, len(s), "non-negative zero offset")
	}
	return o, nil
}

func ParseBinary(s string) (Binary, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		off := 0
		if e, ok := err.(base64.CorruptInputError); ok {
			off = int(e)
		}
		return nil, newValueParser(ValueDataTypeBinary, s).errorAt(off, off+1, "base64")
	}
	return b, nil
}

// ParseGeo parses "float;float".
func ParseGeo(s string) (Geo, error) {
	i := strings.IndexByte(s, ';')
	if i < 0 {
		return Geo{}, newValueParser(ValueDataTypeFloat, s).errorAt(len(s), len(s), "';'")
	}
	lat, err := ParseFloat(s[:i])
	if err != nil {
		return Geo{}, err
	}
	lon, err := ParseFloat(s[i+1:])
	if err != nil {
		if ve, ok := err.(*ValueError); ok {
			ve.Offset += i + 1
			ve.End += i + 1
		}
		return Geo{}, err
	}
	return Geo{Latitude: float64(lat), Longitude: float64(lon)}, nil
}

// ParseRequestStatus splits statcode ";" text [";" text] on unescaped
// semicolons.
func ParseRequestStatus(s string) (RequestStatus, error) {
	parts := splitUnescaped(s, ';')
	if len(parts) < 2 || len(parts) > 3 {
		return RequestStatus{}, newValueParser(ValueDataTypeText, s).errorAt(0, len(s), "statcode;description[;data]")
	}
	code := parts[0]
	p := newValueParser(ValueDataTypeText, code)
	for i := 0; ; i++ {
		if _, err := p.number(); err != nil {
			return RequestStatus{}, err
		}
		if i >= 2 || !p.consume('.') {
			break
		}
	}
	if err := p.end(); err != nil {
		return RequestStatus{}, err
	}
	rs := RequestStatus{Code: code, Description: FromText(parts[1])}
	if len(parts) == 3 {
		rs.Data = FromText(parts[2])
	}
	return rs, nil
}
