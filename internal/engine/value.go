package engine

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a single record cell: null, text or number.
type Value struct {
	kind Kind
	text string
	num  float64
}

func Null() Value              { return Value{} }
func Text(s string) Value      { return Value{kind: KindText, text: s} }
func Number(f float64) Value   { return Value{kind: KindNumber, num: f} }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) Float() float64 { return v.num }

// String returns the display text. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StrictEqual reports whether v is text and equal to s. Numbers and nulls
// never match a text selection.
func StrictEqual(v Value, s string) bool {
	return v.kind == KindText && v.text == s
}

// LooseEqual compares v against a selection that arrives as text from a
// control. Numeric values compare numerically, so 6 matches "6" and "6.0".
func LooseEqual(v Value, s string) bool {
	switch v.kind {
	case KindNumber:
		f, ok := parseNumber(s)
		return ok && f == v.num
	case KindText:
		return v.text == s
	default:
		return false
	}
}

// parseNumber converts control text into a number, ignoring surrounding
// whitespace. Blank input is not a number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Compare orders two values: numerically when both are numbers, otherwise
// by lower-cased display text. It returns -1, 0 or 1.
func Compare(a, b Value) int {
	if a.kind == KindNumber && b.kind == KindNumber {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
}

// cellNumber reports whether a raw cell reads as a number. Padded text
// such as " 16" does not.
func cellNumber(s string) (float64, bool) {
	if strings.TrimSpace(s) != s {
		return 0, false
	}
	return parseNumber(s)
}
