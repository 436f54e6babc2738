package vcf

import (
	"strconv"
	"strings"
)

// Type is the declared value type of an INFO or FORMAT field.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeInteger
	TypeFloat
	TypeFlag
	TypeCharacter
	TypeString
)

// ParseType maps a header Type attribute to its Type constant.
func ParseType(s string) (Type, bool) {
	switch s {
	case "Integer":
		return TypeInteger, true
	case "Float":
		return TypeFloat, true
	case "Flag":
		return TypeFlag, true
	case "Character":
		return TypeCharacter, true
	case "String":
		return TypeString, true
	}
	return TypeInvalid, false
}

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeFlag:
		return "Flag"
	case TypeCharacter:
		return "Character"
	case TypeString:
		return "String"
	}
	return "Invalid"
}

// Number sentinels for declarations whose value count depends on the
// record rather than being a fixed width. Non-negative values are exact
// counts.
const (
	NumberA   = -1 // one value per alternate allele
	NumberR   = -2 // one value per allele, reference included
	NumberG   = -3 // one value per possible genotype
	NumberDot = -4 // variable length
)

// ParseNumber maps a header Number attribute to its count or sentinel.
func ParseNumber(s string) (int, bool) {
	switch s {
	case "A":
		return NumberA, true
	case "R":
		return NumberR, true
	case "G":
		return NumberG, true
	case ".":
		return NumberDot, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatNumber renders a Number count or sentinel in header syntax.
func FormatNumber(n int) string {
	switch n {
	case NumberA:
		return "A"
	case NumberR:
		return "R"
	case NumberG:
		return "G"
	case NumberDot:
		return "."
	}
	return strconv.Itoa(n)
}

// Kind tags the concrete variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindInteger
	KindFloat
	KindString
	KindCharacter
	KindFlag
	KindList
)

// Value is one decoded INFO or sample field value. Values are produced
// fully typed at decode time and never left as raw strings. The zero
// Value is the missing value.
type Value struct {
	kind Kind
	num  int64
	fnum float64
	str  string
	list []Value
}

// MissingValue returns the missing value (written as ".").
func MissingValue() Value { return Value{} }

// IntValue returns an Integer value.
func IntValue(n int64) Value { return Value{kind: KindInteger, num: n} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, fnum: f} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// CharValue returns a Character value.
func CharValue(r rune) Value { return Value{kind: KindCharacter, num: int64(r)} }

// FlagValue returns a Flag value. A flag carries no payload; its
// presence in a field map asserts true.
func FlagValue() Value { return Value{kind: KindFlag} }

// ListValue returns a list value wrapping vs.
func ListValue(vs []Value) Value { return Value{kind: KindList, list: vs} }

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Int returns the integer payload. ok is false for any other kind.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.num, true
}

// Float returns the numeric payload as a float. Integer values convert.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.fnum, true
	case KindInteger:
		return float64(v.num), true
	}
	return 0, false
}

// Char returns the character payload.
func (v Value) Char() (rune, bool) {
	if v.kind != KindCharacter {
		return 0, false
	}
	return rune(v.num), true
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// List returns the element slice of a list value.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Ints flattens the value into integers. A scalar integer yields one
// element; a list must be all integers. ok is false otherwise.
func (v Value) Ints() ([]int64, bool) {
	switch v.kind {
	case KindInteger:
		return []int64{v.num}, true
	case KindList:
		out := make([]int64, len(v.list))
		for i, e := range v.list {
			n, ok := e.Int()
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

// String renders the value in VCF column syntax. Flags render as the
// empty string; encoders emit a flag as its bare key instead.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return formatFloat(v.fnum)
	case KindString:
		return v.str
	case KindCharacter:
		return string(rune(v.num))
	case KindFlag:
		return ""
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return strings.Join(parts, ",")
	}
	return "."
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
