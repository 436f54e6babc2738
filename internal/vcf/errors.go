package vcf

import (
	"errors"
	"fmt"
)

// MalformedHeaderError reports a structural problem in the header
// block. Header errors are fatal: without a schema no data line can be
// interpreted.
type MalformedHeaderError struct {
	Line    int
	Message string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header at line %d: %s", e.Line, e.Message)
}

// MalformedRecordError reports a data line whose structure is wrong,
// such as a bad column count or an unparseable fixed column.
type MalformedRecordError struct {
	Line    int
	Message string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Message)
}

// UnknownFieldError reports an INFO or FORMAT key, or a symbolic ALT
// ID, with no matching header declaration.
type UnknownFieldError struct {
	Line     int
	Category Category
	ID       string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("line %d: %s %q is not declared in the header", e.Line, e.Category, e.ID)
}

// UnknownFilterError reports a FILTER label with no ##FILTER
// declaration.
type UnknownFilterError struct {
	Line   int
	Filter string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("line %d: filter %q is not declared in the header", e.Line, e.Filter)
}

// TypeMismatchError reports a value that does not parse under its
// declared type.
type TypeMismatchError struct {
	Line  int
	Field string
	Value string
	Want  Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("line %d: %s value %q is not a valid %s", e.Line, e.Field, e.Value, e.Want)
}

// InvalidBreakendError reports an ALT token that uses bracket notation
// but matches none of the four breakend patterns. Line is zero when the
// token was parsed outside a stream.
type InvalidBreakendError struct {
	Line   int
	Token  string
	Reason string
}

func (e *InvalidBreakendError) Error() string {
	return fmt.Sprintf("line %d: invalid breakend %q: %s", e.Line, e.Token, e.Reason)
}

// LineOf returns the 1-based input line an error refers to, or zero when
// the error carries no line context.
func LineOf(err error) int {
	var (
		mh *MalformedHeaderError
		mr *MalformedRecordError
		uf *UnknownFieldError
		ul *UnknownFilterError
		tm *TypeMismatchError
		ib *InvalidBreakendError
	)
	switch {
	case errors.As(err, &mh):
		return mh.Line
	case errors.As(err, &mr):
		return mr.Line
	case errors.As(err, &uf):
		return uf.Line
	case errors.As(err, &ul):
		return ul.Line
	case errors.As(err, &tm):
		return tm.Line
	case errors.As(err, &ib):
		return ib.Line
	}
	return 0
}
