package record

import "fmt"

// ValueKind tags which branch of Value is populated.
type ValueKind uint8

const (
	Null ValueKind = iota
	Integer
	Float
	Blob
	Text
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "Null"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Blob:
		return "Blob"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Value is the decoded, typed contents of one record field. Exactly one of
// the accessor methods is meaningful, selected by Kind.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    []byte
	s    string
}

func NewNull() Value            { return Value{kind: Null} }
func NewInteger(i int64) Value  { return Value{kind: Integer, i: i} }
func NewFloat(f float64) Value  { return Value{kind: Float, f: f} }
func NewBlob(b []byte) Value    { return Value{kind: Blob, b: b} }
func NewText(s string) Value    { return Value{kind: Text, s: s} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) Int() int64      { return v.i }
func (v Value) Float() float64  { return v.f }
func (v Value) Bytes() []byte   { return v.b }
func (v Value) Str() string     { return v.s }

// String renders v the way the CLI's output formatter needs: NULL as
// "Null", BLOB as a debug-style byte list, TEXT verbatim, and numbers in
// their natural decimal form.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "Null"
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%g", v.f)
	case Blob:
		return fmt.Sprintf("%v", v.b)
	case Text:
		return v.s
	default:
		return ""
	}
}
