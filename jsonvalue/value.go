// Package jsonvalue defines the in-memory JSON value tree: a tagged variant
// type distinguishing null/bool/uint/sint/real/raw/string/array/object, with
// object members kept in insertion order and duplicate keys preserved
// verbatim rather than rejected or merged.
package jsonvalue

import "github.com/lattice-substrate/gojson/jsonnum"

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindInvalid is never produced by Parse or the New* constructors; it is
	// reachable only by zero-valuing a Value or by a caller deliberately
	// constructing one, and exists so the writer has a well-defined failure
	// for a malformed tree instead of a silent default case.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindUint
	KindSint
	KindReal
	KindRaw
	KindString
	KindArray
	KindObject
)

// Member is a single object entry. Objects may contain several Members with
// the same Key; both the reader and the writer preserve them all, in the
// order they were added.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a JSON document tree.
type Value struct {
	Kind Kind

	Bool bool
	Uint uint64
	Sint int64
	Real float64
	Raw  []byte // verbatim numeric lexeme, for KindRaw
	Str  string

	Elems   []Value
	Members []Member
}

// NewNull returns a null value.
func NewNull() Value { return Value{Kind: KindNull} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewUint returns an unsigned-integer number value.
func NewUint(u uint64) Value { return Value{Kind: KindUint, Uint: u} }

// NewSint returns a signed-integer number value.
func NewSint(i int64) Value { return Value{Kind: KindSint, Sint: i} }

// NewReal returns a floating-point number value.
func NewReal(f float64) Value { return Value{Kind: KindReal, Real: f} }

// NewRaw returns a number value whose lexeme is emitted verbatim, bypassing
// the number codec entirely. raw must already be a well-formed JSON number
// token (or, when the writer's AllowInfAndNaN flag is set, one of "NaN",
// "Infinity", "-Infinity"); the writer does not re-validate it.
func NewRaw(raw []byte) Value {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Value{Kind: KindRaw, Raw: cp}
}

// NewString returns a string value.
func NewString(s string) Value { return Value{Kind: KindString, Str: s} }

// NewArray returns an empty array value.
func NewArray() Value { return Value{Kind: KindArray} }

// NewObject returns an empty object value.
func NewObject() Value { return Value{Kind: KindObject} }

// AddElem appends v to an array value in place.
func (v *Value) AddElem(elem Value) {
	v.Elems = append(v.Elems, elem)
}

// AddMember appends a key/value pair to an object value in place, without
// checking for an existing member under the same key.
func (v *Value) AddMember(key string, val Value) {
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Clone produces a deep, independent copy of v, so a caller can build one
// immutable document and then branch off a separately mutable copy (or vice
// versa) without the two sharing backing arrays.
func (v Value) Clone() Value {
	out := v
	out.Raw = append([]byte(nil), v.Raw...)
	if v.Elems != nil {
		out.Elems = make([]Value, len(v.Elems))
		for i := range v.Elems {
			out.Elems[i] = v.Elems[i].Clone()
		}
	}
	if v.Members != nil {
		out.Members = make([]Member, len(v.Members))
		for i := range v.Members {
			out.Members[i] = Member{Key: v.Members[i].Key, Value: v.Members[i].Value.Clone()}
		}
	}
	return out
}

// numberResultToValue converts a jsonnum.Scan outcome into the matching
// Value variant.
func numberResultToValue(r jsonnum.Result) Value {
	switch r.Kind {
	case jsonnum.KindUint:
		return NewUint(r.Uint)
	case jsonnum.KindSint:
		return NewSint(r.Sint)
	case jsonnum.KindRaw:
		return NewRaw(r.Raw)
	default:
		return NewReal(r.Real)
	}
}
