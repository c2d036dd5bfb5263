package entity

import (
	"fmt"
	"time"
)

// Kind identifies which field of a Value is set.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindTime
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindBool:   "boolean",
	KindInt:    "integer",
	KindFloat:  "number",
	KindTime:   "date",
	KindList:   "array",
	KindMap:    "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a front matter value as authored, before any schema is applied.
type Value struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	Time  time.Time
	List  []Value
	Map   map[string]Value
}

func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value            { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value        { return Value{Kind: KindFloat, Float: f} }
func Time(t time.Time) Value       { return Value{Kind: KindTime, Time: t} }
func List(vs ...Value) Value       { return Value{Kind: KindList, List: vs} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// Strings builds a list value out of plain strings.
func Strings(ss ...string) Value {
	vs := make([]Value, 0, len(ss))

	for _, s := range ss {
		vs = append(vs, String(s))
	}

	return List(vs...)
}

// RawDocument is an authored document of a collection that has not been
// validated yet.
type RawDocument struct {
	Slug string
	// Path is relative to the collection directory and uses forward slashes.
	Path   string
	Fields map[string]Value
	Body   string
}
