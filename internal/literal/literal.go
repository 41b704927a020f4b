// Package literal models the loosely-shaped configuration documents that
// docnav reads and writes.
//
// A literal value is one of: nil, string, bool, int, float64, []any or *Object.
// Objects keep field order and may contain repeated keys, so that callers can
// decide whether a repeated key is an error rather than having it silently
// overwritten during decoding.
package literal

import (
	"fmt"
	"reflect"
)

// Field is a single key/value entry of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is an ordered key/value literal.
type Object struct {
	Fields []Field
}

// Obj builds an Object from alternating key/value arguments.
// It panics when a key is not a string or a value is missing; it is meant for
// literals authored in Go source.
func Obj(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("literal.Obj: odd number of arguments")
	}
	o := &Object{Fields: make([]Field, 0, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("literal.Obj: key at position %d is %T, not string", i, kv[i]))
		}
		o.Fields = append(o.Fields, Field{Key: key, Value: kv[i+1]})
	}
	return o
}

// List is shorthand for []any.
func List(items ...any) []any {
	if items == nil {
		return []any{}
	}
	return items
}

// Len returns the number of fields, counting repeated keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Fields)
}

// Get returns the value of the first field named key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns field keys in order, including repeats.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Set replaces the first field named key or appends a new one.
func (o *Object) Set(key string, value any) {
	for i := range o.Fields {
		if o.Fields[i].Key == key {
			o.Fields[i].Value = value
			return
		}
	}
	o.Fields = append(o.Fields, Field{Key: key, Value: value})
}

// Duplicates returns every key that appears more than once, in first-seen order.
func (o *Object) Duplicates() []string {
	if o == nil {
		return nil
	}
	seen := make(map[string]int, len(o.Fields))
	var dups []string
	for _, f := range o.Fields {
		seen[f.Key]++
		if seen[f.Key] == 2 {
			dups = append(dups, f.Key)
		}
	}
	return dups
}

// Clone returns a deep copy of a literal value. Scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	case *Object:
		if t == nil {
			return t
		}
		out := &Object{Fields: make([]Field, len(t.Fields))}
		for i, f := range t.Fields {
			out.Fields[i] = Field{Key: f.Key, Value: Clone(f.Value)}
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two literal values are structurally identical,
// including field order.
func Equal(a, b any) bool {
	return reflect.DeepEqual(normalizeNumbers(a), normalizeNumbers(b))
}

// normalizeNumbers folds integral float64 values into int so that a value
// decoded from JSON compares equal to one authored in Go.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case float64:
		if t == float64(int(t)) {
			return int(t)
		}
		return t
	case int64:
		return int(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeNumbers(t[i])
		}
		return out
	case *Object:
		if t == nil {
			return t
		}
		out := &Object{Fields: make([]Field, len(t.Fields))}
		for i, f := range t.Fields {
			out.Fields[i] = Field{Key: f.Key, Value: normalizeNumbers(f.Value)}
		}
		return out
	default:
		return v
	}
}

// TypeName returns the literal-level name of a value's shape for error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case []any:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
