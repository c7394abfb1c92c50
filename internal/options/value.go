package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindInvalid marks an absent value.
	KindInvalid Kind = iota
	KindString
	KindMap
	KindList
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Options maps case-sensitive option names to values.
type Options map[string]Value

// Value is a configuration value: a string scalar, a nested mapping, or a list.
// The zero Value is invalid and stands for "not set".
type Value struct {
	kind   Kind
	str    string
	fields Options
	items  []Value
}

// String returns a scalar value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a scalar holding "true" or "false".
func Bool(b bool) Value {
	return String(strconv.FormatBool(b))
}

// Map returns a nested mapping value. The mapping is copied.
func Map(fields Options) Value {
	return Value{kind: KindMap, fields: fields.Clone()}
}

// List returns a list value. The items are copied.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return Value{kind: KindList, items: out}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds anything. The zero Value is invalid.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the scalar content, or "" for non-scalars.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Bool reports the scalar as a boolean. Anything strconv.ParseBool rejects is false.
func (v Value) Bool() bool {
	b, err := strconv.ParseBool(v.Str())
	return err == nil && b
}

// Field returns the named entry of a mapping value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f.Clone(), ok
}

// Fields returns a copy of the mapping entries, or nil for non-mappings.
func (v Value) Fields() Options {
	if v.kind != KindMap {
		return nil
	}
	return v.fields.Clone()
}

// Items returns a copy of the list items, or nil for non-lists.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return List(v.items...).items
}

// Lookup walks nested mappings along path.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, name := range path {
		next, ok := cur.Field(name)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, cur.IsValid()
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return Value{kind: KindMap, fields: v.fields.Clone()}
	case KindList:
		return List(v.items...)
	default:
		return v
	}
}

// Equal reports deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindMap:
		return v.fields.Equal(other.fields)
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Interface converts the value into plain Go types: string, map[string]any, []any, or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindMap:
		out := make(map[string]any, len(v.fields))
		for name, f := range v.fields {
			out[name] = f.Interface()
		}
		return out
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes v as the equivalent JSON string, object or array.
// The invalid value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON document into v. Numbers and booleans
// become their literal text; null becomes the invalid value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := decodeJSON(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromAny converts decoded YAML or JSON data into a Value. nil becomes the invalid value.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t.Clone(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return String(strconv.Itoa(t)), nil
	case int64:
		return String(strconv.FormatInt(t, 10)), nil
	case uint64:
		return String(strconv.FormatUint(t, 10)), nil
	case float64:
		return String(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case json.Number:
		return String(t.String()), nil
	case time.Time:
		return String(formatTime(t)), nil
	case map[any]any:
		fields := make(map[string]any, len(t))
		for name, item := range t {
			fields[fmt.Sprint(name)] = item
		}
		return FromAny(fields)
	case map[string]any:
		fields := make(Options, len(t))
		for name, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", name, err)
			}
			if converted.IsValid() {
				fields[name] = converted
			}
		}
		return Value{kind: KindMap, fields: fields}, nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, converted)
		}
		return Value{kind: KindList, items: items}, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, raw)
	}
}

// formatTime renders YAML timestamps the way they are usually written: a bare
// date when there is no clock component, RFC 3339 otherwise.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}

// FromMap converts a decoded mapping into Options.
func FromMap(raw map[string]any) (Options, error) {
	v, err := FromAny(raw)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return Options{}, nil
	}
	return v.fields, nil
}

// Clone returns a deep copy. Cloning nil yields nil.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for name, v := range o {
		out[name] = v.Clone()
	}
	return out
}

// Get returns the named value if it is set.
func (o Options) Get(name string) (Value, bool) {
	v, ok := o[name]
	if !ok || !v.IsValid() {
		return Value{}, false
	}
	return v.Clone(), true
}

// Set stores v under name; an invalid v removes the entry.
func (o Options) Set(name string, v Value) {
	if !v.IsValid() {
		delete(o, name)
		return
	}
	o[name] = v.Clone()
}

// Names returns the option names in sorted order.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range maps.Keys(o) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports deep equality.
func (o Options) Equal(other Options) bool {
	if len(o) != len(other) {
		return false
	}
	for name, v := range o {
		w, ok := other[name]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes o as a JSON object.
func (o Options) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o))
	for name, v := range o {
		out[name] = v.Interface()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON object into o. Null members are dropped.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := decodeJSON(data, &raw); err != nil {
		return err
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// decodeJSON unmarshals data keeping numbers as json.Number, so large
// integers keep every digit.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
