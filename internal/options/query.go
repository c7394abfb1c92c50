package options

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery parses a URL query string into Options, expanding bracket keys into
// nested values: "foo[bar]=x" yields {"foo": {"bar": "x"}} and "foo[]=a&foo[]=b"
// yields {"foo": ["a", "b"]}. Paths that share a prefix merge into one mapping;
// assigning the same path twice keeps the last value.
func ParseQuery(raw string) (Options, error) {
	out := make(Options)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidQuery, rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrInvalidQuery, key, err)
		}

		path := splitKey(key)
		if len(path) == 0 {
			continue
		}
		out[path[0]] = assign(out[path[0]], path[1:], String(value))
	}
	return out, nil
}

// splitKey breaks "a[b][c]" into ["a", "b", "c"]. A key with an unterminated
// bracket is returned whole; anything after the last "]" is dropped.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if key == "" {
			return nil
		}
		return []string{key}
	}
	if open == 0 {
		return nil
	}

	path := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			if len(path) == 1 {
				return []string{key}
			}
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

// assign returns cur with leaf stored at path, building containers on the way.
func assign(cur Value, path []string, leaf Value) Value {
	if len(path) == 0 {
		return leaf
	}
	segment, rest := path[0], path[1:]

	if segment == "" {
		switch cur.kind {
		case KindMap:
			segment = nextIndex(cur.fields)
		case KindList:
			cur.items = append(cur.items, assign(Value{}, rest, leaf))
			return cur
		default:
			return Value{kind: KindList, items: []Value{assign(Value{}, rest, leaf)}}
		}
	}

	switch cur.kind {
	case KindMap:
	case KindList:
		fields := make(Options, len(cur.items))
		for i, item := range cur.items {
			fields[strconv.Itoa(i)] = item
		}
		cur = Value{kind: KindMap, fields: fields}
	default:
		cur = Value{kind: KindMap, fields: make(Options)}
	}
	cur.fields[segment] = assign(cur.fields[segment], rest, leaf)
	return cur
}

// nextIndex picks the key an append uses inside a mapping: one past the
// largest non-negative integer key, or "0".
func nextIndex(fields Options) string {
	next := 0
	for name := range fields {
		if n, err := strconv.Atoi(name); err == nil && n >= next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}
