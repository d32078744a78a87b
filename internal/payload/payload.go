package payload

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Payload is the raw response of a source adapter before normalization.
// It is either a Mapping or a Structured record.
type Payload interface {
	// Lookup returns the value stored under key
	Lookup(key string) (any, bool)
	// Range calls fn for every entry in iteration order until fn returns false
	Range(fn func(key string, value any) bool)
	// Len returns the number of entries
	Len() int

	sealed()
}

// Mapping is a key/value payload decoded from a loosely typed JSON object or
// built from scraped text. Range visits keys in lexical order.
type Mapping map[string]any

// Lookup returns the value stored under key
func (m Mapping) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Range visits keys sorted lexically so extraction is deterministic
func (m Mapping) Range(fn func(key string, value any) bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, m[k]) {
			return
		}
	}
}

// Len returns the number of keys
func (m Mapping) Len() int { return len(m) }

func (Mapping) sealed() {}

// Field is one named attribute of a Structured payload
type Field struct {
	Name  string
	Value any
}

// Structured is a record-like payload with a fixed field order, produced by
// typed client responses. Range visits fields in declaration order.
type Structured struct {
	Fields []Field
}

// NewStructured builds a Structured payload from name/value pairs
func NewStructured(fields ...Field) Structured {
	return Structured{Fields: fields}
}

// Lookup returns the first field named key
func (s Structured) Lookup(key string) (any, bool) {
	for _, f := range s.Fields {
		if f.Name == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Range visits fields in declaration order
func (s Structured) Range(fn func(key string, value any) bool) {
	for _, f := range s.Fields {
		if !fn(f.Name, f.Value) {
			return
		}
	}
}

// Len returns the number of fields
func (s Structured) Len() int { return len(s.Fields) }

func (Structured) sealed() {}

// Number coerces a payload value to float64.
// Strings are cleaned of every rune that is not a digit, '.' or '-'
// ("1,234 tỷ" => 1234); an empty remainder is unparseable.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case json.Number:
		return parse(n.String())
	case string:
		return parse(n)
	default:
		return 0, false
	}
}

func parse(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	switch cleaned {
	case "", ".", "-":
		return 0, false
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
