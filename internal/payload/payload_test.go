package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"thousands separator", "1,234", 1234, true},
		{"unit suffix", "56.7 tỷ", 56.7, true},
		{"negative", "-300", -300, true},
		{"json number", json.Number("42"), 42, true},
		{"empty", "", 0, false},
		{"dash only", "-", 0, false},
		{"dot only", ".", 0, false},
		{"letters", "n/a", 0, false},
		{"two dots", "1.2.3", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappingRangeIsSorted(t *testing.T) {
	m := Mapping{"sell": 1, "buy": 2, "net": 3}

	var keys []string
	m.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"buy", "net", "sell"}, keys)
}

func TestStructuredRangeKeepsOrder(t *testing.T) {
	s := NewStructured(Field{"z", 1}, Field{"a", 2})

	var keys []string
	s.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return false
	})
	assert.Equal(t, []string{"z"}, keys, "stops when fn returns false")

	v, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, s.Len())
}
