package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is an inbound callback document as decoded from JSON. It is only
// ever read.
type Payload map[string]any

// Path addresses a value inside a Payload, one key per nesting level.
type Path []string

// ParsePath splits a dotted key path such as "data.instruction_id".
func ParsePath(s string) Path { return strings.Split(s, ".") }

func (p Path) String() string { return strings.Join(p, ".") }

// Lookup walks the path and returns the value found there. A null value is
// reported as absent.
func (p Payload) Lookup(path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// First evaluates paths in order and returns the first present value.
// Later paths are never consulted once one matches.
func (p Payload) First(paths []Path) (any, Path, bool) {
	for _, path := range paths {
		if v, ok := p.Lookup(path); ok {
			return v, path, true
		}
	}
	return nil, nil, false
}

// Object returns the nested document at path, if the value there is an object.
func (p Payload) Object(path Path) (Payload, bool) {
	v, ok := p.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return Payload(m), true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	default:
		return nil, false
	}
}

// ScalarString renders a scalar payload value as a string. Objects and
// arrays are not scalars.
func ScalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	default:
		return "", false
	}
}

// Numeric parses a payload value as a decimal. Numeric strings are accepted,
// surrounding whitespace included; anything else is not a number.
func Numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}
