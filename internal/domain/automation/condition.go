package automation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Operator compares a payload field against a condition value
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpIn          Operator = "in"
)

// Operators lists the supported operators
var Operators = []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpContains, OpIn}

// IsValid reports whether the operator is supported
func (o Operator) IsValid() bool {
	for _, v := range Operators {
		if v == o {
			return true
		}
	}
	return false
}

// Condition is a single field test. Field is a dotted path into the payload.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Validate checks the condition definition
func (c Condition) Validate() error {
	if strings.TrimSpace(c.Field) == "" {
		return errors.New("field is required")
	}
	if !c.Operator.IsValid() {
		return fmt.Errorf("unsupported operator %q", c.Operator)
	}
	if c.Operator == OpIn {
		if _, ok := asSlice(c.Value); !ok {
			return errors.New("value for 'in' must be a list")
		}
	}
	return nil
}

// Evaluate tests the condition against payload. A missing field fails every
// operator except not_equals.
func (c Condition) Evaluate(payload map[string]any) bool {
	actual, ok := Lookup(payload, c.Field)
	if !ok {
		return c.Operator == OpNotEquals
	}

	switch c.Operator {
	case OpEquals:
		return valuesEqual(actual, c.Value)
	case OpNotEquals:
		return !valuesEqual(actual, c.Value)
	case OpGreaterThan:
		a, okA := toFloat(actual)
		b, okB := toFloat(c.Value)
		return okA && okB && a > b
	case OpLessThan:
		a, okA := toFloat(actual)
		b, okB := toFloat(c.Value)
		return okA && okB && a < b
	case OpContains:
		if s, isStr := actual.(string); isStr {
			return strings.Contains(s, fmt.Sprint(c.Value))
		}
		if items, isSlice := asSlice(actual); isSlice {
			return containsValue(items, c.Value)
		}
		return false
	case OpIn:
		items, isSlice := asSlice(c.Value)
		return isSlice && containsValue(items, actual)
	}
	return false
}

// Lookup resolves a dotted path such as "customer.address.city"
func Lookup(payload map[string]any, path string) (any, bool) {
	var current any = payload
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

var templateVar = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// RenderTemplate substitutes {{field}} placeholders from payload. Unknown
// fields render as an empty string.
func RenderTemplate(tmpl string, payload map[string]any) string {
	return templateVar.ReplaceAllStringFunc(tmpl, func(m string) string {
		path := templateVar.FindStringSubmatch(m)[1]
		v, ok := Lookup(payload, path)
		if !ok || v == nil {
			return ""
		}
		return formatValue(v)
	})
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}

func valuesEqual(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func containsValue(items []any, v any) bool {
	for _, item := range items {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
