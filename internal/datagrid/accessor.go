package datagrid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jmespath/go-jmespath"
)

// Accessor reads one value out of a row.
type Accessor func(Row) any

// FieldGetter is implemented by rows that expose named fields without being a
// Record.
type FieldGetter interface {
	Field(key string) (any, bool)
}

// Field returns an accessor for a top-level field.
func Field(key string) Accessor {
	return func(row Row) any {
		switch r := row.(type) {
		case Record:
			v, _ := r.Get(key)
			return v
		case FieldGetter:
			v, _ := r.Field(key)
			return v
		default:
			return nil
		}
	}
}

// PathAccessor compiles a JMESPath expression (for example "profile.email" or
// "roles[0].name") into an accessor. Rows that are not Records evaluate to nil.
func PathAccessor(expr string) (Accessor, error) {
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile accessor %q: %w", expr, err)
	}
	return func(row Row) any {
		rec, ok := row.(Record)
		if !ok {
			return nil
		}
		v, err := compiled.Search(map[string]any(rec))
		if err != nil {
			return nil
		}
		return v
	}, nil
}

// MustPath is PathAccessor for expressions known at compile time.
func MustPath(expr string) Accessor {
	a, err := PathAccessor(expr)
	if err != nil {
		panic(err)
	}
	return a
}

// Stringify projects a value to the single-line string used for display,
// filtering and the global search.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case map[string]any, []any, Record:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsObject reports whether a value is structured (maps and slices).
func IsObject(v any) bool {
	switch v.(type) {
	case map[string]any, []any, Record, []map[string]any, []string:
		return true
	default:
		return false
	}
}

// IsNumber reports whether a value is numeric.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
