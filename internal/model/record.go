package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one server-resident entity as the backend returns it: a flat
// mapping of field name to string, number, boolean or date string.
type Record map[string]any

// String returns the field coerced to its display form. Missing and null
// fields yield "".
func (r Record) String(field string) string {
	return Stringify(r[field])
}

// ID is String under a name that reads better at call sites keyed by the
// primary id field.
func (r Record) ID(idField string) string {
	return strings.TrimSpace(r.String(idField))
}

// Has reports whether the field is present and non-empty.
func (r Record) Has(field string) bool {
	return r.String(field) != ""
}

// Clone returns a shallow copy; values are scalars so this is a full copy
// in practice.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Stringify coerces a decoded JSON value to text the way tables show it.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// Option is a reference list entry used to fill a select and to translate
// a stored foreign key to display text.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
