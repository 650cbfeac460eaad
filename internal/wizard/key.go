// internal/wizard/key.go
package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKey identifies the target of a validation error. Plain fields carry
// only Field; per-instance errors in a repeated sub-entity (trucks,
// uploaded files) carry Entity and a zero-based Index, with Field optional.
// Being a comparable struct it doubles as a map key without the
// stringly-typed concatenation bugs of "truck-0-vehicleType" literals.
type FieldKey struct {
	Entity string
	Index  int
	Field  string
}

// Key builds a FieldKey for a plain field.
func Key(field string) FieldKey {
	return FieldKey{Field: field}
}

// EntityKey builds a FieldKey for one instance of a repeated sub-entity.
func EntityKey(entity string, index int, field string) FieldKey {
	return FieldKey{Entity: entity, Index: index, Field: field}
}

// String renders the wire form: "field", "entity-3" or "entity-3-field".
func (k FieldKey) String() string {
	if k.Entity == "" {
		return k.Field
	}
	if k.Field == "" {
		return fmt.Sprintf("%s-%d", k.Entity, k.Index)
	}
	return fmt.Sprintf("%s-%d-%s", k.Entity, k.Index, k.Field)
}

// ParseFieldKey is the inverse of String. A middle segment that is not an
// integer means the whole string is a plain field name.
func ParseFieldKey(s string) FieldKey {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) < 2 {
		return FieldKey{Field: s}
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return FieldKey{Field: s}
	}
	k := FieldKey{Entity: parts[0], Index: idx}
	if len(parts) == 3 {
		k.Field = parts[2]
	}
	return k
}

// ErrorMap maps rendered field keys to human-readable messages.
type ErrorMap map[string]string

// Add records a message under the given key.
func (m ErrorMap) Add(k FieldKey, message string) {
	m[k.String()] = message
}

// AddErr records err's message under the given key when err is non-nil.
func (m ErrorMap) AddErr(k FieldKey, err error) {
	if err != nil {
		m[k.String()] = err.Error()
	}
}

// Empty reports whether no errors are recorded.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// clone returns an independent copy so callers cannot mutate machine state.
func (m ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
