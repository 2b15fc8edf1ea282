package canvas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError reports a response that does not match the expected schema.
// Raw holds the offending JSON so schema drift can be diagnosed without
// re-running the request. Validation failures are never silently coerced;
// losing a record without noticing is worse than a hard failure.
type ValidationError struct {
	Path   string
	Reason string
	Raw    json.RawMessage
}

func (e *ValidationError) Error() string {
	raw := strings.TrimSpace(string(e.Raw))
	if len(raw) > 900 {
		raw = raw[:900] + "…"
	}
	return fmt.Sprintf("invalid response: %s: %s (raw: %s)", e.Path, e.Reason, raw)
}

// record is a sticky-error decoder over one JSON object. A field may arrive
// under any of several remote key names; every accessor takes the accepted
// source keys in priority order and the first key present wins. The first
// failure is retained and reported with the field path and the full raw
// record.
type record struct {
	path string
	raw  json.RawMessage
	obj  map[string]json.RawMessage
	err  error
}

func newRecord(raw json.RawMessage, path string) *record {
	r := &record{path: path, raw: raw}
	if err := json.Unmarshal(raw, &r.obj); err != nil {
		r.err = &ValidationError{Path: path, Reason: "not a JSON object", Raw: raw}
	}
	return r
}

func (r *record) Err() error { return r.err }

func (r *record) fail(field, reason string) {
	if r.err == nil {
		r.err = &ValidationError{Path: r.path + "." + field, Reason: reason, Raw: r.raw}
	}
}

// first returns the value of the first present, non-null key.
func (r *record) first(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := r.obj[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func missing(keys []string) string {
	return fmt.Sprintf("missing field (accepted keys: %s)", strings.Join(keys, ", "))
}

func (r *record) Int(keys ...string) int {
	raw, ok := r.first(keys...)
	if !ok {
		r.fail(keys[0], missing(keys))
		return 0
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(keys[0], "not an integer")
		return 0
	}
	return v
}

func (r *record) String(keys ...string) string {
	raw, ok := r.first(keys...)
	if !ok {
		r.fail(keys[0], missing(keys))
		return ""
	}
	return r.decodeString(raw, keys[0])
}

// OptString returns def when none of the keys is present.
func (r *record) OptString(def string, keys ...string) string {
	raw, ok := r.first(keys...)
	if !ok {
		return def
	}
	return r.decodeString(raw, keys[0])
}

func (r *record) decodeString(raw json.RawMessage, field string) string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(field, "not a string")
		return ""
	}
	return v
}

func (r *record) OptInt(def int, keys ...string) int {
	raw, ok := r.first(keys...)
	if !ok {
		return def
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(keys[0], "not an integer")
		return def
	}
	return v
}

func (r *record) Bool(def bool, keys ...string) bool {
	raw, ok := r.first(keys...)
	if !ok {
		return def
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(keys[0], "not a boolean")
		return def
	}
	return v
}

// StringPtr returns nil for an absent or null field.
func (r *record) StringPtr(keys ...string) *string {
	raw, ok := r.first(keys...)
	if !ok {
		return nil
	}
	v := r.decodeString(raw, keys[0])
	if r.err != nil {
		return nil
	}
	return &v
}

func (r *record) FloatPtr(keys ...string) *float64 {
	raw, ok := r.first(keys...)
	if !ok {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(keys[0], "not a number")
		return nil
	}
	return &v
}

// List returns the elements of an array field. An absent or null list is an
// empty sequence, not an error.
func (r *record) List(keys ...string) []json.RawMessage {
	raw, ok := r.first(keys...)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		r.fail(keys[0], "not an array")
		return nil
	}
	return items
}

// Strings decodes an array-of-strings field, defaulting to empty.
func (r *record) Strings(keys ...string) []string {
	out := []string{}
	for _, raw := range r.List(keys...) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			r.fail(keys[0], "not an array of strings")
			return out
		}
		out = append(out, v)
	}
	return out
}

// Nested returns a sub-record for an object-valued field, with the field path
// extended for error reporting. The second return is false when the field is
// absent or null.
func (r *record) Nested(keys ...string) (*record, bool) {
	raw, ok := r.first(keys...)
	if !ok {
		return nil, false
	}
	return newRecord(raw, r.path+"."+keys[0]), true
}

// adopt propagates a sub-record's failure into r.
func (r *record) adopt(sub *record) {
	if r.err == nil && sub.err != nil {
		r.err = sub.err
	}
}
