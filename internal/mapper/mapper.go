// Package mapper translates remote payloads into local entity fields.
// Mappers are partial updates: a field present and well-typed in the payload
// is applied, anything absent or malformed leaves the entity untouched.
// Every application reports an Outcome so callers can log skipped fields
// instead of anomalies disappearing silently.
package mapper

import (
	"fmt"

	"kbbridge/internal/remote"
)

// Skip records one payload field that could not be applied.
type Skip struct {
	Field  string
	Reason string
}

// Outcome lists the entity fields a mapper applied and the payload fields
// it had to skip.
type Outcome struct {
	Applied []string
	Skipped []Skip
}

func (o *Outcome) applied(field string) {
	o.Applied = append(o.Applied, field)
}

func (o *Outcome) skip(field, reason string) {
	o.Skipped = append(o.Skipped, Skip{Field: field, Reason: reason})
}

// HasSkips reports whether any payload field was skipped.
func (o *Outcome) HasSkips() bool { return len(o.Skipped) > 0 }

// String summarizes the outcome for logging.
func (o *Outcome) String() string {
	return fmt.Sprintf("applied=%d skipped=%d", len(o.Applied), len(o.Skipped))
}

// lookup returns the first alias present in the payload.
func lookup(p remote.Payload, keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			return k, v, true
		}
	}
	return "", nil, false
}

func setString(p remote.Payload, o *Outcome, dst *string, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		o.skip(key, fmt.Sprintf("expected string, got %T", v))
		return
	}
	*dst = s
	o.applied(field)
}

// asFloat accepts the numeric shapes encoding/json produces plus plain ints.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func setInt(p remote.Payload, o *Outcome, dst *int, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	f, ok := asFloat(v)
	if !ok {
		o.skip(key, fmt.Sprintf("expected number, got %T", v))
		return
	}
	*dst = int(f)
	o.applied(field)
}

func setInt64(p remote.Payload, o *Outcome, dst *int64, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	f, ok := asFloat(v)
	if !ok {
		o.skip(key, fmt.Sprintf("expected number, got %T", v))
		return
	}
	*dst = int64(f)
	o.applied(field)
}

func setFloat(p remote.Payload, o *Outcome, dst *float64, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	f, ok := asFloat(v)
	if !ok {
		o.skip(key, fmt.Sprintf("expected number, got %T", v))
		return
	}
	*dst = f
	o.applied(field)
}

func setFloatPtr(p remote.Payload, o *Outcome, dst **float64, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	f, ok := asFloat(v)
	if !ok {
		o.skip(key, fmt.Sprintf("expected number, got %T", v))
		return
	}
	*dst = &f
	o.applied(field)
}

func setBool(p remote.Payload, o *Outcome, dst *bool, field string, keys ...string) {
	key, v, ok := lookup(p, keys...)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		o.skip(key, fmt.Sprintf("expected bool, got %T", v))
		return
	}
	*dst = b
	o.applied(field)
}

// setRemoteID applies the payload id onto a nullable remote identity field.
func setRemoteID(p remote.Payload, o *Outcome, dst **string) {
	_, v, ok := lookup(p, "id")
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		o.skip("id", fmt.Sprintf("expected string, got %T", v))
		return
	}
	if s == "" {
		o.skip("id", "empty id")
		return
	}
	*dst = &s
	o.applied("RemoteID")
}

// nested returns an object-valued payload field as a sub-payload.
func nested(p remote.Payload, o *Outcome, key string) (remote.Payload, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		o.skip(key, fmt.Sprintf("expected object, got %T", v))
		return nil, false
	}
	return remote.Payload(m), true
}
