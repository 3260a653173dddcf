package document

import "time"

// Attrs is a structured attribute map whose builder methods omit absent
// values by construction: a key is never present with a nil value.
// Numeric values are stored as float64 and times as RFC3339 strings so
// that attribute maps round-trip unchanged through JSON-backed stores.
type Attrs map[string]interface{}

// NewAttrs returns an empty attribute map ready for chained Set calls.
func NewAttrs() Attrs {
	return make(Attrs)
}

// Set stores a non-nil value under key. Nil values are dropped.
func (a Attrs) Set(key string, value interface{}) Attrs {
	if value == nil {
		return a
	}
	a[key] = value

	return a
}

// SetText stores a string value under key, dropping empty strings.
func (a Attrs) SetText(key, value string) Attrs {
	if value == "" {
		return a
	}
	a[key] = value

	return a
}

// SetString stores the pointed-to string under key. Nil pointers and
// pointers to empty strings are dropped.
func (a Attrs) SetString(key string, value *string) Attrs {
	if value == nil {
		return a
	}

	return a.SetText(key, *value)
}

// SetInt stores the pointed-to integer under key. Nil pointers are
// dropped.
func (a Attrs) SetInt(key string, value *int64) Attrs {
	if value == nil {
		return a
	}
	a[key] = float64(*value)

	return a
}

// SetCount stores an integer count under key.
func (a Attrs) SetCount(key string, value int64) Attrs {
	a[key] = float64(value)

	return a
}

// SetFloat stores the pointed-to float under key. Nil pointers are
// dropped.
func (a Attrs) SetFloat(key string, value *float64) Attrs {
	if value == nil {
		return a
	}
	a[key] = *value

	return a
}

// SetBool stores a boolean value under key.
func (a Attrs) SetBool(key string, value bool) Attrs {
	a[key] = value

	return a
}

// SetTime stores the pointed-to time under key as an RFC3339 UTC
// string. Nil pointers and zero times are dropped.
func (a Attrs) SetTime(key string, value *time.Time) Attrs {
	if value == nil || value.IsZero() {
		return a
	}
	a[key] = value.UTC().Format(time.RFC3339)

	return a
}
