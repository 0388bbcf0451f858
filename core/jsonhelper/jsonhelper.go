// Package jsonhelper provides JSON-related helper functions.
package jsonhelper

import (
	"bytes"
	"encoding/json"

	"github.com/peterbourgon/mergemap"
)

// Option sets an option on json.Decoder.
type Option func(*json.Decoder)

// DisallowUnknownFields causes json.Decoder to reject unknown struct fields.
var DisallowUnknownFields Option = func(d *json.Decoder) { d.DisallowUnknownFields() }

// Roundtrip marshals the input to JSON then unmarshals it into ptr.
// This is useful for converting between structures.
func Roundtrip(input, ptr any, options ...Option) error {
	j, e := json.Marshal(input)
	if e != nil {
		return e
	}

	decoder := json.NewDecoder(bytes.NewReader(j))
	for _, option := range options {
		option(decoder)
	}
	return decoder.Decode(ptr)
}

// MergeDefaults merges input over defaults, then unmarshals the result into ptr.
// Both defaults and input must roundtrip to JSON objects.
func MergeDefaults(defaults, input, ptr any, options ...Option) error {
	var dst, src map[string]any
	if e := Roundtrip(defaults, &dst); e != nil {
		return e
	}
	if e := Roundtrip(input, &src); e != nil {
		return e
	}
	return Roundtrip(mergemap.Merge(dst, src), ptr, options...)
}
