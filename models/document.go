package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildDocument converts a decoded request body into a write payload for the
// store. Only field names present in allowed survive, and any field whose
// value is nil or an empty string is dropped entirely so that optional fields
// are never written as sentinels and server-side defaults are never blanked.
func BuildDocument(fields map[string]interface{}, allowed []string) bson.M {
	doc := bson.M{}
	for _, name := range allowed {
		v, ok := fields[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		doc[name] = v
	}
	return doc
}

// RequireFields checks that each named field is present and non-empty,
// returning a field -> message map for anything missing
func RequireFields(fields map[string]interface{}, names ...string) map[string]string {
	missing := map[string]string{}
	for _, name := range names {
		v, ok := fields[name]
		if !ok || v == nil {
			missing[name] = "cannot be blank"
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			missing[name] = "cannot be blank"
		}
	}
	return missing
}

// ValidateEnum checks that the named field, when present, is one of the
// allowed values and records a message in errs otherwise
func ValidateEnum(fields map[string]interface{}, errs map[string]string, name string, allowed []string) {
	v, ok := fields[name]
	if !ok || v == nil {
		return
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return
	}
	for _, a := range allowed {
		if s == a {
			return
		}
	}
	errs[name] = fmt.Sprintf("must be one of %v", allowed)
}

// Number pulls a numeric field out of a decoded JSON body. encoding/json
// decodes all numbers as float64, so that is the only shape checked besides
// int for callers that build bodies in tests.
func Number(fields map[string]interface{}, name string) (float64, bool) {
	v, ok := fields[name]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ValidateMin records a message in errs when the named numeric field is
// present and below min
func ValidateMin(fields map[string]interface{}, errs map[string]string, name string, min float64) {
	n, ok := Number(fields, name)
	if !ok {
		return
	}
	if n < min {
		errs[name] = fmt.Sprintf("must be at least %v", min)
	}
}
