// Package sections owns section-key bookkeeping for the portfolio editor:
// which keys exist, in what order they render, and which extra keys found in
// parser output qualify as sections of their own.
package sections

import (
	"sort"

	"portfolio-editor/internal/model"
)

// CoreKeys is the canonical always-available section order.
func CoreKeys() []string {
	return []string{"name", "summary", "contact", "experience", "projects", "education", "skills"}
}

// excludedKeys are document keys that never become sections: identity and
// classifier fields, administrative payloads, and the contact-variant
// aliases that the normalizer folds into the contact block.
var excludedKeys = map[string]bool{
	"job_description": true,
	"job_type":        true,
	"resume_job_type": true,
	"embedded_links":  true,
	"themes":          true,
	"raw":             true,
	"meta":            true,
	"raw_resume_text": true,
	"layout":          true,
	"generatedSpec":   true,
	"original_summary": true,
	"sectionVisibility": true,

	"urls":         true,
	"url":          true,
	"links":        true,
	"websites":     true,
	"profiles":     true,
	"emails":       true,
	"email":        true,
	"phones":       true,
	"phone":        true,
	"phone_number": true,
}

// Excluded reports whether a document key can never be a section.
func Excluded(key string) bool {
	return excludedKeys[key]
}

func isCore(key string) bool {
	for _, k := range CoreKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// dynamicCandidate reports whether a value qualifies a key as a section:
// a non-empty list or a non-empty object.
func dynamicCandidate(v interface{}) bool {
	switch t := v.(type) {
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return false
	}
}

// Available computes the full set of section keys for a document: the core
// keys in canonical order, then any dynamic keys sorted for determinism.
func Available(doc model.Document) []string {
	out := CoreKeys()
	dynamic := []string{}
	for key, value := range doc {
		if isCore(key) || Excluded(key) {
			continue
		}
		if dynamicCandidate(value) {
			dynamic = append(dynamic, key)
		}
	}
	sort.Strings(dynamic)
	return append(out, dynamic...)
}
