package sections

import "strings"

// NormalizeOrder filters a candidate order down to known keys, dedupes it
// preserving first-seen position, and appends every available key not yet
// listed. The result is always a permutation of available.
func NormalizeOrder(candidate, available []string) []string {
	known := make(map[string]bool, len(available))
	for _, key := range available {
		known[key] = true
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(available))
	for _, key := range candidate {
		if key == "" || !known[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	for _, key := range available {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// DeriveFromSpec walks a generated UI spec's sections in order and emits the
// first registry key each section matches, skipping duplicates. Sections
// that match nothing are ignored; keys the spec never mentions end up
// appended by NormalizeOrder.
func DeriveFromSpec(spec map[string]interface{}, available []string) []string {
	raw, _ := spec["sections"].([]interface{})
	seen := map[string]bool{}
	order := []string{}
	for _, item := range raw {
		section, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		key := MatchSection(section, available)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}
	return NormalizeOrder(order, available)
}

// MatchSection consults key/id/title/name and the props block through a
// widening heuristic: exact key match, then substring in either direction,
// then token overlap.
func MatchSection(section map[string]interface{}, available []string) string {
	candidates := sectionHints(section)
	if len(candidates) == 0 {
		return ""
	}

	for _, hint := range candidates {
		for _, key := range available {
			if hint == key {
				return key
			}
		}
	}
	for _, hint := range candidates {
		for _, key := range available {
			if strings.Contains(hint, key) || strings.Contains(key, hint) {
				return key
			}
		}
	}
	for _, hint := range candidates {
		tokens := strings.FieldsFunc(hint, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
		})
		for _, token := range tokens {
			for _, key := range available {
				if token == key {
					return key
				}
			}
		}
	}
	return ""
}

func sectionHints(section map[string]interface{}) []string {
	hints := []string{}
	push := func(v interface{}) {
		if s, ok := v.(string); ok {
			if trimmed := strings.ToLower(strings.TrimSpace(s)); trimmed != "" {
				hints = append(hints, trimmed)
			}
		}
	}
	for _, key := range []string{"key", "id", "title", "name", "type"} {
		push(section[key])
	}
	if props, ok := section["props"].(map[string]interface{}); ok {
		for _, key := range []string{"key", "id", "title", "name", "section"} {
			push(props[key])
		}
	}
	return hints
}
