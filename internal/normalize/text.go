package normalize

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// preferredTextKeys are consulted in order when extracting text from an
// object before falling back to concatenating everything in it.
var preferredTextKeys = []string{"text", "description", "summary", "detail", "value", "content"}

// ExtractText reduces any value to a trimmed string. Strings and numbers
// stringify, lists concatenate their extractions with a single space, and
// objects consult the preferred keys before flattening.
func ExtractText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return ""
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := ExtractText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case []string:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]interface{}:
		for _, key := range preferredTextKeys {
			if raw, ok := t[key]; ok {
				if s := ExtractText(raw); s != "" {
					return s
				}
			}
		}
		parts := []string{}
		for _, raw := range t {
			if s := ExtractText(raw); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	default:
		return ""
	}
}

// TextList coerces a value into a list of non-empty text entries. A bare
// non-empty string becomes a singleton list.
func TextList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return []string{}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := ExtractText(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := ExtractText(v); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

// bulletGlyphs are stripped from the front of each bullet line.
const bulletGlyphs = "·•-•∙"

func stripBulletPrefix(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, bulletGlyphs)
	return strings.TrimSpace(line)
}

// SplitSkills turns a skills value into individual entries: each piece of
// text splits on commas and newlines, entries are trimmed and empties drop.
// A buffer like "Python, SQL" becomes two skills.
func SplitSkills(v interface{}) []string {
	out := []string{}
	for _, raw := range TextList(v) {
		raw = strings.ReplaceAll(raw, "\r", "\n")
		raw = strings.ReplaceAll(raw, "\n", ",")
		for _, part := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// SplitBullets turns a bullets value into clean lines. Strings split on one
// or more line terminators; lists run each entry through the same cleanup.
func SplitBullets(v interface{}) []string {
	out := []string{}
	for _, raw := range TextList(v) {
		raw = strings.ReplaceAll(raw, "\r", "\n")
		for _, line := range strings.Split(raw, "\n") {
			if cleaned := stripBulletPrefix(line); cleaned != "" {
				out = append(out, cleaned)
			}
		}
	}
	return out
}

// dedupeText removes duplicates preserving first-seen order; comparison is
// case-insensitive on the trimmed value.
func dedupeText(items []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		key := strings.ToLower(trimmed)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dedupePhones dedupes phone numbers by digits only, so formatting
// variations of the same number collapse.
func dedupePhones(items []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		key := digitsOnly(trimmed)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// StripNamePrefix removes a leading occurrence of the user's own name from a
// summary: either the bare name followed by an optional dash, em-dash or
// colon, or the vocative "<name> is a/an ". Only the leading occurrence is
// touched and matching is case-insensitive.
func StripNamePrefix(summary, name string) string {
	summary = strings.TrimSpace(summary)
	name = strings.TrimSpace(name)
	if summary == "" || name == "" {
		return summary
	}
	if len(summary) < len(name) || !strings.EqualFold(summary[:len(name)], name) {
		return summary
	}
	rest := summary[len(name):]
	// the name must end at a word boundary: "Adam ..." never matches "Ada"
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) && !strings.ContainsRune("-–—:", r) {
			return summary
		}
	}
	lowerRest := strings.ToLower(rest)
	switch {
	case strings.HasPrefix(lowerRest, " is an "):
		rest = rest[len(" is an "):]
	case strings.HasPrefix(lowerRest, " is a "):
		rest = rest[len(" is a "):]
	default:
		rest = strings.TrimSpace(rest)
		rest = strings.TrimLeft(rest, "-–—:")
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return summary
	}
	return rest
}

// collapseWhitespace folds runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
