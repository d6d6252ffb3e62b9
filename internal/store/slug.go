package store

import (
	"strconv"
	"strings"
	"time"
)

const maxSlugLength = 45

// SanitizeSlug lowercases, maps everything outside [a-z0-9-] to a dash,
// collapses runs of dashes and trims them from the ends. It runs at the
// editor input boundary; the persistence layer applies the same rules.
func SanitizeSlug(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(lowered))
	lastDash := true
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// MintSlug builds a fresh slug from the portfolio owner's name plus a short
// base36 time suffix for uniqueness. Empty names fall back to
// "my-portfolio".
func MintSlug(name string, now time.Time) string {
	base := SanitizeSlug(name)
	if base == "" {
		base = "my-portfolio"
	}
	if len(base) > maxSlugLength {
		base = strings.Trim(base[:maxSlugLength], "-")
	}
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	if len(stamp) > 4 {
		stamp = stamp[len(stamp)-4:]
	}
	return base + "-" + stamp
}
