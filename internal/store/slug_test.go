package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Portfolio", "my-portfolio"},
		{"  Ada   Lovelace!  ", "ada-lovelace"},
		{"--hello__world--", "hello-world"},
		{"ALL CAPS 123", "all-caps-123"},
		{"already-clean", "already-clean"},
		{"***", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeSlug(tc.in), "in=%q", tc.in)
	}
}

func TestMintSlug(t *testing.T) {
	now := time.UnixMilli(1756500000000)

	slug := MintSlug("Ada Lovelace", now)
	assert.Regexp(t, `^ada-lovelace-[0-9a-z]{1,4}$`, slug)

	// empty and unsanitizable names fall back
	assert.Regexp(t, `^my-portfolio-[0-9a-z]{1,4}$`, MintSlug("", now))
	assert.Regexp(t, `^my-portfolio-[0-9a-z]{1,4}$`, MintSlug("???", now))

	// same instant, same suffix: minting is deterministic in its inputs
	assert.Equal(t, MintSlug("Ada", now), MintSlug("Ada", now))

	long := MintSlug(strings.Repeat("portfolio ", 20), now)
	assert.LessOrEqual(t, len(long), maxSlugLength+5)
	assert.NotContains(t, long, "--")
}
