package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-editor/internal/model"
)

func TestNormalizeOrder(t *testing.T) {
	available := []string{"name", "summary", "skills"}

	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, available, NormalizeOrder(available, available))
	})

	t.Run("drops unknown and empty keys", func(t *testing.T) {
		got := NormalizeOrder([]string{"skills", "bogus", "", "name"}, available)
		assert.Equal(t, []string{"skills", "name", "summary"}, got)
	})

	t.Run("dedupes keeping first position", func(t *testing.T) {
		got := NormalizeOrder([]string{"name", "skills", "name"}, available)
		assert.Equal(t, []string{"name", "skills", "summary"}, got)
	})

	t.Run("appends missing keys in available order", func(t *testing.T) {
		got := NormalizeOrder(nil, available)
		assert.Equal(t, available, got)
	})

	t.Run("result is always a permutation", func(t *testing.T) {
		got := NormalizeOrder([]string{"skills", "skills", "junk", "summary"}, available)
		assert.ElementsMatch(t, available, got)
	})
}

func TestAvailable(t *testing.T) {
	doc := model.Document{
		"name":            "Ada",
		"certifications":  []interface{}{"Royal Society"},
		"awards":          []interface{}{},                        // empty list is not a section
		"job_description": "compiler engineer",                    // excluded
		"meta":            map[string]interface{}{"slug": "a"},    // excluded
		"links":           []interface{}{"https://example.com/x"}, // contact alias, excluded
		"talks":           map[string]interface{}{"count": 3.0},
	}
	got := Available(doc)

	core := CoreKeys()
	require.GreaterOrEqual(t, len(got), len(core))
	assert.Equal(t, core, got[:len(core)])
	// dynamic keys are sorted for determinism
	assert.Equal(t, []string{"certifications", "talks"}, got[len(core):])
}

func TestMatchSection(t *testing.T) {
	available := []string{"name", "summary", "experience", "projects", "skills"}

	cases := []struct {
		name    string
		section map[string]interface{}
		want    string
	}{
		{"exact key", map[string]interface{}{"key": "skills"}, "skills"},
		{"substring in hint", map[string]interface{}{"id": "skills-grid"}, "skills"},
		{"substring in key", map[string]interface{}{"title": "exp"}, "experience"},
		{"multiword hint", map[string]interface{}{"title": "Featured Projects!"}, "projects"},
		{"props fallback", map[string]interface{}{"type": "grid", "props": map[string]interface{}{"section": "summary"}}, "summary"},
		{"no match", map[string]interface{}{"title": "Totally Unrelated"}, ""},
		{"empty", map[string]interface{}{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchSection(tc.section, available))
		})
	}
}

func TestDeriveFromSpec(t *testing.T) {
	available := []string{"name", "summary", "experience", "projects", "skills"}
	spec := map[string]interface{}{
		"sections": []interface{}{
			map[string]interface{}{"type": "grid", "title": "Projects"},
			map[string]interface{}{"type": "list", "title": "Skills"},
			map[string]interface{}{"type": "grid", "title": "Projects"}, // duplicate match skipped
			map[string]interface{}{"type": "video", "title": "Unmatched"},
			"not a section",
		},
	}
	got := DeriveFromSpec(spec, available)

	assert.Equal(t, []string{"projects", "skills"}, got[:2])
	assert.ElementsMatch(t, available, got)
}
