package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-editor/internal/model"
)

func TestTruncateToRuneBoundary(t *testing.T) {
	got := truncateTo(strings.Repeat("é", 300), 280)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 280, utf8.RuneCountInString(got))

	assert.Equal(t, "short", truncateTo("  short  ", 280))
}

func specDoc() model.Document {
	skills := []interface{}{}
	for _, s := range []string{
		"Go", "Postgres", "Kafka", "Redis", "Docker", "Kubernetes", "Terraform",
		"gRPC", "GraphQL", "React", "TypeScript", "Rust", "Zig", "Elixir",
	} {
		skills = append(skills, s)
	}
	projects := []interface{}{}
	for i := 0; i < 8; i++ {
		projects = append(projects, map[string]interface{}{
			"name":        "Project",
			"description": "A thing that was built",
			"link":        "https://example.com/p",
		})
	}
	return model.Document{
		"name":     "Ada Lovelace",
		"summary":  "Compiler pioneer.",
		"skills":   skills,
		"projects": projects,
		"experience": []interface{}{
			map[string]interface{}{"role": "Engineer", "company": "Acme", "bullets": []interface{}{"Built things"}},
		},
		"contact": map[string]interface{}{
			"emails": []interface{}{"a@example.com", "b@example.com", "c@example.com"},
			"phones": []interface{}{"+1 555 0100"},
			"urls":   []interface{}{"https://github.com/ada", "http://insecure.example.com"},
		},
	}
}

func sectionTypes(spec map[string]interface{}) []string {
	raw, _ := spec["sections"].([]interface{})
	out := []string{}
	for _, item := range raw {
		m := item.(map[string]interface{})
		out = append(out, m["type"].(string))
	}
	return out
}

func sectionByTitle(t *testing.T, spec map[string]interface{}, title string) map[string]interface{} {
	t.Helper()
	raw, _ := spec["sections"].([]interface{})
	for _, item := range raw {
		m := item.(map[string]interface{})
		props, _ := m["props"].(map[string]interface{})
		if props != nil && props["title"] == title {
			return m
		}
	}
	t.Fatalf("no section titled %q", title)
	return nil
}

func TestGenerateUISpecEmptyDocument(t *testing.T) {
	spec := GenerateUISpec("", model.Document{})

	require.NoError(t, model.ValidateUISpec(spec))
	types := sectionTypes(spec)
	require.NotEmpty(t, types)
	assert.Equal(t, "hero", types[0])

	hero := spec["sections"].([]interface{})[0].(map[string]interface{})
	props := hero["props"].(map[string]interface{})
	assert.Equal(t, "Your Name", props["title"])
	assert.Equal(t, "Professional summary goes here.", props["subtitle"])

	page := spec["page"].(map[string]interface{})
	assert.Equal(t, "default", page["layout"])
}

func TestGenerateUISpecMinimalPrompt(t *testing.T) {
	spec := GenerateUISpec("something minimal and clean", specDoc())
	require.NoError(t, model.ValidateUISpec(spec))

	page := spec["page"].(map[string]interface{})
	assert.Equal(t, "minimal", page["layout"])

	skills := sectionByTitle(t, spec, "Skills")
	props := skills["props"].(map[string]interface{})
	assert.Equal(t, "tags", props["variant"])
	assert.Len(t, props["items"], 12)

	projects := sectionByTitle(t, spec, "Projects")
	props = projects["props"].(map[string]interface{})
	assert.Equal(t, 2, props["columns"])
	assert.Len(t, props["items"], 6)
}

func TestGenerateUISpecProjectEmphasisOrdersGridFirst(t *testing.T) {
	spec := GenerateUISpec("showcase the projects", specDoc())
	require.NoError(t, model.ValidateUISpec(spec))

	types := sectionTypes(spec)
	gridIdx, expIdx := -1, -1
	for i, kind := range types {
		if kind == "grid" && gridIdx == -1 {
			gridIdx = i
		}
	}
	raw := spec["sections"].([]interface{})
	for i, item := range raw {
		props, _ := item.(map[string]interface{})["props"].(map[string]interface{})
		if props != nil && props["title"] == "Experience" {
			expIdx = i
		}
	}
	require.NotEqual(t, -1, gridIdx)
	require.NotEqual(t, -1, expIdx)
	assert.Less(t, gridIdx, expIdx)
}

func TestGenerateUISpecContactChips(t *testing.T) {
	spec := GenerateUISpec("", specDoc())
	require.NoError(t, model.ValidateUISpec(spec))

	var contact map[string]interface{}
	for _, item := range spec["sections"].([]interface{}) {
		m := item.(map[string]interface{})
		if m["type"] == "contact" {
			contact = m
		}
	}
	require.NotNil(t, contact)

	items := contact["props"].(map[string]interface{})["items"].([]interface{})
	urls, emails, phones := 0, 0, 0
	for _, item := range items {
		chip := item.(map[string]interface{})
		switch chip["type"] {
		case "url":
			urls++
			assert.Contains(t, chip["href"], "https://")
		case "email":
			emails++
		case "phone":
			phones++
		}
	}
	// non-https URLs are dropped, emails are capped at two
	assert.Equal(t, 1, urls)
	assert.Equal(t, 2, emails)
	assert.Equal(t, 1, phones)
}

func TestGenerateUISpecTruncatesLongValues(t *testing.T) {
	longName := ""
	for i := 0; i < 50; i++ {
		longName += "verylongname"
	}
	spec := GenerateUISpec("", model.Document{"name": longName})

	hero := spec["sections"].([]interface{})[0].(map[string]interface{})
	props := hero["props"].(map[string]interface{})
	assert.LessOrEqual(t, len(props["title"].(string)), 280)
}
