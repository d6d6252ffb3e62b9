package model

import "strings"

// Portfolio publication states, mirrored between the Meta record and the
// portfolio_drafts table.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	VisibilityPrivate  = "private"
	VisibilityUnlisted = "unlisted"
	VisibilityPublic   = "public"
)

// Document is the canonical editable portfolio payload. It stays JSON-shaped
// (strings, []interface{}, map[string]interface{}) so that dynamic sections
// discovered in parser output survive serialization untouched. Typed access
// to the known records goes through the decode helpers in records.go.
type Document map[string]interface{}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out, _ := CloneValue(map[string]interface{}(d)).(map[string]interface{})
	if out == nil {
		return Document{}
	}
	return Document(out)
}

// String returns the trimmed string stored under key, or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return strings.TrimSpace(s)
}

// Map returns the map stored under key, or nil.
func (d Document) Map(key string) map[string]interface{} {
	m, _ := d[key].(map[string]interface{})
	return m
}

// List returns the list stored under key, or nil.
func (d Document) List(key string) []interface{} {
	l, _ := d[key].([]interface{})
	return l
}

// SectionOrder reads layout.sectionOrder as a string slice.
func (d Document) SectionOrder() []string {
	layout := d.Map("layout")
	if layout == nil {
		return nil
	}
	raw, _ := layout["sectionOrder"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SetSectionOrder writes layout.sectionOrder, creating layout when missing.
func (d Document) SetSectionOrder(order []string) {
	layout := d.Map("layout")
	if layout == nil {
		layout = map[string]interface{}{}
		d["layout"] = layout
	}
	raw := make([]interface{}, 0, len(order))
	for _, key := range order {
		raw = append(raw, key)
	}
	layout["sectionOrder"] = raw
}

// SectionVisible reports whether a section should render. Absence of an
// entry means visible.
func (d Document) SectionVisible(key string) bool {
	vis := d.Map("sectionVisibility")
	if vis == nil {
		return true
	}
	if visible, ok := vis[key].(bool); ok {
		return visible
	}
	return true
}

// ToggleSection flips the visibility flag for key.
func (d Document) ToggleSection(key string) {
	vis := d.Map("sectionVisibility")
	if vis == nil {
		vis = map[string]interface{}{}
		d["sectionVisibility"] = vis
	}
	current := true
	if b, ok := vis[key].(bool); ok {
		current = b
	}
	vis[key] = !current
}

// CloneValue deep-copies a JSON-shaped value. Scalars are returned as-is;
// anything outside the JSON shape set is passed through by reference, which
// is acceptable because normalization only ever emits JSON-shaped values.
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
