package preview

import "strings"

// SchemaBlock is one renderable unit of the generated-spec alternate
// renderer. The component set is fixed; anything else in a spec is skipped.
type SchemaBlock struct {
	Type     string // hero, heading, paragraph, list, grid, contact
	Title    string
	Subtitle string
	Text     string
	Variant  string // list: bullets or tags
	Columns  int    // grid: 2 or 3
	Items    []SchemaItem
	Chips    []Chip
}

// SchemaItem is a list or grid entry.
type SchemaItem struct {
	Title string
	Body  string
	Link  string
}

// SchemaPlan turns a generated UI spec into renderable blocks. Unknown
// section types are skipped, missing props are treated as empty, and
// hyperlinks that are not https are dropped.
func SchemaPlan(spec map[string]interface{}) []SchemaBlock {
	raw, _ := spec["sections"].([]interface{})
	blocks := []SchemaBlock{}
	for _, item := range raw {
		section, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		kind, _ := section["type"].(string)
		props, _ := section["props"].(map[string]interface{})
		if props == nil {
			props = map[string]interface{}{}
		}

		switch kind {
		case "hero":
			blocks = append(blocks, SchemaBlock{
				Type:     kind,
				Title:    propString(props, "title"),
				Subtitle: propString(props, "subtitle"),
			})
		case "heading":
			if text := propString(props, "text", "title"); text != "" {
				blocks = append(blocks, SchemaBlock{Type: kind, Text: text})
			}
		case "paragraph":
			if text := propString(props, "text", "body"); text != "" {
				blocks = append(blocks, SchemaBlock{Type: kind, Text: text})
			}
		case "list":
			variant := propString(props, "variant")
			if variant != "tags" {
				variant = "bullets"
			}
			items := schemaItems(props["items"])
			if len(items) > 0 {
				blocks = append(blocks, SchemaBlock{
					Type:    kind,
					Title:   propString(props, "title"),
					Variant: variant,
					Items:   items,
				})
			}
		case "grid":
			columns := 3
			if c, ok := props["columns"].(float64); ok && int(c) == 2 {
				columns = 2
			}
			items := schemaItems(props["items"])
			if len(items) > 0 {
				blocks = append(blocks, SchemaBlock{
					Type:    kind,
					Title:   propString(props, "title"),
					Columns: columns,
					Items:   items,
				})
			}
		case "contact":
			chips := schemaChips(props["items"])
			if len(chips) > 0 {
				blocks = append(blocks, SchemaBlock{Type: kind, Chips: chips})
			}
		}
	}
	return blocks
}

func propString(props map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := props[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func schemaItems(v interface{}) []SchemaItem {
	raw, _ := v.([]interface{})
	items := []SchemaItem{}
	for _, entry := range raw {
		switch t := entry.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				items = append(items, SchemaItem{Title: s})
			}
		case map[string]interface{}:
			item := SchemaItem{
				Title: propString(t, "title", "label"),
				Body:  propString(t, "body", "text"),
			}
			if link := propString(t, "link", "href"); strings.HasPrefix(link, "https://") {
				item.Link = link
			}
			if item.Title != "" || item.Body != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func schemaChips(v interface{}) []Chip {
	raw, _ := v.([]interface{})
	chips := []Chip{}
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		chip := Chip{
			Label: propString(m, "label"),
			Kind:  propString(m, "type"),
		}
		href := propString(m, "href")
		switch {
		case strings.HasPrefix(href, "https://"),
			strings.HasPrefix(href, "mailto:"),
			strings.HasPrefix(href, "tel:"):
			chip.Href = href
		default:
			chip.Kind = "text"
		}
		if chip.Label != "" {
			chips = append(chips, chip)
		}
	}
	return chips
}
