// Package normalize is the single conversion site between arbitrary parser
// payloads (or user edits) and the canonical Document shape. It never fails:
// hostile input degrades to the initial empty document and malformed pieces
// degrade to empty fields.
package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"portfolio-editor/internal/model"
	"portfolio-editor/internal/sections"
)

// maxRawResumeText caps the verbatim parser echo carried under raw.
const maxRawResumeText = 8 * 1024

// handledKeys are consumed by the canonical fields below and are not carried
// through as dynamic sections. Everything else in the payload survives.
var handledKeys = map[string]bool{
	"name": true, "summary": true, "job_description": true,
	"experience": true, "projects": true, "education": true, "skills": true,
	"contact": true, "embedded_links": true, "themes": true, "theme": true,
	"raw": true, "layout": true, "sectionVisibility": true,
	"generatedSpec": true, "meta": true,
	"job_type": true, "resume_job_type": true,

	"emails": true, "email": true, "phones": true, "phone": true,
	"phone_number": true, "urls": true, "url": true, "links": true,
	"websites": true, "profiles": true,
}

func mintID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Initial returns the canonical empty document.
func Initial() model.Document {
	doc := model.Document{
		"name":            "",
		"summary":         "",
		"job_description": "",
		"experience":      []interface{}{},
		"projects":        []interface{}{},
		"education":       []interface{}{},
		"skills":          []interface{}{},
		"contact":         model.Contact{Emails: []string{}, Phones: []string{}, URLs: []string{}}.ToMap(),
		"embedded_links":  []interface{}{},
		"themes":          defaultThemes(""),
		"raw":             map[string]interface{}{},
	}
	doc["summary"] = SynthesizeSummary(doc)
	doc.SetSectionOrder(sections.Available(doc))
	return doc
}

// Normalize coerces any value into a valid Document.
func Normalize(v interface{}) model.Document {
	m := asMap(v)
	if m == nil {
		return Initial()
	}
	m = unwrap(m)

	out := model.Document{}

	name := ExtractText(m["name"])
	out["name"] = name
	out["job_description"] = NormalizeJobDescription(m["job_description"])
	out["experience"] = experienceEntries(m["experience"])
	out["projects"] = projectEntries(m["projects"])
	out["education"] = educationEntries(m["education"])
	out["skills"] = stringsToList(SplitSkills(m["skills"]))
	out["contact"] = contactBlock(m)
	out["embedded_links"] = embeddedLinks(m["embedded_links"])
	out["themes"] = themesBlock(m)

	if raw, ok := m["raw"].(map[string]interface{}); ok {
		out["raw"] = capRawText(model.CloneValue(raw).(map[string]interface{}))
	} else {
		out["raw"] = capRawText(model.CloneValue(m).(map[string]interface{}))
	}

	for _, key := range []string{"job_type", "resume_job_type"} {
		if jt, ok := m[key].(map[string]interface{}); ok {
			out[key] = coerceJobType(jt)
		}
	}

	if vis, ok := m["sectionVisibility"].(map[string]interface{}); ok {
		cleaned := map[string]interface{}{}
		for key, raw := range vis {
			if b, ok := raw.(bool); ok {
				cleaned[key] = b
			}
		}
		if len(cleaned) > 0 {
			out["sectionVisibility"] = cleaned
		}
	}

	if spec, ok := m["generatedSpec"].(map[string]interface{}); ok {
		out["generatedSpec"] = model.CloneValue(spec)
	}
	if meta, ok := m["meta"].(map[string]interface{}); ok {
		out["meta"] = model.CloneValue(meta)
	}

	// dynamic sections and any other sidecar keys survive verbatim
	for key, value := range m {
		if handledKeys[key] {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = model.CloneValue(value)
	}

	summary := collapseSummary(m["summary"])
	if summary == "" {
		summary = SynthesizeSummary(out)
	}
	out["summary"] = StripNamePrefix(summary, name)

	out.SetSectionOrder(sections.NormalizeOrder(sectionOrderFrom(m), sections.Available(out)))

	return out
}

func asMap(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case model.Document:
		return map[string]interface{}(t)
	case map[string]interface{}:
		return t
	default:
		return nil
	}
}

// unwrap peels {"data": {...}} style envelopes that some transports wrap
// around the document.
func unwrap(m map[string]interface{}) map[string]interface{} {
	for depth := 0; depth < 3; depth++ {
		if hasDocumentField(m) {
			return m
		}
		inner, ok := m["data"].(map[string]interface{})
		if !ok {
			inner, ok = m["document"].(map[string]interface{})
		}
		if !ok {
			return m
		}
		m = inner
	}
	return m
}

func hasDocumentField(m map[string]interface{}) bool {
	for _, key := range []string{"name", "summary", "experience", "projects", "education", "skills", "contact"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func collapseSummary(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}, []string:
		return ExtractText(t)
	default:
		return ""
	}
}

func stringsToList(items []string) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, s := range items {
		out = append(out, s)
	}
	return out
}

func firstText(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := ExtractText(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func formatPeriod(m map[string]interface{}) string {
	start := ExtractText(m["start_date"])
	end := ExtractText(m["end_date"])
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	if start != "" && end != "" {
		return start + " — " + end
	}
	if start != "" {
		return start
	}
	return end
}

func experienceEntries(v interface{}) []interface{} {
	raw, _ := v.([]interface{})
	out := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry := model.Experience{
			ID:      firstText(m, "id"),
			Role:    firstText(m, "role", "title", "position"),
			Company: firstText(m, "company", "organization", "employer"),
			Period:  firstText(m, "period"),
		}
		if entry.ID == "" {
			entry.ID = mintID("exp")
		}
		if entry.Period == "" {
			entry.Period = formatPeriod(m)
		}
		bullets := m["bullets"]
		if bullets == nil {
			bullets = m["achievements"]
		}
		if bullets == nil {
			bullets = m["highlights"]
		}
		entry.Bullets = SplitBullets(bullets)
		out = append(out, entry.ToMap())
	}
	return out
}

func projectEntries(v interface{}) []interface{} {
	raw, _ := v.([]interface{})
	out := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		bullets := []string{}
		for _, key := range []string{"bullets", "highlights", "achievements", "details"} {
			bullets = append(bullets, SplitBullets(m[key])...)
		}
		bullets = dedupeText(bullets)

		descriptionText := firstText(m, "description", "summary")
		if len(bullets) == 0 && descriptionText != "" {
			bullets = SplitBullets(descriptionText)
		}
		description := descriptionText
		if len(bullets) > 0 {
			description = strings.Join(bullets, "\n")
		}

		entry := model.Project{
			ID:          firstText(m, "id"),
			Name:        firstText(m, "name", "title"),
			Role:        firstText(m, "role"),
			Description: description,
			Link:        firstText(m, "link", "url"),
			Bullets:     bullets,
		}
		if entry.ID == "" {
			entry.ID = mintID("proj")
		}
		out = append(out, entry.ToMap())
	}
	return out
}

func educationEntries(v interface{}) []interface{} {
	raw, _ := v.([]interface{})
	out := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry := model.Education{
			ID:     firstText(m, "id"),
			School: firstText(m, "school", "institution"),
			Degree: firstText(m, "degree", "program"),
			Period: firstText(m, "period"),
		}
		if entry.ID == "" {
			entry.ID = mintID("edu")
		}
		if entry.Period == "" {
			entry.Period = formatPeriod(m)
		}
		out = append(out, entry.ToMap())
	}
	return out
}

// contactBlock folds the contact object, top-level aliases and embedded
// mailto:/tel: links into one {emails, phones, urls} block. No protocol
// validation happens here; that belongs to the commit boundary.
func contactBlock(m map[string]interface{}) map[string]interface{} {
	contact, _ := m["contact"].(map[string]interface{})

	var emails, phones, urls []string
	if contact != nil {
		emails = TextList(contact["emails"])
		phones = TextList(contact["phones"])
		urls = TextList(contact["urls"])
	} else {
		emails = TextList(m["emails"])
		phones = TextList(m["phones"])
		urls = TextList(m["urls"])
	}

	emails = append(emails, TextList(m["email"])...)
	phones = append(phones, TextList(m["phone"])...)
	phones = append(phones, TextList(m["phone_number"])...)
	urls = append(urls, TextList(m["links"])...)
	urls = append(urls, TextList(m["profiles"])...)
	urls = append(urls, TextList(m["websites"])...)
	urls = append(urls, TextList(m["url"])...)

	for _, link := range embeddedLinkHrefs(m["embedded_links"]) {
		lower := strings.ToLower(link)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			if addr := strings.TrimSpace(strings.SplitN(link[len("mailto:"):], "?", 2)[0]); addr != "" {
				emails = append(emails, addr)
			}
		case strings.HasPrefix(lower, "tel:"):
			if num := strings.TrimSpace(strings.SplitN(link[len("tel:"):], "?", 2)[0]); num != "" {
				phones = append(phones, num)
			}
		default:
			urls = append(urls, link)
		}
	}

	return model.Contact{
		Emails: dedupeText(emails),
		Phones: dedupePhones(phones),
		URLs:   dedupeText(urls),
	}.ToMap()
}

// CommitContactURLs drops contact URLs that do not parse with an http or
// https protocol. The normalizer keeps such values so they can exist while
// being typed; every path that commits or persists the document runs this.
func CommitContactURLs(doc model.Document) {
	contact, _ := doc["contact"].(map[string]interface{})
	if contact == nil {
		return
	}
	kept := []string{}
	for _, raw := range TextList(contact["urls"]) {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		kept = append(kept, raw)
	}
	contact["urls"] = stringsToList(kept)
}

func embeddedLinkHrefs(v interface{}) []string {
	raw, _ := v.([]interface{})
	out := []string{}
	for _, item := range raw {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]interface{}:
			if s := ExtractText(t["url"]); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// embeddedLinks keeps the sidecar as a flat list of text.
func embeddedLinks(v interface{}) []interface{} {
	return stringsToList(embeddedLinkHrefs(v))
}

func defaultThemes(selected string) map[string]interface{} {
	options := model.ThemeOptions()
	raw := make([]interface{}, 0, len(options))
	valid := false
	for _, opt := range options {
		raw = append(raw, opt.ToMap())
		if opt.ID == selected {
			valid = true
		}
	}
	if !valid {
		selected = options[0].ID
	}
	return map[string]interface{}{"selected": selected, "options": raw}
}

// EnsureThemes repairs the theme block of a payload in place without
// touching anything else, for callers that must not re-normalize.
func EnsureThemes(m map[string]interface{}) {
	if m == nil {
		return
	}
	m["themes"] = themesBlock(m)
}

func themesBlock(m map[string]interface{}) map[string]interface{} {
	themes, _ := m["themes"].(map[string]interface{})
	selected := ""
	if themes != nil {
		selected = ExtractText(themes["selected"])
	}
	if selected == "" {
		selected = ExtractText(m["theme"])
	}

	if themes != nil {
		if rawOptions, ok := themes["options"].([]interface{}); ok && len(rawOptions) > 0 {
			options := make([]interface{}, 0, len(rawOptions))
			ids := []string{}
			for _, item := range rawOptions {
				om, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				opt := model.ThemeOption{
					ID:      ExtractText(om["id"]),
					Name:    ExtractText(om["name"]),
					Primary: ExtractText(om["primary"]),
					Accent:  ExtractText(om["accent"]),
				}
				if opt.ID == "" {
					continue
				}
				options = append(options, opt.ToMap())
				ids = append(ids, opt.ID)
			}
			if len(options) > 0 {
				valid := false
				for _, id := range ids {
					if id == selected {
						valid = true
						break
					}
				}
				if !valid {
					selected = ids[0]
				}
				return map[string]interface{}{"selected": selected, "options": options}
			}
		}
	}
	return defaultThemes(selected)
}

func capRawText(raw map[string]interface{}) map[string]interface{} {
	for _, key := range []string{"raw_resume_text", "raw_text"} {
		if s, ok := raw[key].(string); ok && utf8.RuneCountInString(s) > maxRawResumeText {
			raw[key] = strings.TrimRight(string([]rune(s)[:maxRawResumeText]), " ")
		}
	}
	return raw
}

func coerceJobType(m map[string]interface{}) map[string]interface{} {
	confidence := 0.0
	switch t := m["confidence"].(type) {
	case float64:
		confidence = t
	case int:
		confidence = float64(t)
	case string:
		fmt.Sscanf(strings.TrimSpace(t), "%f", &confidence)
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	jt := model.JobType{
		Category:      firstText(m, "category"),
		CategoryID:    firstText(m, "category_id"),
		Confidence:    confidence,
		Matches:       dedupeText(TextList(m["matches"])),
		MatchedSkills: dedupeText(TextList(m["matched_skills"])),
	}
	if f, ok := m["similarity"].(float64); ok {
		jt.Similarity = f
	}
	if jt.Category == "" {
		jt.Category = "General"
	}
	if jt.CategoryID == "" {
		jt.CategoryID = "general"
	}
	return jt.ToMap()
}

// sectionOrderFrom digs an order candidate out of a payload that is not yet
// a canonical document.
func sectionOrderFrom(m map[string]interface{}) []string {
	layout, _ := m["layout"].(map[string]interface{})
	if layout == nil {
		return nil
	}
	return TextList(layout["sectionOrder"])
}
