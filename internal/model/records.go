package model

import "strings"

// Typed views over the Document's known records. Experience, Project and
// Education stay distinct types: their editor surfaces and preview
// projections differ, so they are never unified into one item shape.

type Experience struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Period  string   `json:"period"`
	Bullets []string `json:"bullets"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role,omitempty"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Bullets     []string `json:"bullets"`
}

type Education struct {
	ID     string `json:"id"`
	School string `json:"school"`
	Degree string `json:"degree"`
	Period string `json:"period"`
}

type Contact struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
	URLs   []string `json:"urls"`
}

type ThemeOption struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

// JobType carries a classifier verdict for either the job description or
// the resume itself.
type JobType struct {
	Category      string   `json:"category"`
	CategoryID    string   `json:"category_id"`
	Confidence    float64  `json:"confidence"`
	Matches       []string `json:"matches"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	Similarity    float64  `json:"similarity,omitempty"`
}

// Meta is the draft identity and publication state, serialized into the
// Document under "meta" with snake_case keys.
type Meta struct {
	ResumeID    string `json:"resume_id"`
	PortfolioID string `json:"portfolio_id"`
	Status      string `json:"status"`
	Visibility  string `json:"visibility"`
	Slug        string `json:"slug"`
	PublishedAt string `json:"published_at"`
}

// ThemeOptions is the built-in palette used whenever a document carries no
// usable theme options of its own.
func ThemeOptions() []ThemeOption {
	return []ThemeOption{
		{ID: "aurora", Name: "Aurora", Primary: "#42a5f5", Accent: "#f472b6"},
		{ID: "midnight", Name: "Midnight", Primary: "#6366f1", Accent: "#22d3ee"},
		{ID: "dawn", Name: "Dawn", Primary: "#f97316", Accent: "#facc15"},
	}
}

func mapString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func mapStrings(m map[string]interface{}, key string) []string {
	raw, _ := m[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func stringsToList(items []string) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, s := range items {
		out = append(out, s)
	}
	return out
}

// ExperienceList decodes the experience section.
func (d Document) ExperienceList() []Experience {
	raw := d.List("experience")
	out := make([]Experience, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Experience{
			ID:      mapString(m, "id"),
			Role:    mapString(m, "role"),
			Company: mapString(m, "company"),
			Period:  mapString(m, "period"),
			Bullets: mapStrings(m, "bullets"),
		})
	}
	return out
}

func (e Experience) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":      e.ID,
		"role":    e.Role,
		"company": e.Company,
		"period":  e.Period,
		"bullets": stringsToList(e.Bullets),
	}
}

// ProjectList decodes the projects section.
func (d Document) ProjectList() []Project {
	raw := d.List("projects")
	out := make([]Project, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Project{
			ID:          mapString(m, "id"),
			Name:        mapString(m, "name"),
			Role:        mapString(m, "role"),
			Description: mapString(m, "description"),
			Link:        mapString(m, "link"),
			Bullets:     mapStrings(m, "bullets"),
		})
	}
	return out
}

func (p Project) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"link":        p.Link,
		"bullets":     stringsToList(p.Bullets),
	}
	if p.Role != "" {
		m["role"] = p.Role
	}
	return m
}

// EducationList decodes the education section.
func (d Document) EducationList() []Education {
	raw := d.List("education")
	out := make([]Education, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Education{
			ID:     mapString(m, "id"),
			School: mapString(m, "school"),
			Degree: mapString(m, "degree"),
			Period: mapString(m, "period"),
		})
	}
	return out
}

func (e Education) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":     e.ID,
		"school": e.School,
		"degree": e.Degree,
		"period": e.Period,
	}
}

// ContactInfo decodes the contact block.
func (d Document) ContactInfo() Contact {
	m := d.Map("contact")
	if m == nil {
		return Contact{Emails: []string{}, Phones: []string{}, URLs: []string{}}
	}
	return Contact{
		Emails: mapStrings(m, "emails"),
		Phones: mapStrings(m, "phones"),
		URLs:   mapStrings(m, "urls"),
	}
}

func (c Contact) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"emails": stringsToList(c.Emails),
		"phones": stringsToList(c.Phones),
		"urls":   stringsToList(c.URLs),
	}
}

// Themes decodes the theme block, falling back to the built-in palette.
func (d Document) Themes() (selected string, options []ThemeOption) {
	options = ThemeOptions()
	m := d.Map("themes")
	if m != nil {
		if raw, ok := m["options"].([]interface{}); ok && len(raw) > 0 {
			decoded := make([]ThemeOption, 0, len(raw))
			for _, item := range raw {
				om, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				opt := ThemeOption{
					ID:      mapString(om, "id"),
					Name:    mapString(om, "name"),
					Primary: mapString(om, "primary"),
					Accent:  mapString(om, "accent"),
				}
				if opt.ID != "" {
					decoded = append(decoded, opt)
				}
			}
			if len(decoded) > 0 {
				options = decoded
			}
		}
		selected = mapString(m, "selected")
	}
	valid := false
	for _, opt := range options {
		if opt.ID == selected {
			valid = true
			break
		}
	}
	if !valid {
		selected = options[0].ID
	}
	return selected, options
}

// SelectedTheme resolves the active theme option.
func (d Document) SelectedTheme() ThemeOption {
	selected, options := d.Themes()
	for _, opt := range options {
		if opt.ID == selected {
			return opt
		}
	}
	return options[0]
}

func (t ThemeOption) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":      t.ID,
		"name":    t.Name,
		"primary": t.Primary,
		"accent":  t.Accent,
	}
}

// MetaRecord decodes the meta block.
func (d Document) MetaRecord() Meta {
	m := d.Map("meta")
	if m == nil {
		return Meta{Status: StatusDraft, Visibility: VisibilityPrivate}
	}
	meta := Meta{
		ResumeID:    mapString(m, "resume_id"),
		PortfolioID: mapString(m, "portfolio_id"),
		Status:      mapString(m, "status"),
		Visibility:  mapString(m, "visibility"),
		Slug:        mapString(m, "slug"),
		PublishedAt: mapString(m, "published_at"),
	}
	if meta.Status == "" {
		meta.Status = StatusDraft
	}
	if meta.Visibility == "" {
		meta.Visibility = VisibilityPrivate
	}
	return meta
}

// ApplyMeta serializes meta into the document, preserving any extra keys
// already present under "meta" (storage metadata and the like). Slug and
// published_at are present iff non-empty.
func (d Document) ApplyMeta(meta Meta) {
	m := d.Map("meta")
	if m == nil {
		m = map[string]interface{}{}
	}
	m["resume_id"] = meta.ResumeID
	m["portfolio_id"] = meta.PortfolioID
	m["status"] = meta.Status
	m["visibility"] = meta.Visibility
	if meta.Slug != "" {
		m["slug"] = meta.Slug
	} else {
		delete(m, "slug")
	}
	if meta.PublishedAt != "" {
		m["published_at"] = meta.PublishedAt
	} else {
		delete(m, "published_at")
	}
	d["meta"] = m
}

func (j JobType) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"category":    j.Category,
		"category_id": j.CategoryID,
		"confidence":  j.Confidence,
		"matches":     stringsToList(j.Matches),
	}
	if len(j.MatchedSkills) > 0 {
		m["matched_skills"] = stringsToList(j.MatchedSkills)
	}
	if j.Similarity > 0 {
		m["similarity"] = j.Similarity
	}
	return m
}

// JobTypeRecord decodes a classifier block stored under key.
func (d Document) JobTypeRecord(key string) JobType {
	m := d.Map(key)
	if m == nil {
		return JobType{Category: "General", CategoryID: "general", Matches: []string{}}
	}
	jt := JobType{
		Category:      mapString(m, "category"),
		CategoryID:    mapString(m, "category_id"),
		Matches:       mapStrings(m, "matches"),
		MatchedSkills: mapStrings(m, "matched_skills"),
	}
	if f, ok := m["confidence"].(float64); ok {
		jt.Confidence = f
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
	return jt
}
