package usecase

import (
	"strings"
	"unicode/utf8"

	"portfolio-editor/internal/model"
)

// MaxGenerativePrompt caps prompt length for the generative preview.
const MaxGenerativePrompt = 2000

// truncateTo cuts at a rune boundary so multibyte text stays valid UTF-8.
func truncateTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return string([]rune(s)[:max])
	}
	return s
}

// GenerateUISpec produces a constrained UI schema from a prompt and a
// document without any external calls. It only ever emits the fixed
// component set; never markup or code.
func GenerateUISpec(prompt string, doc model.Document) map[string]interface{} {
	prompt = truncateTo(prompt, MaxGenerativePrompt)
	lowered := strings.ToLower(prompt)
	emphasizeProjects := containsAny(lowered, "project", "work", "showcase")
	minimal := containsAny(lowered, "minimal", "clean", "airy", "simple")

	sections := []interface{}{}

	name := doc.String("name")
	if name == "" {
		name = "Your Name"
	}
	summary := doc.String("summary")
	if summary == "" {
		summary = "Professional summary goes here."
	}
	sections = append(sections, specSection("hero", map[string]interface{}{
		"title":    truncateTo(name, 280),
		"subtitle": truncateTo(summary, 280),
	}))

	skills := []interface{}{}
	for _, item := range doc.List("skills") {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			skills = append(skills, strings.TrimSpace(s))
			if len(skills) == 12 {
				break
			}
		}
	}
	if len(skills) > 0 {
		variant := "bullets"
		if minimal {
			variant = "tags"
		}
		sections = append(sections, specSection("list", map[string]interface{}{
			"title":   "Skills",
			"variant": variant,
			"items":   skills,
		}))
	}

	projectSections := func() []interface{} {
		cards := []interface{}{}
		for _, project := range doc.ProjectList() {
			title := project.Name
			if title == "" {
				title = "Project"
			}
			cards = append(cards, map[string]interface{}{
				"title": truncateTo(title, 80),
				"body":  truncateTo(project.Description, 220),
				"link":  project.Link,
			})
			if len(cards) == 6 {
				break
			}
		}
		if len(cards) == 0 {
			return nil
		}
		columns := 3
		if minimal {
			columns = 2
		}
		return []interface{}{specSection("grid", map[string]interface{}{
			"title":   "Projects",
			"items":   cards,
			"columns": columns,
		})}
	}

	experienceSections := func() []interface{} {
		items := []interface{}{}
		for _, entry := range doc.ExperienceList() {
			head := entry.Role
			if entry.Company != "" {
				if head != "" {
					head += " · "
				}
				head += entry.Company
			}
			body := strings.Join(entry.Bullets, "\n")
			if body == "" {
				body = entry.Period
			}
			items = append(items, map[string]interface{}{
				"title": truncateTo(head, 120),
				"body":  truncateTo(body, 220),
			})
			if len(items) == 6 {
				break
			}
		}
		if len(items) == 0 {
			return nil
		}
		return []interface{}{specSection("list", map[string]interface{}{
			"title":   "Experience",
			"variant": "bullets",
			"items":   items,
		})}
	}

	if emphasizeProjects {
		sections = append(sections, projectSections()...)
		sections = append(sections, experienceSections()...)
	} else {
		sections = append(sections, experienceSections()...)
		sections = append(sections, projectSections()...)
	}

	contact := doc.ContactInfo()
	chips := []interface{}{}
	for _, u := range contact.URLs {
		if !strings.HasPrefix(u, "https://") {
			continue
		}
		chips = append(chips, map[string]interface{}{"type": "url", "label": u, "href": u})
		if len(chips) == 5 {
			break
		}
	}
	for i, e := range contact.Emails {
		if i == 2 {
			break
		}
		chips = append(chips, map[string]interface{}{"type": "email", "label": e, "href": "mailto:" + e})
	}
	for i, p := range contact.Phones {
		if i == 2 {
			break
		}
		chips = append(chips, map[string]interface{}{"type": "phone", "label": p, "href": "tel:" + p})
	}
	if len(chips) > 0 {
		sections = append(sections, specSection("contact", map[string]interface{}{"items": chips}))
	}

	layout := "default"
	if minimal {
		layout = "minimal"
	}
	return map[string]interface{}{
		"page":     map[string]interface{}{"layout": layout},
		"sections": sections,
	}
}

func specSection(kind string, props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": kind, "props": props}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
