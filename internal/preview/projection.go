// Package preview is the pure view logic shared by the live editor panel,
// the draft preview page and the public portfolio page. Given a document
// and an effective section order it decides, per section key, how that
// section renders; actual markup stays with the callers.
package preview

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"

	"portfolio-editor/internal/model"
	"portfolio-editor/internal/sections"
)

// Section kinds.
const (
	KindHeader       = "header"
	KindSummary      = "summary"
	KindContact      = "contact"
	KindTimeline     = "timeline"
	KindProjectCards = "project-cards"
	KindEducation    = "education"
	KindTags         = "tags"
	KindGenericTags  = "generic-tags"
	KindGenericCards = "generic-cards"
)

// Section is one render decision.
type Section struct {
	Key   string
	Kind  string
	Title string

	Text       string
	Theme      model.ThemeOption
	Chips      []Chip
	Experience []model.Experience
	Projects   []model.Project
	Education  []model.Education
	Tags       []string
	Cards      []GenericCard
}

// Chip is a single contact entry with its click-through classification.
type Chip struct {
	Label string
	Href  string
	Kind  string // email, phone, url, text
}

// GenericCard renders an unknown object section: every non-id field as a
// labeled value, list values as bullets.
type GenericCard struct {
	Fields []CardField
}

type CardField struct {
	Label   string
	Value   string
	Bullets []string
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+()\d][\d\s().\-]{6,}$`)
	telStrip     = regexp.MustCompile(`[^+\d]`)
)

// Project computes the ordered, visibility-filtered render plan.
func Project(doc model.Document, order []string, titles map[string]string) []Section {
	available := sections.Available(doc)
	effective := sections.NormalizeOrder(order, available)
	specTitles := generatedSpecTitles(doc, available)

	out := []Section{}
	for _, key := range effective {
		if !doc.SectionVisible(key) {
			continue
		}
		section, ok := projectSection(doc, key)
		if !ok {
			continue
		}
		section.Title = resolveTitle(key, titles, specTitles)
		out = append(out, section)
	}
	return out
}

func projectSection(doc model.Document, key string) (Section, bool) {
	switch key {
	case "name":
		return Section{Key: key, Kind: KindHeader, Text: doc.String("name"), Theme: doc.SelectedTheme()}, true
	case "summary":
		return Section{Key: key, Kind: KindSummary, Text: doc.String("summary")}, true
	case "contact":
		return Section{Key: key, Kind: KindContact, Chips: ContactChips(doc.ContactInfo())}, true
	case "experience":
		return Section{Key: key, Kind: KindTimeline, Experience: doc.ExperienceList()}, true
	case "projects":
		return Section{Key: key, Kind: KindProjectCards, Projects: doc.ProjectList()}, true
	case "education":
		return Section{Key: key, Kind: KindEducation, Education: doc.EducationList()}, true
	case "skills":
		return Section{Key: key, Kind: KindTags, Tags: tagValues(doc.List("skills"))}, true
	default:
		return genericSection(doc, key)
	}
}

// genericSection renders dynamic keys: lists of text as tag clouds, lists of
// objects as card stacks, non-empty objects as a single card.
func genericSection(doc model.Document, key string) (Section, bool) {
	switch value := doc[key].(type) {
	case []interface{}:
		if len(value) == 0 {
			return Section{}, false
		}
		if cards := genericCards(value); len(cards) > 0 {
			return Section{Key: key, Kind: KindGenericCards, Cards: cards}, true
		}
		return Section{Key: key, Kind: KindGenericTags, Tags: tagValues(value)}, true
	case map[string]interface{}:
		if len(value) == 0 {
			return Section{}, false
		}
		card, ok := genericCard(value)
		if !ok {
			return Section{}, false
		}
		return Section{Key: key, Kind: KindGenericCards, Cards: []GenericCard{card}}, true
	default:
		return Section{}, false
	}
}

func genericCards(items []interface{}) []GenericCard {
	cards := []GenericCard{}
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		if card, ok := genericCard(m); ok {
			cards = append(cards, card)
		}
	}
	return cards
}

func genericCard(m map[string]interface{}) (GenericCard, bool) {
	keys := make([]string, 0, len(m))
	for key := range m {
		if key == "id" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := []CardField{}
	for _, key := range keys {
		field := CardField{Label: Humanize(key)}
		switch value := m[key].(type) {
		case []interface{}:
			field.Bullets = tagValues(value)
			if len(field.Bullets) == 0 {
				continue
			}
		default:
			field.Value = scalarText(value)
			if field.Value == "" {
				continue
			}
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return GenericCard{}, false
	}
	return GenericCard{Fields: fields}, true
}

func tagValues(items []interface{}) []string {
	out := []string{}
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]interface{}:
			// skills sometimes arrive as {name: "Go"}
			if s, ok := t["name"].(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		default:
			if s := scalarText(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return ""
	}
}

// ContactChips classifies contact entries for click-through: a mailto link
// for email-shaped values, a tel link for phone-shaped values, a hyperlink
// for parseable http(s) URLs, plain text otherwise.
func ContactChips(contact model.Contact) []Chip {
	chips := []Chip{}
	for _, email := range contact.Emails {
		if emailPattern.MatchString(email) {
			chips = append(chips, Chip{Label: email, Href: "mailto:" + email, Kind: "email"})
		} else if email != "" {
			chips = append(chips, Chip{Label: email, Kind: "text"})
		}
	}
	for _, phone := range contact.Phones {
		if phonePattern.MatchString(phone) {
			chips = append(chips, Chip{Label: phone, Href: "tel:" + telStrip.ReplaceAllString(phone, ""), Kind: "phone"})
		} else if phone != "" {
			chips = append(chips, Chip{Label: phone, Kind: "text"})
		}
	}
	for _, raw := range contact.URLs {
		if href, ok := ClickableURL(raw); ok {
			chips = append(chips, Chip{Label: urlLabel(href), Href: href, Kind: "url"})
		} else if raw != "" {
			chips = append(chips, Chip{Label: raw, Kind: "text"})
		}
	}
	return chips
}

// ClickableURL reports whether a value parses as an http(s) URL suitable
// for a hyperlink.
func ClickableURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	return raw, true
}

// urlLabel produces a tidy label for a URL chip: the eTLD+1 when it can be
// derived, the bare hostname otherwise.
func urlLabel(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

// Humanize turns a field or section key into a display label.
func Humanize(key string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(key))
	words := strings.Fields(cleaned)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func resolveTitle(key string, titles, specTitles map[string]string) string {
	if title, ok := titles[key]; ok && title != "" {
		return title
	}
	if title, ok := specTitles[key]; ok && title != "" {
		return title
	}
	return Humanize(key)
}

// generatedSpecTitles maps registry keys to titles carried by the generated
// spec's matching sections.
func generatedSpecTitles(doc model.Document, available []string) map[string]string {
	spec := doc.Map("generatedSpec")
	if spec == nil {
		return nil
	}
	raw, _ := spec["sections"].([]interface{})
	titles := map[string]string{}
	for _, item := range raw {
		section, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		key := sections.MatchSection(section, available)
		if key == "" {
			continue
		}
		title, _ := section["title"].(string)
		if title == "" {
			if props, ok := section["props"].(map[string]interface{}); ok {
				title, _ = props["title"].(string)
			}
		}
		if title != "" {
			if _, exists := titles[key]; !exists {
				titles[key] = title
			}
		}
	}
	return titles
}
