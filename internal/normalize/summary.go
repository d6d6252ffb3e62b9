package normalize

import (
	"strings"
	"unicode/utf8"

	"portfolio-editor/internal/model"
)

// MaxJobDescription caps the stored job description; longer inputs are cut
// and terminated with an ellipsis.
const MaxJobDescription = 4096

// jobDescriptionExcerpt is how much of the job description the synthesized
// summary quotes back.
const jobDescriptionExcerpt = 157

// NormalizeJobDescription flattens a job description to a single line and
// caps its length.
func NormalizeJobDescription(v interface{}) string {
	text := ExtractText(v)
	text = collapseWhitespace(strings.Join(strings.Split(text, "\n"), " "))
	if utf8.RuneCountInString(text) > MaxJobDescription {
		text = strings.TrimRight(string([]rune(text)[:MaxJobDescription-3]), " ") + "…"
	}
	return text
}

// SynthesizeSummary builds a deterministic prose summary for documents whose
// parser output carried none. The template depends on whether a lead
// experience entry and skill highlights are available; a job description
// adds a trailing tailoring sentence. The result never leads with the
// user's own name.
func SynthesizeSummary(doc model.Document) string {
	var lead *model.Experience
	if entries := doc.ExperienceList(); len(entries) > 0 {
		lead = &entries[0]
	}

	highlights := []string{}
	for _, skill := range TextList(doc["skills"]) {
		highlights = append(highlights, skill)
		if len(highlights) == 3 {
			break
		}
	}

	var b strings.Builder
	switch {
	case lead != nil && lead.Role != "" && len(highlights) > 0:
		b.WriteString("Seasoned " + lead.Role)
		if lead.Company != "" {
			b.WriteString(" with experience at " + lead.Company)
		}
		b.WriteString(", working across " + strings.Join(highlights, ", ") + ".")
	case lead != nil && lead.Role != "":
		b.WriteString("Seasoned " + lead.Role)
		if lead.Company != "" {
			b.WriteString(" with a track record at " + lead.Company)
		}
		b.WriteString(".")
	case len(highlights) > 0:
		b.WriteString("Hands-on professional working across " + strings.Join(highlights, ", ") + ".")
	default:
		b.WriteString("Motivated professional ready to share selected work and experience.")
	}

	if jd := doc.String("job_description"); jd != "" {
		excerpt := jd
		suffix := ""
		if utf8.RuneCountInString(excerpt) > jobDescriptionExcerpt {
			excerpt = strings.TrimRight(string([]rune(excerpt)[:jobDescriptionExcerpt]), " ")
			suffix = "…"
		}
		b.WriteString(" Tailored to the job description: " + excerpt + suffix)
	}

	return collapseWhitespace(b.String())
}
