package usecase

import (
	"math"
	"sort"
	"strings"

	"portfolio-editor/internal/model"
	"portfolio-editor/internal/normalize"
)

// rawResumeFallbackConfidence: below this, a raw-text classification is
// discarded in favor of the structured fragments.
const rawResumeFallbackConfidence = 0.2

var definitionCounters = func() map[string]map[string]int {
	out := map[string]map[string]int{}
	for _, def := range JobTypeDefinitions {
		combined := strings.Join(append(append([]string{}, def.Keywords...), def.SkillKeywords...), " ")
		out[def.ID] = tokenCounter(tokenize(combined))
	}
	return out
}()

func generalJobType() model.JobType {
	return model.JobType{Category: "General", CategoryID: "general", Matches: []string{}}
}

// InferJobType classifies the target role from the document's job
// description, optionally aided by skill lists the parser attached to raw.
func InferJobType(doc model.Document) model.JobType {
	description := normalize.NormalizeJobDescription(doc["job_description"])
	var skillTokens map[string]bool
	if raw := doc.Map("raw"); raw != nil {
		skills := normalize.TextList(raw["job_description_skills"])
		if len(skills) == 0 {
			skills = normalize.TextList(raw["job_skills"])
		}
		if len(skills) > 0 {
			if tokens := skillTokenSet(skills); len(tokens) > 0 {
				skillTokens = tokens
			}
		}
	}
	return classify(description, skillTokens)
}

// InferResumeJobType classifies the resume itself: raw extracted text first,
// structured fragments as the fallback.
func InferResumeJobType(doc model.Document) model.JobType {
	skillTokens := skillTokenSet(normalize.TextList(doc["skills"]))
	if len(skillTokens) == 0 {
		skillTokens = nil
	}

	if raw := doc.Map("raw"); raw != nil {
		candidate, _ := raw["raw_resume_text"].(string)
		if candidate == "" {
			candidate, _ = raw["raw_text"].(string)
		}
		if candidate != "" {
			result := classify(normalize.NormalizeJobDescription(candidate), skillTokens)
			if result.CategoryID != "general" || result.Confidence >= rawResumeFallbackConfidence {
				return result
			}
		}
	}

	fragments := classificationFragments(doc)
	if len(fragments) == 0 {
		return classify("", skillTokens)
	}
	return classify(normalize.NormalizeJobDescription(strings.Join(fragments, " ")), skillTokens)
}

// classificationFragments gathers the prose that describes what the person
// actually does: summary, experience, projects, skills.
func classificationFragments(doc model.Document) []string {
	fragments := []string{}
	push := func(s string) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			fragments = append(fragments, trimmed)
		}
	}

	push(doc.String("summary"))
	for _, entry := range doc.ExperienceList() {
		push(entry.Role)
		push(entry.Company)
		for _, bullet := range entry.Bullets {
			push(bullet)
		}
	}
	for _, project := range doc.ProjectList() {
		push(project.Name)
		push(project.Description)
		for _, bullet := range project.Bullets {
			push(bullet)
		}
	}
	for _, skill := range normalize.TextList(doc["skills"]) {
		push(skill)
	}
	return fragments
}

type classifierBest struct {
	definition   JobTypeDefinition
	matches      []string
	skillMatches []string
	score        float64
	similarity   float64
}

// classify blends keyword hits (0.45), counter cosine similarity (0.35) and
// skill overlap (0.2) per definition and picks the winner. Confidence is a
// calibrated top-2 ratio rather than the raw score.
func classify(description string, skillTokens map[string]bool) model.JobType {
	clean := strings.Join(strings.Fields(description), " ")
	if clean == "" && len(skillTokens) == 0 {
		return generalJobType()
	}

	jobTokens := tokenize(clean)
	if len(jobTokens) == 0 && len(skillTokens) == 0 {
		return generalJobType()
	}
	jobCounter := tokenCounter(jobTokens)

	var best *classifierBest
	allScores := []float64{}
	for _, def := range JobTypeDefinitions {
		matches := []string{}
		for _, keyword := range def.Keywords {
			if keywordInText(keyword, clean) {
				matches = append(matches, keyword)
			}
		}
		keywordScore := float64(len(matches)) / math.Max(1, float64(len(def.Keywords)))
		semanticScore := cosineSimilarity(jobCounter, definitionCounters[def.ID])

		skillMatches := []string{}
		for _, skillKeyword := range def.SkillKeywords {
			normalized := strings.ToLower(strings.TrimSpace(skillKeyword))
			if normalized == "" {
				continue
			}
			if skillTokens != nil && (skillTokens[normalized] || anyTokenIn(normalized, skillTokens)) {
				skillMatches = append(skillMatches, skillKeyword)
				continue
			}
			if keywordInText(skillKeyword, clean) {
				skillMatches = append(skillMatches, skillKeyword)
			}
		}
		skillScore := 0.0
		if len(def.SkillKeywords) > 0 {
			skillScore = float64(len(skillMatches)) / float64(len(def.SkillKeywords))
		}

		combined := 0.45*keywordScore + 0.35*semanticScore + 0.2*skillScore
		allScores = append(allScores, combined)

		if best == nil || combined > best.score ||
			(combined == best.score && semanticScore > best.similarity) {
			best = &classifierBest{
				definition:   def,
				matches:      matches,
				skillMatches: skillMatches,
				score:        combined,
				similarity:   semanticScore,
			}
		}
	}
	if best == nil {
		return generalJobType()
	}

	confidence := calibrateConfidence(best, allScores)
	if confidence == 0 && (len(best.matches) > 0 || len(best.skillMatches) > 0) {
		confidence = math.Min(0.8, math.Max(0.5, best.score))
	}
	if confidence == 0 {
		return generalJobType()
	}

	combinedMatches := dedupeKeepOrder(append(append([]string{}, best.matches...), best.skillMatches...))
	return model.JobType{
		Category:      best.definition.Label,
		CategoryID:    best.definition.ID,
		Confidence:    round3(confidence),
		Matches:       combinedMatches,
		MatchedSkills: dedupeKeepOrder(best.skillMatches),
		Similarity:    round3(best.similarity),
	}
}

// calibrateConfidence maps best/(best+second) into [0.35, 0.95] and applies
// mild boosts for match strength and semantic similarity, so confidence
// stays in realistic bounds instead of pinning at 100%.
func calibrateConfidence(best *classifierBest, allScores []float64) float64 {
	positive := []float64{}
	for _, s := range allScores {
		if s > 0 {
			positive = append(positive, s)
		}
	}
	if len(positive) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(positive)))

	secondBest := 0.0
	if len(positive) > 1 {
		secondBest = positive[1]
	}
	denom := best.score + secondBest
	if denom <= 0 {
		return 0
	}
	confidence := math.Max(0.35, math.Min(0.95, best.score/denom))

	matchStrength := len(best.matches) + len(best.skillMatches)
	switch {
	case matchStrength >= 8:
		confidence = math.Min(0.95, confidence+0.06)
	case matchStrength >= 5:
		confidence = math.Min(0.92, confidence+0.04)
	case matchStrength >= 3:
		confidence = math.Min(0.9, confidence+0.02)
	}
	switch {
	case best.similarity >= 0.5:
		confidence = math.Min(0.95, confidence+0.03)
	case best.similarity >= 0.3:
		confidence = math.Min(0.93, confidence+0.02)
	case best.similarity >= 0.15:
		confidence = math.Min(0.9, confidence+0.01)
	}
	return confidence
}

func anyTokenIn(keyword string, set map[string]bool) bool {
	for _, token := range tokenize(keyword) {
		if set[token] {
			return true
		}
	}
	return false
}

func dedupeKeepOrder(items []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
