package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"portfolio-editor/internal/model"
)

// FitResult compares a resume against a job description.
type FitResult struct {
	Score           int        `json:"score"`
	Level           string     `json:"level"`
	MatchedKeywords []string   `json:"matchedKeywords"`
	MissingKeywords []string   `json:"missingKeywords"`
	Recommendations []string   `json:"recommendations"`
	Metrics         FitMetrics `json:"metrics"`
}

type FitMetrics struct {
	CosineSimilarity float64 `json:"cosineSimilarity"`
	Coverage         float64 `json:"coverage"`
	ResumeTokenCount int     `json:"resumeTokenCount"`
	JobTokenCount    int     `json:"jobTokenCount"`
}

// ErrEmptyJobDescription is returned when the job description has no
// scoreable keywords.
var ErrEmptyJobDescription = errors.New("job description must contain descriptive keywords to score fit")

func fitLevel(score float64) string {
	switch {
	case score >= 0.85:
		return "Excellent fit"
	case score >= 0.65:
		return "Strong fit"
	case score >= 0.4:
		return "Moderate fit"
	default:
		return "Needs more alignment"
	}
}

// buildResumeText flattens the scoreable prose of a document: summary,
// experience, projects and skills.
func buildResumeText(doc model.Document) string {
	parts := []string{}
	push := func(s string) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			parts = append(parts, trimmed)
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
		push(project.Role)
		push(project.Description)
		for _, bullet := range project.Bullets {
			push(bullet)
		}
	}
	for _, item := range doc.List("skills") {
		if s, ok := item.(string); ok {
			push(s)
		}
	}
	return strings.Join(parts, " ")
}

// ScoreResumeFit blends counter cosine similarity (0.65) with distinct token
// coverage (0.35) and reports the strongest matched and missing keywords in
// job-frequency order.
func ScoreResumeFit(doc model.Document, jobDescription string) (FitResult, error) {
	resumeTokens := tokenize(buildResumeText(doc))
	jobTokens := tokenize(jobDescription)
	if len(jobTokens) == 0 {
		return FitResult{}, ErrEmptyJobDescription
	}

	resumeCounts := tokenCounter(resumeTokens)
	jobCounts := tokenCounter(jobTokens)
	cosine := cosineSimilarity(resumeCounts, jobCounts)

	coverage := 0.0
	if len(jobCounts) > 0 {
		overlap := 0
		for token := range jobCounts {
			if _, ok := resumeCounts[token]; ok {
				overlap++
			}
		}
		coverage = float64(overlap) / float64(len(jobCounts))
	}

	blended := 0.65*cosine + 0.35*coverage
	if blended > 1 {
		blended = 1
	}
	if blended < 0 {
		blended = 0
	}

	byFrequency := make([]string, 0, len(jobCounts))
	for token := range jobCounts {
		byFrequency = append(byFrequency, token)
	}
	sort.Slice(byFrequency, func(i, j int) bool {
		if jobCounts[byFrequency[i]] != jobCounts[byFrequency[j]] {
			return jobCounts[byFrequency[i]] > jobCounts[byFrequency[j]]
		}
		return byFrequency[i] < byFrequency[j]
	})

	matched := []string{}
	missing := []string{}
	for _, token := range byFrequency {
		if _, ok := resumeCounts[token]; ok {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}

	recommendations := []string{}
	if len(matched) > 0 {
		recommendations = append(recommendations,
			"Reinforce the matched concepts with disciplined impact statements around the highlighted experience.")
	}
	if len(missing) > 0 {
		sample := strings.Join(missing[:min(3, len(missing))], ", ")
		recommendations = append(recommendations,
			fmt.Sprintf("Consider weaving %s into your summary or highlights for a tighter match.", sample))
	}
	if len(matched) == 0 {
		recommendations = append(recommendations,
			"Add more specific achievements that mirror the job description language to raise confidence.")
	}

	return FitResult{
		Score:           int(blended*100 + 0.5),
		Level:           fitLevel(blended),
		MatchedKeywords: matched[:min(8, len(matched))],
		MissingKeywords: missing[:min(5, len(missing))],
		Recommendations: recommendations,
		Metrics: FitMetrics{
			CosineSimilarity: cosine,
			Coverage:         coverage,
			ResumeTokenCount: len(resumeTokens),
			JobTokenCount:    len(jobTokens),
		},
	}, nil
}
