package usecase

import (
	"math"
	"regexp"
	"strings"
	"sync"
)

// fitStopWords drop noise tokens before scoring or classification. The list
// mixes articles/prepositions with resume boilerplate that inflates scores.
var fitStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "have": true, "will": true, "your": true,
	"their": true, "about": true, "these": true, "those": true, "also": true,
	"which": true, "in": true, "to": true, "by": true, "of": true, "or": true,
	"on": true, "at": true, "as": true, "a": true, "an": true,
	"communicate": true, "experience": true, "skills": true, "work": true,
	"team": true, "role": true, "responsibilities": true, "project": true,
	"projects": true, "ability": true, "candidate": true, "strong": true,
	"preferred": true, "time": true, "multiple": true, "drive": true,
	"support": true,
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// normalizeTokenWord applies a crude depluralizer to words longer than four
// characters so "pipelines" and "pipeline" count as the same signal.
func normalizeTokenWord(token string) string {
	if token == "" {
		return token
	}
	original := token
	if len(token) > 4 {
		switch {
		case strings.HasSuffix(token, "ies") && !isVowel(token[len(token)-4]):
			token = token[:len(token)-3] + "y"
		case strings.HasSuffix(token, "ses") && !strings.HasSuffix(token, "sses"):
			token = token[:len(token)-2]
		case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") &&
			!strings.HasSuffix(token, "us") && !strings.HasSuffix(token, "is"):
			token = token[:len(token)-1]
		}
	}
	if token == "" {
		return original
	}
	return token
}

// tokenize lowercases, splits into alphanumeric runs, drops stop words and
// tokens of two characters or less, and depluralizes the rest.
func tokenize(value string) []string {
	if value == "" {
		return nil
	}
	candidates := tokenPattern.FindAllString(strings.ToLower(value), -1)
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if fitStopWords[candidate] || len(candidate) <= 2 {
			continue
		}
		out = append(out, normalizeTokenWord(candidate))
	}
	return out
}

func tokenCounter(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}

func cosineSimilarity(a, b map[string]int) float64 {
	dot := 0
	for token, countA := range a {
		if countB, ok := b[token]; ok {
			dot += countA * countB
		}
	}
	normA := 0
	for _, count := range a {
		normA += count * count
	}
	normB := 0
	for _, count := range b {
		normB += count * count
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(dot) / (math.Sqrt(float64(normA)) * math.Sqrt(float64(normB)))
}

// skillTokenSet expands a skill list into a lookup set: the full lowercase
// skill, a "++"→"pp" alias (so "c++" survives tokenization), and every
// token inside it.
func skillTokenSet(skills []string) map[string]bool {
	set := map[string]bool{}
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized == "" {
			continue
		}
		set[normalized] = true
		if alt := strings.ReplaceAll(normalized, "++", "pp"); alt != normalized {
			set[alt] = true
		}
		for _, token := range tokenize(normalized) {
			set[token] = true
		}
	}
	return set
}

var (
	keywordPatternMu    sync.Mutex
	keywordPatternCache = map[string]*regexp.Regexp{}
)

// keywordPattern compiles a whole-word matcher for a keyword, tolerating a
// plural "s" and flexible whitespace inside multi-word keywords.
func keywordPattern(keyword string) *regexp.Regexp {
	normalized := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(keyword))), " ")
	if normalized == "" {
		return nil
	}
	keywordPatternMu.Lock()
	defer keywordPatternMu.Unlock()
	if cached, ok := keywordPatternCache[normalized]; ok {
		return cached
	}
	escaped := regexp.QuoteMeta(normalized)
	escaped = strings.ReplaceAll(escaped, `\ `, `\s+`)
	if !strings.HasSuffix(normalized, "s") {
		escaped += "(?:s)?"
	}
	compiled, err := regexp.Compile(`(?i)\b` + escaped + `\b`)
	if err != nil {
		return nil
	}
	keywordPatternCache[normalized] = compiled
	return compiled
}

func keywordInText(keyword, text string) bool {
	if keyword == "" || text == "" {
		return false
	}
	pattern := keywordPattern(keyword)
	return pattern != nil && pattern.MatchString(text)
}
