// Package labeler turns raw resume text into structured fields by calling
// the chat endpoint of an ai-service. In dry-run mode it returns a stub
// payload so the rest of the pipeline can run without any model behind it.
package labeler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const systemPrompt = "You are a resume labeling assistant. Given the raw resume text, extract structured data. " +
	"Return well-formed JSON only, with these fields when available: name, contact (emails, phones, urls), " +
	"summary, education (list of entries with institution, degree, location, start_date, end_date), " +
	"experience (list of entries with title, organization, location, start_date, end_date, achievements[]), " +
	"projects (title, role, start_date, end_date, bullets[]), skills (list of strings). " +
	"Dates should be ISO-like 'YYYY-MM' when months are known; use null otherwise. Use empty arrays for missing lists."

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Model   string
	DryRun  bool
}

func NewClient() *Client {
	base := os.Getenv("LABELER_SERVICE_URL")
	if base == "" {
		base = "http://ai-service:8000"
	}
	model := os.Getenv("LABELER_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Model:   model,
		DryRun:  os.Getenv("LABELER_DRY_RUN") == "true",
	}
}

// Label structures the raw text. Embedded links ride along untouched so the
// normalizer can recover contact entries from them.
func (c *Client) Label(ctx context.Context, rawText string, links []string, jobDescription string) (map[string]interface{}, error) {
	if c.DryRun {
		return stubPayload(links), nil
	}

	input := systemPrompt + "\n\nLabel the resume content below. Output JSON only, no prose. If unsure about a field, set it to null or [] as appropriate.\n\n" + rawText
	output, err := c.chat(ctx, input)
	if err != nil {
		return nil, err
	}

	parsed, err := extractJSON(output)
	if err != nil {
		return nil, fmt.Errorf("labeler: %w", err)
	}
	linkItems := make([]interface{}, 0, len(links))
	for _, link := range links {
		linkItems = append(linkItems, link)
	}
	parsed["embedded_links"] = linkItems
	if jobDescription != "" {
		if _, ok := parsed["job_description"]; !ok {
			parsed["job_description"] = jobDescription
		}
	}
	return parsed, nil
}

// TailoredSummary asks for a short summary rewritten toward the job
// description. Empty results are fine; the normalizer synthesizes one.
func (c *Client) TailoredSummary(ctx context.Context, parsed map[string]interface{}, jobDescription string) (string, error) {
	if c.DryRun || jobDescription == "" {
		return "", nil
	}

	profile, _ := json.Marshal(parsed)
	input := "Write a 2-3 sentence professional summary tailored to the job description below. " +
		"Respond with plain text only, no markdown and no preamble.\n\nJob description:\n" + jobDescription +
		"\n\nCandidate profile JSON:\n" + string(profile)
	output, err := c.chat(ctx, input)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func (c *Client) chat(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"agent": "auto",
		"model": c.Model,
		"input": input,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/chat", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("labeler: ai-service returned status %d", resp.StatusCode)
	}

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", err
	}
	return chatResp.Output, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// extractJSON parses the model output as JSON, falling back to the largest
// brace-delimited substring when the model wrapped it in prose.
func extractJSON(s string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(s[start:end+1]), &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("ai-service returned non-json content")
}

func stubPayload(links []string) map[string]interface{} {
	linkItems := make([]interface{}, 0, len(links))
	for _, link := range links {
		linkItems = append(linkItems, link)
	}
	return map[string]interface{}{
		"name":           nil,
		"contact":        map[string]interface{}{"emails": []interface{}{}, "phones": []interface{}{}, "urls": []interface{}{}},
		"summary":        []interface{}{},
		"education":      []interface{}{},
		"experience":     []interface{}{},
		"projects":       []interface{}{},
		"skills":         []interface{}{},
		"embedded_links": linkItems,
	}
}
