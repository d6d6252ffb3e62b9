// Package apiclient is the editor core's HTTP client for the parse,
// persistence, fit and generative endpoints. A small ordered list of base
// URL candidates is walked on first use: a network error advances to the
// next candidate, any HTTP response commits the candidate for the rest of
// the session. That chain is what lets the same build run against local and
// remote backends.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxUploadBytes is the client-side PDF guard; the server enforces its own.
const MaxUploadBytes = 5 * 1024 * 1024

var (
	ErrFileTooLarge = errors.New("pdf exceeds the 5 MiB upload limit")
	ErrNotPDF       = errors.New("only pdf uploads are supported")
)

type Client struct {
	HTTP *http.Client

	mu         sync.Mutex
	base       string
	candidates []string
}

// New builds a client. A configured PORTFOLIO_API_URL becomes the only
// candidate; otherwise the local development fallbacks are walked in order.
func New() *Client {
	if base := strings.TrimRight(os.Getenv("PORTFOLIO_API_URL"), "/"); base != "" {
		return NewWithCandidates([]string{base})
	}
	return NewWithCandidates([]string{
		"http://localhost:8000",
		"http://127.0.0.1:8000",
	})
}

func NewWithCandidates(candidates []string) *Client {
	cleaned := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimRight(strings.TrimSpace(c), "/"); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return &Client{
		HTTP:       &http.Client{Timeout: 60 * time.Second},
		candidates: cleaned,
	}
}

// do walks the candidate chain. Requests that already carry a body reader
// are rebuilt per candidate from the raw bytes.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	c.mu.Lock()
	base := c.base
	remaining := append([]string{}, c.candidates...)
	c.mu.Unlock()

	bases := remaining
	if base != "" {
		bases = []string{base}
	}

	var lastErr error
	for _, candidate := range bases {
		req, err := http.NewRequestWithContext(ctx, method, candidate+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		// any HTTP response commits this base for the session
		c.mu.Lock()
		c.base = candidate
		c.mu.Unlock()
		return resp, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no API base url candidates configured")
	}
	return nil, lastErr
}

// decodeData unwraps the {"data": ...} envelope all document endpoints use.
func decodeData(resp *http.Response) (map[string]interface{}, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(resp.StatusCode, raw)
	}
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("apiclient: malformed response: %w", err)
	}
	if envelope.Data == nil {
		return nil, errors.New("apiclient: response carried no data")
	}
	return envelope.Data, nil
}

func httpError(status int, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	_ = json.Unmarshal(body, &detail)
	message := detail.Detail
	if message == "" {
		message = detail.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("apiclient: %d: %s", status, message)
}

// ParsePDF uploads a resume PDF, with the optional job description, to the
// parse endpoint and returns the raw document payload. The size and type
// guards run here, before any network traffic.
func (c *Client) ParsePDF(ctx context.Context, filename string, pdf []byte, jobDescription string) (map[string]interface{}, error) {
	if len(pdf) > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if !looksLikePDF(filename, pdf) {
		return nil, ErrNotPDF
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, err
	}
	if jobDescription != "" {
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/parse", writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// Reanalyze re-runs parsing for an existing resume with a new job
// description.
func (c *Client) Reanalyze(ctx context.Context, resumeID, jobDescription string) (map[string]interface{}, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if jobDescription != "" {
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	path := "/api/resumes/" + url.PathEscape(resumeID) + "/reanalyze"
	resp, err := c.do(ctx, http.MethodPost, path, writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// Fit fetches the resume/job-description fit bundle.
func (c *Client) Fit(ctx context.Context, resumeID string) (map[string]interface{}, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/resumes/"+url.PathEscape(resumeID)+"/fit", "", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// GetPortfolio loads a draft by id.
func (c *Client) GetPortfolio(ctx context.Context, portfolioID string) (map[string]interface{}, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/portfolios/"+url.PathEscape(portfolioID), "", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// PutBody is the persistence payload for a draft save.
type PutBody struct {
	Data       map[string]interface{} `json:"data"`
	Status     string                 `json:"status,omitempty"`
	Visibility string                 `json:"visibility,omitempty"`
	Slug       *string                `json:"slug,omitempty"`
}

// PutPortfolio saves a draft and returns the server's canonical echo.
func (c *Client) PutPortfolio(ctx context.Context, portfolioID string, body PutBody) (map[string]interface{}, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPut, "/api/portfolios/"+url.PathEscape(portfolioID), "application/json", raw)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// GetBySlug loads a published portfolio.
func (c *Client) GetBySlug(ctx context.Context, slug string) (map[string]interface{}, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/portfolios/by-slug/"+url.PathEscape(slug), "", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// GetPreview loads a draft by slug + id for the pre-publish preview page.
func (c *Client) GetPreview(ctx context.Context, slug, portfolioID string) (map[string]interface{}, error) {
	path := "/api/portfolios/preview/" + url.PathEscape(slug) + "?portfolio_id=" + url.QueryEscape(portfolioID)
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

// GenerativePreview requests a UI spec for the prompt and document.
func (c *Client) GenerativePreview(ctx context.Context, prompt string, data map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(map[string]interface{}{"prompt": prompt, "data": data})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/generative/preview", "application/json", raw)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(resp.StatusCode, body)
	}
	var envelope struct {
		UISpec map[string]interface{} `json:"uiSpec"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("apiclient: malformed response: %w", err)
	}
	if envelope.UISpec == nil {
		return nil, errors.New("apiclient: response carried no uiSpec")
	}
	return envelope.UISpec, nil
}

func looksLikePDF(filename string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
