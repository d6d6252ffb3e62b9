// Package parser calls the pdf extraction sidecar. The service owns the
// heavy lifting; this client uploads the file and hands back plain text plus
// any hyperlinks embedded in the document.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	base := os.Getenv("PARSER_SERVICE_URL")
	if base == "" {
		base = "http://parser-service:9000"
	}
	return &Client{BaseURL: base, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// Extraction is what the sidecar returns for one document.
type Extraction struct {
	Text  string   `json:"text"`
	Links []string `json:"links"`
}

// Extract uploads the PDF and returns the extraction. Transport errors are
// retried with backoff; HTTP errors are not.
func (c *Client) Extract(ctx context.Context, filename string, pdf []byte) (*Extraction, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/extract", writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser: service returned status %d", resp.StatusCode)
	}

	extraction := &Extraction{}
	if err := json.Unmarshal(body, extraction); err != nil {
		return nil, fmt.Errorf("parser: malformed extraction response: %w", err)
	}
	return extraction, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path, contentType string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)

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

// SalvageText is the last-ditch fallback when the sidecar is unreachable:
// printable ASCII runs pulled straight from the PDF bytes. Good enough for
// keyword classification, nowhere near a faithful extraction.
func SalvageText(pdf []byte) string {
	var out bytes.Buffer
	var run bytes.Buffer
	for _, b := range pdf {
		if b >= 0x20 && b < 0x7f {
			run.WriteByte(b)
			continue
		}
		if run.Len() >= 4 {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.Write(run.Bytes())
		}
		run.Reset()
	}
	if run.Len() >= 4 {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.Write(run.Bytes())
	}
	return out.String()
}
