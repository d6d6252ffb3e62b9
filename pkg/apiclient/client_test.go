package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestUploadGuardsRunBeforeNetwork(t *testing.T) {
	c := NewWithCandidates(nil) // any network attempt would fail loudly

	_, err := c.ParsePDF(context.Background(), "resume.pdf", make([]byte, MaxUploadBytes+1), "")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = c.ParsePDF(context.Background(), "resume.txt", []byte("plain text"), "")
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestLooksLikePDF(t *testing.T) {
	assert.True(t, looksLikePDF("resume.PDF", nil))
	assert.True(t, looksLikePDF("upload.bin", []byte("%PDF-1.7")))
	assert.False(t, looksLikePDF("resume.txt", []byte("hello")))
}

func TestFallbackChainAdvancesOnNetworkError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		jsonHandler(http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{"name": "Ada"},
		})(w, r)
	}))
	defer srv.Close()

	// port 1 refuses connections, so the chain must move on
	c := NewWithCandidates([]string{"http://127.0.0.1:1", srv.URL})

	data, err := c.GetPortfolio(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", data["name"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestAnyHTTPResponseCommitsCandidate(t *testing.T) {
	var firstHits int32
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&firstHits, 1) == 1 {
			jsonHandler(http.StatusInternalServerError, map[string]interface{}{"detail": "boom"})(w, r)
			return
		}
		jsonHandler(http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{"name": "Recovered"},
		})(w, r)
	}))
	defer first.Close()

	var secondHits int32
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&secondHits, 1)
	}))
	defer second.Close()

	c := NewWithCandidates([]string{first.URL, second.URL})

	// an error status is still an HTTP response: the base is committed
	_, err := c.GetPortfolio(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500: boom")

	data, err := c.GetPortfolio(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Recovered", data["name"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&secondHits))
}

func TestAllCandidatesDown(t *testing.T) {
	c := NewWithCandidates([]string{"http://127.0.0.1:1"})
	_, err := c.GetPortfolio(context.Background(), "p1")
	assert.Error(t, err)
}

func TestHTTPErrorUsesDetailField(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound, map[string]interface{}{
		"detail": "Portfolio not found.",
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	_, err := c.GetPortfolio(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404: Portfolio not found.")
}

func TestHTTPErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	_, err := c.GetPortfolio(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusTeapot))
}

func TestParsePDFSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		jsonHandler(http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"filename":        header.Filename,
				"job_description": r.FormValue("job_description"),
			},
		})(w, r)
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	data, err := c.ParsePDF(context.Background(), "resume.pdf", []byte("%PDF-1.4"), "go jobs")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", data["filename"])
	assert.Equal(t, "go jobs", data["job_description"])
}

func TestPutPortfolioBodyShape(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		jsonHandler(http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{"echo": true},
		})(w, r)
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})

	slug := "ada-lovelace"
	_, err := c.PutPortfolio(context.Background(), "p1", PutBody{
		Data:       map[string]interface{}{"name": "Ada"},
		Status:     "published",
		Visibility: "public",
		Slug:       &slug,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace", received["slug"])
	assert.Equal(t, "published", received["status"])

	// an unset slug stays off the wire entirely
	received = nil
	_, err = c.PutPortfolio(context.Background(), "p1", PutBody{Data: map[string]interface{}{}})
	require.NoError(t, err)
	_, hasSlug := received["slug"]
	assert.False(t, hasSlug)
}

func TestGenerativePreviewEnvelope(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
		"uiSpec": map[string]interface{}{"sections": []interface{}{}},
		"info":   map[string]interface{}{"version": "0"},
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	spec, err := c.GenerativePreview(context.Background(), "minimal", map[string]interface{}{})
	require.NoError(t, err)
	assert.Contains(t, spec, "sections")
}

func TestGenerativePreviewMissingSpec(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
		"info": map[string]interface{}{},
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	_, err := c.GenerativePreview(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestDecodeDataRejectsMissingEnvelope(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]interface{}{
		"something": "else",
	}))
	defer srv.Close()

	c := NewWithCandidates([]string{srv.URL})
	_, err := c.GetPortfolio(context.Background(), "p1")
	assert.Error(t, err)
}
