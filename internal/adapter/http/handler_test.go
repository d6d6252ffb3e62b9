package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-editor/internal/adapter/repository"
	"portfolio-editor/internal/usecase"
	"portfolio-editor/pkg/labeler"
	"portfolio-editor/pkg/parser"
)

// stubExtractor salvages text from the upload bytes instead of calling the
// parser sidecar.
type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _ string, pdf []byte) (*parser.Extraction, error) {
	return &parser.Extraction{Text: parser.SalvageText(pdf)}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *repository.PortfoliosRepo) {
	t.Helper()
	repo := repository.NewPortfoliosRepo(nil)
	intake := usecase.NewProcessor(stubExtractor{}, &labeler.Client{DryRun: true}, repo)
	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	NewHandler(intake, repo, nil, "../../../templates").Register(app)
	return app, repo
}

func doRequest(t *testing.T, app *fiber.App, req *nethttp.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(body) > 0 && json.Unmarshal(body, &decoded) != nil {
		decoded = map[string]interface{}{"_raw": string(body)}
	}
	return resp.StatusCode, decoded
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := nethttp.NewRequest(method, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, app, req)
}

func uploadResume(t *testing.T, app *fiber.App, filename, jobDescription string) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\nAda Lovelace\nBackend engineer working with Go and Postgres.\n"))
	require.NoError(t, err)
	if jobDescription != "" {
		require.NoError(t, writer.WriteField("job_description", jobDescription))
	}
	require.NoError(t, writer.Close())

	req, err := nethttp.NewRequest(nethttp.MethodPost, "/api/parse", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return doRequest(t, app, req)
}

func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response carried no data: %v", body)
	return data
}

func metaOf(t *testing.T, data map[string]interface{}) map[string]interface{} {
	t.Helper()
	meta, ok := data["meta"].(map[string]interface{})
	require.True(t, ok, "document carried no meta")
	return meta
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/health", nil)
	status, body := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestParseResume(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := uploadResume(t, app, "resume.pdf", "Senior Go engineer with PostgreSQL")
	require.Equal(t, nethttp.StatusOK, status)

	data := dataOf(t, body)
	meta := metaOf(t, data)
	assert.NotEmpty(t, meta["resume_id"])
	assert.NotEmpty(t, meta["portfolio_id"])
	assert.Equal(t, "draft", meta["status"])
	assert.Equal(t, "private", meta["visibility"])
	assert.Equal(t, "Senior Go engineer with PostgreSQL", data["job_description"])
	assert.NotNil(t, data["job_type"])
	assert.NotNil(t, data["resume_job_type"])

	layout, ok := data["layout"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, layout["sectionOrder"])
}

func TestParseResumeRejectsMissingFile(t *testing.T) {
	app, _ := newTestApp(t)
	req, _ := nethttp.NewRequest(nethttp.MethodPost, "/api/parse", strings.NewReader(""))
	status, body := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "A PDF file is required.", body["detail"])
}

func TestParseResumeRejectsNonPDF(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := uploadResume(t, app, "resume.docx", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Only PDF uploads are supported.", body["detail"])
}

func TestPutAndGetPortfolio(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	data := dataOf(t, body)
	portfolioID := metaOf(t, data)["portfolio_id"].(string)

	data["name"] = "Ada Lovelace"
	status, body := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{
		"data":       data,
		"slug":       "ada-lovelace",
		"status":     "published",
		"visibility": "public",
	})
	require.Equal(t, nethttp.StatusOK, status)

	echo := dataOf(t, body)
	meta := metaOf(t, echo)
	assert.Equal(t, "ada-lovelace", meta["slug"])
	assert.Equal(t, "published", meta["status"])
	assert.Equal(t, "public", meta["visibility"])
	assert.NotEmpty(t, meta["published_at"])
	assert.Equal(t, portfolioID, meta["portfolio_id"])

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/"+portfolioID, nil)
	status, body = doRequest(t, app, req)
	require.Equal(t, nethttp.StatusOK, status)
	got := dataOf(t, body)
	assert.Equal(t, "Ada Lovelace", got["name"])
	assert.NotNil(t, got["job_type"])
}

func TestPutPortfolioValidation(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/not-a-uuid", map[string]interface{}{"data": map[string]interface{}{}})
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, _ = doJSON(t, app, nethttp.MethodPut, "/api/portfolios/1e8f6f0e-8a35-44a5-9ac9-000000000000", map[string]interface{}{"data": map[string]interface{}{}})
	assert.Equal(t, nethttp.StatusNotFound, status)

	_, body := uploadResume(t, app, "resume.pdf", "")
	portfolioID := metaOf(t, dataOf(t, body))["portfolio_id"].(string)
	status, resp := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "A data document is required.", resp["detail"])
}

func TestSlugConflict(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := uploadResume(t, app, "resume.pdf", "")
	first := metaOf(t, dataOf(t, body))["portfolio_id"].(string)
	_, body = uploadResume(t, app, "resume.pdf", "")
	second := metaOf(t, dataOf(t, body))["portfolio_id"].(string)

	status, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+first, map[string]interface{}{
		"data": map[string]interface{}{"name": "One"},
		"slug": "shared-slug",
	})
	require.Equal(t, nethttp.StatusOK, status)

	status, resp := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+second, map[string]interface{}{
		"data": map[string]interface{}{"name": "Two"},
		"slug": "shared-slug",
	})
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "Slug already in use.", resp["detail"])

	// re-saving the owner with its own slug is not a conflict
	status, _ = doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+first, map[string]interface{}{
		"data": map[string]interface{}{"name": "One"},
		"slug": "shared-slug",
	})
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestBySlugVisibilityRules(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	portfolioID := metaOf(t, dataOf(t, body))["portfolio_id"].(string)

	put := func(status, visibility string) {
		t.Helper()
		code, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{
			"data":       map[string]interface{}{"name": "Ada"},
			"slug":       "ada-public",
			"status":     status,
			"visibility": visibility,
		})
		require.Equal(t, nethttp.StatusOK, code)
	}
	get := func() int {
		req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/by-slug/ada-public", nil)
		code, _ := doRequest(t, app, req)
		return code
	}

	put("draft", "public")
	assert.Equal(t, nethttp.StatusNotFound, get(), "unpublished drafts stay hidden")

	put("published", "private")
	assert.Equal(t, nethttp.StatusNotFound, get(), "private drafts stay hidden even when published")

	put("published", "unlisted")
	assert.Equal(t, nethttp.StatusOK, get())

	put("published", "public")
	assert.Equal(t, nethttp.StatusOK, get())
}

func TestPreviewRequiresSlugAndID(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	portfolioID := metaOf(t, dataOf(t, body))["portfolio_id"].(string)

	status, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{
		"data": map[string]interface{}{"name": "Ada"},
		"slug": "hidden-draft",
	})
	require.Equal(t, nethttp.StatusOK, status)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/preview/hidden-draft?portfolio_id="+portfolioID, nil)
	status, resp := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Ada", dataOf(t, resp)["name"])

	// the slug alone is not enough
	req, _ = nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/preview/hidden-draft", nil)
	status, _ = doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusBadRequest, status)

	req, _ = nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/by-slug/hidden-draft", nil)
	status, _ = doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestFitEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := uploadResume(t, app, "resume.pdf", "Senior Go engineer with PostgreSQL and Kafka")
	resumeID := metaOf(t, dataOf(t, body))["resume_id"].(string)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/resumes/"+resumeID+"/fit", nil)
	status, resp := doRequest(t, app, req)
	require.Equal(t, nethttp.StatusOK, status)

	fit := dataOf(t, resp)
	assert.Contains(t, fit, "score")
	assert.Contains(t, fit, "level")
	assert.Contains(t, fit, "matchedKeywords")
	assert.Contains(t, fit, "metrics")
}

func TestFitRequiresJobDescription(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	resumeID := metaOf(t, dataOf(t, body))["resume_id"].(string)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/resumes/"+resumeID+"/fit", nil)
	status, resp := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Job description is required to evaluate fit.", resp["detail"])
}

func TestReanalyze(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "original role")
	resumeID := metaOf(t, dataOf(t, body))["resume_id"].(string)

	form := url.Values{"job_description": {"Backend engineer with Kafka and PostgreSQL"}}
	req, _ := nethttp.NewRequest(nethttp.MethodPost, "/api/resumes/"+resumeID+"/reanalyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, resp := doRequest(t, app, req)
	require.Equal(t, nethttp.StatusOK, status)

	data := dataOf(t, resp)
	assert.Equal(t, "Backend engineer with Kafka and PostgreSQL", data["job_description"])
	assert.Equal(t, resumeID, metaOf(t, data)["resume_id"])
	assert.NotNil(t, data["job_type"])

	req, _ = nethttp.NewRequest(nethttp.MethodPost, "/api/resumes/not-a-uuid/reanalyze", nil)
	status, _ = doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestGenerativePreviewEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, resp := doJSON(t, app, nethttp.MethodPost, "/api/generative/preview", map[string]interface{}{
		"prompt": "minimal and clean",
		"data":   map[string]interface{}{"name": "Ada", "skills": []interface{}{"Go"}},
	})
	require.Equal(t, nethttp.StatusOK, status)

	spec, ok := resp["uiSpec"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, spec["sections"])

	info, ok := resp["info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0", info["version"])
	assert.NotEmpty(t, info["generatedAt"])
}

func TestPublicPageRendersHTML(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	portfolioID := metaOf(t, dataOf(t, body))["portfolio_id"].(string)

	data := dataOf(t, body)
	data["name"] = "Ada Lovelace"
	status, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{
		"data":       data,
		"slug":       "ada-page",
		"status":     "published",
		"visibility": "public",
	})
	require.Equal(t, nethttp.StatusOK, status)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/p/ada-page", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Ada Lovelace")
	// the stylesheet is inlined into the head
	assert.Contains(t, string(html), "<style>")
	assert.NotContains(t, string(html), "draft-banner\">")
}

func TestPreviewPageShowsDraftBanner(t *testing.T) {
	app, _ := newTestApp(t)
	_, body := uploadResume(t, app, "resume.pdf", "")
	portfolioID := metaOf(t, dataOf(t, body))["portfolio_id"].(string)

	data := dataOf(t, body)
	data["name"] = "Ada Lovelace"
	status, _ := doJSON(t, app, nethttp.MethodPut, "/api/portfolios/"+portfolioID, map[string]interface{}{
		"data": data,
		"slug": "ada-draft",
	})
	require.Equal(t, nethttp.StatusOK, status)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/preview/ada-draft?portfolio_id="+portfolioID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Draft preview")
}

func TestGetPortfolioErrors(t *testing.T) {
	app, _ := newTestApp(t)

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/not-a-uuid", nil)
	status, _ := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusBadRequest, status)

	req, _ = nethttp.NewRequest(nethttp.MethodGet, "/api/portfolios/1e8f6f0e-8a35-44a5-9ac9-000000000000", nil)
	status, resp := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "Portfolio not found.", resp["detail"])
}
