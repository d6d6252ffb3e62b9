// Command lifecycle_check drives the full editor lifecycle against an
// in-process server: upload, edit, reorder, generate a design, mint a slug
// and reload the draft. It needs no database, no parser sidecar and no
// model; useful as a smoke check after changes to the store or handlers.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	httpadapter "portfolio-editor/internal/adapter/http"
	repo "portfolio-editor/internal/adapter/repository"
	"portfolio-editor/internal/model"
	"portfolio-editor/internal/session"
	"portfolio-editor/internal/store"
	"portfolio-editor/internal/usecase"
	"portfolio-editor/pkg/apiclient"
	"portfolio-editor/pkg/labeler"
	"portfolio-editor/pkg/parser"

	"github.com/gofiber/fiber/v2"
)

// localExtractor skips the parser sidecar and salvages text straight from
// the upload bytes.
type localExtractor struct{}

func (localExtractor) Extract(_ context.Context, _ string, pdf []byte) (*parser.Extraction, error) {
	return &parser.Extraction{Text: parser.SalvageText(pdf)}, nil
}

// inProcessAPI satisfies the store's API by feeding requests through
// fiber's test transport instead of the network.
type inProcessAPI struct {
	app *fiber.App
}

func (a *inProcessAPI) roundTrip(req *http.Request) (map[string]interface{}, error) {
	resp, err := a.app.Test(req, -1)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}

func dataOf(envelope map[string]interface{}) (map[string]interface{}, error) {
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("response carried no data")
	}
	return data, nil
}

func (a *inProcessAPI) ParsePDF(_ context.Context, filename string, pdf []byte, jobDescription string) (map[string]interface{}, error) {
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
	req, _ := http.NewRequest(http.MethodPost, "/api/parse", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	envelope, err := a.roundTrip(req)
	if err != nil {
		return nil, err
	}
	return dataOf(envelope)
}

func (a *inProcessAPI) GetPortfolio(_ context.Context, portfolioID string) (map[string]interface{}, error) {
	req, _ := http.NewRequest(http.MethodGet, "/api/portfolios/"+portfolioID, nil)
	envelope, err := a.roundTrip(req)
	if err != nil {
		return nil, err
	}
	return dataOf(envelope)
}

func (a *inProcessAPI) PutPortfolio(_ context.Context, portfolioID string, body apiclient.PutBody) (map[string]interface{}, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequest(http.MethodPut, "/api/portfolios/"+portfolioID, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	envelope, err := a.roundTrip(req)
	if err != nil {
		return nil, err
	}
	return dataOf(envelope)
}

func (a *inProcessAPI) GenerativePreview(_ context.Context, prompt string, data map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(map[string]interface{}{"prompt": prompt, "data": data})
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequest(http.MethodPost, "/api/generative/preview", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	envelope, err := a.roundTrip(req)
	if err != nil {
		return nil, err
	}
	spec, ok := envelope["uiSpec"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("response carried no uiSpec")
	}
	return spec, nil
}

func main() {
	ctx := context.Background()

	portfolios := repo.NewPortfoliosRepo(nil)
	intake := usecase.NewProcessor(localExtractor{}, &labeler.Client{DryRun: true}, portfolios)
	app := fiber.New()
	httpadapter.NewHandler(intake, portfolios, nil, "templates").Register(app)

	s := store.New(&inProcessAPI{app: app}, session.NewBridge(session.NewMemoryKV()))

	fakePDF := []byte("%PDF-1.4\nAda Lovelace\nBackend engineer working with Go, Postgres and Kafka.\n")
	if err := s.UploadResume(ctx, "resume.pdf", fakePDF, "Senior Go engineer, gRPC and PostgreSQL"); err != nil {
		log.Fatalf("upload: %v", err)
	}
	snap := s.Snapshot()
	fmt.Printf("lifecycle: parsed, portfolio=%s resume=%s\n", snap.Meta.PortfolioID, snap.Meta.ResumeID)

	s.UpdateData(func(doc model.Document) model.Document {
		doc["name"] = "Ada Lovelace"
		doc["skills"] = []interface{}{"Go", "PostgreSQL", "Kafka"}
		return doc
	})
	s.SetReviewOrder([]string{"skills", "name"})
	s.ToggleSectionVisibility("education")
	fmt.Printf("lifecycle: edited, order=%v\n", s.Snapshot().ReviewOrder)

	if err := s.SaveDraft(ctx); err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Printf("lifecycle: saved, dirty=%v\n", s.Snapshot().Dirty)

	if err := s.GenerateDesign(ctx, "minimal layout with a project showcase"); err != nil {
		log.Fatalf("generate: %v", err)
	}
	fmt.Printf("lifecycle: generated spec with %d sections\n",
		len(s.GeneratedSpec()["sections"].([]interface{})))

	previewURL, err := s.OpenPreviewDraft(ctx)
	if err != nil {
		log.Fatalf("preview: %v", err)
	}
	fmt.Printf("lifecycle: preview at %s\n", previewURL)

	portfolioID := s.Snapshot().Meta.PortfolioID
	if err := s.LoadDraft(ctx, portfolioID); err != nil {
		log.Fatalf("reload: %v", err)
	}
	reloaded := s.Snapshot()
	fmt.Printf("lifecycle: reloaded, name=%q slug=%q order=%v\n",
		reloaded.Data.String("name"), reloaded.Meta.Slug, reloaded.ReviewOrder)

	fmt.Println("lifecycle: OK")
}
