package http

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"portfolio-editor/internal/adapter/repository"
	"portfolio-editor/internal/domain"
	"portfolio-editor/internal/model"
	"portfolio-editor/internal/normalize"
	"portfolio-editor/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxUploadBytes guards the parse endpoint; the editor client applies the
// same limit before uploading.
const maxUploadBytes = 5 * 1024 * 1024

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	intake   *usecase.Processor
	repo     *repository.PortfoliosRepo
	renderer Renderer
	tplDir   string
}

func NewHandler(intake *usecase.Processor, repo *repository.PortfoliosRepo, renderer Renderer, tplDir string) *Handler {
	return &Handler{intake: intake, repo: repo, renderer: renderer, tplDir: tplDir}
}

// Register wires every route onto the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/parse", h.ParseResume)
	app.Post("/api/resumes", h.ParseResume)
	app.Post("/api/resumes/:id/reanalyze", h.Reanalyze)
	app.Get("/api/resumes/:id/fit", h.Fit)
	app.Put("/api/portfolios/:id", h.PutPortfolio)
	app.Get("/api/portfolios/by-slug/:slug", h.GetBySlug)
	app.Get("/api/portfolios/preview/:slug", h.GetPreview)
	app.Get("/api/portfolios/:id", h.GetPortfolio)
	app.Get("/api/portfolios/:id/export.pdf", h.ExportPDF)
	app.Post("/api/generative/preview", h.GenerativePreview)
	app.Get("/health", h.Health)
	app.Get("/p/:slug", h.PublicPage)
	app.Get("/preview/:slug", h.PreviewPage)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ParseResume accepts a PDF upload plus an optional job description and
// returns the normalized portfolio document.
func (h *Handler) ParseResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "A PDF file is required."})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"detail": "PDF exceeds the 5 MiB upload limit."})
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Only PDF uploads are supported."})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Unable to read upload."})
	}
	defer file.Close()
	pdf, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Unable to read upload."})
	}

	doc, err := h.intake.Process(c.Context(), fileHeader.Filename, pdf, c.FormValue("job_description"))
	if err != nil {
		log.Printf("parse failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"detail": "Failed to parse resume."})
	}
	return c.JSON(fiber.Map{"data": doc})
}

// Reanalyze re-runs normalization and classification for a stored resume
// against a new job description.
func (h *Handler) Reanalyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid resume id."})
	}
	resume, err := h.repo.GetResume(c.Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Resume not found.")
	}

	doc := usecase.Reanalyze(resume, c.FormValue("job_description"))
	meta := doc.MetaRecord()
	meta.ResumeID = resume.ID.String()
	doc.ApplyMeta(meta)

	resume.Normalized = map[string]interface{}(doc.Clone())
	resume.JobDescription = normalize.NormalizeJobDescription(c.FormValue("job_description"))
	resume.UpdatedAt = time.Now()
	if err := h.repo.SaveResume(c.Context(), resume); err != nil {
		log.Printf("reanalyze: save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to store reanalysis."})
	}
	return c.JSON(fiber.Map{"data": doc})
}

// Fit scores the stored resume against its job description.
func (h *Handler) Fit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid resume id."})
	}
	resume, err := h.repo.GetResume(c.Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Resume not found.")
	}

	payload := resume.Normalized
	if len(payload) == 0 {
		payload = resume.Parsed
	}
	doc := model.Document(payload)
	jobDescription := resume.JobDescription
	if jobDescription == "" {
		jobDescription = normalize.NormalizeJobDescription(doc["job_description"])
	}
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Job description is required to evaluate fit."})
	}

	fit, err := usecase.ScoreResumeFit(doc, jobDescription)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyJobDescription) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Job description is required to evaluate fit."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to score fit."})
	}
	return c.JSON(fiber.Map{"data": fit})
}

type putPayload struct {
	Data       map[string]interface{} `json:"data"`
	Status     string                 `json:"status"`
	Visibility string                 `json:"visibility"`
	Slug       *string                `json:"slug"`
}

// PutPortfolio saves a draft and echoes the canonical document. The echo is
// what the editor installs, so meta here is authoritative.
func (h *Handler) PutPortfolio(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid portfolio id."})
	}
	var payload putPayload
	if err := c.BodyParser(&payload); err != nil || payload.Data == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "A data document is required."})
	}

	draft, err := h.repo.GetPortfolio(c.Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Portfolio not found.")
	}

	if payload.Slug != nil {
		slug := strings.TrimSpace(*payload.Slug)
		if slug != "" {
			taken, err := h.repo.SlugInUse(c.Context(), slug, draft.ID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to check slug."})
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": "Slug already in use."})
			}
			draft.Slug = slug
		} else {
			draft.Slug = ""
		}
	}
	if payload.Visibility != "" {
		draft.Visibility = payload.Visibility
	}
	if payload.Status != "" {
		draft.Status = payload.Status
		if payload.Status == model.StatusPublished {
			if draft.PublishedAt == nil {
				now := time.Now()
				draft.PublishedAt = &now
			}
		} else {
			draft.PublishedAt = nil
		}
	}

	data, _ := model.CloneValue(payload.Data).(map[string]interface{})
	normalize.EnsureThemes(data)

	doc := model.Document(data)
	meta := doc.MetaRecord()
	if meta.ResumeID == "" && draft.ResumeID != nil {
		meta.ResumeID = draft.ResumeID.String()
	}
	meta.PortfolioID = draft.ID.String()
	meta.Status = draft.Status
	meta.Visibility = draft.Visibility
	meta.Slug = draft.Slug
	meta.PublishedAt = ""
	if draft.PublishedAt != nil {
		meta.PublishedAt = draft.PublishedAt.UTC().Format(time.RFC3339)
	}
	doc.ApplyMeta(meta)

	draft.Data = data
	draft.UpdatedAt = time.Now()
	if err := h.repo.SavePortfolio(c.Context(), draft); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": "Slug already in use."})
		}
		log.Printf("put portfolio: save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to save portfolio."})
	}

	if draft.ResumeID != nil {
		if resume, err := h.repo.GetResume(c.Context(), *draft.ResumeID); err == nil {
			resume.Normalized = map[string]interface{}(doc.Clone())
			resume.UpdatedAt = time.Now()
			if err := h.repo.SaveResume(c.Context(), resume); err != nil {
				log.Printf("put portfolio: resume sync failed (non-fatal): %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{"data": data})
}

func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid portfolio id."})
	}
	draft, err := h.repo.GetPortfolio(c.Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Portfolio not found.")
	}
	return c.JSON(fiber.Map{"data": draftContent(draft)})
}

func (h *Handler) GetBySlug(c *fiber.Ctx) error {
	draft, err := h.repo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return notFoundOrInternal(c, err, "Portfolio not found.")
	}
	return c.JSON(fiber.Map{"data": draftContent(draft)})
}

// GetPreview serves a draft by slug + id regardless of publication state;
// requiring both keeps unpublished drafts from leaking.
func (h *Handler) GetPreview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("portfolio_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "A portfolio_id query parameter is required."})
	}
	draft, err := h.repo.GetPreview(c.Context(), c.Params("slug"), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Portfolio not found.")
	}
	return c.JSON(fiber.Map{"data": draftContent(draft)})
}

type generativePayload struct {
	Prompt string                 `json:"prompt"`
	Data   map[string]interface{} `json:"data"`
}

// GenerativePreview builds the deterministic UI spec for a prompt. No model
// call happens here; the spec is derived from the document alone.
func (h *Handler) GenerativePreview(c *fiber.Ctx) error {
	var payload generativePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid payload."})
	}
	spec := usecase.GenerateUISpec(payload.Prompt, model.Document(payload.Data))
	return c.JSON(fiber.Map{
		"uiSpec": spec,
		"info": fiber.Map{
			"version":     "0",
			"generatedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// draftContent clones the stored document and refreshes both classifiers so
// confidence always reflects the current normalization rules.
func draftContent(draft *domain.PortfolioDraft) model.Document {
	doc := model.Document(draft.Data).Clone()
	doc["job_type"] = usecase.InferJobType(doc).ToMap()
	doc["resume_job_type"] = usecase.InferResumeJobType(doc).ToMap()
	return doc
}

func notFoundOrInternal(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": message})
	}
	log.Printf("repository error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal error."})
}
