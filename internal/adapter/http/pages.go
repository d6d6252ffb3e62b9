package http

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"portfolio-editor/internal/domain"
	"portfolio-editor/internal/model"
	"portfolio-editor/internal/preview"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// portfolioPage is the template payload for the public and preview pages.
type portfolioPage struct {
	Name     string
	Theme    model.ThemeOption
	Sections []preview.Section
	Draft    bool
}

// PublicPage renders a published portfolio at /p/{slug}.
func (h *Handler) PublicPage(c *fiber.Ctx) error {
	draft, err := h.repo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Portfolio not found.")
	}
	return h.renderPage(c, draft, false)
}

// PreviewPage renders an unpublished draft at /preview/{slug}?portfolio_id=.
func (h *Handler) PreviewPage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("portfolio_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("A portfolio_id query parameter is required.")
	}
	draft, err := h.repo.GetPreview(c.Context(), c.Params("slug"), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Portfolio not found.")
	}
	return h.renderPage(c, draft, true)
}

// ExportPDF prints the portfolio page through headless Chrome.
func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid portfolio id."})
	}
	draft, err := h.repo.GetPortfolio(c.Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err, "Portfolio not found.")
	}

	html, err := h.portfolioHTML(draft, false)
	if err != nil {
		log.Printf("export: render failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to render portfolio."})
	}
	pdf, err := h.renderer.RenderHTMLToPDF(c.Context(), html)
	if err != nil {
		log.Printf("export: pdf failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"detail": "Failed to export PDF."})
	}

	name := draft.Slug
	if name == "" {
		name = draft.ID.String()
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="portfolio-`+name+`.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) renderPage(c *fiber.Ctx, draft *domain.PortfolioDraft, isDraft bool) error {
	html, err := h.portfolioHTML(draft, isDraft)
	if err != nil {
		log.Printf("page: render failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to render portfolio.")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

func (h *Handler) portfolioHTML(draft *domain.PortfolioDraft, isDraft bool) (string, error) {
	doc := draftContent(draft)
	page := portfolioPage{
		Name:     doc.String("name"),
		Theme:    doc.SelectedTheme(),
		Sections: preview.Project(doc, doc.SectionOrder(), nil),
		Draft:    isDraft,
	}

	tpl, err := template.ParseFiles(filepath.Join(h.tplDir, "portfolio.html"))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		return "", err
	}

	html := buf.String()
	// inline the stylesheet so exported PDFs and saved pages keep styling
	if css, err := os.ReadFile(filepath.Join(h.tplDir, "style.css")); err == nil {
		cssBlock := "<style>" + string(css) + "</style>"
		if strings.Contains(strings.ToLower(html), "<head>") {
			html = strings.Replace(html, "<head>", "<head>"+cssBlock, 1)
		} else {
			html = cssBlock + html
		}
	}
	return html, nil
}
