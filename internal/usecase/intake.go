package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio-editor/internal/domain"
	"portfolio-editor/internal/model"
	"portfolio-editor/internal/normalize"
	"portfolio-editor/pkg/parser"

	"github.com/google/uuid"
)

// Extractor pulls plain text and embedded links out of a PDF.
type Extractor interface {
	Extract(ctx context.Context, filename string, pdf []byte) (*parser.Extraction, error)
}

// Labeler structures raw resume text into the parsed payload shape.
type Labeler interface {
	Label(ctx context.Context, rawText string, links []string, jobDescription string) (map[string]interface{}, error)
	TailoredSummary(ctx context.Context, parsed map[string]interface{}, jobDescription string) (string, error)
}

// IntakeRepo is the slice of the repository the intake pipeline writes to.
type IntakeRepo interface {
	SaveResume(ctx context.Context, doc *domain.ResumeDocument) error
	SavePortfolio(ctx context.Context, draft *domain.PortfolioDraft) error
}

// Processor runs a resume upload through extraction, labeling,
// normalization, classification and persistence.
type Processor struct {
	extractor Extractor
	labeler   Labeler
	repo      IntakeRepo
}

func NewProcessor(extractor Extractor, labeler Labeler, repo IntakeRepo) *Processor {
	return &Processor{extractor: extractor, labeler: labeler, repo: repo}
}

// Process returns the normalized document, already carrying its meta record
// with fresh resume and portfolio ids.
func (p *Processor) Process(ctx context.Context, filename string, pdf []byte, jobDescription string) (model.Document, error) {
	jd := normalize.NormalizeJobDescription(jobDescription)

	// Stage 1: extraction
	var rawText string
	var links []string
	if extraction, err := p.extractor.Extract(ctx, filename, pdf); err != nil {
		fmt.Printf("intake: extraction failed, salvaging text: %v\n", err)
		rawText = parser.SalvageText(pdf)
	} else {
		rawText = extraction.Text
		links = extraction.Links
	}

	// Stage 2: labeling
	parsed, err := p.labeler.Label(ctx, rawText, links, jd)
	if err != nil {
		return nil, fmt.Errorf("labeling failed: %w", err)
	}
	if jd != "" {
		if _, ok := parsed["job_description"]; !ok {
			parsed["job_description"] = jd
		}
	}
	attachRawText(parsed, rawText)

	// Stage 3: normalization
	doc := normalize.Normalize(parsed)
	if tailored, err := p.labeler.TailoredSummary(ctx, parsed, jd); err != nil {
		fmt.Printf("intake: tailored summary failed (non-fatal): %v\n", err)
	} else if tailored != "" {
		doc["original_summary"] = doc.String("summary")
		doc["summary"] = tailored
		meta := doc.Map("meta")
		if meta == nil {
			meta = map[string]interface{}{}
			doc["meta"] = meta
		}
		meta["tailored_summary"] = true
	}

	// Stage 4: classification
	doc["job_type"] = InferJobType(doc).ToMap()
	doc["resume_job_type"] = InferResumeJobType(doc).ToMap()

	// Stage 5: identity and persistence
	resumeID := uuid.New()
	portfolioID := uuid.New()
	meta := doc.MetaRecord()
	meta.ResumeID = resumeID.String()
	meta.PortfolioID = portfolioID.String()
	if meta.Status == "" {
		meta.Status = model.StatusDraft
	}
	if meta.Visibility == "" {
		meta.Visibility = model.VisibilityPrivate
	}
	doc.ApplyMeta(meta)

	now := time.Now()
	resume := &domain.ResumeDocument{
		ID:             resumeID,
		Filename:       filename,
		RawText:        rawText,
		Parsed:         parsed,
		Normalized:     map[string]interface{}(doc.Clone()),
		JobDescription: jd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.repo.SaveResume(ctx, resume); err != nil {
		return nil, fmt.Errorf("persist resume: %w", err)
	}

	draft := &domain.PortfolioDraft{
		ID:         portfolioID,
		ResumeID:   &resumeID,
		Data:       map[string]interface{}(doc.Clone()),
		Status:     meta.Status,
		Visibility: meta.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.repo.SavePortfolio(ctx, draft); err != nil {
		return nil, fmt.Errorf("persist portfolio draft: %w", err)
	}

	return doc, nil
}

// Reanalyze re-normalizes a stored resume against a new job description and
// refreshes both classifiers. The labeler is not consulted again.
func Reanalyze(resume *domain.ResumeDocument, jobDescription string) model.Document {
	jd := normalize.NormalizeJobDescription(jobDescription)
	parsed := map[string]interface{}{}
	if resume.Parsed != nil {
		parsed, _ = model.CloneValue(resume.Parsed).(map[string]interface{})
	}
	if jd != "" {
		parsed["job_description"] = jd
	} else {
		delete(parsed, "job_description")
	}
	attachRawText(parsed, resume.RawText)

	doc := normalize.Normalize(parsed)
	doc["job_type"] = InferJobType(doc).ToMap()
	doc["resume_job_type"] = InferResumeJobType(doc).ToMap()
	return doc
}

// attachRawText stores the extracted text under raw so the resume classifier
// can use it later; the normalizer caps its size.
func attachRawText(parsed map[string]interface{}, rawText string) {
	if rawText == "" {
		return
	}
	raw, _ := parsed["raw"].(map[string]interface{})
	if raw == nil {
		raw = map[string]interface{}{}
		parsed["raw"] = raw
	}
	if _, ok := raw["raw_resume_text"]; !ok {
		raw["raw_resume_text"] = rawText
	}
}
