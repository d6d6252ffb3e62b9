package store

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"portfolio-editor/internal/model"
	"portfolio-editor/internal/normalize"
	"portfolio-editor/pkg/apiclient"
)

// maxGenerativePrompt caps what is sent to the generative endpoint.
const maxGenerativePrompt = 2000

var (
	ErrNoPortfolio = errors.New("store: no portfolio id to save against")
	ErrNoSession   = errors.New("store: no persisted session")
)

// UploadResume sends the PDF through the parse endpoint and installs the
// result as the working draft. The mutex is released for the duration of the
// request; edits made meanwhile are overwritten by the parse result, which
// is the documented behavior for a fresh upload.
func (s *Store) UploadResume(ctx context.Context, name string, pdf []byte, jobDescription string) error {
	s.mu.Lock()
	s.rawFile = &RawFile{Name: name, Data: pdf}
	s.uploadStatus = UploadParsing
	s.lastError = ""
	api := s.api
	s.mu.Unlock()

	payload, err := api.ParsePDF(ctx, name, pdf, jobDescription)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.uploadStatus = UploadError
		s.lastError = err.Error()
		return fmt.Errorf("store: upload failed: %w", err)
	}
	s.installLocked(payload, true)
	s.uploadStatus = UploadParsed
	s.dirty = false
	if s.step < 1 {
		s.step = 1
	}
	return nil
}

// SaveDraft persists the draft and installs the server's canonical echo.
// There is no stale check on the response: the last write the server
// acknowledged is the truth, even if a newer save is already in flight.
func (s *Store) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.meta.PortfolioID == "" {
		s.mu.Unlock()
		return ErrNoPortfolio
	}
	s.saveState = StateSaving
	s.lastError = ""
	portfolioID := s.meta.PortfolioID
	data := s.data.Clone()
	normalize.CommitContactURLs(data)
	body := apiclient.PutBody{
		Data:       map[string]interface{}(data),
		Status:     s.meta.Status,
		Visibility: s.meta.Visibility,
	}
	if s.meta.Slug != "" {
		slug := s.meta.Slug
		body.Slug = &slug
	}
	api := s.api
	s.mu.Unlock()

	echo, err := api.PutPortfolio(ctx, portfolioID, body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.saveState = StateError
		s.lastError = err.Error()
		return fmt.Errorf("store: save failed: %w", err)
	}
	s.installLocked(echo, false)
	s.saveState = StateSaved
	s.lastSavedAt = time.Now()
	s.dirty = false
	return nil
}

// LoadDraft fetches a draft by id. A response belonging to a superseded
// request is discarded; a failed load clears the persisted session so the
// next visit starts clean.
func (s *Store) LoadDraft(ctx context.Context, portfolioID string) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loadState = StateLoading
	s.lastError = ""
	api := s.api
	s.mu.Unlock()

	payload, err := api.GetPortfolio(ctx, portfolioID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return nil
	}
	if err != nil {
		s.bridge.Clear()
		s.loadState = StateError
		s.lastError = err.Error()
		return fmt.Errorf("store: load failed: %w", err)
	}
	s.installLocked(payload, true)
	if s.meta.PortfolioID == "" {
		s.meta.PortfolioID = portfolioID
		s.data.ApplyMeta(s.meta)
		s.bridge.Write(s.meta.PortfolioID, s.meta.ResumeID)
	}
	s.loadState = StateReady
	s.uploadStatus = UploadParsed
	s.dirty = false
	if s.step < 1 {
		s.step = 1
	}
	return nil
}

// RestoreSession loads the draft named by the persisted session, if any.
// It runs at most once per store; later calls are no-ops.
func (s *Store) RestoreSession(ctx context.Context) error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	s.mu.Unlock()

	state := s.bridge.Read()
	if state == nil || state.PortfolioID == "" {
		return ErrNoSession
	}
	return s.LoadDraft(ctx, state.PortfolioID)
}

// GenerateDesign asks the backend for a UI spec matching the prompt,
// validates it against the schema and installs it. A stale response or an
// invalid spec leaves the previous spec untouched.
func (s *Store) GenerateDesign(ctx context.Context, prompt string) error {
	if utf8.RuneCountInString(prompt) > maxGenerativePrompt {
		prompt = string([]rune(prompt)[:maxGenerativePrompt])
	}

	s.mu.Lock()
	s.genGen++
	gen := s.genGen
	s.genState = StateLoading
	s.genError = ""
	data := map[string]interface{}(s.data.Clone())
	api := s.api
	s.mu.Unlock()

	spec, err := api.GenerativePreview(ctx, prompt, data)
	if err == nil {
		err = model.ValidateUISpec(spec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.genGen {
		return nil
	}
	if err != nil {
		s.genState = StateError
		s.genError = err.Error()
		return fmt.Errorf("store: generate failed: %w", err)
	}
	s.data["generatedSpec"] = model.CloneValue(spec)
	s.genState = StateReady
	s.dirty = true
	return nil
}

// OpenPreviewDraft makes sure the draft has a slug, saves, and returns the
// preview URL the caller should open. Navigation stays with the caller.
func (s *Store) OpenPreviewDraft(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.meta.PortfolioID == "" {
		s.mu.Unlock()
		return "", ErrNoPortfolio
	}
	if s.meta.Slug == "" {
		s.meta.Slug = MintSlug(s.data.String("name"), time.Now())
		s.data.ApplyMeta(s.meta)
		s.dirty = true
	}
	slug := s.meta.Slug
	portfolioID := s.meta.PortfolioID
	s.mu.Unlock()

	if err := s.SaveDraft(ctx); err != nil {
		return "", err
	}
	return "/preview/" + slug + "?portfolio_id=" + portfolioID, nil
}

// GeneratedSpec returns the current generated UI spec, or nil.
func (s *Store) GeneratedSpec() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec := s.data.Map("generatedSpec")
	if spec == nil {
		return nil
	}
	cloned, _ := model.CloneValue(spec).(map[string]interface{})
	return cloned
}
