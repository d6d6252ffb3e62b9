// Package store holds the editor's single source of truth: the canonical
// Document, its Meta, the review order and the workflow flags. Every
// mutation funnels through the normalizer and the layout controller, so the
// documented invariants hold after every transition. The store is a per-tab
// singleton; all mutation paths serialize through one mutex and network
// callbacks re-enter as messages, never as direct writers.
package store

import (
	"context"
	"sync"
	"time"

	"portfolio-editor/internal/model"
	"portfolio-editor/internal/normalize"
	"portfolio-editor/internal/sections"
	"portfolio-editor/internal/session"
	"portfolio-editor/pkg/apiclient"
)

// Workflow flag values.
const (
	StateIdle   = "idle"
	StateSaving = "saving"
	StateSaved  = "saved"
	StateError  = "error"

	StateLoading = "loading"
	StateReady   = "ready"

	UploadIdle    = "idle"
	UploadParsing = "parsing"
	UploadParsed  = "parsed"
	UploadError   = "error"
)

// API is the slice of the HTTP client the store drives.
type API interface {
	ParsePDF(ctx context.Context, filename string, pdf []byte, jobDescription string) (map[string]interface{}, error)
	GetPortfolio(ctx context.Context, portfolioID string) (map[string]interface{}, error)
	PutPortfolio(ctx context.Context, portfolioID string, body apiclient.PutBody) (map[string]interface{}, error)
	GenerativePreview(ctx context.Context, prompt string, data map[string]interface{}) (map[string]interface{}, error)
}

// RawFile is the held upload handle, kept until parse completes or the user
// clears it.
type RawFile struct {
	Name string
	Data []byte
}

type Store struct {
	mu     sync.Mutex
	api    API
	bridge *session.Bridge

	step        int
	data        model.Document
	meta        model.Meta
	reviewOrder []string

	uploadStatus string
	saveState    string
	loadState    string
	genState     string
	genError     string
	lastError    string
	lastSavedAt  time.Time
	dirty        bool
	restored     bool
	rawFile      *RawFile

	// request generations let late responses detect they are stale
	loadGen uint64
	genGen  uint64
}

// Snapshot is a consistent read of the store between events.
type Snapshot struct {
	Step         int
	Data         model.Document
	Meta         model.Meta
	ReviewOrder  []string
	UploadStatus string
	SaveState    string
	LoadState    string
	GenState     string
	GenError     string
	LastError    string
	LastSavedAt  time.Time
	Dirty        bool
}

func New(api API, bridge *session.Bridge) *Store {
	if bridge == nil {
		bridge = session.NewBridge(nil)
	}
	s := &Store{
		api:          api,
		bridge:       bridge,
		uploadStatus: UploadIdle,
		saveState:    StateIdle,
		loadState:    StateIdle,
		genState:     StateIdle,
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.step = 0
	s.data = normalize.Initial()
	s.meta = model.Meta{Status: model.StatusDraft, Visibility: model.VisibilityPrivate}
	s.data.ApplyMeta(s.meta)
	s.reviewOrder = s.data.SectionOrder()
	s.uploadStatus = UploadIdle
	s.saveState = StateIdle
	s.loadState = StateIdle
	s.genState = StateIdle
	s.genError = ""
	s.lastError = ""
	s.lastSavedAt = time.Time{}
	s.dirty = false
	s.rawFile = nil
}

// Snapshot returns a deep copy of the observable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Step:         s.step,
		Data:         s.data.Clone(),
		Meta:         s.meta,
		ReviewOrder:  append([]string{}, s.reviewOrder...),
		UploadStatus: s.uploadStatus,
		SaveState:    s.saveState,
		LoadState:    s.loadState,
		GenState:     s.genState,
		GenError:     s.genError,
		LastError:    s.lastError,
		LastSavedAt:  s.lastSavedAt,
		Dirty:        s.dirty,
	}
}

// SetStep moves the wizard step (0 upload, 1 review, 2 publish).
func (s *Store) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step < 0 {
		step = 0
	}
	if step > 2 {
		step = 2
	}
	s.step = step
}

// SetParsedData installs a fresh parser payload as the working draft.
func (s *Store) SetParsedData(payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installLocked(payload, true)
	s.uploadStatus = UploadParsed
	s.dirty = false
	if s.step < 1 {
		s.step = 1
	}
}

// installLocked normalizes a payload, adopts its meta, recomputes the review
// order and refreshes the session bridge. An explicit layout order in the
// payload always wins; the server echo is authoritative even over in-flight
// reorders. Without one, preferPayloadOrder lets a generated spec decide,
// otherwise the current review order is retained where possible.
func (s *Store) installLocked(payload interface{}, preferPayloadOrder bool) {
	doc := normalize.Normalize(payload)
	s.meta = doc.MetaRecord()
	doc.ApplyMeta(s.meta)

	available := sections.Available(doc)
	var order []string
	switch {
	case payloadHasOrder(payload):
		order = doc.SectionOrder()
	case preferPayloadOrder && doc.Map("generatedSpec") != nil:
		order = sections.DeriveFromSpec(doc.Map("generatedSpec"), available)
	case !preferPayloadOrder && len(s.reviewOrder) > 0:
		order = s.reviewOrder
	default:
		order = doc.SectionOrder()
	}
	s.reviewOrder = sections.NormalizeOrder(order, available)
	doc.SetSectionOrder(s.reviewOrder)

	s.data = doc
	s.bridge.Write(s.meta.PortfolioID, s.meta.ResumeID)
}

func payloadHasOrder(payload interface{}) bool {
	m, ok := payload.(map[string]interface{})
	if !ok {
		if doc, isDoc := payload.(model.Document); isDoc {
			m = map[string]interface{}(doc)
		} else {
			return false
		}
	}
	layout, _ := m["layout"].(map[string]interface{})
	if layout == nil {
		return false
	}
	order, _ := layout["sectionOrder"].([]interface{})
	return len(order) > 0
}

// UpdateData applies an updater to a copy of the Document, re-normalizes the
// result and keeps order and meta consistent. Persistence stays explicit;
// this never talks to the network.
func (s *Store) UpdateData(updater func(model.Document) model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := updater(s.data.Clone())
	s.commitDataLocked(normalize.Normalize(next))
}

// SetData replaces the Document with a normalized version of the value.
func (s *Store) SetData(value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitDataLocked(normalize.Normalize(value))
}

func (s *Store) commitDataLocked(doc model.Document) {
	doc.ApplyMeta(s.meta)
	normalize.CommitContactURLs(doc)
	s.reviewOrder = sections.NormalizeOrder(s.reviewOrder, sections.Available(doc))
	doc.SetSectionOrder(s.reviewOrder)
	s.data = doc
	s.dirty = true
}

// UpdateTheme switches the selected theme.
func (s *Store) UpdateTheme(themeID string) {
	s.UpdateData(func(doc model.Document) model.Document {
		themes := doc.Map("themes")
		if themes == nil {
			themes = map[string]interface{}{}
			doc["themes"] = themes
		}
		themes["selected"] = themeID
		return doc
	})
}

// SetReviewOrder installs a new section order. The layout controller clamps
// it to a permutation of the available keys, and the result is mirrored
// into layout.sectionOrder so the two never drift.
func (s *Store) SetReviewOrder(order []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewOrder = sections.NormalizeOrder(order, sections.Available(s.data))
	s.data.SetSectionOrder(s.reviewOrder)
	s.dirty = true
}

// UpdateReviewOrder is the functional form of SetReviewOrder.
func (s *Store) UpdateReviewOrder(updater func([]string) []string) {
	s.mu.Lock()
	current := append([]string{}, s.reviewOrder...)
	s.mu.Unlock()
	s.SetReviewOrder(updater(current))
}

// ToggleSectionVisibility flips a section's visibility flag.
func (s *Store) ToggleSectionVisibility(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ToggleSection(key)
	s.dirty = true
}

// SetMeta applies an updater to the Meta record and unifies the result back
// into the Document. Slug values pass through untouched here; sanitization
// happens at the editor input boundary.
func (s *Store) SetMeta(updater func(model.Meta) model.Meta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = updater(s.meta)
	s.data.ApplyMeta(s.meta)
	s.dirty = true
}

// SetRawFile holds the upload handle by reference until parse completes or
// the user clears it.
func (s *Store) SetRawFile(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawFile = &RawFile{Name: name, Data: data}
}

func (s *Store) ClearRawFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawFile = nil
}

// RawUpload returns the held upload handle, or nil.
func (s *Store) RawUpload() *RawFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawFile
}

// ClearSession drops the persisted session and resets the draft.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge.Clear()
	s.resetLocked()
}
