package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResumeDocument is a parsed resume upload.
type ResumeDocument struct {
	ID             uuid.UUID              `json:"id"`
	Filename       string                 `json:"filename"`
	RawText        string                 `json:"raw_text"`
	Parsed         map[string]interface{} `json:"parsed"`
	Normalized     map[string]interface{} `json:"normalized"`
	JobDescription string                 `json:"job_description"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// PortfolioDraft is the editable portfolio document plus its publication
// state. PublishedAt is set the first time the status flips to published
// and never changes afterwards.
type PortfolioDraft struct {
	ID          uuid.UUID              `json:"id"`
	ResumeID    *uuid.UUID             `json:"resume_id,omitempty"`
	Data        map[string]interface{} `json:"data"`
	Slug        string                 `json:"slug,omitempty"`
	Status      string                 `json:"status"`
	Visibility  string                 `json:"visibility"`
	PublishedAt *time.Time             `json:"published_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
