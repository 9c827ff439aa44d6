package models

import "time"

// TemplateType is the category of a template (Vorlagenart).
type TemplateType string

const (
	TemplateTypeDocuments  TemplateType = "Dokumente"
	TemplateTypeTextBlocks TemplateType = "Textbausteine"
	TemplateTypeLayouts    TemplateType = "Layoutvorlagen"
)

// TemplateTypes lists every template type.
var TemplateTypes = []TemplateType{
	TemplateTypeDocuments,
	TemplateTypeTextBlocks,
	TemplateTypeLayouts,
}

// Valid reports whether t is a known template type.
func (t TemplateType) Valid() bool {
	for _, known := range TemplateTypes {
		if t == known {
			return true
		}
	}
	return false
}

// History change descriptions recorded by the template service.
const (
	ChangeCreated      = "Vorlage erstellt"
	ChangeUpdated      = "Vorlage aktualisiert"
	ChangeFileUploaded = "Datei hochgeladen"
)

// TemplateHistoryEntry records one change to a template.
type TemplateHistoryEntry struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	User   string    `json:"user"`
	Change string    `json:"change"`
}

// Template represents a reusable document or layout.
type Template struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Creator   string       `json:"creator"`
	Title     string       `json:"title"`
	Note      string       `json:"note,omitempty"`
	Type      TemplateType `json:"type"`

	// History is append-only and ordered oldest first.
	History []TemplateHistoryEntry `json:"history"`

	FileName string `json:"fileName,omitempty"`
	FileKey  string `json:"fileKey,omitempty"`
}
