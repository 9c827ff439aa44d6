package models

import (
	"strings"
	"time"
)

// DocumentStatus is the lifecycle status of a document.
type DocumentStatus string

const (
	StatusDraft        DocumentStatus = "Draft"
	StatusToBeReviewed DocumentStatus = "To Be Reviewed"
	StatusInProgress   DocumentStatus = "In Progress"
	StatusNotStarted   DocumentStatus = "Not Started"
	StatusFinished     DocumentStatus = "Finished"
)

// DocumentStatuses lists every status in display order.
var DocumentStatuses = []DocumentStatus{
	StatusDraft,
	StatusToBeReviewed,
	StatusInProgress,
	StatusNotStarted,
	StatusFinished,
}

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	for _, known := range DocumentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseDocumentStatus maps display names and the snake_case spellings used by
// older clients ("draft", "in_progress", ...) to a status.
// Unknown or empty input maps to StatusNotStarted.
func ParseDocumentStatus(raw string) DocumentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return StatusDraft
	case "finished":
		return StatusFinished
	case "in_progress", "in progress":
		return StatusInProgress
	case "to_be_reviewed", "to be reviewed":
		return StatusToBeReviewed
	default:
		return StatusNotStarted
	}
}

// Document represents a working document.
type Document struct {
	// ID is the unique identifier for the document (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free text shown in the detail view.
	Description string `json:"description,omitempty"`

	Status DocumentStatus `json:"status"`

	// Owner is the name of the staff member responsible for the document.
	Owner string `json:"owner"`

	// ClientID references the client (Mandant) the document belongs to.
	ClientID string `json:"mandant,omitempty"`

	// Deadline is optional. When unset, date range queries fall back to ModifiedAt.
	Deadline *time.Time `json:"deadline,omitempty"`

	// TemplateID references the template the document was created from.
	TemplateID string `json:"template,omitempty"`

	// WorkOrderID is set when the document was uploaded into a work order.
	WorkOrderID string `json:"workOrderId,omitempty"`

	// FileName and FileKey describe the uploaded file, if any.
	// FileKey is the object key in the configured file store.
	FileName string `json:"fileName,omitempty"`
	FileKey  string `json:"fileKey,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modified"`
}

// ReferenceTime is the timestamp date range filters compare against:
// the deadline if present, else the modification time.
func (d *Document) ReferenceTime() time.Time {
	if d.Deadline != nil {
		return *d.Deadline
	}
	return d.ModifiedAt
}
