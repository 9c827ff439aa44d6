// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/kanzlei/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore persists documents.
type DocumentStore interface {
	// CreateDocument persists a new document.
	// ID, CreatedAt and ModifiedAt are populated by the store when unset.
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	ListDocumentsByWorkOrder(ctx context.Context, workOrderID string) ([]*models.Document, error)
	// UpdateDocument replaces all mutable fields and bumps ModifiedAt.
	UpdateDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// ClientStore persists clients and their participants.
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// TemplateStore persists templates and their history.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, tmpl *models.Template) error
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]*models.Template, error)
	// UpdateTemplate writes the mutable fields and inserts history entries
	// not yet stored. Existing history entries are never modified.
	UpdateTemplate(ctx context.Context, tmpl *models.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// WorkOrderStore persists work orders.
type WorkOrderStore interface {
	CreateWorkOrder(ctx context.Context, order *models.WorkOrder) error
	GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)
	ListWorkOrders(ctx context.Context) ([]*models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, order *models.WorkOrder) error
	// DeleteWorkOrder removes the work order and detaches its documents.
	DeleteWorkOrder(ctx context.Context, id string) error
}

// UserStore persists staff accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// PrefsStore persists table preferences as key/value pairs per user.
type PrefsStore interface {
	// GetPrefs returns the stored values for the given keys; missing keys are absent from the map.
	GetPrefs(ctx context.Context, userID string, keys []string) (map[string][]byte, error)
	SetPrefs(ctx context.Context, userID string, values map[string][]byte) error
	DeletePrefs(ctx context.Context, userID string, keys []string) error
}

// Store combines every record store.
// This abstraction allows swapping storage backends without changing the service layer.
type Store interface {
	DocumentStore
	ClientStore
	TemplateStore
	WorkOrderStore
	UserStore
	PrefsStore

	// Close releases any resources held by the store.
	Close() error
}
