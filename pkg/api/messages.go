package api

import (
	"time"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
)

// Empty is the message of RPCs without arguments or results.
type Empty struct{}

// IDRequest addresses one record.
type IDRequest struct {
	ID string `json:"id"`
}

// ListRequest carries search, filters, date range, sort and page of a list view.
type ListRequest = query.Params

// Paged list responses.
type (
	ListDocumentsResponse  = query.Result[*models.Document]
	ListClientsResponse    = query.Result[*models.Client]
	ListTemplatesResponse  = query.Result[*models.Template]
	ListWorkOrdersResponse = query.Result[*models.WorkOrder]
)

// Documents

// DocumentRequest carries a document to create or update.
type DocumentRequest struct {
	Document *models.Document `json:"document"`
}

// DocumentResponse returns one document.
type DocumentResponse struct {
	Document *models.Document `json:"document"`
}

// DocumentsResponse returns an unpaged list of documents.
type DocumentsResponse struct {
	Documents []*models.Document `json:"documents"`
}

// Clients

// ClientRequest carries a client to create or update.
type ClientRequest struct {
	Client *models.Client `json:"client"`
}

// ClientResponse returns one client.
type ClientResponse struct {
	Client *models.Client `json:"client"`
}

// LegalFormsResponse lists the legal forms and participant roles of business clients.
type LegalFormsResponse struct {
	LegalForms       []models.LegalForm       `json:"legalForms"`
	ParticipantRoles []models.ParticipantRole `json:"participantRoles"`
}

// AdvisorsResponse lists the users with the advisor role.
type AdvisorsResponse struct {
	Advisors []models.Advisor `json:"advisors"`
}

// Templates

// CreateTemplateRequest describes a new template. The caller becomes its creator.
type CreateTemplateRequest struct {
	Title string              `json:"title"`
	Note  string              `json:"note,omitempty"`
	Type  models.TemplateType `json:"type"`
}

// UpdateTemplateRequest changes the fields that are set.
type UpdateTemplateRequest struct {
	ID    string               `json:"id"`
	Title *string              `json:"title,omitempty"`
	Note  *string              `json:"note,omitempty"`
	Type  *models.TemplateType `json:"type,omitempty"`
}

// TemplateResponse returns one template with its history.
type TemplateResponse struct {
	Template *models.Template `json:"template"`
}

// TemplateTypesResponse lists the template types.
type TemplateTypesResponse struct {
	Types []models.TemplateType `json:"types"`
}

// CreatorsResponse lists the distinct template creators.
type CreatorsResponse struct {
	Creators []string `json:"creators"`
}

// Work orders

// CreateWorkOrderRequest describes a new work order. Priority defaults to medium
// and AdvisorID to the first advisor.
type CreateWorkOrderRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ClientID    string          `json:"clientId"`
	AdvisorID   string          `json:"advisorId,omitempty"`
	TemplateID  string          `json:"templateId,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
}

// UpdateWorkOrderRequest changes the fields that are set.
// ClearDueDate removes the due date; it wins over DueDate.
type UpdateWorkOrderRequest struct {
	ID           string                  `json:"id"`
	Title        *string                 `json:"title,omitempty"`
	Description  *string                 `json:"description,omitempty"`
	Status       *models.WorkOrderStatus `json:"status,omitempty"`
	Priority     *models.Priority        `json:"priority,omitempty"`
	DueDate      *time.Time              `json:"dueDate,omitempty"`
	ClearDueDate bool                    `json:"clearDueDate,omitempty"`
	ClientID     *string                 `json:"clientId,omitempty"`
	AdvisorID    *string                 `json:"advisorId,omitempty"`
	TemplateID   *string                 `json:"templateId,omitempty"`
}

// WorkOrderResponse returns one work order.
type WorkOrderResponse struct {
	WorkOrder *models.WorkOrder `json:"workOrder"`
}

// WorkOrderDocumentRequest addresses a document attached to a work order.
type WorkOrderDocumentRequest struct {
	WorkOrderID string `json:"workOrderId"`
	DocumentID  string `json:"documentId"`
}

// Users

// RegisterRequest creates a staff account with the user role.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token issued by Register and Login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserResponse returns one user.
type UserResponse struct {
	User *models.User `json:"user"`
}

// UsersResponse lists users.
type UsersResponse struct {
	Users []*models.User `json:"users"`
}

// UpdateSettingsRequest changes the fields that are set. Only admins may change roles.
type UpdateSettingsRequest struct {
	Name     *string `json:"name,omitempty"`
	Language *string `json:"language,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Table preferences

// TablePrefsRequest selects the list view whose preferences are read or reset.
type TablePrefsRequest struct {
	Entity models.Entity `json:"entity"`
}

// UpdateTablePrefsRequest stores the preferences of one list view.
type UpdateTablePrefsRequest struct {
	Entity models.Entity     `json:"entity"`
	Prefs  models.TablePrefs `json:"prefs"`
}

// TablePrefsResponse returns the preferences of one list view.
type TablePrefsResponse struct {
	Entity models.Entity     `json:"entity"`
	Prefs  models.TablePrefs `json:"prefs"`
}
