package query

import (
	"time"

	"github.com/mmynk/kanzlei/internal/models"
)

// Default page sizes per list view.
const (
	DocumentsPageSize  = 20
	TemplatesPageSize  = 20
	ClientsPageSize    = 12
	WorkOrdersPageSize = 20
)

// Documents searches name, template and client; filters by status, owner and
// template; date ranges apply to the deadline, falling back to the modification time.
var Documents = Spec[*models.Document]{
	Search: func(d *models.Document) []string {
		return []string{d.Name, d.TemplateID, d.ClientID}
	},
	Filters: map[string]Filter[*models.Document]{
		"status":   In(func(d *models.Document) string { return string(d.Status) }),
		"owner":    In(func(d *models.Document) string { return d.Owner }),
		"template": In(func(d *models.Document) string { return d.TemplateID }),
	},
	Date: (*models.Document).ReferenceTime,
	Sorts: map[string]func(a, b *models.Document) int{
		"name":     ByString(func(d *models.Document) string { return d.Name }),
		"status":   ByString(func(d *models.Document) string { return string(d.Status) }),
		"owner":    ByString(func(d *models.Document) string { return d.Owner }),
		"mandant":  ByString(func(d *models.Document) string { return d.ClientID }),
		"template": ByString(func(d *models.Document) string { return d.TemplateID }),
		"modified": ByTime(func(d *models.Document) time.Time { return d.ModifiedAt }),
		"deadline": ByTime(func(d *models.Document) time.Time {
			if d.Deadline == nil {
				return time.Time{}
			}
			return *d.Deadline
		}),
	},
	PageSize: DocumentsPageSize,
}

// Clients searches first name, last name, company name and city. The legal form
// filter only applies to businesses; natural persons always pass it.
var Clients = Spec[*models.Client]{
	Search: func(c *models.Client) []string {
		fields := []string{c.Address.City}
		if c.Person != nil {
			fields = append(fields, c.Person.FirstName, c.Person.LastName)
		}
		if c.Business != nil {
			fields = append(fields, c.Business.CompanyName)
		}
		return fields
	},
	Filters: map[string]Filter[*models.Client]{
		"type":      In(func(c *models.Client) string { return string(c.Type) }),
		"advisorId": In(func(c *models.Client) string { return c.AdvisorID }),
		"legalForm": {
			Value:  func(c *models.Client) string { return string(c.LegalFormValue()) },
			Bypass: func(c *models.Client) bool { return c.Type == models.ClientTypeNaturalPerson },
		},
	},
	Sorts: map[string]func(a, b *models.Client) int{
		"name":      ByString((*models.Client).DisplayName),
		"city":      ByString(func(c *models.Client) string { return c.Address.City }),
		"type":      ByString(func(c *models.Client) string { return string(c.Type) }),
		"createdAt": ByTime(func(c *models.Client) time.Time { return c.CreatedAt }),
		"updatedAt": ByTime(func(c *models.Client) time.Time { return c.UpdatedAt }),
	},
	PageSize: ClientsPageSize,
}

// Templates searches title, note, creator and type; date ranges apply to the creation time.
var Templates = Spec[*models.Template]{
	Search: func(t *models.Template) []string {
		return []string{t.Title, t.Note, t.Creator, string(t.Type)}
	},
	Filters: map[string]Filter[*models.Template]{
		"creator": In(func(t *models.Template) string { return t.Creator }),
		"type":    In(func(t *models.Template) string { return string(t.Type) }),
	},
	Date: func(t *models.Template) time.Time { return t.CreatedAt },
	Sorts: map[string]func(a, b *models.Template) int{
		"title":     ByString(func(t *models.Template) string { return t.Title }),
		"creator":   ByString(func(t *models.Template) string { return t.Creator }),
		"type":      ByString(func(t *models.Template) string { return string(t.Type) }),
		"createdAt": ByTime(func(t *models.Template) time.Time { return t.CreatedAt }),
	},
	PageSize: TemplatesPageSize,
}

// WorkOrders searches title and description; date ranges apply to the due date,
// falling back to the creation time.
var WorkOrders = Spec[*models.WorkOrder]{
	Search: func(w *models.WorkOrder) []string {
		return []string{w.Title, w.Description}
	},
	Filters: map[string]Filter[*models.WorkOrder]{
		"status":   In(func(w *models.WorkOrder) string { return string(w.Status) }),
		"priority": In(func(w *models.WorkOrder) string { return string(w.Priority) }),
		"clientId": In(func(w *models.WorkOrder) string { return w.ClientID }),
	},
	Date: func(w *models.WorkOrder) time.Time {
		if w.DueDate != nil {
			return *w.DueDate
		}
		return w.CreatedAt
	},
	Sorts: map[string]func(a, b *models.WorkOrder) int{
		"title":     ByString(func(w *models.WorkOrder) string { return w.Title }),
		"status":    ByString(func(w *models.WorkOrder) string { return string(w.Status) }),
		"priority":  ByString(func(w *models.WorkOrder) string { return string(w.Priority) }),
		"createdAt": ByTime(func(w *models.WorkOrder) time.Time { return w.CreatedAt }),
		"dueDate": ByTime(func(w *models.WorkOrder) time.Time {
			if w.DueDate == nil {
				return time.Time{}
			}
			return *w.DueDate
		}),
	},
	PageSize: WorkOrdersPageSize,
}
