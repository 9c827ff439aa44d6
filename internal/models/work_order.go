package models

import "time"

// WorkOrderStatus is the state of a work order.
type WorkOrderStatus string

const (
	WorkOrderOpen       WorkOrderStatus = "open"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
)

// Valid reports whether s is a known work order status.
func (s WorkOrderStatus) Valid() bool {
	return s == WorkOrderOpen || s == WorkOrderInProgress || s == WorkOrderCompleted
}

// Priority of a work order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// WorkOrder represents a workflow (Arbeitsauftrag) for one client.
// Documents reference their work order through Document.WorkOrderID.
type WorkOrder struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      WorkOrderStatus `json:"status"`
	Priority    Priority        `json:"priority"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`

	ClientID   string `json:"clientId"`
	AdvisorID  string `json:"advisorId"`
	TemplateID string `json:"templateId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
