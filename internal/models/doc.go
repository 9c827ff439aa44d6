// Package models defines the core domain models for the firm's workspace.
//
// # Models
//
//   - Document: a working document of a client, optionally created from a template
//     and optionally attached to a work order
//   - Client: a Mandant, either a natural person or a business entity
//   - Template: a reusable document, text block or layout with a change history
//   - WorkOrder: a case grouping documents for one client
//   - User: a staff account; advisors are users with the advisor role
//   - TablePrefs: per-user list view settings
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers
//  2. Enumerated values (status, type, legal form, role) are closed sets with a Valid method
//  3. Timestamps are time.Time in UTC; the store persists them as Unix seconds
package models
