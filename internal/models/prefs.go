package models

import (
	"maps"
	"slices"
)

// Entity names a list view with its own table preferences.
type Entity string

const (
	EntityDocuments Entity = "documents"
	EntityTemplates Entity = "templates"
	EntityClients   Entity = "clients"
)

// Valid reports whether e is a known entity.
func (e Entity) Valid() bool {
	return e == EntityDocuments || e == EntityTemplates || e == EntityClients
}

// KeyPrefix is the prefix of the storage keys for e, e.g. "docs" in "docs.pageSize".
func (e Entity) KeyPrefix() string {
	if e == EntityDocuments {
		return "docs"
	}
	return string(e)
}

// TablePrefs holds the list view settings of one user for one entity.
type TablePrefs struct {
	VisibleColumns map[string]bool `json:"visibleColumns"`
	ColumnWidths   map[string]int  `json:"columnWidths,omitempty"`
	ColumnOrder    []string        `json:"columnOrder,omitempty"`
	PageSize       int             `json:"pageSize"`
}

// StorageKeys returns the keys the preferences are stored under, one per field.
// Clients have no column widths or order; their visible columns are "visibleMeta".
func (e Entity) StorageKeys() []string {
	p := e.KeyPrefix()
	if e == EntityClients {
		return []string{p + ".visibleMeta", p + ".pageSize"}
	}
	return []string{p + ".visibleColumns", p + ".columnWidths", p + ".columnOrder", p + ".pageSize"}
}

// DefaultTablePrefs returns a fresh copy of the default preferences for e.
func DefaultTablePrefs(e Entity) TablePrefs {
	switch e {
	case EntityDocuments:
		return TablePrefs{
			VisibleColumns: map[string]bool{
				"select": true, "modified": true, "name": true, "status": true,
				"owner": true, "mandant": true, "deadline": true, "actions": true,
			},
			ColumnWidths: map[string]int{
				"modified": 120, "name": 200, "status": 120, "owner": 150,
				"mandant": 150, "deadline": 120, "actions": 180,
			},
			ColumnOrder: []string{"modified", "name", "status", "owner", "mandant", "deadline", "actions"},
			PageSize:    20,
		}
	case EntityTemplates:
		return TablePrefs{
			VisibleColumns: map[string]bool{
				"createdAt": true, "creator": true, "title": true,
				"type": true, "history": true, "actions": true,
			},
			ColumnWidths: map[string]int{
				"createdAt": 150, "creator": 150, "title": 300,
				"type": 150, "history": 150, "actions": 180,
			},
			ColumnOrder: []string{"title", "createdAt", "creator", "type", "history", "actions"},
			PageSize:    20,
		}
	case EntityClients:
		return TablePrefs{
			VisibleColumns: map[string]bool{
				"companyName": true, "address": true, "advisor": true,
				"legalForm": true, "createdAt": false,
			},
			PageSize: 12,
		}
	default:
		return TablePrefs{VisibleColumns: map[string]bool{}, PageSize: 20}
	}
}

// Merge overlays the non-empty fields of update onto p and returns the result.
// Column visibility and widths merge per key; order and page size replace.
func (p TablePrefs) Merge(update TablePrefs) TablePrefs {
	out := TablePrefs{
		VisibleColumns: maps.Clone(p.VisibleColumns),
		ColumnWidths:   maps.Clone(p.ColumnWidths),
		ColumnOrder:    slices.Clone(p.ColumnOrder),
		PageSize:       p.PageSize,
	}
	if out.VisibleColumns == nil {
		out.VisibleColumns = map[string]bool{}
	}
	maps.Copy(out.VisibleColumns, update.VisibleColumns)
	if len(update.ColumnWidths) > 0 {
		if out.ColumnWidths == nil {
			out.ColumnWidths = map[string]int{}
		}
		for k, w := range update.ColumnWidths {
			if w > 0 {
				out.ColumnWidths[k] = w
			}
		}
	}
	if len(update.ColumnOrder) > 0 {
		out.ColumnOrder = slices.Clone(update.ColumnOrder)
	}
	if update.PageSize > 0 {
		out.PageSize = update.PageSize
	}
	return out
}
