package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/kanzlei/internal/models"
)

const templateColumns = `id, title, note, template_type, creator, file_name, file_key, created_at`

func scanTemplate(row rowScanner) (*models.Template, error) {
	t := &models.Template{}
	var templateType string
	var createdAt int64
	if err := row.Scan(&t.ID, &t.Title, &t.Note, &templateType, &t.Creator, &t.FileName, &t.FileKey, &createdAt); err != nil {
		return nil, err
	}
	t.Type = models.TemplateType(templateType)
	t.CreatedAt = fromUnix(createdAt)
	t.History = []models.TemplateHistoryEntry{}
	return t, nil
}

// CreateTemplate persists a new template and its initial history.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, tmpl *models.Template) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = s.timestamp()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tmpl.ID, tmpl.Title, tmpl.Note, string(tmpl.Type), tmpl.Creator, tmpl.FileName, tmpl.FileKey,
		tmpl.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	if err := insertHistory(ctx, tx, tmpl); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertHistory stores history entries that have no ID yet.
// Entries with an ID are already stored and left untouched.
func insertHistory(ctx context.Context, tx *sql.Tx, tmpl *models.Template) error {
	for i := range tmpl.History {
		entry := &tmpl.History[i]
		if entry.ID != "" {
			continue
		}
		entry.ID = uuid.New().String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO template_history (id, template_id, changed_at, user_name, change) VALUES (?, ?, ?, ?, ?)`,
			entry.ID, tmpl.ID, entry.Date.Unix(), entry.User, entry.Change,
		)
		if err != nil {
			return fmt.Errorf("failed to insert template history: %w", err)
		}
	}
	return nil
}

// GetTemplate retrieves a template by ID with its history.
func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("template", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	history, err := s.historyFor(ctx, `WHERE template_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if h, ok := history[id]; ok {
		tmpl.History = h
	}
	return tmpl, nil
}

// ListTemplates retrieves all templates with their history, newest first.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	if len(templates) == 0 {
		return templates, nil
	}

	// One scan of the whole history table; binding every ID would hit
	// SQLite's variable limit on large collections.
	history, err := s.historyFor(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, tmpl := range templates {
		if h, ok := history[tmpl.ID]; ok {
			tmpl.History = h
		}
	}
	return templates, nil
}

// historyFor loads history entries matching where, grouped by template ID, oldest first.
func (s *SQLiteStore) historyFor(ctx context.Context, where string, args ...any) (map[string][]models.TemplateHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id, id, changed_at, user_name, change FROM template_history `+
			where+` ORDER BY changed_at, rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get template history: %w", err)
	}
	defer rows.Close()

	history := make(map[string][]models.TemplateHistoryEntry)
	for rows.Next() {
		var templateID string
		var changedAt int64
		var entry models.TemplateHistoryEntry
		if err := rows.Scan(&templateID, &entry.ID, &changedAt, &entry.User, &entry.Change); err != nil {
			return nil, fmt.Errorf("failed to scan template history: %w", err)
		}
		entry.Date = fromUnix(changedAt)
		history[templateID] = append(history[templateID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template history: %w", err)
	}
	return history, nil
}

// UpdateTemplate updates a template's fields and appends new history entries.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, tmpl *models.Template) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = execAffecting(ctx, tx, "template", tmpl.ID,
		`UPDATE templates SET title = ?, note = ?, template_type = ?, creator = ?, file_name = ?, file_key = ?
		 WHERE id = ?`,
		tmpl.Title, tmpl.Note, string(tmpl.Type), tmpl.Creator, tmpl.FileName, tmpl.FileKey, tmpl.ID,
	)
	if err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, tmpl); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template; its history cascades.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	return execAffecting(ctx, s.db, "template", id, `DELETE FROM templates WHERE id = ?`, id)
}
