package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/kanzlei/internal/models"
)

const documentColumns = `id, name, description, status, owner, client_id, deadline, template_id,
	work_order_id, file_name, file_key, created_at, modified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	doc := &models.Document{}
	var status string
	var deadline sql.NullInt64
	var createdAt, modifiedAt int64
	err := row.Scan(&doc.ID, &doc.Name, &doc.Description, &status, &doc.Owner, &doc.ClientID,
		&deadline, &doc.TemplateID, &doc.WorkOrderID, &doc.FileName, &doc.FileKey, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}
	doc.Status = models.DocumentStatus(status)
	doc.Deadline = fromNullableUnix(deadline)
	doc.CreatedAt = fromUnix(createdAt)
	doc.ModifiedAt = fromUnix(modifiedAt)
	return doc, nil
}

// CreateDocument persists a new document to the database.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := s.timestamp()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = doc.CreatedAt
	}
	if doc.Status == "" {
		doc.Status = models.StatusNotStarted
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Description, string(doc.Status), doc.Owner, doc.ClientID,
		nullableUnix(doc.Deadline), doc.TemplateID, doc.WorkOrderID, doc.FileName, doc.FileKey,
		doc.CreatedAt.Unix(), doc.ModifiedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("document", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments retrieves all documents, most recently modified first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY modified_at DESC, id`)
}

// ListDocumentsByWorkOrder retrieves the documents attached to a work order.
func (s *SQLiteStore) ListDocumentsByWorkOrder(ctx context.Context, workOrderID string) ([]*models.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE work_order_id = ? ORDER BY created_at, rowid`,
		workOrderID)
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// UpdateDocument updates an existing document and sets its modification time.
func (s *SQLiteStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	doc.ModifiedAt = s.timestamp()
	return execAffecting(ctx, s.db, "document", doc.ID,
		`UPDATE documents SET name = ?, description = ?, status = ?, owner = ?, client_id = ?,
		 deadline = ?, template_id = ?, work_order_id = ?, file_name = ?, file_key = ?, modified_at = ?
		 WHERE id = ?`,
		doc.Name, doc.Description, string(doc.Status), doc.Owner, doc.ClientID,
		nullableUnix(doc.Deadline), doc.TemplateID, doc.WorkOrderID, doc.FileName, doc.FileKey,
		doc.ModifiedAt.Unix(), doc.ID,
	)
}

// DeleteDocument removes a document by ID.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	return execAffecting(ctx, s.db, "document", id, `DELETE FROM documents WHERE id = ?`, id)
}
