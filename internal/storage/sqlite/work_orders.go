package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/kanzlei/internal/models"
)

const workOrderColumns = `id, title, description, status, priority, due_date, client_id, advisor_id,
	template_id, created_at, updated_at`

func scanWorkOrder(row rowScanner) (*models.WorkOrder, error) {
	wo := &models.WorkOrder{}
	var status, priority string
	var dueDate sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(&wo.ID, &wo.Title, &wo.Description, &status, &priority, &dueDate,
		&wo.ClientID, &wo.AdvisorID, &wo.TemplateID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	wo.Status = models.WorkOrderStatus(status)
	wo.Priority = models.Priority(priority)
	wo.DueDate = fromNullableUnix(dueDate)
	wo.CreatedAt = fromUnix(createdAt)
	wo.UpdatedAt = fromUnix(updatedAt)
	return wo, nil
}

// CreateWorkOrder persists a new work order.
func (s *SQLiteStore) CreateWorkOrder(ctx context.Context, order *models.WorkOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := s.timestamp()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.WorkOrderOpen
	}
	if order.Priority == "" {
		order.Priority = models.PriorityMedium
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO work_orders (`+workOrderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Title, order.Description, string(order.Status), string(order.Priority),
		nullableUnix(order.DueDate), order.ClientID, order.AdvisorID, order.TemplateID,
		order.CreatedAt.Unix(), order.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert work order: %w", err)
	}
	return nil
}

// GetWorkOrder retrieves a work order by ID.
func (s *SQLiteStore) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	wo, err := scanWorkOrder(s.db.QueryRowContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("work order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return wo, nil
}

// ListWorkOrders retrieves all work orders, newest first.
func (s *SQLiteStore) ListWorkOrders(ctx context.Context) ([]*models.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work orders: %w", err)
	}
	return orders, nil
}

// UpdateWorkOrder replaces a work order's mutable fields.
func (s *SQLiteStore) UpdateWorkOrder(ctx context.Context, order *models.WorkOrder) error {
	order.UpdatedAt = s.timestamp()
	return execAffecting(ctx, s.db, "work order", order.ID,
		`UPDATE work_orders SET title = ?, description = ?, status = ?, priority = ?, due_date = ?,
		 client_id = ?, advisor_id = ?, template_id = ?, updated_at = ?
		 WHERE id = ?`,
		order.Title, order.Description, string(order.Status), string(order.Priority),
		nullableUnix(order.DueDate), order.ClientID, order.AdvisorID, order.TemplateID,
		order.UpdatedAt.Unix(), order.ID,
	)
}

// DeleteWorkOrder removes a work order and detaches its documents.
func (s *SQLiteStore) DeleteWorkOrder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := execAffecting(ctx, tx, "work order", id, `DELETE FROM work_orders WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET work_order_id = '' WHERE work_order_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
