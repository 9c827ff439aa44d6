package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/kanzlei/internal/models"
)

const clientColumns = `id, client_type, mandate_manager, mandate_responsible, email, tax_number, tax_court,
	address_zip, address_city, address_street, address_number,
	tax_office_zip, tax_office_city, tax_office_street, tax_office_number, tax_office_email, tax_office_fax,
	tax_office_contact_salutation, tax_office_contact_last_name, tax_office_contact_phone, tax_office_tax_court,
	salutation, title, first_name, last_name, birth_date, tax_id,
	company_name, legal_form, vat_id, advisor_id, advisor_name, created_at, updated_at`

// clientValues flattens a client into column order (without id, created_at, updated_at).
func clientValues(c *models.Client) []any {
	var person models.NaturalPerson
	if c.Person != nil {
		person = *c.Person
	}
	var business models.BusinessEntity
	if c.Business != nil {
		business = *c.Business
	}
	return []any{
		string(c.Type), c.MandateManager, c.MandateResponsible, c.Email, c.TaxNumber, c.TaxCourt,
		c.Address.Zip, c.Address.City, c.Address.Street, c.Address.Number,
		c.TaxOffice.Zip, c.TaxOffice.City, c.TaxOffice.Street, c.TaxOffice.Number, c.TaxOffice.Email, c.TaxOffice.Fax,
		c.TaxOffice.ContactSalutation, c.TaxOffice.ContactLastName, c.TaxOffice.ContactPhone, c.TaxOffice.TaxCourt,
		person.Salutation, person.Title, person.FirstName, person.LastName, person.BirthDate, person.TaxID,
		business.CompanyName, string(business.LegalForm), business.VATID, c.AdvisorID, c.AdvisorName,
	}
}

func scanClient(row rowScanner) (*models.Client, error) {
	c := &models.Client{}
	var clientType, legalForm string
	var person models.NaturalPerson
	var business models.BusinessEntity
	var createdAt, updatedAt int64
	err := row.Scan(&c.ID, &clientType, &c.MandateManager, &c.MandateResponsible, &c.Email, &c.TaxNumber, &c.TaxCourt,
		&c.Address.Zip, &c.Address.City, &c.Address.Street, &c.Address.Number,
		&c.TaxOffice.Zip, &c.TaxOffice.City, &c.TaxOffice.Street, &c.TaxOffice.Number, &c.TaxOffice.Email, &c.TaxOffice.Fax,
		&c.TaxOffice.ContactSalutation, &c.TaxOffice.ContactLastName, &c.TaxOffice.ContactPhone, &c.TaxOffice.TaxCourt,
		&person.Salutation, &person.Title, &person.FirstName, &person.LastName, &person.BirthDate, &person.TaxID,
		&business.CompanyName, &legalForm, &business.VATID, &c.AdvisorID, &c.AdvisorName, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = models.ClientType(clientType)
	switch c.Type {
	case models.ClientTypeNaturalPerson:
		c.Person = &person
	case models.ClientTypeBusiness:
		business.LegalForm = models.LegalForm(legalForm)
		c.Business = &business
	}
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)
	return c, nil
}

// CreateClient persists a new client together with its participants.
func (s *SQLiteStore) CreateClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := s.timestamp()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := append([]any{client.ID}, clientValues(client)...)
	args = append(args, client.CreatedAt.Unix(), client.UpdatedAt.Unix())
	_, err = tx.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES (`+placeholders(len(args))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	if err := insertParticipants(ctx, tx, client); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, client *models.Client) error {
	if client.Business == nil {
		return nil
	}
	for i := range client.Business.Participants {
		p := &client.Business.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO client_participants (id, client_id, position, person_id, first_name, last_name, role)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, client.ID, i, p.PersonID, p.FirstName, p.LastName, string(p.Role),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// GetClient retrieves a client by ID, including participants.
func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	client, err := scanClient(s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("client", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if client.Business != nil {
		byClient, err := s.participantsFor(ctx, `WHERE client_id = ?`, client.ID)
		if err != nil {
			return nil, err
		}
		client.Business.Participants = byClient[client.ID]
	}
	return client, nil
}

// ListClients retrieves all clients, oldest first.
func (s *SQLiteStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	hasBusiness := false
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		hasBusiness = hasBusiness || client.Business != nil
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	if !hasBusiness {
		return clients, nil
	}
	byClient, err := s.participantsFor(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, client := range clients {
		if client.Business != nil {
			client.Business.Participants = byClient[client.ID]
		}
	}
	return clients, nil
}

// participantsFor loads the participants matching where, keyed by client ID.
func (s *SQLiteStore) participantsFor(ctx context.Context, where string, args ...any) (map[string][]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT client_id, id, person_id, first_name, last_name, role FROM client_participants `+
			where+` ORDER BY client_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	byClient := make(map[string][]models.Participant)
	for rows.Next() {
		var clientID, role string
		var p models.Participant
		if err := rows.Scan(&clientID, &p.ID, &p.PersonID, &p.FirstName, &p.LastName, &role); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Role = models.ParticipantRole(role)
		byClient[clientID] = append(byClient[clientID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return byClient, nil
}

// UpdateClient replaces a client's fields and participants.
func (s *SQLiteStore) UpdateClient(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = s.timestamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := append(clientValues(client), client.UpdatedAt.Unix(), client.ID)
	err = execAffecting(ctx, tx, "client", client.ID,
		`UPDATE clients SET client_type = ?, mandate_manager = ?, mandate_responsible = ?, email = ?,
		 tax_number = ?, tax_court = ?, address_zip = ?, address_city = ?, address_street = ?, address_number = ?,
		 tax_office_zip = ?, tax_office_city = ?, tax_office_street = ?, tax_office_number = ?,
		 tax_office_email = ?, tax_office_fax = ?, tax_office_contact_salutation = ?,
		 tax_office_contact_last_name = ?, tax_office_contact_phone = ?, tax_office_tax_court = ?,
		 salutation = ?, title = ?, first_name = ?, last_name = ?, birth_date = ?, tax_id = ?,
		 company_name = ?, legal_form = ?, vat_id = ?, advisor_id = ?, advisor_name = ?, updated_at = ?
		 WHERE id = ?`,
		args...,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM client_participants WHERE client_id = ?`, client.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, client); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteClient removes a client; participants cascade.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id string) error {
	return execAffecting(ctx, s.db, "client", id, `DELETE FROM clients WHERE id = ?`, id)
}
