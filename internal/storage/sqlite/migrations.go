package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Timestamps are Unix seconds (UTC).
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    role TEXT NOT NULL,
    language TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    client_type TEXT NOT NULL,
    mandate_manager TEXT NOT NULL DEFAULT '',
    mandate_responsible TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    tax_number TEXT NOT NULL DEFAULT '',
    tax_court TEXT NOT NULL DEFAULT '',
    address_zip TEXT NOT NULL DEFAULT '',
    address_city TEXT NOT NULL DEFAULT '',
    address_street TEXT NOT NULL DEFAULT '',
    address_number TEXT NOT NULL DEFAULT '',
    tax_office_zip TEXT NOT NULL DEFAULT '',
    tax_office_city TEXT NOT NULL DEFAULT '',
    tax_office_street TEXT NOT NULL DEFAULT '',
    tax_office_number TEXT NOT NULL DEFAULT '',
    tax_office_email TEXT NOT NULL DEFAULT '',
    tax_office_fax TEXT NOT NULL DEFAULT '',
    tax_office_contact_salutation TEXT NOT NULL DEFAULT '',
    tax_office_contact_last_name TEXT NOT NULL DEFAULT '',
    tax_office_contact_phone TEXT NOT NULL DEFAULT '',
    tax_office_tax_court TEXT NOT NULL DEFAULT '',
    salutation TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    birth_date TEXT NOT NULL DEFAULT '',
    tax_id TEXT NOT NULL DEFAULT '',
    company_name TEXT NOT NULL DEFAULT '',
    legal_form TEXT NOT NULL DEFAULT '',
    vat_id TEXT NOT NULL DEFAULT '',
    advisor_id TEXT NOT NULL DEFAULT '',
    advisor_name TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS client_participants (
    id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    person_id TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL,
    PRIMARY KEY (client_id, id),
    FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    template_type TEXT NOT NULL,
    creator TEXT NOT NULL,
    file_name TEXT NOT NULL DEFAULT '',
    file_key TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS template_history (
    id TEXT PRIMARY KEY,
    template_id TEXT NOT NULL,
    changed_at INTEGER NOT NULL,
    user_name TEXT NOT NULL,
    change TEXT NOT NULL,
    FOREIGN KEY (template_id) REFERENCES templates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS work_orders (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    due_date INTEGER,
    client_id TEXT NOT NULL,
    advisor_id TEXT NOT NULL,
    template_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    owner TEXT NOT NULL DEFAULT '',
    client_id TEXT NOT NULL DEFAULT '',
    deadline INTEGER,
    template_id TEXT NOT NULL DEFAULT '',
    work_order_id TEXT NOT NULL DEFAULT '',
    file_name TEXT NOT NULL DEFAULT '',
    file_key TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    modified_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS table_prefs (
    user_id TEXT NOT NULL,
    pref_key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (user_id, pref_key)
);

CREATE INDEX IF NOT EXISTS idx_client_participants_client_id ON client_participants(client_id);
CREATE INDEX IF NOT EXISTS idx_template_history_template_id ON template_history(template_id);
CREATE INDEX IF NOT EXISTS idx_documents_work_order_id ON documents(work_order_id);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
