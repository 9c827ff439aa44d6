package sqlite

import (
	"context"
	"fmt"
)

// GetPrefs returns the stored values for the given keys.
func (s *SQLiteStore) GetPrefs(ctx context.Context, userID string, keys []string) (map[string][]byte, error) {
	values := make(map[string][]byte)
	if len(keys) == 0 {
		return values, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, userID)
	for _, k := range keys {
		args = append(args, k)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT pref_key, value FROM table_prefs WHERE user_id = ? AND pref_key IN (`+placeholders(len(keys))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get prefs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan pref: %w", err)
		}
		values[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prefs: %w", err)
	}
	return values, nil
}

// SetPrefs upserts the given key/value pairs.
func (s *SQLiteStore) SetPrefs(ctx context.Context, userID string, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO table_prefs (user_id, pref_key, value) VALUES (?, ?, ?)
			 ON CONFLICT(user_id, pref_key) DO UPDATE SET value = excluded.value`,
			userID, key, string(value),
		)
		if err != nil {
			return fmt.Errorf("failed to set pref %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeletePrefs removes the given keys. Missing keys are ignored.
func (s *SQLiteStore) DeletePrefs(ctx context.Context, userID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, userID)
	for _, k := range keys {
		args = append(args, k)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM table_prefs WHERE user_id = ? AND pref_key IN (`+placeholders(len(keys))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prefs: %w", err)
	}
	return nil
}
