package postgres

import (
	"context"
	"fmt"
)

// Suppress records an alert suppression key so future runs drop matching
// findings. Idempotent.
func (db *DB) Suppress(ctx context.Context, key string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO suppressed_alerts (suppression_key)
		VALUES ($1)
		ON CONFLICT (suppression_key) DO NOTHING`, key)
	if err != nil {
		return fmt.Errorf("failed to insert suppression: %w", err)
	}
	return nil
}

// Unsuppress removes a suppression key.
func (db *DB) Unsuppress(ctx context.Context, key string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM suppressed_alerts WHERE suppression_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete suppression: %w", err)
	}
	return nil
}

// SuppressedKeys loads the full suppression set.
func (db *DB) SuppressedKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := db.Pool.Query(ctx, `SELECT suppression_key FROM suppressed_alerts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppressions: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan suppression: %w", err)
		}
		keys[key] = true
	}
	return keys, rows.Err()
}
