package postgres

import (
	"context"
	"fmt"

	"github.com/mlagarde/ledgerlens/document"
)

// SaveDocuments records the document descriptors analyzed by a run. Content
// stays on disk; only the descriptor and its load outcome are archived.
func (db *DB) SaveDocuments(ctx context.Context, reportID string, docs []document.Document) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range docs {
		_, err := tx.Exec(ctx, `
			INSERT INTO documents (report_id, document_id, name, type, status, load_error)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (report_id, document_id) DO NOTHING`,
			reportID, doc.ID, doc.Name, string(doc.Type), string(doc.Status), doc.LoadError)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.Name, err)
		}
	}

	return tx.Commit(ctx)
}
