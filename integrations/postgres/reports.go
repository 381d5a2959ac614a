package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mlagarde/ledgerlens/engine"
)

// SaveReport stores one analysis run and its alerts atomically.
func (db *DB) SaveReport(ctx context.Context, report engine.Report) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	details, err := json.Marshal(report.Risk.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal risk details: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reports (id, generated_at, total_documents, completed_documents,
			pending_documents, failed_documents, suppressed_alerts, risk_score, risk_level, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		report.RunID, report.GeneratedAt,
		report.Documents.Total, report.Documents.Completed,
		report.Documents.Pending, report.Documents.Failed,
		report.Suppressed, report.Risk.Score, string(report.Risk.Level), details)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for _, a := range report.Alerts {
		extra, err := json.Marshal(a.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal alert extra: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO alerts (report_id, sequence, type, title, description,
				priority, severity, status, alert_date, document_id, source_file, reference, amount, extra)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			report.RunID, a.ID, string(a.Type), a.Title, a.Description,
			string(a.Priority), string(a.Severity), string(a.Status), a.Date,
			a.DocumentID, a.SourceFile, a.Reference, a.Amount, extra)
		if err != nil {
			return fmt.Errorf("failed to insert alert %d: %w", a.ID, err)
		}
	}

	return tx.Commit(ctx)
}
