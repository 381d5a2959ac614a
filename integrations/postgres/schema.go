package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Analysis runs
CREATE TABLE IF NOT EXISTS reports (
    id UUID PRIMARY KEY,
    generated_at TIMESTAMPTZ NOT NULL,
    total_documents INTEGER NOT NULL,
    completed_documents INTEGER NOT NULL,
    pending_documents INTEGER NOT NULL,
    failed_documents INTEGER NOT NULL,
    suppressed_alerts INTEGER NOT NULL,
    risk_score INTEGER NOT NULL,
    risk_level VARCHAR(20) NOT NULL,
    details JSONB DEFAULT '{}',
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Alerts per run
CREATE TABLE IF NOT EXISTS alerts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,
    type VARCHAR(50) NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    priority VARCHAR(10) NOT NULL,
    severity VARCHAR(10) NOT NULL,
    status VARCHAR(20) NOT NULL,
    alert_date DATE NOT NULL,
    document_id VARCHAR(100) DEFAULT '',
    source_file VARCHAR(255) DEFAULT '',
    reference VARCHAR(100) DEFAULT '',
    amount NUMERIC(18,2),
    extra JSONB DEFAULT '{}',
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(report_id, sequence)
);

-- Documents seen by a run
CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    document_id VARCHAR(100) NOT NULL,
    name VARCHAR(255) NOT NULL,
    type VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL,
    load_error TEXT DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(report_id, document_id)
);

-- Alerts a reviewer rejected; future runs drop matching findings
CREATE TABLE IF NOT EXISTS suppressed_alerts (
    suppression_key TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
CREATE INDEX IF NOT EXISTS idx_alerts_report_id ON alerts(report_id);
CREATE INDEX IF NOT EXISTS idx_documents_report_id ON documents(report_id);
CREATE INDEX IF NOT EXISTS idx_alerts_type ON alerts(type);
CREATE INDEX IF NOT EXISTS idx_alerts_reference ON alerts(reference) WHERE reference != '';
`

// EnsureSchema creates the tables if they don't exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
