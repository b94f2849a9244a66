package ledger

import "context"

// ReconcileService runs the attendance reconciliation pipeline.
type ReconcileService interface {
	// Reconcile parses the artifacts, merges them with absence records and
	// returns the ledger. Artifacts that fail structurally are reported in
	// Ledger.Skipped, not as an error.
	Reconcile(ctx context.Context, req ReconcileRequest) (Ledger, error)
}

// ReportService renders a ledger for download.
type ReportService interface {
	// LedgerWorkbook returns an .xlsx workbook with one sheet each for rows,
	// roll-ups, warnings and skipped artifacts.
	LedgerWorkbook(l Ledger) ([]byte, error)
}
