package storage

import (
	"context"
	"fmt"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/model"
)

// SaveRun records a completed run with its alerts and residue in a single
// transaction: a run is either fully recorded or not at all.
func (s *SQLiteStore) SaveRun(ctx context.Context, summary model.RunSummary, alerts []model.Alert, residue []model.ResolvedInvoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, reference_date, total_invoices, skipped, matched, unmatched, alert_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		summary.StartedAt.UTC(),
		summary.ReferenceDate.UTC(),
		summary.TotalInvoices,
		summary.Skipped,
		summary.Matched,
		summary.Unmatched,
		summary.AlertCount,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for stage, count := range summary.StageCounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_stages (run_id, stage, count) VALUES (?, ?, ?)`,
			summary.ID, string(stage), count); err != nil {
			return fmt.Errorf("failed to insert stage count: %w", err)
		}
	}

	for i, a := range alerts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_alerts (run_id, position, vendor, prior_count, current_count, pct)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			summary.ID, i, a.Vendor, a.PriorCount, a.CurrentCount, a.Pct); err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	for _, r := range residue {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_residue (run_id, invoice_id, vendor_text, counterparty_text, invoice_date)
			 VALUES (?, ?, ?, ?, ?)`,
			summary.ID, r.ID, r.VendorText, r.CounterpartyText, r.Date.UTC()); err != nil {
			return fmt.Errorf("failed to insert residue row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently recorded run.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.RunSummary, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, common.ErrNotFound
	}
	return &runs[0], nil
}

// ListRuns returns recorded runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, reference_date, total_invoices, skipped, matched, unmatched, alert_count
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.ReferenceDate, &run.TotalInvoices,
			&run.Skipped, &run.Matched, &run.Unmatched, &run.AlertCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range runs {
		if runs[i].StageCounts, err = s.stageCounts(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// RunAlerts returns the alerts recorded for a run, in recorded order.
func (s *SQLiteStore) RunAlerts(ctx context.Context, runID string) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT vendor, prior_count, current_count, pct
		 FROM run_alerts WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.Vendor, &a.PriorCount, &a.CurrentCount, &a.Pct); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// RunResidue returns the unresolved invoices recorded for a run.
func (s *SQLiteStore) RunResidue(ctx context.Context, runID string) ([]model.ResolvedInvoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT invoice_id, vendor_text, counterparty_text, invoice_date
		 FROM run_residue WHERE run_id = ? ORDER BY invoice_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query residue: %w", err)
	}
	defer rows.Close()

	var residue []model.ResolvedInvoice
	for rows.Next() {
		var r model.ResolvedInvoice
		if err := rows.Scan(&r.ID, &r.VendorText, &r.CounterpartyText, &r.Date); err != nil {
			return nil, fmt.Errorf("failed to scan residue row: %w", err)
		}
		r.Vendor = model.VendorUnmatched
		r.Stage = model.StageUnresolved
		residue = append(residue, r)
	}
	return residue, rows.Err()
}

func (s *SQLiteStore) stageCounts(ctx context.Context, runID string) (map[model.ResolutionStage]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, count FROM run_stages WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ResolutionStage]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts[model.ResolutionStage(stage)] = count
	}
	return counts, rows.Err()
}

