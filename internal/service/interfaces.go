// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/haulwatch/haulwatch/internal/model"
)

// RunStore is the contract for the run-history persistence layer. A run is
// recorded once, atomically, after resolution completes; history is
// read-only afterwards.
type RunStore interface {
	// SaveRun records a completed run with its alerts and residue in a
	// single transaction.
	SaveRun(ctx context.Context, summary model.RunSummary, alerts []model.Alert, residue []model.ResolvedInvoice) error

	// LatestRun returns the most recently recorded run.
	LatestRun(ctx context.Context) (*model.RunSummary, error)

	// ListRuns returns recorded runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)

	// RunAlerts returns the alerts recorded for a run, in recorded order.
	RunAlerts(ctx context.Context, runID string) ([]model.Alert, error)

	// RunResidue returns the unresolved invoices recorded for a run.
	RunResidue(ctx context.Context, runID string) ([]model.ResolvedInvoice, error)

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	Close() error
}
