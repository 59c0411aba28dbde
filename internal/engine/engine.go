// Package engine implements the resolution pipeline that maps each raw
// invoice onto a canonical vendor identity.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/match"
	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/normalize"
)

// Engine resolves a batch of invoices against an immutable reference
// snapshot. Build one per run; reference data changes between runs.
type Engine struct {
	vendors    *match.VendorMatcher
	locations  *match.LocationMatcher
	overrides  map[string]string
	workers    int
	onProgress func(done, total int)
}

// Config holds configuration options for the resolution engine.
type Config struct {
	// Workers sets the fan-out for resolving unique vendor strings.
	// Resolution is a pure per-invoice mapping, so parallelism never changes
	// output. Zero or one means sequential.
	Workers int
	// OnProgress, if set, is called as invoices complete.
	OnProgress func(done, total int)
}

// Result is the complete outcome of one resolution run. Resolved holds every
// surviving invoice in input order; Residue is the unresolved subset kept for
// manual triage.
type Result struct {
	StageCounts map[model.ResolutionStage]int
	Resolved    []model.ResolvedInvoice
	Residue     []model.ResolvedInvoice
	Excluded    int
	Skipped     int
}

// New validates the reference snapshot and builds an engine. Empty vendor or
// location reference data is fatal: it is checked here, before any matching
// starts. Overrides pointing at vendors outside the canonical set are
// rejected for the same reason.
func New(ref model.ReferenceData, cfg Config) (*Engine, error) {
	vendors, err := match.NewVendorMatcher(ref.Vendors)
	if err != nil {
		return nil, fmt.Errorf("canonical vendor set: %w", err)
	}

	locations, err := match.NewLocationMatcher(ref.Locations, vendors)
	if err != nil {
		return nil, fmt.Errorf("location link table: %w", err)
	}

	overrides := make(map[string]string, len(ref.Overrides))
	for raw, target := range ref.Overrides {
		target = normalize.Clean(target)
		if !vendors.Contains(target) {
			return nil, fmt.Errorf("override %q -> %q: %w", raw, target, common.ErrUnknownOverride)
		}
		overrides[normalize.Clean(raw)] = target
	}

	return &Engine{
		vendors:    vendors,
		locations:  locations,
		overrides:  overrides,
		workers:    cfg.Workers,
		onProgress: cfg.OnProgress,
	}, nil
}

// Vendors exposes the deduplicated canonical vendor set the engine resolves
// against.
func (e *Engine) Vendors() []string {
	return e.vendors.Names()
}

// Resolve maps every non-excluded invoice in the batch to exactly one
// terminal resolution. It never fails on malformed or empty text; per-invoice
// problems degrade the match rate, not the run.
func (e *Engine) Resolve(ctx context.Context, batch []model.RawInvoice) (*Result, error) {
	result := &Result{StageCounts: make(map[model.ResolutionStage]int)}

	surviving := make([]model.RawInvoice, 0, len(batch))
	for _, inv := range batch {
		switch {
		case inv.Excluded():
			result.Excluded++
		case inv.ID == "" || inv.Date.IsZero():
			// MalformedRecord: not fatal, but counted and reported.
			result.Skipped++
		default:
			surviving = append(surviving, inv)
		}
	}

	slog.Info("Starting resolution",
		"invoices", len(surviving),
		"excluded_by_status", result.Excluded,
		"skipped_malformed", result.Skipped,
		"vendors", len(e.vendors.Names()))

	direct, err := e.resolveDirect(ctx, surviving)
	if err != nil {
		return nil, err
	}

	locationCache := make(map[string]outcome)
	done := 0
	for _, inv := range surviving {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resolved := model.ResolvedInvoice{RawInvoice: inv}
		if out := direct[normalize.Clean(inv.VendorText)]; out.ok {
			resolved.Vendor = out.vendor
			resolved.Stage = out.stage
		} else if out := e.lookupLocation(inv.CounterpartyText, locationCache); out.ok {
			resolved.Vendor = out.vendor
			resolved.Stage = out.stage
		} else {
			resolved.Vendor = model.VendorUnmatched
			resolved.Stage = model.StageUnresolved
			result.Residue = append(result.Residue, resolved)
		}

		result.StageCounts[resolved.Stage]++
		result.Resolved = append(result.Resolved, resolved)

		done++
		if e.onProgress != nil {
			e.onProgress(done, len(surviving))
		}
	}

	slog.Info("Resolution complete",
		"matched", len(result.Resolved)-len(result.Residue),
		"unmatched", len(result.Residue))

	return result, nil
}

// resolveDirect computes the manual-override / screen / direct-match outcome
// once per unique cleaned vendor string. Batches repeat the same few thousand
// strings, so this is where almost all the matching work happens.
func (e *Engine) resolveDirect(ctx context.Context, batch []model.RawInvoice) (map[string]outcome, error) {
	seen := make(map[string]struct{})
	keys := make([]string, 0, len(batch))
	for _, inv := range batch {
		key := normalize.Clean(inv.VendorText)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	outcomes := make([]outcome, len(keys))
	if err := e.forEach(ctx, len(keys), func(i int) {
		outcomes[i] = e.directOutcome(keys[i])
	}); err != nil {
		return nil, err
	}

	direct := make(map[string]outcome, len(keys))
	for i, key := range keys {
		direct[key] = outcomes[i]
	}
	return direct, nil
}

type outcome struct {
	vendor string
	stage  model.ResolutionStage
	ok     bool
}

func (e *Engine) directOutcome(cleaned string) outcome {
	if target, ok := e.overrides[cleaned]; ok {
		return outcome{vendor: target, stage: model.StageManualOverride, ok: true}
	}
	if reason, bad := normalize.Invalid(cleaned); bad {
		// Structurally unusable text is never fuzzy-matched; the location
		// stage is its only path to a vendor.
		if reason != "empty" {
			slog.Debug("Vendor text failed screen", "text", cleaned, "reason", reason)
		}
		return outcome{}
	}
	if vendor, stage, ok := e.vendors.Match(cleaned); ok {
		return outcome{vendor: vendor, stage: stage, ok: true}
	}
	return outcome{}
}

func (e *Engine) lookupLocation(counterparty string, cache map[string]outcome) outcome {
	key := normalize.Clean(counterparty)
	if out, ok := cache[key]; ok {
		return out
	}
	var out outcome
	if vendor, stage, ok := e.locations.Match(key); ok {
		out = outcome{vendor: vendor, stage: stage, ok: true}
	}
	cache[key] = out
	return out
}
