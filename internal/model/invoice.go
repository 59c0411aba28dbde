// Package model defines the core domain models used throughout the application.
package model

import "time"

// InvoiceStatus is the lifecycle status attached to an invoice by the upstream
// document pipeline.
type InvoiceStatus string

// Invoice status constants.
const (
	StatusActive    InvoiceStatus = "active"
	StatusObsolete  InvoiceStatus = "obsolete"
	StatusDuplicate InvoiceStatus = "duplicate"
	StatusUnknown   InvoiceStatus = ""
)

// RawInvoice is a single invoice row as handed over by the extraction layer.
// VendorText and CounterpartyText are free text produced by OCR and arrive in
// whatever shape the source document had them.
type RawInvoice struct {
	Date             time.Time
	ID               string
	VendorText       string
	CounterpartyText string
	Status           InvoiceStatus
}

// Excluded reports whether the invoice should be dropped before resolution.
// Obsolete and duplicate invoices never enter the pipeline.
func (r RawInvoice) Excluded() bool {
	return r.Status == StatusObsolete || r.Status == StatusDuplicate
}

// ResolutionStage records which rule produced a vendor match, kept for audit.
type ResolutionStage string

// Resolution stage constants, in the order the pipeline attempts them.
const (
	StageManualOverride  ResolutionStage = "MANUAL_OVERRIDE"
	StageDirectExact     ResolutionStage = "DIRECT_EXACT"
	StageDirectFuzzy     ResolutionStage = "DIRECT_FUZZY"
	StageDirectPartial   ResolutionStage = "DIRECT_PARTIAL"
	StageDirectSubstring ResolutionStage = "DIRECT_SUBSTRING"
	StageLocationExact   ResolutionStage = "LOCATION_EXACT"
	StageLocationFuzzy   ResolutionStage = "LOCATION_FUZZY"
	StageUnresolved      ResolutionStage = "UNRESOLVED"
)

// VendorUnmatched is the bucket name used for invoices that completed the
// pipeline without a canonical vendor.
const VendorUnmatched = "Unmatched"

// ResolvedInvoice is a raw invoice after resolution. Created exactly once per
// surviving invoice and never mutated afterwards.
type ResolvedInvoice struct {
	RawInvoice
	Vendor string
	Stage  ResolutionStage
}

// Matched reports whether the invoice resolved to a canonical vendor.
func (r ResolvedInvoice) Matched() bool {
	return r.Stage != StageUnresolved
}
