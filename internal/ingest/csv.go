// Package ingest loads the invoice batch and the reference tables from the
// files the extraction side drops off. Invoices arrive as CSV; the vendor
// and location reference tables arrive as Excel workbooks or CSV.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/normalize"
)

// Invoice CSV column headers.
const (
	colInvoiceID    = "invoice_id"
	colVendorName   = "vendor_name"
	colCounterparty = "counterparty"
	colCreatedDate  = "created_date"
	colStatus       = "status"
	colLocationName = "location_name"
	colRawName      = "raw_name"
)

// Date layouts seen in upstream extracts.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
}

// ReadInvoices parses the invoice batch. Rows missing the id or a parseable
// date are malformed: they are skipped and counted, never fatal.
func ReadInvoices(r io.Reader) ([]model.RawInvoice, int, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("reading invoice batch: %w", err)
	}

	idCol, ok := header[colInvoiceID]
	if !ok {
		return nil, 0, fmt.Errorf("invoice batch: missing %q column", colInvoiceID)
	}
	vendorCol, ok := header[colVendorName]
	if !ok {
		return nil, 0, fmt.Errorf("invoice batch: missing %q column", colVendorName)
	}
	dateCol, ok := header[colCreatedDate]
	if !ok {
		return nil, 0, fmt.Errorf("invoice batch: missing %q column", colCreatedDate)
	}
	cpCol, hasCP := header[colCounterparty]
	statusCol, hasStatus := header[colStatus]

	var invoices []model.RawInvoice
	skipped := 0
	for _, row := range rows {
		id := strings.TrimSpace(cell(row, idCol))
		date, dateErr := parseDate(cell(row, dateCol))
		if id == "" || dateErr != nil {
			skipped++
			continue
		}

		inv := model.RawInvoice{
			ID:         id,
			VendorText: cell(row, vendorCol),
			Date:       date,
		}
		if hasCP {
			inv.CounterpartyText = cell(row, cpCol)
		}
		if hasStatus {
			inv.Status = model.InvoiceStatus(strings.ToLower(strings.TrimSpace(cell(row, statusCol))))
		}
		invoices = append(invoices, inv)
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed invoice rows", "count", skipped)
	}
	return invoices, skipped, nil
}

// ReadOverrides parses the optional manual override table mapping exact raw
// vendor text to a canonical vendor name.
func ReadOverrides(r io.Reader) (map[string]string, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}

	rawCol, ok := header[colRawName]
	if !ok {
		return nil, fmt.Errorf("overrides: missing %q column", colRawName)
	}
	vendorCol, ok := header[colVendorName]
	if !ok {
		return nil, fmt.Errorf("overrides: missing %q column", colVendorName)
	}

	overrides := make(map[string]string)
	for _, row := range rows {
		raw := normalize.Clean(cell(row, rawCol))
		vendor := normalize.Clean(cell(row, vendorCol))
		if raw == "" || vendor == "" {
			continue
		}
		overrides[raw] = vendor
	}
	return overrides, nil
}

func readVendorRows(rows [][]string) ([]string, error) {
	header, data := splitHeader(rows)
	col, ok := header[colVendorName]
	if !ok {
		return nil, fmt.Errorf("vendor reference: missing %q column", colVendorName)
	}

	var vendors []string
	for _, row := range data {
		if v := strings.TrimSpace(cell(row, col)); v != "" {
			vendors = append(vendors, v)
		}
	}
	return vendors, nil
}

func readLocationRows(rows [][]string) ([]model.LocationLink, error) {
	header, data := splitHeader(rows)
	locCol, ok := header[colLocationName]
	if !ok {
		return nil, fmt.Errorf("location reference: missing %q column", colLocationName)
	}
	vendorCol, ok := header[colVendorName]
	if !ok {
		return nil, fmt.Errorf("location reference: missing %q column", colVendorName)
	}

	var links []model.LocationLink
	for _, row := range data {
		loc := strings.TrimSpace(cell(row, locCol))
		vendor := strings.TrimSpace(cell(row, vendorCol))
		if loc == "" || vendor == "" {
			continue
		}
		links = append(links, model.LocationLink{LocationName: loc, VendorName: vendor})
	}
	return links, nil
}

func readAll(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	header, data := splitHeader(rows)
	if header == nil {
		return nil, nil, fmt.Errorf("empty file")
	}
	return data, header, nil
}

func splitHeader(rows [][]string) (map[string]int, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, rows[1:]
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
