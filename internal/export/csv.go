// Package export writes the dashboard output files. Publication is all or
// nothing: files are staged in a temporary directory and renamed into place
// only after every one of them has been written, so a failed run never
// leaves partial aggregates behind.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/haulwatch/haulwatch/internal/model"
)

// Output file names, consumed by the dashboard renderer.
const (
	DailyFile     = "daily.csv"
	MonthlyFile   = "monthly.csv"
	AlertsFile    = "alerts.csv"
	UnmatchedFile = "unmatched.csv"
)

// Outputs bundles everything one run publishes.
type Outputs struct {
	Daily   []model.DailyPoint
	Monthly []model.MonthlyPoint
	Alerts  []model.Alert
	Residue []model.ResolvedInvoice
}

// Write publishes the run outputs into dir atomically.
func Write(dir string, out Outputs) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	staging, err := os.MkdirTemp(dir, ".staging-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	files := map[string][][]string{
		DailyFile:     dailyRows(out.Daily),
		MonthlyFile:   monthlyRows(out.Monthly),
		AlertsFile:    alertRows(out.Alerts),
		UnmatchedFile: residueRows(out.Residue),
	}

	for name, rows := range files {
		if err := writeCSV(filepath.Join(staging, name), rows); err != nil {
			return fmt.Errorf("staging %s: %w", name, err)
		}
	}

	// All files staged; move them into place.
	for name := range files {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("publishing %s: %w", name, err)
		}
	}
	return nil
}

func dailyRows(daily []model.DailyPoint) [][]string {
	rows := [][]string{{"month", "day", "count", "is_weekend"}}
	for _, p := range daily {
		rows = append(rows, []string{p.Month, p.Day, strconv.Itoa(p.Count), strconv.FormatBool(p.Weekend)})
	}
	return rows
}

func monthlyRows(monthly []model.MonthlyPoint) [][]string {
	rows := [][]string{{"vendor", "month", "count"}}
	for _, p := range monthly {
		rows = append(rows, []string{p.Vendor, p.Month, strconv.Itoa(p.Count)})
	}
	return rows
}

func alertRows(alerts []model.Alert) [][]string {
	rows := [][]string{{"vendor", "prior_count", "current_count", "pct"}}
	for _, a := range alerts {
		rows = append(rows, []string{
			a.Vendor,
			strconv.Itoa(a.PriorCount),
			strconv.Itoa(a.CurrentCount),
			strconv.FormatFloat(a.Pct, 'f', 1, 64),
		})
	}
	return rows
}

// residueRows orders the unmatched export by how often each vendor text
// occurs, most frequent first, so manual triage starts with the biggest wins.
func residueRows(residue []model.ResolvedInvoice) [][]string {
	freq := make(map[string]int)
	for _, r := range residue {
		freq[r.VendorText]++
	}

	ordered := append([]model.ResolvedInvoice(nil), residue...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if freq[ordered[i].VendorText] != freq[ordered[j].VendorText] {
			return freq[ordered[i].VendorText] > freq[ordered[j].VendorText]
		}
		return ordered[i].ID < ordered[j].ID
	})

	rows := [][]string{{"invoice_id", "vendor_name", "counterparty", "date"}}
	for _, r := range ordered {
		rows = append(rows, []string{r.ID, r.VendorText, r.CounterpartyText, r.Date.Format("2006-01-02")})
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
