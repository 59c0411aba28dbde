package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/xuri/excelize/v2"
)

// ReadVendors loads the canonical vendor reference from an .xlsx workbook or
// a CSV file, by extension. Deduplication happens later, in the matcher.
func ReadVendors(path string) ([]string, error) {
	rows, err := tableRows(path)
	if err != nil {
		return nil, fmt.Errorf("vendor reference %s: %w", path, err)
	}
	return readVendorRows(rows)
}

// ReadLocations loads the location-to-vendor link table from an .xlsx
// workbook or a CSV file, by extension.
func ReadLocations(path string) ([]model.LocationLink, error) {
	rows, err := tableRows(path)
	if err != nil {
		return nil, fmt.Errorf("location reference %s: %w", path, err)
	}
	return readLocationRows(rows)
}

func tableRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return sheetRows(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// sheetRows reads the first sheet of a workbook.
func sheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
