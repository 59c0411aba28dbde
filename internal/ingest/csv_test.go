package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInvoices(t *testing.T) {
	input := strings.Join([]string{
		"invoice_id,vendor_name,counterparty,created_date,status",
		`inv-1,"Republic Services",Store #42,2025-11-03,active`,
		`inv-2,"Flood` + "\n" + `Brothers",Depot North,2025-11-04,`,
		`inv-3,Waste Pro,,2025-11-05,obsolete`,
		`,Waste Pro,,2025-11-05,active`,
		`inv-4,Waste Pro,,not-a-date,active`,
		`inv-5,Waste Pro,,11/06/2025,active`,
	}, "\n")

	invoices, skipped, err := ReadInvoices(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped, "missing id and bad date rows are malformed")
	require.Len(t, invoices, 4)

	assert.Equal(t, "inv-1", invoices[0].ID)
	assert.Equal(t, "Republic Services", invoices[0].VendorText)
	assert.Equal(t, "Store #42", invoices[0].CounterpartyText)
	assert.Equal(t, model.StatusActive, invoices[0].Status)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), invoices[0].Date)

	// Embedded newlines survive the CSV layer untouched; the normalizer
	// handles them later.
	assert.Equal(t, "Flood\nBrothers", invoices[1].VendorText)
	assert.Equal(t, model.StatusUnknown, invoices[1].Status)

	assert.Equal(t, model.StatusObsolete, invoices[2].Status)

	// US-format dates parse too.
	assert.Equal(t, time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC), invoices[3].Date)
}

func TestReadInvoicesMissingColumn(t *testing.T) {
	_, _, err := ReadInvoices(strings.NewReader("invoice_id,created_date\n1,2025-01-01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendor_name")
}

func TestReadInvoicesEmpty(t *testing.T) {
	_, _, err := ReadInvoices(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadOverrides(t *testing.T) {
	input := strings.Join([]string{
		"raw_name,vendor_name",
		"WASTE PRO USA,Waste Pro",
		"CASELLA,Casella Waste",
		",Ignored Vendor",
	}, "\n")

	overrides, err := ReadOverrides(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"WASTE PRO USA": "Waste Pro",
		"CASELLA":       "Casella Waste",
	}, overrides)
}
