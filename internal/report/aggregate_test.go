package report

import (
	"testing"
	"time"

	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d string) time.Time {
	ts, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return ts
}

func resolvedOn(vendor, d string) model.ResolvedInvoice {
	stage := model.StageDirectExact
	if vendor == model.VendorUnmatched {
		stage = model.StageUnresolved
	}
	return model.ResolvedInvoice{
		RawInvoice: model.RawInvoice{ID: vendor + "/" + d, Date: day(d)},
		Vendor:     vendor,
		Stage:      stage,
	}
}

func repeatOn(vendor, d string, n int) []model.ResolvedInvoice {
	out := make([]model.ResolvedInvoice, n)
	for i := range out {
		out[i] = resolvedOn(vendor, d)
	}
	return out
}

func TestDailySeriesCurrentMonthOnly(t *testing.T) {
	agg := NewAggregator(day("2025-11-14"))

	invoices := []model.ResolvedInvoice{
		resolvedOn("Waste Pro", "2025-11-03"), // Monday
		resolvedOn("Waste Pro", "2025-11-03"),
		resolvedOn("Rumpke", "2025-11-08"),             // Saturday
		resolvedOn(model.VendorUnmatched, "2025-11-03"), // counted in volume
		resolvedOn("Waste Pro", "2025-10-20"),           // prior month: baseline only
	}

	series, base := agg.DailySeries(invoices)
	require.Len(t, series, 2)

	assert.Equal(t, "Nov 03", series[0].Day)
	assert.Equal(t, "Nov", series[0].Month)
	assert.Equal(t, 3, series[0].Count)
	assert.False(t, series[0].Weekend)

	assert.Equal(t, "Nov 08", series[1].Day)
	assert.Equal(t, 1, series[1].Count)
	assert.True(t, series[1].Weekend)

	// One weekday in the trailing window with one invoice.
	assert.InDelta(t, 1.0, base.WeekdayAvg, 0.001)
	assert.Zero(t, base.WeekendAvg)
}

func TestMonthlySeriesExcludesInProgressMonth(t *testing.T) {
	agg := NewAggregator(day("2025-11-14"))

	invoices := []model.ResolvedInvoice{
		resolvedOn("Waste Pro", "2025-09-10"),
		resolvedOn("Waste Pro", "2025-10-01"),
		resolvedOn("Waste Pro", "2025-10-02"),
		resolvedOn("Rumpke", "2025-10-05"),
		resolvedOn(model.VendorUnmatched, "2025-10-05"),
		resolvedOn("Waste Pro", "2025-11-03"), // in-progress month: excluded
	}

	series := agg.MonthlySeries(invoices)

	want := []model.MonthlyPoint{
		{Vendor: model.AllVendors, Month: "2025-09", Count: 1},
		{Vendor: model.AllVendors, Month: "2025-10", Count: 4},
		{Vendor: "Rumpke", Month: "2025-10", Count: 1},
		{Vendor: model.VendorUnmatched, Month: "2025-10", Count: 1},
		{Vendor: "Waste Pro", Month: "2025-09", Count: 1},
		{Vendor: "Waste Pro", Month: "2025-10", Count: 2},
	}
	assert.Equal(t, want, series)
}

func TestTopVendorsExcludesUnmatched(t *testing.T) {
	agg := NewAggregator(day("2025-11-14"))

	var invoices []model.ResolvedInvoice
	invoices = append(invoices, repeatOn("Waste Pro", "2025-10-01", 5)...)
	invoices = append(invoices, repeatOn("Rumpke", "2025-10-01", 3)...)
	invoices = append(invoices, repeatOn("Casella Waste", "2025-10-01", 3)...)
	invoices = append(invoices, repeatOn(model.VendorUnmatched, "2025-10-01", 9)...)

	ranks := agg.TopVendors(invoices, 2)
	require.Len(t, ranks, 2)
	assert.Equal(t, model.VendorRank{Vendor: "Waste Pro", Count: 5}, ranks[0])
	// Equal counts break ties lexicographically.
	assert.Equal(t, model.VendorRank{Vendor: "Casella Waste", Count: 3}, ranks[1])
}

func TestDailySeriesDeterministic(t *testing.T) {
	agg := NewAggregator(day("2025-11-14"))
	invoices := []model.ResolvedInvoice{
		resolvedOn("Waste Pro", "2025-11-05"),
		resolvedOn("Rumpke", "2025-11-02"),
		resolvedOn("Casella Waste", "2025-11-09"),
	}

	first, _ := agg.DailySeries(invoices)
	for i := 0; i < 5; i++ {
		again, _ := agg.DailySeries(invoices)
		assert.Equal(t, first, again)
	}
}
