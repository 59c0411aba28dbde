// Package report turns the resolved invoice stream into the daily and
// monthly volume series, vendor rankings and month-over-month alerts the
// dashboard consumes.
package report

import (
	"sort"
	"time"

	"github.com/haulwatch/haulwatch/internal/model"
)

// TopN is how many vendors the volume ranking keeps for filter population.
const TopN = 20

// Aggregator buckets resolved invoices into the output series. The reference
// date is an explicit parameter: the month containing it is the in-progress
// month, and months strictly before it count as complete.
type Aggregator struct {
	refDate time.Time
}

// NewAggregator creates an aggregator anchored at the given reference date.
func NewAggregator(refDate time.Time) *Aggregator {
	return &Aggregator{refDate: refDate}
}

// DailySeries returns per-day counts for the in-progress month, every vendor
// included, plus the trailing-365-day average daily volume split into weekday
// and weekend baselines.
func (a *Aggregator) DailySeries(resolved []model.ResolvedInvoice) ([]model.DailyPoint, model.DailyBaseline) {
	monthStart := firstOfMonth(a.refDate)
	trailingStart := a.refDate.AddDate(0, 0, -365)

	byDay := make(map[string]*model.DailyPoint)
	trailing := make(map[string]int)

	for _, inv := range resolved {
		if !inv.Date.Before(monthStart) {
			key := inv.Date.Format("2006-01-02")
			if p, ok := byDay[key]; ok {
				p.Count++
			} else {
				byDay[key] = &model.DailyPoint{
					Month:   inv.Date.Format("Jan"),
					Day:     inv.Date.Format("Jan 02"),
					Count:   1,
					Weekend: isWeekend(inv.Date),
				}
			}
			continue
		}
		if !inv.Date.Before(trailingStart) {
			trailing[inv.Date.Format("2006-01-02")]++
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]model.DailyPoint, 0, len(keys))
	for _, k := range keys {
		series = append(series, *byDay[k])
	}

	return series, baseline(trailing)
}

// MonthlySeries returns per-(vendor, month) counts for all complete months,
// including an "All Vendors" rollup and the explicit Unmatched bucket. The
// in-progress month never appears here.
func (a *Aggregator) MonthlySeries(resolved []model.ResolvedInvoice) []model.MonthlyPoint {
	monthStart := firstOfMonth(a.refDate)

	counts := make(map[string]map[string]int)
	add := func(vendor, month string) {
		if counts[vendor] == nil {
			counts[vendor] = make(map[string]int)
		}
		counts[vendor][month]++
	}

	for _, inv := range resolved {
		if !inv.Date.Before(monthStart) {
			continue
		}
		month := inv.Date.Format("2006-01")
		add(inv.Vendor, month)
		add(model.AllVendors, month)
	}

	var series []model.MonthlyPoint
	for vendor, months := range counts {
		for month, n := range months {
			series = append(series, model.MonthlyPoint{Vendor: vendor, Month: month, Count: n})
		}
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Vendor != series[j].Vendor {
			return series[i].Vendor < series[j].Vendor
		}
		return series[i].Month < series[j].Month
	})
	return series
}

// TopVendors ranks canonical vendors by total volume across the whole batch.
// The Unmatched bucket is excluded from ranking.
func (a *Aggregator) TopVendors(resolved []model.ResolvedInvoice, n int) []model.VendorRank {
	counts := make(map[string]int)
	for _, inv := range resolved {
		if inv.Vendor == model.VendorUnmatched {
			continue
		}
		counts[inv.Vendor]++
	}

	ranks := make([]model.VendorRank, 0, len(counts))
	for vendor, count := range counts {
		ranks = append(ranks, model.VendorRank{Vendor: vendor, Count: count})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Count != ranks[j].Count {
			return ranks[i].Count > ranks[j].Count
		}
		return ranks[i].Vendor < ranks[j].Vendor
	})

	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

func baseline(daily map[string]int) model.DailyBaseline {
	var weekdayTotal, weekdayDays, weekendTotal, weekendDays int
	for day, n := range daily {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if isWeekend(d) {
			weekendTotal += n
			weekendDays++
		} else {
			weekdayTotal += n
			weekdayDays++
		}
	}

	var b model.DailyBaseline
	if weekdayDays > 0 {
		b.WeekdayAvg = float64(weekdayTotal) / float64(weekdayDays)
	}
	if weekendDays > 0 {
		b.WeekendAvg = float64(weekendTotal) / float64(weekendDays)
	}
	return b
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
