package report

import (
	"sort"
	"time"

	"github.com/haulwatch/haulwatch/internal/model"
)

// Alert thresholds. A vendor is flagged when its volume in the most recent
// complete month lands outside 75-125% of the month before, provided the
// prior month had enough volume to make the ratio meaningful.
const (
	AlertMinPriorCount = 10
	AlertLowPct        = 75.0
	AlertHighPct       = 125.0
)

// DetectAlerts compares the two most recent complete months per canonical
// vendor and flags abnormal swings, sorted by prior-month volume descending.
// Vendors absent in the prior month are not eligible: the ratio is undefined
// and never computed, and the Unmatched bucket is skipped entirely.
func (a *Aggregator) DetectAlerts(monthly []model.MonthlyPoint) []model.Alert {
	monthStart := firstOfMonth(a.refDate)
	currentMonth := monthStart.AddDate(0, -1, 0).Format("2006-01")
	priorMonth := monthStart.AddDate(0, -2, 0).Format("2006-01")

	prior := make(map[string]int)
	current := make(map[string]int)
	for _, p := range monthly {
		if p.Vendor == model.AllVendors || p.Vendor == model.VendorUnmatched {
			continue
		}
		switch p.Month {
		case priorMonth:
			prior[p.Vendor] = p.Count
		case currentMonth:
			current[p.Vendor] = p.Count
		}
	}

	var alerts []model.Alert
	for vendor, priorCount := range prior {
		if priorCount < AlertMinPriorCount {
			continue
		}
		currentCount := current[vendor]
		pct := float64(currentCount) / float64(priorCount) * 100
		if pct < AlertLowPct || pct > AlertHighPct {
			alerts = append(alerts, model.Alert{
				Vendor:       vendor,
				PriorCount:   priorCount,
				CurrentCount: currentCount,
				Pct:          pct,
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].PriorCount != alerts[j].PriorCount {
			return alerts[i].PriorCount > alerts[j].PriorCount
		}
		return alerts[i].Vendor < alerts[j].Vendor
	})
	return alerts
}

// ReferenceDate returns the date the aggregator is anchored at.
func (a *Aggregator) ReferenceDate() time.Time {
	return a.refDate
}
