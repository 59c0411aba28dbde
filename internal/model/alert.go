package model

import "time"

// Alert flags a vendor whose volume swung abnormally between the two most
// recent complete months.
type Alert struct {
	Vendor       string
	PriorCount   int
	CurrentCount int
	Pct          float64
}

// RunSummary is the persisted record of one resolution run.
type RunSummary struct {
	StartedAt     time.Time
	ReferenceDate time.Time
	StageCounts   map[ResolutionStage]int
	ID            string
	TotalInvoices int
	Skipped       int
	Matched       int
	Unmatched     int
	AlertCount    int
}

// MatchRate returns the share of resolved invoices that found a canonical
// vendor, as a percentage.
func (s RunSummary) MatchRate() float64 {
	resolved := s.Matched + s.Unmatched
	if resolved == 0 {
		return 0
	}
	return float64(s.Matched) / float64(resolved) * 100
}
