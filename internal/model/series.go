package model

// AllVendors is the rollup key for series that span every canonical vendor.
const AllVendors = "All Vendors"

// DailyPoint is one day of invoice volume in the current (in-progress) month.
type DailyPoint struct {
	Month   string // "Jan"
	Day     string // "Jan 02"
	Count   int
	Weekend bool
}

// DailyBaseline is the trailing average daily volume used to put the current
// month's daily counts in context.
type DailyBaseline struct {
	WeekdayAvg float64
	WeekendAvg float64
}

// MonthlyPoint is one (vendor, month) invoice count. Month is formatted
// "2006-01" so series sort correctly as strings.
type MonthlyPoint struct {
	Vendor string
	Month  string
	Count  int
}

// VendorRank is one entry of the top-N vendor ranking by total volume.
type VendorRank struct {
	Vendor string
	Count  int
}
