package model

// LocationLink is one row of the location-to-vendor reference table. The table
// is many-to-many: a location may list several vendors and the source data is
// not deduplicated.
type LocationLink struct {
	LocationName string
	VendorName   string
}

// ReferenceData is the immutable reference snapshot a run resolves against.
// It is loaded once at the start of a run and never mutated; the next run
// reloads it because the source workbooks change between runs.
type ReferenceData struct {
	Overrides map[string]string
	Vendors   []string
	Locations []LocationLink
}
