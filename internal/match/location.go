package match

import (
	"sort"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/normalize"
	"github.com/haulwatch/haulwatch/internal/similarity"
)

// LocationMatcher resolves invoices the direct matcher could not, by mapping
// counterparty text to a known location and the location to its vendors.
// Immutable after construction and safe for concurrent use.
type LocationMatcher struct {
	vendorsAt map[string][]string
	locations []candidate
	vendors   *VendorMatcher
}

// NewLocationMatcher indexes the location-to-vendor link table. The table is
// many-to-many; vendors per location are deduplicated and kept sorted. An
// empty table is a fatal reference-data error.
func NewLocationMatcher(links []model.LocationLink, vendors *VendorMatcher) (*LocationMatcher, error) {
	vendorsAt := make(map[string][]string)
	var locations []candidate
	displaySeen := make(map[string]struct{})

	for _, link := range links {
		norm := normalize.Normalize(link.LocationName)
		vendor := normalize.Clean(link.VendorName)
		if norm == "" || vendor == "" {
			continue
		}

		if _, ok := vendorsAt[norm]; !ok {
			display := normalize.Clean(link.LocationName)
			if _, dup := displaySeen[display]; !dup {
				displaySeen[display] = struct{}{}
				locations = append(locations, candidate{display: display, norm: norm})
			}
		}
		if !containsString(vendorsAt[norm], vendor) {
			vendorsAt[norm] = append(vendorsAt[norm], vendor)
		}
	}

	if len(locations) == 0 {
		return nil, common.ErrEmptyReferenceData
	}

	for _, vs := range vendorsAt {
		sort.Strings(vs)
	}
	sort.Slice(locations, func(i, j int) bool {
		if len(locations[i].display) != len(locations[j].display) {
			return len(locations[i].display) < len(locations[j].display)
		}
		return locations[i].display < locations[j].display
	})

	return &LocationMatcher{vendorsAt: vendorsAt, locations: locations, vendors: vendors}, nil
}

// Match looks the counterparty up as a location, exactly first and fuzzily
// second, then resolves the location's vendor set. A location listing several
// vendors is disambiguated with the direct fuzzy and partial rules; if that
// fails the invoice stays unresolved rather than guessing.
func (m *LocationMatcher) Match(counterpartyText string) (string, model.ResolutionStage, bool) {
	norm := normalize.Normalize(counterpartyText)
	if norm == "" {
		return "", "", false
	}

	locNorm, stage, ok := m.findLocation(norm)
	if !ok {
		return "", "", false
	}

	candidates := m.vendorsAt[locNorm]
	if len(candidates) == 1 {
		return candidates[0], stage, true
	}

	if vendor, found := m.vendors.MatchAmong(counterpartyText, candidates); found {
		return vendor, stage, true
	}
	// Ambiguous location: multiple vendors, none clears a threshold.
	return "", "", false
}

func (m *LocationMatcher) findLocation(norm string) (string, model.ResolutionStage, bool) {
	if _, ok := m.vendorsAt[norm]; ok {
		return norm, model.StageLocationExact, true
	}

	best, bestScore := "", 0
	for _, loc := range m.locations {
		if s := similarity.TokenSetRatio(norm, loc.norm); s > bestScore {
			best, bestScore = loc.norm, s
		}
	}
	if bestScore >= LocationFuzzyThreshold {
		return best, model.StageLocationFuzzy, true
	}
	return "", "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
