// Package match resolves noisy vendor and counterparty strings against the
// canonical reference tables using the normalize and similarity packages.
package match

import (
	"sort"
	"strings"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/normalize"
	"github.com/haulwatch/haulwatch/internal/similarity"
)

// Acceptance thresholds. These are calibrated against historical match-rate
// regression data; changing them changes golden outputs.
const (
	// FuzzyThreshold is the minimum token-set score for a direct fuzzy match.
	FuzzyThreshold = 65
	// PartialThreshold is the minimum partial score for a direct partial match.
	PartialThreshold = 80
	// LocationFuzzyThreshold is the minimum score for a fuzzy location match.
	LocationFuzzyThreshold = 75

	// minSubstringLen guards the containment rule against trivially short
	// fragments matching everything.
	minSubstringLen = 3
)

// candidate pairs a canonical display name with its normalized form.
type candidate struct {
	display string
	norm    string
}

// VendorMatcher resolves invoice vendor text directly against the canonical
// vendor set. It is immutable after construction and safe for concurrent use.
type VendorMatcher struct {
	exact      map[string]string
	candidates []candidate
}

// NewVendorMatcher builds a matcher over the canonical vendor list. The input
// is deduplicated here; an empty resulting set is a fatal reference-data
// error because resolution is meaningless without it.
func NewVendorMatcher(vendors []string) (*VendorMatcher, error) {
	exact := make(map[string]string)
	var candidates []candidate
	seen := make(map[string]struct{})

	for _, v := range vendors {
		display := normalize.Clean(v)
		if display == "" {
			continue
		}
		if _, ok := seen[display]; ok {
			continue
		}
		seen[display] = struct{}{}

		norm := normalize.Normalize(display)
		if norm == "" {
			continue
		}
		if _, ok := exact[norm]; !ok {
			exact[norm] = display
		}
		candidates = append(candidates, candidate{display: display, norm: norm})
	}

	if len(candidates) == 0 {
		return nil, common.ErrEmptyReferenceData
	}

	// Scan order encodes the tie-break: on equal score the shorter display
	// name wins, then lexicographic order. A strictly-greater comparison in
	// the scan then keeps the first, preferred candidate.
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].display) != len(candidates[j].display) {
			return len(candidates[i].display) < len(candidates[j].display)
		}
		return candidates[i].display < candidates[j].display
	})

	return &VendorMatcher{exact: exact, candidates: candidates}, nil
}

// Names returns the deduplicated canonical vendor names.
func (m *VendorMatcher) Names() []string {
	out := make([]string, len(m.candidates))
	for i, c := range m.candidates {
		out[i] = c.display
	}
	sort.Strings(out)
	return out
}

// Contains reports whether name is a member of the canonical set.
func (m *VendorMatcher) Contains(name string) bool {
	for _, c := range m.candidates {
		if c.display == normalize.Clean(name) {
			return true
		}
	}
	return false
}

// Match applies the direct resolution rules in strict priority order: exact,
// fuzzy, partial, substring containment. Returns the canonical vendor and the
// stage that produced it, or ok=false when no rule clears its threshold.
func (m *VendorMatcher) Match(vendorText string) (string, model.ResolutionStage, bool) {
	norm := normalize.Normalize(vendorText)
	if norm == "" {
		return "", "", false
	}

	if display, ok := m.exact[norm]; ok {
		return display, model.StageDirectExact, true
	}

	if display, stage, ok := bestScored(norm, m.candidates); ok {
		return display, stage, true
	}

	for _, c := range m.candidates {
		if containsEither(norm, c.norm) {
			return c.display, model.StageDirectSubstring, true
		}
	}

	return "", "", false
}

// MatchAmong runs only the fuzzy and partial rules against a reduced candidate
// set. The location stage uses it to disambiguate when a location lists more
// than one vendor.
func (m *VendorMatcher) MatchAmong(text string, vendors []string) (string, bool) {
	norm := normalize.Normalize(text)
	if norm == "" {
		return "", false
	}

	var candidates []candidate
	for _, c := range m.candidates {
		for _, v := range vendors {
			if c.display == v {
				candidates = append(candidates, c)
				break
			}
		}
	}

	display, _, ok := bestScored(norm, candidates)
	return display, ok
}

// bestScored applies the fuzzy then partial rules, each with its own
// threshold, over candidates already in tie-break order.
func bestScored(norm string, candidates []candidate) (string, model.ResolutionStage, bool) {
	bestFuzzy, bestFuzzyScore := "", 0
	bestPartial, bestPartialScore := "", 0

	for _, c := range candidates {
		if s := similarity.TokenSetRatio(norm, c.norm); s > bestFuzzyScore {
			bestFuzzy, bestFuzzyScore = c.display, s
		}
		if s := similarity.PartialRatio(norm, c.norm); s > bestPartialScore {
			bestPartial, bestPartialScore = c.display, s
		}
	}

	if bestFuzzyScore >= FuzzyThreshold {
		return bestFuzzy, model.StageDirectFuzzy, true
	}
	if bestPartialScore >= PartialThreshold {
		return bestPartial, model.StageDirectPartial, true
	}
	return "", "", false
}

func containsEither(a, b string) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minSubstringLen {
		return false
	}
	return strings.Contains(longer, shorter)
}
