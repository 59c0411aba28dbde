package match

import (
	"testing"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonicalVendors = []string{
	"Republic Services",
	"Waste Management",
	"Waste Pro",
	"Casella Waste",
	"GFL Environmental",
	"Rumpke",
	"Anytime Waste Systems",
	"Waste Connections - Groot Industries",
	"Meridian Waste",
	"Flood Brothers Disposal",
}

func newTestMatcher(t *testing.T) *VendorMatcher {
	t.Helper()
	m, err := NewVendorMatcher(canonicalVendors)
	require.NoError(t, err)
	return m
}

func TestNewVendorMatcherEmptySet(t *testing.T) {
	_, err := NewVendorMatcher(nil)
	assert.ErrorIs(t, err, common.ErrEmptyReferenceData)

	_, err = NewVendorMatcher([]string{"", "  \n "})
	assert.ErrorIs(t, err, common.ErrEmptyReferenceData)
}

func TestNewVendorMatcherDeduplicates(t *testing.T) {
	m, err := NewVendorMatcher([]string{"Rumpke", "Rumpke", " Rumpke ", "Waste Pro"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rumpke", "Waste Pro"}, m.Names())
}

func TestMatchExactPriority(t *testing.T) {
	m := newTestMatcher(t)

	// An exact normalized hit must always report DirectExact, no matter how
	// well other candidates would have scored.
	tests := []string{
		"Republic Services",
		"REPUBLIC SERVICES",
		"republic services, inc.",
		"Republic\nServices",
	}
	for _, input := range tests {
		vendor, stage, ok := m.Match(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, "Republic Services", vendor, "input %q", input)
		assert.Equal(t, model.StageDirectExact, stage, "input %q", input)
	}
}

func TestMatchFuzzySubset(t *testing.T) {
	m := newTestMatcher(t)

	// "REPUBLIC" is a token subset of "Republic Services".
	vendor, stage, ok := m.Match("REPUBLIC")
	require.True(t, ok)
	assert.Equal(t, "Republic Services", vendor)
	assert.Equal(t, model.StageDirectFuzzy, stage)
}

func TestMatchLegalSuffixContainment(t *testing.T) {
	m := newTestMatcher(t)

	vendor, stage, ok := m.Match("Groot, Inc.")
	require.True(t, ok)
	assert.Equal(t, "Waste Connections - Groot Industries", vendor)
	assert.Contains(t, []model.ResolutionStage{
		model.StageDirectFuzzy,
		model.StageDirectPartial,
		model.StageDirectSubstring,
	}, stage)
}

func TestMatchNoCandidate(t *testing.T) {
	m := newTestMatcher(t)

	_, _, ok := m.Match("Completely Unrelated Plumbing Co")
	assert.False(t, ok)

	_, _, ok = m.Match("")
	assert.False(t, ok)

	_, _, ok = m.Match("   \n  ")
	assert.False(t, ok)
}

func TestFuzzyThresholdBoundary(t *testing.T) {
	// A fuzzy score of exactly 65 is accepted; 64 falls through. Single-token
	// strings make the token-set score equal the plain edit ratio, so the
	// scores below are exact by construction.

	// 20 runes, 7 substitutions: (1 - 7/20) * 100 = 65.
	at := "ABCDEFGHIJKLMNOPQRST"
	cand65 := "ABCDEFGHIJKLMXXXXXXX"
	require.Equal(t, 65, similarity.TokenSetRatio(at, cand65))

	m, err := NewVendorMatcher([]string{cand65})
	require.NoError(t, err)
	vendor, stage, ok := m.Match(at)
	require.True(t, ok)
	assert.Equal(t, cand65, vendor)
	assert.Equal(t, model.StageDirectFuzzy, stage)

	// 25 runes, 9 substitutions: (1 - 9/25) * 100 = 64. Below the fuzzy
	// threshold, and equal-length strings leave partial no better, so the
	// match falls through entirely.
	below := "ABCDEFGHIJKLMNOPQRSTUVWXY"
	cand64 := "ABCDEFGHIJKLMNOPXXXXXXXXX"
	require.Equal(t, 64, similarity.TokenSetRatio(below, cand64))

	m2, err := NewVendorMatcher([]string{cand64})
	require.NoError(t, err)
	_, _, ok = m2.Match(below)
	assert.False(t, ok)
}

func TestMatchDeterministicTieBreak(t *testing.T) {
	// Two candidates sharing the matched token: the shorter display name wins.
	m, err := NewVendorMatcher([]string{"Priority Waste Solutions", "Priority Waste"})
	require.NoError(t, err)

	vendor, _, ok := m.Match("PRIORITY")
	require.True(t, ok)
	assert.Equal(t, "Priority Waste", vendor)

	// Same-length candidates fall back to lexicographic order.
	m2, err := NewVendorMatcher([]string{"Priority Zone", "Priority Area"})
	require.NoError(t, err)
	vendor, _, ok = m2.Match("PRIORITY")
	require.True(t, ok)
	assert.Equal(t, "Priority Area", vendor)
}

func TestMatchDeterminismRepeated(t *testing.T) {
	m := newTestMatcher(t)
	inputs := []string{"REPUBLIC", "Groot, Inc.", "WASTE PRO USA", "Casella", "gibberish xyz"}

	for _, input := range inputs {
		v1, s1, ok1 := m.Match(input)
		for i := 0; i < 5; i++ {
			v2, s2, ok2 := m.Match(input)
			assert.Equal(t, v1, v2)
			assert.Equal(t, s1, s2)
			assert.Equal(t, ok1, ok2)
		}
	}
}

func TestMatchAmong(t *testing.T) {
	m := newTestMatcher(t)

	vendor, ok := m.MatchAmong("Casella Waste Systems", []string{"Casella Waste", "Rumpke"})
	require.True(t, ok)
	assert.Equal(t, "Casella Waste", vendor)

	_, ok = m.MatchAmong("Totally Different Name", []string{"Casella Waste", "Rumpke"})
	assert.False(t, ok)

	_, ok = m.MatchAmong("", []string{"Casella Waste"})
	assert.False(t, ok)
}
