package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("REPUBLIC SERVICES", "REPUBLIC SERVICES"))
	assert.Equal(t, 0, Ratio("", "REPUBLIC"))
	assert.Equal(t, 0, Ratio("ANYTHING", ""))

	// One substitution in a ten-rune string.
	assert.Equal(t, 90, Ratio("WASTEOLOGY", "WASTEOLOGI"))

	// Completely different strings score low but non-negative.
	assert.LessOrEqual(t, Ratio("ACME", "ZENITH"), 20)
}

func TestTokenSetRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"REPUBLIC", "REPUBLIC SERVICES"},
		{"WASTE PRO USA", "PRO WASTE"},
		{"GFL ENVIRONMENTAL", "CASELLA WASTE"},
	}
	for _, p := range pairs {
		assert.Equal(t, TokenSetRatio(p[0], p[1]), TokenSetRatio(p[1], p[0]),
			"token set ratio must be symmetric for %q / %q", p[0], p[1])
	}
}

func TestTokenSetRatio(t *testing.T) {
	// Word order is irrelevant.
	assert.Equal(t, 100, TokenSetRatio("SERVICES REPUBLIC", "REPUBLIC SERVICES"))

	// Token subset scores 100: every word of the shorter appears in the longer.
	assert.Equal(t, 100, TokenSetRatio("REPUBLIC", "REPUBLIC SERVICES"))
	assert.Equal(t, 100, TokenSetRatio("GROOT", "WASTE CONNECTIONS GROOT INDUSTRIES"))

	// Typo'd overlap still scores high.
	assert.GreaterOrEqual(t, TokenSetRatio("REPUBLIC SVCS", "REPUBLIC SERVICES"), 65)

	// Disjoint token sets score low.
	assert.Less(t, TokenSetRatio("MERIDIAN", "RUMPKE"), 40)

	assert.Equal(t, 0, TokenSetRatio("", "REPUBLIC"))
}

func TestPartialRatio(t *testing.T) {
	// Full containment of the shorter string.
	assert.Equal(t, 100, PartialRatio("ANYTIME", "ANYTIME WASTE SYSTEMS"))

	// Asymmetric input order does not matter for containment.
	assert.Equal(t, 100, PartialRatio("ANYTIME WASTE SYSTEMS", "ANYTIME"))

	// Near-contiguous match with one typo.
	assert.GreaterOrEqual(t, PartialRatio("CASELA", "CASELLA WASTE"), 80)

	assert.Equal(t, 0, PartialRatio("", ""))
}
