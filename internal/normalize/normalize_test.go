package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases and trims", input: "  republic services  ", want: "REPUBLIC SERVICES"},
		{name: "strips legal suffix", input: "Groot, Inc.", want: "GROOT"},
		{name: "strips dotted suffix", input: "J & J Services, L.L.C.", want: "J J SERVICES"},
		{name: "collapses newlines", input: "Flood\nBrothers", want: "FLOOD BROTHERS"},
		{name: "punctuation to space", input: "Waste Connections - Groot Industries", want: "WASTE CONNECTIONS GROOT INDUSTRIES"},
		{name: "keeps digits", input: "1-800-GOT-JUNK", want: "1 800 GOT JUNK"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "bare suffix normalizes away", input: "LLC", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Republic Services",
		"  WASTE   PRO\nUSA  ",
		"Groot, Inc.",
		"1-800-Got Junk Commercial Services (USA) LLC",
		"",
		"L.L.C.",
		"Café Déchets S.A.",
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", s)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Flood Brothers Disposal", Clean("Flood\r\nBrothers\tDisposal"))
	assert.Equal(t, "", Clean("   "))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"WASTE", "PRO", "USA"}, Tokens("Waste Pro USA, Inc."))
	assert.Empty(t, Tokens(""))
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		input   string
		reason  string
		invalid bool
	}{
		{"", "empty", true},
		{"WM", "too_short", true},
		{"12345", "too_few_letters", true},
		{"#1-99", "too_few_letters", true},
		{"ash Franchise Partners", "ocr_truncation", true},
		{"CORP.", "bare_suffix", true},
		{"Republic Services", "", false},
		{"Waste Pro", "", false},
	}
	for _, tt := range tests {
		reason, invalid := Invalid(tt.input)
		assert.Equal(t, tt.invalid, invalid, "input %q", tt.input)
		assert.Equal(t, tt.reason, reason, "input %q", tt.input)
	}
}
