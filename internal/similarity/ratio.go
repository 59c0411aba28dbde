// Package similarity scores how alike two normalized strings are, on a 0-100
// scale. Three strategies are provided because no single one handles both
// extra words and reordered or typo'd words: Ratio for plain edit similarity,
// TokenSetRatio for word reordering and token overlap, PartialRatio for one
// string contained in a longer one.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio returns the plain edit similarity of a and b: 100 means identical,
// 0 means nothing in common or either string empty.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}

// TokenSetRatio compares the unique word sets of a and b, so word order is
// irrelevant and a string whose words are a subset of the other's scores 100.
// Symmetric: TokenSetRatio(a, b) == TokenSetRatio(b, a).
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for _, w := range ta {
		if contains(tb, w) {
			common = append(common, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	for _, w := range tb {
		if !contains(ta, w) {
			onlyB = append(onlyB, w)
		}
	}

	base := strings.Join(common, " ")
	full1 := joinNonEmpty(base, strings.Join(onlyA, " "))
	full2 := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := Ratio(full1, full2)
	if len(common) > 0 {
		if s := Ratio(base, full1); s > best {
			best = s
		}
		if s := Ratio(base, full2); s > best {
			best = s
		}
	}
	return best
}

// PartialRatio returns the best alignment of the shorter string against any
// equally long window of the longer one. Asymmetric inputs are fine; the
// result rewards full containment with extra tokens around it.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		if s := Ratio(string(shorter), string(longer[i:i+len(shorter)])); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSet(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(s) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func contains(words []string, w string) bool {
	i := sort.SearchStrings(words, w)
	return i < len(words) && words[i] == w
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
