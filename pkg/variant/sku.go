package variant

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	skuWordPrefix = 3
	skuMaxWords   = 6
	skuSuffixLen  = 6
	skuFallback   = "VAR"
)

// GenerateSKU derives a readable SKU from descriptive text and appends a
// random suffix so structurally identical names do not collide.
// Uniqueness is still checked by the caller.
func GenerateSKU(parts ...string) string {
	return SKUPrefix(parts...) + "-" + skuSuffix()
}

// SKUPrefix is the deterministic part of GenerateSKU.
func SKUPrefix(parts ...string) string {
	var words []string
	for _, part := range parts {
		for _, word := range strings.Fields(part) {
			cleaned := strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) || unicode.IsDigit(r) {
					return unicode.ToUpper(r)
				}
				return -1
			}, word)
			if cleaned == "" {
				continue
			}
			runes := []rune(cleaned)
			if len(runes) > skuWordPrefix {
				runes = runes[:skuWordPrefix]
			}
			words = append(words, string(runes))
			if len(words) == skuMaxWords {
				return strings.Join(words, "-")
			}
		}
	}
	if len(words) == 0 {
		return skuFallback
	}
	return strings.Join(words, "-")
}

func skuSuffix() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:skuSuffixLen])
}
