// Package slugify derives URL-safe slugs from display names.
package slugify

import (
	"strconv"
	"strings"
	"unicode"
)

// Make lowercases name, replaces runs of non-alphanumeric characters with a
// single hyphen, and trims leading/trailing hyphens.
//
//	Make("Café au Lait!") == "cafe-au-lait" is NOT attempted — non-ASCII runes
//	are dropped rather than transliterated.
func Make(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Unique resolves slug collisions with a numeric suffix: base, base-1, base-2…
// taken reports whether a candidate slug is already in use.
func Unique(name string, taken func(slug string) bool) string {
	base := Make(name)
	if base == "" {
		base = "item"
	}

	slug := base
	for n := 1; taken(slug); n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	return slug
}
