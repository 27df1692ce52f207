package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Gaming Mouse":          "gaming-mouse",
		"  Hello,   World!  ":   "hello-world",
		"Home & Kitchen":        "home-kitchen",
		"UPPER":                 "upper",
		"123 Things":            "123-things",
		"trailing punctuation!": "trailing-punctuation",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "Make(%q)", in)
	}
}

func TestUniqueSuffixesCollisions(t *testing.T) {
	taken := map[string]bool{
		"gaming-mouse":   true,
		"gaming-mouse-1": true,
	}
	got := Unique("Gaming Mouse", func(s string) bool { return taken[s] })
	assert.Equal(t, "gaming-mouse-2", got)

	free := Unique("Gaming Mouse", func(string) bool { return false })
	assert.Equal(t, "gaming-mouse", free)
}

func TestUniqueEmptyNameFallsBack(t *testing.T) {
	got := Unique("!!!", func(string) bool { return false })
	assert.Equal(t, "item", got)
}
