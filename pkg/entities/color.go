package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// hexColorPattern accepts 3- or 6-digit hex colours, with or without a
// leading #.
var hexColorPattern = regexp.MustCompile(`^#?(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidHexColor reports whether s is a syntactically valid hex colour.
func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// HexColor parses a 3- or 6-digit hex colour into an integer. A 3-digit
// colour is expanded digit-by-digit, so "#abc" parses as "#aabbcc".
func HexColor(s string) (int, bool) {
	if !ValidHexColor(s) {
		return 0, false
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}

	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
