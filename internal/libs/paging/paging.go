// Package paging parses and clamps offset/count pagination parameters.
package paging

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultOffset is used when the offset is missing or malformed
	DefaultOffset = 0
	// DefaultCount is used when the count is missing or malformed
	DefaultCount = 10
)

// Params is a normalized offset/count pair
type Params struct {
	Offset int
	Count  int
}

// Parse reads raw query values, falling back to defaults on malformed input.
// Values are read like parseInt: leading whitespace, an optional sign and the leading
// digits, so "12abc" is 12. A negative offset is clamped to zero; a negative count is
// kept and yields an empty page.
func Parse(rawOffset, rawCount string) Params {
	p := Params{Offset: DefaultOffset, Count: DefaultCount}

	if v, ok := leadingInt(rawOffset); ok {
		p.Offset = max(v, 0)
	}
	if v, ok := leadingInt(rawCount); ok {
		p.Count = v
	}

	return p
}

// leadingInt parses the integer prefix of s. Out-of-range values are rejected.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Bounds returns the [lo, hi) slice bounds of a page within n items
func Bounds(n, offset, count int) (lo, hi int) {
	lo = min(max(offset, 0), n)
	hi = lo + min(max(count, 0), n-lo)
	return lo, hi
}
