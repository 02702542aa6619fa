// Package acctcode handles dotted or dashed hierarchical account codes like "3.01.02".
package acctcode

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^\d+([.\-]\d+)*[.\-]?$`)

// IsSeparator reports whether b separates code segments.
func IsSeparator(b byte) bool {
	return b == '.' || b == '-'
}

// LooksLikeCode reports whether s is a numeric dotted/dashed code no longer than maxLen.
func LooksLikeCode(s string, maxLen int) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxLen {
		return false
	}
	return codePattern.MatchString(s)
}

// Normalize trims whitespace and stray trailing separators.
// "1.01." -> "1.01"
func Normalize(code string) string {
	return strings.TrimRightFunc(strings.TrimSpace(code), func(r rune) bool {
		return r == '.' || r == '-'
	})
}

// Segments splits a code on '.' and '-', dropping empty segments.
func Segments(code string) []string {
	return strings.FieldsFunc(code, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

// Level is the hierarchy depth of a code: its number of non-empty segments.
// An empty code is level 1.
func Level(code string) int {
	n := len(Segments(code))
	if n == 0 {
		return 1
	}
	return n
}

// IsParentOf reports whether child nests under parent: child starts with parent
// and the next character is a separator. "1" is a parent of "1.01" but not of "10".
func IsParentOf(parent, child string) bool {
	if parent == "" || len(child) <= len(parent) {
		return false
	}
	return strings.HasPrefix(child, parent) && IsSeparator(child[len(parent)])
}

// Compare orders codes segment by segment, numerically where both segments are
// digits, so "1.2" sorts before "1.10". Returns -1, 0 or 1.
func Compare(a, b string) int {
	as, bs := Segments(a), Segments(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return strings.Compare(a, b)
}

func compareSegment(a, b string) int {
	if isDigits(a) && isDigits(b) {
		// Compare by magnitude without converting, so long codes cannot overflow.
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			if len(ta) < len(tb) {
				return -1
			}
			return 1
		}
		return strings.Compare(ta, tb)
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
