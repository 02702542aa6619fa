// Package numparse converts locale-formatted amount strings into decimals.
package numparse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped before parsing. Longest first so "R$" wins over "$".
var currencySymbols = []string{"US$", "R$", "BRL", "USD", "EUR", "$", "€", "£"}

var (
	thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	plainNumber   = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
)

// Parse converts raw to a decimal. It never fails: anything it cannot read is zero.
func Parse(raw string) decimal.Decimal {
	d, _ := ParseStrict(raw)
	return d
}

// ParseStrict is Parse that also reports whether raw was understood.
// A lone dash is an explicit zero and counts as understood.
func ParseStrict(raw string) (decimal.Decimal, bool) {
	s := stripCurrency(raw)
	if s == "" {
		return decimal.Zero, false
	}
	if isDashPlaceholder(s) {
		return decimal.Zero, true
	}

	s = fixOCRDigits(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	} else if strings.HasSuffix(s, "-") {
		negative = !negative
		s = s[:len(s)-1]
	}

	s, ok := canonicalSeparators(s)
	if !ok || !plainNumber.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// LooksNumeric reports whether tok has the shape of an amount: at least one digit,
// otherwise only separators, sign, parentheses and OCR look-alikes. Currency
// prefixes are ignored. A lone dash also qualifies.
func LooksNumeric(tok string) bool {
	s := stripCurrency(tok)
	if s == "" {
		return false
	}
	if isDashPlaceholder(s) {
		return true
	}
	return numericShaped(s)
}

// IsCurrencySymbol reports whether tok is only a currency marker.
func IsCurrencySymbol(tok string) bool {
	t := strings.TrimSpace(tok)
	for _, sym := range currencySymbols {
		if strings.EqualFold(t, sym) {
			return true
		}
	}
	return false
}

func stripCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isDashPlaceholder(s string) bool {
	return strings.Trim(s, "-–—") == "" && s != ""
}

// numericShaped allows O and l only alongside real digits.
func numericShaped(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',' || r == '(' || r == ')' || r == '-':
		case r == 'O' || r == 'l':
		default:
			return false
		}
	}
	return digits > 0
}

func fixOCRDigits(s string) string {
	if !numericShaped(s) {
		return s
	}
	return strings.NewReplacer("O", "0", "l", "1").Replace(s)
}

// canonicalSeparators rewrites s so that '.' is the only, decimal, separator.
func canonicalSeparators(s string) (string, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1), strings.Count(s, ",") == 1
		}
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
		return s, strings.Count(s, ".") == 1

	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			// 1,234,567 can only be grouping.
			return strings.ReplaceAll(s, ",", ""), true
		}
		return strings.Replace(s, ",", ".", 1), true

	case lastDot >= 0:
		if thousandsOnly.MatchString(s) {
			return strings.ReplaceAll(s, ".", ""), true
		}
		return s, strings.Count(s, ".") == 1
	}
	return s, true
}
