// Package classify infers the accounting nature and cash-flow category of a ledger row
// from its code and name. All decisions come from the keyword tables in tables.go.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Classification is the outcome of Classify.
type Classification struct {
	Nature   model.Nature
	Category model.Category
}

// Classifier holds keyword tables. It has no mutable state after New, so one
// value can be shared across goroutines.
type Classifier struct {
	phrases   []TypeRule
	terms     []TypeRule
	category  []CategoryRule
	aggregate []string
	netResult []string
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithTypeKeywords adds terms ahead of the built-in phrase rules.
func WithTypeKeywords(t model.AccountType, keywords ...string) Option {
	return func(c *Classifier) {
		var extra []TypeRule
		for _, kw := range keywords {
			if k := Fold(kw); k != "" {
				extra = append(extra, TypeRule{Keyword: k, Type: t})
			}
		}
		c.phrases = append(extra, c.phrases...)
	}
}

// WithAggregateKeywords adds prefixes that mark total lines.
func WithAggregateKeywords(keywords ...string) Option {
	return func(c *Classifier) {
		for _, kw := range keywords {
			if k := Fold(kw); k != "" {
				c.aggregate = append(c.aggregate, k)
			}
		}
	}
}

// New returns a Classifier over the default tables plus any options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		phrases:   append([]TypeRule(nil), PhraseRules...),
		terms:     append([]TypeRule(nil), TypeRules...),
		category:  append([]CategoryRule(nil), CategoryRules...),
		aggregate: append([]string(nil), AggregateKeywords...),
		netResult: append([]string(nil), NetResultKeywords...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default is a Classifier over the built-in tables.
var Default = New()

// Classify determines the nature and, for income statements, the category of a row.
// An explicit D/C indicator beats the code, which beats name keywords; with no
// signal at all the row is a debit.
func (c *Classifier) Classify(name, code string, ind model.Indicator, dt model.DocumentType) Classification {
	nature := ind.Nature()
	if nature == model.NatureUnknown {
		nature = c.ExpectedNature(name, code, dt)
	}
	if nature == model.NatureUnknown {
		nature = model.NatureDebit
	}

	var cat model.Category
	if dt.IsIncomeStatement() {
		cat = c.Category(name, code)
	}
	return Classification{Nature: nature, Category: cat}
}

// ExpectedNature derives the nature from code and name alone, ignoring any printed
// indicator. It returns NatureUnknown when neither gives a signal.
func (c *Classifier) ExpectedNature(name, code string, dt model.DocumentType) model.Nature {
	if !dt.IsIncomeStatement() {
		switch firstDigit(code) {
		case '1':
			return model.NatureDebit
		case '2':
			return model.NatureCredit
		}
	}
	return c.TypeOf(name).Nature()
}

// TypeOf returns the account type suggested by the name, or "" if none matched.
func (c *Classifier) TypeOf(name string) model.AccountType {
	text := Fold(name)
	if text == "" {
		return ""
	}
	for _, r := range c.phrases {
		if wordIndex(text, r.Keyword) >= 0 {
			return r.Type
		}
	}
	best, bestPos := model.AccountType(""), -1
	for _, r := range c.terms {
		pos := wordIndex(text, r.Keyword)
		if pos >= 0 && (bestPos < 0 || pos < bestPos) {
			best, bestPos = r.Type, pos
		}
	}
	return best
}

// Category classifies an income-statement line. Unmatched lines are operational.
func (c *Classifier) Category(name, code string) model.Category {
	text := Fold(name)
	for _, r := range c.category {
		if wordIndex(text, r.Keyword) >= 0 {
			return r.Category
		}
	}
	// The code is not consulted: revenue (3) and expense (4) groups are both operational.
	return model.CategoryOperational
}

// IsRevenue reports whether a row is revenue by code prefix 3 or by name.
func (c *Classifier) IsRevenue(name, code string) bool {
	if firstDigit(code) == '3' {
		return true
	}
	return c.TypeOf(name) == model.AccountTypeRevenue
}

// IsExpense reports whether a row is an expense by code prefix 4 or by name.
func (c *Classifier) IsExpense(name, code string) bool {
	if firstDigit(code) == '4' {
		return true
	}
	return c.TypeOf(name) == model.AccountTypeExpense
}

// IsAggregateLabel reports whether name reads as a total or subtotal line.
func (c *Classifier) IsAggregateLabel(name string) bool {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "(=)") || strings.HasPrefix(trimmed, "=") {
		return true
	}
	text := Fold(trimmed)
	for _, kw := range c.aggregate {
		if strings.HasPrefix(text, kw) {
			return true
		}
	}
	return false
}

// IsNetResultLabel reports whether name is an explicit net profit/loss line.
func (c *Classifier) IsNetResultLabel(name string) bool {
	text := Fold(name)
	for _, kw := range c.netResult {
		if wordIndex(text, kw) >= 0 {
			return true
		}
	}
	return false
}

// Fold lower-cases s, strips accents and reduces punctuation to single spaces.
// "Devoluções de Vendas" -> "devolucoes de vendas".
func Fold(s string) string {
	// Chains carry buffers, so each call builds its own.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	t, _, err := transform.String(chain, s)
	if err != nil {
		t = s
	}
	t = strings.ToLower(t)
	var b strings.Builder
	space := true
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// wordIndex returns the byte offset of kw in text when it starts at a word
// boundary, or -1.
func wordIndex(text, kw string) int {
	if kw == "" {
		return -1
	}
	return strings.Index(" "+text, " "+kw)
}

func firstDigit(code string) byte {
	code = strings.TrimSpace(code)
	if code == "" || code[0] < '0' || code[0] > '9' {
		return 0
	}
	return code[0]
}
