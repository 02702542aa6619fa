package model

import "strings"

// DocumentType selects column and aggregation semantics.
type DocumentType string

const (
	DocBalanceSheet    DocumentType = "balance_sheet"
	DocTrialBalance    DocumentType = "trial_balance"
	DocIncomeStatement DocumentType = "income_statement"
	DocOther           DocumentType = "other"
)

// DocumentTypeAliases lists the hints seen in extraction output for each type.
// Aliases are lower case without accents.
var DocumentTypeAliases = map[DocumentType][]string{
	DocBalanceSheet: {
		"balance_sheet", "balance sheet", "balancesheet", "bp",
		"balanco", "balanco patrimonial",
	},
	DocTrialBalance: {
		"trial_balance", "trial balance", "trialbalance",
		"balancete", "balancete de verificacao",
	},
	DocIncomeStatement: {
		"income_statement", "income statement", "incomestatement", "income", "p&l",
		"dre", "demonstracao do resultado", "demonstracao de resultado",
	},
	DocOther: {"other", "outro"},
}

var aliasIndex = func() map[string]DocumentType {
	idx := make(map[string]DocumentType)
	for dt, aliases := range DocumentTypeAliases {
		for _, a := range aliases {
			idx[a] = dt
		}
	}
	return idx
}()

// ParseDocumentType resolves an exact alias. The second result is false when the
// hint is not a known alias, in which case DocOther is returned.
func ParseDocumentType(s string) (DocumentType, bool) {
	dt, ok := aliasIndex[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DocOther, false
	}
	return dt, true
}

// IsIncomeStatement reports whether amounts are P&L components rather than balances.
func (d DocumentType) IsIncomeStatement() bool {
	return d == DocIncomeStatement
}

// Valid reports whether d is one of the four supported types.
func (d DocumentType) Valid() bool {
	switch d {
	case DocBalanceSheet, DocTrialBalance, DocIncomeStatement, DocOther:
		return true
	}
	return false
}

// Document is the raw material handed over by an extraction collaborator.
type Document struct {
	Source     string // file name or other origin, for reporting
	Type       DocumentType
	Lines      []string
	SpellCheck []SpellCheckItem
}
