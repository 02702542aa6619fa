package model

import (
	"github.com/shopspring/decimal"
)

// AnalysisSummary holds the aggregates of one normalization run.
type AnalysisSummary struct {
	DocumentType      DocumentType    `json:"document_type"`
	TotalDebits       decimal.Decimal `json:"total_debits"`
	TotalCredits      decimal.Decimal `json:"total_credits"`
	IsBalanced        bool            `json:"is_balanced"`
	DiscrepancyAmount decimal.Decimal `json:"discrepancy_amount"`
	ResultValue       decimal.Decimal `json:"result_value"`
	ResultLabel       string          `json:"result_label"`

	// LowConfidence is set when hierarchy detection looked unreliable and totals
	// were computed over every non-total row instead of analytical accounts.
	LowConfidence   bool `json:"low_confidence"`
	AnalyticalCount int  `json:"analytical_count"`
	SyntheticCount  int  `json:"synthetic_count"`
}

// SpellCheckItem is a correction suggested by the narrative collaborator.
// It is carried through untouched.
type SpellCheckItem struct {
	OriginalTerm        string  `json:"original_term"`
	SuggestedCorrection string  `json:"suggested_correction"`
	Confidence          float64 `json:"confidence"`
}

// LineWarning flags a source line whose contents were only partially understood.
type LineWarning struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Result is the complete output of normalizing one document.
type Result struct {
	Summary    AnalysisSummary  `json:"summary"`
	Accounts   []ParsedAccount  `json:"accounts"`
	SpellCheck []SpellCheckItem `json:"spell_check,omitempty"`
	Warnings   []LineWarning    `json:"warnings,omitempty"`
}
