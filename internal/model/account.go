package model

import (
	"github.com/shopspring/decimal"
)

// Nature is the side of the ledger an account is expected to carry its balance on.
type Nature string

const (
	NatureDebit   Nature = "debit"
	NatureCredit  Nature = "credit"
	NatureUnknown Nature = "unknown"
)

// Opposite returns the other side. Unknown stays unknown.
func (n Nature) Opposite() Nature {
	switch n {
	case NatureDebit:
		return NatureCredit
	case NatureCredit:
		return NatureDebit
	default:
		return NatureUnknown
	}
}

// Indicator is an explicit D/C marker printed next to an amount.
type Indicator rune

const (
	IndicatorNone   Indicator = 0
	IndicatorDebit  Indicator = 'D'
	IndicatorCredit Indicator = 'C'
)

// Nature maps the printed marker to a nature.
func (i Indicator) Nature() Nature {
	switch i {
	case IndicatorDebit:
		return NatureDebit
	case IndicatorCredit:
		return NatureCredit
	default:
		return NatureUnknown
	}
}

// Category is the IFRS-style cash-flow bucket of an income-statement line.
type Category string

const (
	CategoryNone        Category = ""
	CategoryOperational Category = "operational"
	CategoryInvestment  Category = "investment"
	CategoryFinancing   Category = "financing"
)

// ParsedAccount is one normalized ledger row.
type ParsedAccount struct {
	Code              string          `json:"code,omitempty"`
	Name              string          `json:"name"`
	InitialBalance    decimal.Decimal `json:"initial_balance"`
	Debit             decimal.Decimal `json:"debit"`  // magnitude
	Credit            decimal.Decimal `json:"credit"` // magnitude
	FinalBalance      decimal.Decimal `json:"final_balance"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Nature            Nature          `json:"nature"`
	PossibleInversion bool            `json:"possible_inversion"`
	Category          Category        `json:"category,omitempty"`
	Level             int             `json:"level"`
	IsSynthetic       bool            `json:"is_synthetic"`
	Line              int             `json:"line,omitempty"` // 1-based source line

	// Indicator is the D/C marker found on the source line, if any.
	Indicator Indicator `json:"-"`
}

// HasCode reports whether the account carries a hierarchical code.
func (a ParsedAccount) HasCode() bool {
	return a.Code != ""
}
