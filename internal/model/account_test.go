package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNatureOpposite(t *testing.T) {
	assert.Equal(t, NatureCredit, NatureDebit.Opposite())
	assert.Equal(t, NatureDebit, NatureCredit.Opposite())
	assert.Equal(t, NatureUnknown, NatureUnknown.Opposite())
}

func TestIndicatorNature(t *testing.T) {
	assert.Equal(t, NatureDebit, IndicatorDebit.Nature())
	assert.Equal(t, NatureCredit, IndicatorCredit.Nature())
	assert.Equal(t, NatureUnknown, IndicatorNone.Nature())
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		input string
		want  DocumentType
		ok    bool
	}{
		{"DRE", DocIncomeStatement, true},
		{" balancete ", DocTrialBalance, true},
		{"BP", DocBalanceSheet, true},
		{"trial_balance", DocTrialBalance, true},
		{"income_statement", DocIncomeStatement, true},
		{"other", DocOther, true},
		{"cash flow", DocOther, false},
		{"", DocOther, false},
	}
	for _, tt := range tests {
		got, ok := ParseDocumentType(tt.input)
		assert.Equal(t, tt.want, got, "ParseDocumentType(%q)", tt.input)
		assert.Equal(t, tt.ok, ok, "ParseDocumentType(%q) ok", tt.input)
	}
}

func TestDocumentTypeValid(t *testing.T) {
	assert.True(t, DocBalanceSheet.Valid())
	assert.True(t, DocOther.Valid())
	assert.False(t, DocumentType("cash_flow").Valid())
	assert.True(t, DocIncomeStatement.IsIncomeStatement())
	assert.False(t, DocTrialBalance.IsIncomeStatement())
}

func TestAccountTypeNature(t *testing.T) {
	tests := []struct {
		typ  AccountType
		want Nature
	}{
		{AccountTypeAsset, NatureDebit},
		{AccountTypeExpense, NatureDebit},
		{AccountTypeLiability, NatureCredit},
		{AccountTypeEquity, NatureCredit},
		{AccountTypeRevenue, NatureCredit},
		{AccountType(""), NatureUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Nature(), "AccountType(%q).Nature()", tt.typ)
	}
}
