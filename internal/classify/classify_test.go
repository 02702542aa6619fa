package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

func TestClassify_Nature(t *testing.T) {
	tests := []struct {
		name string
		code string
		ind  model.Indicator
		doc  model.DocumentType
		want model.Nature
	}{
		{"Caixa", "1.01", model.IndicatorNone, model.DocTrialBalance, model.NatureDebit},
		{"Fornecedores", "2.01", model.IndicatorNone, model.DocTrialBalance, model.NatureCredit},
		{"Caixa", "1.01", model.IndicatorCredit, model.DocTrialBalance, model.NatureCredit},
		{"Fornecedores", "", model.IndicatorDebit, model.DocBalanceSheet, model.NatureDebit},
		{"Receita de Vendas", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureCredit},
		{"Despesas com Vendas", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureDebit},
		{"Devoluções de Vendas", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureDebit},
		{"(-) Deduções da Receita", "2", model.IndicatorNone, model.DocIncomeStatement, model.NatureDebit},
		{"Custo das Mercadorias Vendidas", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureDebit},
		{"Salários a Pagar", "", model.IndicatorNone, model.DocBalanceSheet, model.NatureCredit},
		{"Impostos a Recolher", "", model.IndicatorNone, model.DocBalanceSheet, model.NatureCredit},
		{"Contas a Receber", "", model.IndicatorNone, model.DocBalanceSheet, model.NatureDebit},
		{"Capital Social", "", model.IndicatorNone, model.DocBalanceSheet, model.NatureCredit},
		{"PATRIMÔNIO LÍQUIDO", "", model.IndicatorNone, model.DocBalanceSheet, model.NatureCredit},
		{"Accounts Payable", "", model.IndicatorNone, model.DocOther, model.NatureCredit},
		{"Sales Revenue", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureCredit},
		{"Income Tax", "", model.IndicatorNone, model.DocIncomeStatement, model.NatureDebit},
		{"Diversos", "", model.IndicatorNone, model.DocTrialBalance, model.NatureDebit},
	}
	for _, tt := range tests {
		got := Default.Classify(tt.name, tt.code, tt.ind, tt.doc)
		assert.Equal(t, tt.want, got.Nature, "Classify(%q, %q)", tt.name, tt.code)
	}
}

func TestClassify_CategoryOnlyForIncomeStatements(t *testing.T) {
	got := Default.Classify("Despesas Financeiras", "", model.IndicatorNone, model.DocTrialBalance)
	assert.Equal(t, model.CategoryNone, got.Category)

	got = Default.Classify("Despesas Financeiras", "", model.IndicatorNone, model.DocIncomeStatement)
	assert.Equal(t, model.CategoryFinancing, got.Category)
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		code string
		want model.Category
	}{
		{"Receita Bruta de Vendas", "", model.CategoryOperational},
		{"Despesas Administrativas", "", model.CategoryOperational},
		{"Despesas Financeiras", "", model.CategoryFinancing},
		{"Receitas Financeiras", "", model.CategoryFinancing},
		{"Juros sobre Empréstimos", "", model.CategoryFinancing},
		{"Resultado de Equivalência Patrimonial", "", model.CategoryInvestment},
		{"Ganho na Alienação de Imobilizado", "", model.CategoryInvestment},
		{"Outros", "4.9", model.CategoryOperational},
		{"Diversos", "", model.CategoryOperational},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Default.Category(tt.name, tt.code), "Category(%q)", tt.name)
	}
}

func TestExpectedNature_UnknownWithoutSignal(t *testing.T) {
	assert.Equal(t, model.NatureUnknown, Default.ExpectedNature("Diversos", "", model.DocTrialBalance))
	assert.Equal(t, model.NatureUnknown, Default.ExpectedNature("Diversos", "9.1", model.DocTrialBalance))
	assert.Equal(t, model.NatureDebit, Default.ExpectedNature("Diversos", "1.9", model.DocTrialBalance))
	// Income statement numbering is presentational; the code digit is ignored.
	assert.Equal(t, model.NatureUnknown, Default.ExpectedNature("Diversos", "1", model.DocIncomeStatement))
}

func TestClassify_IncomeStatementIgnoresCodeDigit(t *testing.T) {
	// A leading 1 or 2 marks asset/liability only on balance-type documents.
	got := Default.Classify("Receita de Vendas", "1", model.IndicatorNone, model.DocIncomeStatement)
	assert.Equal(t, model.NatureCredit, got.Nature)
	got = Default.Classify("Despesas Administrativas", "2", model.IndicatorNone, model.DocIncomeStatement)
	assert.Equal(t, model.NatureDebit, got.Nature)

	got = Default.Classify("Receita de Vendas", "1", model.IndicatorNone, model.DocTrialBalance)
	assert.Equal(t, model.NatureDebit, got.Nature)
}

func TestClassify_Idempotent(t *testing.T) {
	inputs := []struct{ name, code string }{
		{"Receita de Serviços", "3.01"},
		{"Despesas Financeiras", ""},
		{"Caixa Geral", "1.01.01"},
	}
	for _, in := range inputs {
		first := Default.Classify(in.name, in.code, model.IndicatorNone, model.DocIncomeStatement)
		for range 3 {
			assert.Equal(t, first, Default.Classify(in.name, in.code, model.IndicatorNone, model.DocIncomeStatement))
		}
	}
}

func TestWithTypeKeywords(t *testing.T) {
	c := New(WithTypeKeywords(model.AccountTypeRevenue, "Honorários"))
	assert.Equal(t, model.NatureCredit, c.Classify("Honorários Advocatícios", "", model.IndicatorNone, model.DocIncomeStatement).Nature)
	// The default classifier is untouched.
	assert.Equal(t, model.NatureDebit, Default.Classify("Honorários Advocatícios", "", model.IndicatorNone, model.DocIncomeStatement).Nature)
}

func TestIsRevenueIsExpense(t *testing.T) {
	assert.True(t, Default.IsRevenue("Outros", "3.01"))
	assert.True(t, Default.IsRevenue("Receita de Serviços", ""))
	assert.False(t, Default.IsRevenue("Devolução de Vendas", ""))
	assert.True(t, Default.IsExpense("Devolução de Vendas", ""))
	assert.True(t, Default.IsExpense("Outros", "4.02"))
	assert.False(t, Default.IsExpense("Caixa", "1.01"))
}

func TestIsAggregateLabel(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Total do Ativo", true},
		{"TOTAL GERAL", true},
		{"Subtotal", true},
		{"(=) Receita Líquida", true},
		{"Grupo 1", true},
		{"Resultado Operacional", true},
		{"Lucro Bruto", true},
		{"Caixa", false},
		{"Receita de Vendas", false},
		{"Fornecedores", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Default.IsAggregateLabel(tt.name), "IsAggregateLabel(%q)", tt.name)
	}
}

func TestWithAggregateKeywords(t *testing.T) {
	c := New(WithAggregateKeywords("Consolidado"))
	assert.True(t, c.IsAggregateLabel("Consolidado Ativo"))
	assert.False(t, Default.IsAggregateLabel("Consolidado Ativo"))
}

func TestIsNetResultLabel(t *testing.T) {
	assert.True(t, Default.IsNetResultLabel("Lucro Líquido do Exercício"))
	assert.True(t, Default.IsNetResultLabel("Lucro/Prejuízo do Período"))
	assert.True(t, Default.IsNetResultLabel("Net Income"))
	assert.False(t, Default.IsNetResultLabel("Lucros Acumulados"))
	assert.False(t, Default.IsNetResultLabel("Receita Líquida"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "devolucoes de vendas", Fold("Devoluções de Vendas"))
	assert.Equal(t, "lucro prejuizo", Fold("Lucro/Prejuízo"))
	assert.Equal(t, "patrimonio liquido", Fold("  PATRIMÔNIO   LÍQUIDO "))
	assert.Equal(t, "", Fold("(=)"))
}
