package classify

import "github.com/cleared-dev/ledgernorm/internal/model"

// TypeRule maps a keyword to the account type it indicates. Keywords are folded
// (lower case, no accents) and match at a word start, so "receita" also matches
// "receitas".
type TypeRule struct {
	Keyword string
	Type    model.AccountType
}

// CategoryRule maps a keyword to a cash-flow category.
type CategoryRule struct {
	Keyword  string
	Category model.Category
}

// PhraseRules are checked first, in order. They hold multi-word terms whose
// meaning differs from their head word, such as contra-revenue lines.
var PhraseRules = []TypeRule{
	{"devolucao de venda", model.AccountTypeExpense},
	{"devolucoes de venda", model.AccountTypeExpense},
	{"vendas canceladas", model.AccountTypeExpense},
	{"impostos sobre venda", model.AccountTypeExpense},
	{"impostos incidentes", model.AccountTypeExpense},
	{"sales return", model.AccountTypeExpense},
	{"cost of", model.AccountTypeExpense},
	{"income tax", model.AccountTypeExpense},
	{"a pagar", model.AccountTypeLiability},
	{"a recolher", model.AccountTypeLiability},
	{"a receber", model.AccountTypeAsset},
	{"patrimonio liquido", model.AccountTypeEquity},
	{"lucros acumulados", model.AccountTypeEquity},
	{"retained earnings", model.AccountTypeEquity},
}

// TypeRules hold single terms. When several match, the one appearing earliest
// in the name wins: "despesas com vendas" is an expense, not revenue.
var TypeRules = []TypeRule{
	{"cancelamento", model.AccountTypeExpense},
	{"abatimento", model.AccountTypeExpense},
	{"deducao", model.AccountTypeExpense},
	{"deducoes", model.AccountTypeExpense},

	{"fornecedor", model.AccountTypeLiability},
	{"emprestimo", model.AccountTypeLiability},
	{"financiamento", model.AccountTypeLiability},
	{"obrigac", model.AccountTypeLiability},
	{"passivo", model.AccountTypeLiability},
	{"provisao", model.AccountTypeLiability},
	{"payable", model.AccountTypeLiability},
	{"liabilit", model.AccountTypeLiability},
	{"loan", model.AccountTypeLiability},

	{"capital", model.AccountTypeEquity},
	{"reserva", model.AccountTypeEquity},
	{"equity", model.AccountTypeEquity},

	{"receita", model.AccountTypeRevenue},
	{"venda", model.AccountTypeRevenue},
	{"faturamento", model.AccountTypeRevenue},
	{"revenue", model.AccountTypeRevenue},
	{"sales", model.AccountTypeRevenue},
	{"income", model.AccountTypeRevenue},

	{"despesa", model.AccountTypeExpense},
	{"custo", model.AccountTypeExpense},
	{"cmv", model.AccountTypeExpense},
	{"csp", model.AccountTypeExpense},
	{"imposto", model.AccountTypeExpense},
	{"tributo", model.AccountTypeExpense},
	{"depreciacao", model.AccountTypeExpense},
	{"amortizacao", model.AccountTypeExpense},
	{"salario", model.AccountTypeExpense},
	{"expense", model.AccountTypeExpense},
	{"cost", model.AccountTypeExpense},
	{"tax", model.AccountTypeExpense},

	{"caixa", model.AccountTypeAsset},
	{"banco", model.AccountTypeAsset},
	{"aplicac", model.AccountTypeAsset},
	{"estoque", model.AccountTypeAsset},
	{"cliente", model.AccountTypeAsset},
	{"imobilizado", model.AccountTypeAsset},
	{"ativo", model.AccountTypeAsset},
	{"cash", model.AccountTypeAsset},
	{"receivable", model.AccountTypeAsset},
	{"inventor", model.AccountTypeAsset},
	{"asset", model.AccountTypeAsset},
}

// CategoryRules is the default keyword table for income-statement categories.
// Financing and investment terms come first so "despesas financeiras" is not
// caught by the generic "despesa".
var CategoryRules = []CategoryRule{
	{"juros", model.CategoryFinancing},
	{"financeir", model.CategoryFinancing},
	{"emprestimo", model.CategoryFinancing},
	{"financiamento", model.CategoryFinancing},
	{"dividendo", model.CategoryFinancing},
	{"interest", model.CategoryFinancing},
	{"financing", model.CategoryFinancing},
	{"dividend", model.CategoryFinancing},

	{"investimento", model.CategoryInvestment},
	{"imobilizado", model.CategoryInvestment},
	{"intangivel", model.CategoryInvestment},
	{"equivalencia patrimonial", model.CategoryInvestment},
	{"participac", model.CategoryInvestment},
	{"alienacao", model.CategoryInvestment},
	{"investment", model.CategoryInvestment},
	{"fixed asset", model.CategoryInvestment},
	{"capex", model.CategoryInvestment},

	{"receita", model.CategoryOperational},
	{"venda", model.CategoryOperational},
	{"custo", model.CategoryOperational},
	{"despesa", model.CategoryOperational},
	{"cmv", model.CategoryOperational},
	{"revenue", model.CategoryOperational},
	{"sales", model.CategoryOperational},
	{"cost", model.CategoryOperational},
	{"expense", model.CategoryOperational},
}

// AggregateKeywords start the names of total and subtotal lines.
var AggregateKeywords = []string{
	"total", "totais", "subtotal", "sub total", "soma", "grupo", "resultado",
	"lucro bruto", "lucro operacional", "lucro liquido", "receita liquida",
	"group", "result", "sum", "gross profit",
}

// NetResultKeywords identify an explicit bottom-line row.
var NetResultKeywords = []string{
	"lucro liquido", "prejuizo liquido", "resultado liquido",
	"resultado do exercicio", "resultado do periodo",
	"lucro prejuizo", "lucro ou prejuizo",
	"net profit", "net loss", "net income", "net result",
}
