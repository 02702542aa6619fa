package normalize

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgernorm/internal/classify"
	"github.com/cleared-dev/ledgernorm/internal/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newEngine() *Engine {
	return NewEngine(nil, DefaultOptions(), nil)
}

func byCode(t *testing.T, res *model.Result, code string) model.ParsedAccount {
	t.Helper()
	for _, a := range res.Accounts {
		if a.Code == code {
			return a
		}
	}
	t.Fatalf("no account with code %q", code)
	return model.ParsedAccount{}
}

func byName(t *testing.T, res *model.Result, name string) model.ParsedAccount {
	t.Helper()
	for _, a := range res.Accounts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("no account named %q", name)
	return model.ParsedAccount{}
}

func TestNormalize_CleanTrialBalance(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"1.01 | Caixa | 1.000,00",
		"2.01 | Fornecedores | 1.000,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)

	require.Len(t, res.Accounts, 2)
	for _, a := range res.Accounts {
		assert.False(t, a.IsSynthetic, a.Code)
		assert.False(t, a.PossibleInversion, a.Code)
	}
	s := res.Summary
	assert.True(t, d(1000).Equal(s.TotalDebits), "debits %s", s.TotalDebits)
	assert.True(t, d(1000).Equal(s.TotalCredits), "credits %s", s.TotalCredits)
	assert.True(t, s.IsBalanced)
	assert.True(t, s.DiscrepancyAmount.IsZero())
	assert.Equal(t, 2, s.AnalyticalCount)

	caixa := byCode(t, res, "1.01")
	assert.Equal(t, model.NatureDebit, caixa.Nature)
	assert.True(t, d(1000).Equal(caixa.Debit))
	assert.True(t, caixa.Credit.IsZero())
	assert.Equal(t, 1, caixa.Line)
	assert.Equal(t, 2, caixa.Level)

	forn := byCode(t, res, "2.01")
	assert.Equal(t, model.NatureCredit, forn.Nature)
	assert.True(t, d(1000).Equal(forn.Credit))
}

func TestNormalize_InvertedAsset(t *testing.T) {
	res, err := newEngine().Normalize([]string{"1.01 | Caixa | (500,00)"}, model.DocTrialBalance)
	require.NoError(t, err)

	caixa := byCode(t, res, "1.01")
	assert.True(t, caixa.PossibleInversion)
	assert.True(t, d(-500).Equal(caixa.FinalBalance))
	assert.True(t, d(500).Equal(caixa.TotalValue))
	// A negative debit-nature balance sits on the credit side.
	assert.True(t, d(500).Equal(caixa.Credit))
	assert.True(t, caixa.Debit.IsZero())
}

func TestNormalize_SyntheticRollup(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"1.01 | Caixa | 1.000,00",
		"1 | Ativo | 1.000,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)

	require.Len(t, res.Accounts, 2)
	assert.Equal(t, "1", res.Accounts[0].Code)
	assert.True(t, res.Accounts[0].IsSynthetic)
	assert.Equal(t, 1, res.Accounts[0].Level)
	assert.False(t, res.Accounts[1].IsSynthetic)
	assert.True(t, d(1000).Equal(res.Summary.TotalDebits), "parent must not be counted twice")
	assert.Equal(t, 1, res.Summary.SyntheticCount)
}

func TestNormalize_IncomeStatementNetResult(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"Demonstração do Resultado do Exercício",
		"Receita de Vendas 10.000,00",
		"(-) Despesas Operacionais 4.000,00",
	}, model.DocIncomeStatement)
	require.NoError(t, err)

	require.Len(t, res.Accounts, 2)
	s := res.Summary
	assert.True(t, d(6000).Equal(s.ResultValue), "result %s", s.ResultValue)
	assert.Equal(t, "Lucro Líquido", s.ResultLabel)
	assert.True(t, s.IsBalanced)

	rev := byName(t, res, "Receita de Vendas")
	assert.Equal(t, model.NatureCredit, rev.Nature)
	assert.Equal(t, model.CategoryOperational, rev.Category)
	assert.True(t, d(10000).Equal(rev.FinalBalance))
	assert.True(t, d(10000).Equal(rev.Credit))

	exp := byName(t, res, "Despesas Operacionais")
	assert.Equal(t, model.NatureDebit, exp.Nature)
	assert.True(t, d(-4000).Equal(exp.FinalBalance), "debit lines are negative")
	assert.True(t, d(4000).Equal(exp.Debit))
	assert.False(t, exp.PossibleInversion)
}

func TestNormalize_MalformedLinesSkipped(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"abc",
		"Página 1 de 2",
		"Código | Descrição | Saldo",
		"------------------------",
		"1.01 | Caixa | 1.000,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)
	require.Len(t, res.Accounts, 1)
	assert.Equal(t, 5, res.Accounts[0].Line)
	assert.Empty(t, res.Warnings)
}

func TestNormalize_NoAccounts(t *testing.T) {
	res, err := newEngine().Normalize([]string{"abc", "Página 1 de 2"}, model.DocTrialBalance)
	assert.ErrorIs(t, err, ErrNoAccounts)
	assert.Nil(t, res)

	_, err = newEngine().Normalize(nil, model.DocOther)
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestNormalize_DuplicateCodeKeepsFirst(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"1.01 | Caixa | 100,00",
		"1.01 | Caixa Repetido | 900,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)

	require.Len(t, res.Accounts, 1)
	assert.Equal(t, "Caixa", res.Accounts[0].Name)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Line)
	assert.Contains(t, res.Warnings[0].Message, "duplicate code 1.01")
}

func TestNormalize_UnreadableAmountWarns(t *testing.T) {
	res, err := newEngine().Normalize([]string{"1.01 | Caixa | 1,2,3.4.5"}, model.DocTrialBalance)
	require.NoError(t, err)

	require.Len(t, res.Accounts, 1)
	assert.True(t, res.Accounts[0].FinalBalance.IsZero())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "1,2,3.4.5")
}

func TestNormalize_MovementColumns(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"1.01 | Caixa | 300,00 | 1.000,00 | 600,00 | 700,00",
		"2.01 | Fornecedores | 300,00 | 600,00 | 1.000,00 | 700,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)

	caixa := byCode(t, res, "1.01")
	assert.True(t, d(300).Equal(caixa.InitialBalance))
	assert.True(t, d(1000).Equal(caixa.Debit))
	assert.True(t, d(600).Equal(caixa.Credit))
	assert.True(t, d(700).Equal(caixa.FinalBalance))
	assert.True(t, res.Summary.IsBalanced)
	assert.True(t, d(1600).Equal(res.Summary.TotalDebits))
}

func TestNormalize_IndicatorOverridesCode(t *testing.T) {
	res, err := newEngine().Normalize([]string{"1.01 Caixa 500,00 C"}, model.DocTrialBalance)
	require.NoError(t, err)

	caixa := byCode(t, res, "1.01")
	assert.Equal(t, model.NatureCredit, caixa.Nature)
	assert.True(t, d(500).Equal(caixa.Credit))
	assert.True(t, caixa.PossibleInversion)
}

func TestNormalize_TextColumnEndingInLetterKeepsCodeNature(t *testing.T) {
	res, err := newEngine().Normalize([]string{
		"1.01 | Caixa | Filial C | 1.000,00",
		"1.02 | Bancos | 1.000,00",
	}, model.DocTrialBalance)
	require.NoError(t, err)

	caixa := byCode(t, res, "1.01")
	assert.Equal(t, "Caixa Filial C", caixa.Name)
	assert.Equal(t, model.NatureDebit, caixa.Nature)
	assert.True(t, d(1000).Equal(caixa.Debit))
	assert.False(t, caixa.PossibleInversion)

	s := res.Summary
	assert.True(t, d(2000).Equal(s.TotalDebits), "debits %s", s.TotalDebits)
	assert.True(t, s.TotalCredits.IsZero(), "credits %s", s.TotalCredits)
	assert.False(t, s.IsBalanced)
}

func TestNormalize_Deterministic(t *testing.T) {
	lines := []string{
		"2.01 | Fornecedores | 1.000,00",
		"1 | Ativo | 1.000,00",
		"1.01 | Caixa | 1.000,00",
	}
	e := newEngine()
	first, err := e.Normalize(lines, model.DocTrialBalance)
	require.NoError(t, err)
	second, err := e.Normalize(lines, model.DocTrialBalance)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeDocument_CarriesSpellCheck(t *testing.T) {
	doc := model.Document{
		Type:       model.DocTrialBalance,
		Lines:      []string{"1.01 | Caixa | 1.000,00"},
		SpellCheck: []model.SpellCheckItem{{OriginalTerm: "Caxa", SuggestedCorrection: "Caixa", Confidence: 0.9}},
	}
	res, err := newEngine().NormalizeDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, doc.SpellCheck, res.SpellCheck)
}

func TestNormalizeAll(t *testing.T) {
	docs := []model.Document{
		{Source: "a.txt", Type: model.DocTrialBalance, Lines: []string{"1.01 | Caixa | 1.000,00"}},
		{Source: "empty.txt", Type: model.DocTrialBalance, Lines: []string{"abc"}},
		{Source: "c.txt", Type: model.DocIncomeStatement, Lines: []string{"Receita de Vendas 500,00"}},
	}
	out, err := newEngine().NormalizeAll(context.Background(), docs, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "a.txt", out[0].Source)
	assert.NoError(t, out[0].Err)
	assert.ErrorIs(t, out[1].Err, ErrNoAccounts)
	assert.Nil(t, out[1].Result)
	require.NoError(t, out[2].Err)
	assert.True(t, d(500).Equal(out[2].Result.Summary.ResultValue))
}

func TestNormalizeAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine().NormalizeAll(ctx, []model.Document{{Lines: []string{"1.01 | Caixa | 1,00"}}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine_CustomClassifierAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cls := classify.New(classify.WithTypeKeywords(model.AccountTypeRevenue, "Honorários"))

	res, err := NewEngine(cls, DefaultOptions(), logger).Normalize(
		[]string{"Honorários Advocatícios 2.000,00"}, model.DocIncomeStatement)
	require.NoError(t, err)
	assert.Equal(t, model.NatureCredit, res.Accounts[0].Nature)
	assert.Contains(t, buf.String(), "normalized document")
}
