package commands_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/report"
	"github.com/cleared-dev/ledgernorm/internal/runlog"
)

const trialBalance = `BALANCETE DE VERIFICAÇÃO
Código | Conta | Saldo
1 | Ativo | 1.000,00
1.01 | Caixa | 1.000,00
2 | Passivo | 1.000,00
2.01 | Fornecedores | 1.000,00
Página 1 de 1
`

const incomeStatement = `Demonstração do Resultado do Exercício
Receita de Vendas 10.000,00
(-) Despesas Operacionais 4.000,00
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormalize_JSONToStdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "balancete.txt", trialBalance)

	stdout, stderr, err := runSplit(t, dir, "normalize", "balancete.txt")
	require.NoError(t, err, stderr)

	env, err := report.ReadJSON(strings.NewReader(stdout))
	require.NoError(t, err)
	assert.Equal(t, "balancete.txt", env.Source)

	s := env.Result.Summary
	assert.Equal(t, model.DocTrialBalance, s.DocumentType)
	assert.True(t, s.IsBalanced)
	assert.True(t, decimal.NewFromInt(1000).Equal(s.TotalDebits))
	assert.Equal(t, 2, s.SyntheticCount)
	assert.Len(t, env.Result.Accounts, 4)
}

func TestNormalize_TypeFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dre.txt", incomeStatement)

	stdout, stderr, err := runSplit(t, dir, "normalize", "dre.txt", "--type", "DRE")
	require.NoError(t, err, stderr)

	var env report.Envelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &env))
	assert.True(t, decimal.NewFromInt(6000).Equal(env.Result.Summary.ResultValue))
	assert.Equal(t, "Lucro Líquido", env.Result.Summary.ResultLabel)
}

func TestNormalize_CSVToDirWithRunLog(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writeFile(t, in, "balancete.txt", trialBalance)
	writeFile(t, in, "dre.txt", incomeStatement)
	writeFile(t, in, "notes.md", "ignored")

	out, err := runLedgernorm(t, dir, "normalize", "input", "--format", "csv", "--out", "output", "--archive")
	require.NoError(t, err, out)
	assert.Contains(t, out, "balancete.txt -> ")

	f, err := os.Open(filepath.Join(dir, "output", "balancete.txt.csv"))
	require.NoError(t, err)
	defer f.Close()
	accounts, err := report.ReadAccounts(f)
	require.NoError(t, err)
	assert.Len(t, accounts, 4)

	entries, err := runlog.Read(filepath.Join(dir, "output", "runs.csv"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Archived inputs leave the scanned directory.
	_, err = os.Stat(filepath.Join(in, "processed", "dre.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(in, "notes.md"))
	assert.NoError(t, err)
}

func TestNormalize_NoAccounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "Página 1 de 1\nabc\n")

	out, err := runLedgernorm(t, dir, "normalize", "empty.txt")
	require.Error(t, err)
	assert.Contains(t, out, "no accounts identified")
}

func TestNormalize_ConfigLabels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dre.txt", incomeStatement)
	writeFile(t, dir, "custom.yaml", "labels:\n  profit: Net Profit\n  loss: Net Loss\n")

	stdout, stderr, err := runSplit(t, dir, "--config", "custom.yaml", "normalize", "dre.txt")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, `"result_label": "Net Profit"`)
}

func TestNormalize_BadFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "balancete.txt", trialBalance)

	out, err := runLedgernorm(t, dir, "normalize", "balancete.txt", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, out, "unknown output format")
}

func TestNormalize_WarningsOnStderr(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dup.txt", "1.01 | Caixa | 100,00\n1.01 | Caixa | 200,00\n")

	_, stderr, err := runSplit(t, dir, "normalize", "dup.txt", "--type", "balancete")
	require.NoError(t, err)
	assert.Contains(t, stderr, "dup.txt:2: duplicate code 1.01")
}

func TestNormalize_BadLogLevel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "balancete.txt", trialBalance)

	out, err := runLedgernorm(t, dir, "--log-level", "loud", "normalize", "balancete.txt")
	require.Error(t, err)
	assert.Contains(t, out, "invalid log level")
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "balancete.txt", trialBalance)

	stdout, _, err := runSplit(t, dir, "tokenize", "balancete.txt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# balancete.txt (trial_balance)")
	assert.Contains(t, stdout, `delimited    code="1.01" name="Caixa" values=[1000]`)
	assert.Contains(t, stdout, "skip    Página 1 de 1")
}

func TestNormalize_SameNameInTwoDirs(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0o755))
		writeFile(t, filepath.Join(dir, d), "balancete.txt", trialBalance)
	}

	out, err := runLedgernorm(t, dir, "normalize", "a", "b", "--out", "output")
	require.Error(t, err)
	assert.Contains(t, out, "would both write")
}
