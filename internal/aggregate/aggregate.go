// Package aggregate computes document totals, the balance check and the bottom-line
// result from a classified, hierarchy-marked account set.
package aggregate

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/hierarchy"
	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Classifier answers the name/code questions aggregation needs.
// *classify.Classifier satisfies it.
type Classifier interface {
	IsRevenue(name, code string) bool
	IsExpense(name, code string) bool
	IsAggregateLabel(name string) bool
	IsNetResultLabel(name string) bool
}

// Options are the thresholds and labels used by Aggregate.
type Options struct {
	// Tolerance is the largest debit/credit difference still reported as balanced.
	Tolerance decimal.Decimal
	// MinAnalyticalRatio and FallbackMinRows decide when the hierarchy is not
	// trusted: more than FallbackMinRows rows with analytical accounts below the ratio.
	MinAnalyticalRatio float64
	FallbackMinRows    int

	ProfitLabel string
	LossLabel   string
}

// DefaultOptions returns the standard thresholds and Portuguese labels.
func DefaultOptions() Options {
	return Options{
		Tolerance:          decimal.NewFromInt(1),
		MinAnalyticalRatio: 0.10,
		FallbackMinRows:    5,
		ProfitLabel:        "Lucro Líquido",
		LossLabel:          "Prejuízo Líquido",
	}
}

// Engine aggregates account sets. Safe for concurrent use.
type Engine struct {
	cls    Classifier
	opts   Options
	logger *slog.Logger
}

// New creates an Engine. A nil logger discards log output.
func New(cls Classifier, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{cls: cls, opts: opts, logger: logger}
}

// Aggregate builds the summary for accounts of document type dt.
func (e *Engine) Aggregate(accounts []model.ParsedAccount, dt model.DocumentType) model.AnalysisSummary {
	analyticalCount, syntheticCount := hierarchy.Counts(accounts)
	summary := model.AnalysisSummary{
		DocumentType:    dt,
		AnalyticalCount: analyticalCount,
		SyntheticCount:  syntheticCount,
	}

	summary.LowConfidence = e.degraded(len(accounts), analyticalCount)
	basis := e.basis(accounts, summary.LowConfidence)
	if summary.LowConfidence {
		e.logger.Warn("hierarchy unreliable, summing all non-total rows",
			"accounts", len(accounts),
			"analytical", analyticalCount,
			"rows_used", len(basis),
		)
	}

	for _, a := range basis {
		summary.TotalDebits = summary.TotalDebits.Add(a.Debit.Abs())
		summary.TotalCredits = summary.TotalCredits.Add(a.Credit.Abs())
	}
	summary.DiscrepancyAmount = summary.TotalDebits.Sub(summary.TotalCredits).Abs()
	summary.IsBalanced = dt.IsIncomeStatement() || summary.DiscrepancyAmount.LessThan(e.opts.Tolerance)

	summary.ResultValue, summary.ResultLabel = e.result(accounts, basis, dt)
	return summary
}

func (e *Engine) degraded(total, analytical int) bool {
	return total > e.opts.FallbackMinRows &&
		float64(analytical) < e.opts.MinAnalyticalRatio*float64(total)
}

// basis selects the accounts that feed the totals: analytical accounts, or every
// row not labeled as a total when the hierarchy looks unreliable.
func (e *Engine) basis(accounts []model.ParsedAccount, degraded bool) []model.ParsedAccount {
	var out []model.ParsedAccount
	if degraded {
		for _, a := range accounts {
			if !e.cls.IsAggregateLabel(a.Name) {
				out = append(out, a)
			}
		}
		return out
	}
	for _, a := range accounts {
		if !a.IsSynthetic {
			out = append(out, a)
		}
	}
	return out
}

func (e *Engine) result(all, basis []model.ParsedAccount, dt model.DocumentType) (decimal.Decimal, string) {
	var value decimal.Decimal
	if dt.IsIncomeStatement() {
		for _, a := range basis {
			switch a.Nature {
			case model.NatureCredit:
				value = value.Add(a.FinalBalance.Abs())
			case model.NatureDebit:
				value = value.Sub(a.FinalBalance.Abs())
			}
		}
		return value, e.label(value)
	}

	for _, a := range basis {
		switch {
		case e.cls.IsRevenue(a.Name, a.Code):
			value = value.Add(a.Credit.Abs())
		case e.cls.IsExpense(a.Name, a.Code):
			value = value.Sub(a.Debit.Abs())
		}
	}
	if value.Round(2).IsZero() {
		// An explicit net result line beats a computed zero. Such lines usually read
		// as totals, so fall back to the full set when no analytical row has one.
		if a, ok := e.findNetResult(basis); ok {
			return a.FinalBalance, a.Name
		}
		if a, ok := e.findNetResult(all); ok {
			return a.FinalBalance, a.Name
		}
	}
	return value, e.label(value)
}

func (e *Engine) findNetResult(accounts []model.ParsedAccount) (model.ParsedAccount, bool) {
	for _, a := range accounts {
		if e.cls.IsNetResultLabel(a.Name) {
			return a, true
		}
	}
	return model.ParsedAccount{}, false
}

func (e *Engine) label(v decimal.Decimal) string {
	if v.IsNegative() {
		return e.opts.LossLabel
	}
	return e.opts.ProfitLabel
}
