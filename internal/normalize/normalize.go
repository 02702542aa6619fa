// Package normalize turns the raw lines of one financial document into a
// normalized Result: tokenize, map columns, classify, build the hierarchy, then
// aggregate and flag inversions.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgernorm/internal/aggregate"
	"github.com/cleared-dev/ledgernorm/internal/classify"
	"github.com/cleared-dev/ledgernorm/internal/columns"
	"github.com/cleared-dev/ledgernorm/internal/hierarchy"
	"github.com/cleared-dev/ledgernorm/internal/inversion"
	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/tokenize"
)

// ErrNoAccounts is returned when no line of a document yields an account.
var ErrNoAccounts = errors.New("no accounts identified")

// Options bundle the tunables of every stage.
type Options struct {
	Tokenizer          tokenize.Options
	Aggregate          aggregate.Options
	InversionTolerance decimal.Decimal
}

// DefaultOptions returns the built-in defaults of every stage.
func DefaultOptions() Options {
	return Options{
		Tokenizer:          tokenize.DefaultOptions(),
		Aggregate:          aggregate.DefaultOptions(),
		InversionTolerance: inversion.DefaultTolerance,
	}
}

// Engine runs the pipeline. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	tok    *tokenize.Tokenizer
	cls    *classify.Classifier
	agg    *aggregate.Engine
	inv    *inversion.Detector
	logger *slog.Logger
}

// NewEngine wires the stages. A nil classifier uses classify.Default; a nil logger
// discards output.
func NewEngine(cls *classify.Classifier, opts Options, logger *slog.Logger) *Engine {
	if cls == nil {
		cls = classify.Default
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		tok:    tokenize.New(opts.Tokenizer),
		cls:    cls,
		agg:    aggregate.New(cls, opts.Aggregate, logger),
		inv:    inversion.NewDetector(cls, opts.InversionTolerance),
		logger: logger,
	}
}

// Normalize processes lines as a document of type dt.
func (e *Engine) Normalize(lines []string, dt model.DocumentType) (*model.Result, error) {
	var (
		accounts []model.ParsedAccount
		warnings []model.LineWarning
		seen     = make(map[string]int) // code -> line
	)

	for i, line := range lines {
		lineNo := i + 1
		row, ok := e.tok.Tokenize(line)
		if !ok {
			continue
		}
		for _, tok := range row.Unparsed {
			warnings = append(warnings, model.LineWarning{
				Line:    lineNo,
				Text:    line,
				Message: fmt.Sprintf("unreadable amount %q counted as zero", tok),
			})
		}
		if row.Code != "" {
			if first, dup := seen[row.Code]; dup {
				warnings = append(warnings, model.LineWarning{
					Line:    lineNo,
					Text:    line,
					Message: fmt.Sprintf("duplicate code %s, keeping line %d", row.Code, first),
				})
				continue
			}
			seen[row.Code] = lineNo
		}
		accounts = append(accounts, e.account(row, dt, lineNo))
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	accounts = hierarchy.Build(accounts, e.cls)
	for i := range accounts {
		accounts[i].PossibleInversion = e.inv.Detect(accounts[i], dt)
	}

	result := &model.Result{
		Summary:  e.agg.Aggregate(accounts, dt),
		Accounts: accounts,
		Warnings: warnings,
	}
	e.logger.Debug("normalized document",
		"document_type", dt,
		"lines", len(lines),
		"accounts", len(accounts),
		"warnings", len(warnings),
	)
	return result, nil
}

// NormalizeDocument normalizes doc and carries its spell-check items through.
func (e *Engine) NormalizeDocument(doc model.Document) (*model.Result, error) {
	res, err := e.Normalize(doc.Lines, doc.Type)
	if err != nil {
		return nil, err
	}
	res.SpellCheck = doc.SpellCheck
	return res, nil
}

// Outcome is the result of one document in a batch.
type Outcome struct {
	Source string
	Result *model.Result
	Err    error
}

// NormalizeAll normalizes docs concurrently, at most jobs at a time (unlimited when
// jobs <= 0). Per-document failures are reported in the Outcome; the returned
// error is only set when ctx is done first.
func (e *Engine) NormalizeAll(ctx context.Context, docs []model.Document, jobs int) ([]Outcome, error) {
	out := make([]Outcome, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.NormalizeDocument(doc)
			out[i] = Outcome{Source: doc.Source, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("normalizing documents: %w", err)
	}
	return out, nil
}

// account builds the ParsedAccount for one tokenized row.
func (e *Engine) account(row tokenize.Row, dt model.DocumentType, lineNo int) model.ParsedAccount {
	cols := columns.Map(row.Values, dt)
	c := e.cls.Classify(row.Name, row.Code, row.Indicator, dt)

	acc := model.ParsedAccount{
		Code:           row.Code,
		Name:           row.Name,
		InitialBalance: cols.Initial,
		FinalBalance:   cols.Final,
		Nature:         c.Nature,
		Category:       c.Category,
		Line:           lineNo,
		Indicator:      row.Indicator,
	}

	switch {
	case dt.IsIncomeStatement():
		// Debit lines are negative by convention; credit lines keep their printed sign.
		if c.Nature == model.NatureDebit {
			acc.FinalBalance = cols.Final.Abs().Neg()
		}
		setSide(&acc, c.Nature, cols.Final.Abs())
	case cols.Movement:
		acc.Debit = cols.Debit.Abs()
		acc.Credit = cols.Credit.Abs()
	default:
		side := c.Nature
		if cols.Final.IsNegative() {
			side = side.Opposite()
		}
		setSide(&acc, side, cols.Final.Abs())
	}

	acc.TotalValue = acc.FinalBalance.Abs()
	return acc
}

func setSide(acc *model.ParsedAccount, side model.Nature, amount decimal.Decimal) {
	switch side {
	case model.NatureCredit:
		acc.Credit = amount
	default:
		acc.Debit = amount
	}
}
