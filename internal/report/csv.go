package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

const (
	numFields    = 13
	colCode      = 0
	colName      = 1
	colLevel     = 2
	colSynthetic = 3
	colNature    = 4
	colCategory  = 5
	colInitial   = 6
	colDebit     = 7
	colCredit    = 8
	colFinal     = 9
	colTotal     = 10
	colInversion = 11
	colLine      = 12
)

// AccountsHeader is the header row of the accounts CSV.
var AccountsHeader = []string{
	"code", "name", "level", "is_synthetic", "nature", "category",
	"initial_balance", "debit", "credit", "final_balance", "total_value",
	"possible_inversion", "line",
}

// WriteAccounts writes accounts as CSV with a header row.
func WriteAccounts(w io.Writer, accounts []model.ParsedAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(AccountsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acc := range accounts {
		if err := cw.Write(MarshalAccount(acc)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadAccounts reads a CSV written by WriteAccounts.
func ReadAccounts(r io.Reader) ([]model.ParsedAccount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var accounts []model.ParsedAccount
	for i, rec := range records[1:] {
		acc, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MarshalAccount converts a ParsedAccount to a CSV row.
func MarshalAccount(acc model.ParsedAccount) []string {
	row := make([]string, numFields)
	row[colCode] = acc.Code
	row[colName] = acc.Name
	row[colLevel] = strconv.Itoa(acc.Level)
	row[colSynthetic] = strconv.FormatBool(acc.IsSynthetic)
	row[colNature] = string(acc.Nature)
	row[colCategory] = string(acc.Category)
	row[colInitial] = acc.InitialBalance.String()
	row[colDebit] = acc.Debit.String()
	row[colCredit] = acc.Credit.String()
	row[colFinal] = acc.FinalBalance.String()
	row[colTotal] = acc.TotalValue.String()
	row[colInversion] = strconv.FormatBool(acc.PossibleInversion)
	if acc.Line > 0 {
		row[colLine] = strconv.Itoa(acc.Line)
	}
	return row
}

// UnmarshalAccount converts a CSV row to a ParsedAccount.
func UnmarshalAccount(record []string) (model.ParsedAccount, error) {
	if len(record) != numFields {
		return model.ParsedAccount{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.ParsedAccount{}, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
	}
	synthetic, err := strconv.ParseBool(record[colSynthetic])
	if err != nil {
		return model.ParsedAccount{}, fmt.Errorf("parsing is_synthetic %q: %w", record[colSynthetic], err)
	}
	inversion, err := strconv.ParseBool(record[colInversion])
	if err != nil {
		return model.ParsedAccount{}, fmt.Errorf("parsing possible_inversion %q: %w", record[colInversion], err)
	}
	var line int
	if record[colLine] != "" {
		line, err = strconv.Atoi(record[colLine])
		if err != nil {
			return model.ParsedAccount{}, fmt.Errorf("parsing line %q: %w", record[colLine], err)
		}
	}

	amounts := make([]decimal.Decimal, 0, 5)
	for _, col := range []int{colInitial, colDebit, colCredit, colFinal, colTotal} {
		d, err := decimal.NewFromString(record[col])
		if err != nil {
			return model.ParsedAccount{}, fmt.Errorf("parsing %s %q: %w", AccountsHeader[col], record[col], err)
		}
		amounts = append(amounts, d)
	}

	return model.ParsedAccount{
		Code:              record[colCode],
		Name:              record[colName],
		Level:             level,
		IsSynthetic:       synthetic,
		Nature:            model.Nature(record[colNature]),
		Category:          model.Category(record[colCategory]),
		InitialBalance:    amounts[0],
		Debit:             amounts[1],
		Credit:            amounts[2],
		FinalBalance:      amounts[3],
		TotalValue:        amounts[4],
		PossibleInversion: inversion,
		Line:              line,
	}, nil
}
