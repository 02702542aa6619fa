// Package columns assigns a row's printed amounts to balance slots.
package columns

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// Columns are the semantic slots of one row. Debit and Credit hold what was printed;
// derived values are filled in later from the account's nature.
type Columns struct {
	Initial decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Final   decimal.Decimal

	// Movement is true when the row printed its own debit and credit columns.
	Movement bool
}

// Map assigns values by count. Income statements keep only the right-most value as
// the period amount. Other documents map 1 -> final, 2 -> initial and final,
// 3 -> debit, credit and final, and 4 or more -> the last four as initial, debit,
// credit and final.
func Map(values []decimal.Decimal, dt model.DocumentType) Columns {
	n := len(values)
	if n == 0 {
		return Columns{}
	}
	if dt.IsIncomeStatement() {
		return Columns{Final: values[n-1]}
	}

	switch n {
	case 1:
		return Columns{Final: values[0]}
	case 2:
		return Columns{Initial: values[0], Final: values[1]}
	case 3:
		return Columns{Debit: values[0], Credit: values[1], Final: values[2], Movement: true}
	}
	last := values[n-4:]
	return Columns{
		Initial:  last[0],
		Debit:    last[1],
		Credit:   last[2],
		Final:    last[3],
		Movement: true,
	}
}
