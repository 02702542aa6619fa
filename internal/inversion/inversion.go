// Package inversion flags accounts whose balance sits on the side opposite their
// expected nature.
package inversion

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// DefaultTolerance absorbs rounding noise around zero.
var DefaultTolerance = decimal.RequireFromString("0.01")

// NatureOracle derives the expected nature of an account from code and name only.
// *classify.Classifier satisfies it.
type NatureOracle interface {
	ExpectedNature(name, code string, dt model.DocumentType) model.Nature
}

// Detector compares actual against expected balance sides.
type Detector struct {
	oracle    NatureOracle
	tolerance decimal.Decimal
}

// NewDetector creates a Detector. A non-positive tolerance uses DefaultTolerance.
func NewDetector(oracle NatureOracle, tolerance decimal.Decimal) *Detector {
	if !tolerance.IsPositive() {
		tolerance = DefaultTolerance
	}
	return &Detector{oracle: oracle, tolerance: tolerance}
}

// Detect reports whether acc looks inverted. Synthetic accounts and accounts with
// no expected nature are never flagged. A printed D/C marker is the actual side
// when present; otherwise the sign of the final balance decides.
func (d *Detector) Detect(acc model.ParsedAccount, dt model.DocumentType) bool {
	if acc.IsSynthetic {
		return false
	}
	expected := d.oracle.ExpectedNature(acc.Name, acc.Code, dt)
	if expected == model.NatureUnknown {
		return false
	}
	if actual := acc.Indicator.Nature(); actual != model.NatureUnknown {
		return actual != expected
	}

	negTol := d.tolerance.Neg()
	if dt.IsIncomeStatement() {
		// Income statements sign lines: credits positive, debits negative.
		if expected == model.NatureCredit {
			return acc.FinalBalance.LessThan(negTol)
		}
		return acc.FinalBalance.GreaterThan(d.tolerance)
	}
	// Balance reports print each balance on its natural side as a positive amount.
	return acc.FinalBalance.LessThan(negTol)
}
