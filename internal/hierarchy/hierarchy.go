// Package hierarchy orders accounts by code and separates synthetic (parent and
// subtotal) rows from analytical (leaf) rows.
package hierarchy

import (
	"slices"

	"github.com/cleared-dev/ledgernorm/internal/acctcode"
	"github.com/cleared-dev/ledgernorm/internal/model"
)

// AggregateLabeler recognizes total lines by name. *classify.Classifier satisfies it.
type AggregateLabeler interface {
	IsAggregateLabel(name string) bool
}

// Build returns a sorted copy of accounts with Level and IsSynthetic set.
//
// Coded accounts come first in natural code order, then uncoded accounts in input
// order. A coded account is synthetic when the account right after it nests under
// its code; an uncoded one when its name reads as a total.
func Build(accounts []model.ParsedAccount, labels AggregateLabeler) []model.ParsedAccount {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b model.ParsedAccount) int {
		switch {
		case a.HasCode() && b.HasCode():
			return acctcode.Compare(a.Code, b.Code)
		case a.HasCode():
			return -1
		case b.HasCode():
			return 1
		}
		return 0
	})

	for i := range out {
		acc := &out[i]
		if !acc.HasCode() {
			acc.Level = 1
			acc.IsSynthetic = labels != nil && labels.IsAggregateLabel(acc.Name)
			continue
		}
		acc.Level = acctcode.Level(acc.Code)
		acc.IsSynthetic = i+1 < len(out) && acctcode.IsParentOf(acc.Code, out[i+1].Code)
	}
	return out
}

// Counts returns the number of analytical and synthetic accounts.
func Counts(accounts []model.ParsedAccount) (analytical, synthetic int) {
	for _, a := range accounts {
		if a.IsSynthetic {
			synthetic++
		} else {
			analytical++
		}
	}
	return analytical, synthetic
}
