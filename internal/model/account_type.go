package model

// AccountType is the chart-of-accounts group a keyword or code points to.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Nature returns the side an account of this type normally carries its balance on.
func (t AccountType) Nature() Nature {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NatureDebit
	case AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue:
		return NatureCredit
	default:
		return NatureUnknown
	}
}
