package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five accounting types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents one account of a tenant's chart of accounts.
// Accounts are keyed by (TenantID, Code); Code is the statutory account
// number (e.g. "7061" in the Belgian PCMN). ParentCode forms an optional
// tree and must stay acyclic, which is validated on upsert rather than
// enforced structurally.
type Account struct {
	TenantID    string      `json:"tenantID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Category    string      `json:"category"`   // optional grouping label
	ParentCode  string      `json:"parentCode"` // empty for root accounts
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// IsDebitNormal reports whether the account's balance grows on the debit side.
func (a Account) IsDebitNormal() bool {
	return a.AccountType == Asset || a.AccountType == Expense
}
