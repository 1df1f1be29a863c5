package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of a tenant's chart of accounts, keyed by (tenant_id, code).
type Account struct {
	TenantID    string      `db:"tenant_id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	AccountType AccountType `db:"account_type"`
	Category    string      `db:"category"`
	ParentCode  string      `db:"parent_code"` // Nullable
	IsActive    bool        `db:"is_active"`
	AuditFields
}
