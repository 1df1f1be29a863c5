package models

import "github.com/shopspring/decimal"

// TaxType distinguishes output (sales) tax from input (purchase) tax.
type TaxType string

// TaxRate is a tenant tax rate row bound to a control account.
type TaxRate struct {
	TaxRateID   string          `db:"tax_rate_id"`
	TenantID    string          `db:"tenant_id"`
	Name        string          `db:"name"`
	Rate        decimal.Decimal `db:"rate"`
	TaxType     TaxType         `db:"tax_type"`
	AccountCode string          `db:"account_code"`
	IsDefault   bool            `db:"is_default"`
	AuditFields
}
