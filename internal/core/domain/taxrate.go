package domain

import "github.com/shopspring/decimal"

// TaxType distinguishes VAT collected on sales from VAT deductible on purchases.
type TaxType string

const (
	// TaxOutput is tax collected from customers on sales.
	TaxOutput TaxType = "OUTPUT"
	// TaxInput is tax paid to suppliers, deductible against output tax.
	TaxInput TaxType = "INPUT"
)

// TaxRate is a tenant VAT/sales-tax rate bound to a control account.
// Rate is a fraction in [0,1] (0.21 for 21%). At most one rate per
// (tenant, tax type) may be the default; this is validated at write time.
type TaxRate struct {
	TaxRateID   string          `json:"taxRateID"`
	TenantID    string          `json:"tenantID"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	TaxType     TaxType         `json:"taxType"`
	AccountCode string          `json:"accountCode"` // control account
	IsDefault   bool            `json:"isDefault"`
	AuditFields
}
