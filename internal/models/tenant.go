package models

// TenantSettings is the per-tenant accounting configuration row.
type TenantSettings struct {
	TenantID      string `db:"tenant_id"`
	CompanyName   string `db:"company_name"`
	Address       string `db:"address"`
	TaxID         string `db:"tax_id"`
	CurrencyCode  string `db:"currency_code"`
	Jurisdiction  string `db:"jurisdiction"`
	IsInitialized bool   `db:"is_initialized"`
	AuditFields
}
