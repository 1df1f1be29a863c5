package models

// SourceType identifies the kind of business document a mapping applies to.
type SourceType string

// Mapping is a posting rule row, keyed by (tenant_id, source_type, source_category).
type Mapping struct {
	TenantID          string     `db:"tenant_id"`
	SourceType        SourceType `db:"source_type"`
	SourceCategory    string     `db:"source_category"`
	DebitAccountCode  string     `db:"debit_account_code"`
	CreditAccountCode string     `db:"credit_account_code"`
	Description       string     `db:"description"`
	AuditFields
}
