package domain

// SourceType identifies the kind of business document a mapping applies to.
type SourceType string

const (
	SourceInvoice         SourceType = "INVOICE"
	SourceExpense         SourceType = "EXPENSE"
	SourceSupplierInvoice SourceType = "SUPPLIER_INVOICE"
	SourcePayment         SourceType = "PAYMENT"
	SourceCreditNote      SourceType = "CREDIT_NOTE"
	SourceSupplierPayment SourceType = "SUPPLIER_PAYMENT"
)

// SourceTypes lists every supported source document type.
var SourceTypes = []SourceType{
	SourceInvoice,
	SourceExpense,
	SourceSupplierInvoice,
	SourcePayment,
	SourceCreditNote,
	SourceSupplierPayment,
}

// ValidSourceType reports whether t is a known source document type.
func ValidSourceType(t SourceType) bool {
	for _, st := range SourceTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Mapping translates a (source type, category) pair into the debit/credit
// account pair used to post it. Mappings are unique per
// (TenantID, SourceType, SourceCategory); upserting the same key replaces
// the earlier rule (last-write-wins, no versioning).
type Mapping struct {
	TenantID          string     `json:"tenantID"`
	SourceType        SourceType `json:"sourceType"`
	SourceCategory    string     `json:"sourceCategory"`
	DebitAccountCode  string     `json:"debitAccountCode"`
	CreditAccountCode string     `json:"creditAccountCode"`
	Description       string     `json:"description"`
	AuditFields
}

// UnmappedCategory is a (type, category) pair with no mapping rule.
// Documents in such categories are skipped by the generator, not failed.
type UnmappedCategory struct {
	SourceType SourceType `json:"sourceType"`
	Category   string     `json:"category"`
}
