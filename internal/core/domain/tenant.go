package domain

// TenantSettings is the per-tenant accounting configuration row. The
// IsInitialized flag is written last during the initialization workflow so
// a crash mid-seed leaves the tenant visibly unfinished.
type TenantSettings struct {
	TenantID      string `json:"tenantID"`
	CompanyName   string `json:"companyName"`
	Address       string `json:"address"`
	TaxID         string `json:"taxID"`
	CurrencyCode  string `json:"currencyCode"`
	Jurisdiction  string `json:"jurisdiction"`
	IsInitialized bool   `json:"isInitialized"`
	AuditFields
}

// InitResult reports what the initialization workflow accomplished. On
// partial failure the counts reflect what was seeded before the failing
// step; the tenant stays uninitialized and a retry re-runs every step.
type InitResult struct {
	AccountsCount int    `json:"accountsCount"`
	MappingsCount int    `json:"mappingsCount"`
	TaxRatesCount int    `json:"taxRatesCount"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// PostingResult accumulates the outcome of a journal generation run.
// Unmapped and Skipped are soft outcomes: the documents listed there
// contributed nothing to the ledger but did not abort the batch.
type PostingResult struct {
	Entries  []JournalEntry     `json:"entries"`
	Unmapped []UnmappedDocument `json:"unmapped"`
	Skipped  []SkippedDocument  `json:"skipped"`
}

// UnmappedDocument records a document skipped for lack of a mapping rule.
type UnmappedDocument struct {
	DocumentID string     `json:"documentID"`
	SourceType SourceType `json:"sourceType"`
	Category   string     `json:"category"`
}

// SkippedDocument records a document skipped as malformed.
type SkippedDocument struct {
	DocumentID string `json:"documentID"`
	Reason     string `json:"reason"`
}
