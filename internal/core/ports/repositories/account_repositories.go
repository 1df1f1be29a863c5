package repositories

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations over a tenant's chart of accounts
type AccountReader interface {
	// FindAccountByCode retrieves a single account by its code within a tenant.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code. Codes with
	// no matching account are simply absent from the result map.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the full chart for a tenant, ordered by code.
	ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations over a tenant's chart of accounts
type AccountWriter interface {
	// UpsertAccounts inserts or updates accounts keyed on (tenant, code) and
	// returns the number of rows written.
	UpsertAccounts(ctx context.Context, accounts []domain.Account) (int, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
