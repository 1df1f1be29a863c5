package services

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
)

// ChartReaderSvc defines read operations over a tenant's chart of accounts
type ChartReaderSvc interface {
	// GetAccountByCode retrieves a single account by its code.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts, ordered by code.
	ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error)
}

// ChartWriterSvc defines write operations over a tenant's chart of accounts
type ChartWriterSvc interface {
	// UpsertAccount creates or updates a user-defined account. The parent
	// chain is validated acyclic before the write.
	UpsertAccount(ctx context.Context, tenantID string, req dto.UpsertAccountRequest, userID string) (*domain.Account, error)

	// SeedFromTemplate loads the jurisdiction's default chart into the tenant
	// in bounded batches and returns the number of accounts written.
	SeedFromTemplate(ctx context.Context, tenantID string, jurisdiction string, userID string) (int, error)
}

// ChartSvcFacade combines all chart-of-accounts service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}
