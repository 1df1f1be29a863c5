package pgsql

import (
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	mappingRepo := newPgxMappingRepository(dbPool)
	taxRateRepo := newPgxTaxRateRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	tenantRepo := newPgxTenantRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		MappingRepo: mappingRepo,
		TaxRateRepo: taxRateRepo,
		JournalRepo: journalRepo,
		TenantRepo:  tenantRepo,
	}
}
