package services

import (
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Chart, mapping and tax rate services come first since the posting and
	// initialization services are built on top of them.
	container.Chart = NewChartService(repos.AccountRepo)
	container.Mapping = NewMappingService(repos.MappingRepo, repos.AccountRepo)
	container.TaxRate = NewTaxRateService(repos.TaxRateRepo, repos.AccountRepo)

	container.Posting = NewPostingService(repos.JournalRepo, repos.TenantRepo, container.Mapping, container.TaxRate)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.JournalRepo, repos.AccountRepo, repos.TaxRateRepo, repos.TenantRepo)
	container.Init = NewInitService(repos.TenantRepo, container.Chart, container.Mapping, container.TaxRate)

	return container
}
