package services

import (
	"context"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/dto"
)

// InitSvcFacade drives the tenant initialization workflow.
type InitSvcFacade interface {
	// Initialize seeds a tenant from a jurisdiction template: settings first,
	// then accounts, mappings and tax rates, then the initialized flag. On a
	// partial failure the result carries the counts written so far and the
	// tenant stays uninitialized; retrying is safe. Concurrent calls for the
	// same tenant share a single seed run.
	Initialize(ctx context.Context, tenantID string, req dto.InitializeRequest, userID string) (*domain.InitResult, error)

	// GetSettings retrieves the tenant's settings row.
	GetSettings(ctx context.Context, tenantID string) (*domain.TenantSettings, error)

	// UpdateSettings updates the tenant's company profile used in report
	// headers. The jurisdiction and initialized flag are not touched here.
	UpdateSettings(ctx context.Context, tenantID string, req dto.UpdateTenantSettingsRequest, userID string) (*domain.TenantSettings, error)
}
