package repositories

import (
	"context"
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// TenantReader defines read operations for tenant settings
type TenantReader interface {
	// FindSettings retrieves the settings row for a tenant.
	FindSettings(ctx context.Context, tenantID string) (*domain.TenantSettings, error)
}

// TenantWriter defines write operations for tenant settings
type TenantWriter interface {
	// SaveSettings inserts or updates the settings row for a tenant.
	SaveSettings(ctx context.Context, settings domain.TenantSettings) error

	// MarkInitialized flips is_initialized for a tenant. Called last in the
	// initialization workflow so a partial seed leaves the flag untouched.
	MarkInitialized(ctx context.Context, tenantID string, updatedBy string, updatedAt time.Time) error
}

// TenantRepositoryFacade combines all tenant-settings repository interfaces
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
}
