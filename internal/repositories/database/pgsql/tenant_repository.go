package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	"github.com/facturo/ledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTenantRepository struct {
	pool *pgxpool.Pool
}

// newPgxTenantRepository creates a new repository for tenant settings.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{pool: pool}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

func toDomainTenantSettings(m models.TenantSettings) domain.TenantSettings {
	return domain.TenantSettings{
		TenantID:      m.TenantID,
		CompanyName:   m.CompanyName,
		Address:       m.Address,
		TaxID:         m.TaxID,
		CurrencyCode:  m.CurrencyCode,
		Jurisdiction:  m.Jurisdiction,
		IsInitialized: m.IsInitialized,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const tenantColumns = `tenant_id, company_name, address, tax_id, currency_code, jurisdiction, is_initialized, created_at, created_by, last_updated_at, last_updated_by`

// FindSettings retrieves the settings row for a tenant.
func (r *PgxTenantRepository) FindSettings(ctx context.Context, tenantID string) (*domain.TenantSettings, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenant_settings
		WHERE tenant_id = $1;
	`
	var m models.TenantSettings
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID,
		&m.CompanyName,
		&m.Address,
		&m.TaxID,
		&m.CurrencyCode,
		&m.Jurisdiction,
		&m.IsInitialized,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings for tenant %s: %w", tenantID, err)
	}

	settings := toDomainTenantSettings(m)
	return &settings, nil
}

// SaveSettings inserts or updates the settings row for a tenant.
func (r *PgxTenantRepository) SaveSettings(ctx context.Context, settings domain.TenantSettings) error {
	query := `
		INSERT INTO tenant_settings (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			tax_id = EXCLUDED.tax_id,
			currency_code = EXCLUDED.currency_code,
			jurisdiction = EXCLUDED.jurisdiction,
			is_initialized = EXCLUDED.is_initialized,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		settings.TenantID,
		settings.CompanyName,
		settings.Address,
		settings.TaxID,
		settings.CurrencyCode,
		settings.Jurisdiction,
		settings.IsInitialized,
		settings.CreatedAt,
		settings.CreatedBy,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings for tenant %s: %w", settings.TenantID, err)
	}
	return nil
}

// MarkInitialized flips is_initialized for a tenant. Called last in the
// initialization workflow so a partial seed leaves the flag untouched.
func (r *PgxTenantRepository) MarkInitialized(ctx context.Context, tenantID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE tenant_settings
		SET is_initialized = TRUE, last_updated_by = $2, last_updated_at = $3
		WHERE tenant_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, tenantID, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to mark tenant %s initialized: %w", tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
