package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	"github.com/facturo/ledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTaxRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxTaxRateRepository creates a new repository for tax rate data.
func newPgxTaxRateRepository(pool *pgxpool.Pool) portsrepo.TaxRateRepositoryFacade {
	return &PgxTaxRateRepository{pool: pool}
}

var _ portsrepo.TaxRateRepositoryFacade = (*PgxTaxRateRepository)(nil)

func toModelTaxRate(d domain.TaxRate) models.TaxRate {
	return models.TaxRate{
		TaxRateID:   d.TaxRateID,
		TenantID:    d.TenantID,
		Name:        d.Name,
		Rate:        d.Rate,
		TaxType:     models.TaxType(d.TaxType),
		AccountCode: d.AccountCode,
		IsDefault:   d.IsDefault,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		TaxRateID:   m.TaxRateID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Rate:        m.Rate,
		TaxType:     domain.TaxType(m.TaxType),
		AccountCode: m.AccountCode,
		IsDefault:   m.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const taxRateColumns = `tax_rate_id, tenant_id, name, rate, tax_type, account_code, is_default, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxRate(row pgx.Row) (models.TaxRate, error) {
	var m models.TaxRate
	err := row.Scan(
		&m.TaxRateID,
		&m.TenantID,
		&m.Name,
		&m.Rate,
		&m.TaxType,
		&m.AccountCode,
		&m.IsDefault,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTaxRateByID retrieves a tax rate by its identifier within a tenant.
func (r *PgxTaxRateRepository) FindTaxRateByID(ctx context.Context, tenantID string, taxRateID string) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND tax_rate_id = $2;
	`
	m, err := scanTaxRate(r.pool.QueryRow(ctx, query, tenantID, taxRateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax rate %s: %w", taxRateID, err)
	}

	rate := toDomainTaxRate(m)
	return &rate, nil
}

// FindTaxRateByName retrieves a tax rate by its natural key
// (tenant_id, name, tax_type).
func (r *PgxTaxRateRepository) FindTaxRateByName(ctx context.Context, tenantID string, name string, taxType domain.TaxType) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND name = $2 AND tax_type = $3;
	`
	m, err := scanTaxRate(r.pool.QueryRow(ctx, query, tenantID, name, taxType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s tax rate %q: %w", taxType, name, err)
	}

	rate := toDomainTaxRate(m)
	return &rate, nil
}

// FindDefaultTaxRate retrieves the default rate for a tax type, if any.
func (r *PgxTaxRateRepository) FindDefaultTaxRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND tax_type = $2 AND is_default;
	`
	m, err := scanTaxRate(r.pool.QueryRow(ctx, query, tenantID, taxType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default %s tax rate: %w", taxType, err)
	}

	rate := toDomainTaxRate(m)
	return &rate, nil
}

// FindTaxRateByValue retrieves the rate matching an exact decimal value for a
// tax type. When several rates share the value the default wins, then the
// oldest.
func (r *PgxTaxRateRepository) FindTaxRateByValue(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND tax_type = $2 AND rate = $3
		ORDER BY is_default DESC, created_at ASC
		LIMIT 1;
	`
	m, err := scanTaxRate(r.pool.QueryRow(ctx, query, tenantID, taxType, rate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s tax rate for value %s: %w", taxType, rate.String(), err)
	}

	found := toDomainTaxRate(m)
	return &found, nil
}

// ListTaxRates retrieves all tax rates for a tenant.
func (r *PgxTaxRateRepository) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1
		ORDER BY tax_type ASC, rate ASC;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.TaxRate
	for rows.Next() {
		m, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate row: %w", err)
		}
		rates = append(rates, toDomainTaxRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax rate rows: %w", err)
	}
	return rates, nil
}

// UpsertTaxRates inserts or updates tax rates keyed on (tenant_id, name, tax_type).
func (r *PgxTaxRateRepository) UpsertTaxRates(ctx context.Context, rates []domain.TaxRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO tax_rates (` + taxRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, name, tax_type) DO UPDATE SET
			rate = EXCLUDED.rate,
			account_code = EXCLUDED.account_code,
			is_default = EXCLUDED.is_default,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := toModelTaxRate(rate)
		batch.Queue(query,
			m.TaxRateID,
			m.TenantID,
			m.Name,
			m.Rate,
			m.TaxType,
			m.AccountCode,
			m.IsDefault,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to upsert tax rates: %w", err)
	}
	return len(rates), nil
}

// ClearDefault unsets is_default on every rate of the given tax type except
// the one identified by keepID.
func (r *PgxTaxRateRepository) ClearDefault(ctx context.Context, tenantID string, taxType domain.TaxType, keepID string) error {
	query := `
		UPDATE tax_rates
		SET is_default = FALSE
		WHERE tenant_id = $1 AND tax_type = $2 AND is_default AND tax_rate_id <> $3;
	`
	if _, err := r.pool.Exec(ctx, query, tenantID, taxType, keepID); err != nil {
		return fmt.Errorf("failed to clear default %s tax rate: %w", taxType, err)
	}
	return nil
}
