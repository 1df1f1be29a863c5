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
)

type PgxMappingRepository struct {
	pool *pgxpool.Pool
}

// newPgxMappingRepository creates a new repository for posting mapping rules.
func newPgxMappingRepository(pool *pgxpool.Pool) portsrepo.MappingRepositoryFacade {
	return &PgxMappingRepository{pool: pool}
}

var _ portsrepo.MappingRepositoryFacade = (*PgxMappingRepository)(nil)

func toModelMapping(d domain.Mapping) models.Mapping {
	return models.Mapping{
		TenantID:          d.TenantID,
		SourceType:        models.SourceType(d.SourceType),
		SourceCategory:    d.SourceCategory,
		DebitAccountCode:  d.DebitAccountCode,
		CreditAccountCode: d.CreditAccountCode,
		Description:       d.Description,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainMapping(m models.Mapping) domain.Mapping {
	return domain.Mapping{
		TenantID:          m.TenantID,
		SourceType:        domain.SourceType(m.SourceType),
		SourceCategory:    m.SourceCategory,
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Description:       m.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const mappingColumns = `tenant_id, source_type, source_category, debit_account_code, credit_account_code, description, created_at, created_by, last_updated_at, last_updated_by`

func scanMapping(row pgx.Row) (models.Mapping, error) {
	var m models.Mapping
	err := row.Scan(
		&m.TenantID,
		&m.SourceType,
		&m.SourceCategory,
		&m.DebitAccountCode,
		&m.CreditAccountCode,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindMapping retrieves the mapping for a (source type, category) pair.
func (r *PgxMappingRepository) FindMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM mappings
		WHERE tenant_id = $1 AND source_type = $2 AND source_category = $3;
	`
	m, err := scanMapping(r.pool.QueryRow(ctx, query, tenantID, sourceType, sourceCategory))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mapping %s/%s: %w", sourceType, sourceCategory, err)
	}

	mapping := toDomainMapping(m)
	return &mapping, nil
}

// ListMappings retrieves all mappings for a tenant, optionally filtered by
// source type, ordered by (source_type, source_category).
func (r *PgxMappingRepository) ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM mappings
		WHERE tenant_id = $1 AND ($2::text IS NULL OR source_type = $2)
		ORDER BY source_type ASC, source_category ASC;
	`
	rows, err := r.pool.Query(ctx, query, tenantID, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.Mapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, toDomainMapping(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapping rows: %w", err)
	}
	return mappings, nil
}

// UpsertMappings inserts or updates mappings keyed on
// (tenant_id, source_type, source_category), last write wins.
func (r *PgxMappingRepository) UpsertMappings(ctx context.Context, mappings []domain.Mapping) (int, error) {
	if len(mappings) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO mappings (` + mappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, source_type, source_category) DO UPDATE SET
			debit_account_code = EXCLUDED.debit_account_code,
			credit_account_code = EXCLUDED.credit_account_code,
			description = EXCLUDED.description,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, mapping := range mappings {
		m := toModelMapping(mapping)
		batch.Queue(query,
			m.TenantID,
			m.SourceType,
			m.SourceCategory,
			m.DebitAccountCode,
			m.CreditAccountCode,
			m.Description,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to upsert mappings: %w", err)
	}
	return len(mappings), nil
}

// DeleteMapping removes a single mapping row.
func (r *PgxMappingRepository) DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error {
	query := `
		DELETE FROM mappings
		WHERE tenant_id = $1 AND source_type = $2 AND source_category = $3;
	`
	tag, err := r.pool.Exec(ctx, query, tenantID, sourceType, sourceCategory)
	if err != nil {
		return fmt.Errorf("failed to delete mapping %s/%s: %w", sourceType, sourceCategory, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
