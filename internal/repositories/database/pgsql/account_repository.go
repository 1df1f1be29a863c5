package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	"github.com/facturo/ledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		TenantID:    d.TenantID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Category:    d.Category,
		ParentCode:  d.ParentCode,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		TenantID:    m.TenantID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Category:    m.Category,
		ParentCode:  m.ParentCode,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const accountColumns = `tenant_id, code, name, account_type, category, parent_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount scans one account row (parent_code handled as nullable).
func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	var parentCode sql.NullString
	err := row.Scan(
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&parentCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Account{}, err
	}
	if parentCode.Valid {
		m.ParentCode = parentCode.String
	}
	return m, nil
}

// FindAccountByCode retrieves a single account by its code within a tenant.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = $2;
	`
	m, err := scanAccount(r.pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}

	acc := toDomainAccount(m)
	return &acc, nil
}

// FindAccountsByCodes retrieves multiple accounts keyed by code. Codes with no
// matching account are absent from the result map.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = ANY($2);
	`
	rows, err := r.pool.Query(ctx, query, tenantID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by codes: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.Code] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves the full chart for a tenant, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND ($2 OR is_active)
		ORDER BY code ASC;
	`
	rows, err := r.pool.Query(ctx, query, tenantID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// UpsertAccounts inserts or updates accounts keyed on (tenant_id, code).
func (r *PgxAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	if len(accounts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, code) DO UPDATE SET
			name = EXCLUDED.name,
			account_type = EXCLUDED.account_type,
			category = EXCLUDED.category,
			parent_code = EXCLUDED.parent_code,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, account := range accounts {
		m := toModelAccount(account)
		var parentCode sql.NullString
		if m.ParentCode != "" {
			parentCode = sql.NullString{String: m.ParentCode, Valid: true}
		}
		batch.Queue(query,
			m.TenantID,
			m.Code,
			m.Name,
			m.AccountType,
			m.Category,
			parentCode,
			m.IsActive,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to upsert accounts: %w", err)
	}
	return len(accounts), nil
}
