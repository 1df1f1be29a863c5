package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
)

// seedBatchSize bounds chart seeding writes so a template of any size goes
// to the database in manageable chunks.
const seedBatchSize = 200

// chartService manages a tenant's chart of accounts.
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewChartService creates a new chart-of-accounts service.
func NewChartService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.ChartSvcFacade {
	return &chartService{
		accountRepo: accountRepo,
	}
}

// Ensure chartService implements the portssvc.ChartSvcFacade interface
var _ portssvc.ChartSvcFacade = (*chartService)(nil)

// GetAccountByCode retrieves a single account by its code.
func (s *chartService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("tenant_id", tenantID), slog.String("code", code))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves the chart of accounts, ordered by code.
func (s *chartService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpsertAccount creates or updates a user-defined account after validating
// its type and that the parent chain stays acyclic.
func (s *chartService) UpsertAccount(ctx context.Context, tenantID string, req dto.UpsertAccountRequest, userID string) (*domain.Account, error) {
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.ParentCode == req.Code && req.ParentCode != "" {
		return nil, fmt.Errorf("%w: account %s cannot be its own parent", apperrors.ErrParentCycle, req.Code)
	}

	if req.ParentCode != "" {
		if err := s.validateParentChain(ctx, tenantID, req.Code, req.ParentCode); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account := domain.Account{
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Category:    req.Category,
		ParentCode:  req.ParentCode,
		IsActive:    isActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if _, err := s.accountRepo.UpsertAccounts(ctx, []domain.Account{account}); err != nil {
		s.LogError(ctx, err, "Failed to upsert account", slog.String("tenant_id", tenantID), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to upsert account %s: %w", req.Code, err)
	}

	s.LogInfo(ctx, "Account upserted", slog.String("tenant_id", tenantID), slog.String("code", req.Code))
	return &account, nil
}

// validateParentChain walks the stored parent chain starting at parentCode
// and rejects the write if it would ever lead back to code.
func (s *chartService) validateParentChain(ctx context.Context, tenantID, code, parentCode string) error {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, true)
	if err != nil {
		return fmt.Errorf("failed to load chart for parent validation: %w", err)
	}
	parents := make(map[string]string, len(accounts))
	exists := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		parents[acc.Code] = acc.ParentCode
		exists[acc.Code] = true
	}
	if !exists[parentCode] {
		return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, parentCode)
	}

	seen := map[string]bool{code: true}
	for current := parentCode; current != ""; current = parents[current] {
		if seen[current] {
			return fmt.Errorf("%w: account %s closes a parent cycle through %s", apperrors.ErrParentCycle, code, current)
		}
		seen[current] = true
	}
	return nil
}

// SeedFromTemplate loads the jurisdiction's default chart into the tenant in
// bounded batches. A failing batch is logged and skipped so the remaining
// batches still land; the returned error reports the failures while the count
// reports what was written.
func (s *chartService) SeedFromTemplate(ctx context.Context, tenantID string, jurisdictionCode string, userID string) (int, error) {
	tpl, err := jurisdiction.Get(jurisdictionCode)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	accounts := make([]domain.Account, len(tpl.Accounts))
	for i, def := range tpl.Accounts {
		accounts[i] = domain.Account{
			TenantID:    tenantID,
			Code:        def.Code,
			Name:        def.Name,
			AccountType: def.Type,
			Category:    def.Category,
			ParentCode:  def.ParentCode,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	var (
		total     int
		batchErrs []error
	)
	for start := 0; start < len(accounts); start += seedBatchSize {
		if err := ctx.Err(); err != nil {
			batchErrs = append(batchErrs, err)
			break
		}
		end := start + seedBatchSize
		if end > len(accounts) {
			end = len(accounts)
		}
		written, err := s.accountRepo.UpsertAccounts(ctx, accounts[start:end])
		if err != nil {
			s.LogError(ctx, err, "Chart seed batch failed, continuing with next batch",
				slog.String("tenant_id", tenantID),
				slog.Int("batch_start", start),
				slog.Int("batch_size", end-start))
			batchErrs = append(batchErrs, fmt.Errorf("batch at offset %d: %w", start, err))
			continue
		}
		total += written
	}

	if len(batchErrs) > 0 {
		return total, fmt.Errorf("chart seeding wrote %d accounts with failures: %w", total, errors.Join(batchErrs...))
	}

	s.LogInfo(ctx, "Chart seeded from template",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", tpl.Code),
		slog.Int("accounts", total))
	return total, nil
}
