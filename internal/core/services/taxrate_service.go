package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
)

// taxRateService manages tenant tax rates and the one-default-per-type rule.
type taxRateService struct {
	BaseService
	taxRateRepo portsrepo.TaxRateRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTaxRateService creates a new tax rate service.
func NewTaxRateService(taxRateRepo portsrepo.TaxRateRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TaxRateSvcFacade {
	return &taxRateService{
		taxRateRepo: taxRateRepo,
		accountRepo: accountRepo,
	}
}

// Ensure taxRateService implements the portssvc.TaxRateSvcFacade interface
var _ portssvc.TaxRateSvcFacade = (*taxRateService)(nil)

// ListTaxRates retrieves all tax rates of a tenant.
func (s *taxRateService) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	rates, err := s.taxRateRepo.ListTaxRates(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tax rates", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	return rates, nil
}

// GetDefaultRate retrieves the default rate for a tax type.
func (s *taxRateService) GetDefaultRate(ctx context.Context, tenantID string, taxType domain.TaxType) (*domain.TaxRate, error) {
	rate, err := s.taxRateRepo.FindDefaultTaxRate(ctx, tenantID, taxType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find default tax rate",
				slog.String("tenant_id", tenantID),
				slog.String("tax_type", string(taxType)))
		}
		return nil, fmt.Errorf("failed to find default %s tax rate: %w", taxType, err)
	}
	return rate, nil
}

// ResolveRate finds the tax rate matching a document's decimal rate.
func (s *taxRateService) ResolveRate(ctx context.Context, tenantID string, taxType domain.TaxType, rate decimal.Decimal) (*domain.TaxRate, error) {
	found, err := s.taxRateRepo.FindTaxRateByValue(ctx, tenantID, taxType, rate)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve tax rate",
				slog.String("tenant_id", tenantID),
				slog.String("tax_type", string(taxType)),
				slog.String("rate", rate.String()))
		}
		return nil, fmt.Errorf("failed to resolve %s tax rate %s: %w", taxType, rate, err)
	}
	return found, nil
}

// UpsertTaxRate creates or updates a tax rate. Marking a rate as default
// demotes the previous default of the same tax type in the same call, so
// the at-most-one-default invariant holds after every write.
func (s *taxRateService) UpsertTaxRate(ctx context.Context, tenantID string, req dto.UpsertTaxRateRequest, userID string) (*domain.TaxRate, error) {
	if req.Rate.IsNegative() || req.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: tax rate %s must be a fraction in [0,1)", apperrors.ErrValidation, req.Rate)
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, tenantID, []string{req.AccountCode})
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch control account for tax rate", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to validate tax control account: %w", err)
	}
	if _, ok := accounts[req.AccountCode]; !ok {
		return nil, fmt.Errorf("%w: control account %s does not exist", apperrors.ErrValidation, req.AccountCode)
	}

	now := time.Now().UTC()
	rate := domain.TaxRate{
		TaxRateID:   uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		Rate:        req.Rate,
		TaxType:     req.TaxType,
		AccountCode: req.AccountCode,
		IsDefault:   req.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if _, err := s.taxRateRepo.UpsertTaxRates(ctx, []domain.TaxRate{rate}); err != nil {
		s.LogError(ctx, err, "Failed to upsert tax rate", slog.String("tenant_id", tenantID), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to upsert tax rate %s: %w", req.Name, err)
	}

	// On a repeat upsert of the same (name, tax_type) the repo keeps the
	// existing row's tax_rate_id, so re-read the canonical row before the
	// demotion: clearing defaults against the freshly generated ID would
	// demote the row just promoted.
	stored, err := s.taxRateRepo.FindTaxRateByName(ctx, tenantID, req.Name, req.TaxType)
	if err != nil {
		s.LogError(ctx, err, "Failed to read back upserted tax rate", slog.String("tenant_id", tenantID), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to read back tax rate %s: %w", req.Name, err)
	}

	if req.IsDefault {
		if err := s.taxRateRepo.ClearDefault(ctx, tenantID, req.TaxType, stored.TaxRateID); err != nil {
			s.LogError(ctx, err, "Failed to demote previous default tax rate",
				slog.String("tenant_id", tenantID),
				slog.String("tax_type", string(req.TaxType)))
			return nil, fmt.Errorf("failed to demote previous default rate: %w", err)
		}
	}

	s.LogInfo(ctx, "Tax rate upserted",
		slog.String("tenant_id", tenantID),
		slog.String("tax_rate_id", stored.TaxRateID),
		slog.String("name", req.Name),
		slog.String("tax_type", string(req.TaxType)))
	return stored, nil
}

// SeedFromTemplate loads the jurisdiction's default rates into the tenant.
func (s *taxRateService) SeedFromTemplate(ctx context.Context, tenantID string, jurisdictionCode string, userID string) (int, error) {
	tpl, err := jurisdiction.Get(jurisdictionCode)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rates := make([]domain.TaxRate, len(tpl.TaxRates))
	for i, def := range tpl.TaxRates {
		rates[i] = domain.TaxRate{
			TaxRateID:   uuid.NewString(),
			TenantID:    tenantID,
			Name:        def.Name,
			Rate:        def.Rate,
			TaxType:     def.TaxType,
			AccountCode: def.AccountCode,
			IsDefault:   def.IsDefault,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	count, err := s.taxRateRepo.UpsertTaxRates(ctx, rates)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed tax rates", slog.String("tenant_id", tenantID), slog.String("jurisdiction", tpl.Code))
		return count, fmt.Errorf("failed to seed tax rates: %w", err)
	}

	s.LogInfo(ctx, "Tax rates seeded from template",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", tpl.Code),
		slog.Int("tax_rates", count))
	return count, nil
}
