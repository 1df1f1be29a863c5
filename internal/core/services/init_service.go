package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/facturo/ledger_backend/internal/core/ports/services"
	"github.com/facturo/ledger_backend/internal/dto"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
)

// initService drives the tenant initialization workflow: settings row first,
// then chart, mappings and tax rates, then the initialized flag. Concurrent
// calls for one tenant collapse into a single seed run.
type initService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
	chartSvc   portssvc.ChartSvcFacade
	mappingSvc portssvc.MappingSvcFacade
	taxRateSvc portssvc.TaxRateSvcFacade
	seedGroup  singleflight.Group
}

// NewInitService creates a new initialization service.
func NewInitService(
	tenantRepo portsrepo.TenantRepositoryFacade,
	chartSvc portssvc.ChartSvcFacade,
	mappingSvc portssvc.MappingSvcFacade,
	taxRateSvc portssvc.TaxRateSvcFacade,
) portssvc.InitSvcFacade {
	return &initService{
		tenantRepo: tenantRepo,
		chartSvc:   chartSvc,
		mappingSvc: mappingSvc,
		taxRateSvc: taxRateSvc,
	}
}

// Ensure initService implements the portssvc.InitSvcFacade interface
var _ portssvc.InitSvcFacade = (*initService)(nil)

// defaultCurrencyFor picks the conventional currency of a jurisdiction when
// the caller does not name one.
func defaultCurrencyFor(jurisdictionCode string) string {
	if jurisdictionCode == "OHADA" {
		return "XOF"
	}
	return "EUR"
}

// Initialize seeds a tenant from a jurisdiction template. The result carries
// partial counts when a step fails; the tenant is marked initialized only
// after every step succeeded, so a retry re-runs the workflow safely (all
// seeding writes are idempotent upserts).
func (s *initService) Initialize(ctx context.Context, tenantID string, req dto.InitializeRequest, userID string) (*domain.InitResult, error) {
	v, err, shared := s.seedGroup.Do(tenantID, func() (interface{}, error) {
		return s.initialize(ctx, tenantID, req, userID)
	})
	if shared {
		s.LogInfo(ctx, "Initialization joined an in-flight seed run", slog.String("tenant_id", tenantID))
	}
	result, _ := v.(*domain.InitResult)
	if result == nil {
		result = &domain.InitResult{}
	}
	if err != nil {
		result.Success = false
		if result.Error == "" {
			result.Error = err.Error()
		}
	}
	return result, err
}

func (s *initService) initialize(ctx context.Context, tenantID string, req dto.InitializeRequest, userID string) (*domain.InitResult, error) {
	result := &domain.InitResult{}

	tpl, err := jurisdiction.Get(req.Jurisdiction)
	if err != nil {
		return result, err
	}

	if err := s.writeSettings(ctx, tenantID, req, tpl.Code, userID); err != nil {
		return result, fmt.Errorf("failed to write tenant settings: %w", err)
	}

	result.AccountsCount, err = s.chartSvc.SeedFromTemplate(ctx, tenantID, tpl.Code, userID)
	if err != nil {
		s.LogError(ctx, err, "Initialization stopped at chart seeding", slog.String("tenant_id", tenantID))
		return result, fmt.Errorf("chart seeding failed: %w", err)
	}

	result.MappingsCount, err = s.mappingSvc.BulkSeed(ctx, tenantID, tpl.Code, userID)
	if err != nil {
		s.LogError(ctx, err, "Initialization stopped at mapping seeding", slog.String("tenant_id", tenantID))
		return result, fmt.Errorf("mapping seeding failed: %w", err)
	}

	result.TaxRatesCount, err = s.taxRateSvc.SeedFromTemplate(ctx, tenantID, tpl.Code, userID)
	if err != nil {
		s.LogError(ctx, err, "Initialization stopped at tax rate seeding", slog.String("tenant_id", tenantID))
		return result, fmt.Errorf("tax rate seeding failed: %w", err)
	}

	// The flag flips last so a crash anywhere above leaves the tenant
	// visibly uninitialized.
	if err := s.tenantRepo.MarkInitialized(ctx, tenantID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to mark tenant initialized", slog.String("tenant_id", tenantID))
		return result, fmt.Errorf("failed to mark tenant initialized: %w", err)
	}

	result.Success = true
	s.LogInfo(ctx, "Tenant initialized",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", tpl.Code),
		slog.Int("accounts", result.AccountsCount),
		slog.Int("mappings", result.MappingsCount),
		slog.Int("tax_rates", result.TaxRatesCount))
	return result, nil
}

// writeSettings creates or refreshes the settings row with the initialized
// flag off. Re-initialization keeps the existing profile fields unless the
// request provides replacements.
func (s *initService) writeSettings(ctx context.Context, tenantID string, req dto.InitializeRequest, jurisdictionCode string, userID string) error {
	now := time.Now().UTC()

	settings := domain.TenantSettings{
		TenantID: tenantID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: userID,
		},
	}
	existing, err := s.tenantRepo.FindSettings(ctx, tenantID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		settings = *existing
	}

	settings.Jurisdiction = jurisdictionCode
	settings.IsInitialized = false
	if req.CompanyName != "" {
		settings.CompanyName = req.CompanyName
	}
	if req.Address != "" {
		settings.Address = req.Address
	}
	if req.TaxID != "" {
		settings.TaxID = req.TaxID
	}
	if req.CurrencyCode != "" {
		settings.CurrencyCode = req.CurrencyCode
	} else if settings.CurrencyCode == "" {
		settings.CurrencyCode = defaultCurrencyFor(jurisdictionCode)
	}
	settings.LastUpdatedAt = now
	settings.LastUpdatedBy = userID

	return s.tenantRepo.SaveSettings(ctx, settings)
}

// GetSettings retrieves the tenant's settings row.
func (s *initService) GetSettings(ctx context.Context, tenantID string) (*domain.TenantSettings, error) {
	settings, err := s.tenantRepo.FindSettings(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant settings", slog.String("tenant_id", tenantID))
		}
		return nil, fmt.Errorf("failed to find settings for tenant %s: %w", tenantID, err)
	}
	return settings, nil
}

// UpdateSettings updates the tenant's company profile.
func (s *initService) UpdateSettings(ctx context.Context, tenantID string, req dto.UpdateTenantSettingsRequest, userID string) (*domain.TenantSettings, error) {
	settings, err := s.tenantRepo.FindSettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find settings for tenant %s: %w", tenantID, err)
	}

	updated := false
	if req.CompanyName != nil {
		settings.CompanyName = *req.CompanyName
		updated = true
	}
	if req.Address != nil {
		settings.Address = *req.Address
		updated = true
	}
	if req.TaxID != nil {
		settings.TaxID = *req.TaxID
		updated = true
	}
	if req.CurrencyCode != nil {
		settings.CurrencyCode = *req.CurrencyCode
		updated = true
	}
	if !updated {
		return settings, nil
	}

	settings.LastUpdatedAt = time.Now().UTC()
	settings.LastUpdatedBy = userID
	if err := s.tenantRepo.SaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save tenant settings", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
