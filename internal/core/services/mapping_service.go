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

// mappingService manages the rules translating source documents into
// debit/credit account pairs.
type mappingService struct {
	BaseService
	mappingRepo portsrepo.MappingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewMappingService creates a new mapping service.
func NewMappingService(mappingRepo portsrepo.MappingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.MappingSvcFacade {
	return &mappingService{
		mappingRepo: mappingRepo,
		accountRepo: accountRepo,
	}
}

// Ensure mappingService implements the portssvc.MappingSvcFacade interface
var _ portssvc.MappingSvcFacade = (*mappingService)(nil)

// Resolve returns the mapping for a (source type, category) pair.
func (s *mappingService) Resolve(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) (*domain.Mapping, error) {
	if !domain.ValidSourceType(sourceType) {
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, sourceType)
	}
	mapping, err := s.mappingRepo.FindMapping(ctx, tenantID, sourceType, sourceCategory)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve mapping",
				slog.String("tenant_id", tenantID),
				slog.String("source_type", string(sourceType)),
				slog.String("category", sourceCategory))
		}
		return nil, fmt.Errorf("failed to resolve mapping %s/%s: %w", sourceType, sourceCategory, err)
	}
	return mapping, nil
}

// ListMappings retrieves all mappings, optionally filtered by source type.
func (s *mappingService) ListMappings(ctx context.Context, tenantID string, sourceType *domain.SourceType) ([]domain.Mapping, error) {
	if sourceType != nil && !domain.ValidSourceType(*sourceType) {
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, *sourceType)
	}
	mappings, err := s.mappingRepo.ListMappings(ctx, tenantID, sourceType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list mappings", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	return mappings, nil
}

// ListUnmapped diffs the fixed category universe of every source type
// against the tenant's stored mappings. Unmapped categories are advisory:
// documents in them are skipped by the generator, not failed.
func (s *mappingService) ListUnmapped(ctx context.Context, tenantID string) ([]domain.UnmappedCategory, error) {
	mappings, err := s.mappingRepo.ListMappings(ctx, tenantID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list mappings for unmapped diff", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}

	mapped := make(map[domain.SourceType]map[string]bool, len(domain.SourceTypes))
	for _, m := range mappings {
		if mapped[m.SourceType] == nil {
			mapped[m.SourceType] = make(map[string]bool)
		}
		mapped[m.SourceType][m.SourceCategory] = true
	}

	unmapped := make([]domain.UnmappedCategory, 0)
	for _, st := range domain.SourceTypes {
		for _, cat := range domain.CategoriesForSourceType(st) {
			if !mapped[st][cat] {
				unmapped = append(unmapped, domain.UnmappedCategory{SourceType: st, Category: cat})
			}
		}
	}
	return unmapped, nil
}

// UpsertMapping creates or overwrites a single mapping. The referenced
// debit/credit accounts must exist in the tenant's chart.
func (s *mappingService) UpsertMapping(ctx context.Context, tenantID string, req dto.UpsertMappingRequest, userID string) (*domain.Mapping, error) {
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, tenantID, []string{req.DebitAccountCode, req.CreditAccountCode})
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for mapping validation", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to validate mapping accounts: %w", err)
	}
	if _, ok := accounts[req.DebitAccountCode]; !ok {
		return nil, fmt.Errorf("%w: debit account %s does not exist", apperrors.ErrValidation, req.DebitAccountCode)
	}
	if _, ok := accounts[req.CreditAccountCode]; !ok {
		return nil, fmt.Errorf("%w: credit account %s does not exist", apperrors.ErrValidation, req.CreditAccountCode)
	}

	now := time.Now().UTC()
	mapping := domain.Mapping{
		TenantID:          tenantID,
		SourceType:        req.SourceType,
		SourceCategory:    req.SourceCategory,
		DebitAccountCode:  req.DebitAccountCode,
		CreditAccountCode: req.CreditAccountCode,
		Description:       req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if _, err := s.mappingRepo.UpsertMappings(ctx, []domain.Mapping{mapping}); err != nil {
		s.LogError(ctx, err, "Failed to upsert mapping",
			slog.String("tenant_id", tenantID),
			slog.String("source_type", string(req.SourceType)),
			slog.String("category", req.SourceCategory))
		return nil, fmt.Errorf("failed to upsert mapping: %w", err)
	}

	s.LogInfo(ctx, "Mapping upserted",
		slog.String("tenant_id", tenantID),
		slog.String("source_type", string(req.SourceType)),
		slog.String("category", req.SourceCategory))
	return &mapping, nil
}

// BulkSeed loads the jurisdiction's default mappings into the tenant.
// Template rows overwrite same-key rows; mappings the user created for
// other categories are left untouched.
func (s *mappingService) BulkSeed(ctx context.Context, tenantID string, jurisdictionCode string, userID string) (int, error) {
	tpl, err := jurisdiction.Get(jurisdictionCode)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	mappings := make([]domain.Mapping, len(tpl.Mappings))
	for i, def := range tpl.Mappings {
		mappings[i] = domain.Mapping{
			TenantID:          tenantID,
			SourceType:        def.SourceType,
			SourceCategory:    def.SourceCategory,
			DebitAccountCode:  def.DebitAccountCode,
			CreditAccountCode: def.CreditAccountCode,
			Description:       def.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	count, err := s.mappingRepo.UpsertMappings(ctx, mappings)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed mappings", slog.String("tenant_id", tenantID), slog.String("jurisdiction", tpl.Code))
		return count, fmt.Errorf("failed to seed mappings: %w", err)
	}

	s.LogInfo(ctx, "Mappings seeded from template",
		slog.String("tenant_id", tenantID),
		slog.String("jurisdiction", tpl.Code),
		slog.Int("mappings", count))
	return count, nil
}

// DeleteMapping removes a single mapping.
func (s *mappingService) DeleteMapping(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceCategory string) error {
	if !domain.ValidSourceType(sourceType) {
		return fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, sourceType)
	}
	if err := s.mappingRepo.DeleteMapping(ctx, tenantID, sourceType, sourceCategory); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete mapping",
				slog.String("tenant_id", tenantID),
				slog.String("source_type", string(sourceType)),
				slog.String("category", sourceCategory))
		}
		return fmt.Errorf("failed to delete mapping %s/%s: %w", sourceType, sourceCategory, err)
	}
	return nil
}
