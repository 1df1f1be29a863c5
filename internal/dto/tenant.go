package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
)

// InitializeRequest starts the tenant initialization workflow.
type InitializeRequest struct {
	Jurisdiction string `json:"jurisdiction" binding:"required,jurisdiction"`
	CompanyName  string `json:"companyName"`
	Address      string `json:"address"`
	TaxID        string `json:"taxID"`
	CurrencyCode string `json:"currencyCode"`
}

// InitResultResponse reports what the initialization seeded.
type InitResultResponse struct {
	AccountsCount int    `json:"accountsCount"`
	MappingsCount int    `json:"mappingsCount"`
	TaxRatesCount int    `json:"taxRatesCount"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// UpdateTenantSettingsRequest updates the company profile of a tenant.
// Pointers distinguish omitted fields from zero values.
type UpdateTenantSettingsRequest struct {
	CompanyName  *string `json:"companyName"`
	Address      *string `json:"address"`
	TaxID        *string `json:"taxID"`
	CurrencyCode *string `json:"currencyCode"`
}

// TenantSettingsResponse defines the data returned for tenant settings.
type TenantSettingsResponse struct {
	TenantID      string    `json:"tenantID"`
	CompanyName   string    `json:"companyName"`
	Address       string    `json:"address"`
	TaxID         string    `json:"taxID"`
	CurrencyCode  string    `json:"currencyCode"`
	Jurisdiction  string    `json:"jurisdiction"`
	IsInitialized bool      `json:"isInitialized"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToInitResultResponse converts a domain.InitResult to its DTO.
func ToInitResultResponse(res *domain.InitResult) InitResultResponse {
	return InitResultResponse{
		AccountsCount: res.AccountsCount,
		MappingsCount: res.MappingsCount,
		TaxRatesCount: res.TaxRatesCount,
		Success:       res.Success,
		Error:         res.Error,
	}
}

// ToTenantSettingsResponse converts domain.TenantSettings to its DTO.
func ToTenantSettingsResponse(s *domain.TenantSettings) TenantSettingsResponse {
	return TenantSettingsResponse{
		TenantID:      s.TenantID,
		CompanyName:   s.CompanyName,
		Address:       s.Address,
		TaxID:         s.TaxID,
		CurrencyCode:  s.CurrencyCode,
		Jurisdiction:  s.Jurisdiction,
		IsInitialized: s.IsInitialized,
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
	}
}
