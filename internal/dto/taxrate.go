package dto

import (
	"time"

	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertTaxRateRequest defines the data needed to create or update a tax
// rate. Rate is a fraction, e.g. "0.21" for 21%.
type UpsertTaxRateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	TaxType     domain.TaxType  `json:"taxType" binding:"required,oneof=OUTPUT INPUT"`
	AccountCode string          `json:"accountCode" binding:"required"`
	IsDefault   bool            `json:"isDefault"`
}

// TaxRateResponse defines the data returned for a tax rate.
type TaxRateResponse struct {
	TaxRateID     string          `json:"taxRateID"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	TaxType       domain.TaxType  `json:"taxType"`
	AccountCode   string          `json:"accountCode"`
	IsDefault     bool            `json:"isDefault"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListTaxRatesResponse wraps the list of tax rates.
type ListTaxRatesResponse struct {
	TaxRates []TaxRateResponse `json:"taxRates"`
}

// ToTaxRateResponse converts a domain.TaxRate to TaxRateResponse DTO
func ToTaxRateResponse(tr *domain.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		TaxRateID:     tr.TaxRateID,
		Name:          tr.Name,
		Rate:          tr.Rate,
		TaxType:       tr.TaxType,
		AccountCode:   tr.AccountCode,
		IsDefault:     tr.IsDefault,
		CreatedAt:     tr.CreatedAt,
		LastUpdatedAt: tr.LastUpdatedAt,
	}
}

// ToListTaxRatesResponse converts a slice of domain.TaxRate to the list DTO
func ToListTaxRatesResponse(rates []domain.TaxRate) ListTaxRatesResponse {
	res := make([]TaxRateResponse, len(rates))
	for i, tr := range rates {
		res[i] = ToTaxRateResponse(&tr)
	}
	return ListTaxRatesResponse{TaxRates: res}
}
