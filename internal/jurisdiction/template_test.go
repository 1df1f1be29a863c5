package jurisdiction_test

import (
	"errors"
	"testing"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/facturo/ledger_backend/internal/jurisdiction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	codes := jurisdiction.Codes()
	assert.Equal(t, []string{"BE", "FR", "OHADA"}, codes)
}

func TestGet_CaseInsensitive(t *testing.T) {
	tpl, err := jurisdiction.Get("be")
	require.NoError(t, err)
	assert.Equal(t, "BE", tpl.Code)
}

func TestGet_UnknownJurisdiction(t *testing.T) {
	_, err := jurisdiction.Get("XX")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidJurisdiction))
}

func TestBelgianTemplate_ServiceInvoiceMapping(t *testing.T) {
	tpl, err := jurisdiction.Get("BE")
	require.NoError(t, err)

	var found *jurisdiction.MappingDef
	for i := range tpl.Mappings {
		m := tpl.Mappings[i]
		if m.SourceType == domain.SourceInvoice && m.SourceCategory == "service" {
			found = &tpl.Mappings[i]
			break
		}
	}
	require.NotNil(t, found, "BE template must map invoice/service")
	assert.Equal(t, "400", found.DebitAccountCode)
	assert.Equal(t, "7061", found.CreditAccountCode)
}

func TestBelgianTemplate_DefaultOutputRate(t *testing.T) {
	tpl, err := jurisdiction.Get("BE")
	require.NoError(t, err)

	var def *jurisdiction.TaxRateDef
	for i := range tpl.TaxRates {
		tr := tpl.TaxRates[i]
		if tr.TaxType == domain.TaxOutput && tr.IsDefault {
			require.Nil(t, def, "at most one default output rate")
			def = &tpl.TaxRates[i]
		}
	}
	require.NotNil(t, def)
	assert.True(t, def.Rate.Equal(decimal.RequireFromString("0.21")))
	assert.Equal(t, "4510", def.AccountCode)
}

func TestTemplates_ExpenseUniverseFullyMapped(t *testing.T) {
	for _, code := range jurisdiction.Codes() {
		tpl, err := jurisdiction.Get(code)
		require.NoError(t, err)

		mapped := make(map[string]bool)
		for _, m := range tpl.Mappings {
			if m.SourceType == domain.SourceExpense {
				mapped[m.SourceCategory] = true
			}
		}
		for _, cat := range domain.CategoriesForSourceType(domain.SourceExpense) {
			assert.True(t, mapped[cat], "%s: expense category %q unmapped", code, cat)
		}
	}
}

func TestTemplates_OneDefaultPerTaxType(t *testing.T) {
	for _, code := range jurisdiction.Codes() {
		tpl, err := jurisdiction.Get(code)
		require.NoError(t, err)

		defaults := make(map[domain.TaxType]int)
		for _, tr := range tpl.TaxRates {
			if tr.IsDefault {
				defaults[tr.TaxType]++
			}
		}
		assert.Equal(t, 1, defaults[domain.TaxOutput], "%s output defaults", code)
		assert.Equal(t, 1, defaults[domain.TaxInput], "%s input defaults", code)
	}
}
