// Package jurisdiction holds the immutable per-country accounting templates
// (default chart of accounts, posting mappings, tax rates and corporate tax
// brackets). Templates are loaded once from embedded data files into a keyed
// registry; callers never mutate them.
package jurisdiction

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountDef is one template account before it is bound to a tenant.
type AccountDef struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Type       domain.AccountType `json:"type"`
	Category   string             `json:"category,omitempty"`
	ParentCode string             `json:"parentCode,omitempty"`
}

// MappingDef is one default posting rule of a template.
type MappingDef struct {
	SourceType        domain.SourceType `json:"sourceType"`
	SourceCategory    string            `json:"sourceCategory"`
	DebitAccountCode  string            `json:"debitAccountCode"`
	CreditAccountCode string            `json:"creditAccountCode"`
	Description       string            `json:"description,omitempty"`
}

// TaxRateDef is one default tax rate of a template.
type TaxRateDef struct {
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	TaxType     domain.TaxType  `json:"taxType"`
	AccountCode string          `json:"accountCode"`
	IsDefault   bool            `json:"isDefault"`
}

// Template bundles everything a jurisdiction seeds into a fresh tenant.
type Template struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Accounts    []AccountDef        `json:"accounts"`
	Mappings    []MappingDef        `json:"mappings"`
	TaxRates    []TaxRateDef        `json:"taxRates"`
	TaxBrackets []domain.TaxBracket `json:"taxBrackets"`
}

//go:embed data/*.json
var dataFS embed.FS

var (
	loadOnce sync.Once
	registry map[string]*Template
	loadErr  error
)

func load() {
	registry = make(map[string]*Template)
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		loadErr = fmt.Errorf("reading embedded jurisdiction data: %w", err)
		return
	}
	for _, e := range entries {
		raw, err := dataFS.ReadFile("data/" + e.Name())
		if err != nil {
			loadErr = fmt.Errorf("reading template %s: %w", e.Name(), err)
			return
		}
		var tpl Template
		if err := json.Unmarshal(raw, &tpl); err != nil {
			loadErr = fmt.Errorf("parsing template %s: %w", e.Name(), err)
			return
		}
		if err := validate(&tpl); err != nil {
			loadErr = fmt.Errorf("template %s: %w", e.Name(), err)
			return
		}
		registry[strings.ToUpper(tpl.Code)] = &tpl
	}
}

// validate rejects a template whose internal references are broken; this
// guards the embedded data at startup rather than at seed time.
func validate(tpl *Template) error {
	if tpl.Code == "" {
		return fmt.Errorf("missing jurisdiction code")
	}
	codes := make(map[string]struct{}, len(tpl.Accounts))
	for _, a := range tpl.Accounts {
		if !domain.ValidAccountType(a.Type) {
			return fmt.Errorf("account %s has unknown type %q", a.Code, a.Type)
		}
		codes[a.Code] = struct{}{}
	}
	for _, m := range tpl.Mappings {
		if _, ok := codes[m.DebitAccountCode]; !ok {
			return fmt.Errorf("mapping %s/%s debits unknown account %s", m.SourceType, m.SourceCategory, m.DebitAccountCode)
		}
		if _, ok := codes[m.CreditAccountCode]; !ok {
			return fmt.Errorf("mapping %s/%s credits unknown account %s", m.SourceType, m.SourceCategory, m.CreditAccountCode)
		}
	}
	for _, tr := range tpl.TaxRates {
		if _, ok := codes[tr.AccountCode]; !ok {
			return fmt.Errorf("tax rate %s references unknown account %s", tr.Name, tr.AccountCode)
		}
	}
	return nil
}

// Get returns the template for a jurisdiction code (case-insensitive).
// Unknown codes yield apperrors.ErrInvalidJurisdiction.
func Get(code string) (*Template, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		// Broken embedded data is a build defect, not a caller error.
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, loadErr)
	}
	tpl, ok := registry[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidJurisdiction, code)
	}
	return tpl, nil
}

// Codes lists the supported jurisdiction codes, sorted.
func Codes() []string {
	loadOnce.Do(load)
	out := make([]string, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
