// Package yamlrules loads the filter rule table and parts catalog from
// YAML configuration files. The engine never reads files itself; this
// loader runs once at startup and hands over immutable structures.
package yamlrules

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fossawork/fossawork/pkg/filter"
)

type partQuantityDoc struct {
	Part string `yaml:"part"`
	Qty  int64  `yaml:"qty"`
}

type serviceCodeDoc struct {
	Code             string                       `yaml:"code"`
	Description      string                       `yaml:"description"`
	Scope            string                       `yaml:"scope"`
	DefaultParts     []partQuantityDoc            `yaml:"default_parts"`
	Chains           map[string][]partQuantityDoc `yaml:"chains"`
	GradeSupplements map[string][]partQuantityDoc `yaml:"grade_supplements"`
}

type rulesDoc struct {
	ServiceCodes []serviceCodeDoc `yaml:"service_codes"`
}

type catalogPartDoc struct {
	Part        string `yaml:"part"`
	Description string `yaml:"description"`
	UnitCost    string `yaml:"unit_cost"`
}

type catalogDoc struct {
	Parts []catalogPartDoc `yaml:"parts"`
}

// LoadRuleTable reads a rules YAML file into an immutable rule table.
func LoadRuleTable(path string) (*filter.RuleTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var doc rulesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(doc.ServiceCodes) == 0 {
		return nil, fmt.Errorf("rules file %s defines no service codes", path)
	}

	rules := make([]filter.ServiceCodeRule, 0, len(doc.ServiceCodes))
	for i, sc := range doc.ServiceCodes {
		rule, err := parseServiceCode(sc)
		if err != nil {
			return nil, fmt.Errorf("service_codes[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}

	return filter.NewRuleTable(rules), nil
}

func parseServiceCode(doc serviceCodeDoc) (filter.ServiceCodeRule, error) {
	var rule filter.ServiceCodeRule

	if doc.Code == "" {
		return rule, fmt.Errorf("code is required")
	}
	scope, err := parseScope(doc.Scope)
	if err != nil {
		return rule, err
	}
	defaults, err := parseParts(doc.DefaultParts)
	if err != nil {
		return rule, fmt.Errorf("default_parts: %w", err)
	}
	if len(defaults) == 0 {
		return rule, fmt.Errorf("default_parts must not be empty")
	}

	rule = filter.ServiceCodeRule{
		Code:         filter.ServiceCode(doc.Code),
		Description:  doc.Description,
		Scope:        scope,
		DefaultParts: defaults,
	}

	if len(doc.Chains) > 0 {
		rule.ChainParts = make(map[string][]filter.PartQuantity, len(doc.Chains))
		for chain, parts := range doc.Chains {
			pq, err := parseParts(parts)
			if err != nil {
				return rule, fmt.Errorf("chains[%s]: %w", chain, err)
			}
			rule.ChainParts[filter.NormalizeChain(filter.Chain(chain))] = pq
		}
	}

	if len(doc.GradeSupplements) > 0 {
		rule.GradeSupplements = make(map[filter.FuelGrade][]filter.PartQuantity, len(doc.GradeSupplements))
		for name, parts := range doc.GradeSupplements {
			grade, ok := filter.ParseFuelGrade(name)
			if !ok {
				return rule, fmt.Errorf("grade_supplements: unknown fuel grade %q", name)
			}
			pq, err := parseParts(parts)
			if err != nil {
				return rule, fmt.Errorf("grade_supplements[%s]: %w", name, err)
			}
			rule.GradeSupplements[grade] = pq
		}
	}

	return rule, nil
}

func parseScope(s string) (filter.RuleScope, error) {
	switch s {
	case "all_dispensers":
		return filter.ScopeAllDispensers, nil
	case "named_dispensers":
		return filter.ScopeNamedDispensers, nil
	case "per_work_order":
		return filter.ScopePerWorkOrder, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", s)
	}
}

func parseParts(docs []partQuantityDoc) ([]filter.PartQuantity, error) {
	var parts []filter.PartQuantity
	for i, d := range docs {
		if d.Part == "" {
			return nil, fmt.Errorf("entry %d: part is required", i)
		}
		if d.Qty <= 0 {
			return nil, fmt.Errorf("entry %d: qty must be positive, got %d", i, d.Qty)
		}
		parts = append(parts, filter.PartQuantity{
			PartNumber: filter.PartNumber(d.Part),
			Quantity:   filter.Quantity(d.Qty),
		})
	}
	return parts, nil
}

// LoadCatalog reads a catalog YAML file into a parts catalog.
func LoadCatalog(path string) (*filter.PartsCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	parts := make([]filter.Part, 0, len(doc.Parts))
	for i, p := range doc.Parts {
		if p.Part == "" {
			return nil, fmt.Errorf("parts[%d]: part is required", i)
		}
		cost, err := decimal.NewFromString(p.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("parts[%d]: unit_cost %q: %w", i, p.UnitCost, err)
		}
		if cost.IsNegative() {
			return nil, fmt.Errorf("parts[%d]: unit_cost must not be negative", i)
		}
		parts = append(parts, filter.Part{
			PartNumber:  filter.PartNumber(p.Part),
			Description: p.Description,
			UnitCost:    cost,
		})
	}

	return filter.NewPartsCatalog(parts), nil
}
