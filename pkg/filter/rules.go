package filter

import (
	"fmt"
	"strings"
)

// RuleScope determines at which level a service code's filters are counted
type RuleScope int

const (
	// ScopeAllDispensers counts filters for every dispenser on the work order
	ScopeAllDispensers RuleScope = iota
	// ScopeNamedDispensers counts filters only for dispensers named in the
	// instructions; the dispenser list arrives pre-filtered
	ScopeNamedDispensers
	// ScopePerWorkOrder counts one fixed set of filters per work order,
	// independent of dispenser count
	ScopePerWorkOrder
)

func (s RuleScope) String() string {
	switch s {
	case ScopeAllDispensers:
		return "AllDispensers"
	case ScopeNamedDispensers:
		return "NamedDispensers"
	case ScopePerWorkOrder:
		return "PerWorkOrder"
	default:
		return "Unknown"
	}
}

// PartQuantity is one line of a rule: a part and how many of it one
// dispenser needs (or the work order needs, for per-work-order scope).
type PartQuantity struct {
	PartNumber PartNumber
	Quantity   Quantity
}

// ServiceCodeRule holds the filter rules for one service code.
type ServiceCodeRule struct {
	Code        ServiceCode
	Description string
	Scope       RuleScope

	// DefaultParts apply when no chain override matches
	DefaultParts []PartQuantity
	// ChainParts replace DefaultParts for specific chains, keyed by
	// normalized chain name
	ChainParts map[string][]PartQuantity
	// GradeSupplements add parts when a grade is present, independent of
	// the base rule
	GradeSupplements map[FuelGrade][]PartQuantity
}

// baseParts returns the chain override when one exists, otherwise the
// default rule set. An unrecognized chain is expected data, not an error.
func (r ServiceCodeRule) baseParts(chain Chain) []PartQuantity {
	if parts, ok := r.ChainParts[NormalizeChain(chain)]; ok {
		return parts
	}
	return r.DefaultParts
}

// NormalizeChain canonicalizes a scraped chain name for rule lookup.
func NormalizeChain(chain Chain) string {
	return strings.ToLower(strings.TrimSpace(string(chain)))
}

// RuleTable is the single source of truth for filter business rules. It
// is immutable after construction and safe for concurrent readers; build
// one at startup and inject it into the Calculator.
type RuleTable struct {
	rules map[ServiceCode]ServiceCodeRule
}

// NewRuleTable builds a rule table from per-service-code rules. Later
// entries with the same code replace earlier ones.
func NewRuleTable(rules []ServiceCodeRule) *RuleTable {
	t := &RuleTable{rules: make(map[ServiceCode]ServiceCodeRule, len(rules))}
	for _, r := range rules {
		t.rules[r.Code] = r
	}
	return t
}

// Recognizes reports whether the table has a rule for the service code.
func (t *RuleTable) Recognizes(code ServiceCode) bool {
	_, ok := t.rules[code]
	return ok
}

// Rule returns the rule for a service code.
func (t *RuleTable) Rule(code ServiceCode) (ServiceCodeRule, bool) {
	r, ok := t.rules[code]
	return r, ok
}

// Codes returns the known service codes, unordered.
func (t *RuleTable) Codes() []ServiceCode {
	out := make([]ServiceCode, 0, len(t.rules))
	for code := range t.rules {
		out = append(out, code)
	}
	return out
}

// Lookup returns the parts one dispenser (or, for per-work-order scope,
// one work order) needs under the given service code, chain, and grade
// set: the chain-resolved base parts plus any grade supplements. The
// supplement order follows the canonical grade order so results are
// deterministic.
func (t *RuleTable) Lookup(code ServiceCode, chain Chain, grades GradeSet) ([]PartQuantity, error) {
	rule, ok := t.rules[code]
	if !ok {
		return nil, fmt.Errorf("unknown service code %q", code)
	}

	parts := append([]PartQuantity(nil), rule.baseParts(chain)...)
	for _, g := range AllFuelGrades() {
		if !grades.Has(g) {
			continue
		}
		parts = append(parts, rule.GradeSupplements[g]...)
	}
	return parts, nil
}

// Default production part numbers. These mirror the filter SKUs the field
// techs actually stock; fixture tables in tests use their own parts.
const (
	PartStandardFilter    PartNumber = "CT-300-10"   // 10 micron gasoline
	PartDieselFilter      PartNumber = "CT-300HS-10" // hydrosorb diesel
	PartEthanolFilter     PartNumber = "CT-450-10"   // alcohol compatible
	PartRaceFilter        PartNumber = "CT-475-10"   // high-flow race fuel
	PartSevenElevenFilter PartNumber = "PC-40510A"   // 7-Eleven spec variant
	PartProverKit         PartNumber = "ONP-KIT-1"   // open neck prover kit
)

// DefaultRuleTable returns the production rule set for the four service
// codes the portal schedules. Deployments that need different SKUs load
// a table from configuration instead.
func DefaultRuleTable() *RuleTable {
	standard := []PartQuantity{{PartNumber: PartStandardFilter, Quantity: 1}}
	sevenEleven := []PartQuantity{{PartNumber: PartSevenElevenFilter, Quantity: 1}}
	supplements := map[FuelGrade][]PartQuantity{
		Diesel:      {{PartNumber: PartDieselFilter, Quantity: 1}},
		EthanolFree: {{PartNumber: PartEthanolFilter, Quantity: 1}},
		RaceFuel:    {{PartNumber: PartRaceFilter, Quantity: 1}},
	}

	return NewRuleTable([]ServiceCodeRule{
		{
			Code:             CodeAllDispenserMeter,
			Description:      "Meter calibration, all dispensers",
			Scope:            ScopeAllDispensers,
			DefaultParts:     standard,
			ChainParts:       map[string][]PartQuantity{"7-eleven": sevenEleven},
			GradeSupplements: supplements,
		},
		{
			Code:             CodeSpecificDispenser,
			Description:      "Meter calibration, named dispensers",
			Scope:            ScopeNamedDispensers,
			DefaultParts:     standard,
			ChainParts:       map[string][]PartQuantity{"7-eleven": sevenEleven},
			GradeSupplements: supplements,
		},
		{
			Code:             CodeFullSite,
			Description:      "Full-site dispenser service",
			Scope:            ScopeAllDispensers,
			DefaultParts:     standard,
			ChainParts:       map[string][]PartQuantity{"7-eleven": sevenEleven},
			GradeSupplements: supplements,
		},
		{
			Code:         CodeOpenNeckProver,
			Description:  "Open neck prover",
			Scope:        ScopePerWorkOrder,
			DefaultParts: []PartQuantity{{PartNumber: PartProverKit, Quantity: 1}},
		},
	})
}
