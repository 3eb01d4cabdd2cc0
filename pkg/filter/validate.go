package filter

import (
	"fmt"
)

// Validator checks a work order against the rule table before resolution.
// It only reports; the Calculator decides which warnings block filter
// attribution (error severity does, warning severity does not).
type Validator struct {
	rules *RuleTable
}

// NewValidator creates a validator over the given rule table.
func NewValidator(rules *RuleTable) *Validator {
	return &Validator{rules: rules}
}

// Validate returns zero or more warnings for one work order. Checks run
// in order: service code present, service code recognized, dispensers
// present for per-dispenser codes, each dispenser carries at least one
// non-empty grade label. It never panics on missing data; missing data
// is exactly what it reports.
func (v *Validator) Validate(wo WorkOrder) []Warning {
	var warnings []Warning

	if wo.ServiceCode == "" {
		warnings = append(warnings, NewWarning(UnknownServiceCode, SeverityError, wo.ID,
			"work order has no service code"))
		return warnings
	}

	rule, ok := v.rules.Rule(wo.ServiceCode)
	if !ok {
		warnings = append(warnings, NewWarning(UnknownServiceCode, SeverityError, wo.ID,
			fmt.Sprintf("service code %q is not in the rule table", wo.ServiceCode)))
		return warnings
	}

	if rule.Scope == ScopePerWorkOrder {
		// Dispenser data is irrelevant for work-order-scoped codes.
		return warnings
	}

	if len(wo.Dispensers) == 0 {
		warnings = append(warnings, NewWarning(NoDispenserData, SeverityError, wo.ID,
			"no dispenser data — filter quantities may be incomplete"))
		return warnings
	}

	for _, d := range wo.Dispensers {
		if !hasRawGrades(d) {
			warnings = append(warnings, NewWarning(UnclassifiableFuelGrade, SeverityWarning, wo.ID,
				fmt.Sprintf("dispenser %d has no fuel grade data", d.Number)))
		}
	}

	return warnings
}

// hasRawGrades reports whether a dispenser carries at least one non-empty
// grade label.
func hasRawGrades(d Dispenser) bool {
	for _, g := range d.RawGrades {
		if g != "" {
			return true
		}
	}
	return false
}
