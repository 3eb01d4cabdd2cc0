package filter

import (
	"fmt"
)

// Resolver turns one dispenser (or one open-neck-prover work order) into
// its filter requirements using an injected rule table. Pure given its
// inputs; it never selects dispensers itself.
type Resolver struct {
	rules *RuleTable
}

// NewResolver creates a resolver over the given rule table.
func NewResolver(rules *RuleTable) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve computes the filter requirements for one dispenser under the
// work order's service code. For code 2862 the caller must pass only
// dispensers already selected by the instruction parser. Quantities in
// the rule table are per dispenser; no further multiplication happens
// here.
//
// Errors here are contract violations (unknown code, work-order-scoped
// code), not data-quality findings; the Calculator validates before
// resolving and converts anything that still slips through into a
// Warning.
func (r *Resolver) Resolve(wo WorkOrder, d Dispenser, grades GradeSet) ([]FilterRequirement, error) {
	rule, ok := r.rules.Rule(wo.ServiceCode)
	if !ok {
		return nil, fmt.Errorf("unknown service code %q on work order %s", wo.ServiceCode, wo.ID)
	}
	if rule.Scope == ScopePerWorkOrder {
		return nil, fmt.Errorf("service code %q resolves at work-order level, not per dispenser", wo.ServiceCode)
	}

	parts, err := r.rules.Lookup(wo.ServiceCode, wo.Chain, grades)
	if err != nil {
		return nil, err
	}

	reqs := make([]FilterRequirement, 0, len(parts))
	for _, pq := range parts {
		reqs = append(reqs, FilterRequirement{
			PartNumber:      pq.PartNumber,
			Quantity:        pq.Quantity,
			DispenserID:     d.ID,
			DispenserNumber: d.Number,
		})
	}
	return reqs, nil
}

// ResolveOpenNeckProver computes the requirements for a work-order-scoped
// service code. The result is independent of the dispenser count: a
// prover visit needs its kit whether the site has zero dispensers on
// record or twelve. Callers must not also iterate dispensers for these
// codes.
func (r *Resolver) ResolveOpenNeckProver(wo WorkOrder) ([]FilterRequirement, error) {
	rule, ok := r.rules.Rule(wo.ServiceCode)
	if !ok {
		return nil, fmt.Errorf("unknown service code %q on work order %s", wo.ServiceCode, wo.ID)
	}
	if rule.Scope != ScopePerWorkOrder {
		return nil, fmt.Errorf("service code %q resolves per dispenser, not at work-order level", wo.ServiceCode)
	}

	parts := rule.baseParts(wo.Chain)
	reqs := make([]FilterRequirement, 0, len(parts))
	for _, pq := range parts {
		reqs = append(reqs, FilterRequirement{
			PartNumber: pq.PartNumber,
			Quantity:   pq.Quantity,
		})
	}
	return reqs, nil
}
