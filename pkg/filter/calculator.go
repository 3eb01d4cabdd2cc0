package filter

import (
	"fmt"
	"time"
)

// Calculator orchestrates filter calculation over a batch of work orders.
// It holds no mutable state between calls: the rule table is read-only,
// so one Calculator may serve concurrent batches.
type Calculator struct {
	rules     *RuleTable
	resolver  *Resolver
	validator *Validator
}

// NewCalculator creates a calculator over an injected rule table.
func NewCalculator(rules *RuleTable) *Calculator {
	return &Calculator{
		rules:     rules,
		resolver:  NewResolver(rules),
		validator: NewValidator(rules),
	}
}

// Calculate processes every work order in the batch and returns the
// aggregated summary. Work orders fail independently: a validation
// failure on one becomes a Warning on the summary and the rest of the
// batch still computes. Totals are plain sums, so any permutation of the
// same batch yields the same totals.
func (c *Calculator) Calculate(workOrders []WorkOrder) *FilterSummary {
	summary := &FilterSummary{
		Totals:       make(map[PartNumber]Quantity),
		Breakdown:    make([]WorkOrderBreakdown, 0, len(workOrders)),
		Warnings:     []Warning{},
		CalculatedAt: time.Now().UTC(),
	}

	for _, wo := range workOrders {
		breakdown := c.calculateWorkOrder(wo, summary)
		summary.Breakdown = append(summary.Breakdown, breakdown)
	}

	return summary
}

// calculateWorkOrder resolves one work order, appending its warnings to
// the summary and its quantities to the totals. It returns the breakdown
// entry either way so every work order in the batch stays traceable.
func (c *Calculator) calculateWorkOrder(wo WorkOrder, summary *FilterSummary) WorkOrderBreakdown {
	breakdown := WorkOrderBreakdown{
		WorkOrderID: wo.ID,
		ServiceCode: wo.ServiceCode,
	}

	warnings := c.validator.Validate(wo)
	summary.Warnings = append(summary.Warnings, warnings...)
	for _, w := range warnings {
		if w.Severity == SeverityError {
			// Missing code, unknown code, or no dispenser data: the work
			// order contributes zero, never an estimate.
			breakdown.Skipped = true
			return breakdown
		}
	}

	rule, _ := c.rules.Rule(wo.ServiceCode)

	if rule.Scope == ScopePerWorkOrder {
		reqs, err := c.resolver.ResolveOpenNeckProver(wo)
		if err != nil {
			summary.Warnings = append(summary.Warnings,
				NewWarning(UnknownServiceCode, SeverityError, wo.ID, err.Error()))
			breakdown.Skipped = true
			return breakdown
		}
		c.accumulate(summary, &breakdown, reqs)
		return breakdown
	}

	for _, d := range wo.Dispensers {
		if !hasRawGrades(d) {
			// Already warned by the validator; contributes nothing.
			continue
		}

		grades := Classify(d.RawGrades)
		if len(grades) == 0 {
			summary.Warnings = append(summary.Warnings,
				NewWarning(UnclassifiableFuelGrade, SeverityWarning, wo.ID,
					fmt.Sprintf("dispenser %d grades %v matched no known fuel grade", d.Number, d.RawGrades)))
			continue
		}

		reqs, err := c.resolver.Resolve(wo, d, grades)
		if err != nil {
			summary.Warnings = append(summary.Warnings,
				NewWarning(UnknownServiceCode, SeverityError, wo.ID, err.Error()))
			continue
		}
		c.accumulate(summary, &breakdown, reqs)
	}

	return breakdown
}

// accumulate attributes requirements to both the flat totals and the
// work order's breakdown. Each requirement is counted exactly once.
func (c *Calculator) accumulate(summary *FilterSummary, breakdown *WorkOrderBreakdown, reqs []FilterRequirement) {
	for _, req := range reqs {
		summary.Totals[req.PartNumber] += req.Quantity
		breakdown.Requirements = append(breakdown.Requirements, req)
	}
}
