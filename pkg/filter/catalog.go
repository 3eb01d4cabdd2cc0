package filter

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Part is a catalog entry for one filter SKU.
type Part struct {
	PartNumber  PartNumber      `json:"part_number"`
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PartsCatalog is a read-only reference of known filter parts. The
// calculation engine does not depend on it; reporting and notification
// layers use it to describe and price a summary.
type PartsCatalog struct {
	parts map[PartNumber]Part
}

// NewPartsCatalog builds a catalog from part entries. Later entries with
// the same part number replace earlier ones.
func NewPartsCatalog(parts []Part) *PartsCatalog {
	c := &PartsCatalog{parts: make(map[PartNumber]Part, len(parts))}
	for _, p := range parts {
		c.parts[p.PartNumber] = p
	}
	return c
}

// Lookup returns the catalog entry for a part number.
func (c *PartsCatalog) Lookup(pn PartNumber) (Part, bool) {
	p, ok := c.parts[pn]
	return p, ok
}

// Len returns the number of catalog entries.
func (c *PartsCatalog) Len() int {
	return len(c.parts)
}

// EstimateCost prices a summary's totals against the catalog. Parts
// missing from the catalog are excluded from the estimate and returned
// sorted, so the caller can surface the gap instead of reporting a
// silently low number.
func (c *PartsCatalog) EstimateCost(summary *FilterSummary) (decimal.Decimal, []PartNumber) {
	total := decimal.Zero
	var missing []PartNumber

	for pn, qty := range summary.Totals {
		part, ok := c.parts[pn]
		if !ok {
			missing = append(missing, pn)
			continue
		}
		total = total.Add(part.UnitCost.Mul(decimal.NewFromInt(int64(qty))))
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return total, missing
}
