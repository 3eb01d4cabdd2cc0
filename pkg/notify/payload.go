// Package notify turns a filter summary into notification deliveries.
// The payload builder is pure; the sinks (email, Pushover, NATS) are the
// external effects, fanned out by the Dispatcher.
package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fossawork/fossawork/pkg/filter"
)

// Payload is the channel-agnostic notification content built from one
// calculation. Every sink renders the same payload.
type Payload struct {
	Subject     string                                `json:"subject"`
	Body        string                                `json:"body"`
	Totals      map[filter.PartNumber]filter.Quantity `json:"totals"`
	Warnings    []string                              `json:"warnings,omitempty"`
	Tags        []string                              `json:"tags,omitempty"`
	GeneratedAt time.Time                             `json:"generated_at"`
}

// BuildPayload renders a summary into a payload. catalog may be nil;
// when present, part descriptions and a cost estimate are included.
// Special-job flags on the work orders become tags so the recipient can
// spot new-store and multi-day visits without opening the portal.
func BuildPayload(summary *filter.FilterSummary, catalog *filter.PartsCatalog, orders []filter.WorkOrder) Payload {
	p := Payload{
		Totals:      summary.Totals,
		Tags:        collectTags(orders),
		GeneratedAt: summary.CalculatedAt,
	}

	parts := sortedParts(summary.Totals)
	var total filter.Quantity
	for _, pn := range parts {
		total += summary.Totals[pn]
	}
	p.Subject = fmt.Sprintf("Filters needed: %d across %d work orders", total, len(orders))

	var b strings.Builder
	if len(parts) == 0 {
		b.WriteString("No filters required.\n")
	}
	for _, pn := range parts {
		line := fmt.Sprintf("%-14s x%d", pn, summary.Totals[pn])
		if catalog != nil {
			if part, ok := catalog.Lookup(pn); ok {
				line += "  " + part.Description
			}
		}
		b.WriteString(line + "\n")
	}

	if catalog != nil && len(parts) > 0 {
		cost, missing := catalog.EstimateCost(summary)
		fmt.Fprintf(&b, "Estimated cost: $%s\n", cost.StringFixed(2))
		if len(missing) > 0 {
			fmt.Fprintf(&b, "(no pricing for: %v)\n", missing)
		}
	}

	for _, w := range summary.Warnings {
		msg := w.Message
		if w.WorkOrderID != "" {
			msg = w.WorkOrderID + ": " + msg
		}
		p.Warnings = append(p.Warnings, msg)
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range p.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "\nJob notes: %s\n", strings.Join(p.Tags, ", "))
	}

	p.Body = b.String()
	return p
}

func sortedParts(totals map[filter.PartNumber]filter.Quantity) []filter.PartNumber {
	parts := make([]filter.PartNumber, 0, len(totals))
	for pn := range totals {
		parts = append(parts, pn)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })
	return parts
}

func collectTags(orders []filter.WorkOrder) []string {
	var tags []string
	add := func(cond bool, id, tag string) {
		if cond {
			tags = append(tags, id+": "+tag)
		}
	}
	for _, wo := range orders {
		add(wo.Special.NewStore, wo.ID, "new store")
		add(wo.Special.Remodel, wo.ID, "remodel")
		add(wo.Special.MultiDay, wo.ID, "multi-day")
		add(wo.Special.Priority, wo.ID, "priority")
	}
	return tags
}
