package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fossawork/fossawork/pkg/filter"
)

// Config holds configuration for output generation
type Config struct {
	Format  string
	Verbose bool
	Catalog *filter.PartsCatalog // optional; enables descriptions and cost estimate
}

// Generate renders a filter summary in the configured format.
func Generate(w io.Writer, summary *filter.FilterSummary, config Config) error {
	switch config.Format {
	case "text":
		return generateText(w, summary, config)
	case "json":
		return generateJSON(w, summary)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateText(w io.Writer, summary *filter.FilterSummary, config Config) error {
	fmt.Fprintf(w, "Filter Requirements Summary\n")
	fmt.Fprintf(w, "===========================\n\n")
	fmt.Fprintf(w, "Work Orders: %d\n", len(summary.Breakdown))
	fmt.Fprintf(w, "Warnings:    %d\n", len(summary.Warnings))
	fmt.Fprintf(w, "Calculated:  %s\n\n", summary.CalculatedAt.Format("2006-01-02 15:04:05 MST"))

	parts := make([]filter.PartNumber, 0, len(summary.Totals))
	for pn := range summary.Totals {
		parts = append(parts, pn)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })

	if len(parts) > 0 {
		fmt.Fprintf(w, "Totals:\n")
		fmt.Fprintf(w, "%-15s %-8s %s\n", "Part Number", "Qty", "Description")
		fmt.Fprintf(w, "%-15s %-8s %s\n", "---------------", "--------", "-----------")
		for _, pn := range parts {
			desc := ""
			if config.Catalog != nil {
				if part, ok := config.Catalog.Lookup(pn); ok {
					desc = part.Description
				}
			}
			fmt.Fprintf(w, "%-15s %-8d %s\n", pn, summary.Totals[pn], desc)
		}
		fmt.Fprintln(w)

		if config.Catalog != nil {
			cost, missing := config.Catalog.EstimateCost(summary)
			fmt.Fprintf(w, "Estimated cost: $%s\n", cost.StringFixed(2))
			if len(missing) > 0 {
				fmt.Fprintf(w, "No pricing for: %v\n", missing)
			}
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintf(w, "No filters required.\n\n")
	}

	if config.Verbose && len(summary.Breakdown) > 0 {
		fmt.Fprintf(w, "Per-Work-Order Breakdown:\n")
		for _, b := range summary.Breakdown {
			fmt.Fprintf(w, "  %s (code %s)", b.WorkOrderID, b.ServiceCode)
			if b.Skipped {
				fmt.Fprintf(w, " — skipped\n")
				continue
			}
			fmt.Fprintln(w)
			for _, req := range b.Requirements {
				if req.DispenserID != "" {
					fmt.Fprintf(w, "    dispenser %-3d %-15s x%d\n", req.DispenserNumber, req.PartNumber, req.Quantity)
				} else {
					fmt.Fprintf(w, "    work order    %-15s x%d\n", req.PartNumber, req.Quantity)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(summary.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n")
		for _, warning := range summary.Warnings {
			id := warning.WorkOrderID
			if id == "" {
				id = "-"
			}
			fmt.Fprintf(w, "  [%-7s] %-10s %s\n", warning.Severity, id, warning.Message)
		}
	}

	return nil
}

func generateJSON(w io.Writer, summary *filter.FilterSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}
