package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fossawork/fossawork/pkg/filter"
)

func main() {
	table := filter.DefaultRuleTable()
	calc := filter.NewCalculator(table)

	scheduled := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	workOrders := []filter.WorkOrder{
		{
			ID:            "WO-1001",
			ServiceCode:   filter.CodeAllDispenserMeter,
			StoreNumber:   "4821",
			Chain:         "QuickStop",
			ScheduledDate: scheduled,
			Dispensers: []filter.Dispenser{
				{ID: "d1", Number: 1, RawGrades: []string{"Regular", "Plus", "Premium"}},
				{ID: "d2", Number: 2, RawGrades: []string{"Regular", "Diesel"}},
			},
		},
		{
			ID:            "WO-1002",
			ServiceCode:   filter.CodeFullSite,
			StoreNumber:   "7734",
			Chain:         "7-Eleven",
			ScheduledDate: scheduled.AddDate(0, 0, 1),
			Special:       filter.SpecialJob{NewStore: true},
			Dispensers: []filter.Dispenser{
				{ID: "d1", Number: 1, RawGrades: []string{"Regular / Plus / Super"}},
			},
		},
		{
			ID:            "WO-1003",
			ServiceCode:   filter.CodeOpenNeckProver,
			StoreNumber:   "4821",
			Chain:         "QuickStop",
			ScheduledDate: scheduled,
		},
	}

	fmt.Println("Running filter calculation for scheduled route...")
	fmt.Printf("Work orders: %d\n\n", len(workOrders))

	summary := calc.Calculate(workOrders)

	fmt.Println("Filter totals:")
	for _, part := range sortedParts(summary.Totals) {
		fmt.Printf("  %-12s x%d\n", part, summary.Totals[part])
	}

	fmt.Println("\nPer work order:")
	for _, b := range summary.Breakdown {
		status := "ok"
		if b.Skipped {
			status = "skipped"
		}
		fmt.Printf("  %s (code %s, %s): %d line items\n", b.WorkOrderID, b.ServiceCode, status, len(b.Requirements))
	}

	if len(summary.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range summary.Warnings {
			fmt.Printf("  [%s] %s: %s\n", w.SeverityStr, w.WorkOrderID, w.Message)
		}
	}
}

func sortedParts(totals map[filter.PartNumber]filter.Quantity) []filter.PartNumber {
	parts := make([]filter.PartNumber, 0, len(totals))
	for p := range totals {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })
	return parts
}
