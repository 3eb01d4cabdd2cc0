package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fossawork/fossawork/pkg/filter"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories/yamlrules"
	"github.com/fossawork/fossawork/pkg/interfaces/cli/output"
)

func main() {
	var (
		rulesFile   = flag.String("rules", "", "Path to rules YAML file (default: built-in rule table)")
		catalogFile = flag.String("catalog", "", "Path to parts catalog YAML file (optional)")
		ordersFile  = flag.String("workorders", "", "Path to work order export JSON file")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Include per-work-order breakdown in text output")
	)

	flag.Parse()

	if err := run(*rulesFile, *catalogFile, *ordersFile, *format, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rulesFile, catalogFile, ordersFile, format string, verbose bool) error {
	if ordersFile == "" {
		return fmt.Errorf("-workorders is required")
	}

	table := filter.DefaultRuleTable()
	if rulesFile != "" {
		loaded, err := yamlrules.LoadRuleTable(rulesFile)
		if err != nil {
			return err
		}
		table = loaded
	}

	var catalog *filter.PartsCatalog
	if catalogFile != "" {
		loaded, err := yamlrules.LoadCatalog(catalogFile)
		if err != nil {
			return err
		}
		catalog = loaded
	}

	raw, err := os.ReadFile(ordersFile)
	if err != nil {
		return fmt.Errorf("read work orders: %w", err)
	}
	var workOrders []filter.WorkOrder
	if err := json.Unmarshal(raw, &workOrders); err != nil {
		return fmt.Errorf("parse work orders: %w", err)
	}

	summary := filter.NewCalculator(table).Calculate(workOrders)

	return output.Generate(os.Stdout, summary, output.Config{
		Format:  format,
		Verbose: verbose,
		Catalog: catalog,
	})
}
