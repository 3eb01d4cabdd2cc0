package filter

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fixture part numbers used throughout the package tests.
const (
	testStandardPart PartNumber = "RF-STD"
	testDieselPart   PartNumber = "RF-DSL"
	testEthanolPart  PartNumber = "RF-EF"
	testChainPart    PartNumber = "RF-QF"
	testProverPart   PartNumber = "RF-ONP"
)

// NewTestRuleTable builds a compact rule table covering all four scopes
// with predictable quantities: every per-dispenser code needs one
// RF-STD, QuickFuel sites swap it for RF-QF, diesel and ethanol-free
// grades add one supplemental part each, and 3146 needs one RF-ONP per
// work order.
func NewTestRuleTable() *RuleTable {
	standard := []PartQuantity{{PartNumber: testStandardPart, Quantity: 1}}
	chain := map[string][]PartQuantity{
		"quickfuel": {{PartNumber: testChainPart, Quantity: 1}},
	}
	supplements := map[FuelGrade][]PartQuantity{
		Diesel:      {{PartNumber: testDieselPart, Quantity: 1}},
		EthanolFree: {{PartNumber: testEthanolPart, Quantity: 1}},
	}

	return NewRuleTable([]ServiceCodeRule{
		{
			Code:             CodeAllDispenserMeter,
			Scope:            ScopeAllDispensers,
			DefaultParts:     standard,
			ChainParts:       chain,
			GradeSupplements: supplements,
		},
		{
			Code:             CodeSpecificDispenser,
			Scope:            ScopeNamedDispensers,
			DefaultParts:     standard,
			ChainParts:       chain,
			GradeSupplements: supplements,
		},
		{
			Code:             CodeFullSite,
			Scope:            ScopeAllDispensers,
			DefaultParts:     standard,
			ChainParts:       chain,
			GradeSupplements: supplements,
		},
		{
			Code:         CodeOpenNeckProver,
			Scope:        ScopePerWorkOrder,
			DefaultParts: []PartQuantity{{PartNumber: testProverPart, Quantity: 1}},
		},
	})
}

// NewTestCatalog builds a catalog pricing the fixture parts.
func NewTestCatalog() *PartsCatalog {
	return NewPartsCatalog([]Part{
		{PartNumber: testStandardPart, Description: "Standard 10 micron", UnitCost: decimal.NewFromFloat(12.50)},
		{PartNumber: testDieselPart, Description: "Diesel hydrosorb", UnitCost: decimal.NewFromFloat(18.00)},
		{PartNumber: testEthanolPart, Description: "Alcohol compatible", UnitCost: decimal.NewFromFloat(21.25)},
		{PartNumber: testChainPart, Description: "QuickFuel spec variant", UnitCost: decimal.NewFromFloat(14.75)},
		{PartNumber: testProverPart, Description: "Open neck prover kit", UnitCost: decimal.NewFromFloat(95.00)},
	})
}

// newTestWorkOrder builds a work order with one dispenser per grade
// label set, numbered from 1.
func newTestWorkOrder(id string, code ServiceCode, chain Chain, gradeSets ...[]string) WorkOrder {
	wo := WorkOrder{
		ID:          id,
		ServiceCode: code,
		StoreNumber: "1001",
		Chain:       chain,
	}
	for i, grades := range gradeSets {
		wo.Dispensers = append(wo.Dispensers, Dispenser{
			ID:        fmt.Sprintf("%s-d%d", id, i+1),
			Number:    i + 1,
			RawGrades: grades,
		})
	}
	return wo
}
