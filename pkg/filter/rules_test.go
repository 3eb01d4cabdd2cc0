package filter

import (
	"testing"
)

func TestRuleTable_LookupDefaultChain(t *testing.T) {
	table := NewTestRuleTable()

	parts, err := table.Lookup(CodeAllDispenserMeter, "GenericMart", gradeSetOf(Regular, Plus))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %v", parts)
	}
	if parts[0].PartNumber != testStandardPart || parts[0].Quantity != 1 {
		t.Errorf("expected %s x1, got %s x%d", testStandardPart, parts[0].PartNumber, parts[0].Quantity)
	}
}

func TestRuleTable_ChainOverrideReplacesDefault(t *testing.T) {
	table := NewTestRuleTable()

	parts, err := table.Lookup(CodeAllDispenserMeter, "QuickFuel", gradeSetOf(Regular))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if len(parts) != 1 || parts[0].PartNumber != testChainPart {
		t.Errorf("expected QuickFuel override %s, got %v", testChainPart, parts)
	}
}

func TestRuleTable_ChainMatchingIsNormalized(t *testing.T) {
	table := NewTestRuleTable()

	for _, chain := range []Chain{"quickfuel", "QUICKFUEL", "  QuickFuel  "} {
		parts, err := table.Lookup(CodeAllDispenserMeter, chain, gradeSetOf(Regular))
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", chain, err)
		}
		if parts[0].PartNumber != testChainPart {
			t.Errorf("chain %q: expected override %s, got %v", chain, testChainPart, parts)
		}
	}
}

func TestRuleTable_GradeSupplementsAddToBase(t *testing.T) {
	table := NewTestRuleTable()

	parts, err := table.Lookup(CodeAllDispenserMeter, "GenericMart", gradeSetOf(Regular, Diesel, EthanolFree))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	want := []PartNumber{testStandardPart, testDieselPart, testEthanolPart}
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %v", len(want), parts)
	}
	for i, pn := range want {
		if parts[i].PartNumber != pn {
			t.Errorf("parts[%d] = %s, want %s", i, parts[i].PartNumber, pn)
		}
	}
}

func TestRuleTable_SupplementsApplyToChainOverride(t *testing.T) {
	table := NewTestRuleTable()

	parts, err := table.Lookup(CodeAllDispenserMeter, "QuickFuel", gradeSetOf(Diesel))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if len(parts) != 2 || parts[0].PartNumber != testChainPart || parts[1].PartNumber != testDieselPart {
		t.Errorf("expected [%s %s], got %v", testChainPart, testDieselPart, parts)
	}
}

func TestRuleTable_UnknownServiceCode(t *testing.T) {
	table := NewTestRuleTable()

	if table.Recognizes("9999") {
		t.Error("Recognizes(9999) = true, want false")
	}
	if _, err := table.Lookup("9999", "GenericMart", gradeSetOf(Regular)); err == nil {
		t.Error("expected error for unknown service code")
	}
}

func TestDefaultRuleTable(t *testing.T) {
	table := DefaultRuleTable()

	for _, code := range []ServiceCode{CodeAllDispenserMeter, CodeSpecificDispenser, CodeFullSite, CodeOpenNeckProver} {
		if !table.Recognizes(code) {
			t.Errorf("default table does not recognize %s", code)
		}
	}

	rule, _ := table.Rule(CodeOpenNeckProver)
	if rule.Scope != ScopePerWorkOrder {
		t.Errorf("open neck prover scope = %v, want %v", rule.Scope, ScopePerWorkOrder)
	}

	// 7-Eleven sites get the chain spec filter instead of the standard one.
	parts, err := table.Lookup(CodeFullSite, "7-Eleven", gradeSetOf(Regular))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if parts[0].PartNumber != PartSevenElevenFilter {
		t.Errorf("7-Eleven base part = %s, want %s", parts[0].PartNumber, PartSevenElevenFilter)
	}
}
