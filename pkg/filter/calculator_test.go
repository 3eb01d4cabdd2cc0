package filter

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func TestCalculator_ConcreteScenario(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	// WO-100: per-dispenser code, one two-grade gasoline dispenser and
	// one diesel dispenser.
	wo := newTestWorkOrder("WO-100", CodeAllDispenserMeter, "GenericMart",
		[]string{"Regular", "Plus"},
		[]string{"Diesel"},
	)

	summary := calc.Calculate([]WorkOrder{wo})

	if got := summary.Totals[testStandardPart]; got != 2 {
		t.Errorf("%s total = %d, want 2 (one per dispenser)", testStandardPart, got)
	}
	if got := summary.Totals[testDieselPart]; got != 1 {
		t.Errorf("%s total = %d, want 1 (diesel dispenser only)", testDieselPart, got)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", summary.Warnings)
	}
	if len(summary.Breakdown) != 1 || summary.Breakdown[0].WorkOrderID != "WO-100" {
		t.Fatalf("expected one breakdown for WO-100, got %v", summary.Breakdown)
	}
	if len(summary.Breakdown[0].Requirements) != 3 {
		t.Errorf("breakdown requirement count = %d, want 3", len(summary.Breakdown[0].Requirements))
	}
}

func TestCalculator_NoDoubleCounting(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	const n = 4
	sets := make([][]string, n)
	for i := range sets {
		sets[i] = []string{"Regular"}
	}
	wo := newTestWorkOrder("WO-200", CodeFullSite, "GenericMart", sets...)

	summary := calc.Calculate([]WorkOrder{wo})

	if got := summary.Totals[testStandardPart]; got != n {
		t.Errorf("%s total = %d, want %d", testStandardPart, got, n)
	}
}

func TestCalculator_OpenNeckProverSingularity(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	for _, dispensers := range []int{0, 1, 5} {
		sets := make([][]string, dispensers)
		for i := range sets {
			sets[i] = []string{"Regular"}
		}
		wo := newTestWorkOrder("WO-ONP", CodeOpenNeckProver, "GenericMart", sets...)

		summary := calc.Calculate([]WorkOrder{wo})

		if got := summary.Totals[testProverPart]; got != 1 {
			t.Errorf("%d dispensers: %s total = %d, want exactly 1", dispensers, testProverPart, got)
		}
		if got := summary.Totals[testStandardPart]; got != 0 {
			t.Errorf("%d dispensers: prover job must not emit per-dispenser parts, got %d", dispensers, got)
		}
		if len(summary.Warnings) != 0 {
			t.Errorf("%d dispensers: unexpected warnings %v", dispensers, summary.Warnings)
		}
	}
}

func TestCalculator_UnknownServiceCode(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())
	wo := newTestWorkOrder("WO-300", "9999", "GenericMart", []string{"Regular"})

	summary := calc.Calculate([]WorkOrder{wo})

	if len(summary.Totals) != 0 {
		t.Errorf("totals = %v, want empty for unknown service code", summary.Totals)
	}
	if len(summary.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", summary.Warnings)
	}
	w := summary.Warnings[0]
	if w.Kind != UnknownServiceCode || w.Severity != SeverityError || w.WorkOrderID != "WO-300" {
		t.Errorf("unexpected warning: %+v", w)
	}
	if !summary.Breakdown[0].Skipped {
		t.Error("breakdown for the failed work order should be marked skipped")
	}
}

func TestCalculator_PartialBatchResilience(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	batch := []WorkOrder{
		newTestWorkOrder("WO-1", CodeAllDispenserMeter, "GenericMart", []string{"Regular"}),
		newTestWorkOrder("WO-2", CodeAllDispenserMeter, "GenericMart"), // no dispensers
		newTestWorkOrder("WO-3", CodeAllDispenserMeter, "GenericMart", []string{"Regular"}),
	}

	summary := calc.Calculate(batch)

	if got := summary.Totals[testStandardPart]; got != 2 {
		t.Errorf("%s total = %d, want 2 (WO-1 and WO-3)", testStandardPart, got)
	}
	if len(summary.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one for WO-2", summary.Warnings)
	}
	w := summary.Warnings[0]
	if w.Kind != NoDispenserData || w.WorkOrderID != "WO-2" || w.Severity != SeverityError {
		t.Errorf("unexpected warning: %+v", w)
	}
}

func TestCalculator_UnclassifiableDispenserDoesNotBlockSiblings(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	wo := newTestWorkOrder("WO-400", CodeAllDispenserMeter, "GenericMart",
		[]string{"Regular"},
		[]string{"Kerosene"}, // matches nothing
		[]string{"Diesel"},
	)

	summary := calc.Calculate([]WorkOrder{wo})

	if got := summary.Totals[testStandardPart]; got != 2 {
		t.Errorf("%s total = %d, want 2 (unclassifiable dispenser skipped, siblings kept)", testStandardPart, got)
	}
	if got := summary.Totals[testDieselPart]; got != 1 {
		t.Errorf("%s total = %d, want 1", testDieselPart, got)
	}
	if len(summary.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the unclassifiable dispenser", summary.Warnings)
	}
	if summary.Warnings[0].Kind != UnclassifiableFuelGrade || summary.Warnings[0].Severity != SeverityWarning {
		t.Errorf("unexpected warning: %+v", summary.Warnings[0])
	}
}

func TestCalculator_EmptyGradeStringsWarnOnce(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	wo := newTestWorkOrder("WO-500", CodeAllDispenserMeter, "GenericMart",
		[]string{"Regular"},
		[]string{""},
	)

	summary := calc.Calculate([]WorkOrder{wo})

	if got := summary.Totals[testStandardPart]; got != 1 {
		t.Errorf("%s total = %d, want 1", testStandardPart, got)
	}
	if len(summary.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one for the empty dispenser", summary.Warnings)
	}
}

func TestCalculator_MissingServiceCode(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())
	wo := newTestWorkOrder("WO-600", "", "GenericMart", []string{"Regular"})

	summary := calc.Calculate([]WorkOrder{wo})

	if len(summary.Totals) != 0 {
		t.Errorf("totals = %v, want empty", summary.Totals)
	}
	if len(summary.Warnings) != 1 || summary.Warnings[0].Kind != UnknownServiceCode {
		t.Errorf("warnings = %v, want one unknown_service_code", summary.Warnings)
	}
}

func buildMixedBatch() []WorkOrder {
	return []WorkOrder{
		newTestWorkOrder("WO-A", CodeAllDispenserMeter, "GenericMart", []string{"Regular", "Plus"}, []string{"Diesel"}),
		newTestWorkOrder("WO-B", CodeFullSite, "QuickFuel", []string{"Regular"}, []string{"Ethanol Free 90"}),
		newTestWorkOrder("WO-C", CodeOpenNeckProver, "GenericMart"),
		newTestWorkOrder("WO-D", CodeSpecificDispenser, "GenericMart", []string{"Premium", "Regular"}),
		newTestWorkOrder("WO-E", "9999", "GenericMart", []string{"Regular"}),
		newTestWorkOrder("WO-F", CodeAllDispenserMeter, "GenericMart"),
	}
}

func TestCalculator_AggregationIsCommutative(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())
	batch := buildMixedBatch()

	want := calc.Calculate(batch).Totals

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]WorkOrder(nil), batch...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := calc.Calculate(shuffled).Totals
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: totals differ after shuffle: got %v, want %v", trial, got, want)
		}
	}
}

func TestCalculator_Idempotence(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())
	batch := buildMixedBatch()

	first := calc.Calculate(batch)
	second := calc.Calculate(batch)

	// The timestamp is the one field allowed to differ between runs.
	first.CalculatedAt = time.Time{}
	second.CalculatedAt = time.Time{}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different summaries:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculator_TotalsEqualBreakdownSum(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	summary := calc.Calculate(buildMixedBatch())

	recomputed := make(map[PartNumber]Quantity)
	for _, b := range summary.Breakdown {
		for _, req := range b.Requirements {
			recomputed[req.PartNumber] += req.Quantity
		}
	}

	if !reflect.DeepEqual(summary.Totals, recomputed) {
		t.Errorf("totals %v do not equal breakdown sum %v", summary.Totals, recomputed)
	}
}

func TestCalculator_SpecialJobFlagsDoNotChangeQuantities(t *testing.T) {
	calc := NewCalculator(NewTestRuleTable())

	plain := newTestWorkOrder("WO-700", CodeAllDispenserMeter, "GenericMart", []string{"Regular"})
	flagged := plain
	flagged.Special = SpecialJob{NewStore: true, MultiDay: true, Priority: true}

	plainTotals := calc.Calculate([]WorkOrder{plain}).Totals
	flaggedTotals := calc.Calculate([]WorkOrder{flagged}).Totals

	if !reflect.DeepEqual(plainTotals, flaggedTotals) {
		t.Errorf("special job flags changed quantities: %v vs %v", plainTotals, flaggedTotals)
	}
}
