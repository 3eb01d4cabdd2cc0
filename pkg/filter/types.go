package filter

import (
	"strings"
	"time"
)

// PartNumber identifies a replacement filter part
type PartNumber string

// Quantity represents a discrete filter count
type Quantity int64

// ServiceCode identifies the type of maintenance job on a work order
type ServiceCode string

// Known service codes scraped from the scheduling portal
const (
	CodeAllDispenserMeter ServiceCode = "2861" // meter calibration, all dispensers
	CodeSpecificDispenser ServiceCode = "2862" // calibration of named dispensers only
	CodeFullSite          ServiceCode = "3002" // full-site service, all dispensers
	CodeOpenNeckProver    ServiceCode = "3146" // open neck prover, one kit per visit
)

// Chain is the retail brand owning a site, used for rule overrides
type Chain string

// FuelGrade is one of the canonical grade categories derived from
// free-text dispenser labels
type FuelGrade int

const (
	Regular FuelGrade = iota
	Plus
	Super
	Ultra
	Diesel
	EthanolFree
	RaceFuel
	Special88
	Extra89
)

func (g FuelGrade) String() string {
	switch g {
	case Regular:
		return "Regular"
	case Plus:
		return "Plus"
	case Super:
		return "Super"
	case Ultra:
		return "Ultra"
	case Diesel:
		return "Diesel"
	case EthanolFree:
		return "EthanolFree"
	case RaceFuel:
		return "RaceFuel"
	case Special88:
		return "Special88"
	case Extra89:
		return "Extra89"
	default:
		return "Unknown"
	}
}

// AllFuelGrades returns every canonical grade in declaration order.
// The order is relied on wherever grade-keyed output must be deterministic.
func AllFuelGrades() []FuelGrade {
	return []FuelGrade{
		Regular, Plus, Super, Ultra, Diesel, EthanolFree, RaceFuel, Special88, Extra89,
	}
}

// ParseFuelGrade maps a canonical grade name (as produced by String) back
// to its FuelGrade. Matching is exact apart from case.
func ParseFuelGrade(s string) (FuelGrade, bool) {
	for _, g := range AllFuelGrades() {
		if strings.EqualFold(s, g.String()) {
			return g, true
		}
	}
	return 0, false
}

// GradeSet is the set of canonical grades offered at one dispenser
type GradeSet map[FuelGrade]bool

func (s GradeSet) Has(g FuelGrade) bool {
	return s[g]
}

func (s GradeSet) Add(g FuelGrade) {
	s[g] = true
}

// Grades returns the members of the set in declaration order.
func (s GradeSet) Grades() []FuelGrade {
	var out []FuelGrade
	for _, g := range AllFuelGrades() {
		if s[g] {
			out = append(out, g)
		}
	}
	return out
}

// SpecialJob carries informational flags parsed from work order
// instructions. They classify the visit for notifications and reporting;
// they never change filter quantities.
type SpecialJob struct {
	NewStore bool `json:"new_store,omitempty"`
	Remodel  bool `json:"remodel,omitempty"`
	MultiDay bool `json:"multi_day,omitempty"`
	Priority bool `json:"priority,omitempty"`
}

// Dispenser is one fuel pump unit at a site, as scraped from the portal.
// RawGrades holds the advertised grade labels verbatim; casing and
// spelling are inconsistent in source data.
type Dispenser struct {
	ID        string   `json:"id"`
	Number    int      `json:"number"`
	RawGrades []string `json:"grades"`
	Make      string   `json:"make,omitempty"`
	Model     string   `json:"model,omitempty"`
	Serial    string   `json:"serial,omitempty"`
}

// WorkOrder is one scheduled maintenance visit at one store. For service
// code 2862 the Dispensers slice is expected to already contain only the
// dispensers named in the instructions; that selection happens upstream
// in the scraper's instruction parser.
type WorkOrder struct {
	ID            string      `json:"id"`
	ServiceCode   ServiceCode `json:"service_code"`
	StoreNumber   string      `json:"store_number"`
	Chain         Chain       `json:"chain"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Instructions  string      `json:"instructions,omitempty"`
	Special       SpecialJob  `json:"special,omitempty"`
	Dispensers    []Dispenser `json:"dispensers"`
}

// FilterRequirement is a part/quantity pair attributed to one dispenser,
// or to the work order as a whole when DispenserID is empty (open neck
// prover jobs).
type FilterRequirement struct {
	PartNumber      PartNumber `json:"part_number"`
	Quantity        Quantity   `json:"quantity"`
	DispenserID     string     `json:"dispenser_id,omitempty"`
	DispenserNumber int        `json:"dispenser_number,omitempty"`
}

// Severity classifies a Warning
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// WarningKind names the data-quality condition behind a Warning
type WarningKind string

const (
	UnknownServiceCode      WarningKind = "unknown_service_code"
	NoDispenserData         WarningKind = "no_dispenser_data"
	UnclassifiableFuelGrade WarningKind = "unclassifiable_fuel_grade"
)

// Warning records a data-quality problem found during calculation. It is
// advisory: a warning never blocks other work orders in the same batch.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	Severity    Severity    `json:"-"`
	SeverityStr string      `json:"severity"`
	WorkOrderID string      `json:"work_order_id,omitempty"`
	Message     string      `json:"message"`
}

// NewWarning builds a Warning with the serialized severity populated.
func NewWarning(kind WarningKind, sev Severity, workOrderID, message string) Warning {
	return Warning{
		Kind:        kind,
		Severity:    sev,
		SeverityStr: sev.String(),
		WorkOrderID: workOrderID,
		Message:     message,
	}
}

// WorkOrderBreakdown retains the per-work-order requirement detail for
// traceability. Skipped is true when validation blocked attribution for
// the work order, in which case Requirements is empty.
type WorkOrderBreakdown struct {
	WorkOrderID  string              `json:"work_order_id"`
	ServiceCode  ServiceCode         `json:"service_code"`
	Requirements []FilterRequirement `json:"requirements,omitempty"`
	Skipped      bool                `json:"skipped,omitempty"`
}

// FilterSummary is the output of one batch calculation: flat totals per
// part number, per-work-order breakdowns, and every warning raised.
type FilterSummary struct {
	Totals       map[PartNumber]Quantity `json:"totals"`
	Breakdown    []WorkOrderBreakdown    `json:"breakdown"`
	Warnings     []Warning               `json:"warnings"`
	CalculatedAt time.Time               `json:"calculated_at"`
}

// WarningsFor returns the warnings attached to one work order.
func (s *FilterSummary) WarningsFor(workOrderID string) []Warning {
	var out []Warning
	for _, w := range s.Warnings {
		if w.WorkOrderID == workOrderID {
			out = append(out, w)
		}
	}
	return out
}
