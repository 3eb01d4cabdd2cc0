package yamlrules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fossawork/fossawork/pkg/filter"
)

const validRules = `
service_codes:
  - code: "2861"
    description: "Meter calibration, all dispensers"
    scope: all_dispensers
    default_parts:
      - part: CT-300-10
        qty: 1
    chains:
      "7-Eleven":
        - part: PC-40510A
          qty: 1
    grade_supplements:
      Diesel:
        - part: CT-300HS-10
          qty: 1
  - code: "3146"
    description: "Open neck prover"
    scope: per_work_order
    default_parts:
      - part: ONP-KIT-1
        qty: 1
`

const validCatalog = `
parts:
  - part: CT-300-10
    description: "Standard 10 micron"
    unit_cost: "12.50"
  - part: ONP-KIT-1
    description: "Prover kit"
    unit_cost: "95.00"
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadRuleTable(t *testing.T) {
	path := writeTempFile(t, "rules.yaml", validRules)

	table, err := LoadRuleTable(path)
	if err != nil {
		t.Fatalf("LoadRuleTable failed: %v", err)
	}

	if !table.Recognizes("2861") || !table.Recognizes("3146") {
		t.Fatalf("loaded table missing expected codes: %v", table.Codes())
	}

	rule, _ := table.Rule("3146")
	if rule.Scope != filter.ScopePerWorkOrder {
		t.Errorf("3146 scope = %v, want %v", rule.Scope, filter.ScopePerWorkOrder)
	}

	parts, err := table.Lookup("2861", "7-ELEVEN", filter.GradeSet{filter.Diesel: true})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(parts) != 2 || parts[0].PartNumber != "PC-40510A" || parts[1].PartNumber != "CT-300HS-10" {
		t.Errorf("lookup = %v, want chain override plus diesel supplement", parts)
	}
}

func TestLoadRuleTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty_document",
			yaml:    "service_codes: []\n",
			wantErr: "no service codes",
		},
		{
			name: "missing_code",
			yaml: `
service_codes:
  - scope: all_dispensers
    default_parts: [{part: X, qty: 1}]
`,
			wantErr: "code is required",
		},
		{
			name: "bad_scope",
			yaml: `
service_codes:
  - code: "2861"
    scope: sometimes
    default_parts: [{part: X, qty: 1}]
`,
			wantErr: "unknown scope",
		},
		{
			name: "zero_quantity",
			yaml: `
service_codes:
  - code: "2861"
    scope: all_dispensers
    default_parts: [{part: X, qty: 0}]
`,
			wantErr: "qty must be positive",
		},
		{
			name: "unknown_grade",
			yaml: `
service_codes:
  - code: "2861"
    scope: all_dispensers
    default_parts: [{part: X, qty: 1}]
    grade_supplements:
      Premium: [{part: Y, qty: 1}]
`,
			wantErr: "unknown fuel grade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "rules.yaml", tt.yaml)
			_, err := LoadRuleTable(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadRuleTable error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := writeTempFile(t, "catalog.yaml", validCatalog)

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("catalog has %d parts, want 2", catalog.Len())
	}

	part, ok := catalog.Lookup("CT-300-10")
	if !ok {
		t.Fatal("CT-300-10 not in catalog")
	}
	if part.UnitCost.String() != "12.5" {
		t.Errorf("unit cost = %s, want 12.5", part.UnitCost)
	}
}

func TestLoadCatalog_BadCost(t *testing.T) {
	path := writeTempFile(t, "catalog.yaml", `
parts:
  - part: CT-300-10
    unit_cost: "a lot"
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for unparseable unit cost")
	}
}
