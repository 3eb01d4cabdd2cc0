package filter

import (
	"strings"
)

// gradeKeyword maps a label substring to a canonical grade. Matching is
// case-insensitive substring matching because the scraped labels are
// inconsistent ("Reg", "REGULAR 87", "regular unleaded").
type gradeKeyword struct {
	keyword string
	grade   FuelGrade
}

// Ordered by precedence. Ethanol-free and race fuel are matched before
// the octane grades so that "Ethanol Free Premium" classifies as
// EthanolFree plus whatever octane keywords also match.
var gradeKeywords = []gradeKeyword{
	{"ethanol-free", EthanolFree},
	{"ethanol free", EthanolFree},
	{"race fuel", RaceFuel},
	{"special 88", Special88},
	{"extra 89", Extra89},
	{"super", Super},
	{"ultra", Ultra},
	{"plus", Plus},
	{"midgrade", Plus},
	{"mid grade", Plus},
	{"regular", Regular},
	{"diesel", Diesel},
}

// Classify maps one dispenser's raw grade labels to its canonical grade
// set. A dispenser commonly classifies to several grades at once; an
// empty result means no keyword matched anything, which the caller must
// record as a data-quality warning.
//
// "Premium" is a fallback, not a grade of its own: it fills the Super
// slot only when neither "super" nor "ultra" appears anywhere in the
// same dispenser's labels. When either does, Premium contributes
// nothing.
func Classify(rawGrades []string) GradeSet {
	grades := GradeSet{}

	lowered := make([]string, 0, len(rawGrades))
	superOrUltra := false
	for _, raw := range rawGrades {
		l := strings.ToLower(raw)
		lowered = append(lowered, l)
		if strings.Contains(l, "super") || strings.Contains(l, "ultra") {
			superOrUltra = true
		}
	}

	for _, l := range lowered {
		for _, kw := range gradeKeywords {
			if strings.Contains(l, kw.keyword) {
				grades.Add(kw.grade)
			}
		}
		if strings.Contains(l, "premium") && !superOrUltra {
			grades.Add(Super)
		}
	}

	return grades
}
