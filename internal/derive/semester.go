package derive

import (
	"fmt"
	"regexp"

	"github.com/ahmadqo/campus-console/internal/model"
)

// ExpandSemesters turns one course draft into n per-semester records:
// ids BASE_S01..BASE_Snn and descriptions suffixed " (Sem k)". With n <= 1
// the draft is returned as the only element.
func ExpandSemesters(draft model.Record, idField, descField string, n int) []model.Record {
	if n <= 1 {
		return []model.Record{draft.Clone()}
	}

	base := draft.ID(idField)
	desc := draft.String(descField)

	out := make([]model.Record, 0, n)
	for k := 1; k <= n; k++ {
		rec := draft.Clone()
		rec[idField] = fmt.Sprintf("%s_S%02d", base, k)
		rec[descField] = fmt.Sprintf("%s (Sem %d)", desc, k)
		out = append(out, rec)
	}
	return out
}

var semesterSuffix = regexp.MustCompile(`_S\d{2,}$`)

// SemesterBase strips a "_Snn" semester suffix so expanded course ids count
// toward their base id when computing the next one.
func SemesterBase(id string) string {
	return semesterSuffix.ReplaceAllString(id, "")
}
