package medication

import (
	"fmt"
	"sort"
	"strings"
)

// Report renders the reconstructed period map for one patient as plain
// text: a header line followed by one classified line per medication.
// Medications are listed in name order so the output is deterministic.
//
// Classification per medication:
//   - start and stop present, start < stop: a normal interval line.
//   - stop only: end-time-only line.
//   - start only: start-time-only line.
//   - start and stop present, start > stop: inverted-interval line.
//   - start == stop: no line (undefined case, intentionally silent).
//
// When no medication produced a line at all the not-found text is
// returned instead of a header-only report.
func Report(periods map[string]*Period, patientID int64) string {
	lines := []string{fmt.Sprintf("Report for p_id %d", patientID)}

	names := make([]string, 0, len(periods))
	for name := range periods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := periods[name]
		switch {
		case p.Start != "" && p.Stop != "" && p.Start < p.Stop:
			lines = append(lines, fmt.Sprintf("Medicine %s start time %s and ends %s", name, p.Start, p.Stop))
		case p.Start == "" && p.Stop != "":
			lines = append(lines, fmt.Sprintf("The Medicine %s have only end time", name))
		case p.Start != "" && p.Stop == "":
			lines = append(lines, fmt.Sprintf("The Medicine %s have only start time", name))
		case p.Start != "" && p.Stop != "" && p.Start > p.Stop:
			lines = append(lines, fmt.Sprintf("The start time and stop time of Medicine %s is wrong", name))
		}
	}

	if len(lines) == 1 {
		return fmt.Sprintf("Didn't found any Medicines for p_id %d", patientID)
	}
	return strings.Join(lines, "\n")
}
