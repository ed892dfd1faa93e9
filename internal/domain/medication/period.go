package medication

import "strings"

// Period is the derived current start/stop pair for one medication of one
// patient. Timestamps are pre-rendered in ReportTimeLayout; an empty string
// means no value is recorded for that side. Periods are never persisted,
// they are rebuilt from the full event history on every query.
type Period struct {
	Start string
	Stop  string
}

// Reconstruct folds an unordered event history for a single patient into a
// medication name -> Period map.
//
// Per event, against its target action T (see Event.TargetAction):
//   - action == T exactly: keep the maximum timestamp seen so far for T,
//     so out-of-order delivery resolves to the latest event time.
//   - T is a proper substring of action (e.g. "start_extra"): clear any
//     recorded value for T on this medication.
//   - T absent entirely (only possible for the forced stop family, e.g.
//     action "test"): no-op.
//
// The result is independent of input order: exact matches are a max fold
// and partial matches clear regardless of position.
func Reconstruct(events []Event) map[string]*Period {
	periods := make(map[string]*Period)

	for _, ev := range events {
		target := ev.TargetAction()
		if !strings.Contains(ev.Action, target) {
			continue
		}

		p, ok := periods[ev.MedicationName]
		if !ok {
			p = &Period{}
			periods[ev.MedicationName] = p
		}

		if ev.Action == target {
			formatted := FormatReportTime(ev.EventTime)
			// ReportTimeLayout is zero padded, so lexicographic order is
			// chronological order.
			switch target {
			case ActionStart:
				if p.Start == "" || p.Start < formatted {
					p.Start = formatted
				}
			case ActionStop:
				if p.Stop == "" || p.Stop < formatted {
					p.Stop = formatted
				}
			}
			continue
		}

		// Partial match wipes the recorded value for the target side.
		switch target {
		case ActionStart:
			p.Start = ""
		case ActionStop:
			p.Stop = ""
		}
	}

	return periods
}
