// Package medication implements the medication administration event model
// and the period reconstruction logic built on top of it.
package medication

import (
	"strings"
	"time"
)

// Action target literals. Free-text action strings are classified against
// these by substring containment, not by equality alone.
const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// WireTimeLayout is the event_time format on the wire: second precision
// with a mandatory numeric UTC offset.
const WireTimeLayout = "2006-01-02T15:04:05-0700"

// ReportTimeLayout is how timestamps are rendered in reports: UTC,
// second precision, no offset suffix.
const ReportTimeLayout = "2006-01-02 15:04:05"

// Event is one immutable administration fact for a patient+medication pair.
// The (PatientID, MedicationName, Action, EventTime) tuple is unique in the
// store; EventTime is epoch seconds with UTC semantics.
type Event struct {
	PatientID      int64  `json:"p_id"`
	MedicationName string `json:"medication_name"`
	Action         string `json:"action"`
	EventTime      int64  `json:"event_time"`
}

// TargetAction returns the action family an event is classified under:
// ActionStart when the literal "start" occurs anywhere in the action
// string, ActionStop otherwise. Unrecognized actions therefore fall into
// the stop family and are resolved against the "stop" literal later.
func (e Event) TargetAction() string {
	if strings.Contains(e.Action, ActionStart) {
		return ActionStart
	}
	return ActionStop
}

// FormatReportTime renders an epoch-seconds timestamp for report output.
func FormatReportTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(ReportTimeLayout)
}

// ParseWireTime parses an event_time string from the wire. The offset is
// required; a bare local timestamp is a malformed event.
func ParseWireTime(s string) (time.Time, error) {
	return time.Parse(WireTimeLayout, s)
}
