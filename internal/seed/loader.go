// Package seed loads the local events file used to prime the channel.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
)

// Event is one seed record in its wire form. The timestamp stays a string
// here; validation happens on the consumer side.
type Event struct {
	PatientID      int64  `json:"p_id"`
	MedicationName string `json:"medication_name"`
	Action         string `json:"action"`
	EventTime      string `json:"event_time"`
}

// Load reads a JSON array of events from path.
func Load(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return events, nil
}
