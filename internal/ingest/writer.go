// Package ingest consumes administration events from the broker queue and
// writes them to the event store with at-least-once delivery folded into
// exactly-once storage by the store's conditional insert.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/medwatch/go-medtrack/internal/domain/medication"
	"github.com/medwatch/go-medtrack/pkg/circuitbreaker"
)

// Status is the outcome of persisting one event.
type Status int

const (
	// StatusInserted means a new row was written.
	StatusInserted Status = iota
	// StatusDuplicate means an identical tuple already existed; the write
	// was a no-op, not an error.
	StatusDuplicate
	// StatusMalformed means the raw fields could not be turned into a
	// valid event. Nothing was written and retrying cannot help.
	StatusMalformed
)

// String returns the status name for logs.
func (s Status) String() string {
	switch s {
	case StatusInserted:
		return "inserted"
	case StatusDuplicate:
		return "duplicate"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// RawEvent holds the decoded wire fields before timestamp validation.
type RawEvent struct {
	PatientID      int64
	MedicationName string
	Action         string
	EventTime      string
}

// Writer turns raw events into deduplicated event store writes.
type Writer struct {
	store   medication.Store
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewWriter creates a writer. The breaker is optional; when set, store
// calls are routed through it so an unavailable database fails fast.
func NewWriter(store medication.Store, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{store: store, breaker: breaker, logger: logger}
}

// Persist validates the event timestamp and performs the conditional
// insert. A timestamp that does not carry an explicit UTC offset is a
// malformed event: nothing is written and no error is returned, since the
// payload can never become valid on retry. A non-nil error means the store
// itself failed and the message should be left to broker redelivery.
func (w *Writer) Persist(ctx context.Context, raw RawEvent) (Status, error) {
	ts, err := medication.ParseWireTime(raw.EventTime)
	if err != nil {
		w.logger.Warn("event_time does not parse",
			zap.Int64("p_id", raw.PatientID),
			zap.String("medication_name", raw.MedicationName),
			zap.String("event_time", raw.EventTime),
			zap.Error(err),
		)
		return StatusMalformed, nil
	}

	ev := medication.Event{
		PatientID:      raw.PatientID,
		MedicationName: raw.MedicationName,
		Action:         raw.Action,
		EventTime:      ts.Unix(),
	}

	var inserted bool
	if w.breaker != nil {
		result, err := w.breaker.Execute(ctx, func() (interface{}, error) {
			return w.store.InsertIfAbsent(ctx, ev)
		})
		if err != nil {
			return 0, err
		}
		inserted = result.(bool)
	} else {
		inserted, err = w.store.InsertIfAbsent(ctx, ev)
		if err != nil {
			return 0, err
		}
	}

	if !inserted {
		return StatusDuplicate, nil
	}
	return StatusInserted, nil
}
