package ingest

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/medwatch/go-medtrack/internal/observability/metrics"
)

// Delivery is one queued message together with its acknowledgment
// controls. Ack removes the message from the queue; Nack with requeue
// hands it back for broker-governed redelivery.
type Delivery interface {
	Body() []byte
	Ack() error
	Nack(requeue bool) error
}

// eventMessage mirrors the wire schema. Pointers distinguish an absent
// field from a zero value.
type eventMessage struct {
	PatientID      *int64  `json:"p_id"`
	MedicationName *string `json:"medication_name"`
	Action         *string `json:"action"`
	EventTime      *string `json:"event_time"`
}

// Worker processes queue deliveries strictly one at a time: decode,
// persist, then acknowledge. The acknowledgment contract is two-phase:
//
//   - decode or validation failure: the payload is poison, log it and ack
//     so it never comes back;
//   - persisted (inserted or duplicate): ack;
//   - store failure: nack with requeue and let the broker's redelivery
//     policy drive the retry.
type Worker struct {
	writer  *Writer
	metrics *metrics.Metrics
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewWorker creates a worker. Metrics may be nil.
func NewWorker(writer *Writer, m *metrics.Metrics, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		writer:  writer,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("ingestion-worker"),
	}
}

// Handle processes a single delivery end-to-end. The returned error is
// non-nil only for store-level failures, after the message has already
// been handed back to the broker.
func (w *Worker) Handle(ctx context.Context, d Delivery) error {
	ctx, span := w.tracer.Start(ctx, "handle_event")
	defer span.End()

	if w.metrics != nil {
		w.metrics.EventsConsumed.Inc()
	}

	raw, ok := w.decode(d.Body())
	if !ok {
		w.drop(d, "payload does not decode")
		return nil
	}
	span.SetAttributes(
		attribute.Int64("p_id", raw.PatientID),
		attribute.String("medication_name", raw.MedicationName),
	)

	persistStart := time.Now()
	status, err := w.writer.Persist(ctx, raw)
	if w.metrics != nil {
		w.metrics.PersistDuration.Observe(time.Since(persistStart).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		if w.metrics != nil {
			w.metrics.StoreFailures.Inc()
		}
		w.logger.Error("event store unavailable, requeueing",
			zap.Int64("p_id", raw.PatientID),
			zap.String("medication_name", raw.MedicationName),
			zap.Error(err),
		)
		if nackErr := d.Nack(true); nackErr != nil {
			w.logger.Error("nack failed", zap.Error(nackErr))
		}
		return err
	}

	switch status {
	case StatusMalformed:
		w.drop(d, "event_time does not parse")
		return nil
	case StatusInserted:
		if w.metrics != nil {
			w.metrics.EventsInserted.Inc()
		}
		w.logger.Info("event ingested",
			zap.Int64("p_id", raw.PatientID),
			zap.String("medication_name", raw.MedicationName),
			zap.String("action", raw.Action),
		)
	case StatusDuplicate:
		if w.metrics != nil {
			w.metrics.EventsDuplicate.Inc()
		}
		w.logger.Info("event already stored",
			zap.Int64("p_id", raw.PatientID),
			zap.String("medication_name", raw.MedicationName),
		)
	}

	if err := d.Ack(); err != nil {
		w.logger.Error("ack failed", zap.Error(err))
	}
	return nil
}

// decode unmarshals the payload and checks every required field is
// present.
func (w *Worker) decode(body []byte) (RawEvent, bool) {
	var msg eventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		w.logger.Warn("malformed event payload", zap.ByteString("body", body), zap.Error(err))
		return RawEvent{}, false
	}
	if msg.PatientID == nil || msg.MedicationName == nil || msg.Action == nil || msg.EventTime == nil {
		w.logger.Warn("event payload missing required fields", zap.ByteString("body", body))
		return RawEvent{}, false
	}
	return RawEvent{
		PatientID:      *msg.PatientID,
		MedicationName: *msg.MedicationName,
		Action:         *msg.Action,
		EventTime:      *msg.EventTime,
	}, true
}

// drop acknowledges a poison message so it is never redelivered.
func (w *Worker) drop(d Delivery, reason string) {
	if w.metrics != nil {
		w.metrics.EventsMalformed.Inc()
	}
	w.logger.Warn("dropping malformed event", zap.String("reason", reason))
	if err := d.Ack(); err != nil {
		w.logger.Error("ack failed", zap.Error(err))
	}
}
