package medication

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store is the persistence contract for administration events. Events are
// append-only; the store owns the uniqueness invariant over the full
// event tuple.
type Store interface {
	// InsertIfAbsent writes the event unless an identical tuple already
	// exists. Returns true when a new row was written, false on duplicate.
	InsertIfAbsent(ctx context.Context, ev Event) (bool, error)
	// ListByPatient returns every stored event for one patient, in no
	// guaranteed order.
	ListByPatient(ctx context.Context, patientID int64) ([]Event, error)
}

// Repository is the PostgreSQL-backed Store. All operations run on pooled
// connections.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{pool: pool, logger: logger}
}

// InsertIfAbsent performs an atomic conditional insert. The uniqueness
// check and the write are a single statement, so concurrent submissions
// of the same tuple cannot race into duplicate rows.
func (r *Repository) InsertIfAbsent(ctx context.Context, ev Event) (bool, error) {
	query := `
		INSERT INTO meds (p_id, medication_name, action, event_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, ev.PatientID, ev.MedicationName, ev.Action, ev.EventTime)
	if err != nil {
		return false, fmt.Errorf("insert event: %w", err)
	}

	inserted := tag.RowsAffected() == 1
	if inserted {
		r.logger.Debug("event stored",
			zap.Int64("p_id", ev.PatientID),
			zap.String("medication_name", ev.MedicationName),
			zap.String("action", ev.Action),
			zap.Int64("event_time", ev.EventTime),
		)
	}
	return inserted, nil
}

// ListByPatient retrieves all events for a patient.
func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]Event, error) {
	query := `
		SELECT p_id, medication_name, action, event_time
		FROM meds
		WHERE p_id = $1
	`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.PatientID, &ev.MedicationName, &ev.Action, &ev.EventTime); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EnsureSchema creates the meds table and its uniqueness constraint when
// they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS meds (
			p_id            BIGINT NOT NULL,
			medication_name TEXT   NOT NULL,
			action          TEXT   NOT NULL,
			event_time      BIGINT NOT NULL,
			UNIQUE (p_id, medication_name, action, event_time)
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
