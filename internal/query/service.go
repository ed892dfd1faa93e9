// Package query answers period report queries against the event store.
package query

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/medwatch/go-medtrack/internal/domain/medication"
)

// ErrNotFound is returned when a patient has no stored events.
var ErrNotFound = errors.New("patient not found")

// Service reconstructs periods from the event store and renders them.
type Service struct {
	store  medication.Store
	logger *zap.Logger
}

// NewService creates a query service.
func NewService(store medication.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// GetReport loads the full event history for one patient, folds it into
// per-medication periods and renders the text report. A patient with zero
// stored events yields ErrNotFound, never an empty report.
func (s *Service) GetReport(ctx context.Context, patientID int64) (string, error) {
	events, err := s.store.ListByPatient(ctx, patientID)
	if err != nil {
		return "", fmt.Errorf("load events: %w", err)
	}
	if len(events) == 0 {
		return "", ErrNotFound
	}

	periods := medication.Reconstruct(events)
	report := medication.Report(periods, patientID)

	s.logger.Debug("report generated",
		zap.Int64("p_id", patientID),
		zap.Int("events", len(events)),
		zap.Int("medications", len(periods)),
	)
	return report, nil
}
