package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/medwatch/go-medtrack/internal/domain/medication"
)

// fakeStore records inserts and simulates duplicates and outages.
type fakeStore struct {
	events  []medication.Event
	failErr error
}

func (s *fakeStore) InsertIfAbsent(ctx context.Context, ev medication.Event) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	for _, existing := range s.events {
		if existing == ev {
			return false, nil
		}
	}
	s.events = append(s.events, ev)
	return true, nil
}

func (s *fakeStore) ListByPatient(ctx context.Context, patientID int64) ([]medication.Event, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	var out []medication.Event
	for _, ev := range s.events {
		if ev.PatientID == patientID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestPersistInsertsNewEvent(t *testing.T) {
	store := &fakeStore{}
	w := NewWriter(store, nil, nil)

	status, err := w.Persist(context.Background(), RawEvent{
		PatientID:      1,
		MedicationName: "X",
		Action:         "start",
		EventTime:      "2021-01-01T00:00:00+0000",
	})
	if err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if status != StatusInserted {
		t.Errorf("status = %v, want inserted", status)
	}
	if len(store.events) != 1 {
		t.Fatalf("stored %d events, want 1", len(store.events))
	}
	if store.events[0].EventTime != 1609459200 {
		t.Errorf("event_time = %d, want 1609459200", store.events[0].EventTime)
	}
}

func TestPersistDuplicateIsNoOp(t *testing.T) {
	store := &fakeStore{}
	w := NewWriter(store, nil, nil)
	raw := RawEvent{PatientID: 1, MedicationName: "X", Action: "start", EventTime: "2021-01-01T00:00:00+0000"}

	if _, err := w.Persist(context.Background(), raw); err != nil {
		t.Fatalf("first persist failed: %v", err)
	}
	status, err := w.Persist(context.Background(), raw)
	if err != nil {
		t.Fatalf("second persist failed: %v", err)
	}
	if status != StatusDuplicate {
		t.Errorf("status = %v, want duplicate", status)
	}
	if len(store.events) != 1 {
		t.Errorf("stored %d events, want exactly 1", len(store.events))
	}
}

func TestPersistMalformedTimestampWritesNothing(t *testing.T) {
	store := &fakeStore{}
	w := NewWriter(store, nil, nil)

	status, err := w.Persist(context.Background(), RawEvent{
		PatientID:      1,
		MedicationName: "X",
		Action:         "start",
		EventTime:      "2021-01-01 00:00:00",
	})
	if err != nil {
		t.Fatalf("persist returned error for malformed event: %v", err)
	}
	if status != StatusMalformed {
		t.Errorf("status = %v, want malformed", status)
	}
	if len(store.events) != 0 {
		t.Errorf("stored %d events, want none", len(store.events))
	}
}

func TestPersistStoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &fakeStore{failErr: storeErr}
	w := NewWriter(store, nil, nil)

	_, err := w.Persist(context.Background(), RawEvent{
		PatientID:      1,
		MedicationName: "X",
		Action:         "start",
		EventTime:      "2021-01-01T00:00:00+0000",
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want the store error", err)
	}
}
