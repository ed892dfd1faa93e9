package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medwatch/go-medtrack/internal/domain/medication"
	"github.com/medwatch/go-medtrack/internal/query"
)

type fakeStore struct {
	events []medication.Event
}

func (s *fakeStore) InsertIfAbsent(ctx context.Context, ev medication.Event) (bool, error) {
	s.events = append(s.events, ev)
	return true, nil
}

func (s *fakeStore) ListByPatient(ctx context.Context, patientID int64) ([]medication.Event, error) {
	var out []medication.Event
	for _, ev := range s.events {
		if ev.PatientID == patientID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func newTestServer(events []medication.Event) *httptest.Server {
	service := query.NewService(&fakeStore{events: events}, nil)
	h := NewReportHandler(service, nil, nil)
	return httptest.NewServer(h.Routes())
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestGetRootPrompt(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	status, body := get(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if body != "Must add p_id" {
		t.Errorf("body = %q, want %q", body, "Must add p_id")
	}
}

func TestGetReport(t *testing.T) {
	srv := newTestServer([]medication.Event{
		{PatientID: 1, MedicationName: "X", Action: "start", EventTime: 1609459200},
		{PatientID: 1, MedicationName: "X", Action: "stop", EventTime: 1609462800},
	})
	defer srv.Close()

	status, body := get(t, srv.URL+"/1")
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	want := "Report for p_id 1\nMedicine X start time 2021-01-01 00:00:00 and ends 2021-01-01 01:00:00"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestGetReportUnknownPatient(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	status, body := get(t, srv.URL+"/42")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body != "There is no p_id 42" {
		t.Errorf("body = %q, want %q", body, "There is no p_id 42")
	}
}

func TestGetReportNonNumericID(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	status, body := get(t, srv.URL+"/abc")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body != "There is no p_id abc" {
		t.Errorf("body = %q, want %q", body, "There is no p_id abc")
	}
}
