package medication

import (
	"strings"
	"testing"
)

func TestReportNormalInterval(t *testing.T) {
	periods := map[string]*Period{
		"X": {Start: "2021-01-01 00:00:00", Stop: "2021-01-01 01:00:00"},
	}

	got := Report(periods, 1)
	want := "Report for p_id 1\nMedicine X start time 2021-01-01 00:00:00 and ends 2021-01-01 01:00:00"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportOnlyStart(t *testing.T) {
	periods := map[string]*Period{
		"Y": {Start: "2021-01-01 00:00:00"},
	}

	got := Report(periods, 1)
	want := "Report for p_id 1\nThe Medicine Y have only start time"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportOnlyEnd(t *testing.T) {
	periods := map[string]*Period{
		"Y": {Stop: "2021-01-01 00:00:00"},
	}

	got := Report(periods, 4)
	want := "Report for p_id 4\nThe Medicine Y have only end time"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportInvertedInterval(t *testing.T) {
	periods := map[string]*Period{
		"Z": {Start: "2021-01-01 02:00:00", Stop: "2021-01-01 01:00:00"},
	}

	got := Report(periods, 2)
	want := "Report for p_id 2\nThe start time and stop time of Medicine Z is wrong"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportEqualTimestampsEmitNoLine(t *testing.T) {
	periods := map[string]*Period{
		"E": {Start: "2021-01-01 01:00:00", Stop: "2021-01-01 01:00:00"},
	}

	got := Report(periods, 3)
	want := "Didn't found any Medicines for p_id 3"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportEmptyMap(t *testing.T) {
	got := Report(map[string]*Period{}, 8)
	want := "Didn't found any Medicines for p_id 8"
	if got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestReportEmptyPeriodEmitsNoLine(t *testing.T) {
	// A medication whose values were all cleared by partial matches keeps
	// its map entry but must not appear in the report.
	periods := map[string]*Period{
		"cleared": {},
		"kept":    {Start: "2021-01-01 00:00:00"},
	}

	got := Report(periods, 5)
	if strings.Contains(got, "cleared") {
		t.Errorf("report should not mention cleared medication: %q", got)
	}
	if !strings.Contains(got, "The Medicine kept have only start time") {
		t.Errorf("report missing kept medication line: %q", got)
	}
}

func TestReportMedicationsSortedByName(t *testing.T) {
	periods := map[string]*Period{
		"b": {Start: "2021-01-01 00:00:00"},
		"a": {Start: "2021-01-01 00:00:00"},
		"c": {Start: "2021-01-01 00:00:00"},
	}

	got := Report(periods, 6)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	for i, name := range []string{"a", "b", "c"} {
		if !strings.Contains(lines[i+1], "Medicine "+name+" ") {
			t.Errorf("line %d = %q, want medication %q", i+1, lines[i+1], name)
		}
	}
}
