package appointments

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func sampleAppointments() []Appointment {
	now := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	return []Appointment{
		{
			ID: "id-1", Name: `Jane "JJ" Doe`, Email: "jane@x.com", Phone: "+255700000000",
			Procedure: "Rhinoplasty", Status: StatusPending,
			Message: "line one\nline two", CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "id-2", Name: "Amina", Email: "amina@x.com", Phone: "+255711111111",
			Procedure: "Face Lift", Status: StatusConfirmed,
			CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleAppointments()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not parseable CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][1] != "Patient Name" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != `Jane "JJ" Doe` {
		t.Errorf("embedded quotes not round-tripped: %q", records[1][1])
	}
	if records[1][7] != "line one\nline two" {
		t.Errorf("embedded newline not round-tripped: %q", records[1][7])
	}
	if records[2][6] != "confirmed" {
		t.Errorf("expected status column, got %q", records[2][6])
	}
}

func TestFilter(t *testing.T) {
	appts := sampleAppointments()

	if got := Filter(appts, "", ""); len(got) != 2 {
		t.Errorf("no filter should keep all, got %d", len(got))
	}
	if got := Filter(appts, "", "all"); len(got) != 2 {
		t.Errorf(`"all" should keep all, got %d`, len(got))
	}
	if got := Filter(appts, "", "confirmed"); len(got) != 1 || got[0].ID != "id-2" {
		t.Errorf("status filter failed: %v", got)
	}
	if got := Filter(appts, "JANE", ""); len(got) != 1 || got[0].ID != "id-1" {
		t.Errorf("search should be case-insensitive: %v", got)
	}
	if got := Filter(appts, "face lift", ""); len(got) != 1 || got[0].ID != "id-2" {
		t.Errorf("procedure search failed: %v", got)
	}
	if got := Filter(appts, "nobody", ""); len(got) != 0 {
		t.Errorf("unmatched search should return empty, got %v", got)
	}
}

func TestStatusTransitionTable(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusPending, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestKnownProcedure(t *testing.T) {
	for _, name := range []string{"Rhinoplasty", "Hair Transplant", OtherProcedure} {
		if !KnownProcedure(name) {
			t.Errorf("expected %q in catalog", name)
		}
	}
	if KnownProcedure("Time Travel") {
		t.Error("unexpected catalog entry")
	}
	if !strings.HasPrefix(OtherProcedure, "Other") {
		t.Errorf("unexpected catch-all label %q", OtherProcedure)
	}
}
