package domain

import "testing"

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to EventStatus
		want     bool
	}{
		{StatusOpen, StatusClosed, true},
		{StatusClosed, StatusOpen, true},
		{StatusPending, StatusClosed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusOpen, false},
		{StatusRejected, StatusClosed, false},
		{StatusRejected, StatusPending, false},
		{StatusOpen, StatusRejected, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEventStatus_Countable(t *testing.T) {
	if !StatusOpen.Countable() || !StatusClosed.Countable() {
		t.Fatal("open and closed events must count")
	}
	if StatusPending.Countable() || StatusRejected.Countable() {
		t.Fatal("pending and rejected events must not count")
	}
}

func TestSectorFromLabel(t *testing.T) {
	tests := map[string]string{
		"Hospital Regional Norte (HRN) - UTI Adulto": "UTI Adulto",
		"HRC - Neurologia - Ala B":                   "Neurologia - Ala B",
		"Sem separador":                              "Sem separador",
	}
	for label, want := range tests {
		if got := SectorFromLabel(label); got != want {
			t.Errorf("SectorFromLabel(%q) = %q, want %q", label, got, want)
		}
	}
	if got := LocationLabel("HRN", "AVC"); got != "HRN - AVC" {
		t.Errorf("LocationLabel = %q", got)
	}
}

func TestClockEvent_CloneIsDeep(t *testing.T) {
	e := &ClockEvent{ID: "e1", Justification: &JustificationData{Reason: ReasonForgot}}
	c := e.Clone()
	c.Justification.Reason = ReasonOther
	if e.Justification.Reason != ReasonForgot {
		t.Fatal("clone shares justification with original")
	}
}

func TestClockEvent_AppendNote(t *testing.T) {
	e := &ClockEvent{}
	e.AppendNote("first")
	e.AppendNote("second")
	if e.Note != "first\nsecond" {
		t.Fatalf("unexpected note %q", e.Note)
	}
}
