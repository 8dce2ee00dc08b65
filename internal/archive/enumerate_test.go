package archive

import "testing"

func TestOrderChronologicallyNoCheckpoint(t *testing.T) {
	months := []MonthURL{
		{Month: "2025-March", URL: "m3"},
		{Month: "2025-February", URL: "m2"},
		{Month: "2025-January", URL: "m1"},
	}
	got := orderChronologically(months, Checkpoint{})
	want := []string{"2025-January", "2025-February", "2025-March"}
	for i, m := range got {
		if m.Month != want[i] {
			t.Fatalf("got[%d] = %q, want %q (full: %#v)", i, m.Month, want[i], got)
		}
	}
}

func TestOrderChronologicallyWithCheckpoint(t *testing.T) {
	months := []MonthURL{
		{Month: "2025-March", URL: "m3"},
		{Month: "2025-February", URL: "m2"},
		{Month: "2025-January", URL: "m1"},
	}
	got := orderChronologically(months, Checkpoint{Month: "2025-February"})
	want := []string{"2025-February", "2025-March"}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d (full: %#v)", len(got), len(want), got)
	}
	for i, m := range got {
		if m.Month != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, m.Month, want[i])
		}
	}
}

func TestOrderChronologicallyCheckpointNotFound(t *testing.T) {
	months := []MonthURL{
		{Month: "2025-March", URL: "m3"},
		{Month: "2025-February", URL: "m2"},
	}
	got := orderChronologically(months, Checkpoint{Month: "2024-December"})
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Month != "2025-February" {
		t.Fatalf("got[0] = %q, want 2025-February", got[0].Month)
	}
}

func TestSuffixAfter(t *testing.T) {
	messages := []MessageURL{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	got := suffixAfter(messages, "2")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("suffixAfter = %#v", got)
	}
}

func TestSuffixAfterLastID(t *testing.T) {
	messages := []MessageURL{{ID: "1"}, {ID: "2"}}
	got := suffixAfter(messages, "2")
	if len(got) != 0 {
		t.Fatalf("suffixAfter = %#v, want empty", got)
	}
}

func TestSuffixAfterNotFound(t *testing.T) {
	messages := []MessageURL{{ID: "1"}, {ID: "2"}}
	got := suffixAfter(messages, "9")
	if len(got) != 2 {
		t.Fatalf("suffixAfter = %#v, want all messages", got)
	}
}
