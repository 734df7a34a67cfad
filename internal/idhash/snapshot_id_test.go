package idhash

import "testing"

func TestComputeSnapshotID(t *testing.T) {
	got := ComputeSnapshotID("creator-1", "2025-06-15")

	if len(got) != 64 {
		t.Errorf("ComputeSnapshotID() length = %d, want 64", len(got))
	}

	got2 := ComputeSnapshotID("creator-1", "2025-06-15")
	if got != got2 {
		t.Errorf("ComputeSnapshotID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeSnapshotID_SameDayCollides(t *testing.T) {
	// A rerun on the same UTC day must hash to the same ID so the history
	// store can reject it as a duplicate.
	first := ComputeSnapshotID("creator-1", "2025-06-15")
	rerun := ComputeSnapshotID("creator-1", "2025-06-15")
	if first != rerun {
		t.Error("Same creator and day should produce identical snapshot IDs")
	}

	nextDay := ComputeSnapshotID("creator-1", "2025-06-16")
	if first == nextDay {
		t.Error("Different day should produce different hash")
	}

	otherCreator := ComputeSnapshotID("creator-2", "2025-06-15")
	if first == otherCreator {
		t.Error("Different creator should produce different hash")
	}
}
