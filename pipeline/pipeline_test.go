package pipeline

import (
	"testing"
	"time"
)

func TestAdmitRespectsCapacity(t *testing.T) {
	p := New(2, 20*time.Millisecond, time.Minute, time.Minute)

	if !p.Admit(1, 0) {
		t.Fatal("frame 1 should admit")
	}
	if !p.Admit(2, 0) {
		t.Fatal("frame 2 should admit")
	}
	if p.Admit(3, 0) {
		t.Fatal("frame 3 should be refused: capacity is full")
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestResolveFreesSlotForNextAdmission(t *testing.T) {
	p := New(1, 20*time.Millisecond, time.Minute, time.Minute)

	if !p.Admit(1, 0) {
		t.Fatal("frame 1 should admit")
	}
	if p.Admit(2, 0) {
		t.Fatal("frame 2 should be refused while slot 1 is held")
	}

	entry, wasInFlight := p.Resolve(1, []byte(`[]`), 0.02)
	if !wasInFlight {
		t.Fatal("frame 1 should have been in flight")
	}
	if entry.FrameID != 1 {
		t.Errorf("entry.FrameID = %d, want 1", entry.FrameID)
	}

	if !p.Admit(2, 0) {
		t.Fatal("frame 2 should admit once frame 1's slot is freed")
	}
}

func TestResolveForUnknownFrameStillCachesResult(t *testing.T) {
	p := New(5, 20*time.Millisecond, time.Minute, time.Minute)

	_, wasInFlight := p.Resolve(99, []byte(`[{"x":1}]`), 0.01)
	if wasInFlight {
		t.Fatal("frame 99 was never admitted, should report wasInFlight=false")
	}
	res, ok := p.Processed(99)
	if !ok {
		t.Fatal("late result should still be cached")
	}
	if res.ProcessingTime != 0.01 {
		t.Errorf("ProcessingTime = %v, want 0.01", res.ProcessingTime)
	}
}

func TestAbandonFreesSlotWithoutCachingResult(t *testing.T) {
	p := New(1, 20*time.Millisecond, time.Minute, time.Minute)

	if !p.Admit(5, 1.0) {
		t.Fatal("frame 5 should admit")
	}
	p.Abandon(5)

	if _, ok := p.Processed(5); ok {
		t.Fatal("Abandon should not produce a processed_frames entry")
	}
	if !p.Admit(6, 2.0) {
		t.Fatal("frame 6 should admit once frame 5's slot is abandoned")
	}
}

func TestSweepExpiredEvictsStaleEntries(t *testing.T) {
	p := New(1, 20*time.Millisecond, 5*time.Millisecond, time.Minute)

	if !p.Admit(1, 0) {
		t.Fatal("frame 1 should admit")
	}
	time.Sleep(10 * time.Millisecond)

	expired := p.SweepExpired(time.Now())
	if len(expired) != 1 || expired[0] != 1 {
		t.Fatalf("SweepExpired = %v, want [1]", expired)
	}
	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after sweep", p.Len())
	}
	if !p.Admit(2, 0) {
		t.Fatal("frame 2 should admit once frame 1 is swept")
	}
}
