package gc

import (
	"testing"

	"mauve_go/pkg/object"
)

// buildChain allocates n linked objects (each referencing the next) and
// returns the handles, head first. Interior handles are already released;
// only the head is externally held.
func buildChain(c *Collector, n int) []*Handle {
	handles := make([]*Handle, n)
	for i := range handles {
		handles[i] = c.Allocate(object.NewSeq(i))
	}
	for i := 0; i < n-1; i++ {
		handles[i].SetReferences(handles[i+1].ID())
		handles[i+1].DecRef()
	}
	return handles
}

func TestCollect_AcyclicChainToZero(t *testing.T) {
	c := New()
	handles := buildChain(c, 10)

	c.Collect()
	if got := c.LiveCount(); got != 10 {
		t.Fatalf("Chain is externally held, expected 10 live, got %d", got)
	}

	handles[0].DecRef()
	c.Collect()

	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected empty table after releasing the head, got %d live", got)
	}
	s := c.Stats()
	if s.LiveBytes != 0 {
		t.Errorf("Expected live bytes to return to zero, got %d", s.LiveBytes)
	}
	if s.Deallocations != 10 {
		t.Errorf("Expected 10 deallocations, got %d", s.Deallocations)
	}
}

func TestCollect_CyclePair(t *testing.T) {
	c := New()
	a := c.Allocate(object.NewMap(nil))
	b := c.Allocate(object.NewMap(nil))
	a.SetReferences(b.ID())
	b.SetReferences(a.ID())
	a.DecRef()
	b.DecRef()

	// Counting alone cannot free these: each keeps the other at count 1.
	c.CollectUnreferenced()
	if got := c.LiveCount(); got != 2 {
		t.Fatalf("Counting pass must not touch the cycle, got %d live", got)
	}

	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected the cycle to be swept, got %d live", got)
	}
	s := c.Stats()
	if s.CyclesDetected < 1 {
		t.Errorf("Expected cyclesDetected to increase, got %d", s.CyclesDetected)
	}
	if s.LiveBytes != 0 {
		t.Errorf("Expected 0 live bytes after sweep, got %d", s.LiveBytes)
	}
}

func TestCollect_TriangleCycle(t *testing.T) {
	c := New()
	a := c.Allocate(object.NewMap(nil))
	b := c.Allocate(object.NewMap(nil))
	d := c.Allocate(object.NewMap(nil))
	a.SetReferences(b.ID())
	b.SetReferences(d.ID())
	d.SetReferences(a.ID())
	a.DecRef()
	b.DecRef()
	d.DecRef()

	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected triangle cycle swept, got %d live", got)
	}
}

func TestCollect_SelfCycle(t *testing.T) {
	c := New()
	h := c.Allocate(object.NewMap(nil))
	h.SetReferences(h.ID())
	h.DecRef()

	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected self-referential object swept, got %d live", got)
	}
}

func TestCollect_ReachableSurvivors(t *testing.T) {
	c := New()

	// A cycle hanging off an externally held root must survive.
	root := c.Allocate(object.NewMap(nil))
	a := c.Allocate(object.NewMap(nil))
	b := c.Allocate(object.NewMap(nil))
	root.SetReferences(a.ID())
	a.SetReferences(b.ID())
	b.SetReferences(a.ID())
	a.DecRef()
	b.DecRef()

	// And an orphaned cycle next to it must not.
	x := c.Allocate(object.NewMap(nil))
	y := c.Allocate(object.NewMap(nil))
	x.SetReferences(y.ID())
	y.SetReferences(x.ID())
	x.DecRef()
	y.DecRef()

	c.Collect()

	if _, ok := c.GetValue(root.ID()); !ok {
		t.Error("root must survive")
	}
	if _, ok := c.GetValue(a.ID()); !ok {
		t.Error("cycle member reachable from root must survive")
	}
	if _, ok := c.GetValue(b.ID()); !ok {
		t.Error("cycle member reachable from root must survive")
	}
	if _, ok := c.GetValue(x.ID()); ok {
		t.Error("orphaned cycle member must be swept")
	}
	if got := c.LiveCount(); got != 3 {
		t.Errorf("Expected 3 survivors, got %d", got)
	}

	// Releasing the root dooms the whole structure.
	root.DecRef()
	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected empty table after root release, got %d live", got)
	}
}

func TestCollect_SweptCycleReleasesSurvivor(t *testing.T) {
	c := New()
	held := c.Allocate(object.NewSeq("held"))

	// An orphaned cycle holding an edge into the externally held object.
	x := c.Allocate(object.NewMap(nil))
	y := c.Allocate(object.NewMap(nil))
	x.SetReferences(y.ID(), held.ID())
	y.SetReferences(x.ID())
	x.DecRef()
	y.DecRef()

	c.Collect()
	if _, ok := c.GetValue(held.ID()); !ok {
		t.Fatal("Held object must survive the sweep")
	}
	if got := infoByID(t, c, held.ID()).RefCount; got != 1 {
		t.Errorf("Sweeping the cycle must release its edge: expected refcount 1, got %d", got)
	}

	// With the stale count gone, the last external release is enough.
	held.DecRef()
	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected survivor reclaimed after its last release, got %d live", got)
	}
}

func TestCollect_Idempotent(t *testing.T) {
	c := New()
	root := c.Allocate(object.NewMap(nil))
	child := c.Allocate(object.NewSeq(1))
	root.SetReferences(child.ID())
	child.DecRef()

	garbageA := c.Allocate(object.NewMap(nil))
	garbageB := c.Allocate(object.NewMap(nil))
	garbageA.SetReferences(garbageB.ID())
	garbageB.SetReferences(garbageA.ID())
	garbageA.DecRef()
	garbageB.DecRef()

	c.Collect()
	first := c.Stats()

	c.Collect()
	second := c.Stats()

	if second.Deallocations != first.Deallocations {
		t.Errorf("Second collect removed objects: %d then %d",
			first.Deallocations, second.Deallocations)
	}
	if second.LiveBytes != first.LiveBytes {
		t.Errorf("Second collect changed live bytes: %d then %d",
			first.LiveBytes, second.LiveBytes)
	}
	if second.Collections != first.Collections+1 {
		t.Errorf("Collections counter should still advance: %d then %d",
			first.Collections, second.Collections)
	}
}

func TestCollect_RecordsDuration(t *testing.T) {
	c := New()
	for i := 0; i < 100; i++ {
		h := c.Allocate(object.NewSeq(i))
		h.DecRef()
	}
	c.Collect()
	if c.Stats().LastCollection < 0 {
		t.Error("Expected a non-negative collection duration")
	}
}

func TestForceCollect_SameAsCollect(t *testing.T) {
	c := New()
	c.SetAutoCollect(false)
	h := c.Allocate(object.NewSeq())
	h.DecRef()

	c.ForceCollect()
	if c.LiveCount() != 0 {
		t.Error("ForceCollect should run the full reclaim")
	}
}

func TestCollect_DeepChainNoOverflow(t *testing.T) {
	c := New()
	c.SetAutoCollect(false)
	handles := buildChain(c, 50000)
	handles[0].DecRef()
	c.Collect()
	if got := c.LiveCount(); got != 0 {
		t.Errorf("Expected deep chain fully reclaimed, got %d live", got)
	}
}
