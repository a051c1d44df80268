package gc

import (
	"testing"

	"mauve_go/pkg/object"
)

func TestAutoCollect_FiresOverThreshold(t *testing.T) {
	c := New()
	c.SetCollectionThreshold(1)

	// Garbage piles up; crossing the threshold inside Allocate must run a
	// full collection without any explicit Collect call.
	for i := 0; i < 10; i++ {
		h := c.Allocate(object.NewSeq(i))
		h.DecRef()
	}

	s := c.Stats()
	if s.Collections == 0 {
		t.Error("Expected the allocation trigger to run collections")
	}
	if s.Deallocations == 0 {
		t.Error("Expected triggered collections to reclaim garbage")
	}
}

func TestAutoCollect_DisabledNeverFires(t *testing.T) {
	c := New()
	c.SetCollectionThreshold(1)
	c.SetAutoCollect(false)

	for i := 0; i < 10; i++ {
		h := c.Allocate(object.NewSeq(i))
		h.DecRef()
	}

	if got := c.Stats().Collections; got != 0 {
		t.Errorf("Disabled trigger must not collect, got %d collections", got)
	}
	if got := c.LiveCount(); got != 10 {
		t.Errorf("Expected all garbage retained, got %d live", got)
	}
}

func TestAutoCollect_UnderThresholdDoesNotFire(t *testing.T) {
	c := New()
	c.SetCollectionThreshold(1 << 30)

	for i := 0; i < 10; i++ {
		c.Allocate(object.NewSeq(i))
	}

	if got := c.Stats().Collections; got != 0 {
		t.Errorf("Trigger fired under threshold: %d collections", got)
	}
}

func TestTunables_ReadBack(t *testing.T) {
	c := New()

	c.SetCollectionThreshold(12345)
	if got := c.CollectionThreshold(); got != 12345 {
		t.Errorf("threshold: expected 12345, got %d", got)
	}

	c.SetAutoCollect(false)
	if c.AutoCollect() {
		t.Error("auto-collect: expected false")
	}

	c.SetGenerationThreshold(7)
	if got := c.GenerationThreshold(); got != 7 {
		t.Errorf("generation threshold: expected 7, got %d", got)
	}
	c.SetGenerationThreshold(-1)
	if got := c.GenerationThreshold(); got != 0 {
		t.Errorf("generation threshold: negative clamps to 0, got %d", got)
	}

	c.SetIncrementalStepSize(9)
	if got := c.IncrementalStepSize(); got != 9 {
		t.Errorf("step size: expected 9, got %d", got)
	}
}
