package gc

import (
	"time"

	"mauve_go/pkg/object"
)

// trackedObject is one entry in the object table: the language value plus the
// collector-maintained metadata. Only the collector mutates these; external
// callers go through the Collector's public operations.
type trackedObject struct {
	id         uint64
	value      *object.Value
	refs       map[uint64]struct{} // outgoing edges, reported explicitly
	refCount   int                 // saturates at zero, never negative
	marked     bool                // meaningful only during a mark/sweep pass
	size       uint64              // approximate, fixed at allocation
	generation int                 // 0 at birth, +1 per survived generational pass
	created    time.Time
}

// ObjectInfo is a read-only copy of one tracked object's metadata, exposed
// for diagnostics (graph dumps, cycle reports) and tests.
type ObjectInfo struct {
	ID         uint64
	Kind       object.Kind
	Refs       []uint64
	RefCount   int
	Size       uint64
	Generation int
	Created    time.Time
}

// Handle is the opaque token the interpreter holds for a tracked object.
// It couples the object's identity with the collector that owns it and
// carries no mutable state of its own. All handles for a collector share the
// one canonical instance; a handle never sees a diverged view of the heap.
type Handle struct {
	id uint64
	c  *Collector
}

// ID returns the object identity this handle refers to
func (h *Handle) ID() uint64 {
	return h.id
}

// Value returns the tracked value, or false if the object has already been
// collected.
func (h *Handle) Value() (*object.Value, bool) {
	return h.c.GetValue(h.id)
}

// SetReferences replaces the object's outgoing edges. No-op if the object
// has already been collected.
func (h *Handle) SetReferences(ids ...uint64) {
	h.c.UpdateReferences(h.id, ids)
}

// IncRef adds one to the object's reference count
func (h *Handle) IncRef() {
	h.c.IncRefCount(h.id)
}

// DecRef removes one from the object's reference count, saturating at zero
func (h *Handle) DecRef() {
	h.c.DecRefCount(h.id)
}
