package gc

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"mauve_go/pkg/object"
)

// Hybrid reference-counting / tracing collector
//
// Two liveness tests cooperate on one object table:
//   - Counting: an object whose reference count has reached zero is garbage
//     and is removed by the cheap reclamation pass.
//   - Reachability: an object not reachable from any externally held
//     object is garbage even if its own count never reached zero. The
//     mark/sweep pass removes these, which is what reclaims reference
//     cycles that counting alone cannot free.
//
// Both passes run back-to-back inside Collect(); each is idempotent.
//
// Locking discipline: the object table, the potential-cycle set, the
// statistics record and each tunable sit behind their own mutex. No path
// holds one of these locks while calling back into a collection routine;
// operations that touch several of them acquire and release in sequence.
// This is what lets the auto-collection trigger run a full Collect()
// synchronously from inside Allocate without self-deadlock.

// Default tuning. All four are adjustable at any time through the setters
// and take effect on the next check.
const (
	DefaultCollectionThreshold = 4 << 20 // bytes of live data before auto-collect fires
	DefaultGenerationThreshold = 3       // promotions before an object stops aging
	DefaultIncrementalStepSize = 64      // zero-count objects reclaimed per incremental step
)

// Collector owns every tracked heap value and decides when values may be
// reclaimed. It is safe for concurrent use from multiple goroutines.
type Collector struct {
	mu      sync.Mutex // object table
	objects map[uint64]*trackedObject

	cycleMu  sync.Mutex // potential-cycle set
	cycleSet map[uint64]struct{}

	statsMu        sync.Mutex // statistics record
	allocations    uint64
	deallocations  uint64
	liveBytes      uint64
	peakBytes      uint64
	collections    uint64
	cyclesDetected uint64
	lastCollection time.Duration

	thresholdMu sync.Mutex
	threshold   uint64

	autoMu      sync.Mutex
	autoCollect bool

	tenureMu    sync.Mutex
	tenureLimit int

	stepMu   sync.Mutex
	stepSize int

	// Background sweep loop, see background.go.
	bgMu     sync.Mutex
	bgStop   chan struct{}
	bgDone   chan struct{}
	bgPaused atomic.Bool
}

// New creates a collector with default tuning
func New() *Collector {
	return &Collector{
		objects:     make(map[uint64]*trackedObject),
		cycleSet:    make(map[uint64]struct{}),
		threshold:   DefaultCollectionThreshold,
		autoCollect: true,
		tenureLimit: DefaultGenerationThreshold,
		stepSize:    DefaultIncrementalStepSize,
	}
}

// Allocate tracks a new heap value and returns the caller's handle to it.
// The handle is the first owner, so the object starts with a reference count
// of one. Allocation cannot fail.
func (c *Collector) Allocate(v *object.Value) *Handle {
	size := v.EstimateSize()

	// Identity is derived from the running counters: allocations and
	// deallocations only ever grow, so the sum is monotonic and an id is
	// never reused.
	c.statsMu.Lock()
	id := c.allocations + c.deallocations + 1
	c.allocations++
	c.liveBytes += size
	if c.liveBytes > c.peakBytes {
		c.peakBytes = c.liveBytes
	}
	c.statsMu.Unlock()

	c.mu.Lock()
	c.objects[id] = &trackedObject{
		id:       id,
		value:    v,
		refs:     make(map[uint64]struct{}),
		refCount: 1,
		size:     size,
		created:  time.Now(),
	}
	c.mu.Unlock()

	// Every composite kind can sit on a cycle, so every allocation joins
	// the potential-cycle set.
	c.cycleMu.Lock()
	c.cycleSet[id] = struct{}{}
	c.cycleMu.Unlock()

	// All locks are released before the trigger check: a triggered
	// Collect() re-acquires them itself.
	c.maybeAutoCollect()

	return &Handle{id: id, c: c}
}

// GetValue returns the tracked value for id, or false if the object has
// already been collected.
func (c *Collector) GetValue(id uint64) (*object.Value, bool) {
	c.mu.Lock()
	obj, ok := c.objects[id]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return obj.value, true
}

// UpdateReferences replaces the outgoing-edge set of id with newRefs and
// adjusts the counts of the objects that entered or left the set: one
// decrement per removed edge, one increment per added edge, nothing for
// edges present in both. A no-op if id has already been collected; callers
// may race an update against collection legitimately.
func (c *Collector) UpdateReferences(id uint64, newRefs []uint64) {
	newSet := make(map[uint64]struct{}, len(newRefs))
	for _, r := range newRefs {
		newSet[r] = struct{}{}
	}

	c.mu.Lock()
	obj, ok := c.objects[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	oldSet := obj.refs
	obj.refs = newSet
	c.mu.Unlock()

	// The count adjustments happen after the table lock is dropped;
	// IncRefCount/DecRefCount take it themselves. A concurrent reader may
	// observe another object's count mid-update, which callers must not
	// rely on.
	for r := range oldSet {
		if _, keep := newSet[r]; !keep {
			c.DecRefCount(r)
		}
	}
	for r := range newSet {
		if _, had := oldSet[r]; !had {
			c.IncRefCount(r)
		}
	}
}

// IncRefCount adds one to the reference count of id. No-op if already
// collected.
func (c *Collector) IncRefCount(id uint64) {
	c.mu.Lock()
	if obj, ok := c.objects[id]; ok {
		obj.refCount++
	}
	c.mu.Unlock()
}

// DecRefCount removes one from the reference count of id, saturating at
// zero. No-op if already collected. The object is not removed here; the
// reclamation passes scan for zero counts.
func (c *Collector) DecRefCount(id uint64) {
	c.mu.Lock()
	if obj, ok := c.objects[id]; ok && obj.refCount > 0 {
		obj.refCount--
	}
	c.mu.Unlock()
}

// Live returns a snapshot of every live object's metadata, ordered by
// identity. Used by diagnostics and tests; the snapshot does not alias the
// table.
func (c *Collector) Live() []ObjectInfo {
	c.mu.Lock()
	infos := make([]ObjectInfo, 0, len(c.objects))
	for _, obj := range c.objects {
		refs := make([]uint64, 0, len(obj.refs))
		for r := range obj.refs {
			refs = append(refs, r)
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
		infos = append(infos, ObjectInfo{
			ID:         obj.id,
			Kind:       obj.value.Kind,
			Refs:       refs,
			RefCount:   obj.refCount,
			Size:       obj.size,
			Generation: obj.generation,
			Created:    obj.created,
		})
	}
	c.mu.Unlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// LiveCount returns the number of objects currently in the table
func (c *Collector) LiveCount() int {
	c.mu.Lock()
	n := len(c.objects)
	c.mu.Unlock()
	return n
}

// maybeAutoCollect runs a full collection when live data has outgrown the
// configured threshold. Called with no locks held.
func (c *Collector) maybeAutoCollect() {
	c.autoMu.Lock()
	enabled := c.autoCollect
	c.autoMu.Unlock()
	if !enabled {
		return
	}

	c.thresholdMu.Lock()
	limit := c.threshold
	c.thresholdMu.Unlock()

	c.statsMu.Lock()
	live := c.liveBytes
	c.statsMu.Unlock()

	if live > limit {
		c.Collect()
	}
}
