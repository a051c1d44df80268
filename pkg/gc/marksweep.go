package gc

import "time"

// Cycle collection (mark/sweep)
//
// The reference count conflates two kinds of ownership: references from the
// interpreter (handles, roots) and references between tracked objects. A
// cycle keeps its members' counts positive forever through the second kind
// alone, so the mark phase derives the external component: an object is a
// root only when its count exceeds the number of live objects pointing at
// it. Everything reachable from a root survives; everything else is
// garbage, including cycles whose members hold only each other.
//
// The traversal is an iterative worklist so deep or self-referential graphs
// cannot overflow the stack, and an already marked object is never
// revisited, which makes the walk cycle-safe.

// Collect runs a full collection: reference-counting reclamation first,
// then the mark/sweep pass, then the bookkeeping for the collection itself.
func (c *Collector) Collect() {
	start := time.Now()

	c.CollectUnreferenced()
	c.markSweep()

	c.statsMu.Lock()
	c.collections++
	c.lastCollection = time.Since(start)
	c.statsMu.Unlock()
}

// ForceCollect runs a full collection regardless of thresholds. It is the
// same operation as Collect; the name exists for callers that want to state
// intent at sites where auto-collection is disabled.
func (c *Collector) ForceCollect() {
	c.Collect()
}

// markSweep removes every object unreachable from an externally held root
func (c *Collector) markSweep() {
	// Fast path: nothing that could sit on a cycle is alive.
	c.cycleMu.Lock()
	empty := len(c.cycleSet) == 0
	c.cycleMu.Unlock()
	if empty {
		return
	}

	var victims []*trackedObject

	c.mu.Lock()

	// Count live internal in-edges. The external reference count of an
	// object is whatever its count holds beyond these.
	incoming := make(map[uint64]int, len(c.objects))
	for _, obj := range c.objects {
		for ref := range obj.refs {
			if _, ok := c.objects[ref]; ok {
				incoming[ref]++
			}
		}
	}

	// Mark. Seed the worklist with every externally held object, then
	// drain.
	for _, obj := range c.objects {
		obj.marked = false
	}
	stack := make([]uint64, 0, len(c.objects))
	for id, obj := range c.objects {
		if obj.refCount > incoming[id] {
			obj.marked = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		obj := c.objects[id]
		for ref := range obj.refs {
			target, ok := c.objects[ref]
			if !ok || target.marked {
				continue
			}
			target.marked = true
			stack = append(stack, ref)
		}
	}

	// Sweep.
	for id, obj := range c.objects {
		if !obj.marked {
			victims = append(victims, obj)
			delete(c.objects, id)
		}
	}

	// A swept object releases what it was holding, the same way the
	// counting pass does. A survivor must not keep a count inflated by
	// edges from garbage: the stale count would read as an external hold
	// and root it forever.
	for _, obj := range victims {
		for ref := range obj.refs {
			if target, ok := c.objects[ref]; ok && target.refCount > 0 {
				target.refCount--
			}
		}
	}

	c.mu.Unlock()

	c.finishRemoval(victims, true)
}
