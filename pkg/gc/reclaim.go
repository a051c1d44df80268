package gc

// Reference-counting reclamation
//
// The cheap pass: anything whose count has reached zero is removed, and the
// removal cascades. Dropping an object releases everything it was holding,
// so acyclic structures drain completely in one pass regardless of the
// order in which the interpreter released its roots. Without the cascade a
// child of a removed parent would keep a stale positive count and be
// mistaken for a root by the mark phase forever.
//
// Cycles never reach zero count and are untouched here; the mark/sweep
// pass handles those.

// CollectUnreferenced removes every object whose reference count is zero,
// cascading through whatever the removed objects were holding.
func (c *Collector) CollectUnreferenced() {
	c.reclaimZeroCounts(0, -1)
}

// reclaimZeroCounts removes zero-count objects from the table. limit bounds
// how many are removed (0 means unbounded); maxGen restricts removal to
// objects at or below that generation (-1 means all generations). Cascaded
// decrements always apply, but an out-of-bound object that reaches zero is
// left for a later, wider pass. Returns the number removed.
func (c *Collector) reclaimZeroCounts(limit, maxGen int) int {
	var victims []*trackedObject

	inBound := func(obj *trackedObject) bool {
		return maxGen < 0 || obj.generation <= maxGen
	}

	c.mu.Lock()
	var queue []uint64
	for id, obj := range c.objects {
		if obj.refCount == 0 && inBound(obj) {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		if limit > 0 && len(victims) >= limit {
			break
		}
		id := queue[0]
		queue = queue[1:]
		obj, ok := c.objects[id]
		if !ok || obj.refCount != 0 || !inBound(obj) {
			continue
		}
		delete(c.objects, id)
		victims = append(victims, obj)
		for ref := range obj.refs {
			target, ok := c.objects[ref]
			if !ok || target.refCount == 0 {
				continue
			}
			target.refCount--
			if target.refCount == 0 && inBound(target) {
				queue = append(queue, ref)
			}
		}
	}
	c.mu.Unlock()

	c.finishRemoval(victims, false)
	return len(victims)
}

// finishRemoval settles the statistics and the potential-cycle set for a
// batch of objects already deleted from the table. cyclic marks the batch
// as swept by the cycle collector, which additionally counts toward
// cyclesDetected.
func (c *Collector) finishRemoval(victims []*trackedObject, cyclic bool) {
	if len(victims) == 0 {
		return
	}

	var bytes uint64
	for _, obj := range victims {
		bytes += obj.size
	}

	c.statsMu.Lock()
	c.deallocations += uint64(len(victims))
	c.liveBytes -= bytes
	if cyclic {
		c.cyclesDetected += uint64(len(victims))
	}
	c.statsMu.Unlock()

	c.cycleMu.Lock()
	for _, obj := range victims {
		delete(c.cycleSet, obj.id)
	}
	c.cycleMu.Unlock()
}
