package gc

// Generational collection
//
// Long-lived objects are poor candidates for frequent reclamation scans.
// A generational pass reclaims only among objects whose generation is
// within the requested bound and promotes the survivors, so an object that
// lives through a few passes ages out of the young-collection workload
// entirely. Promotion stops at the configured generation threshold.
//
// This is a counting-only pass: no cycle detection happens here. It is the
// cheap pass meant to run often between full Collect() invocations.

// CollectGeneration reclaims zero-count objects whose generation is at most
// maxGen and promotes the surviving objects within that bound.
func (c *Collector) CollectGeneration(maxGen int) {
	if maxGen < 0 {
		return
	}

	c.reclaimZeroCounts(0, maxGen)

	c.tenureMu.Lock()
	tenure := c.tenureLimit
	c.tenureMu.Unlock()

	c.mu.Lock()
	for _, obj := range c.objects {
		if obj.generation <= maxGen && obj.generation < tenure {
			obj.generation++
		}
	}
	c.mu.Unlock()
}
