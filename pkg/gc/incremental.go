package gc

// Incremental collection
//
// For callers that cannot afford one large pause: each step reclaims at
// most the configured number of zero-count objects and returns. Repeated
// steps converge to the same state a full CollectUnreferenced() reaches.
// Cycles are out of scope here; only a full Collect() breaks those.

// CollectIncrementalStep reclaims at most the configured step size of
// zero-count objects.
func (c *Collector) CollectIncrementalStep() {
	c.stepMu.Lock()
	step := c.stepSize
	c.stepMu.Unlock()
	if step <= 0 {
		return
	}
	c.reclaimZeroCounts(step, -1)
}
