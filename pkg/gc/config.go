package gc

// Tunables. Each sits behind its own lock and may be changed at any time;
// a new value takes effect on the next check that reads it.

// SetCollectionThreshold sets the live-byte level above which the
// auto-collection trigger runs a full collection.
func (c *Collector) SetCollectionThreshold(bytes uint64) {
	c.thresholdMu.Lock()
	c.threshold = bytes
	c.thresholdMu.Unlock()
}

// CollectionThreshold returns the current auto-collection threshold
func (c *Collector) CollectionThreshold() uint64 {
	c.thresholdMu.Lock()
	defer c.thresholdMu.Unlock()
	return c.threshold
}

// SetAutoCollect enables or disables the post-allocation trigger
func (c *Collector) SetAutoCollect(enabled bool) {
	c.autoMu.Lock()
	c.autoCollect = enabled
	c.autoMu.Unlock()
}

// AutoCollect returns whether the post-allocation trigger is enabled
func (c *Collector) AutoCollect() bool {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()
	return c.autoCollect
}

// SetGenerationThreshold sets the generation at which survivors stop being
// promoted by generational passes.
func (c *Collector) SetGenerationThreshold(n int) {
	if n < 0 {
		n = 0
	}
	c.tenureMu.Lock()
	c.tenureLimit = n
	c.tenureMu.Unlock()
}

// GenerationThreshold returns the promotion cap
func (c *Collector) GenerationThreshold() int {
	c.tenureMu.Lock()
	defer c.tenureMu.Unlock()
	return c.tenureLimit
}

// SetIncrementalStepSize sets how many zero-count objects one incremental
// step may reclaim.
func (c *Collector) SetIncrementalStepSize(n int) {
	if n < 0 {
		n = 0
	}
	c.stepMu.Lock()
	c.stepSize = n
	c.stepMu.Unlock()
}

// IncrementalStepSize returns the per-step reclamation bound
func (c *Collector) IncrementalStepSize() int {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	return c.stepSize
}
