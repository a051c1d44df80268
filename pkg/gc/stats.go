package gc

import "time"

// Stats is a point-in-time snapshot of the collector's counters
type Stats struct {
	Allocations    uint64
	Deallocations  uint64
	LiveBytes      uint64
	PeakBytes      uint64
	Collections    uint64
	CyclesDetected uint64
	LastCollection time.Duration
}

// Stats returns a snapshot of the running counters. Outside of a collection
// in progress, LiveBytes equals the sum of the size estimates of every live
// object.
func (c *Collector) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return Stats{
		Allocations:    c.allocations,
		Deallocations:  c.deallocations,
		LiveBytes:      c.liveBytes,
		PeakBytes:      c.peakBytes,
		Collections:    c.collections,
		CyclesDetected: c.cyclesDetected,
		LastCollection: c.lastCollection,
	}
}
