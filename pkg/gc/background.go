package gc

import "time"

// Background collection
//
// Long-running hosts (servers, REPL sessions) can run full collections on a
// timer instead of relying on the allocation trigger alone. The loop is off
// by default and never required for correctness; the synchronous API is
// unaffected by it.

// DefaultBackgroundInterval is the default tick for the background loop
const DefaultBackgroundInterval = 30 * time.Second

// StartBackground begins a goroutine that runs Collect() every interval.
// A non-positive interval selects the default. Safe to call repeatedly;
// only one loop runs.
func (c *Collector) StartBackground(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultBackgroundInterval
	}

	c.bgMu.Lock()
	defer c.bgMu.Unlock()

	if c.bgStop != nil {
		return // already running
	}
	c.bgStop = make(chan struct{})
	c.bgDone = make(chan struct{})

	// The goroutine works on captured copies so it never reads fields
	// that StopBackground has nilled out.
	stop := c.bgStop
	done := c.bgDone
	go c.backgroundLoop(interval, stop, done)
}

// StopBackground halts the background loop and waits for it to exit. Safe
// to call on a collector whose loop was never started.
func (c *Collector) StopBackground() {
	c.bgMu.Lock()
	stop := c.bgStop
	done := c.bgDone
	c.bgStop = nil
	c.bgDone = nil
	c.bgMu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// SetBackgroundPaused pauses or resumes the loop's ticks without stopping
// the goroutine.
func (c *Collector) SetBackgroundPaused(paused bool) {
	c.bgPaused.Store(paused)
}

// BackgroundPaused reports whether ticks are currently skipped
func (c *Collector) BackgroundPaused() bool {
	return c.bgPaused.Load()
}

func (c *Collector) backgroundLoop(interval time.Duration, stop <-chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.bgPaused.Load() {
				c.Collect()
			}
		}
	}
}
