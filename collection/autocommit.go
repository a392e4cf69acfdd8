package collection

import (
	"time"

	"github.com/fulldump/diffbelt/metrics"
)

// autoCommit is the single flight commit task of non manual collections. All
// fields are guarded by the collection mutex.
type autoCommit struct {
	scheduled bool
	running   bool
	rerun     bool
	timer     *time.Timer
}

func (a *autoCommit) stop() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.scheduled = false
	a.rerun = false
}

// scheduleAutoCommit arms the commit after the first write into a fresh
// pending generation. Writes that land while a commit is being published
// request another run. Called with the collection write lock held.
func (c *Collection) scheduleAutoCommit() {
	switch {
	case c.closed, c.autoCommit.scheduled:
	case c.autoCommit.running:
		c.autoCommit.rerun = true
	default:
		c.autoCommit.scheduled = true
		c.autoCommit.timer = time.AfterFunc(c.options.AutoCommitDelay, c.runAutoCommit)
	}
}

func (c *Collection) runAutoCommit() {

	c.mutex.Lock()
	c.autoCommit.scheduled = false
	if c.closed || c.pending == nil || !c.pending.HasChangedKeys() {
		c.mutex.Unlock()
		return
	}
	c.autoCommit.running = true
	c.commitPending()
	committed := c.committed
	c.mutex.Unlock()

	metrics.CommitsTotal.WithLabelValues(c.Name, "auto").Inc()
	c.logger.Debug("generation committed", "generation", committed)

	// Subscribers are notified outside the lock, the running flag keeps a
	// newer commit from overtaking this one.
	c.streams.publish(committed)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.autoCommit.running = false
	if c.autoCommit.rerun {
		c.autoCommit.rerun = false
		c.scheduleAutoCommit()
	}
}
