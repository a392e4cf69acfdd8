package collection

import (
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/metrics"
)

type GenerationInfo struct {
	GenerationID     string  `json:"generationId"`
	NextGenerationID *string `json:"nextGenerationId"`
}

func (c *Collection) GetGeneration() GenerationInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return GenerationInfo{
		GenerationID:     c.committed,
		NextGenerationID: c.plannedGeneration(),
	}
}

// GetPlannedGeneration returns the id of the pending generation, or nil when
// none is open.
func (c *Collection) GetPlannedGeneration() *string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.plannedGeneration()
}

func (c *Collection) plannedGeneration() *string {
	if c.pending == nil {
		return nil
	}
	id := c.pending.ID
	return &id
}

// StartGeneration opens generation id in a manual collection. An already
// pending id is accepted as is. A different pending generation is aborted
// when abortOutdated is set and id is newer, otherwise the call fails.
func (c *Collection) StartGeneration(id string, abortOutdated bool) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isManual {
		return errors.Wrapf(ErrUnsupportedActionOnNonManual, "start generation in '%s'", c.Name)
	}
	if !IsValidGenerationID(id) {
		return errors.Wrapf(ErrInvalidGenerationID, "'%s'", id)
	}
	if id <= c.committed {
		return errors.Wrapf(ErrOutdatedGeneration, "'%s' is not after committed '%s'", id, c.committed)
	}

	if c.pending != nil {
		if c.pending.ID == id {
			return nil
		}
		if !abortOutdated || id < c.pending.ID {
			return errors.Wrapf(ErrOutdatedGeneration, "generation '%s' is pending", c.pending.ID)
		}
		c.logger.Info("aborting outdated generation", "generation", c.pending.ID, "next", id)
		c.abortPending()
	}

	c.pending = NewGeneration(id)
	return nil
}

// CommitGeneration makes the pending generation of a manual collection
// visible and moves the given readers to their new checkpoints.
func (c *Collection) CommitGeneration(id string, updateReaders []ReaderUpdate) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isManual {
		return errors.Wrapf(ErrUnsupportedActionOnNonManual, "commit generation in '%s'", c.Name)
	}
	if c.pending == nil || c.pending.ID != id {
		return errors.Wrapf(ErrOutdatedGeneration, "commit '%s'", id)
	}

	for _, u := range updateReaders {
		if _, ok := c.readers[u.ReaderID]; !ok {
			return errors.Wrapf(ErrNoSuchReader, "reader '%s'", u.ReaderID)
		}
		if u.GenerationID != nil && !IsValidGenerationID(*u.GenerationID) {
			return errors.Wrapf(ErrInvalidGenerationID, "'%s'", *u.GenerationID)
		}
	}

	c.commitPending()
	for _, u := range updateReaders {
		c.readers[u.ReaderID].GenerationID = u.GenerationID
	}

	metrics.CommitsTotal.WithLabelValues(c.Name, "manual").Inc()
	c.streams.publish(c.committed)

	return nil
}

// AbortGeneration deletes every record written to the pending generation of
// a manual collection.
func (c *Collection) AbortGeneration(id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isManual {
		return errors.Wrapf(ErrUnsupportedActionOnNonManual, "abort generation in '%s'", c.Name)
	}
	if c.pending == nil || c.pending.ID != id {
		return errors.Wrapf(ErrOutdatedGeneration, "abort '%s'", id)
	}

	c.abortPending()
	return nil
}

// commitPending moves the pending generation to the history. Non manual
// collections open the next one right away.
func (c *Collection) commitPending() {
	c.history = append(c.history, c.pending)
	c.committed = c.pending.ID
	c.pending = nil
	if !c.isManual {
		c.pending = NewGeneration(NextGenerationID(c.committed))
	}
}

// abortPending deletes the records of the pending generation, phantom
// overlays written against it included.
func (c *Collection) abortPending() {

	generation := c.pending.ID
	keys := mergeKeys(c.pending.changedKeys.UnsafeKeys(), c.pending.phantomKeys.UnsafeKeys())

	deleted := 0
	for _, key := range keys {
		var group []*Record
		r := c.records.seekGE(&Record{Key: key, GenerationID: generation})
		for r != nil && r.Key == key && r.GenerationID == generation {
			group = append(group, r)
			r = c.records.next(r)
		}
		for _, r := range group {
			c.records.Delete(r)
		}
		deleted += len(group)
	}

	c.logger.Info("generation aborted", "generation", generation, "records", deleted)
	metrics.AbortsTotal.WithLabelValues(c.Name).Inc()

	c.pending = nil
}

func (c *Collection) StartPhantom() (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return "", ErrCollectionClosed
	}
	return c.phantoms.Start(), nil
}

func (c *Collection) DropPhantom(phantomID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.phantoms.Drop(phantomID)
}
