package collection

import (
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/metrics"
)

type PutRequest struct {
	Key          string
	Value        *string
	IfNotPresent bool
	GenerationID *string
	PhantomID    *string
}

type PutItem struct {
	Key          string  `json:"key"`
	Value        *string `json:"value"`
	IfNotPresent bool    `json:"ifNotPresent,omitempty"`
}

type PutManyRequest struct {
	Items        []PutItem
	GenerationID *string
	PhantomID    *string
}

// Put writes a value (nil deletes the key) and returns the generation it was
// written to. With IfNotPresent an existing record wins and its generation is
// returned instead.
func (c *Collection) Put(req PutRequest) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	generation, phantom, err := c.writeTarget(req.GenerationID, req.PhantomID)
	if err != nil {
		return "", err
	}

	return c.put(req.Key, req.Value, req.IfNotPresent, generation, phantom), nil
}

// PutMany applies every item in order with the same target. It is not
// atomic: items written before a failure stay written.
func (c *Collection) PutMany(req PutManyRequest) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	generation, phantom, err := c.writeTarget(req.GenerationID, req.PhantomID)
	if err != nil {
		return "", err
	}

	for _, item := range req.Items {
		c.put(item.Key, item.Value, item.IfNotPresent, generation, phantom)
	}

	return generation, nil
}

// writeTarget resolves the generation and phantom of a write operation.
func (c *Collection) writeTarget(generationID, phantomID *string) (string, string, error) {

	if c.closed {
		return "", "", ErrCollectionClosed
	}

	if generationID != nil && !IsValidGenerationID(*generationID) {
		return "", "", errors.Wrapf(ErrInvalidGenerationID, "'%s'", *generationID)
	}

	if phantomID != nil {
		if !c.phantoms.IsActive(*phantomID) {
			return "", "", errors.Wrapf(ErrNoSuchPhantom, "phantom '%s'", *phantomID)
		}
		if generationID == nil {
			return c.committed, *phantomID, nil
		}
		if *generationID <= c.committed || (c.pending != nil && *generationID == c.pending.ID) {
			return *generationID, *phantomID, nil
		}
		return "", "", errors.Wrapf(ErrOutdatedGeneration, "phantom write to '%s'", *generationID)
	}

	if generationID == nil {
		if c.isManual {
			return "", "", ErrCannotPutInManualCollection
		}
		return c.pending.ID, "", nil
	}

	if c.pending == nil {
		return "", "", errors.Wrapf(ErrNextGenerationIsNotStarted, "write to '%s'", *generationID)
	}
	if *generationID != c.pending.ID {
		return "", "", errors.Wrapf(ErrOutdatedGeneration, "write to '%s', pending is '%s'", *generationID, c.pending.ID)
	}

	return c.pending.ID, "", nil
}

func (c *Collection) put(key string, value *string, ifNotPresent bool, generation, phantom string) string {

	if value != nil {
		v := *value
		value = &v
	}

	t, err := newTraverserAtKey(c.records, key, false, nil, false)
	if err != nil {
		t, err = newTraverserAtLast(c.records)
	}

	if ifNotPresent && err == nil && t.Item().Key == key {
		m := t.Mark()
		if t.SearchPhantomInCurrentKey(generation, phantom) {
			return t.Item().GenerationID
		}
		t.Restore(m)
	}

	if err == nil && t.GoToInsertPosition(key, generation, phantom) == 0 {
		t.Item().Value = value
	} else {
		c.records.ReplaceOrInsert(&Record{
			Key:          key,
			Value:        value,
			GenerationID: generation,
			PhantomID:    phantom,
		})
	}

	metrics.PutsTotal.WithLabelValues(c.Name).Inc()

	if phantom != "" {
		c.phantoms.AddKey(phantom, key)
		if c.pending != nil && generation == c.pending.ID {
			c.pending.phantomKeys.Add(key)
		}
		return generation
	}

	c.pending.AddChangedKey(key)
	if !c.isManual {
		c.scheduleAutoCommit()
	}

	return generation
}
