package collection

import (
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/utils"
)

// Dump record types, in the order they are emitted for each collection.
const (
	DumpTypeCollection     = "collection"
	DumpTypeGeneration     = "generation"
	DumpTypeNextGeneration = "nextGeneration"
	DumpTypeReaders        = "readers"
	DumpTypePhantoms       = "phantoms"
	DumpTypeItems          = "items"
)

// DumpRecord is one unit of the extraction stream of a collection. Which
// fields are set depends on Type.
type DumpRecord struct {
	Type string `json:"type"`

	// collection
	Name             string  `json:"name,omitzero"`
	NextGenerationID *string `json:"nextGenerationId,omitzero"`
	IsManual         bool    `json:"isManual,omitzero"`

	// collection, generation, nextGeneration
	GenerationID string `json:"generationId,omitzero"`

	// generation, nextGeneration
	ChangedKeys []string `json:"changedKeys,omitzero"`
	PhantomKeys []string `json:"phantomKeys,omitzero"`

	Readers []Reader `json:"readers,omitzero"`

	LastPhantomID string              `json:"lastPhantomId,omitzero"`
	Phantoms      map[string][]string `json:"phantoms,omitzero"`

	Items []Record `json:"items,omitzero"`
}

// Extract emits the whole state of the collection, splitting key lists and
// records in chunks of chunkSize. The caller must hold the collection
// blocked.
func (c *Collection) Extract(chunkSize int, emit func(*DumpRecord) error) error {

	if chunkSize <= 0 {
		chunkSize = c.options.MaxItemsInPack
	}

	err := emit(&DumpRecord{
		Type:             DumpTypeCollection,
		Name:             c.Name,
		GenerationID:     c.committed,
		NextGenerationID: c.plannedGeneration(),
		IsManual:         c.isManual,
	})
	if err != nil {
		return err
	}

	for _, g := range c.history {
		err := emitChunks(g.UnsafeChangedKeys(), chunkSize, func(keys []string) error {
			return emit(&DumpRecord{Type: DumpTypeGeneration, GenerationID: g.ID, ChangedKeys: keys})
		})
		if err != nil {
			return err
		}
	}

	if c.pending != nil {
		err := emitChunks(c.pending.UnsafeChangedKeys(), chunkSize, func(keys []string) error {
			return emit(&DumpRecord{Type: DumpTypeNextGeneration, GenerationID: c.pending.ID, ChangedKeys: keys})
		})
		if err != nil {
			return err
		}
		if c.pending.phantomKeys.Len() > 0 {
			err := emit(&DumpRecord{
				Type:         DumpTypeNextGeneration,
				GenerationID: c.pending.ID,
				PhantomKeys:  c.pending.phantomKeys.UnsafeKeys(),
			})
			if err != nil {
				return err
			}
		}
	}

	readers := make([]Reader, 0, len(c.readers))
	for _, id := range utils.GetKeys(c.readers) {
		readers = append(readers, *c.readers[id])
	}
	if err := emit(&DumpRecord{Type: DumpTypeReaders, Readers: readers}); err != nil {
		return err
	}

	phantoms := map[string][]string{}
	for id, keys := range c.phantoms.active {
		phantoms[id] = keys.UnsafeKeys()
	}
	err = emit(&DumpRecord{Type: DumpTypePhantoms, LastPhantomID: c.phantoms.lastID, Phantoms: phantoms})
	if err != nil {
		return err
	}

	chunk := make([]Record, 0, chunkSize)
	c.records.Traverse(func(r *Record) bool {
		chunk = append(chunk, *r)
		if len(chunk) < chunkSize {
			return true
		}
		err = emit(&DumpRecord{Type: DumpTypeItems, Items: chunk})
		chunk = make([]Record, 0, chunkSize)
		return err == nil
	})
	if err != nil {
		return err
	}
	if len(chunk) > 0 {
		return emit(&DumpRecord{Type: DumpTypeItems, Items: chunk})
	}

	return nil
}

// emitChunks calls f at least once, with an empty list if there are no keys.
func emitChunks(keys []string, size int, f func([]string) error) error {
	if len(keys) == 0 {
		return f(nil)
	}
	for len(keys) > 0 {
		n := min(size, len(keys))
		if err := f(keys[:n]); err != nil {
			return err
		}
		keys = keys[n:]
	}
	return nil
}

// Restore rebuilds a collection from the records emitted by Extract.
// Generations and items must come in ascending order.
func Restore(dump []*DumpRecord, options *Options) (*Collection, error) {

	if len(dump) == 0 || dump[0].Type != DumpTypeCollection {
		return nil, errors.AssertionFailedf("collection dump must start with a collection record")
	}
	head := dump[0]

	if !IsValidGenerationID(head.GenerationID) {
		return nil, errors.Wrapf(ErrInvalidGenerationID, "'%s'", head.GenerationID)
	}

	c := newCollection(head.Name, head.IsManual, options)
	c.committed = head.GenerationID

	var last *Record
	for _, d := range dump[1:] {
		switch d.Type {

		case DumpTypeGeneration:
			n := len(c.history)
			switch {
			case n > 0 && c.history[n-1].ID == d.GenerationID:
			case n > 0 && c.history[n-1].ID > d.GenerationID:
				return nil, errors.AssertionFailedf("generation '%s' after '%s' in '%s'", d.GenerationID, c.history[n-1].ID, c.Name)
			default:
				c.history = append(c.history, NewGeneration(d.GenerationID))
			}
			g := c.history[len(c.history)-1]
			for _, key := range d.ChangedKeys {
				g.AddChangedKey(key)
			}

		case DumpTypeNextGeneration:
			if c.pending == nil {
				c.pending = NewGeneration(d.GenerationID)
			}
			if c.pending.ID != d.GenerationID {
				return nil, errors.AssertionFailedf("next generation '%s' and '%s' in '%s'", c.pending.ID, d.GenerationID, c.Name)
			}
			for _, key := range d.ChangedKeys {
				c.pending.AddChangedKey(key)
			}
			for _, key := range d.PhantomKeys {
				c.pending.phantomKeys.Add(key)
			}

		case DumpTypeReaders:
			for _, r := range d.Readers {
				r := r
				c.readers[r.ReaderID] = &r
			}

		case DumpTypePhantoms:
			if d.LastPhantomID != "" {
				c.phantoms.lastID = d.LastPhantomID
			}
			for id, keys := range d.Phantoms {
				set := &sortedKeys{}
				for _, key := range keys {
					set.Add(key)
				}
				c.phantoms.active[id] = set
			}

		case DumpTypeItems:
			for i := range d.Items {
				r := d.Items[i]
				if last != nil && !last.Less(&r) {
					return nil, errors.AssertionFailedf("record %+v after %+v in '%s'", r, *last, c.Name)
				}
				c.records.ReplaceOrInsert(&r)
				last = &r
			}

		default:
			return nil, errors.AssertionFailedf("unexpected dump record type '%s' in '%s'", d.Type, c.Name)
		}
	}

	if n := len(c.history); n == 0 || c.history[n-1].ID != c.committed {
		return nil, errors.AssertionFailedf("history of '%s' does not end at '%s'", c.Name, c.committed)
	}
	if !c.isManual && c.pending == nil {
		c.pending = NewGeneration(NextGenerationID(c.committed))
	}
	if c.pending != nil && c.pending.HasChangedKeys() && !c.isManual {
		c.scheduleAutoCommit()
	}

	return c, nil
}
