package collection

import (
	"github.com/cockroachdb/errors"
)

// Cleanup drops the history before watermark and collapses the records that
// no generation from watermark on can see. Phantom records and phantoms are
// dropped too. It fails when a checkpoint of one of our own readers, or one
// of the given readers stored elsewhere, is older than watermark.
func (c *Collection) Cleanup(watermark string, foreignReaders []Reader) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, found := searchGeneration(c.history, watermark); !found {
		return errors.Wrapf(ErrInvalidGenerationRange, "watermark '%s' is not in history", watermark)
	}

	behind := func(r *Reader) error {
		if r.GenerationID != nil && *r.GenerationID < watermark {
			return errors.Wrapf(ErrReaderBehindWatermark, "reader '%s' at '%s'", r.ReaderID, *r.GenerationID)
		}
		return nil
	}
	for _, r := range c.readers {
		if !r.tracks(c.Name, c.Name) {
			continue
		}
		if err := behind(r); err != nil {
			return err
		}
	}
	for i := range foreignReaders {
		if err := behind(&foreignReaders[i]); err != nil {
			return err
		}
	}

	position, _ := searchGeneration(c.history, watermark)
	c.history = append([]*Generation{}, c.history[position:]...)

	var obsolete []*Record
	var newest *Record // newest canonical record of the current key up to watermark
	flush := func() {
		if newest != nil && newest.Value == nil {
			obsolete = append(obsolete, newest)
		}
		newest = nil
	}

	c.records.Traverse(func(r *Record) bool {
		if newest != nil && newest.Key != r.Key {
			flush()
		}
		switch {
		case r.PhantomID != "":
			obsolete = append(obsolete, r)
		case r.GenerationID <= watermark:
			if newest != nil {
				obsolete = append(obsolete, newest)
			}
			newest = r
		}
		return true
	})
	flush()

	for _, r := range obsolete {
		c.records.Delete(r)
	}

	c.phantoms.DropAll()
	if c.pending != nil {
		c.pending.phantomKeys = sortedKeys{}
	}

	c.logger.Info("cleanup done", "watermark", watermark, "records", len(obsolete))

	return nil
}
