package collection

import (
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/metrics"
)

// Query reads a snapshot at the generation (the committed one by default)
// through the optional phantom. Tombstones are never returned.
func (c *Collection) Query(generationID, phantomID *string) (*QueryResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	generation, phantom, err := c.readTarget(generationID, phantomID)
	if err != nil {
		return nil, err
	}

	return c.readQuery(&queryCursor{
		generationID: generation,
		phantomID:    phantom,
		maxItems:     c.options.MaxItemsInPack,
	}), nil
}

func (c *Collection) ReadQueryCursor(cursorID string) (*QueryResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	q, err := c.takeQueryCursor(cursorID)
	if err != nil {
		return nil, err
	}

	return c.readQuery(q), nil
}

func (c *Collection) readQuery(q *queryCursor) *QueryResult {

	items, following := q.readPage(c.records)
	metrics.CursorPagesTotal.WithLabelValues("query").Inc()

	result := &QueryResult{
		GenerationID: q.generationID,
		Items:        items,
	}
	if following != nil {
		result.CursorID = c.registerQueryCursor(following)
	}

	return result
}

// DiffSource tells where a diff starts from. It is either DiffFromGeneration
// or DiffFromReader.
type DiffSource interface {
	diffSource()
}

// DiffFromGeneration starts a diff at an explicit generation. A nil
// generation is the beginning of time.
type DiffFromGeneration struct {
	GenerationID *string
}

// DiffFromReader starts a diff at the checkpoint of a reader. When
// CollectionName names another collection the reader is looked up there.
type DiffFromReader struct {
	ReaderID       string
	CollectionName string
}

func (DiffFromGeneration) diffSource() {}
func (DiffFromReader) diffSource()     {}

type DiffRequest struct {
	From           DiffSource
	ToGenerationID *string
	PhantomID      *string
}

// Diff lists every key whose visible value changed between two committed
// generations, with the chain of values it went through.
func (c *Collection) Diff(req DiffRequest) (*DiffResult, error) {

	// Readers of other collections are resolved before taking our own lock
	var foreign *Reader
	if r, ok := req.From.(DiffFromReader); ok && r.CollectionName != "" && r.CollectionName != c.Name {
		if c.options.Resolve == nil {
			return nil, errors.Wrapf(ErrNoSuchReader, "reader '%s' in collection '%s'", r.ReaderID, r.CollectionName)
		}
		other, err := c.options.Resolve(r.CollectionName)
		if err != nil {
			return nil, err
		}
		reader, err := other.GetReader(r.ReaderID)
		if err != nil {
			return nil, err
		}
		foreign = reader
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var from *string
	switch source := req.From.(type) {
	case nil:
	case DiffFromGeneration:
		from = source.GenerationID
	case DiffFromReader:
		reader := foreign
		if reader == nil {
			var ok bool
			if reader, ok = c.readers[source.ReaderID]; !ok {
				return nil, errors.Wrapf(ErrNoSuchReader, "reader '%s'", source.ReaderID)
			}
		}
		from = reader.GenerationID
	default:
		return nil, errors.AssertionFailedf("unexpected diff source %T", req.From)
	}

	to := c.committed
	if req.ToGenerationID != nil {
		to = *req.ToGenerationID
	}
	if !IsValidGenerationID(to) {
		return nil, errors.Wrapf(ErrInvalidGenerationID, "'%s'", to)
	}
	if to > c.committed {
		return nil, errors.Wrapf(ErrInvalidGenerationRange, "generation '%s' is not committed", to)
	}

	phantom := ""
	if req.PhantomID != nil {
		if !c.phantoms.IsActive(*req.PhantomID) {
			return nil, errors.Wrapf(ErrNoSuchPhantom, "phantom '%s'", *req.PhantomID)
		}
		phantom = *req.PhantomID
	}

	d := &diffCursor{
		scan:             from == nil,
		fromGenerationID: from,
		toGenerationID:   to,
		phantomID:        phantom,
		maxItems:         c.options.MaxItemsInPack,
	}

	if from != nil {
		if !IsValidGenerationID(*from) {
			return nil, errors.Wrapf(ErrInvalidGenerationID, "'%s'", *from)
		}
		if *from > to {
			return nil, errors.Wrapf(ErrInvalidGenerationRange, "from '%s' is after to '%s'", *from, to)
		}
		if *from == to {
			return &DiffResult{FromGenerationID: from, ToGenerationID: to, Items: []DiffItem{}}, nil
		}

		keys, err := c.changedKeysBetween(*from, to)
		if err != nil {
			return nil, err
		}
		if phantom != "" {
			keys = mergeKeys(keys, c.phantoms.Keys(phantom))
		}
		d.keys = keys
	}

	return c.readDiff(d), nil
}

// changedKeysBetween merges the keys changed by the generations in (from, to].
func (c *Collection) changedKeysBetween(from, to string) ([]string, error) {

	fromPos, found := searchGeneration(c.history, from)
	if !found {
		return nil, errors.AssertionFailedf("generation '%s' not found in history of '%s'", from, c.Name)
	}
	toPos, found := searchGeneration(c.history, to)
	if !found {
		return nil, errors.AssertionFailedf("generation '%s' not found in history of '%s'", to, c.Name)
	}

	lists := make([][]string, 0, toPos-fromPos)
	for _, g := range c.history[fromPos+1 : toPos+1] {
		lists = append(lists, g.UnsafeChangedKeys())
	}

	return mergeKeys(lists...), nil
}

func (c *Collection) ReadDiffCursor(cursorID string) (*DiffResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	d, err := c.takeDiffCursor(cursorID)
	if err != nil {
		return nil, err
	}

	return c.readDiff(d), nil
}

func (c *Collection) readDiff(d *diffCursor) *DiffResult {

	items, following := d.readPage(c.records)
	metrics.CursorPagesTotal.WithLabelValues("diff").Inc()

	result := &DiffResult{
		FromGenerationID: d.fromGenerationID,
		ToGenerationID:   d.toGenerationID,
		Items:            items,
	}
	if following != nil {
		result.CursorID = c.registerDiffCursor(following)
	}

	return result
}
