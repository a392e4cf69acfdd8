package collection

// diffCursor paginates the changes between two generations. A scan visits
// the whole tree from startKey, otherwise only keys[next:] are visited.
type diffCursor struct {
	scan     bool
	keys     []string
	next     int
	startKey *string

	fromGenerationID *string
	toGenerationID   string
	phantomID        string
	maxItems         int
}

type DiffItem struct {
	Key                string    `json:"key"`
	FromValue          *string   `json:"fromValue"`
	ToValue            *string   `json:"toValue"`
	IntermediateValues []*string `json:"intermediateValues"`
}

type DiffResult struct {
	FromGenerationID *string    `json:"fromGenerationId"`
	ToGenerationID   string     `json:"toGenerationId"`
	Items            []DiffItem `json:"items"`
	CursorID         string     `json:"cursorId,omitempty"`
}

func (d *diffCursor) readPage(tree *recordTree) ([]DiffItem, *diffCursor) {
	if d.scan {
		return d.readScan(tree)
	}
	return d.readKeys(tree)
}

func (d *diffCursor) readKeys(tree *recordTree) ([]DiffItem, *diffCursor) {

	items := []DiffItem{}

	for i := d.next; i < len(d.keys); i++ {
		if len(items) >= d.maxItems {
			following := *d
			following.next = i
			return items, &following
		}

		t, err := newTraverserAtKey(tree, d.keys[i], true, nil, false)
		if err != nil {
			continue
		}
		if item, changed := d.diffKey(t); changed {
			items = append(items, item)
		}
	}

	return items, nil
}

func (d *diffCursor) readScan(tree *recordTree) ([]DiffItem, *diffCursor) {

	items := []DiffItem{}

	var t *Traverser
	var err error
	if d.startKey == nil {
		t, err = newTraverserAtFirst(tree)
	} else {
		t, err = newTraverserAtKey(tree, *d.startKey, false, nil, false)
	}
	if err != nil {
		return items, nil
	}

	for {
		if len(items) >= d.maxItems {
			key := t.Item().Key
			following := *d
			following.startKey = &key
			return items, &following
		}

		if item, changed := d.diffKey(t); changed {
			items = append(items, item)
		}

		if !t.GoNextKey() {
			return items, nil
		}
	}
}

// diffKey builds the chain of values the key went through in the generation
// range. It reports false when the chain has a single value.
func (d *diffCursor) diffKey(t *Traverser) (DiffItem, bool) {

	key := t.Item().Key
	chain := valueChain{}

	if d.fromGenerationID != nil {
		if t.SearchPhantomInCurrentKey(*d.fromGenerationID, d.phantomID) {
			chain.push(t.Item().Value)
		} else {
			chain.push(nil)
		}
		if !t.goToFirstGenerationAfter(*d.fromGenerationID) {
			return DiffItem{}, false
		}
	} else {
		chain.push(nil)
		t.SearchGenerationInCurrentKey(nil)
	}

	for t.Item().GenerationID <= d.toGenerationID {
		if r, ok := t.visibleInCurrentGeneration(d.phantomID); ok {
			chain.push(r.Value)
		}
		if found, _ := t.GoNextGenerationInCurrentKey(); !found {
			break
		}
	}

	if len(chain) < 2 {
		return DiffItem{}, false
	}

	return DiffItem{
		Key:                key,
		FromValue:          chain[0],
		ToValue:            chain[len(chain)-1],
		IntermediateValues: chain[1 : len(chain)-1],
	}, true
}

// valueChain drops a value equal to the last one pushed.
type valueChain []*string

func (c *valueChain) push(value *string) {
	if n := len(*c); n > 0 && equalValues((*c)[n-1], value) {
		return
	}
	*c = append(*c, value)
}
