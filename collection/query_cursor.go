package collection

// queryCursor paginates a snapshot read. A nil startKey means the beginning
// of the tree.
type queryCursor struct {
	startKey     *string
	generationID string
	phantomID    string
	maxItems     int
}

type QueryResult struct {
	GenerationID string     `json:"generationId"`
	Items        []KeyValue `json:"items"`
	CursorID     string     `json:"cursorId,omitempty"`
}

// readPage returns the next items and the cursor for the following page, or
// nil when the tree is exhausted.
func (q *queryCursor) readPage(tree *recordTree) ([]KeyValue, *queryCursor) {

	items := []KeyValue{}

	var t *Traverser
	var err error
	if q.startKey == nil {
		t, err = newTraverserAtFirst(tree)
	} else {
		t, err = newTraverserAtKey(tree, *q.startKey, false, nil, false)
	}
	if err != nil {
		return items, nil
	}

	for {
		if len(items) >= q.maxItems {
			key := t.Item().Key
			return items, &queryCursor{
				startKey:     &key,
				generationID: q.generationID,
				phantomID:    q.phantomID,
				maxItems:     q.maxItems,
			}
		}

		var found bool
		if q.phantomID == "" {
			found = t.SearchGenerationInCurrentKey(&q.generationID)
		} else {
			found = t.SearchPhantomInCurrentKey(q.generationID, q.phantomID)
		}
		record := t.Item()

		hasNext := t.GoNextKey()

		if found && record.Value != nil {
			items = append(items, KeyValue{Key: record.Key, Value: record.Value})
		}

		if !hasNext {
			return items, nil
		}
	}
}
