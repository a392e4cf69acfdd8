package collection

// Traverser is a positioned cursor over the record tree. It never mutates the
// tree and it is only valid while the collection lock is held.
type Traverser struct {
	tree    *recordTree
	current *Record
}

// Marker is a saved traverser position.
type Marker struct {
	record *Record
}

func newTraverserAtFirst(tree *recordTree) (*Traverser, error) {
	first := tree.Min()
	if first == nil {
		return nil, errInitialItemNotFound
	}
	return &Traverser{tree: tree, current: first}, nil
}

func newTraverserAtLast(tree *recordTree) (*Traverser, error) {
	last := tree.Max()
	if last == nil {
		return nil, errInitialItemNotFound
	}
	return &Traverser{tree: tree, current: last}, nil
}

// newTraverserAtKey positions at the first record whose key is not less than
// key. With exactKey the key must exist. With a generation the traverser
// continues to the canonical record with the greatest generation not above
// it, and with exactGeneration that record must match the generation.
func newTraverserAtKey(tree *recordTree, key string, exactKey bool, generationID *string, exactGeneration bool) (*Traverser, error) {

	r := tree.seekGE(firstOfKey(key))
	if r == nil {
		return nil, errInitialItemNotFound
	}
	if exactKey && r.Key != key {
		return nil, errInitialItemNotFound
	}

	t := &Traverser{tree: tree, current: r}
	if generationID == nil {
		return t, nil
	}

	if !t.SearchGenerationInCurrentKey(generationID) {
		return nil, errInitialItemNotFound
	}
	if exactGeneration && t.current.GenerationID != *generationID {
		return nil, errInitialItemNotFound
	}

	return t, nil
}

// newTraverserBeforeKey positions at the first record of the greatest key
// lower than key.
func newTraverserBeforeKey(tree *recordTree, key string) (*Traverser, error) {
	r := tree.seekLT(firstOfKey(key))
	if r == nil {
		return nil, errInitialItemNotFound
	}
	return &Traverser{tree: tree, current: tree.seekGE(firstOfKey(r.Key))}, nil
}

// newTraverserAfterKey positions at the first record of the lowest key
// greater than key.
func newTraverserAfterKey(tree *recordTree, key string) (*Traverser, error) {
	r := tree.seekGE(afterKey(key))
	if r == nil {
		return nil, errInitialItemNotFound
	}
	return &Traverser{tree: tree, current: r}, nil
}

func (t *Traverser) Item() *Record {
	return t.current
}

func (t *Traverser) Mark() Marker {
	return Marker{record: t.current}
}

func (t *Traverser) Restore(m Marker) {
	t.current = m.record
}

func (t *Traverser) PeekNext() *Record {
	return t.tree.next(t.current)
}

func (t *Traverser) PeekPrev() *Record {
	return t.tree.prev(t.current)
}

func (t *Traverser) GoNext() bool {
	n := t.tree.next(t.current)
	if n == nil {
		return false
	}
	t.current = n
	return true
}

func (t *Traverser) GoPrev() bool {
	p := t.tree.prev(t.current)
	if p == nil {
		return false
	}
	t.current = p
	return true
}

// GoNextKey moves to the first record of the next key. The position is kept
// when there is no next key.
func (t *Traverser) GoNextKey() bool {
	n := t.tree.seekGE(afterKey(t.current.Key))
	if n == nil {
		return false
	}
	t.current = n
	return true
}

// GoPrevKey moves to the first record of the previous key. The position is
// kept when there is no previous key.
func (t *Traverser) GoPrevKey() bool {
	p := t.tree.seekLT(firstOfKey(t.current.Key))
	if p == nil {
		return false
	}
	t.current = t.tree.seekGE(firstOfKey(p.Key))
	return true
}

func (t *Traverser) goToFirstRecordInCurrentKey() {
	t.current = t.tree.seekGE(firstOfKey(t.current.Key))
}

func (t *Traverser) goToLastRecordInCurrentKey() {
	t.current = t.tree.seekLT(afterKey(t.current.Key))
}

// GoNextGenerationInCurrentKey moves to the first record of the next
// generation of the current key, skipping the phantom records of the current
// one. When nothing is found, isEnd tells whether the tree is exhausted or
// the next record belongs to another key.
func (t *Traverser) GoNextGenerationInCurrentKey() (found, isEnd bool) {
	n := t.tree.seekGE(afterGeneration(t.current.Key, t.current.GenerationID))
	if n == nil {
		return false, true
	}
	if n.Key != t.current.Key {
		return false, false
	}
	t.current = n
	return true, false
}

// goToFirstGenerationAfter moves to the first record of the current key whose
// generation is greater than generationID.
func (t *Traverser) goToFirstGenerationAfter(generationID string) bool {
	n := t.tree.seekGE(afterGeneration(t.current.Key, generationID))
	if n == nil || n.Key != t.current.Key {
		return false
	}
	t.current = n
	return true
}

// SearchGenerationInCurrentKey moves to the canonical record of the current
// key with the greatest generation not above generationID. A nil generation
// means before everything: the traverser goes to the first record of the key
// and the result is false.
func (t *Traverser) SearchGenerationInCurrentKey(generationID *string) bool {
	if generationID == nil {
		t.goToFirstRecordInCurrentKey()
		return false
	}
	return t.SearchPhantomInCurrentKey(*generationID, "")
}

// SearchPhantomInCurrentKey is SearchGenerationInCurrentKey honoring phantom
// visibility: records of phantomID are visible along with canonical ones, and
// the last visible record in tree order wins.
func (t *Traverser) SearchPhantomInCurrentKey(generationID, phantomID string) bool {
	key := t.current.Key
	r := t.tree.seekLT(afterGeneration(key, generationID))
	for r != nil && r.Key == key {
		if r.visibleTo(phantomID) {
			t.current = r
			return true
		}
		r = t.tree.prev(r)
	}
	return false
}

// searchLastInCurrentKey moves to the last record of the current key with a
// generation not above generationID, whatever its phantom.
func (t *Traverser) searchLastInCurrentKey(generationID string) bool {
	key := t.current.Key
	r := t.tree.seekLT(afterGeneration(key, generationID))
	if r == nil || r.Key != key {
		return false
	}
	t.current = r
	return true
}

// goBackwardToNonPhantomRecordInCurrentGeneration walks back to the canonical
// record of the current generation. When it does not exist the traverser is
// left on the first phantom record of the generation.
func (t *Traverser) goBackwardToNonPhantomRecordInCurrentGeneration() bool {
	for t.current.PhantomID != "" {
		p := t.tree.prev(t.current)
		if p == nil || !p.sameGeneration(t.current) {
			return false
		}
		t.current = p
	}
	return true
}

func (t *Traverser) goForwardToLastPhantomRecordInCurrentGeneration() {
	t.current = t.tree.seekLT(afterGeneration(t.current.Key, t.current.GenerationID))
}

// visibleInCurrentGeneration returns the record of the current generation
// that phantomID sees: its own overlay first, then the canonical record.
func (t *Traverser) visibleInCurrentGeneration(phantomID string) (*Record, bool) {
	key, generationID := t.current.Key, t.current.GenerationID
	if phantomID != "" {
		r, ok := t.tree.Get(&Record{Key: key, GenerationID: generationID, PhantomID: phantomID})
		if ok {
			return r, true
		}
	}
	return t.tree.Get(&Record{Key: key, GenerationID: generationID})
}

// GoToInsertPosition moves the traverser next to where (key, generationID,
// phantomID) belongs. It returns 0 when that exact record is the current one,
// -1 when the new record goes before the current one and 1 when it goes
// after it.
func (t *Traverser) GoToInsertPosition(key, generationID, phantomID string) int {

	// key
	switch {
	case t.current.Key < key:
		for t.current.Key < key {
			if !t.GoNextKey() {
				t.goToLastRecordInCurrentKey()
				return 1
			}
		}
		if t.current.Key > key {
			return -1
		}
	case t.current.Key > key:
		for t.current.Key > key {
			if !t.GoPrevKey() {
				t.goToFirstRecordInCurrentKey()
				return -1
			}
		}
		if t.current.Key < key {
			t.goToLastRecordInCurrentKey()
			return 1
		}
	}

	// generation
	if !t.searchLastInCurrentKey(generationID) {
		t.goToFirstRecordInCurrentKey()
		return -1
	}
	if t.current.GenerationID < generationID {
		return 1
	}

	// phantom
	if phantomID == "" {
		if t.goBackwardToNonPhantomRecordInCurrentGeneration() {
			return 0
		}
		return -1
	}

	t.goForwardToLastPhantomRecordInCurrentGeneration()
	for {
		if t.current.PhantomID == phantomID {
			return 0
		}
		if t.current.PhantomID < phantomID {
			return 1
		}
		p := t.tree.prev(t.current)
		if p == nil || !p.sameGeneration(t.current) {
			return -1
		}
		t.current = p
	}
}
