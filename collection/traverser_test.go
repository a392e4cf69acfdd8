package collection

import (
	"testing"

	. "github.com/fulldump/biff"
)

func newTestTree() *recordTree {
	tree := newRecordTree()
	for _, r := range []*Record{
		{Key: "a", GenerationID: gen(1), Value: Value("a1")},
		{Key: "a", GenerationID: gen(1), PhantomID: gen(2), Value: Value("a1p2")},
		{Key: "a", GenerationID: gen(2), Value: Value("a2")},
		{Key: "b", GenerationID: gen(1), PhantomID: gen(1), Value: Value("b1p1")},
		{Key: "b", GenerationID: gen(3), Value: nil},
		{Key: "d", GenerationID: gen(1), Value: Value("d1")},
	} {
		tree.ReplaceOrInsert(r)
	}
	return tree
}

func position(t *Traverser) Record {
	r := *t.Item()
	r.Value = nil
	return r
}

func TestRecordOrder(t *testing.T) {

	tree := newTestTree()

	keys := []string{}
	tree.Traverse(func(r *Record) bool {
		keys = append(keys, r.Key+"/"+r.GenerationID+"/"+r.PhantomID)
		return true
	})

	AssertEqual(keys, []string{
		"a/" + gen(1) + "/",
		"a/" + gen(1) + "/" + gen(2),
		"a/" + gen(2) + "/",
		"b/" + gen(1) + "/" + gen(1),
		"b/" + gen(3) + "/",
		"d/" + gen(1) + "/",
	})
}

func TestTraverser(t *testing.T) {

	Alternative("Traverser", func(a *A) {

		tree := newTestTree()

		a.Alternative("Initial item by key", func(a *A) {
			tr, err := newTraverserAtKey(tree, "c", false, nil, false)
			AssertNil(err)
			AssertEqual(tr.Item().Key, "d")

			_, err = newTraverserAtKey(tree, "c", true, nil, false)
			AssertEqual(err, errInitialItemNotFound)

			_, err = newTraverserAtKey(tree, "e", false, nil, false)
			AssertEqual(err, errInitialItemNotFound)

			tr, err = newTraverserAtKey(tree, "a", true, Value(gen(5)), false)
			AssertNil(err)
			AssertEqual(position(tr), Record{Key: "a", GenerationID: gen(2)})

			_, err = newTraverserAtKey(tree, "a", true, Value(gen(5)), true)
			AssertEqual(err, errInitialItemNotFound)
		})

		a.Alternative("Empty tree", func(a *A) {
			_, err := newTraverserAtFirst(newRecordTree())
			AssertEqual(err, errInitialItemNotFound)
			_, err = newTraverserAtLast(newRecordTree())
			AssertEqual(err, errInitialItemNotFound)
		})

		a.Alternative("Key hopping", func(a *A) {
			tr, _ := newTraverserAtFirst(tree)

			AssertTrue(tr.GoNextKey())
			AssertEqual(position(tr), Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)})
			AssertTrue(tr.GoNextKey())
			AssertEqual(tr.Item().Key, "d")
			AssertFalse(tr.GoNextKey())
			AssertEqual(tr.Item().Key, "d")

			AssertTrue(tr.GoPrevKey())
			AssertEqual(position(tr), Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)})
			AssertTrue(tr.GoPrevKey())
			AssertEqual(position(tr), Record{Key: "a", GenerationID: gen(1)})
			AssertFalse(tr.GoPrevKey())
		})

		a.Alternative("Mark and restore", func(a *A) {
			tr, _ := newTraverserAtFirst(tree)
			m := tr.Mark()
			tr.GoNext()
			tr.GoNext()
			AssertEqual(tr.PeekPrev().PhantomID, gen(2))
			tr.Restore(m)
			AssertEqual(position(tr), Record{Key: "a", GenerationID: gen(1)})
			AssertNil(tr.PeekPrev())
			AssertFalse(tr.GoPrev())
		})

		a.Alternative("Next generation", func(a *A) {
			tr, _ := newTraverserAtFirst(tree)

			found, isEnd := tr.GoNextGenerationInCurrentKey()
			AssertTrue(found)
			AssertFalse(isEnd)
			AssertEqual(position(tr), Record{Key: "a", GenerationID: gen(2)})

			found, isEnd = tr.GoNextGenerationInCurrentKey()
			AssertFalse(found)
			AssertFalse(isEnd)

			tr, _ = newTraverserAtLast(tree)
			found, isEnd = tr.GoNextGenerationInCurrentKey()
			AssertFalse(found)
			AssertTrue(isEnd)
		})

		a.Alternative("Search generation", func(a *A) {
			tr, _ := newTraverserAtKey(tree, "b", true, nil, false)

			AssertFalse(tr.SearchGenerationInCurrentKey(Value(gen(2))))
			AssertTrue(tr.SearchGenerationInCurrentKey(Value(gen(3))))
			AssertEqual(position(tr), Record{Key: "b", GenerationID: gen(3)})

			AssertFalse(tr.SearchGenerationInCurrentKey(nil))
			AssertEqual(position(tr), Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)})
		})

		a.Alternative("Search phantom", func(a *A) {
			tr, _ := newTraverserAtKey(tree, "b", true, nil, false)

			AssertTrue(tr.SearchPhantomInCurrentKey(gen(2), gen(1)))
			AssertEqual(tr.Item().Value, Value("b1p1"))
			AssertFalse(tr.SearchPhantomInCurrentKey(gen(2), gen(2)))

			tr, _ = newTraverserAtKey(tree, "a", true, nil, false)
			AssertTrue(tr.SearchPhantomInCurrentKey(gen(1), gen(2)))
			AssertEqual(tr.Item().Value, Value("a1p2"))
			AssertTrue(tr.SearchPhantomInCurrentKey(gen(1), gen(3)))
			AssertEqual(tr.Item().Value, Value("a1"))
			AssertTrue(tr.SearchPhantomInCurrentKey(gen(2), gen(2)))
			AssertEqual(tr.Item().Value, Value("a2"))
		})

		a.Alternative("Visible in current generation", func(a *A) {
			tr, _ := newTraverserAtKey(tree, "a", true, nil, false)

			r, ok := tr.visibleInCurrentGeneration(gen(2))
			AssertTrue(ok)
			AssertEqual(r.Value, Value("a1p2"))

			r, ok = tr.visibleInCurrentGeneration("")
			AssertTrue(ok)
			AssertEqual(r.Value, Value("a1"))

			tr, _ = newTraverserAtKey(tree, "b", true, nil, false)
			_, ok = tr.visibleInCurrentGeneration("")
			AssertFalse(ok)
		})
	})
}

func TestGoToInsertPosition(t *testing.T) {

	tree := newTestTree()

	cases := []struct {
		from     string
		key      string
		gen      string
		phantom  string
		result   int
		position Record
	}{
		{"a", "a", gen(1), "", 0, Record{Key: "a", GenerationID: gen(1)}},
		{"d", "a", gen(1), gen(2), 0, Record{Key: "a", GenerationID: gen(1), PhantomID: gen(2)}},
		{"a", "a", gen(1), gen(1), 1, Record{Key: "a", GenerationID: gen(1)}},
		{"a", "a", gen(1), gen(3), 1, Record{Key: "a", GenerationID: gen(1), PhantomID: gen(2)}},
		{"a", "a", gen(3), "", 1, Record{Key: "a", GenerationID: gen(2)}},
		{"a", "c", gen(1), "", -1, Record{Key: "d", GenerationID: gen(1)}},
		{"a", "e", gen(1), "", 1, Record{Key: "d", GenerationID: gen(1)}},
		{"d", "b", gen(1), "", -1, Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)}},
		{"d", "b", gen(1), gen(2), 1, Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)}},
		{"d", "b", ZeroGenerationID, "", -1, Record{Key: "b", GenerationID: gen(1), PhantomID: gen(1)}},
		{"d", "0", gen(1), "", -1, Record{Key: "a", GenerationID: gen(1)}},
		{"a", "c", gen(1), "", -1, Record{Key: "d", GenerationID: gen(1)}},
		{"d", "c", gen(1), "", 1, Record{Key: "b", GenerationID: gen(3)}},
	}

	for _, c := range cases {
		tr, _ := newTraverserAtKey(tree, c.from, true, nil, false)
		result := tr.GoToInsertPosition(c.key, c.gen, c.phantom)
		AssertEqual(result, c.result)
		AssertEqual(position(tr), c.position)
	}
}
