package collection

import (
	"github.com/google/btree"
)

// recordTree keeps every record of a collection sorted by (key, generation,
// phantom). Seek helpers return nil when nothing qualifies.
type recordTree struct {
	tree *btree.BTreeG[*Record]
}

func newRecordTree() *recordTree {
	return &recordTree{
		tree: btree.NewG(32, func(a, b *Record) bool { return a.Less(b) }),
	}
}

func (t *recordTree) ReplaceOrInsert(r *Record) {
	t.tree.ReplaceOrInsert(r)
}

func (t *recordTree) Delete(r *Record) (*Record, bool) {
	return t.tree.Delete(r)
}

func (t *recordTree) Get(r *Record) (*Record, bool) {
	return t.tree.Get(r)
}

func (t *recordTree) Len() int {
	return t.tree.Len()
}

func (t *recordTree) Traverse(iterator func(r *Record) bool) {
	t.tree.Ascend(iterator)
}

func (t *recordTree) Min() *Record {
	r, _ := t.tree.Min()
	return r
}

func (t *recordTree) Max() *Record {
	r, _ := t.tree.Max()
	return r
}

// seekGE returns the first record that is not less than probe.
func (t *recordTree) seekGE(probe *Record) (found *Record) {
	t.tree.AscendGreaterOrEqual(probe, func(r *Record) bool {
		found = r
		return false
	})
	return
}

// seekGT returns the first record strictly greater than probe.
func (t *recordTree) seekGT(probe *Record) (found *Record) {
	t.tree.AscendGreaterOrEqual(probe, func(r *Record) bool {
		if !probe.Less(r) {
			return true
		}
		found = r
		return false
	})
	return
}

// seekLT returns the last record strictly less than probe.
func (t *recordTree) seekLT(probe *Record) (found *Record) {
	t.tree.DescendLessOrEqual(probe, func(r *Record) bool {
		if !r.Less(probe) {
			return true
		}
		found = r
		return false
	})
	return
}

func (t *recordTree) next(r *Record) *Record {
	return t.seekGT(r)
}

func (t *recordTree) prev(r *Record) *Record {
	return t.seekLT(r)
}

// Probes address positions between stored records. Appending a zero byte
// gives the smallest string greater than the original one.

func firstOfKey(key string) *Record {
	return &Record{Key: key}
}

func afterKey(key string) *Record {
	return &Record{Key: key + "\x00"}
}

func afterGeneration(key, generationID string) *Record {
	return &Record{Key: key, GenerationID: generationID + "\x00"}
}
