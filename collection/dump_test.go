package collection

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/fulldump/biff"
)

func extract(c *Collection, chunkSize int) []*DumpRecord {
	dump := []*DumpRecord{}
	c.Block()
	defer c.Unblock()
	err := c.Extract(chunkSize, func(r *DumpRecord) error {
		dump = append(dump, r)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return dump
}

func TestExtractRestore(t *testing.T) {
	Environment(ptr(gen(0)), func(c *Collection) {

		commit(c, gen(1), kv("a", Value("1")), kv("b", Value("1")), kv("c", Value("1")))
		commit(c, gen(2), kv("a", Value("2")), kv("d", Value("2")))
		AssertNil(c.CreateReader(Reader{ReaderID: "r", GenerationID: ptr(gen(1))}))
		p, _ := c.StartPhantom()
		c.Put(PutRequest{Key: "b", Value: Value("p"), PhantomID: &p})
		AssertNil(c.StartGeneration(gen(3), false))
		c.Put(PutRequest{Key: "e", Value: Value("3"), GenerationID: ptr(gen(3))})

		dump := extract(c, 2)

		types := []string{}
		for _, d := range dump {
			types = append(types, d.Type)
		}
		AssertEqual(types, []string{
			DumpTypeCollection,
			DumpTypeGeneration,
			DumpTypeGeneration, DumpTypeGeneration,
			DumpTypeGeneration,
			DumpTypeNextGeneration,
			DumpTypeReaders,
			DumpTypePhantoms,
			DumpTypeItems, DumpTypeItems, DumpTypeItems, DumpTypeItems,
		})

		restored, err := Restore(dump, nil)
		AssertNil(err)
		defer restored.Close()

		AssertEqual(restored.Name, "test")
		AssertTrue(restored.IsManual())
		AssertEqual(restored.GetGeneration(), c.GetGeneration())
		AssertEqual(restored.ListReaders(), c.ListReaders())
		AssertEqual(queryAll(restored, nil, nil), queryAll(c, nil, nil))
		AssertEqual(queryAll(restored, nil, &p), queryAll(c, nil, &p))
		AssertEqual(
			diffAll(restored, DiffRequest{From: DiffFromGeneration{GenerationID: ptr(gen(1))}}),
			diffAll(c, DiffRequest{From: DiffFromGeneration{GenerationID: ptr(gen(1))}}),
		)

		next, _ := restored.StartPhantom()
		AssertEqual(next, NextGenerationID(p))

		AssertNil(restored.CommitGeneration(gen(3), nil))
		result, _ := restored.Get("e", nil, nil)
		AssertEqual(result.Item.Value, Value("3"))
	})
}

func TestRestoreOutOfOrder(t *testing.T) {

	_, err := Restore([]*DumpRecord{
		{Type: DumpTypeCollection, Name: "broken", GenerationID: gen(2), IsManual: true},
		{Type: DumpTypeGeneration, GenerationID: gen(2)},
		{Type: DumpTypeGeneration, GenerationID: gen(1)},
	}, nil)
	AssertTrue(errors.IsAssertionFailure(err))

	_, err = Restore([]*DumpRecord{
		{Type: DumpTypeCollection, Name: "broken", GenerationID: gen(1), IsManual: true},
		{Type: DumpTypeGeneration, GenerationID: gen(1)},
		{Type: DumpTypeItems, Items: []Record{
			{Key: "b", GenerationID: gen(1)},
			{Key: "a", GenerationID: gen(1)},
		}},
	}, nil)
	AssertTrue(errors.IsAssertionFailure(err))

	_, err = Restore([]*DumpRecord{
		{Type: DumpTypeGeneration, GenerationID: gen(1)},
	}, nil)
	AssertTrue(errors.IsAssertionFailure(err))
}

func TestRestoreNonManual(t *testing.T) {

	options := &Options{AutoCommitDelay: time.Hour}
	c, _ := NewCollection("test", nil, options)
	defer c.Close()

	c.Put(PutRequest{Key: "a", Value: Value("1")})

	restored, err := Restore(extract(c, 0), options)
	AssertNil(err)
	defer restored.Close()

	AssertFalse(restored.IsManual())
	AssertEqual(restored.GetPlannedGeneration(), c.GetPlannedGeneration())
	AssertEqual(restored.pending.UnsafeChangedKeys(), []string{"a"})
}
