package dump

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/fulldump/biff"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/database"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestDatabase() *database.Database {
	return database.NewDatabase(&database.Config{
		AutoCommitDelay: time.Hour,
		MaxItemsInPack:  2,
		Logger:          discard,
	})
}

func ptr(s string) *string {
	return &s
}

func fill(db *database.Database) {
	g1 := collection.NextGenerationID(collection.ZeroGenerationID)

	manual, err := db.CreateCollection("manual", ptr(collection.ZeroGenerationID))
	AssertNil(err)
	AssertNil(manual.StartGeneration(g1, false))
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		_, err := manual.Put(collection.PutRequest{Key: key, Value: collection.Value(key + "1"), GenerationID: ptr(g1)})
		AssertNil(err)
	}
	AssertNil(manual.CommitGeneration(g1, nil))
	AssertNil(manual.CreateReader(collection.Reader{ReaderID: "r", GenerationID: ptr(g1)}))

	auto, err := db.CreateCollection("auto", nil)
	AssertNil(err)
	_, err = auto.Put(collection.PutRequest{Key: "x", Value: collection.Value("")})
	AssertNil(err)
}

func TestSaveLoad(t *testing.T) {

	dir := t.TempDir()

	db := newTestDatabase()
	fill(db)
	AssertNil(Save(db, dir, 2))

	leftovers, err := filepath.Glob(path.Join(dir, "*.tmp"))
	AssertNil(err)
	AssertEqual(len(leftovers), 0)

	restored := newTestDatabase()
	AssertNil(Load(restored, dir))
	AssertEqual(restored.ListCollections(), []string{"auto", "manual"})

	manual, err := restored.GetCollection("manual")
	AssertNil(err)
	AssertTrue(manual.IsManual())
	AssertEqual(manual.GetGeneration().GenerationID, collection.NextGenerationID(collection.ZeroGenerationID))

	got, err := manual.Get("c", nil, nil)
	AssertNil(err)
	AssertEqual(got.Item.Value, collection.Value("c1"))

	reader, err := manual.GetReader("r")
	AssertNil(err)
	AssertEqual(reader.GenerationID, ptr(collection.NextGenerationID(collection.ZeroGenerationID)))

	auto, err := restored.GetCollection("auto")
	AssertNil(err)
	AssertFalse(auto.IsManual())
	AssertEqual(auto.GetPlannedGeneration(), ptr(collection.NextGenerationID(collection.ZeroGenerationID)))
}

func TestLoadWithoutDump(t *testing.T) {
	db := newTestDatabase()
	AssertNil(Load(db, t.TempDir()))
	AssertEqual(db.ListCollections(), []string{})
}

func TestDecodeCorrupted(t *testing.T) {

	_, err := Decode(strings.NewReader(`{"type":"items","items":[]}`), nil)
	AssertNotNil(err)

	_, err = Decode(strings.NewReader(`{"type":"collection","name":"a","generationId":"00000000000"`), nil)
	AssertNotNil(err)

	collections, err := Decode(strings.NewReader(""), nil)
	AssertNil(err)
	AssertEqual(len(collections), 0)
}

func TestLoop(t *testing.T) {

	dir := t.TempDir()
	db := newTestDatabase()
	fill(db)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Loop(ctx, db, dir, time.Hour, discard)
		close(done)
	}()
	cancel()
	<-done

	_, err := os.Stat(path.Join(dir, Filename))
	AssertNil(err)
}
