package dump

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/database"
	"github.com/fulldump/diffbelt/metrics"
	"github.com/fulldump/diffbelt/utils"
)

// Filename is the name of the dump file inside the data directory.
const Filename = "dump.jsonl"

// Save writes every collection of db to dir as JSON lines. Collections are
// encoded in parallel while the database is held exclusively, then the file
// is replaced atomically.
func Save(db *database.Database, dir string, chunkSize int) error {

	t0 := time.Now()
	defer func() {
		metrics.DumpDuration.Observe(time.Since(t0).Seconds())
	}()

	var buffers []*bytes.Buffer
	err := db.Exclusive(func(collections map[string]*collection.Collection) error {

		names := utils.GetKeys(collections)
		buffers = make([]*bytes.Buffer, len(names))

		g := errgroup.Group{}
		for i, name := range names {
			col := collections[name]
			buffer := &bytes.Buffer{}
			buffers[i] = buffer
			g.Go(func() error {
				return encode(buffer, col, chunkSize)
			})
		}
		return g.Wait()
	})
	if err != nil {
		return errors.Wrap(err, "extract collections")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create dir '%s'", dir)
	}

	filename := path.Join(dir, Filename)
	tmp := filename + "." + uuid.NewString() + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return errors.Wrapf(err, "open '%s'", tmp)
	}

	w := bufio.NewWriterSize(f, 16*1024*1024)
	for _, buffer := range buffers {
		if _, err := buffer.WriteTo(w); err != nil {
			f.Close()
			return errors.Wrapf(err, "write '%s'", tmp)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flush '%s'", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrapf(err, "sync '%s'", tmp)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close '%s'", tmp)
	}

	return errors.Wrap(os.Rename(tmp, filename), "replace dump")
}

func encode(w io.Writer, col *collection.Collection, chunkSize int) error {
	encoder := jsontext.NewEncoder(w)
	return col.Extract(chunkSize, func(record *collection.DumpRecord) error {
		return json.MarshalEncode(encoder, record)
	})
}

// Load reads the dump in dir, if any, and replaces the collections of db
// with the restored ones.
func Load(db *database.Database, dir string) error {

	filename := path.Join(dir, Filename)
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "open '%s'", filename)
	}
	defer f.Close()

	collections, err := Decode(bufio.NewReaderSize(f, 16*1024*1024), db.CollectionOptions())
	if err != nil {
		return errors.Wrapf(err, "decode '%s'", filename)
	}

	return db.Restore(collections)
}

// Decode restores every collection found in a stream of dump records.
func Decode(r io.Reader, options *collection.Options) ([]*collection.Collection, error) {

	collections := []*collection.Collection{}
	var group []*collection.DumpRecord

	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		col, err := collection.Restore(group, options)
		if err != nil {
			return err
		}
		collections = append(collections, col)
		group = nil
		return nil
	}

	decoder := jsontext.NewDecoder(r)
	for {
		record := &collection.DumpRecord{}
		err := json.UnmarshalDecode(decoder, record)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record.Type == collection.DumpTypeCollection {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		group = append(group, record)
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return collections, nil
}

// Loop saves db every interval until ctx is done, then saves it one last
// time.
func Loop(ctx context.Context, db *database.Database, dir string, interval time.Duration, logger *slog.Logger) {

	save := func() {
		t0 := time.Now()
		if err := Save(db, dir, 0); err != nil {
			logger.Error("dump database", "dir", dir, "error", err)
			return
		}
		logger.Debug("database dumped", "dir", dir, "duration", time.Since(t0))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			save()
			return
		case <-ticker.C:
			save()
		}
	}
}
