package collection

import (
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/utils"
)

// Reader is a named checkpoint. A nil GenerationID is the beginning of time.
// CollectionName tells which collection the checkpoint refers to when it is
// not the one that stores the reader.
type Reader struct {
	ReaderID       string  `json:"readerId"`
	GenerationID   *string `json:"generationId"`
	CollectionName string  `json:"collectionName,omitempty"`
}

type ReaderUpdate struct {
	ReaderID     string  `json:"readerId"`
	GenerationID *string `json:"generationId"`
}

// tracks tells whether the reader checkpoint refers to the collection named
// owner when stored in it, or to the collection named target otherwise.
func (r *Reader) tracks(owner, target string) bool {
	if r.CollectionName == "" {
		return owner == target
	}
	return r.CollectionName == target
}

func (c *Collection) ListReaders() []Reader {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]Reader, 0, len(c.readers))
	for _, id := range utils.GetKeys(c.readers) {
		result = append(result, *c.readers[id])
	}
	return result
}

func (c *Collection) GetReader(readerID string) (*Reader, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	r, ok := c.readers[readerID]
	if !ok {
		return nil, errors.Wrapf(ErrNoSuchReader, "reader '%s' in '%s'", readerID, c.Name)
	}
	copied := *r
	return &copied, nil
}

func (c *Collection) CreateReader(reader Reader) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.readers[reader.ReaderID]; exists {
		return errors.Wrapf(ErrReaderAlreadyExists, "reader '%s'", reader.ReaderID)
	}
	if reader.GenerationID != nil && !IsValidGenerationID(*reader.GenerationID) {
		return errors.Wrapf(ErrInvalidGenerationID, "'%s'", *reader.GenerationID)
	}

	c.readers[reader.ReaderID] = &reader
	return nil
}

func (c *Collection) UpdateReader(readerID string, generationID *string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	r, ok := c.readers[readerID]
	if !ok {
		return errors.Wrapf(ErrNoSuchReader, "reader '%s'", readerID)
	}
	if generationID != nil && !IsValidGenerationID(*generationID) {
		return errors.Wrapf(ErrInvalidGenerationID, "'%s'", *generationID)
	}

	r.GenerationID = generationID
	return nil
}

func (c *Collection) DeleteReader(readerID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.readers[readerID]; !ok {
		return errors.Wrapf(ErrNoSuchReader, "reader '%s'", readerID)
	}

	delete(c.readers, readerID)
	return nil
}
