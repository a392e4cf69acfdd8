package collection

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/fulldump/diffbelt/metrics"
)

const (
	DefaultAutoCommitDelay = 50 * time.Millisecond
	DefaultMaxItemsInPack  = 100
)

type Options struct {
	AutoCommitDelay time.Duration
	MaxItemsInPack  int
	Logger          *slog.Logger

	// Resolve finds sibling collections, needed by diffs that read their
	// starting generation from a reader stored in another collection.
	Resolve func(name string) (*Collection, error)
}

type Collection struct {
	Name     string
	isManual bool
	options  Options
	logger   *slog.Logger

	mutex     sync.RWMutex
	records   *recordTree
	committed string
	pending   *Generation
	history   []*Generation
	readers   map[string]*Reader
	phantoms  *phantomRegistry
	closed    bool

	cursorsMutex sync.Mutex
	queryCursors map[string]*queryCursor
	diffCursors  map[string]*diffCursor

	autoCommit autoCommit
	streams    generationStreams
	done       chan struct{}
}

// NewCollection creates an empty collection. Passing a generation id makes it
// manual: generations are started and committed by the caller and the given
// id is the initial committed one. Otherwise generations commit by themselves.
func NewCollection(name string, generationID *string, options *Options) (*Collection, error) {

	c := newCollection(name, generationID != nil, options)

	if generationID == nil {
		c.committed = ZeroGenerationID
		c.history = []*Generation{NewGeneration(ZeroGenerationID)}
		c.pending = NewGeneration(NextGenerationID(ZeroGenerationID))
		return c, nil
	}

	if !IsValidGenerationID(*generationID) {
		return nil, errors.Wrapf(ErrInvalidGenerationID, "'%s'", *generationID)
	}
	c.committed = *generationID
	c.history = []*Generation{NewGeneration(*generationID)}

	return c, nil
}

func newCollection(name string, isManual bool, options *Options) *Collection {

	o := Options{}
	if options != nil {
		o = *options
	}
	if o.AutoCommitDelay <= 0 {
		o.AutoCommitDelay = DefaultAutoCommitDelay
	}
	if o.MaxItemsInPack <= 0 {
		o.MaxItemsInPack = DefaultMaxItemsInPack
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	return &Collection{
		Name:         name,
		isManual:     isManual,
		options:      o,
		logger:       o.Logger.With("collection", name),
		records:      newRecordTree(),
		readers:      map[string]*Reader{},
		phantoms:     newPhantomRegistry(),
		queryCursors: map[string]*queryCursor{},
		diffCursors:  map[string]*diffCursor{},
		streams:      generationStreams{subscribers: map[chan string]struct{}{}},
		done:         make(chan struct{}),
	}
}

func (c *Collection) IsManual() bool {
	return c.isManual
}

// Block takes the collection write lock until Unblock is called. It is used
// by database wide exclusive sections.
func (c *Collection) Block() {
	c.mutex.Lock()
}

func (c *Collection) Unblock() {
	c.mutex.Unlock()
}

func (c *Collection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.autoCommit.stop()
	close(c.done)
	c.streams.closeAll()

	c.cursorsMutex.Lock()
	metrics.OpenCursors.WithLabelValues("query").Sub(float64(len(c.queryCursors)))
	metrics.OpenCursors.WithLabelValues("diff").Sub(float64(len(c.diffCursors)))
	c.queryCursors = map[string]*queryCursor{}
	c.diffCursors = map[string]*diffCursor{}
	c.cursorsMutex.Unlock()

	return nil
}

type GetResult struct {
	GenerationID string    `json:"generationId"`
	Item         *KeyValue `json:"item"`
}

// Get returns the value of key visible at the generation (the committed one
// by default) through the optional phantom.
func (c *Collection) Get(key string, generationID, phantomID *string) (*GetResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	generation, phantom, err := c.readTarget(generationID, phantomID)
	if err != nil {
		return nil, err
	}

	result := &GetResult{GenerationID: generation}

	t, err := newTraverserAtKey(c.records, key, true, nil, false)
	if errors.Is(err, errInitialItemNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	if !t.SearchPhantomInCurrentKey(generation, phantom) {
		return result, nil
	}

	record := t.Item()
	result.GenerationID = record.GenerationID
	if record.Value != nil {
		result.Item = &KeyValue{Key: record.Key, Value: record.Value}
	}

	return result, nil
}

type KeysAroundRequest struct {
	Key                 string
	GenerationID        *string
	PhantomID           *string
	Limit               int
	RequireKeyExistence bool
}

type KeysAroundResult struct {
	GenerationID      string   `json:"generationId"`
	Left              []string `json:"left"`
	Right             []string `json:"right"`
	HasMoreOnTheLeft  bool     `json:"hasMoreOnTheLeft"`
	HasMoreOnTheRight bool     `json:"hasMoreOnTheRight"`
}

// GetKeysAround lists up to Limit live keys on each side of Key. Left keys are
// returned in ascending order.
func (c *Collection) GetKeysAround(req KeysAroundRequest) (*KeysAroundResult, error) {

	if req.Limit <= 0 {
		return nil, errors.Wrapf(ErrInvalidLimit, "limit %d", req.Limit)
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	generation, phantom, err := c.readTarget(req.GenerationID, req.PhantomID)
	if err != nil {
		return nil, err
	}

	result := &KeysAroundResult{
		GenerationID: generation,
		Left:         []string{},
		Right:        []string{},
	}

	live := func(t *Traverser) bool {
		return t.SearchPhantomInCurrentKey(generation, phantom) && t.Item().Value != nil
	}

	if req.RequireKeyExistence {
		t, err := newTraverserAtKey(c.records, req.Key, true, nil, false)
		if err != nil || !live(t) {
			return result, nil
		}
	}

	if t, err := newTraverserBeforeKey(c.records, req.Key); err == nil {
		result.Left, result.HasMoreOnTheLeft = collectKeys(t, req.Limit, live, t.GoPrevKey)
		for i, j := 0, len(result.Left)-1; i < j; i, j = i+1, j-1 {
			result.Left[i], result.Left[j] = result.Left[j], result.Left[i]
		}
	}

	if t, err := newTraverserAfterKey(c.records, req.Key); err == nil {
		result.Right, result.HasMoreOnTheRight = collectKeys(t, req.Limit, live, t.GoNextKey)
	}

	return result, nil
}

// collectKeys gathers up to limit live keys moving with step, and reports
// whether there is at least one more live key further on.
func collectKeys(t *Traverser, limit int, live func(*Traverser) bool, step func() bool) ([]string, bool) {
	keys := []string{}
	for {
		if live(t) {
			if len(keys) == limit {
				return keys, true
			}
			keys = append(keys, t.Item().Key)
		}
		if !step() {
			return keys, false
		}
	}
}

// readTarget resolves the generation and phantom of a read operation.
func (c *Collection) readTarget(generationID, phantomID *string) (string, string, error) {

	generation := c.committed
	if generationID != nil {
		if !IsValidGenerationID(*generationID) {
			return "", "", errors.Wrapf(ErrInvalidGenerationID, "'%s'", *generationID)
		}
		generation = *generationID
	}

	phantom := ""
	if phantomID != nil {
		if !c.phantoms.IsActive(*phantomID) {
			return "", "", errors.Wrapf(ErrNoSuchPhantom, "phantom '%s'", *phantomID)
		}
		phantom = *phantomID
	}

	return generation, phantom, nil
}

func (c *Collection) registerQueryCursor(q *queryCursor) string {
	id := uuid.NewString()
	c.cursorsMutex.Lock()
	c.queryCursors[id] = q
	c.cursorsMutex.Unlock()
	metrics.OpenCursors.WithLabelValues("query").Inc()
	return id
}

func (c *Collection) takeQueryCursor(id string) (*queryCursor, error) {
	c.cursorsMutex.Lock()
	defer c.cursorsMutex.Unlock()
	q, ok := c.queryCursors[id]
	if !ok {
		return nil, errors.Wrapf(ErrNoSuchCursor, "cursor '%s'", id)
	}
	delete(c.queryCursors, id)
	metrics.OpenCursors.WithLabelValues("query").Dec()
	return q, nil
}

func (c *Collection) registerDiffCursor(d *diffCursor) string {
	id := uuid.NewString()
	c.cursorsMutex.Lock()
	c.diffCursors[id] = d
	c.cursorsMutex.Unlock()
	metrics.OpenCursors.WithLabelValues("diff").Inc()
	return id
}

func (c *Collection) takeDiffCursor(id string) (*diffCursor, error) {
	c.cursorsMutex.Lock()
	defer c.cursorsMutex.Unlock()
	d, ok := c.diffCursors[id]
	if !ok {
		return nil, errors.Wrapf(ErrNoSuchCursor, "cursor '%s'", id)
	}
	delete(c.diffCursors, id)
	metrics.OpenCursors.WithLabelValues("diff").Dec()
	return d, nil
}

// CloseCursor discards a query or diff cursor.
func (c *Collection) CloseCursor(cursorID string) error {
	if _, err := c.takeQueryCursor(cursorID); err == nil {
		return nil
	}
	_, err := c.takeDiffCursor(cursorID)
	return err
}
