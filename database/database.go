package database

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/metrics"
	"github.com/fulldump/diffbelt/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrNoSuchCollection        = errors.New("no such collection")
	ErrCollectionAlreadyExists = errors.New("collection already exists")
)

type Config struct {
	AutoCommitDelay time.Duration
	MaxItemsInPack  int
	Logger          *slog.Logger

	// Load runs when the database starts, before it becomes operating.
	Load func(db *Database) error
}

type Database struct {
	config      *Config
	logger      *slog.Logger
	status      string
	mutex       sync.RWMutex
	collections map[string]*collection.Collection
	operating   chan struct{}
	exit        chan struct{}
}

func NewDatabase(config *Config) *Database {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Database{
		config:      config,
		logger:      logger,
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		operating:   make(chan struct{}),
		exit:        make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

// CollectionOptions are the options every collection of this database is
// created or restored with.
func (db *Database) CollectionOptions() *collection.Options {
	return &collection.Options{
		AutoCommitDelay: db.config.AutoCommitDelay,
		MaxItemsInPack:  db.config.MaxItemsInPack,
		Logger:          db.logger,
		Resolve:         db.GetCollection,
	}
}

// CreateCollection creates a collection, manual when generationID is given.
func (db *Database) CreateCollection(name string, generationID *string) (*collection.Collection, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.collections[name]; exists {
		return nil, errors.Wrapf(ErrCollectionAlreadyExists, "collection '%s'", name)
	}

	col, err := collection.NewCollection(name, generationID, db.CollectionOptions())
	if err != nil {
		return nil, err
	}

	db.collections[name] = col
	db.logger.Info("collection created", "collection", name, "manual", generationID != nil)

	return col, nil
}

func (db *Database) GetCollection(name string) (*collection.Collection, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	col, exists := db.collections[name]
	if !exists {
		return nil, errors.Wrapf(ErrNoSuchCollection, "collection '%s'", name)
	}
	return col, nil
}

func (db *Database) ListCollections() []string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return utils.GetKeys(db.collections)
}

func (db *Database) DeleteCollection(name string) error {
	db.mutex.Lock()
	col, exists := db.collections[name]
	if !exists {
		db.mutex.Unlock()
		return errors.Wrapf(ErrNoSuchCollection, "collection '%s'", name)
	}
	delete(db.collections, name)
	db.mutex.Unlock()

	metrics.Forget(name)
	db.logger.Info("collection deleted", "collection", name)

	return col.Close()
}

// Cleanup runs the retention pass of a collection, guarded by the readers
// that other collections keep on it.
func (db *Database) Cleanup(name, watermark string) error {

	col, err := db.GetCollection(name)
	if err != nil {
		return err
	}

	foreign := []collection.Reader{}
	db.mutex.RLock()
	others := make([]*collection.Collection, 0, len(db.collections))
	for otherName, other := range db.collections {
		if otherName != name {
			others = append(others, other)
		}
	}
	db.mutex.RUnlock()

	for _, other := range others {
		for _, r := range other.ListReaders() {
			if r.CollectionName == name {
				foreign = append(foreign, r)
			}
		}
	}

	return col.Cleanup(watermark, foreign)
}

// Exclusive runs f with every collection blocked, so f sees a consistent
// snapshot of the whole database. Collections are blocked in name order.
func (db *Database) Exclusive(f func(collections map[string]*collection.Collection) error) error {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	names := utils.GetKeys(db.collections)
	for _, name := range names {
		db.collections[name].Block()
	}
	defer func() {
		for _, name := range names {
			db.collections[name].Unblock()
		}
	}()

	return f(db.collections)
}

// Restore replaces every collection with the given ones.
func (db *Database) Restore(collections []*collection.Collection) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	restored := map[string]*collection.Collection{}
	for _, col := range collections {
		if _, exists := restored[col.Name]; exists {
			return errors.Wrapf(ErrCollectionAlreadyExists, "collection '%s' restored twice", col.Name)
		}
		restored[col.Name] = col
	}

	for name, col := range db.collections {
		if err := col.Close(); err != nil {
			db.logger.Error("close collection", "collection", name, "error", err)
		}
	}
	db.collections = restored

	return nil
}

func (db *Database) load() error {

	if db.config.Load != nil {
		t0 := time.Now()
		if err := db.config.Load(db); err != nil {
			db.setStatus(StatusClosing)
			return err
		}
		db.logger.Info("database loaded", "collections", len(db.ListCollections()), "duration", time.Since(t0))
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.status == StatusOpening {
		db.status = StatusOperating
		close(db.operating)
	}
	return nil
}

// Operating is closed once the database has loaded and accepts requests.
func (db *Database) Operating() <-chan struct{} {
	return db.operating
}

// Start loads the database and blocks until Stop is called.
func (db *Database) Start() error {

	go func() {
		if err := db.load(); err != nil {
			db.logger.Error("load database", "error", err)
		}
	}()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.setStatus(StatusClosing)

	db.mutex.RLock()
	defer db.mutex.RUnlock()

	var lastErr error
	for name, col := range db.collections {
		db.logger.Info("closing collection", "collection", name)
		err := col.Close()
		if err != nil {
			db.logger.Error("close collection", "collection", name, "error", err)
			lastErr = err
		}
	}

	return lastErr
}
