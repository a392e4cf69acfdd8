package collection

import (
	"github.com/cockroachdb/errors"
)

// phantomRegistry allocates phantom ids with the generation id counter and
// remembers the keys each active phantom has written.
type phantomRegistry struct {
	lastID string
	active map[string]*sortedKeys
}

func newPhantomRegistry() *phantomRegistry {
	return &phantomRegistry{
		lastID: ZeroGenerationID,
		active: map[string]*sortedKeys{},
	}
}

func (p *phantomRegistry) Start() string {
	p.lastID = NextGenerationID(p.lastID)
	p.active[p.lastID] = &sortedKeys{}
	return p.lastID
}

// Drop deactivates a phantom. Its records stay in the tree until cleanup.
func (p *phantomRegistry) Drop(phantomID string) error {
	if _, ok := p.active[phantomID]; !ok {
		return errors.Wrapf(ErrNoSuchPhantom, "phantom '%s'", phantomID)
	}
	delete(p.active, phantomID)
	return nil
}

func (p *phantomRegistry) DropAll() {
	p.active = map[string]*sortedKeys{}
}

func (p *phantomRegistry) IsActive(phantomID string) bool {
	_, ok := p.active[phantomID]
	return ok
}

func (p *phantomRegistry) AddKey(phantomID, key string) {
	if keys, ok := p.active[phantomID]; ok {
		keys.Add(key)
	}
}

func (p *phantomRegistry) Keys(phantomID string) []string {
	if keys, ok := p.active[phantomID]; ok {
		return keys.UnsafeKeys()
	}
	return nil
}
