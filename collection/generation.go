package collection

import (
	"slices"
)

// sortedKeys is a sorted set of keys. Keys usually arrive in ascending order,
// so appending to the tail is the fast path.
type sortedKeys struct {
	keys []string
	set  map[string]struct{}
}

func (s *sortedKeys) Add(key string) {
	if s.set == nil {
		s.set = map[string]struct{}{}
	}
	if _, exists := s.set[key]; exists {
		return
	}
	s.set[key] = struct{}{}

	n := len(s.keys)
	if n == 0 || s.keys[n-1] < key {
		s.keys = append(s.keys, key)
		return
	}

	i, _ := slices.BinarySearch(s.keys, key)
	s.keys = slices.Insert(s.keys, i, key)
}

func (s *sortedKeys) Has(key string) bool {
	_, exists := s.set[key]
	return exists
}

func (s *sortedKeys) Len() int {
	return len(s.keys)
}

// UnsafeKeys exposes the internal slice. Callers must not modify it.
func (s *sortedKeys) UnsafeKeys() []string {
	return s.keys
}

// Generation is a commit unit: the keys written while it was pending.
type Generation struct {
	ID          string
	changedKeys sortedKeys

	// keys written by phantoms against this generation while pending, only
	// needed to purge them on abort
	phantomKeys sortedKeys
}

func NewGeneration(id string) *Generation {
	return &Generation{
		ID: id,
	}
}

func (g *Generation) AddChangedKey(key string) {
	g.changedKeys.Add(key)
}

func (g *Generation) HasChangedKeys() bool {
	return g.changedKeys.Len() > 0
}

func (g *Generation) UnsafeChangedKeys() []string {
	return g.changedKeys.UnsafeKeys()
}

// searchGeneration finds id in history, which is sorted by id.
func searchGeneration(history []*Generation, id string) (int, bool) {
	return slices.BinarySearchFunc(history, id, func(g *Generation, id string) int {
		switch {
		case g.ID < id:
			return -1
		case g.ID > id:
			return 1
		}
		return 0
	})
}

// mergeKeys merges sorted key lists into one sorted list without duplicates.
func mergeKeys(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	result := make([]string, 0, total)
	for _, l := range lists {
		result = append(result, l...)
	}
	slices.Sort(result)
	return slices.Compact(result)
}
