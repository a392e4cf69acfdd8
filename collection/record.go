package collection

// Record is the only physical storage unit. A nil Value is a tombstone and an
// empty PhantomID marks the canonical record of its generation.
type Record struct {
	Key          string  `json:"key"`
	Value        *string `json:"value"`
	GenerationID string  `json:"generationId"`
	PhantomID    string  `json:"phantomId,omitempty"`
}

// Less orders records by (key, generation, phantom). The empty phantom id
// sorts first, so the canonical record precedes its phantom overlays.
func (r *Record) Less(than *Record) bool {
	if r.Key != than.Key {
		return r.Key < than.Key
	}
	if r.GenerationID != than.GenerationID {
		return r.GenerationID < than.GenerationID
	}
	return r.PhantomID < than.PhantomID
}

func (r *Record) visibleTo(phantomID string) bool {
	return r.PhantomID == "" || r.PhantomID == phantomID
}

func (r *Record) sameGeneration(other *Record) bool {
	return r.Key == other.Key && r.GenerationID == other.GenerationID
}

type KeyValue struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Value is a helper to build non tombstone values.
func Value(s string) *string {
	return &s
}

func equalValues(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
