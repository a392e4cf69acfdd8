package collection

import (
	"io"
	"log/slog"
	"time"
)

// Environment runs f with a fresh collection, manual when generationID is
// given, and closes it afterwards.
func Environment(generationID *string, f func(c *Collection)) {
	c, err := NewCollection("test", generationID, &Options{
		AutoCommitDelay: 10 * time.Millisecond,
		MaxItemsInPack:  3,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		panic(err)
	}
	defer c.Close()

	f(c)
}

func gen(n int) string {
	id := ZeroGenerationID
	for i := 0; i < n; i++ {
		id = NextGenerationID(id)
	}
	return id
}

func ptr(s string) *string {
	return &s
}
