package apicollectionv1

import (
	"context"
	"encoding/json"
	"net/http"
)

// how to try with curl:
// curl -N -X POST http://localhost:3030/v1/collections/my-collection:generationStream
func generationStream(ctx context.Context, w http.ResponseWriter) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Type", "application/x-ndjson")

	flusher, _ := w.(http.Flusher)
	e := json.NewEncoder(w)

	for generationID := range col.GenerationStream(ctx) {
		err := e.Encode(map[string]string{"generationId": generationID})
		if err != nil {
			return nil // client went away
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	return nil
}
