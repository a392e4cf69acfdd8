package apicollectionv1

import (
	"context"

	"github.com/fulldump/diffbelt/collection"
)

type getRequest struct {
	Key          string  `json:"key"`
	GenerationID *string `json:"generationId"`
	PhantomID    *string `json:"phantomId"`
}

func get(ctx context.Context, input *getRequest) (*collection.GetResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	return col.Get(input.Key, input.GenerationID, input.PhantomID)
}

type getKeysAroundRequest struct {
	Key                 string  `json:"key"`
	GenerationID        *string `json:"generationId"`
	PhantomID           *string `json:"phantomId"`
	Limit               int     `json:"limit"`
	RequireKeyExistence bool    `json:"requireKeyExistence"`
}

func getKeysAround(ctx context.Context, input *getKeysAroundRequest) (*collection.KeysAroundResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	return col.GetKeysAround(collection.KeysAroundRequest{
		Key:                 input.Key,
		GenerationID:        input.GenerationID,
		PhantomID:           input.PhantomID,
		Limit:               input.Limit,
		RequireKeyExistence: input.RequireKeyExistence,
	})
}

type closeCursorRequest struct {
	CursorID string `json:"cursorId"`
}

func closeCursor(ctx context.Context, input *closeCursorRequest) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.CloseCursor(input.CursorID)
}
