package apicollectionv1

import (
	"context"

	"github.com/fulldump/diffbelt/collection"
)

type putRequest struct {
	Key          string  `json:"key"`
	Value        *string `json:"value"`
	IfNotPresent bool    `json:"ifNotPresent"`
	GenerationID *string `json:"generationId"`
	PhantomID    *string `json:"phantomId"`
}

type putResponse struct {
	GenerationID string `json:"generationId"`
}

func put(ctx context.Context, input *putRequest) (*putResponse, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	generationID, err := col.Put(collection.PutRequest{
		Key:          input.Key,
		Value:        input.Value,
		IfNotPresent: input.IfNotPresent,
		GenerationID: input.GenerationID,
		PhantomID:    input.PhantomID,
	})
	if err != nil {
		return nil, err
	}

	return &putResponse{GenerationID: generationID}, nil
}

type putManyRequest struct {
	Items        []collection.PutItem `json:"items"`
	GenerationID *string              `json:"generationId"`
	PhantomID    *string              `json:"phantomId"`
}

func putMany(ctx context.Context, input *putManyRequest) (*putResponse, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	generationID, err := col.PutMany(collection.PutManyRequest{
		Items:        input.Items,
		GenerationID: input.GenerationID,
		PhantomID:    input.PhantomID,
	})
	if err != nil {
		return nil, err
	}

	return &putResponse{GenerationID: generationID}, nil
}
