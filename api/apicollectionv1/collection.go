package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/diffbelt/collection"
)

type CollectionResponse struct {
	Name             string  `json:"name"`
	IsManual         bool    `json:"isManual"`
	GenerationID     string  `json:"generationId"`
	NextGenerationID *string `json:"nextGenerationId"`
}

func newCollectionResponse(col *collection.Collection) *CollectionResponse {
	g := col.GetGeneration()
	return &CollectionResponse{
		Name:             col.Name,
		IsManual:         col.IsManual(),
		GenerationID:     g.GenerationID,
		NextGenerationID: g.NextGenerationID,
	}
}

func listCollections(ctx context.Context) ([]*CollectionResponse, error) {

	db := GetDatabase(ctx)

	result := []*CollectionResponse{}
	for _, name := range db.ListCollections() {
		col, err := db.GetCollection(name)
		if err != nil {
			continue // deleted meanwhile
		}
		result = append(result, newCollectionResponse(col))
	}

	return result, nil
}

type createCollectionRequest struct {
	Name         string  `json:"name"`
	GenerationID *string `json:"generationId"`
}

func createCollection(ctx context.Context, w http.ResponseWriter, input *createCollectionRequest) (*CollectionResponse, error) {

	col, err := GetDatabase(ctx).CreateCollection(input.Name, input.GenerationID)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newCollectionResponse(col), nil
}

func getCollection(ctx context.Context) (*CollectionResponse, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	return newCollectionResponse(col), nil
}

func dropCollection(ctx context.Context, w http.ResponseWriter) error {

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	err := GetDatabase(ctx).DeleteCollection(collectionName)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

type cleanupRequest struct {
	Watermark string `json:"watermark"`
}

func cleanup(ctx context.Context, input *cleanupRequest) error {
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	return GetDatabase(ctx).Cleanup(collectionName, input.Watermark)
}
