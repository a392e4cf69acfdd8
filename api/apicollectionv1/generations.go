package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/diffbelt/collection"
)

func getGeneration(ctx context.Context) (*collection.GenerationInfo, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	g := col.GetGeneration()
	return &g, nil
}

type startGenerationRequest struct {
	GenerationID  string `json:"generationId"`
	AbortOutdated bool   `json:"abortOutdated"`
}

func startGeneration(ctx context.Context, input *startGenerationRequest) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.StartGeneration(input.GenerationID, input.AbortOutdated)
}

type commitGenerationRequest struct {
	GenerationID  string                    `json:"generationId"`
	UpdateReaders []collection.ReaderUpdate `json:"updateReaders"`
}

func commitGeneration(ctx context.Context, input *commitGenerationRequest) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.CommitGeneration(input.GenerationID, input.UpdateReaders)
}

type abortGenerationRequest struct {
	GenerationID string `json:"generationId"`
}

func abortGeneration(ctx context.Context, input *abortGenerationRequest) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.AbortGeneration(input.GenerationID)
}

type phantomResponse struct {
	PhantomID string `json:"phantomId"`
}

func startPhantom(ctx context.Context, w http.ResponseWriter) (*phantomResponse, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	phantomID, err := col.StartPhantom()
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return &phantomResponse{PhantomID: phantomID}, nil
}

func dropPhantom(ctx context.Context, input *phantomResponse) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.DropPhantom(input.PhantomID)
}
