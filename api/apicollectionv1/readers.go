package apicollectionv1

import (
	"context"

	"github.com/fulldump/diffbelt/collection"
)

type listReadersResponse struct {
	Items []collection.Reader `json:"items"`
}

func listReaders(ctx context.Context) (*listReadersResponse, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	return &listReadersResponse{Items: col.ListReaders()}, nil
}

func createReader(ctx context.Context, input *collection.Reader) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.CreateReader(*input)
}

func updateReader(ctx context.Context, input *collection.ReaderUpdate) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.UpdateReader(input.ReaderID, input.GenerationID)
}

type deleteReaderRequest struct {
	ReaderID string `json:"readerId"`
}

func deleteReader(ctx context.Context, input *deleteReaderRequest) error {

	col, err := urlCollection(ctx)
	if err != nil {
		return err
	}

	return col.DeleteReader(input.ReaderID)
}
