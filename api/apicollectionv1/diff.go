package apicollectionv1

import (
	"context"

	"github.com/fulldump/diffbelt/collection"
)

type diffReaderRequest struct {
	ReaderID       string `json:"readerId"`
	CollectionName string `json:"collectionName"`
}

type diffRequest struct {
	FromGenerationID *string            `json:"fromGenerationId"`
	FromReader       *diffReaderRequest `json:"fromReader"`
	ToGenerationID   *string            `json:"toGenerationId"`
	PhantomID        *string            `json:"phantomId"`
}

func diff(ctx context.Context, input *diffRequest) (*collection.DiffResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	var from collection.DiffSource = collection.DiffFromGeneration{GenerationID: input.FromGenerationID}
	if input.FromReader != nil {
		from = collection.DiffFromReader{
			ReaderID:       input.FromReader.ReaderID,
			CollectionName: input.FromReader.CollectionName,
		}
	}

	return col.Diff(collection.DiffRequest{
		From:           from,
		ToGenerationID: input.ToGenerationID,
		PhantomID:      input.PhantomID,
	})
}

type readDiffCursorRequest struct {
	CursorID string `json:"cursorId"`
}

func readDiffCursor(ctx context.Context, input *readDiffCursorRequest) (*collection.DiffResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	return col.ReadDiffCursor(input.CursorID)
}
