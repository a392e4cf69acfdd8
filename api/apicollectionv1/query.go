package apicollectionv1

import (
	"context"
	"encoding/json"

	"github.com/SierraSoftworks/connor"
	"github.com/cockroachdb/errors"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/utils"
)

type queryRequest struct {
	GenerationID *string `json:"generationId"`
	PhantomID    *string `json:"phantomId"`

	// Filter is a mongo like expression matched against {"key": k, "value": v}.
	// Values holding valid JSON are matched structurally.
	Filter map[string]interface{} `json:"filter"`
}

func query(ctx context.Context, input *queryRequest) (*collection.QueryResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	result, err := col.Query(input.GenerationID, input.PhantomID)
	if err != nil {
		return nil, err
	}

	return filterQueryResult(result, input.Filter)
}

type readQueryCursorRequest struct {
	CursorID string                 `json:"cursorId"`
	Filter   map[string]interface{} `json:"filter"`
}

func readQueryCursor(ctx context.Context, input *readQueryCursorRequest) (*collection.QueryResult, error) {

	col, err := urlCollection(ctx)
	if err != nil {
		return nil, err
	}

	result, err := col.ReadQueryCursor(input.CursorID)
	if err != nil {
		return nil, err
	}

	return filterQueryResult(result, input.Filter)
}

// filterQueryResult drops the items of a page that do not match filter. The
// cursor is kept, so a filtered page may be empty while more pages remain.
func filterQueryResult(result *collection.QueryResult, filter map[string]interface{}) (*collection.QueryResult, error) {

	if len(filter) == 0 {
		return result, nil
	}

	items := make([]collection.KeyValue, 0, len(result.Items))
	for _, item := range result.Items {
		document, err := itemDocument(item)
		if err != nil {
			return nil, err
		}
		match, err := connor.Match(filter, document)
		if err != nil {
			return nil, errors.Wrap(err, "match")
		}
		if match {
			items = append(items, item)
		}
	}
	result.Items = items

	return result, nil
}

func itemDocument(item collection.KeyValue) (map[string]interface{}, error) {

	document := map[string]interface{}{}
	if err := utils.Remarshal(item, &document); err != nil {
		return nil, err
	}

	if item.Value != nil {
		var value interface{}
		if err := json.Unmarshal([]byte(*item.Value), &value); err == nil {
			document["value"] = value
		}
	}

	return document, nil
}
