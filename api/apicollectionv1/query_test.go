package apicollectionv1

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/diffbelt/collection"
)

func TestFilterQueryResult(t *testing.T) {

	page := func() *collection.QueryResult {
		return &collection.QueryResult{
			GenerationID: "00000000001",
			Items: []collection.KeyValue{
				{Key: "a", Value: collection.Value("1")},
				{Key: "b", Value: collection.Value(`{"name":"Alfonso"}`)},
				{Key: "c", Value: collection.Value("not json")},
			},
			CursorID: "next",
		}
	}

	result, err := filterQueryResult(page(), nil)
	AssertNil(err)
	AssertEqual(len(result.Items), 3)

	result, err = filterQueryResult(page(), map[string]interface{}{"key": "b"})
	AssertNil(err)
	AssertEqual(result.Items, []collection.KeyValue{{Key: "b", Value: collection.Value(`{"name":"Alfonso"}`)}})
	AssertEqual(result.CursorID, "next")

	result, err = filterQueryResult(page(), map[string]interface{}{"value": float64(1)})
	AssertNil(err)
	AssertEqual(result.Items, []collection.KeyValue{{Key: "a", Value: collection.Value("1")}})

	result, err = filterQueryResult(page(), map[string]interface{}{"value": "not json"})
	AssertNil(err)
	AssertEqual(result.Items, []collection.KeyValue{{Key: "c", Value: collection.Value("not json")}})
}

func TestItemDocument(t *testing.T) {

	document, err := itemDocument(collection.KeyValue{Key: "b", Value: collection.Value(`{"name":"Alfonso"}`)})
	AssertNil(err)
	AssertEqual(document, map[string]interface{}{
		"key":   "b",
		"value": map[string]interface{}{"name": "Alfonso"},
	})

	document, err = itemDocument(collection.KeyValue{Key: "gone"})
	AssertNil(err)
	AssertEqual(document, map[string]interface{}{"key": "gone", "value": nil})
}
