package utils

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestGetKeys(t *testing.T) {
	AssertEqual(GetKeys(map[string]int{"b": 1, "a": 2, "c": 3}), []string{"a", "b", "c"})
	AssertEqual(GetKeys(map[string]int{}), []string{})
}

func TestRemarshal(t *testing.T) {
	output := map[string]interface{}{}
	err := Remarshal(struct {
		Key   string  `json:"key"`
		Value *string `json:"value"`
	}{Key: "a"}, &output)
	AssertNil(err)
	AssertEqual(output, map[string]interface{}{"key": "a", "value": nil})
}
