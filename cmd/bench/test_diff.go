package main

import (
	"fmt"
	"os"
	"time"
)

type diffPage struct {
	ToGenerationID string `json:"toGenerationId"`
	Items          []any  `json:"items"`
	CursorID       string `json:"cursorId"`
}

// TestDiff measures how fast a full diff can be paged through its cursors.
func TestDiff(c Config) {

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
	}

	collection := CreateCollection(c.Base)
	Put(c, collection)

	// Wait for the auto commit to include every key
	time.Sleep(time.Second)

	t0 := time.Now()
	received := 0
	page := diffPage{}
	err := Call(c.Base, "/v1/collections/"+collection+":diff", JSON{"fromGenerationId": nil}, &page)
	for err == nil {
		received += len(page.Items)
		if page.CursorID == "" {
			break
		}
		cursorID := page.CursorID
		page = diffPage{}
		err = Call(c.Base, "/v1/collections/"+collection+":readDiffCursor", JSON{"cursorId": cursorID}, &page)
	}
	if err != nil {
		fmt.Println("ERROR: diff:", err.Error())
		os.Exit(4)
	}
	took := time.Since(t0)

	fmt.Println("received:", received)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f items/sec\n", float64(received)/took.Seconds())
}
