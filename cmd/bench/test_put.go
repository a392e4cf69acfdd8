package main

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

// Put fills collection with c.N keys in putMany batches.
func Put(c Config, collection string) {

	items := c.N

	go func() {
		for atomic.LoadInt64(&items) > 0 {
			fmt.Println("items:", atomic.LoadInt64(&items))
			time.Sleep(1 * time.Second)
		}
	}()

	Parallel(c.Workers, func() {
		for {
			batch := make([]JSON, 0, c.Batch)
			for len(batch) < c.Batch {
				n := atomic.AddInt64(&items, -1)
				if n < 0 {
					break
				}
				batch = append(batch, JSON{
					"key":   fmt.Sprintf("key-%012d", n),
					"value": strconv.FormatInt(n, 10),
				})
			}
			if len(batch) == 0 {
				return
			}

			err := Call(c.Base, "/v1/collections/"+collection+":putMany", JSON{"items": batch}, nil)
			if err != nil {
				fmt.Println("ERROR: putMany:", err.Error())
				os.Exit(4)
			}
		}
	})
}

func TestPut(c Config) {

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
	}

	collection := CreateCollection(c.Base)

	t0 := time.Now()
	Put(c, collection)
	took := time.Since(t0)

	fmt.Println("sent:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f keys/sec\n", float64(c.N)/took.Seconds())
}
