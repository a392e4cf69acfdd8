package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: PUT | DIFF"`
	Base    string `usage:"base URL, an embedded server is started when empty"`
	N       int64  `usage:"number of keys"`
	Batch   int    `usage:"keys per putMany request"`
	Workers int    `usage:"number of workers"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "put",
		Base:    "",
		N:       1_000_000,
		Batch:   1000,
		Workers: 16,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "PUT":
		TestPut(c)
	case "DIFF":
		TestDiff(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
