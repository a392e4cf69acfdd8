package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/diffbelt/bootstrap"
	"github.com/fulldump/diffbelt/configuration"
	"github.com/fulldump/diffbelt/logging"
)

var banner = `
     _ _  __  __ _          _ _
  __| (_)/ _|/ _| |__   ___| | |_
 / _' | | |_| |_| '_ \ / _ \ | __|
| (_| | |  _|  _| |_) |  __/ | |_
 \__,_|_|_| |_| |_.__/ \___|_|\__|
                  version ` + bootstrap.VERSION + `
`

func main() {

	c, err := configuration.Load()
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	logger := logging.Init(c.LogLevel, bootstrap.VERSION)

	start, _, err := bootstrap.Bootstrap(&c, logger)
	if err != nil {
		logger.Error("bootstrap", "error", err)
		os.Exit(1)
	}

	start()
}
