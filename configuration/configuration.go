package configuration

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fulldump/goconfig"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	HttpAddr        string        `yaml:"httpAddr" usage:"HTTP address"`
	Dir             string        `yaml:"dir" usage:"data directory, dumps are disabled when empty"`
	DumpInterval    time.Duration `yaml:"dumpInterval" usage:"time between full dumps"`
	AutoCommitDelay time.Duration `yaml:"autoCommitDelay" usage:"quiescence delay before non manual collections commit"`
	MaxItemsInPack  int           `yaml:"maxItemsInPack" usage:"page size of query and diff cursors"`
	LogLevel        string        `yaml:"logLevel" usage:"debug, info, warn or error"`

	EnableCompression bool `yaml:"enableCompression" usage:"gzip responses for clients that accept it"`

	Version    bool `yaml:"-" usage:"show version and exit"`
	ShowBanner bool `yaml:"showBanner" usage:"show big banner"`
	ShowConfig bool `yaml:"showConfig" usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:        "127.0.0.1:3030",
		Dir:             "data",
		DumpInterval:    time.Minute,
		AutoCommitDelay: 50 * time.Millisecond,
		MaxItemsInPack:  100,
		LogLevel:        "info",

		EnableCompression: true,
		ShowBanner:        true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// the CONFIG_FILE environment variable, then flags and environment.
func Load() (Configuration, error) {

	c := Default()

	if filename := os.Getenv("CONFIG_FILE"); filename != "" {
		if err := c.ReadFile(filename); err != nil {
			return c, err
		}
	}

	goconfig.Read(&c)

	return c, c.Validate()
}

func (c *Configuration) ReadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read config file '%s'", filename)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config file '%s'", filename)
	}
	return nil
}

func (c *Configuration) Validate() error {
	if c.HttpAddr == "" {
		return errors.New("httpAddr is required")
	}
	if c.MaxItemsInPack <= 0 {
		return errors.Newf("maxItemsInPack must be positive, got %d", c.MaxItemsInPack)
	}
	if c.AutoCommitDelay <= 0 {
		return errors.Newf("autoCommitDelay must be positive, got %s", c.AutoCommitDelay)
	}
	if c.Dir != "" && c.DumpInterval <= 0 {
		return errors.Newf("dumpInterval must be positive, got %s", c.DumpInterval)
	}
	return nil
}
