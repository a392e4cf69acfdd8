package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	AssertNil(c.Validate())
}

func TestReadFile(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(filename, []byte(`
httpAddr: 0.0.0.0:9000
dumpInterval: 5s
maxItemsInPack: 7
logLevel: debug
`), 0644)
	AssertNil(err)

	c := Default()
	AssertNil(c.ReadFile(filename))

	AssertEqual(c.HttpAddr, "0.0.0.0:9000")
	AssertEqual(c.DumpInterval, 5*time.Second)
	AssertEqual(c.MaxItemsInPack, 7)
	AssertEqual(c.LogLevel, "debug")
	AssertEqual(c.AutoCommitDelay, Default().AutoCommitDelay)

	AssertNotNil(c.ReadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidate(t *testing.T) {

	c := Default()
	c.MaxItemsInPack = 0
	AssertNotNil(c.Validate())

	c = Default()
	c.AutoCommitDelay = 0
	AssertNotNil(c.Validate())

	c = Default()
	c.DumpInterval = 0
	AssertNotNil(c.Validate())
	c.Dir = ""
	AssertNil(c.Validate())
}
