package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozontech/cube-storage/consts"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	r := require.New(t)

	path := writeConfig(t, `
storage:
  connURL: kv://cluster-1
  blockSize: 128KiB
  codec: lz4
query:
  scanThreshold: 5000
  scanWorkers: 3
  acceptPartialResult: true
`)

	c, err := Parse(path)
	r.NoError(err)

	r.Equal("kv://cluster-1", c.Storage.ConnURL)
	r.Equal(Bytes(128*1024), c.Storage.BlockSize)
	r.Equal("lz4", c.Storage.Codec)
	r.Equal(5000, c.Query.ScanThreshold)
	r.Equal(3, c.Query.ScanWorkers)
	r.True(c.Query.AcceptPartialResult)

	// defaults
	r.Equal(":9200", c.Address.Debug)
	r.Equal(3, c.Storage.ZstdCompressionLevel)
	r.Equal(30*time.Second, c.Query.Timeout)
	r.Equal(0.01, c.Tracing.SamplingRate)
}

func TestParseComputedDefaults(t *testing.T) {
	c, err := Parse(writeConfig(t, "storage:\n  connURL: kv://x\n"))
	require.NoError(t, err)
	assert.Equal(t, NumCPU, c.Query.ScanWorkers)
	assert.Equal(t, consts.DefaultScanThreshold, c.Query.ScanThreshold)
	assert.Equal(t, Bytes(consts.DefaultBlockSize), c.Storage.BlockSize)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(writeConfig(t, `
storage:
  codec: snappy
query:
  scanThreshold: -1
tracing:
  samplingRate: 2
`))
	require.ErrorIs(t, err, consts.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "storage.codec")
	assert.Contains(t, err.Error(), "query.scanThreshold")
	assert.Contains(t, err.Error(), "tracing.samplingRate")
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, consts.DefaultScanThreshold, c.Query.ScanThreshold)
}
