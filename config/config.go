package config

import (
	"cmp"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/units"
	"github.com/kkyr/fig"
	"go.uber.org/multierr"

	"github.com/ozontech/cube-storage/consts"
)

func Parse(path string) (Config, error) {
	var c Config
	if err := fig.Load(&c, fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path)), fig.Tag("config")); err != nil {
		return Config{}, err
	}
	c.setComputedDefaults()

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns configuration with every default applied, as if an empty file was loaded.
func Default() Config {
	var c Config
	c.Address.Debug = ":9200"
	c.Storage.BlockSize = Bytes(consts.DefaultBlockSize)
	c.Storage.Codec = "zstd"
	c.Storage.ZstdCompressionLevel = consts.DefaultZstdCompressLvl
	c.Query.ScanThreshold = consts.DefaultScanThreshold
	c.Query.Timeout = consts.DefaultScanTimeout
	c.Tracing.SamplingRate = 0.01
	c.setComputedDefaults()
	return c
}

func (c *Config) setComputedDefaults() {
	/* Set computed defaults if user did not override them */
	c.Query.ScanWorkers = cmp.Or(c.Query.ScanWorkers, NumCPU)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Query.ScanThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: query.scanThreshold must be positive, got %d", consts.ErrInvalidArgument, c.Query.ScanThreshold))
	}
	if c.Query.ScanWorkers <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: query.scanWorkers must be positive, got %d", consts.ErrInvalidArgument, c.Query.ScanWorkers))
	}
	if c.Storage.BlockSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: storage.blockSize must be positive", consts.ErrInvalidArgument))
	}
	switch c.Storage.Codec {
	case "zstd", "lz4", "none":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown storage.codec %q", consts.ErrInvalidArgument, c.Storage.Codec))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: tracing.samplingRate must be in [0, 1]", consts.ErrInvalidArgument))
	}
	return err
}

type Config struct {
	Address struct {
		// Debug listen address.
		Debug string `config:"debug" default:":9200" yaml:"debug"`
	} `config:"address" yaml:"address"`

	Storage struct {
		// ConnURL identifies the storage connection queries are executed against.
		// It is passed to every query context as is.
		ConnURL string `config:"connURL" yaml:"connURL"`
		// BlockSize specifies the packed size at which a segment block gets sealed.
		BlockSize Bytes `config:"blockSize" default:"64KiB" yaml:"blockSize"`
		// Codec is one of "zstd", "lz4" or "none".
		Codec                string `config:"codec" default:"zstd" yaml:"codec"`
		ZstdCompressionLevel int    `config:"zstdCompressionLevel" default:"3" yaml:"zstdCompressionLevel"`
	} `config:"storage" yaml:"storage"`

	Query struct {
		// ScanThreshold is the default number of scanned rows after which
		// a query either returns a partial result or fails.
		// Read once per query context, so changes only affect new queries.
		ScanThreshold int `config:"scanThreshold" default:"10000000" yaml:"scanThreshold"`
		// ScanWorkers specifies number of segments scanned simultaneously.
		// By default this setting is equal to [runtime.GOMAXPROCS].
		ScanWorkers int `config:"scanWorkers" yaml:"scanWorkers"`
		// AcceptPartialResult is used for queries which do not state it explicitly.
		AcceptPartialResult bool          `config:"acceptPartialResult" yaml:"acceptPartialResult"`
		Timeout             time.Duration `config:"timeout" default:"30s" yaml:"timeout"`
	} `config:"query" yaml:"query"`

	Tracing struct {
		SamplingRate float64 `config:"samplingRate" default:"0.01" yaml:"samplingRate"`
	} `config:"tracing" yaml:"tracing"`
}

type Bytes units.Base2Bytes

func (b *Bytes) UnmarshalString(s string) error {
	bytes, err := units.ParseBase2Bytes(s)
	if err != nil {
		return err
	}
	*b = Bytes(bytes)
	return nil
}

func (b Bytes) String() string {
	return units.Base2Bytes(b).String()
}

// MarshalYAML keeps human readable sizes when the effective config is dumped.
func (b Bytes) MarshalYAML() (any, error) {
	return b.String(), nil
}
