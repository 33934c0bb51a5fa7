package main

import (
	"strconv"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ozontech/cube-storage/consts"
)

var (
	flagConfig      = kingpin.Flag("config", `path to yaml config`).String()
	flagPrintConfig = kingpin.Flag("print-config", `print effective config and exit`).Bool()
	flagDebug       = kingpin.Flag("debug", `serve metrics, probes and pprof on address.debug while scanning`).Bool()
	flagTracing     = kingpin.Flag("tracing", `export traces to jaeger`).Bool()

	// dataset
	flagSegments  = kingpin.Flag("segments", `number of generated segments`).Default(strconv.Itoa(consts.DefaultSegmentsPerQuery)).Int()
	flagRows      = kingpin.Flag("rows", `rows per generated segment`).Default(strconv.Itoa(consts.DefaultRowsPerSegment)).Int()
	flagCuboid    = kingpin.Flag("cuboid", `cuboid id, bit i selects column i of `+baseColumnsStr).Default("5").Uint64()
	flagCardinal  = kingpin.Flag("cardinality", `distinct values per dimension`).Default("16").Uint32()
	flagSeed      = kingpin.Flag("seed", `generator seed`).Default("1").Uint32()
	flagStorageTp = kingpin.Flag("storage-type", `storage type of the realization`).Default("sharded").Enum("legacy", "hybrid", "sharded")

	// query
	flagLimits      = kingpin.Flag("limit", `limit of a query layer, outermost first; repeatable`).Ints()
	flagOffset      = kingpin.Flag("offset", `rows to skip`).Default("0").Int()
	flagSort        = kingpin.Flag("sort", `order result by dimensions`).Bool()
	flagAggregate   = kingpin.Flag("aggregate", `merge rows of equal dimensions in storage`).Bool()
	flagExact       = kingpin.Flag("exact", `storage aggregation is exact`).Bool()
	flagCoprocessor = kingpin.Flag("coprocessor", `aggregate inside scan workers`).Bool()
	flagPartial     = optionalBool{}
	flagThreshold   = kingpin.Flag("threshold", `scan threshold override`).Default("0").Int()
	flagReusedFrom  = kingpin.Flag("reused-from", `start of the reused period, inclusive`).Int64()
	flagReusedTo    = kingpin.Flag("reused-to", `end of the reused period, exclusive`).Int64()
	flagPrintRows   = kingpin.Flag("print-rows", `max rows printed to stdout`).Default("20").Int()
)

func init() {
	kingpin.Flag("accept-partial", `accept partial result when the threshold is exceeded, --no-accept-partial refuses it; query.acceptPartialResult when omitted`).
		SetValue(&flagPartial)
}

// optionalBool is a bool flag that remembers whether it was given at all.
type optionalBool struct {
	val *bool
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.val = &v
	return nil
}

func (b *optionalBool) String() string {
	if b.val == nil {
		return ""
	}
	return strconv.FormatBool(*b.val)
}

// IsBoolFlag makes kingpin accept the flag without a value and its --no- form.
func (b *optionalBool) IsBoolFlag() bool {
	return true
}

// Get returns nil when the flag was not given.
func (b *optionalBool) Get() *bool {
	return b.val
}
