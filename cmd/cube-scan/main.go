package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v2"

	"github.com/ozontech/cube-storage/buildinfo"
	"github.com/ozontech/cube-storage/config"
	"github.com/ozontech/cube-storage/consts"
	"github.com/ozontech/cube-storage/cube"
	"github.com/ozontech/cube-storage/logger"
	"github.com/ozontech/cube-storage/network/debugserver"
	"github.com/ozontech/cube-storage/planner"
	"github.com/ozontech/cube-storage/scanner"
	"github.com/ozontech/cube-storage/segment"
	"github.com/ozontech/cube-storage/storage"
	"github.com/ozontech/cube-storage/tracing"
	"github.com/ozontech/cube-storage/util"
)

func main() {
	logger.Info("hi, I am cube-scan",
		zap.String("version", buildinfo.Version),
		zap.String("build_time", buildinfo.BuildTime),
	)

	kingpin.Version(buildinfo.Version)
	kingpin.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := loadConfig()
	if *flagPrintConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			logger.Fatal("can't marshal config", zap.Error(err))
		}
		fmt.Print(string(out))
		return
	}

	if *flagTracing {
		if err := tracing.Start(cfg.Tracing.SamplingRate); err != nil {
			logger.Error("can't start tracing", zap.Error(err))
		}
	}

	ready := atomic.NewBool(false)
	if *flagDebug {
		srv := debugserver.New(cfg.Address.Debug, ready)
		go srv.Start()
		defer srv.Stop(consts.GracefulShutdownTimeout)
	}

	if err := run(ctx, cfg, ready); err != nil {
		if errors.Is(err, consts.ErrScanThresholdExceeded) {
			logger.Error("query rejected", zap.Error(err))
			os.Exit(2)
		}
		logger.Fatal("scan failed", zap.Error(err))
	}
}

func loadConfig() config.Config {
	if *flagConfig == "" {
		return config.Default()
	}
	cfg, err := config.Parse(*flagConfig)
	if err != nil {
		logger.Fatal("can't load config", zap.String("path", *flagConfig), zap.Error(err))
	}
	return cfg
}

func run(ctx context.Context, cfg config.Config, ready *atomic.Bool) error {
	codec, err := segment.ParseCodec(cfg.Storage.Codec)
	if err != nil {
		return err
	}

	cuboid := cube.NewCuboid(*flagCuboid, baseColumns)
	if cuboid.DimensionCount() == 0 {
		return fmt.Errorf("%w: cuboid %d selects no columns of %s", consts.ErrInvalidArgument, *flagCuboid, baseColumnsStr)
	}

	start := time.Now()
	segs := generateSegments(cuboid, *flagSegments, *flagRows, max(*flagCardinal, 1), *flagSeed, segment.Conf{
		BlockSize: int(cfg.Storage.BlockSize),
		Codec:     codec,
		ZstdLevel: cfg.Storage.ZstdCompressionLevel,
	})
	var size uint64
	for _, s := range segs {
		size += s.Size()
	}
	logger.Info("segments generated",
		zap.Stringer("cuboid", cuboid),
		zap.Int("segments", len(segs)),
		zap.Stringer("codec", codec),
		util.ZapUint64AsSizeStr("size", size),
		zap.Duration("took", time.Since(start)),
	)

	req := planner.Request{
		Cuboid:                 cuboid,
		Realization:            cube.NewInstance("cube-scan", parseStorageType(*flagStorageTp)),
		Limits:                 *flagLimits,
		Offset:                 *flagOffset,
		Sort:                   *flagSort,
		NeedStorageAggregation: *flagAggregate,
		ExactAggregation:       *flagExact,
		Coprocessor:            *flagCoprocessor,
		Threshold:              *flagThreshold,
		AcceptPartialResult:    flagPartial.Get(),
	}
	if *flagReusedTo > *flagReusedFrom {
		p := storage.ClosedOpen(*flagReusedFrom, *flagReusedTo)
		req.ReusedPeriod = &p
	}

	sctx := planner.New(planner.ConfFromConfig(cfg)).Plan(req)
	s := scanner.New(cfg.Query.ScanWorkers, scanner.Conf{})
	ready.Store(true)

	if *flagTracing {
		ctx = tracing.WithDebug(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Query.Timeout)
	defer cancel()

	start = time.Now()
	res, err := s.Scan(ctx, sctx, segs)
	if err != nil {
		return err
	}

	logger.Info("scan done",
		zap.Stringer("query_id", sctx.QueryID()),
		zap.Int("rows", len(res.Rows)),
		zap.Bool("partial", res.Partial),
		zap.Uint64("scanned_rows", res.ScannedRows),
		zap.Int("scanned_segments", res.ScannedSegments),
		zap.Int("reused_segments", res.ReusedSegments),
		zap.Duration("took", time.Since(start)),
	)
	printRows(cuboid, res.Rows, *flagPrintRows)
	return nil
}

func parseStorageType(s string) cube.StorageType {
	switch s {
	case "legacy":
		return cube.StorageTypeLegacy
	case "hybrid":
		return cube.StorageTypeHybrid
	default:
		return cube.StorageTypeSharded
	}
}

func printRows(cuboid *cube.Cuboid, rows []segment.Row, n int) {
	fmt.Println(strings.Join(append(cuboid.Dimensions(), "count", "value"), "\t"))
	for i, row := range rows {
		if i == n {
			fmt.Printf("... %d more\n", len(rows)-n)
			break
		}
		cols := append([]string{}, row.Dims...)
		for _, m := range row.Metrics {
			cols = append(cols, fmt.Sprint(m))
		}
		fmt.Println(strings.Join(cols, "\t"))
	}
}
