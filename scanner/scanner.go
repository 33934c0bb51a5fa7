package scanner

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.opencensus.io/trace"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/consts"
	"github.com/ozontech/cube-storage/logger"
	"github.com/ozontech/cube-storage/metric"
	"github.com/ozontech/cube-storage/metric/stopwatch"
	"github.com/ozontech/cube-storage/segment"
	"github.com/ozontech/cube-storage/storage"
	"github.com/ozontech/cube-storage/tracing"
	"github.com/ozontech/cube-storage/util"
)

type Conf struct {
	Logger *zap.Logger
}

type Scanner struct {
	sem util.Semaphore
	cfg Conf
}

type Result struct {
	Rows    []segment.Row
	Partial bool

	ScannedRows     uint64
	ScannedSegments int
	// ReusedSegments were skipped because their rows are served from a previous scan.
	ReusedSegments int
}

func New(maxWorkersNum int, cfg Conf) *Scanner {
	if maxWorkersNum <= 0 {
		logger.Panic("invalid workers value")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.L()
	}
	return &Scanner{
		sem: util.NewSemaphore(maxWorkersNum),
		cfg: cfg,
	}
}

// run is the state of one Scan call shared by its workers.
type run struct {
	sctx    *storage.Context
	rowsCap int
	// stopped is raised when the threshold is hit and partial results are accepted
	stopped atomic.Bool
}

// Scan reads segments of the query cuboid and assembles the result according to sctx.
func (s *Scanner) Scan(ctx context.Context, sctx *storage.Context, segs []*segment.Segment) (_ *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "scanner.Scan")
	defer span.End()

	metric.ScanQueriesTotal.Inc()

	sw := stopwatch.New()
	defer sw.Export(metric.ScanStagesSeconds)

	res := &Result{}

	m := sw.Start("select_segments")
	segs, res.ReusedSegments = selectSegments(sctx, segs)
	m.Stop()

	res.ScannedSegments = len(segs)
	metric.ScannedSegmentsTotal.WithLabelValues("storage").Add(float64(res.ScannedSegments))
	metric.ScannedSegmentsTotal.WithLabelValues("reused").Add(float64(res.ReusedSegments))

	r := &run{
		sctx:    sctx,
		rowsCap: effectivePushDownLimit(sctx),
	}

	m = sw.Start("scan_segments")
	parts, err := s.scanAsync(ctx, r, segs)
	m.Stop()

	res.ScannedRows = sctx.TotalScanCount()
	metric.ScanRowsPerQuery.Observe(float64(res.ScannedRows))

	span.AddAttributes(
		trace.Int64Attribute("scanned_rows", int64(res.ScannedRows)),
		trace.Int64Attribute("scanned_segments", int64(res.ScannedSegments)),
	)

	if err != nil {
		return nil, err
	}

	m = sw.Start("merge")
	rows := mergeParts(parts)
	if sctx.NeedStorageAggregation() {
		rows = aggregate(rows)
	}
	m.Stop()

	if sctx.HasSort() {
		m = sw.Start("sort")
		slices.SortFunc(rows, compareRows)
		m.Stop()
	}

	res.Rows = window(rows, sctx.Offset(), sctx.Limit())

	if r.stopped.Load() {
		res.Partial = true
		sctx.SetPartialResultReturned(true)
		metric.PartialResultsTotal.Inc()
		s.cfg.Logger.Warn("scan threshold exceeded, returning partial result",
			zap.Stringer("query_id", sctx.QueryID()),
			zap.Uint64("scanned_rows", res.ScannedRows),
			zap.Int("threshold", sctx.Threshold()),
		)
	}
	span.AddAttributes(trace.BoolAttribute("partial", res.Partial))

	return res, nil
}

func (s *Scanner) scanAsync(ctx context.Context, r *run, segs []*segment.Segment) ([][]segment.Row, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var err error

	once := sync.Once{}
	wg := sync.WaitGroup{}
	parts := make([][]segment.Row, len(segs))

	for i, seg := range segs {
		if acquireErr := s.sem.Acquire(ctx); acquireErr != nil {
			once.Do(func() { err = acquireErr })
			break
		}
		wg.Add(1)
		go func() {
			defer func() {
				s.sem.Release()
				wg.Done()
			}()

			var segErr error
			if parts[i], segErr = s.scanSegment(ctx, r, seg); segErr != nil {
				once.Do(func() {
					err = segErr
					cancel()
				})
			}
		}()
	}

	wg.Wait()

	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (s *Scanner) scanSegment(ctx context.Context, r *run, seg *segment.Segment) (rows []segment.Row, err error) {
	defer func() {
		if panicData := util.RecoverToError(recover(), metric.ScannerPanics); panicData != nil {
			err = fmt.Errorf("internal error: scan panicked on segment %s, error=%w", seg.Name, panicData)
		}
	}()

	var block []segment.Row
	for _, b := range seg.Blocks() {
		if r.stopped.Load() || len(rows) >= r.rowsCap {
			break
		}
		if util.IsCancelled(ctx) {
			return nil, ctx.Err()
		}

		block, err = b.Rows(block[:0])
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", seg.Name, err)
		}

		// rows past the cap are decoded with their block but never consumed, so they are not counted
		n := min(len(block), r.rowsCap-len(rows))
		total := r.sctx.IncreaseTotalScanCount(uint64(n))
		metric.ScannedRowsTotal.Add(float64(n))
		rows = append(rows, block[:n]...)

		if total > uint64(max(r.sctx.Threshold(), 0)) {
			if !r.sctx.AcceptPartialResult() {
				metric.ThresholdExceededTotal.Inc()
				return nil, fmt.Errorf("%w: scanned %d rows, threshold is %d",
					consts.ErrScanThresholdExceeded, total, r.sctx.Threshold())
			}
			r.stopped.Store(true)
			break
		}
	}

	if r.sctx.CoprocessorEnabled() && r.sctx.NeedStorageAggregation() {
		rows = aggregate(rows)
	}
	return rows, nil
}

// selectSegments keeps segments of the query cuboid which are not served from the reused period.
func selectSegments(sctx *storage.Context, segs []*segment.Segment) ([]*segment.Segment, int) {
	cuboid := sctx.Cuboid()
	reused, hasReused := sctx.ReusedPeriod()

	selected := make([]*segment.Segment, 0, len(segs))
	reusedCount := 0
	for _, seg := range segs {
		if cuboid != nil && seg.CuboidID != cuboid.ID {
			continue
		}
		if seg.RowsCount() == 0 {
			continue
		}
		if hasReused && reused.Covers(seg.From, seg.To) {
			reusedCount++
			continue
		}
		selected = append(selected, seg)
	}
	return selected, reusedCount
}

// effectivePushDownLimit is the number of rows a single segment scan may return.
// The limit can't be pushed below a sort, nor below a storage aggregation:
// rows of one group may be spread over segments and are only complete after the merge.
func effectivePushDownLimit(sctx *storage.Context) int {
	if !sctx.LimitEnabled() || sctx.HasSort() || sctx.NeedStorageAggregation() {
		return storage.Unbounded
	}
	if limit := sctx.FinalPushDownLimit(); limit >= 0 {
		return limit
	}
	return storage.Unbounded
}

func mergeParts(parts [][]segment.Row) []segment.Row {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	rows := make([]segment.Row, 0, n)
	for _, p := range parts {
		rows = append(rows, p...)
	}
	return rows
}

// window skips offset rows and returns at most limit of the rest.
func window(rows []segment.Row, offset, limit int) []segment.Row {
	if offset <= 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return rows[:0]
	}
	rows = rows[offset:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
