// Package storage holds the per-query state shared by the planner, the scan
// workers and the result assembly of a single cube query.
package storage

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"lukechampine.com/frand"

	"github.com/ozontech/cube-storage/cube"
	"github.com/ozontech/cube-storage/logger"
	"github.com/ozontech/cube-storage/metric"
)

// Unbounded is the value of limits that were never set.
const Unbounded = math.MaxInt

const (
	eventLimitAlreadySet        = "limit_already_set"
	eventPushDownUnsupported    = "push_down_unsupported"
	eventPushDownEnabled        = "push_down_enabled"
	eventReusedPeriodAlreadySet = "reused_period_already_set"
)

// Context is created once per query and shared by every scan task of it.
//
// Fields follow a phase discipline: the planner writes them before scan tasks
// are started, scan tasks only read them, and the result assembly writes the
// partial result flag after all tasks are done. The scan counter is the only
// state that is safe to mutate concurrently.
type Context struct {
	queryID ulid.ULID
	connURL string
	logger  *zap.Logger

	threshold          int
	limit              int
	offset             int
	finalPushDownLimit int
	limitEnabled       bool
	hasSort            bool

	acceptPartialResult   bool
	partialResultReturned bool

	exactAggregation       bool
	needStorageAggregation bool
	coprocessorEnabled     bool

	totalScanCount atomic.Uint64

	cuboid       *cube.Cuboid
	reusedPeriod *Period
}

type Option func(*Context)

func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

func WithQueryID(id ulid.ULID) Option {
	return func(c *Context) {
		c.queryID = id
	}
}

func WithConnURL(url string) Option {
	return func(c *Context) {
		c.connURL = url
	}
}

// NewContext creates a context with the given scan threshold.
// Callers take the threshold from the process configuration at the moment the query is planned.
func NewContext(threshold int, opts ...Option) *Context {
	c := &Context{
		threshold:          threshold,
		limit:              Unbounded,
		finalPushDownLimit: Unbounded,
	}
	for _, o := range opts {
		o(c)
	}

	if c.queryID == (ulid.ULID{}) {
		c.queryID = ulid.MustNew(ulid.Timestamp(time.Now()), frand.Reader)
	}
	if c.logger == nil {
		c.logger = logger.L()
	}
	c.logger = c.logger.With(zap.Stringer("query_id", c.queryID))

	return c
}

func (c *Context) QueryID() ulid.ULID {
	return c.queryID
}

func (c *Context) ConnURL() string {
	return c.connURL
}

func (c *Context) SetConnURL(url string) {
	c.connURL = url
}

func (c *Context) Threshold() int {
	return c.threshold
}

func (c *Context) SetThreshold(t int) {
	c.threshold = t
}

func (c *Context) Limit() int {
	return c.limit
}

// SetLimit applies n unless a limit is already in effect. Several query layers
// may try to limit the same scan and the first (outermost) one wins.
// Returns false when n was ignored.
func (c *Context) SetLimit(n int) bool {
	if c.limit != Unbounded {
		c.logger.Warn("limit is already set, won't apply",
			zap.Int("requested", n),
			zap.Int("limit", c.limit),
		)
		metric.ContextLimitEvents.WithLabelValues(eventLimitAlreadySet).Inc()
		return false
	}
	c.limit = n
	return true
}

func (c *Context) Offset() int {
	return c.offset
}

func (c *Context) SetOffset(n int) {
	c.offset = n
}

func (c *Context) EnableLimit() {
	c.limitEnabled = true
}

func (c *Context) LimitEnabled() bool {
	return c.limitEnabled
}

// FinalPushDownLimit is the row cap handed to storage scans, Unbounded if none.
func (c *Context) FinalPushDownLimit() int {
	return c.finalPushDownLimit
}

// ComputePushDownLimit decides whether the limit can be pushed into the scan
// of the given realization. Storage scans know nothing about the offset, so
// offset+limit rows are requested. Returns true if push-down got enabled.
func (c *Context) ComputePushDownLimit(r cube.Realization) bool {
	if c.limit == Unbounded {
		return false
	}

	pushDownLimit := saturatingAdd(c.offset, c.limit)

	if !r.SupportsLimitPushDown() {
		c.logger.Warn("not enabling limit push down because storage type of realization is not supported",
			zap.String("realization", r.Name()),
			zap.Int("push_down_limit", pushDownLimit),
		)
		metric.ContextLimitEvents.WithLabelValues(eventPushDownUnsupported).Inc()
		return false
	}

	c.limitEnabled = true
	c.finalPushDownLimit = pushDownLimit
	c.logger.Info("enable limit push down",
		zap.String("realization", r.Name()),
		zap.Int("push_down_limit", pushDownLimit),
	)
	metric.ContextLimitEvents.WithLabelValues(eventPushDownEnabled).Inc()
	return true
}

// saturatingAdd clamps to Unbounded instead of wrapping around,
// so an overflow never turns into a tiny scan cap.
func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return Unbounded
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}

// MarkSort records that the query needs ordered output. There is no way back.
func (c *Context) MarkSort() {
	c.hasSort = true
}

func (c *Context) HasSort() bool {
	return c.hasSort
}

func (c *Context) SetCuboid(cuboid *cube.Cuboid) {
	c.cuboid = cuboid
}

func (c *Context) Cuboid() *cube.Cuboid {
	return c.cuboid
}

func (c *Context) TotalScanCount() uint64 {
	return c.totalScanCount.Load()
}

// IncreaseTotalScanCount adds delta scanned rows and returns the new total.
// Safe for concurrent use by any number of scan workers.
func (c *Context) IncreaseTotalScanCount(delta uint64) uint64 {
	return c.totalScanCount.Add(delta)
}

func (c *Context) AcceptPartialResult() bool {
	return c.acceptPartialResult
}

func (c *Context) SetAcceptPartialResult(accept bool) {
	c.acceptPartialResult = accept
}

func (c *Context) PartialResultReturned() bool {
	return c.partialResultReturned
}

// SetPartialResultReturned must only be called with true when AcceptPartialResult is true.
func (c *Context) SetPartialResultReturned(returned bool) {
	c.partialResultReturned = returned
}

func (c *Context) NeedStorageAggregation() bool {
	return c.needStorageAggregation
}

func (c *Context) SetNeedStorageAggregation(need bool) {
	c.needStorageAggregation = need
}

func (c *Context) ExactAggregation() bool {
	return c.exactAggregation
}

func (c *Context) SetExactAggregation(exact bool) {
	c.exactAggregation = exact
}

func (c *Context) EnableCoprocessor() {
	c.coprocessorEnabled = true
}

func (c *Context) CoprocessorEnabled() bool {
	return c.coprocessorEnabled
}

// ReusedPeriod returns the time range whose results are served from a previous scan.
func (c *Context) ReusedPeriod() (Period, bool) {
	if c.reusedPeriod == nil {
		return Period{}, false
	}
	return *c.reusedPeriod, true
}

// SetReusedPeriod sets the reused period once, later calls are ignored.
func (c *Context) SetReusedPeriod(p Period) bool {
	if c.reusedPeriod != nil {
		c.logger.Warn("reused period is already set, won't apply",
			zap.Stringer("requested", p),
			zap.Stringer("reused_period", *c.reusedPeriod),
		)
		metric.ContextLimitEvents.WithLabelValues(eventReusedPeriodAlreadySet).Inc()
		return false
	}
	c.reusedPeriod = &p
	return true
}
