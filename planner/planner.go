// Package planner turns a cube query request into the storage context its scan runs with.
package planner

import (
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/config"
	"github.com/ozontech/cube-storage/cube"
	"github.com/ozontech/cube-storage/logger"
	"github.com/ozontech/cube-storage/storage"
)

type Conf struct {
	ScanThreshold       int
	ConnURL             string
	AcceptPartialResult bool
	Logger              *zap.Logger
}

// ConfFromConfig takes planner settings from the process configuration.
func ConfFromConfig(c config.Config) Conf {
	return Conf{
		ScanThreshold:       c.Query.ScanThreshold,
		ConnURL:             c.Storage.ConnURL,
		AcceptPartialResult: c.Query.AcceptPartialResult,
	}
}

// Request is what the query layer knows about one query after choosing the cuboid.
type Request struct {
	Cuboid      *cube.Cuboid
	Realization cube.Realization

	// Limits of nested query layers, outermost first.
	Limits []int
	Offset int
	Sort   bool

	// AcceptPartialResult overrides Conf.AcceptPartialResult when set.
	AcceptPartialResult *bool

	NeedStorageAggregation bool
	ExactAggregation       bool
	Coprocessor            bool

	ReusedPeriod *storage.Period

	// Threshold overrides the configured scan threshold when positive.
	Threshold int
}

type Planner struct {
	cfg Conf
}

func New(cfg Conf) *Planner {
	if cfg.Logger == nil {
		cfg.Logger = logger.L()
	}
	return &Planner{cfg: cfg}
}

// Plan creates the context of a new query. It must be called before any scan task starts.
func (p *Planner) Plan(req Request) *storage.Context {
	sctx := storage.NewContext(p.cfg.ScanThreshold,
		storage.WithLogger(p.cfg.Logger),
		storage.WithConnURL(p.cfg.ConnURL),
	)

	if req.Threshold > 0 {
		sctx.SetThreshold(req.Threshold)
	}
	if req.Cuboid != nil {
		sctx.SetCuboid(req.Cuboid)
	}

	sctx.SetOffset(req.Offset)
	for _, l := range req.Limits {
		sctx.SetLimit(l)
	}
	if req.Sort {
		sctx.MarkSort()
	}

	accept := p.cfg.AcceptPartialResult
	if req.AcceptPartialResult != nil {
		accept = *req.AcceptPartialResult
	}
	sctx.SetAcceptPartialResult(accept)

	sctx.SetNeedStorageAggregation(req.NeedStorageAggregation)
	sctx.SetExactAggregation(req.ExactAggregation)
	if req.Coprocessor {
		sctx.EnableCoprocessor()
	}

	if req.ReusedPeriod != nil {
		sctx.SetReusedPeriod(*req.ReusedPeriod)
	}

	if req.Realization != nil {
		sctx.ComputePushDownLimit(req.Realization)
	}

	p.cfg.Logger.Debug("query planned",
		zap.Stringer("query_id", sctx.QueryID()),
		zap.Int("threshold", sctx.Threshold()),
		zap.Int("limit", sctx.Limit()),
		zap.Int("offset", sctx.Offset()),
		zap.Int("push_down_limit", sctx.FinalPushDownLimit()),
		zap.Bool("limit_enabled", sctx.LimitEnabled()),
		zap.Bool("accept_partial_result", sctx.AcceptPartialResult()),
	)
	return sctx
}
