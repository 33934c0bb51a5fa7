package stopwatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ozontech/cube-storage/logger"
)

const (
	stopwatchStageLabel = "stage"
	stageSeparator      = " >> "
)

type Metric interface {
	Stop()
}

// Stopwatch measures durations of the stages of a single operation.
// Stages started while another one is running are nested into it.
// Not safe for concurrent use: every goroutine needs its own Stopwatch.
type Stopwatch struct {
	stack     []*stage
	durations map[string]time.Duration
	counts    map[string]uint32

	nowFn   func() time.Time
	sinceFn func(time.Time) time.Duration
}

type stage struct {
	sw      *Stopwatch
	name    string
	start   time.Time
	stopped bool
}

func New() *Stopwatch {
	sw := &Stopwatch{
		nowFn:   time.Now,
		sinceFn: time.Since,
	}
	sw.Reset()
	return sw
}

func (sw *Stopwatch) Reset() {
	sw.stack = sw.stack[:0]
	sw.durations = make(map[string]time.Duration)
	sw.counts = make(map[string]uint32)
}

func (sw *Stopwatch) Start(name string) Metric {
	if n := len(sw.stack); n > 0 {
		name = sw.stack[n-1].name + stageSeparator + name
	}
	s := &stage{sw: sw, name: name, start: sw.nowFn()}
	sw.stack = append(sw.stack, s)
	return s
}

func (s *stage) Stop() {
	if s.stopped {
		logger.Warn("wrong Stopwatch usage: Stop() called twice")
		return
	}
	sw := s.sw
	// stop unstopped nested stages first
	for len(sw.stack) > 0 {
		top := sw.stack[len(sw.stack)-1]
		sw.stack = sw.stack[:len(sw.stack)-1]
		top.stopped = true
		sw.durations[top.name] += sw.sinceFn(top.start)
		sw.counts[top.name]++
		if top == s {
			break
		}
	}
}

func (sw *Stopwatch) GetValues() map[string]time.Duration {
	return sw.durations
}

func (sw *Stopwatch) GetCounts() map[string]uint32 {
	return sw.counts
}

type UpdateMetricOption func(prometheus.Labels) prometheus.Labels

func SetLabel(name, value string) UpdateMetricOption {
	return func(labels prometheus.Labels) prometheus.Labels {
		labels[name] = value
		return labels
	}
}

func (sw *Stopwatch) Export(m *prometheus.HistogramVec, options ...UpdateMetricOption) {
	labels := prometheus.Labels{}
	for _, o := range options {
		labels = o(labels)
	}

	for name, val := range sw.GetValues() {
		labels[stopwatchStageLabel] = name
		m.With(labels).Observe(val.Seconds())
	}
	sw.Reset()
}
