package util

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/logger"
)

type panicWrapper struct {
	e error
}

func (p *panicWrapper) Unwrap() error {
	return p.e
}

func (p *panicWrapper) Error() string {
	return p.e.Error()
}

func IsRecoveredPanicError(e error) bool {
	if e == nil {
		return false
	}

	var p *panicWrapper
	if errors.As(e, &p) {
		return true
	}

	var re runtime.Error
	return errors.As(e, &re)
}

// RecoverToError converts data returned by recover() into an error,
// counting and logging it. Returns nil if there was no panic.
func RecoverToError(panicData any, metric prometheus.Counter) error {
	if panicData == nil {
		return nil
	}

	err, ok := panicData.(error)
	if !ok {
		err = fmt.Errorf("%v", panicData)
	}

	metric.Inc()
	logger.Error("recovered from panic", zap.Error(err), zap.Stack("stack"))

	return &panicWrapper{e: err}
}
