package tracing

import (
	"cmp"
	"fmt"
	"net"
	"os"

	"contrib.go.opencensus.io/exporter/jaeger"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/buildinfo"
	"github.com/ozontech/cube-storage/logger"
)

const defaultServiceName = "cube-storage"

// Start registers the jaeger exporter and samples traces with the given probability.
// Agent address and service name come from TRACING_* environment variables.
func Start(probability float64) error {
	appName := cmp.Or(os.Getenv("TRACING_SERVICE_NAME"), defaultServiceName)
	host := cmp.Or(os.Getenv("TRACING_AGENT_HOST"), "127.0.0.1")
	port := cmp.Or(os.Getenv("TRACING_AGENT_PORT"), "6831")

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("getting hostname: %s", err)
	}

	exp, err := jaeger.NewExporter(jaeger.Options{
		AgentEndpoint: net.JoinHostPort(host, port),
		OnError: func(err error) {
			logger.Error("error sending trace", zap.Error(err))
		},
		Process: jaeger.Process{
			ServiceName: appName,
			Tags: []jaeger.Tag{
				jaeger.StringTag("host.name", hostname),
				jaeger.StringTag("version", buildinfo.Version),
				jaeger.StringTag("build.time", buildinfo.BuildTime),
				jaeger.StringTag("ip", hostIP()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating jaeger exporter: %s", err)
	}

	trace.RegisterExporter(exp)
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(probability)})
	logger.Info("tracing initialized", zap.Float64("probability", probability), zap.String("service", appName))
	return nil
}
