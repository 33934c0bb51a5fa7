package tracing

import (
	"context"
	"net"

	"go.opencensus.io/trace"

	"github.com/ozontech/cube-storage/consts"
)

// hostIP returns the first non loopback IPv4 address of the host.
func hostIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "unknown"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return "unknown" // we don't want to fail if we can't find an IP
}

// WithDebug forces sampling of every span started from the returned context.
func WithDebug(ctx context.Context) context.Context {
	return context.WithValue(ctx, consts.JaegerDebugKey, true)
}

func StartSpan(ctx context.Context, name string, o ...trace.StartOption) (context.Context, *trace.Span) {
	debug := ctx.Value(consts.JaegerDebugKey) != nil
	if debug {
		o = append(o, trace.WithSampler(trace.AlwaysSample()))
	}
	rCtx, span := trace.StartSpan(ctx, name, o...)
	if debug {
		span.AddAttributes(trace.BoolAttribute(consts.JaegerDebugKey, true))
	}
	return rCtx, span
}
