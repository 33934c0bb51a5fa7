package debugserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/logger"
)

type Server struct {
	server *http.Server
}

func New(httpAddr string, ready *atomic.Bool) Server {
	return Server{
		server: &http.Server{
			Addr:    httpAddr,
			Handler: Handler(ready),
		},
	}
}

func (s Server) Start() {
	logger.Info("debug listen started", zap.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start listen on debug addr", zap.Error(err))
	}
}

func (s Server) Stop(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if err == nil {
		logger.Info("shutdown debug server successful")
	} else {
		logger.Error("shutdown debug server", zap.Error(err))
	}
}

// Handler serves metrics, probes, log level and pprof.
func Handler(ready *atomic.Bool) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/live", liveness)
	mux.HandleFunc("/ready", readiness(ready))
	mux.Handle("/log/level", logger.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// liveness is always ok
func liveness(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "OK")
}

// readiness returns OK when service started
func readiness(ready *atomic.Bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready.Load() {
			writeStatus(w, http.StatusOK, "OK")
			return
		}
		writeStatus(w, http.StatusServiceUnavailable, "Not ready")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.WriteHeader(code)
	if _, err := w.Write([]byte(status)); err != nil {
		logger.Error("failed to write status", zap.Error(err))
	}
}
