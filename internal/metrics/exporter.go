package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Exporter serves the registry on a local HTTP listener while a
// long-running command (watch, chart) is active.
type Exporter struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewExporter creates an exporter for the registry at listen/path.
func NewExporter(reg *Registry, listen, path string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Exporter{
		srv: &http.Server{
			Addr:         listen,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Shutdown. Errors other than a clean close are logged.
func (e *Exporter) Start() {
	e.logger.Info("metrics exporter listening", zap.String("addr", e.srv.Addr))
	if err := e.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		e.logger.Warn("metrics exporter stopped", zap.Error(err))
	}
}

// Shutdown stops the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.srv.Shutdown(ctx)
}
