package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

// PprofServer serves the runtime profiling endpoints on a listener kept off
// the public API port. A nil PprofServer means pprof is off; Stop on it is a
// no-op.
type PprofServer struct {
	http   *http.Server
	logger *logging.Logger
}

func StartPprofServer(cfg config.Config, logger *logging.Logger) *PprofServer {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	p := &PprofServer{
		logger: logger,
		http: &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           pprofMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	go p.serve()
	return p
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	for name, handler := range map[string]http.HandlerFunc{
		"cmdline": pprof.Cmdline,
		"profile": pprof.Profile,
		"symbol":  pprof.Symbol,
		"trace":   pprof.Trace,
	} {
		mux.HandleFunc("/debug/pprof/"+name, handler)
	}
	return mux
}

func (p *PprofServer) serve() {
	p.logger.Info("pprof server starting", "addr", p.http.Addr)
	if err := p.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("pprof server failed", "error", err)
	}
}

// Stop drains the profiling listener within timeout.
func (p *PprofServer) Stop(timeout time.Duration) error {
	if p == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.http.Shutdown(ctx); err != nil {
		return err
	}

	p.logger.Info("pprof server stopped")
	return nil
}
