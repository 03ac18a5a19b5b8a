package httpapi

import (
	"net/http"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

// RouterConfig carries the deployment knobs the router needs; everything
// request-scoped lives on Handler.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerRoutes(mux, handler, cfg)

	// Tracing wraps the whole chain so handler spans and the trace ids in
	// request logs share one root.
	var root http.Handler = mux
	root = recoverPanic(logger, root)
	root = CORS(cfg.CORSAllowedOrigins, root)
	root = RequestLogging(logger, root)
	return RequestTracing(root)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if val := recover(); val != nil {
				logger.ErrorContext(r.Context(), "recovered from handler panic", "panic", val, "path", r.URL.Path)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
