package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

// RequireInternalJobToken guards the internal generate/runs endpoints. The
// verified caller's address is stashed in the context for audit logs.
func RequireInternalJobToken(token string, next http.Handler) http.Handler {
	want := []byte(strings.TrimSpace(token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(want) == 0 {
			writeError(w, fmt.Errorf("%w: internal job token is not configured", usecase.ErrDependencyUnavailable))
			return
		}

		got := []byte(strings.TrimSpace(r.Header.Get("X-Internal-Job-Token")))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			writeError(w, fmt.Errorf("%w: invalid internal job token", usecase.ErrUnauthorized))
			return
		}

		caller := jobCaller{
			IP:      resolveClientIP(r),
			Country: resolveCountryCode(r),
		}
		next.ServeHTTP(w, r.WithContext(withJobCaller(r.Context(), caller)))
	})
}

func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Health and liveness probes poll every few seconds and would drown real
// traffic in the trace backend.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "weekly-digest-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	_, probe := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !probe
}

// CORS answers preflight requests and stamps allow headers on responses to
// browser origins the deployment trusts.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		policy.apply(w, origin)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type corsPolicy struct {
	allowAll bool
	origins  map[string]struct{}
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	policy := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, raw := range allowedOrigins {
		switch origin := strings.TrimSpace(raw); origin {
		case "":
		case "*":
			policy.allowAll = true
		default:
			policy.origins[origin] = struct{}{}
		}
	}
	return policy
}

// apply stamps allow headers when the origin is trusted. Untrusted origins
// get no CORS headers at all, which browsers treat as a denial.
func (p corsPolicy) apply(w http.ResponseWriter, origin string) {
	if !p.allowAll {
		if _, ok := p.origins[origin]; !ok {
			return
		}
	}

	if p.allowAll {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Accept,X-Internal-Job-Token")
	w.Header().Set("Access-Control-Max-Age", "600")
}
