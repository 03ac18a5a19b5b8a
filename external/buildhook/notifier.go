package buildhook

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/platform/resilience"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

var errHookTransient = crerr.New("build hook transient failure")

type NotifierConfig struct {
	HookURL   string
	AuthToken string
	Timeout   time.Duration
	Breaker   resilience.BreakerSettings
}

// Notifier pings the static-site build pipeline after a draft is written.
// Callers treat failures as warnings; the notifier never retries on its own.
type Notifier struct {
	client         *http.Client
	hookURL        string
	authToken      string
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
}

func NewNotifier(cfg NotifierConfig, logger *logging.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		client: &http.Client{
			Timeout: timeout,
		},
		hookURL:        strings.TrimSpace(cfg.HookURL),
		authToken:      strings.TrimSpace(cfg.AuthToken),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		circuitEnabled: cfg.Breaker.Enabled,
	}
}

type hookPayload struct {
	Scope  string `json:"scope"`
	Season int    `json:"season"`
	Week   int    `json:"week"`
	Path   string `json:"path"`
}

func (n *Notifier) NotifyDraftPublished(ctx context.Context, note usecase.BuildNote) error {
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "build hook circuit breaker rejected request", "state", n.breaker.State())
			return fmt.Errorf("build hook is temporarily unavailable: %w", err)
		}
	}

	hookURL, err := validateHTTPURL(n.hookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid BUILD_HOOK_URL")
	}

	body, err := sonic.Marshal(hookPayload{
		Scope:  note.Scope,
		Season: note.Season,
		Week:   note.Week,
		Path:   note.Path,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal hook payload")
	}

	curlPreview := buildCurlPreview(hookURL, string(body), n.authToken != "")
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("buildhook.url", hookURL),
			attribute.String("buildhook.request_body", string(body)),
			attribute.String("buildhook.request_curl_preview", curlPreview),
		)
	}
	n.logger.InfoContext(ctx, "build hook request", "scope", note.Scope, "week", note.Week, "path", note.Path, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create hook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if n.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.authToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: post build hook url=%s: %v", errHookTransient, hookURL, err)
		n.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf("%w: post build hook status=%d body=%s", errHookTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
			n.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf("post build hook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
		n.recordCircuitResult(callErr)
		return callErr
	}

	n.logger.InfoContext(ctx, "build hook delivered", "scope", note.Scope, "season", note.Season, "week", note.Week)
	n.recordCircuitResult(nil)
	return nil
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildCurlPreview(hookURL, body string, withAuth bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(hookURL))
	if withAuth {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func (n *Notifier) recordCircuitResult(err error) {
	if !n.circuitEnabled || n.breaker == nil {
		return
	}
	if err == nil {
		n.breaker.Success()
		return
	}
	if isCircuitFailure(err) {
		n.breaker.Failure()
		return
	}
	n.breaker.Success()
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errHookTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
