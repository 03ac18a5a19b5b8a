package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

const (
	betterStackQueueSize   = 1024
	betterStackSendTimeout = 3 * time.Second
	betterStackDrainGrace  = 5 * time.Second
)

// InitBetterStackLogger builds the process logger. Entries always go to
// stdout; when Better Stack is enabled, entries at or above the configured
// minimum level are also shipped to its ingest endpoint asynchronously.
func InitBetterStackLogger(cfg config.Config, baseLogger *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if baseLogger == nil {
		baseLogger = logging.NewJSON(cfg.LogLevel)
	}
	if !cfg.BetterStackEnabled {
		baseLogger.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return baseLogger, func(context.Context) error { return nil }, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	// Both sinks share one encoder so the shipped entries and the stdout
	// entries stay byte for byte identical.
	encoder := zapcore.NewJSONEncoder(shipEncoderConfig())
	shipper := newBetterStackShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	tee := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.LogLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(shipper), cfg.BetterStackMinLevel),
	)

	logger := logging.FromZap(zap.New(tee, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	logger.Info("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return logger, shipperShutdown(logger, shipper), nil
}

// shipperShutdown returns the close hook handed back to main. A caller
// context without a deadline gets the default drain grace.
func shipperShutdown(logger *logging.Logger, shipper *betterStackShipper) func(context.Context) error {
	return func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			bounded, cancel := context.WithTimeout(ctx, betterStackDrainGrace)
			defer cancel()
			ctx = bounded
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
			return err
		}
		return nil
	}
}

func shipEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// normalizeBetterStackEndpoint trims the configured ingest address and
// prefixes https when no scheme is present.
func normalizeBetterStackEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	switch {
	case endpoint == "":
		return ""
	case strings.HasPrefix(endpoint, "https://"), strings.HasPrefix(endpoint, "http://"):
		return endpoint
	default:
		return "https://" + endpoint
	}
}

// betterStackShipper is a zapcore write syncer that posts each encoded entry
// to the Better Stack ingest endpoint from a single background goroutine.
// Write never blocks the logging call site: when the queue is full the entry
// is dropped and counted.
type betterStackShipper struct {
	endpoint string
	token    string
	client   *http.Client

	// queueMu serializes Write against the channel close in Close; closed is
	// checked under the read lock so no Write can enqueue after the channel
	// is gone.
	queue   chan *bytebufferpool.ByteBuffer
	queueMu sync.RWMutex
	closed  atomic.Bool

	closeOnce sync.Once
	wg        sync.WaitGroup
	dropped   atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = betterStackSendTimeout
	}
	s := &betterStackShipper{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		queue:    make(chan *bytebufferpool.ByteBuffer, betterStackQueueSize),
	}
	s.wg.Add(1)
	go s.pump()
	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	entry := bytes.TrimSpace(p)
	if len(entry) == 0 {
		return len(p), nil
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.closed.Load() {
		return len(p), nil
	}

	// zap reuses the encode buffer after Write returns, so the entry is
	// copied into a pooled buffer before crossing the channel.
	buf := bytebufferpool.Get()
	_, _ = buf.Write(entry)
	select {
	case s.queue <- buf:
	default:
		bytebufferpool.Put(buf)
		s.recordDrop()
	}
	return len(p), nil
}

// recordDrop counts a dropped entry, reporting the first drop and every
// hundredth after that.
func (s *betterStackShipper) recordDrop() {
	dropped := s.dropped.Add(1)
	if dropped == 1 || dropped%100 == 0 {
		shipperWarnf("queue full; dropped logs=%d", dropped)
	}
}

func (s *betterStackShipper) pump() {
	defer s.wg.Done()
	for buf := range s.queue {
		s.send(buf.B)
		bytebufferpool.Put(buf)
	}
}

func (s *betterStackShipper) send(entry []byte) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(entry))
	if err != nil {
		shipperWarnf("build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		shipperWarnf("ship entry: %v", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		shipperWarnf("ingest returned status=%d", resp.StatusCode)
	}
}

// Close stops accepting writes, lets the pump drain what is already queued,
// and waits for it until ctx expires.
func (s *betterStackShipper) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.closeOnce.Do(func() {
		// The write lock excludes in-flight Writes while the channel closes.
		s.queueMu.Lock()
		defer s.queueMu.Unlock()
		s.closed.Store(true)
		close(s.queue)
	})

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		if n := s.dropped.Load(); n > 0 {
			shipperWarnf("closed with dropped logs=%d", n)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *betterStackShipper) Sync() error {
	return nil
}

// The shipper cannot report failures through the logger it ships for, so they
// land on stderr instead.
func shipperWarnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "betterstack: "+format+"\n", args...)
}

// Syncing stdout returns EBADF or EINVAL when it is a pipe or terminal, which
// is the normal case in containers.
func isIgnorableSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "invalid argument")
}
