package observability

import (
	"context"
	"testing"

	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

func TestUptraceDisabledReason(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{name: "flag off", cfg: config.Config{UptraceEnabled: false, UptraceDSN: "https://token@api.uptrace.dev/1"}, want: "UPTRACE_ENABLED=false"},
		{name: "blank dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "   "}, want: "UPTRACE_DSN empty"},
		{name: "configured", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev/1"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uptraceDisabledReason(tt.cfg); got != tt.want {
				t.Fatalf("uptraceDisabledReason=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestInitUptrace_DisabledShutdownIsNoop(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "weekly-digest-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}
