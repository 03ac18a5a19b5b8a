package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gridironlab/weekly-digest/internal/app"
	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/observability"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

const teardownTimeout = 10 * time.Second

// generate runs one batch of digest drafts from the command line. It is the
// entry point the weekly scheduler invokes; the exit code tells the scheduler
// whether every scope landed.
func main() {
	os.Exit(run())
}

func run() int {
	season := flag.Int("season", 0, "season year, e.g. 2025")
	week := flag.Int("week", 0, "week number within the season")
	scopes := flag.String("scopes", "", "comma-separated scopes; defaults to SCOPES from the environment")
	workers := flag.Int("workers", 0, "max concurrent scopes; defaults to BATCH_MAX_WORKERS")
	flag.Parse()

	if *season < 1 || *week < 1 {
		fmt.Fprintln(os.Stderr, "usage: generate -season <year> -week <n> [-scopes college,pro] [-workers <n>]")
		return 2
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batch, closeApp, err := app.NewBatchPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		return 1
	}

	result, genErr := batch.GenerateAll(ctx, usecase.BatchInput{
		Scopes:     splitScopes(*scopes),
		Season:     *season,
		Week:       *week,
		MaxWorkers: *workers,
	})

	teardownCtx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	if err := closeApp(teardownCtx); err != nil {
		logger.Error("close pipeline resources failed", "error", err)
	}
	if err := shutdownUptrace(teardownCtx); err != nil {
		logger.Error("shutdown uptrace failed", "error", err)
	}

	if genErr != nil {
		logger.Error("batch generation failed", "error", genErr)
		return 1
	}

	for _, task := range result.Tasks {
		if task.Message != "" {
			logger.Warn("scope failed",
				"scope", task.Scope, "error", task.Message, "duration_ms", task.DurationMs)
			continue
		}
		logger.Info("scope generated",
			"scope", task.Scope, "path", task.Path, "top_games", task.TopGames,
			"used_stub", task.UsedStub, "duration_ms", task.DurationMs)
	}

	logger.Info("batch generation finished",
		"season", *season, "week", *week,
		"scopes", result.ScopeCount, "succeeded", result.SuccessCount,
		"failed", result.FailedCount, "workers", result.WorkerCount)

	if failure := result.FirstFailure(); failure != nil {
		return 1
	}

	return 0
}

func splitScopes(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		out = append(out, scope)
	}

	return out
}
