package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/gridironlab/weekly-digest/internal/config"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

// preview serves the generated draft documents as static files so an editor
// can check a week's digest locally before the site build picks it up.
func main() {
	addr := flag.String("addr", ":8090", "listen address")
	dir := flag.String("dir", "", "drafts directory; defaults to DRAFTS_DIR")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	root := strings.TrimSpace(*dir)
	if root == "" {
		root = cfg.DraftsDir
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logger.Error("drafts directory not found", "dir", root)
		os.Exit(1)
	}

	fs := &fasthttp.FS{
		Root:               root,
		IndexNames:         []string{"index.html"},
		GenerateIndexPages: true,
		AcceptByteRange:    true,
	}
	files := fs.NewRequestHandler()

	server := &fasthttp.Server{
		Name: "weekly-digest-preview",
		Handler: func(ctx *fasthttp.RequestCtx) {
			// The site dev server runs on another port; let it fetch drafts.
			ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
			files(ctx)
			logger.Info("preview request",
				"method", string(ctx.Method()),
				"path", string(ctx.Path()),
				"status", ctx.Response.StatusCode(),
			)
		},
	}

	go func() {
		logger.Info("preview server starting", "addr", *addr, "dir", root)
		if err := server.ListenAndServe(*addr); err != nil {
			logger.Error("preview server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := server.Shutdown(); err != nil {
		logger.Error("preview shutdown failed", "error", err)
	}
	logger.Info("preview server stopped")
}
