package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slighter12/mcp-toolserver-go/audit"
	"github.com/slighter12/mcp-toolserver-go/config"
	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools"
	mcphttp "github.com/slighter12/mcp-toolserver-go/transport/http"
	"github.com/slighter12/mcp-toolserver-go/transport/shared"
	"github.com/slighter12/mcp-toolserver-go/transport/stdio"
)

const shutdownTimeout = 10 * time.Second

var (
	flagStdio    bool
	flagToolsDir string
	flagWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Discover tools and serve JSON-RPC",
	Example: `  mcp-toolserver serve
  mcp-toolserver serve --stdio --tools-dir ./tools.d
  MCP_USE_STDIO=true mcp-toolserver serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagStdio, "stdio", false, "Serve newline-delimited JSON-RPC on stdin/stdout (also MCP_USE_STDIO=true)")
	serveCmd.Flags().StringVar(&flagToolsDir, "tools-dir", "", "Override the tool manifest directory")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload manifests when they change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if flagToolsDir != "" {
		cfg.Discovery.Dir = flagToolsDir
	}
	if flagWatch {
		cfg.Discovery.Watch = true
	}
	useStdio := flagStdio || strings.EqualFold(os.Getenv("MCP_USE_STDIO"), "true")

	if err := initLogger(cfg, useStdio); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Default().Close()

	manager := tools.NewManager()
	units, err := tools.Discover(cfg.Discovery.Dir, manager)
	if err != nil {
		return err
	}
	logger.Info("Tool registry ready", "dir", cfg.Discovery.Dir, "units", units, "tools", manager.Count(), "names", manager.Names())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Discovery.Watch {
		watcher, err := tools.NewWatcher(cfg.Discovery.Dir, manager)
		if err != nil {
			logger.Warn("Tool directory watch disabled", "dir", cfg.Discovery.Dir, "error", err)
		} else {
			watcher.Start(ctx)
			defer watcher.Close()
		}
	}

	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		recorder = audit.NewRecorder(cfg.Audit.Buffer, audit.LogSink)
		defer recorder.Close()
	}
	dispatcher := shared.NewDispatcher(manager, cfg.Dispatch.BatchWorkers, recorder)

	go rotateOnHangup(ctx, cfg.Logging.Path)

	if useStdio {
		return serveStdio(ctx, cfg, dispatcher)
	}
	return serveHTTP(ctx, cfg, manager, dispatcher)
}

func initLogger(cfg *config.Config, useStdio bool) error {
	level := logger.GetLevelFromString(cfg.Logging.Level)
	format := logger.Format(cfg.Logging.Format)
	if useStdio {
		return logger.InitWithConsole(os.Stderr, level, format, cfg.Logging.Path)
	}
	return logger.Init(level, format, cfg.Logging.Path)
}

func serveStdio(ctx context.Context, cfg *config.Config, dispatcher *shared.Dispatcher) error {
	server := stdio.NewStdioServer(dispatcher, os.Stdin, os.Stdout, int(cfg.Server.MaxBodyBytes))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Stdio server stopping")
		return nil
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, manager *tools.Manager, dispatcher *shared.Dispatcher) error {
	server := mcphttp.NewServer(cfg, manager, dispatcher)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// rotateOnHangup reopens the log file on SIGHUP so external rotation works.
func rotateOnHangup(ctx context.Context, path string) {
	if path == "" {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := logger.Default().Rotate(path); err != nil {
				logger.Error("Failed to reopen log file", "path", path, "error", err)
				continue
			}
			logger.Info("Log file reopened", "path", path)
		}
	}
}
