// Command tacticboard runs a headless tactics board. It reads JSON-lines
// commands from stdin, or from a command log with -replay, applies them
// to the board and prints one JSON reply per command followed by the
// final board state.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/OCAP2/tacticboard/internal/board"
	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/dispatcher"
	"github.com/OCAP2/tacticboard/internal/logging"
	intOtel "github.com/OCAP2/tacticboard/internal/otel"
	"github.com/OCAP2/tacticboard/internal/storage/factory"
)

// BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "tacticboard"

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	replay := flag.String("replay", "", "replay commands from this file instead of stdin")
	flag.Parse()

	os.Exit(run(*configDir, *replay, os.Stdin, os.Stdout))
}

func run(configDir, replay string, stdin io.Reader, stdout io.Writer) int {
	sessionStart := time.Now()
	ctx := context.Background()

	slogManager := logging.NewSlogManager()
	slogManager.Setup(os.Stderr, "info", nil)
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config", "dir", configDir)
	}

	logPath := logging.LogFilePath(config.GetString("logsDir"), appName, sessionStart)
	logFile := logging.NewRotatingFile(logPath)
	defer logFile.Close()

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(ctx, intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		provider = nil
	}
	defer func() {
		if provider == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}()

	var logProvider *sdklog.LoggerProvider
	if provider != nil && provider.Enabled() {
		logProvider = provider.LoggerProvider()
	}
	slogManager.Setup(logFile, config.GetString("logLevel"), logProvider)
	logger = slogManager.Logger()
	logger.Info("Starting up", "version", Version, "build", BuildDate, "log", logPath)

	store, err := factory.New(ctx, config.GetStorageConfig(), logger)
	if err != nil {
		// keep the board usable without persistence
		logger.Error("Failed to open storage, continuing in memory", "error", err)
	}

	clk := &virtualClock{t: sessionStart}
	session, err := board.New(board.Dependencies{
		Store:  store,
		Logger: logger,
		Config: config.GetBoardConfig(),
		Now:    clk.now,
	})
	if err != nil {
		logger.Error("Failed to create board", "error", err)
		return 1
	}
	defer session.Close()

	if err := session.Load(ctx); err != nil {
		logger.Error("Failed to load board", "error", err)
		return 1
	}

	d, err := dispatcher.New(logger)
	if err != nil {
		logger.Error("Failed to create dispatcher", "error", err)
		return 1
	}
	registerCommands(d, session, clk)

	in := stdin
	if replay != "" {
		f, err := os.Open(replay)
		if err != nil {
			logger.Error("Failed to open replay file", "path", replay, "error", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	failed, err := runCommands(d, in, stdout, clk.now)
	if err != nil {
		logger.Error("Command stream failed", "error", err)
		return 1
	}
	if failed > 0 {
		logger.Info("Commands finished with errors", "failed", failed)
	}

	if err := json.NewEncoder(stdout).Encode(session.State()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := slogManager.Flush(flushCtx); err != nil {
		logger.Warn("Failed to flush logs", "error", err)
	}
	return 0
}
