package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kartoza/house-predictor/internal/config"
	"github.com/kartoza/house-predictor/internal/desktop"
	"github.com/kartoza/house-predictor/internal/logging"
	"github.com/kartoza/house-predictor/internal/server"
	"github.com/kartoza/house-predictor/internal/ui"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigFile = "config.yaml"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "YAML configuration file (default config.yaml when present)")
	host := flag.String("host", "", "Listen host")
	port := flag.Int("port", 0, "Listen port")
	modelPath := flag.String("model", "", "Model artifact path")
	modelType := flag.String("model-type", "", "Model type: linear, tree_ensemble, mlp, sqlite (detected when empty)")
	window := flag.Bool("window", false, "Open the prediction form in a native window")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("House Price Predictor v%s\n", version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Version = version

	// Explicit flags take priority over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "model":
			cfg.ModelPath = *modelPath
		case "model-type":
			cfg.ModelType = *modelType
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()
	zap.ReplaceGlobals(logger.Logger)

	logger.Info("house price predictor starting",
		zap.String("version", version),
		zap.String("addr", cfg.Addr()),
		zap.String("model", cfg.ModelPath),
	)

	srv, err := server.New(cfg, logger.Logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Only the log level is applied live; other changes need a restart
	if path != "" {
		go func() {
			err := config.Watch(ctx, path, func(next config.Config) {
				if err := logger.SetLevel(next.Log.Level); err != nil {
					logger.Warn("ignoring invalid log level", zap.String("level", next.Log.Level), zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if *window {
		formURL := fmt.Sprintf("http://%s%s", localAddr(cfg.Port), cfg.UIPath)
		waitForServer(localAddr(cfg.Port), 10*time.Second)

		logger.Info("opening application window", zap.String("url", formURL))
		if err := desktop.Open(ctx, formURL, ui.Title); err != nil {
			logger.Error("failed to open window", zap.Error(err))
		} else {
			// Closing the window shuts the server down
			cancel()
		}
	}

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := srv.Stop(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}
}

func localAddr(port int) string {
	return fmt.Sprintf("localhost:%d", port)
}

// waitForServer polls until the server is accepting connections
func waitForServer(addr string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	zap.L().Warn("server may not be ready", zap.String("addr", addr))
}
