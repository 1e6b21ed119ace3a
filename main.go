package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go-url-shortener/config"
	"go-url-shortener/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the production JSON logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

func main() {
	store := flag.String("store", "", "Override STORE_BACKEND (memory, sqlite, postgres, redis, mongo)")
	port := flag.String("port", "", "Override SERVER_PORT, e.g. :8080")
	flag.Parse()

	// flags win over the environment and .env
	if *store != "" {
		os.Setenv("STORE_BACKEND", *store)
	}
	if *port != "" {
		os.Setenv("SERVER_PORT", *port)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize zap logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting URL Shortener application...",
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("cache", cfg.CacheEnabled))
	if err := server.Run(logger, cfg); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
	logger.Info("URL Shortener application stopped.")
}
