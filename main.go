package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/datasource"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/handlers"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/llm"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logging"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/logtail"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("model_provider", cfg.Model.Provider),
		zap.String("model", cfg.Model.Name))

	sessions := services.NewSessionManager(cfg, logger, datasource.Open, llm.NewEngine)
	defer sessions.Close()

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(sessions, logger).RegisterRoutes(mux)

	if cfg.LogDir != "" {
		tailer := logtail.NewTailer(cfg.LogDir, time.Duration(cfg.LogTailSeconds)*time.Second, logger)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go tailer.Run(ctx)
		handlers.NewLogsHandler(tailer, logger).RegisterRoutes(mux)
	}

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting real-state-qa",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
