// Package main is the entry point for the scene editor.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/app"
	"github.com/Faultbox/scened/internal/config"
	"github.com/Faultbox/scened/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== scened ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.WriteConfigRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to write config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start editor", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("editor error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("editor closed normally")
}
