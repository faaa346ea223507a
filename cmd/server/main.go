package main

import (
	"context"
	"flag"
	"os"

	"garrison/internal/config"
	"garrison/internal/handler"
	"garrison/internal/logger"
	"garrison/internal/migrate"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	closeLog := logger.Init(cfg.Log)
	defer closeLog()
	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	migrate.Bootstrap(context.Background(), db)

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := handler.NewRouter(cfg, db)
	if err != nil {
		logger.Error("router init failed", "err", err)
		os.Exit(1)
	}

	logger.Info("server starting", "addr", cfg.Addr(), "atomic_submission", cfg.Recruitment.AtomicSubmission)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
