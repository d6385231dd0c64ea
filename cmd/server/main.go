package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cleansight/cleansight/internal/server"
	"github.com/cleansight/cleansight/internal/storage"
	"github.com/cleansight/cleansight/internal/storage/memory"
	redisstore "github.com/cleansight/cleansight/internal/storage/redis"
	"github.com/cleansight/cleansight/pkg/models"
)

func main() {
	config := ParseFlags()

	logger := setupLogger(config.LogLevel, config.LogFormat)

	logger.WithFields(logrus.Fields{
		"version":   Version,
		"commit":    GitCommit,
		"buildDate": BuildDate,
	}).Info("Starting data quality analysis server")

	analysisCfg := loadAnalysisConfig(config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newReportStore(ctx, config, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize report store")
	}
	defer store.Close()

	serverCfg := server.DefaultConfig()
	serverCfg.Host = config.Host
	serverCfg.Port = config.Port

	srv := server.NewServer(serverCfg, analysisCfg, store, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("Server failed")
		}
	}

	if err := srv.Stop(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	if lvl, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// loadAnalysisConfig reads the engine policy from the optional config file.
func loadAnalysisConfig(config *Config, logger *logrus.Logger) *models.AnalysisConfig {
	if config.ConfigFile == "" {
		return models.DefaultAnalysisConfig()
	}

	viper.SetConfigFile(config.ConfigFile)
	if err := viper.ReadInConfig(); err != nil {
		logger.WithError(err).Warn("Failed to read config file, using defaults")
		return models.DefaultAnalysisConfig()
	}

	cfg := &models.AnalysisConfig{}
	if err := viper.UnmarshalKey("analysis", cfg); err != nil {
		logger.WithError(err).Warn("Failed to parse analysis config, using defaults")
		return models.DefaultAnalysisConfig()
	}
	return cfg.Normalized()
}

func newReportStore(ctx context.Context, config *Config, logger *logrus.Logger) (storage.ReportStore, error) {
	switch config.StoreBackend {
	case "redis":
		return redisstore.NewStore(ctx, &redisstore.Config{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}, logger)
	default:
		return memory.NewStore(), nil
	}
}
