package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/internal/storage"
	enginerrors "github.com/cleansight/cleansight/pkg/errors"
	"github.com/cleansight/cleansight/pkg/models"
)

// Config holds connection settings for the Redis report store.
type Config struct {
	Addr         string        `json:"addr" mapstructure:"addr"`
	Password     string        `json:"password" mapstructure:"password"`
	DB           int           `json:"db" mapstructure:"db"`
	DialTimeout  time.Duration `json:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
	PoolSize     int           `json:"pool_size" mapstructure:"pool_size"`
	TTL          time.Duration `json:"ttl" mapstructure:"ttl"`
	KeyPrefix    string        `json:"key_prefix" mapstructure:"key_prefix"`
}

// Store persists analysis reports in Redis as JSON values with a TTL, so a
// fleet of servers can share report retrieval.
type Store struct {
	config *Config
	client *redis.Client
	logger *logrus.Logger
}

// NewStore creates a Redis report store and verifies the connection.
func NewStore(ctx context.Context, config *Config, logger *logrus.Logger) (*Store, error) {
	if config == nil || config.Addr == "" {
		return nil, enginerrors.NewInternalError("redis address is required", nil)
	}
	if logger == nil {
		logger = logrus.New()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "cleansight"
	}
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     config.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, enginerrors.NewInternalError("failed to connect to Redis", err)
	}

	logger.WithFields(logrus.Fields{
		"addr": config.Addr,
		"db":   config.DB,
	}).Info("Connected to Redis report store")

	return &Store{config: config, client: client, logger: logger}, nil
}

// SaveReport stores the report as JSON under its ID with the configured TTL.
func (s *Store) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return enginerrors.NewInternalError("failed to marshal report", err)
	}

	key := s.reportKey(report.ID)
	if err := s.client.Set(ctx, key, data, s.config.TTL).Err(); err != nil {
		return enginerrors.NewInternalError("failed to write report to Redis", err)
	}

	s.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"bytes":     len(data),
	}).Debug("Report saved")

	return nil
}

// GetReport fetches a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (*models.AnalysisReport, error) {
	data, err := s.client.Get(ctx, s.reportKey(id)).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrReportNotFound
	}
	if err != nil {
		return nil, enginerrors.NewInternalError("failed to read report from Redis", err)
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, enginerrors.NewInternalError("failed to unmarshal report", err)
	}
	return &report, nil
}

// Close releases the client connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) reportKey(id string) string {
	return fmt.Sprintf("%s:report:%s", s.config.KeyPrefix, id)
}
