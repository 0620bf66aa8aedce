// Package config содержит конфигурацию чат сервиса.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "gochat/pkg/config"
	"gochat/pkg/logger"
)

// ServiceName - имя сервиса в логах конфигурации.
const ServiceName = "chat"

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigSummary    = "chat service configuration"
	ErrFailedLoadConfig = "failed to load chat configuration"
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Session  SessionConfig  `yaml:"session"`
	Cache    CacheConfig    `yaml:"cache"`
	Policy   PolicyConfig   `yaml:"policy"`
	Agent    AgentConfig    `yaml:"agent"`
}

// Load читает конфигурацию из envPath (если файл есть) и переменных окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.Address()),
		zap.String("http_address", cfg.HTTP.Address()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("session_ttl", cfg.Session.TTL),
		zap.Bool("legacy_sessions", cfg.Session.AcceptLegacy),
		zap.Duration("cache_ttl", cfg.Cache.DefaultTTL),
		zap.Duration("policy_refresh", cfg.Policy.RefreshInterval),
		zap.Bool("agent_configured", cfg.Agent.URL != ""))

	return cfg, nil
}
