// Package main реализует утилиту оператора для загрузки и чтения документа политик.
//
// Использование:
//
//	policy -put policies.json   проверить и записать документ
//	policy -get                 вывести текущий документ
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	cacheAdapter "gochat/internal/chat/adapters/cache"
	"gochat/internal/chat/adapters/services"
	"gochat/internal/chat/config"
	pkgconfig "gochat/pkg/config"
	"gochat/pkg/db/redis"
	"gochat/pkg/logger"
)

// Константы для сообщений.
const (
	LogPolicyStored = "policy document stored"
	ErrReadFile     = "failed to read policy file"
	ErrInitRedis    = "failed to connect to redis"
	ErrPutPolicy    = "failed to store policy document"
	ErrGetPolicy    = "failed to read policy document"
	ErrLoadConfig   = "failed to load configuration"
)

var errUsage = errors.New("exactly one of -put or -get is required")

type cliConfig struct {
	Redis   config.RedisConfig   `yaml:"redis"`
	Logging config.LoggingConfig `yaml:"logging"`
}

func main() {
	envPath := flag.String("env", ".env", "path to .env file")
	putPath := flag.String("put", "", "validate and store the policy document from file")
	get := flag.Bool("get", false, "print the stored policy document")
	flag.Parse()

	if err := run(*envPath, *putPath, *get); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(envPath, putPath string, get bool) error {
	if (putPath == "") == !get {
		flag.Usage()
		return errUsage
	}

	log, err := logger.NewLogger(logger.Development, os.Getenv("CHAT_LOGGER_LEVEL"))
	if err != nil {
		return err
	}
	logger.SetGlobalLogger(log)
	defer func() { _ = log.Sync() }()

	ctx := logger.NewRequestIDContext(context.Background(), "")

	cfg, err := pkgconfig.Load[cliConfig](ctx, "policy", envPath)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	client, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitRedis, err)
	}
	defer func() { _ = client.Close() }()

	store := services.NewPolicyStore(cacheAdapter.NewRedisStore(client, 0), 0)

	if get {
		raw, err := store.Raw(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrGetPolicy, err)
		}
		fmt.Println(raw)
		return nil
	}

	raw, err := os.ReadFile(putPath)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrReadFile, err)
	}

	policy, err := store.Put(ctx, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPutPolicy, err)
	}

	log.Info(ctx, LogPolicyStored,
		zap.Int("max_attempts", policy.Login.MaxAttempts),
		zap.Int("lockout_minutes", policy.Login.LockoutMinutes),
		zap.Strings("allowed_domains", policy.Registration.AllowedEmailDomains))
	return nil
}
