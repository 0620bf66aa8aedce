// Package main реализует точку входа чат сервиса.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	cacheAdapter "gochat/internal/chat/adapters/cache"
	"gochat/internal/chat/adapters/cached"
	"gochat/internal/chat/adapters/grpc"
	httpServer "gochat/internal/chat/adapters/http"
	"gochat/internal/chat/adapters/postgres"
	"gochat/internal/chat/adapters/services"
	"gochat/internal/chat/app"
	"gochat/internal/chat/config"
	"gochat/internal/chat/db"
	"gochat/internal/chat/resilience"
	"gochat/pkg/db/redis"
	"gochat/pkg/logger"
	"gochat/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "CHAT_LOGGER_MODE"
	EnvLoggerLevel = "CHAT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to connect to redis"
	ErrInitServices         = "failed to initialize services"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "chat service started"
	LogServiceShutdownDone = "chat service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing Redis connection"
	LogStoppingGRPC        = "stopping gRPC server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	envPath := flag.String("env", ".env", "path to .env file")
	migrationsDir := flag.String("migrations", "migrations/chat", "path to migrations directory")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, *envPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres, *migrationsDir)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		store := cacheAdapter.NewRedisStore(redisClient, cfg.Cache.DefaultTTL)
		aside := cacheAdapter.NewAside(store, cfg.Cache.DefaultTTL)

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		userRepo := cached.NewUserRepository(repoFactory.UserRepository(), aside, cfg.Cache.DefaultTTL)
		chatRepo := cached.NewChatRepository(repoFactory.ChatRepository(), aside, cfg.Cache.DefaultTTL)

		log.Info(ctx, LogInitServices)
		serviceFactory, err := services.NewServiceFactory(
			store,
			cfg.Session.Secret,
			cfg.Session.TTL,
			cfg.Session.AcceptLegacy,
			cfg.Policy.RefreshInterval,
		)
		if err != nil {
			log.Error(ctx, ErrInitServices, zap.Error(err))
			_ = redisClient.Close()
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(
			userRepo,
			serviceFactory.PasswordService(),
			serviceFactory.SessionService(),
			serviceFactory.PolicyStore(),
			serviceFactory.LoginGuard(),
		)
		chatUseCase := app.NewChatUseCase(chatRepo)

		grpcServer := grpc.New(&cfg.GRPC,
			database.Ping,
			func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			_ = redisClient.Close()
			database.Close(ctx)
			exitCode = 1
			return
		}

		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpServer.SetupRouter(fiberApp, httpServer.RouterConfig{
			SecureCookie: cfg.HTTP.SecureCookie,
			AgentURL:     cfg.Agent.URL,
			AgentAPIKey:  cfg.Agent.APIKey,
			AgentBreaker: resilience.CircuitBreakerConfig{
				ErrorThreshold:   cfg.Agent.BreakerThreshold,
				Timeout:          cfg.Agent.BreakerTimeout,
				SuccessThreshold: cfg.Agent.BreakerProbes,
			},
		}, authUseCase, chatUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.Address()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.Address()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingGRPC)
				grpcServer.Stop(ctx)
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.ShutdownWithContext(ctx)
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
