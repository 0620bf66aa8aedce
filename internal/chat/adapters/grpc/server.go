// Package grpc предоставляет служебный gRPC сервер чат сервиса: проверку состояния и reflection.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gochat/internal/chat/config"
	"gochat/pkg/logger"
)

// ServiceName - имя сервиса в протоколе проверки состояния.
const ServiceName = "gochat.Chat"

// Константы для логирования.
const (
	LogServerStarting = "Starting gRPC server"
	LogServerStarted  = "gRPC server started"
	LogServerStopping = "Stopping gRPC server"
	LogServerStopped  = "gRPC server stopped"
	LogProbeFailed    = "dependency probe failed"
	LogStatusChanged  = "serving status changed"
	ErrServerStart    = "failed to start gRPC server"
)

const defaultProbePeriod = 10 * time.Second

// Probe проверяет доступность зависимости: базы данных или кэша.
type Probe func(ctx context.Context) error

// Server представляет gRPC сервер.
type Server struct {
	cfg      *config.GRPCConfig
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	probes   []Probe
	period   time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

// New создает сервер. Статус SERVING выставляется, когда все probes успешны.
func New(cfg *config.GRPCConfig, probes ...Probe) *Server {
	s := &Server{
		cfg:    cfg,
		server: grpc.NewServer(),
		health: health.NewServer(),
		probes: probes,
		period: defaultProbePeriod,
		done:   make(chan struct{}),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	return s
}

// WithProbePeriod задает интервал опроса зависимостей.
func (s *Server) WithProbePeriod(period time.Duration) *Server {
	if period > 0 {
		s.period = period
	}
	return s
}

// Start запускает gRPC сервер и фоновую проверку зависимостей.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}
	s.listener = listener

	s.refresh(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()
	go s.watch(ctx)

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
	return nil
}

// Addr возвращает фактический адрес после Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.GetAddress()
	}
	return s.listener.Addr().String()
}

// Stop переводит статус в NOT_SERVING и останавливает сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)

	log.Info(ctx, LogServerStopping)
	s.stopOnce.Do(func() { close(s.done) })
	s.health.Shutdown()
	s.server.GracefulStop()
	log.Info(ctx, LogServerStopped)
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for _, probe := range s.probes {
		if err := probe(ctx); err != nil {
			logger.Log(ctx).Warn(ctx, LogProbeFailed, zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			break
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	logger.Log(ctx).Debug(ctx, LogStatusChanged, zap.String("status", status.String()))
}
