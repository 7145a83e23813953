package grpc_control

import (
	"fmt"
	"net"
	"sync"

	"live-indices/src/logger"
	"live-indices/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// PollerService is the health service name tracking the poll lifecycle.
const PollerService = "live_indices.Poller"

// ControlService exposes the dashboard lifecycle over gRPC health checks.
// The overall server ("") is SERVING while listening; PollerService follows
// the poller: SERVING while running, NOT_SERVING while stopped.
type ControlService struct {
	Config *models.MConfig
	Logger *logger.Logger

	server *grpc.Server
	health *health.Server

	mu      sync.Mutex
	running bool
}

// NewControlService creates a new instance of ControlService
func NewControlService(cfg *models.MConfig, log *logger.Logger) *ControlService {
	s := &ControlService{
		Config: cfg,
		Logger: log,
		server: grpc.NewServer(),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(PollerService, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// -----------------------------------------------------------------------------

// Broadcast tracks the running flag of each view.
func (s *ControlService) Broadcast(view *models.MViewState) {
	if view == nil {
		return
	}
	s.SetRunning(view.Running)
}

// -----------------------------------------------------------------------------

// SetRunning updates PollerService. Repeated values are no-ops.
func (s *ControlService) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == running {
		return
	}
	s.running = running

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if running {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(PollerService, status)
	s.Logger.Debug("Poller health -> %s", status)
}

// -----------------------------------------------------------------------------

// Start listens on grpc_host:grpc_port and serves until Stop. It blocks.
func (s *ControlService) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// Serve runs the gRPC server on an existing listener.
func (s *ControlService) Serve(lis net.Listener) error {
	s.Logger.Info("gRPC control listening on %s", lis.Addr())
	return s.server.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Stop() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
