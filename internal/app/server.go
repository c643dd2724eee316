// Package app assembles the reading club server process: storage, the
// domain service, the gRPC endpoint with identity verification, and the
// outbox dispatch loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/hongyangchun/QQClub-sub003/internal/platform/config"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/identity"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/timeouts"
	"github.com/hongyangchun/QQClub-sub003/internal/service"
	"github.com/hongyangchun/QQClub-sub003/internal/storage"
	"github.com/hongyangchun/QQClub-sub003/internal/storage/sqlite"
)

// Config holds server process configuration.
type Config struct {
	Port            int           `env:"QQCLUB_PORT" envDefault:"8080"`
	Addr            string        `env:"QQCLUB_ADDR"`
	DBPath          string        `env:"QQCLUB_DB_PATH" envDefault:"data/qqclub.db"`
	OutboxInterval  time.Duration `env:"QQCLUB_OUTBOX_INTERVAL" envDefault:"30s"`
	MinCheckInWords int           `env:"QQCLUB_MIN_CHECKIN_WORDS"`
}

// LoadConfig reads server configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// listenAddr resolves the listen address, preferring Addr over Port.
func (c Config) listenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Registrar attaches transport bindings to the gRPC server.
type Registrar func(*grpc.Server, *service.Service)

// Option overrides a server dependency.
type Option func(*Server)

// WithDispatcher replaces the outbox dispatcher. The default logs each
// domain event and marks it delivered.
func WithDispatcher(dispatch service.Dispatcher) Option {
	return func(s *Server) {
		if dispatch != nil {
			s.dispatch = dispatch
		}
	}
}

// WithRegistrar registers additional gRPC services on the server.
func WithRegistrar(register Registrar) Option {
	return func(s *Server) {
		if register != nil {
			s.registrars = append(s.registrars, register)
		}
	}
}

// Server hosts the reading club service.
type Server struct {
	cfg        Config
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sqlite.Store
	svc        *service.Service
	dispatch   service.Dispatcher
	registrars []Registrar
}

// New creates a configured server listening on the configured address.
func New(ctx context.Context, cfg Config, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.listenAddr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.listenAddr(), err)
	}

	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	verifierCfg, err := identity.LoadVerifierConfigFromEnv(time.Now)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	var svcOpts []service.Option
	if cfg.MinCheckInWords > 0 {
		svcOpts = append(svcOpts, service.WithMinCheckInWords(cfg.MinCheckInWords))
	}
	svc := service.New(store, svcOpts...)

	srv := &Server{
		cfg:      cfg,
		listener: listener,
		store:    store,
		svc:      svc,
		dispatch: logDispatcher,
	}
	for _, opt := range opts {
		opt(srv)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			identity.UnaryServerInterceptor(verifierCfg),
			apperrors.UnaryServerInterceptor(),
		),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, register := range srv.registrars {
		register(grpcServer, svc)
	}

	srv.grpcServer = grpcServer
	srv.health = healthServer
	return srv, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Service returns the domain service hosted by this process.
func (s *Server) Service() *service.Service {
	return s.svc
}

// Run creates and serves a server until the context ends.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	srv, err := New(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the server and blocks until it stops or the context ends.
// The outbox dispatch loop runs alongside the gRPC listener and stops
// with it.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go s.dispatchLoop(loopCtx)

	log.Printf("server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		stopLoop()
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// dispatchLoop delivers pending outbox events on a fixed interval until
// the context ends.
func (s *Server) dispatchLoop(ctx context.Context) {
	interval := s.cfg.OutboxInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passCtx, cancel := context.WithTimeout(ctx, timeouts.OutboxDispatch)
			if _, err := s.svc.DispatchPending(passCtx, s.dispatch, 0); err != nil {
				log.Printf("event=outbox_pass_failed error=%q", err)
			}
			cancel()
		}
	}
}

// logDispatcher is the default delivery target when no notification
// collaborator is wired. It records the event and lets it be marked
// dispatched so the outbox does not grow without bound.
func logDispatcher(_ context.Context, rec storage.DomainEventRecord) error {
	log.Printf("event=domain_event type=%s event_id=%s subject=%s actor=%s", rec.Type, rec.EventID, rec.SubjectID, rec.ActorID)
	return nil
}

func openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	if path == "" {
		path = filepath.Join("data", "qqclub.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, timeouts.StorageOpen)
	defer cancel()
	store, err := sqlite.Open(openCtx, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}
