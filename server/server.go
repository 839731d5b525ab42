package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Seann-Moser/latency-sampler/server/endpoint_manager"
	"github.com/Seann-Moser/latency-sampler/server/endpoints"
	"github.com/Seann-Moser/latency-sampler/server/middle"
)

type Server struct {
	ServingPort     string        `yaml:"serving_port" json:"serving_port" env:"SERVING_PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	Upstream        string        `yaml:"upstream" json:"upstream" env:"UPSTREAM"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" json:"upstream_timeout" env:"UPSTREAM_TIMEOUT"`
	router          *mux.Router
	logger          *zap.Logger
	tracker         *middle.RequestTracker
	EndpointManager *endpoint_manager.Manager
}

func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	fs.String("port", "8080", "PORT")
	fs.Duration("shutdown-timeout", 5*time.Second, "SHUTDOWN_TIMEOUT")
	fs.String("upstream", "", "UPSTREAM: forward measured requests to this base URL")
	fs.Duration("upstream-timeout", 0, "UPSTREAM_TIMEOUT")
	return fs
}

func NewServerFromFlags(logger *zap.Logger) *Server {
	s := NewServer(viper.GetString("port"), logger)
	s.ShutdownTimeout = viper.GetDuration("shutdown-timeout")
	s.Upstream = viper.GetString("upstream")
	s.UpstreamTimeout = viper.GetDuration("upstream-timeout")
	return s
}

func NewServer(servingPort string, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	return &Server{
		ServingPort:     servingPort,
		ShutdownTimeout: 5 * time.Second,
		router:          router,
		logger:          logger,
		tracker:         middle.NewRequestTracker(),
		EndpointManager: endpoint_manager.NewManager(router, logger),
	}
}

func (s *Server) AddEndpoints(eps ...*endpoints.Endpoint) error {
	for _, e := range eps {
		if err := s.EndpointManager.AddEndpoint(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) AddMiddleware(middleware ...mux.MiddlewareFunc) {
	s.router.Use(middleware...)
}

func (s *Server) Handler() http.Handler {
	return s.tracker.TrackMiddleware(s.router)
}

func (s *Server) StartServer(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.ServingPort)
	if err != nil {
		return fmt.Errorf("listening on port %s: %w", s.ServingPort, err)
	}
	return s.Serve(ctx, ln)
}

// Serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests for at most ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server started", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server stopping")
		ctxShutDown, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()

		err := server.Shutdown(ctxShutDown)
		<-s.tracker.Done(ctxShutDown)
		if n := s.tracker.InFlight(); n > 0 {
			err = multierr.Append(err, fmt.Errorf("%d requests still in flight after shutdown", n))
		}
		if err != nil {
			s.logger.Error("server shutdown failed", zap.Error(err))
			return err
		}
		s.logger.Info("server exited properly")
		return nil
	})
	return g.Wait()
}
