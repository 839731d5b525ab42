package server

import (
	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/pkg/response"
	"github.com/Seann-Moser/latency-sampler/server/handlers"
	"github.com/Seann-Moser/latency-sampler/server/metrics"
	"github.com/Seann-Moser/latency-sampler/server/middle"
)

// AddTargetEndpoints registers everything the sampler measures against:
// health check, metrics, measurements and the timestamp route, which forwards
// to Upstream when one is configured.
func (s *Server) AddTargetEndpoints() (*metrics.Metrics, error) {
	m := metrics.New()
	resp := response.NewResponse(false)
	measurements := handlers.NewMeasurements(resp)
	timestamp := handlers.NewTimestamp(m, resp).WithMeasurements(measurements)
	if s.Upstream != "" {
		proxy, err := handlers.NewProxy(s.Upstream, s.UpstreamTimeout, resp)
		if err != nil {
			return nil, err
		}
		timestamp.WithUpstream(proxy)
		s.logger.Info("forwarding measured requests", zap.String("upstream", s.Upstream))
	}

	s.AddMiddleware(m.Middleware, middle.NewRequestLogger(true, s.logger).Middleware)
	err := s.AddEndpoints(
		handlers.HealthCheck,
		m.Endpoint(),
		measurements.Endpoint(),
		timestamp.Endpoint(),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
