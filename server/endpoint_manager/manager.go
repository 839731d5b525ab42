package endpoint_manager

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/server/endpoints"
)

type Manager struct {
	router                  *mux.Router
	logger                  *zap.Logger
	extraAddEndpointProcess func(endpoint *endpoints.Endpoint) error
}

func NewManager(router *mux.Router, logger *zap.Logger) *Manager {
	return &Manager{
		router:                  router,
		logger:                  logger,
		extraAddEndpointProcess: nil,
	}
}

func (m *Manager) SetExtraFunc(v func(endpoint *endpoints.Endpoint) error) {
	m.extraAddEndpointProcess = v
}

// AddEndpoint registers the endpoint. Routes match in registration order, so
// prefix endpoints belong after the exact ones they would shadow.
func (m *Manager) AddEndpoint(endpoint *endpoints.Endpoint) error {
	var handler http.Handler
	switch {
	case endpoint.HandlerFunc != nil:
		handler = endpoint.HandlerFunc
	case endpoint.Handler != nil:
		handler = endpoint.Handler
	default:
		return fmt.Errorf("endpoint %s has no handler", endpoint.URLPath)
	}
	m.logger.Debug("adding handler",
		zap.String("path", endpoint.URLPath),
		zap.Bool("path_prefix", endpoint.PathPrefix),
		zap.Strings("methods", endpoint.GetMethods()))
	if endpoint.PathPrefix {
		m.router.PathPrefix(endpoint.URLPath).Handler(handler).Methods(endpoint.GetMethods()...)
	} else {
		m.router.Handle(endpoint.URLPath, handler).Methods(endpoint.GetMethods()...)
	}
	if m.extraAddEndpointProcess == nil {
		return nil
	}
	return m.extraAddEndpointProcess(endpoint)
}
