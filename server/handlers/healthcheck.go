package handlers

import (
	"net/http"

	"github.com/Seann-Moser/latency-sampler/server/endpoints"
)

var HealthCheck = endpoints.NewEndpoint("", "/health_check", func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}, http.MethodGet, http.MethodPost)
