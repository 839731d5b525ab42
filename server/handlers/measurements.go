package handlers

import (
	"net/http"
	"sync"

	"github.com/Seann-Moser/latency-sampler/pkg/response"
	"github.com/Seann-Moser/latency-sampler/server/endpoints"
)

type Measurement struct {
	Client        string `json:"client"`
	RequestID     string `json:"request_id"`
	SentAt        int64  `json:"sent_at"`
	ReceivedAt    int64  `json:"received_at"`
	OneWayDelayMs int64  `json:"one_way_delay_ms"`
}

// Measurements keeps the most recent one-way delay seen from each caller.
type Measurements struct {
	mu   sync.RWMutex
	data map[string]Measurement
	resp *response.Response
}

func NewMeasurements(resp *response.Response) *Measurements {
	return &Measurements{
		data: make(map[string]Measurement),
		resp: resp,
	}
}

// Record stores m unless a newer measurement from the same caller is already held.
func (ms *Measurements) Record(m Measurement) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	existing, ok := ms.data[m.Client]
	if !ok || existing.ReceivedAt <= m.ReceivedAt {
		ms.data[m.Client] = m
	}
}

func (ms *Measurements) Get(client string) (Measurement, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	m, ok := ms.data[client]
	return m, ok
}

func (ms *Measurements) Snapshot() map[string]Measurement {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make(map[string]Measurement, len(ms.data))
	for k, v := range ms.data {
		out[k] = v
	}
	return out
}

func (ms *Measurements) Endpoint() *endpoints.Endpoint {
	return &endpoints.Endpoint{
		URLPath: "/measurements",
		Methods: []string{http.MethodGet},
		HandlerFunc: func(w http.ResponseWriter, r *http.Request) {
			ms.resp.Ok(r.Context(), w, ms.Snapshot())
		},
		Description: "latest one-way delay per caller",
	}
}
