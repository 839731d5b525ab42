package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/pkg/clientpkg"
	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
	"github.com/Seann-Moser/latency-sampler/pkg/response"
	"github.com/Seann-Moser/latency-sampler/server/device"
	"github.com/Seann-Moser/latency-sampler/server/endpoints"
)

type DelayObserver interface {
	ObserveOneWayDelay(ms float64)
}

type TimestampResponse struct {
	RequestID     string `json:"request_id"`
	ID            string `json:"id,omitempty"`
	ReceivedAt    int64  `json:"received_at"`
	SentAt        *int64 `json:"sent_at,omitempty"`
	OneWayDelayMs *int64 `json:"one_way_delay_ms,omitempty"`
}

// Timestamp answers sampler requests and records how long the request took to
// arrive according to its X-Timestamp header. With an upstream set the request
// is forwarded after being measured instead of answered locally.
type Timestamp struct {
	observer     DelayObserver
	measurements *Measurements
	upstream     http.Handler
	resp         *response.Response
	now          func() time.Time
}

func NewTimestamp(observer DelayObserver, resp *response.Response) *Timestamp {
	return &Timestamp{
		observer: observer,
		resp:     resp,
		now:      time.Now,
	}
}

func (t *Timestamp) WithMeasurements(m *Measurements) *Timestamp {
	t.measurements = m
	return t
}

func (t *Timestamp) WithUpstream(upstream http.Handler) *Timestamp {
	t.upstream = upstream
	return t
}

func (t *Timestamp) Endpoint() *endpoints.Endpoint {
	if t.upstream != nil {
		return &endpoints.Endpoint{
			URLPath: "/",
			Methods: []string{
				http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			HandlerFunc: t.ServeHTTP,
			PathPrefix:  true,
			Description: "measure, then forward to upstream",
		}
	}
	return &endpoints.Endpoint{
		URLPath:     "/",
		Methods:     []string{http.MethodGet},
		HandlerFunc: t.ServeHTTP,
		Description: "latency sampling target",
	}
}

func (t *Timestamp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receivedAt := t.now().UnixMilli()
	requestID := uuid.NewString()
	w.Header().Set(clientpkg.RequestIDHeader, requestID)

	out := TimestampResponse{
		RequestID:  requestID,
		ID:         r.URL.Query().Get("id"),
		ReceivedAt: receivedAt,
	}

	if raw := r.Header.Get(clientpkg.TimestampHeader); raw != "" {
		sentAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			t.resp.Error(ctx, w, fmt.Errorf("parsing %s %q: %w", clientpkg.TimestampHeader, raw, err), http.StatusBadRequest, "invalid timestamp header")
			return
		}
		delay := receivedAt - sentAt
		client := device.GetDeviceFromRequest(r).Address()
		out.SentAt = &sentAt
		out.OneWayDelayMs = &delay
		if t.observer != nil {
			t.observer.ObserveOneWayDelay(float64(delay))
		}
		if t.measurements != nil {
			t.measurements.Record(Measurement{
				Client:        client,
				RequestID:     requestID,
				SentAt:        sentAt,
				ReceivedAt:    receivedAt,
				OneWayDelayMs: delay,
			})
		}
		ctxLogger.Info(ctx, "timestamped request",
			zap.String("request_id", requestID),
			zap.String("client", client),
			zap.Int64("sent_at", sentAt),
			zap.Int64("one_way_delay_ms", delay),
		)
	}

	if t.upstream != nil {
		t.upstream.ServeHTTP(w, r)
		return
	}
	t.resp.Ok(ctx, w, out)
}
