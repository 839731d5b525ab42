package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seann-Moser/latency-sampler/pkg/clientpkg"
	"github.com/Seann-Moser/latency-sampler/pkg/response"
)

type recordingObserver struct {
	delays []float64
}

func (r *recordingObserver) ObserveOneWayDelay(ms float64) {
	r.delays = append(r.delays, ms)
}

type timestampBody struct {
	Message string            `json:"message"`
	Data    TimestampResponse `json:"data"`
}

func newTimestamp(observer DelayObserver) *Timestamp {
	ts := NewTimestamp(observer, response.NewResponse(false))
	ts.now = func() time.Time { return time.UnixMilli(1_700_000_000_250) }
	return ts
}

func TestHealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthCheck.HandlerFunc(rr, httptest.NewRequest(http.MethodGet, "/health_check", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestTimestamp_WithHeader(t *testing.T) {
	observer := &recordingObserver{}
	req := httptest.NewRequest(http.MethodGet, "/?id=123", nil)
	req.Header.Set(clientpkg.TimestampHeader, strconv.FormatInt(1_700_000_000_200, 10))
	rr := httptest.NewRecorder()

	newTimestamp(observer).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body timestampBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Message)
	assert.Equal(t, "123", body.Data.ID)
	assert.Equal(t, int64(1_700_000_000_250), body.Data.ReceivedAt)
	require.NotNil(t, body.Data.OneWayDelayMs)
	assert.Equal(t, int64(50), *body.Data.OneWayDelayMs)
	assert.Equal(t, []float64{50}, observer.delays)
	assert.NotEmpty(t, body.Data.RequestID)
	assert.Equal(t, body.Data.RequestID, rr.Header().Get(clientpkg.RequestIDHeader))
}

func TestTimestamp_WithoutHeader(t *testing.T) {
	observer := &recordingObserver{}
	rr := httptest.NewRecorder()

	newTimestamp(observer).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?id=123", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body timestampBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Nil(t, body.Data.OneWayDelayMs)
	assert.Nil(t, body.Data.SentAt)
	assert.Empty(t, observer.delays)
}

func TestTimestamp_InvalidHeader(t *testing.T) {
	observer := &recordingObserver{}
	req := httptest.NewRequest(http.MethodGet, "/?id=123", nil)
	req.Header.Set(clientpkg.TimestampHeader, "yesterday")
	rr := httptest.NewRecorder()

	newTimestamp(observer).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid timestamp header")
	assert.Empty(t, observer.delays)
}

func TestTimestamp_Endpoint(t *testing.T) {
	e := newTimestamp(nil).Endpoint()
	assert.Equal(t, "/", e.URLPath)
	assert.Equal(t, []string{http.MethodGet}, e.GetMethods())
	assert.NotNil(t, e.HandlerFunc)
}
