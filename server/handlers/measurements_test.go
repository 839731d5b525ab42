package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seann-Moser/latency-sampler/pkg/clientpkg"
	"github.com/Seann-Moser/latency-sampler/pkg/response"
)

func TestMeasurements_RecordKeepsNewest(t *testing.T) {
	ms := NewMeasurements(response.NewResponse(false))
	ms.Record(Measurement{Client: "10.0.0.1", RequestID: "a", ReceivedAt: 200, OneWayDelayMs: 4})
	ms.Record(Measurement{Client: "10.0.0.1", RequestID: "old", ReceivedAt: 100, OneWayDelayMs: 9})
	ms.Record(Measurement{Client: "10.0.0.2", RequestID: "b", ReceivedAt: 150, OneWayDelayMs: 1})

	m, ok := ms.Get("10.0.0.1")
	require.True(t, ok)
	assert.Equal(t, "a", m.RequestID)

	ms.Record(Measurement{Client: "10.0.0.1", RequestID: "c", ReceivedAt: 300, OneWayDelayMs: 2})
	m, _ = ms.Get("10.0.0.1")
	assert.Equal(t, "c", m.RequestID)

	_, ok = ms.Get("10.0.0.3")
	assert.False(t, ok)
	assert.Len(t, ms.Snapshot(), 2)
}

func TestMeasurements_SnapshotIsACopy(t *testing.T) {
	ms := NewMeasurements(response.NewResponse(false))
	ms.Record(Measurement{Client: "10.0.0.1", ReceivedAt: 1})

	snap := ms.Snapshot()
	delete(snap, "10.0.0.1")

	_, ok := ms.Get("10.0.0.1")
	assert.True(t, ok)
}

func TestMeasurements_Endpoint(t *testing.T) {
	ms := NewMeasurements(response.NewResponse(false))
	ts := newTimestamp(nil).WithMeasurements(ms)

	req := httptest.NewRequest(http.MethodGet, "/?id=123", nil)
	req.RemoteAddr = "192.0.2.10:40000"
	req.Header.Set(clientpkg.TimestampHeader, strconv.FormatInt(1_700_000_000_230, 10))
	ts.ServeHTTP(httptest.NewRecorder(), req)

	e := ms.Endpoint()
	assert.Equal(t, "/measurements", e.URLPath)
	assert.Equal(t, []string{http.MethodGet}, e.GetMethods())

	rr := httptest.NewRecorder()
	e.HandlerFunc(rr, httptest.NewRequest(http.MethodGet, "/measurements", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Message string                 `json:"message"`
		Data    map[string]Measurement `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	m, ok := body.Data["192.0.2.10"]
	require.True(t, ok)
	assert.Equal(t, int64(1_700_000_000_230), m.SentAt)
	assert.Equal(t, int64(1_700_000_000_250), m.ReceivedAt)
	assert.Equal(t, int64(20), m.OneWayDelayMs)
}
