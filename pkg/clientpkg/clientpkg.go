package clientpkg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPort = 8080

	TimestampHeader = "X-Timestamp"
	RequestIDHeader = "X-Request-Id"

	targetQuery = "id=123"
)

// Sample is a single timed round trip against the target.
type Sample struct {
	Iteration  int
	Timestamp  int64
	Latency    time.Duration
	StatusCode int
	RequestID  string
}

// Milliseconds returns the latency as fractional milliseconds.
func (s *Sample) Milliseconds() float64 {
	return float64(s.Latency) / float64(time.Millisecond)
}

type Client struct {
	endpoint *url.URL
	client   *http.Client
	now      func() time.Time
}

func Flags(prefix string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(prefix, pflag.ExitOnError)
	fs.Int(GetFlagWithPrefix("port", prefix), DefaultPort, "port of the sampled service")
	fs.Duration(GetFlagWithPrefix("timeout", prefix), 0, "per request timeout, 0 waits until the transport gives up")
	fs.Bool(GetFlagWithPrefix("keep-alive", prefix), false, "reuse the connection between requests")
	return fs
}

// TargetURL builds the sampled URL. The ip is inserted verbatim.
func TargetURL(ip string, port int) string {
	return fmt.Sprintf("http://%s:%d/?%s", ip, port, targetQuery)
}

func NewWithFlags(prefix, ip string) (*Client, error) {
	return New(
		TargetURL(ip, viper.GetInt(GetFlagWithPrefix("port", prefix))),
		NewHttpClient(
			viper.GetDuration(GetFlagWithPrefix("timeout", prefix)),
			viper.GetBool(GetFlagWithPrefix("keep-alive", prefix)),
		),
	)
}

// NewHttpClient returns a client that by default opens a fresh connection per
// request, so every sample includes connection setup.
func NewHttpClient(timeout time.Duration, keepAlive bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = !keepAlive
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func New(target string, client *http.Client) (*Client, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = NewHttpClient(0, false)
	}
	return &Client{
		endpoint: u,
		client:   client,
		now:      time.Now,
	}, nil
}

func (c *Client) URL() string {
	return c.endpoint.String()
}

// Sample issues one GET with a fresh X-Timestamp header and times it from just
// before the request is sent until the response headers arrive. The body is
// drained afterwards and never counted.
func (c *Client) Sample(ctx context.Context, iteration int) (*Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	timestamp := c.now().UnixMilli()
	req.Header.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &Sample{
		Iteration:  iteration,
		Timestamp:  timestamp,
		Latency:    elapsed,
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(RequestIDHeader),
	}, nil
}
