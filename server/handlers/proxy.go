package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
	"github.com/Seann-Moser/latency-sampler/pkg/response"
	"github.com/Seann-Moser/latency-sampler/server/device"
)

// Proxy forwards requests to the application the target service sits in front of.
type Proxy struct {
	upstream *url.URL
	client   *http.Client
	resp     *response.Response
	timeout  time.Duration
}

func NewProxy(upstream string, timeout time.Duration, resp *response.Response) (*Proxy, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream %q needs a scheme and a host", upstream)
	}
	return &Proxy{
		upstream: u,
		client:   &http.Client{},
		resp:     resp,
		timeout:  timeout,
	}, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cancel := func() {}
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	defer cancel()

	u := url.URL{
		Scheme:   p.upstream.Scheme,
		User:     p.upstream.User,
		Host:     p.upstream.Host,
		Path:     strings.TrimSuffix(p.upstream.Path, "/") + r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
	ctxLogger.Debug(ctx, "forwarding to upstream", zap.String("endpoint", u.String()), zap.String("path", r.URL.Path))

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), r.Body)
	if err != nil {
		p.resp.Error(ctx, w, err, http.StatusInternalServerError, "failed creating proxy request")
		return
	}
	req.ContentLength = r.ContentLength
	req.Header = r.Header.Clone()
	if client := device.GetDeviceFromRequest(r).Address(); client != "" {
		req.Header.Set("X-Forwarded-For", client)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.resp.Error(ctx, w, err, http.StatusBadGateway, "failed sending proxy request")
		return
	}
	ctxLogger.Debug(ctx, "finished forwarding", zap.Int("status_code", resp.StatusCode))
	p.resp.Raw(ctx, w, resp)
}
