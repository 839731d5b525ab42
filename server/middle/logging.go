package middle

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/server/device"
)

type RequestLogger struct {
	logger        *zap.Logger
	LogDeviceInfo bool
}

func NewRequestLogger(logDevice bool, logger *zap.Logger) *RequestLogger {
	return &RequestLogger{
		logger:        logger,
		LogDeviceInfo: logDevice,
	}
}

func (m *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.LogDeviceInfo {
			deviceDetails := device.GetDeviceFromRequest(r)
			m.logger.Debug("device hit endpoint",
				zap.String("endpoint", r.URL.String()),
				zap.String("client", deviceDetails.Address()),
				zap.Strings("ipv4", deviceDetails.IPv4),
				zap.Strings("ipv6", deviceDetails.IPv6),
				zap.String("user-agent", deviceDetails.UserAgent),
			)
		} else {
			m.logger.Debug("hit endpoint",
				zap.String("endpoint", r.URL.String()))
		}

		next.ServeHTTP(w, r)
	})
}
