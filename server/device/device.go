package device

import (
	"net"
	"net/http"
	"strings"
)

// Device describes the caller of a request as seen by the target service.
type Device struct {
	IPv4      []string `json:"ip_v4"`
	IPv6      []string `json:"ip_v6"`
	UserAgent string   `json:"user_agent"`
}

func GetDeviceFromRequest(r *http.Request) *Device {
	device := &Device{UserAgent: r.UserAgent()}
	device.loadIP(r)
	return device
}

// Address returns the first known address of the caller, preferring IPv4.
func (d *Device) Address() string {
	if len(d.IPv4) > 0 {
		return d.IPv4[0]
	}
	if len(d.IPv6) > 0 {
		return d.IPv6[0]
	}
	return ""
}

func (d *Device) loadIP(r *http.Request) {
	ipAddress := r.Header.Get("X-Real-Ip")
	if ipAddress == "" {
		ipAddress = r.Header.Get("X-Forwarded-For")
	}
	if ipAddress == "" {
		ipAddress = r.RemoteAddr
	}
	for _, ip := range strings.Split(ipAddress, ",") {
		ip = strings.TrimSpace(ip)
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		parsed := net.ParseIP(ip)
		switch {
		case parsed == nil:
			continue
		case parsed.To4() != nil:
			d.IPv4 = append(d.IPv4, ip)
		default:
			d.IPv6 = append(d.IPv6, ip)
		}
	}
}
