package sampler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Args are the three positional inputs of a sampling run.
type Args struct {
	TotalRequests int
	Interval      int
	ServiceIP     string
}

// ParseArgs validates <total_requests> <interval> <service_ip>. Zero or
// negative counts and intervals are accepted; the IP is not checked.
func ParseArgs(args []string) (Args, error) {
	if len(args) != 3 {
		return Args{}, fmt.Errorf("expected 3 arguments <total_requests> <interval> <service_ip>, got %d", len(args))
	}
	total, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return Args{}, fmt.Errorf("total_requests: %w", err)
	}
	interval, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return Args{}, fmt.Errorf("interval: %w", err)
	}
	return Args{
		TotalRequests: total,
		Interval:      interval,
		ServiceIP:     args[2],
	}, nil
}

const maxIntervalSeconds = int64(math.MaxInt64 / int64(time.Second))

// IntervalDuration is the pause after each request. Negative intervals pause
// for zero and intervals past the range of time.Duration are clamped to it.
func (a Args) IntervalDuration() time.Duration {
	if a.Interval <= 0 {
		return 0
	}
	if int64(a.Interval) > maxIntervalSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(a.Interval) * time.Second
}
