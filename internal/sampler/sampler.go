package sampler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seann-Moser/latency-sampler/pkg/clientpkg"
	"github.com/Seann-Moser/latency-sampler/pkg/ctxLogger"
)

const OutputFormat = "Request %d - Network latency: %.2f milliseconds\n"

type Requester interface {
	Sample(ctx context.Context, iteration int) (*clientpkg.Sample, error)
	URL() string
}

type Sampler struct {
	args   Args
	client Requester
	out    io.Writer
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(args Args, client Requester, out io.Writer) *Sampler {
	return &Sampler{
		args:   args,
		client: client,
		out:    out,
		sleep:  sleepCtx,
	}
}

// Run performs TotalRequests sequential samples and writes one line per sample
// to out. The first failed request aborts the run. The interval pause also
// follows the last request.
func (s *Sampler) Run(ctx context.Context) error {
	runID := uuid.NewString()
	interval := s.args.IntervalDuration()
	ctxLogger.Info(ctx, "sampling started",
		zap.String("run_id", runID),
		zap.String("url", s.client.URL()),
		zap.Int("total_requests", s.args.TotalRequests),
		zap.Duration("interval", interval),
	)

	for i := 1; i <= s.args.TotalRequests; i++ {
		sample, err := s.client.Sample(ctx, i)
		if err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
		if _, err := fmt.Fprintf(s.out, OutputFormat, sample.Iteration, sample.Milliseconds()); err != nil {
			return err
		}
		ctxLogger.Debug(ctx, "sample",
			zap.String("run_id", runID),
			zap.Int("iteration", sample.Iteration),
			zap.Int64("timestamp", sample.Timestamp),
			zap.Int("status_code", sample.StatusCode),
			zap.String("request_id", sample.RequestID),
			zap.Duration("latency", sample.Latency),
		)

		if err := s.sleep(ctx, interval); err != nil {
			return err
		}
	}

	ctxLogger.Info(ctx, "sampling finished", zap.String("run_id", runID), zap.Int("requests", max(s.args.TotalRequests, 0)))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
