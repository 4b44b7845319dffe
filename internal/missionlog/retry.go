package missionlog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Retry defaults: three attempts, waiting 1s then 2s between them.
const (
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// Retrying submits entries to a Sink in the background with bounded
// exponential backoff. Submit never blocks and never reports failure; an
// entry that exhausts its attempts is logged and dropped.
type Retrying struct {
	sink     Sink
	attempts int
	backoff  time.Duration
	logger   *zap.Logger

	wg sync.WaitGroup
}

// RetryOption configures Retrying.
type RetryOption func(*Retrying)

// WithAttempts bounds the number of Append calls per entry.
func WithAttempts(n int) RetryOption {
	return func(r *Retrying) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBackoff sets the first retry delay; each later delay doubles.
func WithBackoff(d time.Duration) RetryOption {
	return func(r *Retrying) {
		if d > 0 {
			r.backoff = d
		}
	}
}

// NewRetrying wraps sink.
func NewRetrying(sink Sink, logger *zap.Logger, opts ...RetryOption) *Retrying {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Retrying{
		sink:     sink,
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		logger:   logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Submit hands e to the background writer and returns immediately. The
// write is not cancelled by anything that happens afterwards.
func (r *Retrying) Submit(e Entry) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.deliver(e)
	}()
}

// Wait blocks until every submitted entry was written or dropped.
func (r *Retrying) Wait() { r.wg.Wait() }

// Backoff returns the retry schedule: attempts Append calls, the first wait
// being the configured backoff and each later one doubling.
func (r *Retrying) Backoff() wait.Backoff {
	return wait.Backoff{Duration: r.backoff, Factor: 2, Steps: r.attempts}
}

func (r *Retrying) deliver(e Entry) {
	log := r.logger.With(zap.String("entry", e.ID), zap.String("status", string(e.Status)))
	attempt := 0
	var lastErr error
	err := wait.ExponentialBackoff(r.Backoff(), func() (bool, error) {
		attempt++
		if err := r.sink.Append(context.Background(), e); err != nil {
			lastErr = err
			log.Debug("mission log retry", zap.Int("attempt", attempt), zap.Error(err))
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		log.Warn("mission log dropped", zap.Int("attempts", attempt), zap.Error(lastErr))
		return
	}
	log.Info("mission log written", zap.Int("attempt", attempt))
}
