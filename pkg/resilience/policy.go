package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable is the degraded signal: the retry budget is exhausted
// or the breaker is open. Callers decide what the fallback looks like.
var ErrUnavailable = errors.New("service unavailable")

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks a business failure that must not be retried and must
// not trip the breaker.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

type Config struct {
	RecordLength     int           `envconfig:"CB_RECORD_LENGTH" default:"10"`
	Timeout          time.Duration `envconfig:"CB_TIMEOUT" default:"5s"`
	Percentile       float64       `envconfig:"CB_PERCENTILE" default:"0.5"`
	RecoveryRequests int           `envconfig:"CB_RECOVERY_REQUESTS" default:"3"`
	Attempts         int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	Backoff          time.Duration `envconfig:"RETRY_BACKOFF" default:"100ms"`
}

// Policy wraps a call with bounded retries behind a circuit breaker.
// Retries apply while the breaker is CLOSED or HALF_OPEN; an OPEN
// breaker short-circuits straight to ErrUnavailable.
type Policy struct {
	cb       *CircuitBreaker
	attempts int
	backoff  time.Duration
	log      *zap.Logger
}

func NewPolicy(cfg Config, log *zap.Logger) *Policy {
	return &Policy{
		cb:       NewCircuitBreaker(cfg.RecordLength, cfg.Timeout, cfg.Percentile, cfg.RecoveryRequests),
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
		log:      log.Named("resilience"),
	}
}

func (p *Policy) CB() *CircuitBreaker {
	return p.cb
}

func (p *Policy) Do(ctx context.Context, op func() error) error {
	var err error
	backoff := p.backoff
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		err = p.cb.Call(op)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrOpen) {
			return fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
		if IsPermanent(err) {
			return err
		}
		p.log.Warn("transient failure", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return fmt.Errorf("%w: retries exhausted: %s", ErrUnavailable, err)
}
