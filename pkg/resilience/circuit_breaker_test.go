package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/pkg/resilience"
)

var errBoom = errors.New("service error")

func failing() error    { return errBoom }
func successful() error { return nil }

func TestCircuitBreaker_opensOnFailurePercentile(t *testing.T) {
	cb := resilience.NewCircuitBreaker(10, time.Second, 0.5, 2)

	for i := 0; i < 4; i++ {
		require.ErrorIs(t, cb.Call(failing), errBoom)
		require.Equal(t, resilience.Closed, cb.State())
	}
	require.ErrorIs(t, cb.Call(failing), errBoom)
	require.Equal(t, resilience.Open, cb.State())

	// short-circuits without invoking the service
	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, resilience.ErrOpen)
	require.False(t, called)
}

func TestCircuitBreaker_halfOpenRecovery(t *testing.T) {
	cb := resilience.NewCircuitBreaker(4, 20*time.Millisecond, 0.5, 1)

	require.Error(t, cb.Call(failing))
	require.Error(t, cb.Call(failing))
	require.Equal(t, resilience.Open, cb.State())

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Call(successful))
	require.Equal(t, resilience.HalfOpen, cb.State())
	require.NoError(t, cb.Call(successful))
	require.Equal(t, resilience.Closed, cb.State())
}

func TestCircuitBreaker_halfOpenFailureReopens(t *testing.T) {
	cb := resilience.NewCircuitBreaker(4, 20*time.Millisecond, 0.5, 3)

	require.Error(t, cb.Call(failing))
	require.Error(t, cb.Call(failing))
	require.Equal(t, resilience.Open, cb.State())

	time.Sleep(30 * time.Millisecond)

	require.Error(t, cb.Call(failing))
	require.Equal(t, resilience.Open, cb.State())
	require.ErrorIs(t, cb.Call(successful), resilience.ErrOpen)
}

func TestCircuitBreaker_permanentErrorsDoNotTrip(t *testing.T) {
	cb := resilience.NewCircuitBreaker(4, time.Second, 0.5, 1)

	errNotFound := errors.New("not found")
	for i := 0; i < 10; i++ {
		err := cb.Call(func() error { return resilience.Permanent(errNotFound) })
		require.ErrorIs(t, err, errNotFound)
	}
	require.Equal(t, resilience.Closed, cb.State())
}

func TestPolicy_Do(t *testing.T) {
	log := zap.NewExample().Named("test")
	cfg := resilience.Config{
		RecordLength:     10,
		Timeout:          time.Second,
		Percentile:       0.9,
		RecoveryRequests: 1,
		Attempts:         3,
		Backoff:          time.Millisecond,
	}

	t.Run("retries transient failures then degrades", func(t *testing.T) {
		p := resilience.NewPolicy(cfg, log)
		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			return errBoom
		})
		require.ErrorIs(t, err, resilience.ErrUnavailable)
		require.Equal(t, 3, calls)
	})

	t.Run("succeeds after a transient failure", func(t *testing.T) {
		p := resilience.NewPolicy(cfg, log)
		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			if calls < 2 {
				return errBoom
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		p := resilience.NewPolicy(cfg, log)
		errNoStock := errors.New("no copies")
		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			return resilience.Permanent(errNoStock)
		})
		require.ErrorIs(t, err, errNoStock)
		require.Equal(t, 1, calls)
	})

	t.Run("open breaker short-circuits to degraded", func(t *testing.T) {
		openCfg := cfg
		openCfg.Percentile = 0.2
		p := resilience.NewPolicy(openCfg, log)
		for i := 0; i < 3; i++ {
			_ = p.Do(context.Background(), failing)
		}
		require.Equal(t, resilience.Open, p.CB().State())

		calls := 0
		err := p.Do(context.Background(), func() error {
			calls++
			return nil
		})
		require.ErrorIs(t, err, resilience.ErrUnavailable)
		require.Zero(t, calls)
	})
}
