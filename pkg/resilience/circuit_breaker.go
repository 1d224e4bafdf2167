package resilience

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed   State = 1
	Open     State = 2
	HalfOpen State = 3
)

var ErrOpen = errors.New("circuit breaker is open")

// CircuitBreaker tracks the outcome of the last recordLength calls.
// CLOSED - calls pass through; OPEN - calls short-circuit; HALF_OPEN -
// calls pass through until one fails.
type CircuitBreaker struct {
	mu    sync.Mutex
	state State
	// length of the tracked tail of requests
	recordLength int
	// cooldown before an OPEN breaker lets a trial call through
	timeout time.Duration

	lastAttemptedAt time.Time
	// failure share that opens the breaker
	percentile float64
	// buffer holds the outcome of each tracked request
	buffer []bool
	// pos advances per request, wraps to 0
	pos int
	// consecutive successes required to close from HALF_OPEN
	recoveryRequests int
	successCount     int
}

func NewCircuitBreaker(recordLength int, timeout time.Duration, percentile float64, recoveryRequests int) *CircuitBreaker {
	return &CircuitBreaker{
		state:            Closed,
		recordLength:     recordLength,
		timeout:          timeout,
		percentile:       percentile,
		buffer:           make([]bool, recordLength),
		recoveryRequests: recoveryRequests,
	}
}

// Call runs service unless the breaker is OPEN. Errors marked
// Permanent count as reachable outcomes and do not trip the breaker.
func (cb *CircuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if elapsed := time.Since(cb.lastAttemptedAt); elapsed > cb.timeout {
			cb.state = HalfOpen
			cb.successCount = 0
		} else {
			cb.mu.Unlock()
			return ErrOpen
		}
	}
	cb.mu.Unlock()

	err := service()
	failed := err != nil && !IsPermanent(err)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.buffer[cb.pos] = failed
	cb.pos = (cb.pos + 1) % cb.recordLength

	if cb.state == HalfOpen {
		if failed {
			cb.successCount = 0
			cb.state = Open
			cb.lastAttemptedAt = time.Now()
		} else {
			cb.successCount++
			if cb.successCount > cb.recoveryRequests {
				cb.reset()
			}
		}
		return err
	}

	// only CLOSED
	fails := 0
	for _, f := range cb.buffer {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(cb.recordLength) >= cb.percentile {
		cb.state = Open
		cb.successCount = 0
		cb.lastAttemptedAt = time.Now()
	}

	return err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *CircuitBreaker) reset() {
	for i := range cb.buffer {
		cb.buffer[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
