package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the breaker state.
type State int

const (
	StateClosed   State = iota // normal operation
	StateOpen                  // failing, reject calls
	StateHalfOpen              // probing whether the collaborator recovered
)

// ErrOpen is returned while the breaker rejects calls. Callers treat it the
// same as a collaborator failure: the signal degrades to empty.
var ErrOpen = errors.New("collaborator circuit open")

// Breaker guards one collaborator dependency with a consecutive-failure
// circuit. Transitions: Closed → Open after threshold consecutive failures;
// Open → HalfOpen once cooldown expires; HalfOpen → Closed on success,
// back to Open on failure.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// NewBreaker creates a breaker for the named collaborator.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		state:     StateClosed,
	}
}

// Name returns the collaborator name, for log lines.
func (b *Breaker) Name() string { return b.name }

// Do runs fn through the breaker, returning ErrOpen without calling fn
// while the circuit is open and the cooldown has not elapsed.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Since(b.openedAt) <= b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = StateHalfOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.failures >= b.threshold || b.state == StateHalfOpen {
			b.state = StateOpen
			b.openedAt = time.Now()
		}
		return err
	}
	b.failures = 0
	b.state = StateClosed
	return nil
}

// CurrentState reports the breaker state.
func (b *Breaker) CurrentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
