package orion

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLockPoisoned is returned by every access to shared state after a critical
// section on that state panicked. The state might be half updated.
var ErrLockPoisoned = errors.New("lock poisoned")

// guarded is a value behind a mutex. A panic while the lock is held
// poisons the value instead of leaving it silently inconsistent.
type guarded[T any] struct {
	mu     sync.Mutex
	value  T
	poison any
}

func (g *guarded[T]) with(fn func(value *T)) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poison != nil {
		return fmt.Errorf("%w: %v", ErrLockPoisoned, g.poison)
	}

	defer func() {
		if r := recover(); r != nil {
			g.poison = r
			err = fmt.Errorf("%w: %v", ErrLockPoisoned, r)
		}
	}()

	fn(&g.value)

	return nil
}
