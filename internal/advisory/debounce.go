package advisory

import (
	"context"
	"log"
	"sync"
	"time"
)

// Fields is the watched field set of a dialog; Valid reports whether all
// required fields are present and well formed.
type Fields interface {
	Valid() bool
}

// Checker debounces field changes and dispatches at most one advisory
// request per quiet window. Every dispatch is stamped with a generation;
// a response is applied only while its generation is still the latest, so
// a slow response for stale input can never overwrite the advisory for
// newer input.
type Checker struct {
	window  time.Duration
	timeout time.Duration

	dispatch func(ctx context.Context, f Fields) (interface{}, error)
	apply    func(result interface{})

	mu      sync.Mutex
	timer   *time.Timer
	pending Fields
	gen     uint64
	closed  bool
}

func NewChecker(window, timeout time.Duration,
	dispatch func(ctx context.Context, f Fields) (interface{}, error),
	apply func(result interface{})) *Checker {

	return &Checker{
		window:   window,
		timeout:  timeout,
		dispatch: dispatch,
		apply:    apply,
	}
}

// Update records a field change. Valid fields (re)arm the debounce timer;
// invalid fields cancel any pending dispatch instead, since the watched
// set is no longer complete.
func (c *Checker) Update(f Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !f.Valid() {
		c.pending = nil
		return
	}
	c.pending = f
	c.timer = time.AfterFunc(c.window, c.fire)
}

func (c *Checker) fire() {
	c.mu.Lock()
	if c.closed || c.pending == nil {
		c.mu.Unlock()
		return
	}
	f := c.pending
	c.pending = nil
	c.timer = nil
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		res, err := c.dispatch(ctx, f)
		if err != nil {
			// a failed check is "no anomaly found", never a user-facing error
			log.Println("advisory check failed:", err)
			res = nil
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.gen {
			// the dialog closed or a newer request was dispatched
			return
		}
		c.apply(res)
	}()
}

// Close cancels the pending timer and suppresses any late response. Safe
// to call more than once.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
