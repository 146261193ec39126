package search

import "time"

// DefaultDebounce is the quiet period before a query is sent.
const DefaultDebounce = 300 * time.Millisecond

// DefaultRatingConcurrency bounds per-item rating lookups.
const DefaultRatingConcurrency = 4

// AfterFunc schedules f after d and returns a function that cancels it.
// The cancel function reports whether the call was prevented.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithAfterFunc replaces the timer implementation.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) {
		if f != nil {
			c.afterFunc = f
		}
	}
}

// WithRatingConcurrency sets how many per-item lookups may run at once.
func WithRatingConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithItemRatings toggles the per-item rating lookups after a search.
func WithItemRatings(enabled bool) Option {
	return func(c *Controller) {
		c.itemRatings = enabled
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
