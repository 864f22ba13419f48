package session

import "github.com/constrogen/procure"

// Option mutates Coordinator.
type Option func(*Coordinator)

// WithLogger overrides the logger used for failed transitions.
func WithLogger(logger procure.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithListener sets a callback invoked after every committed state
// transition, so consumers can observe state changes without polling.
func WithListener(listener func()) Option {
	return func(c *Coordinator) {
		c.listener = listener
	}
}
