package trustmark

import "log"

// Option configures a Handle at construction time, as a closure applied by
// Open. WithLogger is the only Option provided.
type Option func(*Handle)

// WithLogger overrides the *log.Logger diagnostic lines are written to.
// Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(h *Handle) {
		h.logger = l
	}
}
