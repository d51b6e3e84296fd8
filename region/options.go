package region

import "go.uber.org/zap"

// Option configures a Region.
type Option func(*Region)

// WithUnit sets the number of bytes per addressing unit. Capacity and usage
// are counted in units. The default is 1.
func WithUnit(bytes uint64) Option {
	return func(r *Region) {
		r.unit = bytes
	}
}

// WithName sets the label used in logs and errors.
func WithName(name string) Option {
	return func(r *Region) {
		r.name = name
	}
}

// WithLogger overrides the package logger for one region.
func WithLogger(l *zap.Logger) Option {
	return func(r *Region) {
		r.logger = l
	}
}
