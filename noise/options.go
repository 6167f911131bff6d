package noise

import "time"

// Options configure random noise
type Options struct {
	seed *uint64
}

// Option is functional option
type Option func(*Options)

// WithSeed seeds the random source of the noise.
// Noise created without a seed is seeded from the current time.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.seed = &seed
	}
}

func newOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

func sourceSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}

	return uint64(time.Now().UnixNano())
}
