package skiplist

// Config holds the tunables shared by every variant. It is built with
// [NewConfig] and a chain of option functions, mirroring the
// functional-options shape the corpus uses elsewhere for data structure
// tunables.
type Config struct {
	maxLevel int
	p        float64
}

// Option configures a Config in place.
type Option func(*Config)

// NewConfig returns a Config carrying the spec defaults: MaxLevel=16,
// P=0.5.
func NewConfig(opts ...Option) Config {
	c := Config{maxLevel: MaxLevel, p: P}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMaxLevel overrides the maximum tower height. Values below 1 are
// clamped to 1.
func WithMaxLevel(maxLevel int) Option {
	return func(c *Config) {
		if maxLevel < 1 {
			maxLevel = 1
		}
		c.maxLevel = maxLevel
	}
}

// WithP overrides the geometric promotion probability. Values outside
// (0, 1) are clamped to the spec default of 0.5.
func WithP(p float64) Option {
	return func(c *Config) {
		if p <= 0 || p >= 1 {
			p = P
		}
		c.p = p
	}
}
