package mock

const defaultListLength = 2

type config struct {
	listLength    int
	seed          *uint64
	introspection bool
}

func defaultConfig() config {
	return config{listLength: defaultListLength, introspection: true}
}

// Option configures a Server, NetworkInterface or Registry.
type Option func(*config)

// WithListLength sets the length of generated lists. Negative values are
// treated as zero.
func WithListLength(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.listLength = n
	}
}

// WithSeed makes built-in generators deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = &seed }
}

// WithIntrospection enables or disables __schema and __type.
func WithIntrospection(enabled bool) Option {
	return func(c *config) { c.introspection = enabled }
}
