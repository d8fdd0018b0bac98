// Package claim tracks which candidate records have already been consumed.
package claim

// Option applies a configuration option to the in-memory registry.
type Option func(*inMemoryRegistry)

// WithCapacity pre-sizes the registry for the expected number of claims.
// Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(r *inMemoryRegistry) {
		if n > 0 {
			r.capacity = n
		}
	}
}
