package cache

import "github.com/matzehuels/molline/pkg/line"

// ScopedKeyer wraps a Keyer with a prefix for isolation between tenants or
// deployments sharing one Redis instance.
//
// Example usage:
//
//	// Keys of the staging service
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LineKey generates a prefixed key for serialized text.
func (k *ScopedKeyer) LineKey(graphHash string, opts line.Options) string {
	return k.prefix + k.inner.LineKey(graphHash, opts)
}
