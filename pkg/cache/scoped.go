package cache

// ScopedKeyer wraps a Keyer with a prefix so separate corpora or deployments
// sharing one backend get isolated namespaces.
//
// Example usage:
//
//	// Per-corpus keys when several translations share a Redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "corpus:kjv:")
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

// PayloadKey generates a prefixed key for payload caching.
func (k *ScopedKeyer) PayloadKey(osis string) string {
	return k.prefix + k.inner.PayloadKey(osis)
}

// NegativeKey generates a prefixed key for negative caching.
func (k *ScopedKeyer) NegativeKey(osis string) string {
	return k.prefix + k.inner.NegativeKey(osis)
}
