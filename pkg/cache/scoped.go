package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments or
// users can share one Redis without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "pearls:v1:")
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

// CompositionKey generates a prefixed composition key.
func (k *ScopedKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return k.prefix + k.inner.CompositionKey(opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(compositionHash, opts)
}
