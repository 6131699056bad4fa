package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ci:")
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

// FingerprintKey generates a prefixed fingerprint key.
func (k *ScopedKeyer) FingerprintKey(root, contentHash string, opts FingerprintKeyOpts) string {
	return k.prefix + k.inner.FingerprintKey(root, contentHash, opts)
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(root, manifestHash string) string {
	return k.prefix + k.inner.ManifestKey(root, manifestHash)
}
