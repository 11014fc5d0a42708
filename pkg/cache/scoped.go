package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so that one cache
// can be shared by several sessions without collisions.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) ArtifactKey(deckHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(deckHash, opts)
}
