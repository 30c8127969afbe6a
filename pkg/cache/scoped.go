package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share one
// Redis instance without colliding:
//
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

// ParseKey generates a prefixed key for parser output.
func (k *ScopedKeyer) ParseKey(parser, inputHash string) string {
	return k.prefix + k.inner.ParseKey(parser, inputHash)
}

// LayoutKey generates a prefixed key for layout output.
func (k *ScopedKeyer) LayoutKey(graphHash, name string, params map[string]any) string {
	return k.prefix + k.inner.LayoutKey(graphHash, name, params)
}

// CompareKey generates a prefixed key for comparison reports.
func (k *ScopedKeyer) CompareKey(firstHash, secondHash string, opts CompareKeyOpts) string {
	return k.prefix + k.inner.CompareKey(firstHash, secondHash, opts)
}
