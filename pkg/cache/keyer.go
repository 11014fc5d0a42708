package cache

import "fmt"

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a fetched remote resource.
	HTTPKey(namespace, key string) string
	// ArtifactKey keys a rendered deck artifact.
	ArtifactKey(deckHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Theme  string  `json:"theme,omitempty"`
	Slide  int     `json:"slide"`
	Scale  float64 `json:"scale,omitempty"`
	Notes  bool    `json:"notes,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements [Keyer].
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(deckHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", deckHash, opts)
}
