package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output.
	ArtifactKey(opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	ConfigHash string  `json:"config"` // hash of the effective configuration
	Level      int     `json:"level"`
	Selected   bool    `json:"selected"`
	VizType    string  `json:"viz"`
	Format     string  `json:"format"`
	View       string  `json:"view,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	Title      string  `json:"title,omitempty"`
	Interact   bool    `json:"interact,omitempty"`
}

// DefaultKeyer hashes artifact options into "artifact:<format>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), opts)
}

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can
// share one Redis without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
