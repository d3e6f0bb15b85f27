package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is bumped whenever the encoding of cached compositions or
// artifacts changes, so stale entries are never decoded.
const keyVersion = "v1"

// Keyer generates cache keys.
type Keyer interface {
	// CompositionKey identifies the grids generated from shape parameters.
	CompositionKey(opts CompositionKeyOpts) string

	// ArtifactKey identifies one rendered output of a composition.
	ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string
}

// CompositionKeyOpts holds the parameters that determine layer shapes.
type CompositionKeyOpts struct {
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Density float64 `json:"density"`
	Seed    uint64  `json:"seed"`
	Layers  int     `json:"layers"`
}

// ArtifactKeyOpts holds the parameters that affect a rendered output but
// not the underlying grids.
type ArtifactKeyOpts struct {
	Format         string   `json:"format"`
	VizType        string   `json:"viz_type"`
	Background     string   `json:"background"`
	Colors         []string `json:"colors"`
	StrokeWidth    float64  `json:"stroke_width"`
	MarginFraction float64  `json:"margin_fraction"`
	Size           float64  `json:"size"`
	Scale          float64  `json:"scale,omitempty"`
	Title          string   `json:"title,omitempty"`
	Detailed       bool     `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CompositionKey returns "composition:v1:<sha256>".
func (DefaultKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return hashKey("composition", opts)
}

// ArtifactKey returns "artifact:<format>:v1:<sha256>".
func (DefaultKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), compositionHash, opts)
}

var _ Keyer = DefaultKeyer{}

// hashKey returns prefix:version:sha256(json(parts)). Key option structs
// contain only plain fields, so encoding cannot fail.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + keyVersion + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
