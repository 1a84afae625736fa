package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key types reported to the cache hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeAnalysis = "analysis"
)

// configDigestLen is the number of hex digits of the config digest kept in
// layout keys.
const configDigestLen = 16

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash
	// under cfg. cfg is hashed through its JSON encoding.
	LayoutKey(graphHash string, cfg any) string

	// AnalysisKey identifies the topology analysis of a graph.
	AnalysisKey(graphHash string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<graphHash>:<config digest>", so every layout
// of one graph shares a prefix.
func (DefaultKeyer) LayoutKey(graphHash string, cfg any) string {
	data, _ := json.Marshal(cfg)
	return KeyTypeLayout + ":" + graphHash + ":" + digest(data)[:configDigestLen]
}

// AnalysisKey returns "analysis:<graphHash>".
func (DefaultKeyer) AnalysisKey(graphHash string) string {
	return KeyTypeAnalysis + ":" + graphHash
}

// LayoutKey builds a layout key with the [DefaultKeyer].
func LayoutKey(graphHash string, cfg any) string {
	return DefaultKeyer{}.LayoutKey(graphHash, cfg)
}

// digest returns the hex SHA-256 of data.
func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
