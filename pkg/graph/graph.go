package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Formats
// =============================================================================

// Format is a flowchart file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension. Anything other than
// .yaml or .yml is read as JSON, the editor's export format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Decoding
// =============================================================================

// Decode reads one flowchart from r.
func Decode(r io.Reader, f Format) (*Graph, error) {
	var g Graph
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&g)
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(&g)
	default:
		return nil, fmt.Errorf("unsupported graph format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s graph: %w", f, err)
	}
	return &g, nil
}

// Load reads a flowchart file, choosing the format by extension.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatForPath(path))
}

// =============================================================================
// Encoding
// =============================================================================

// Encode writes g to w. JSON output is indented two spaces.
func Encode(w io.Writer, g *Graph, f Format) error {
	var err error
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(g); err == nil {
			err = enc.Close()
		}
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(g)
	default:
		return fmt.Errorf("unsupported graph format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s graph: %w", f, err)
	}
	return nil
}
