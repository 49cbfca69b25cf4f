// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// Format is an input file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf infers the encoding from a file extension. Anything that is not
// .json is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// IsInputFile reports whether path has an extension the CLI accepts.
func IsInputFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile reads a document request from path.
func LoadFile(path string) (types.DocumentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DocumentConfig{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	cfg, err := Decode(data, FormatOf(path))
	if err != nil {
		return types.DocumentConfig{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode parses a document request. Unknown fields are rejected, inside
// references as well, so that typos surface instead of silently dropping
// content.
func Decode(data []byte, f Format) (types.DocumentConfig, error) {
	var cfg types.DocumentConfig
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
		var raw struct {
			References json.RawMessage `json:"references"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, err
		}
		if len(raw.References) > 0 && string(raw.References) != "null" {
			refs, err := types.ReadReferencesJSON(raw.References, true)
			if err != nil {
				return cfg, err
			}
			cfg.References = refs
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return cfg, err
		}
		if node := mappingValue(&root, "references"); node != nil && node.Kind == yaml.SequenceNode {
			refs, err := types.ReadReferencesYAML(node, true)
			if err != nil {
				return cfg, err
			}
			cfg.References = refs
		}
	}
	return cfg, nil
}

// mappingValue returns the value node for key in the top-level mapping of
// doc, or nil.
func mappingValue(doc *yaml.Node, key string) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Encode renders cfg in format f.
func Encode(cfg types.DocumentConfig, f Format) ([]byte, error) {
	if f == FormatJSON {
		return json.MarshalIndent(cfg, "", "  ")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
