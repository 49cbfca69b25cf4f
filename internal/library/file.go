// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// referencesFile is the wrapped form of an import file. A bare list of
// references is accepted as well.
type referencesFile struct {
	References types.ReferenceList `json:"references" yaml:"references"`
}

// ReadFile loads references from a YAML or JSON file.
func ReadFile(path string) (types.ReferenceList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	refs, err := parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return refs, nil
}

func parse(data []byte, isJSON bool) (types.ReferenceList, error) {
	if isJSON {
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			var refs types.ReferenceList
			err := json.Unmarshal(data, &refs)
			return refs, err
		}
		var f referencesFile
		err := json.Unmarshal(data, &f)
		return f.References, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var refs types.ReferenceList
		err := root.Decode(&refs)
		return refs, err
	}
	var f referencesFile
	err := root.Decode(&f)
	return f.References, err
}

// WriteYAML writes refs to w as a wrapped YAML references file that ReadFile
// accepts.
func WriteYAML(w io.Writer, refs []types.Reference) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(referencesFile{References: refs}); err != nil {
		return fmt.Errorf("encoding references: %w", err)
	}
	return enc.Close()
}
