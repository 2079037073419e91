package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"gopkg.in/yaml.v3"
)

// Load reads a seed document from path. JSON files use the backup layout;
// YAML files use the same keys.
func Load(path string) (*snapshot.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return snapshot.Decode(raw)
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

// DecodeYAML converts a YAML seed into a Document by way of its JSON form, so
// both formats share the JSON field names and amount parsing.
func DecodeYAML(raw []byte) (*snapshot.Document, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode yaml seed: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("yaml seed is empty")
	}
	asJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("convert yaml seed: %w", err)
	}
	return snapshot.Decode(asJSON)
}

// EncodeYAML renders doc with the same keys Load reads back.
func EncodeYAML(doc *snapshot.Document) ([]byte, error) {
	asJSON, err := snapshot.Encode(doc)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(asJSON, &tree); err != nil {
		return nil, fmt.Errorf("convert seed: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode yaml seed: %w", err)
	}
	return out, nil
}
