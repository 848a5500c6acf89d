package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mealcatalog/internal/model"
)

// FileSource reads a JSON or YAML fixture. The file may hold the listing
// envelope or a bare array of meals.
type FileSource struct {
	path string
}

// NewFileSource creates a source for a .json, .yaml or .yml file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchMeals reads and decodes the whole file on every call
func (s *FileSource) FetchMeals(ctx context.Context) ([]model.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read meal file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
		}
	}
	return DecodeMeals(data)
}

// yamlToJSON re-encodes a YAML document so meals go through the same
// lenient decoder as the HTTP listing.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
