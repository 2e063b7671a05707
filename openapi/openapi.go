package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-yaml"
)

// Version is the OpenAPI version of documents built by apidoc.
const Version = "3.0.0"

// DocBase returns the map form of an empty document. Empty description is
// left out.
func DocBase(title, description, version string) map[string]any {
	info := map[string]any{
		"title":   title,
		"version": version,
	}
	if description != "" {
		info["description"] = description
	}
	return map[string]any{
		"openapi":    Version,
		"info":       info,
		"servers":    []any{},
		"paths":      map[string]any{},
		"components": map[string]any{},
		"security":   []any{},
		"tags":       []any{},
	}
}

// Decode converts the map form of a document into an [openapi3.T] and
// validates it.
func Decode(ctx context.Context, tree any) (*openapi3.T, error) {
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return Load(ctx, b)
}

// Load parses a JSON or YAML document, resolves its references and
// validates it.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks doc against the OpenAPI 3 rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}

// ReadFile loads and validates the document stored at path.
func ReadFile(ctx context.Context, path string) (*openapi3.T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Load(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadTree reads the document at path into its map form without
// validating it. Files ending in .yaml or .yml are read as YAML.
func ReadTree(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := Unmarshal(b, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Unmarshal decodes a JSON or YAML document into its map form.
func Unmarshal(data []byte, asYAML bool) (map[string]any, error) {
	if asYAML {
		j, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
		data = j
	}
	var tree map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// MarshalJSON encodes doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML encodes doc as YAML.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(b)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
