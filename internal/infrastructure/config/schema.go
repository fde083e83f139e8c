package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// SchemaFileName is written next to config.toml by WriteSchemaFile.
const SchemaFileName = "config.schema.json"

// GenerateSchema returns the JSON schema of the configuration file. Property
// names follow the TOML keys.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:   "toml",
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/dumbtile/config.schema.json"
	schema.Title = "dumbtile configuration"
	schema.Description = "Configuration schema for dumbtile, a tiling pane layout engine for terminal front ends"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteSchemaFile writes the schema into dir and returns its path.
func WriteSchemaFile(dir string) (string, error) {
	data, err := GenerateSchema()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create schema directory: %w", err)
	}
	path := filepath.Join(dir, SchemaFileName)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return path, nil
}
