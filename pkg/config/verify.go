package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every top-level key of the config must be declared by the schema
	if err := checkDeclaredSections(schema, configMap); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// checkDeclaredSections makes sure the schema knows about every section of the config.
// The schema produced by jsonschema.Reflect keeps the struct under $defs/Config.
func checkDeclaredSections(schema, configMap map[string]any) error {
	defs, _ := schema["$defs"].(map[string]any)
	root, _ := defs["Config"].(map[string]any)
	props, _ := root["properties"].(map[string]any)
	if props == nil {
		return fmt.Errorf("schema has no config properties")
	}
	for key := range configMap {
		if _, ok := props[key]; !ok {
			return fmt.Errorf("section %q is not declared in schema", key)
		}
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if len(cfg.Themes) == 0 {
		return fmt.Errorf("at least one theme is required")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout == 0 {
		return fmt.Errorf("extraction.timeout is required when extraction is enabled")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
