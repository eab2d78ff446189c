package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	return verify(cfg, []byte(embeddedSchema))
}

func verify(cfg *Config, schemaData []byte) error {
	// parse schema
	var schema map[string]any
	if err := json.Unmarshal(schemaData, &schema); err != nil {
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

	defs, _ := schema["$defs"].(map[string]any)
	root := resolve(schema, defs)
	if err := checkObject(root, configMap, defs, ""); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// resolve follows a local "#/$defs/Name" reference, returns the node itself otherwise
func resolve(node, defs map[string]any) map[string]any {
	ref, ok := node["$ref"].(string)
	if !ok {
		return node
	}
	name := strings.TrimPrefix(ref, "#/$defs/")
	if def, ok := defs[name].(map[string]any); ok {
		return def
	}
	return node
}

// checkObject walks schema properties and enforces presence and numeric minimums
func checkObject(node, value, defs map[string]any, path string) error {
	props, _ := node["properties"].(map[string]any)
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		prop = resolve(prop, defs)
		field := name
		if path != "" {
			field = path + "." + name
		}
		v, present := value[name]
		if !present {
			return fmt.Errorf("%s is missing", field)
		}
		switch tv := v.(type) {
		case map[string]any:
			if err := checkObject(prop, tv, defs, field); err != nil {
				return err
			}
		case float64:
			if minimum, ok := prop["minimum"].(float64); ok && tv < minimum {
				return fmt.Errorf("%s must be at least %v", field, minimum)
			}
		}
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if cfg.Schedule.CacheTTL == 0 {
		return fmt.Errorf("schedule.cache_ttl is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
