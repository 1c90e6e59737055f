package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Validate checks the effective configuration against the embedded JSON Schema
// and a few cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	// Round-trip through YAML then JSON so the validator sees the yaml keys
	// with JSON-native value types.
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("re-reading config: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Ooze.MinSize > c.Ooze.MaxSize {
		return fmt.Errorf("invalid config: ooze.min_size %d exceeds ooze.max_size %d", c.Ooze.MinSize, c.Ooze.MaxSize)
	}
	return nil
}
