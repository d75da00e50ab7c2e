// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package config

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the config file schema.
const SchemaID = "https://simplepassword.dev/schemas/config.schema.json"

// File is the on-disk shape of the config file. Every key is optional.
type File struct {
	SaltSize       int    `json:"salt_size,omitempty" jsonschema:"minimum=1,description=Salt length in bytes"`
	Algorithm      string `json:"algorithm,omitempty" jsonschema:"enum=sha512,enum=sha3-512,enum=blake2b-512,description=Digest algorithm for new hashes"`
	DatabaseURL    string `json:"database_url,omitempty" jsonschema:"description=PostgreSQL connection URL"`
	LogFormat      string `json:"log_format,omitempty" jsonschema:"enum=text,enum=json"`
	LogLevel       string `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=warning,enum=error"`
	ConnectRetries int    `json:"connect_retries,omitempty" jsonschema:"minimum=0"`
	ConnectBackoff string `json:"connect_backoff,omitempty" jsonschema:"pattern=^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$,description=Go duration such as 500ms"`
}

// GenerateSchema returns the JSON Schema of File.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&File{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "simplepassword configuration"
	schema.Description = "Schema for the simplepassword config.yaml file"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
	}
	return data, nil
}

var compiledSchema = sync.OnceValues(compileSchema)

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource(SchemaID, doc); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	sch, err := c.Compile(SchemaID)
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	return sch, nil
}

// ValidateFile checks YAML config data against the schema. Unknown keys and
// out-of-range values are reported with code CONFIG_SCHEMA_INVALID. An empty
// document is valid.
func ValidateFile(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").Wrapf(err, "invalid YAML")
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so numbers reach the validator as json.Number.
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").Wrapf(err, "config is not representable as JSON")
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").Wrap(err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").Wrapf(err, "config does not match schema")
	}
	return nil
}
