package ymlgen

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-ymlgen/pkg/render"
)

// BuiltinGenerators returns a registry holding the generators every
// installation has:
//
//	json  the merged data as indented JSON, keys in document order
//	yaml  the merged data as YAML, keys in document order
func BuiltinGenerators() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister("json", render.Callable(jsonGenerator))
	registry.MustRegister("yaml", render.Callable(yamlGenerator))
	return registry
}

func jsonGenerator(c *render.Context) error {
	raw, err := json.MarshalIndent(c.Data(), "", "  ")
	if err != nil {
		return err
	}
	return c.Write(string(raw) + "\n")
}

func yamlGenerator(c *render.Context) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Data()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return c.Write(buf.String())
}
