package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// decodeHCL parses an HCL config. Expressions can reference environment
// variables through the env object, e.g. jre_path = env.JAVA_HOME.
func decodeHCL(filename string, contents []byte, cfg *Config) error {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(contents, filename)
	if diags.HasErrors() {
		return fmt.Errorf("parse HCL: %w", diags)
	}

	evalContext := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environmentObject(os.Environ()),
		},
	}

	if diags = gohcl.DecodeBody(file.Body, evalContext, cfg); diags.HasErrors() {
		return fmt.Errorf("decode HCL: %w", diags)
	}

	return nil
}

// environmentObject converts KEY=VALUE pairs into a cty object.
func environmentObject(environ []string) cty.Value {
	attributes := make(map[string]cty.Value, len(environ))

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}

		attributes[key] = cty.StringVal(value)
	}

	if len(attributes) == 0 {
		return cty.EmptyObjectVal
	}

	return cty.ObjectVal(attributes)
}
