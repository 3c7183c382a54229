package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Load loads a configuration file from the given path. The format is
// determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .downclean will try both YAML and HCL formats
// A missing file is not an error: the zero config plus defaults is used.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("no config file, using defaults")
			cfg := &Config{}
			if err := cfg.Validate(); err != nil {
				return nil, errors.Errorf("validating default config: %w", err)
			}
			return cfg, nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	// For .downclean files, try both YAML and HCL
	if ext == ".downclean" || filepath.Base(path) == ".downclean" {
		cfg, err = loadYAML(data)
		if err != nil {
			cfg, err = loadHCL(data, path)
		}
		if err != nil {
			return nil, errors.Errorf("parsing %s as YAML or HCL: %w", path, err)
		}
	} else {
		switch ext {
		case ".json":
			cfg, err = loadJSON(data)
		case ".yaml", ".yml":
			cfg, err = loadYAML(data)
		case ".hcl":
			cfg, err = loadHCL(data, path)
		default:
			return nil, errors.Errorf("unsupported config extension %q", ext)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Str("run", cfg.String()).Msg("loaded configuration")
	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
