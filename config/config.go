package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/model"
)

// Config represents the complete configuration.
type Config struct {
	TypeMappings map[string]string `yaml:"typeMappings" json:"typeMappings" toml:"typeMappings"`
	// Ignore lists members to leave out: bare names or Class$member.
	Ignore []string `yaml:"ignore" json:"ignore" toml:"ignore"`
	// Replace overrides parameter types, keyed by Class$method$param.
	Replace           map[string]string `yaml:"replace" json:"replace" toml:"replace"`
	AbstractSentinels []string          `yaml:"abstractSentinels" json:"abstractSentinels" toml:"abstractSentinels"`
	// Externs are names that resolve without a declaration; a trailing .*
	// covers a whole namespace.
	Externs       []string `yaml:"externs" json:"externs" toml:"externs"`
	SkipOverrides *bool    `yaml:"skipOverrides" json:"skipOverrides" toml:"skipOverrides"`
	SkipPrivate   *bool    `yaml:"skipPrivate" json:"skipPrivate" toml:"skipPrivate"`
	Target        Target   `yaml:"target" json:"target" toml:"target"`
	Output        Output   `yaml:"output" json:"output" toml:"output"`
	// Jobs bounds the number of files scanned concurrently; 0 means one
	// per CPU.
	Jobs int `yaml:"jobs" json:"jobs" toml:"jobs"`
}

// Target holds the Java side of the type mapping.
type Target struct {
	OpaqueType      string `yaml:"opaqueType" json:"opaqueType" toml:"opaqueType"`
	FunctionPackage string `yaml:"functionPackage" json:"functionPackage" toml:"functionPackage"`
	BindThis        *bool  `yaml:"bindThis" json:"bindThis" toml:"bindThis"`
}

type Output struct {
	Dir    string `yaml:"dir" json:"dir" toml:"dir"`
	Format string `yaml:"format" json:"format" toml:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		TypeMappings:      DefaultTypeMappings(),
		Replace:           make(map[string]string),
		Ignore:            defaultIgnore(),
		AbstractSentinels: defaultSentinels(),
		Externs:           DefaultExterns(),
		SkipOverrides:     boolPtr(true),
		SkipPrivate:       boolPtr(true),
		Target:            DefaultTarget(),
		Output:            DefaultOutput(),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func isSet(b *bool) bool {
	return b != nil && *b
}

// Load returns the defaults merged with the file at path. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	c := New()
	if path == "" {
		return c, nil
	}
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads configuration from a file, decoding it as YAML, TOML or
// JSON by extension, and merges it over c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	var loaded Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return errors.WithHint(errors.Wrapf(err, "parsing YAML config %s", path),
				"keys are camelCase, e.g. typeMappings or abstractSentinels")
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &loaded); err != nil {
			return errors.WithHint(errors.Wrapf(err, "parsing TOML config %s", path),
				"target and output settings go in [target] and [output] tables")
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&loaded); err != nil {
			return errors.Wrapf(err, "parsing JSON config %s", path)
		}
	default:
		return errors.WithHintf(errors.Newf("unsupported config format %q", ext),
			"name the file with a .yaml, .yml, .toml or .json extension")
	}

	c.merge(&loaded)
	return c.Validate()
}

// merge merges the loaded config into the current config. Maps merge key
// by key; lists and scalars replace the default when present.
func (c *Config) merge(loaded *Config) {
	for k, v := range loaded.TypeMappings {
		c.TypeMappings[k] = v
	}
	for k, v := range loaded.Replace {
		c.Replace[k] = v
	}
	if loaded.Ignore != nil {
		c.Ignore = loaded.Ignore
	}
	if loaded.AbstractSentinels != nil {
		c.AbstractSentinels = loaded.AbstractSentinels
	}
	if loaded.Externs != nil {
		c.Externs = append(c.Externs, loaded.Externs...)
	}
	if loaded.SkipOverrides != nil {
		c.SkipOverrides = loaded.SkipOverrides
	}
	if loaded.SkipPrivate != nil {
		c.SkipPrivate = loaded.SkipPrivate
	}
	if loaded.Target.OpaqueType != "" {
		c.Target.OpaqueType = loaded.Target.OpaqueType
	}
	if loaded.Target.FunctionPackage != "" {
		c.Target.FunctionPackage = loaded.Target.FunctionPackage
	}
	if loaded.Target.BindThis != nil {
		c.Target.BindThis = loaded.Target.BindThis
	}
	if loaded.Output.Dir != "" {
		c.Output.Dir = loaded.Output.Dir
	}
	if loaded.Output.Format != "" {
		c.Output.Format = loaded.Output.Format
	}
	if loaded.Jobs != 0 {
		c.Jobs = loaded.Jobs
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return errors.WithHint(errors.Newf("jobs must not be negative, got %d", c.Jobs),
			"use 0 to scan with one job per CPU")
	}
	for key := range c.Replace {
		if strings.Count(key, "$") != 2 {
			return errors.WithHintf(errors.Newf("malformed replace key %q", key),
				"replace keys have the form Class$method$param, e.g. %s", "Map$set$value")
		}
	}
	for _, name := range c.Ignore {
		if strings.Count(name, "$") > 1 {
			return errors.WithHint(errors.Newf("malformed ignore entry %q", name),
				"ignore entries are member names or Class$member pairs")
		}
	}
	return nil
}

// Concurrency returns the effective number of scan jobs.
func (c *Config) Concurrency() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

// BuilderOptions returns the model builder settings of c.
func (c *Config) BuilderOptions() []model.Option {
	return []model.Option{
		model.WithAbstractSentinels(c.AbstractSentinels...),
		model.WithIgnore(c.Ignore...),
		model.WithKnownNames(c.Externs...),
		model.WithSkipOverrides(isSet(c.SkipOverrides)),
		model.WithSkipPrivate(isSet(c.SkipPrivate)),
	}
}

// MapperOptions returns the type mapper settings of c.
func (c *Config) MapperOptions() []java.MapperOption {
	return []java.MapperOption{
		java.WithTypeMappings(c.TypeMappings),
		java.WithOpaqueType(c.Target.OpaqueType),
		java.WithFunctionPackage(c.Target.FunctionPackage),
		java.WithBindThis(isSet(c.Target.BindThis)),
	}
}

// ModelOptions returns the class model conversion settings of c.
func (c *Config) ModelOptions() []java.ModelOption {
	return []java.ModelOption{java.WithReplacements(c.Replace)}
}
