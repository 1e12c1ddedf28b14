// Package config loads and validates the docweave build configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docweave/internal/errors"
)

// Config represents one build invocation. Unknown YAML keys are ignored.
type Config struct {
	// Source is the documentation source tree (required at build time).
	Source string `yaml:"source"`
	// Build is the output directory.
	Build string `yaml:"build"`
	// Assets is an optional directory copied verbatim into the output.
	Assets string `yaml:"assets"`
	// Clean removes the build directory before building.
	Clean bool `yaml:"clean"`
	// Format selects the output format; only "html" is recognized.
	Format string `yaml:"format"`
	// Runtime names the registered documented-language runtime.
	Runtime string `yaml:"runtime"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from a YAML file. A .env file alongside the
// process is loaded first so ${VAR} references in the YAML can resolve.
func Load(path string) (*Config, error) {
	// Not having a .env file is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.KindInvalidConfig, "reading config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, derrors.Wrap(err, derrors.KindInvalidConfig, "parsing config file %s", path)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Build == "" {
		c.Build = "site"
	}
	if c.Format == "" {
		c.Format = "html"
	}
	if c.Runtime == "" {
		c.Runtime = "mini"
	}
}

// Validate checks invariants that do not depend on the filesystem.
func (c *Config) Validate() error {
	if c.Format != "html" {
		return derrors.New(derrors.KindInvalidConfig,
			"unsupported output format %q (only \"html\" is supported)", c.Format)
	}
	if c.Runtime == "" {
		return derrors.New(derrors.KindInvalidConfig, "runtime must be set")
	}
	return nil
}

// String renders a short human-readable summary for logs.
func (c *Config) String() string {
	return fmt.Sprintf("source=%s build=%s runtime=%s format=%s clean=%v",
		c.Source, c.Build, c.Runtime, c.Format, c.Clean)
}
