// Package config holds recipegen's run configuration.
//
// Values are resolved in order of increasing precedence: built-in defaults,
// a TOML file, environment variables (optionally seeded from a .env file),
// and finally command-line flags, which the CLI applies on top.
//
// A complete file looks like:
//
//	[scan]
//	markers = ["$PIP_INSTALL"]
//	separators = ["&&"]
//
//	[fetch]
//	url_template = "https://raw.githubusercontent.com/conda-forge/{name}-feedstock/master/recipe/meta.yaml"
//	timeout = "0s"
//	normalize_names = false
//
//	[normalize]
//	brace_mode = "line"
//
//	[output]
//	root = "recipes"
package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/recipegen/pkg/errors"
)

// Brace collapsing modes accepted in [NormalizeConfig.BraceMode].
const (
	BraceModeLine     = "line"
	BraceModeDocument = "document"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvOutputRoot     = "RECIPEGEN_OUT"
	EnvURLTemplate    = "RECIPEGEN_URL"
	EnvHTTPTimeout    = "RECIPEGEN_HTTP_TIMEOUT"
	EnvBraceMode      = "RECIPEGEN_BRACE_MODE"
	EnvNormalizeNames = "RECIPEGEN_NORMALIZE_NAMES"
)

// Config holds all recipegen configuration.
type Config struct {
	Scan      ScanConfig      `toml:"scan"`
	Fetch     FetchConfig     `toml:"fetch"`
	Normalize NormalizeConfig `toml:"normalize"`
	Output    OutputConfig    `toml:"output"`
}

// ScanConfig configures install-section detection in build files.
type ScanConfig struct {
	Markers    []string `toml:"markers"`
	Separators []string `toml:"separators"`
}

// FetchConfig configures metadata downloads.
type FetchConfig struct {
	URLTemplate    string `toml:"url_template"` // must contain {name}
	Timeout        string `toml:"timeout"`      // "0s" keeps transport defaults
	NormalizeNames bool   `toml:"normalize_names"`
}

// NormalizeConfig configures templating neutralization.
type NormalizeConfig struct {
	BraceMode string `toml:"brace_mode"` // line, document
}

// OutputConfig configures where fragment files go.
type OutputConfig struct {
	Root string `toml:"root"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Markers:    []string{"$PIP_INSTALL"},
			Separators: []string{"&&"},
		},
		Fetch: FetchConfig{
			URLTemplate: "https://raw.githubusercontent.com/conda-forge/{name}-feedstock/master/recipe/meta.yaml",
			Timeout:     "0s",
		},
		Normalize: NormalizeConfig{
			BraceMode: BraceModeLine,
		},
		Output: OutputConfig{
			Root: "recipes",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path.
// An empty path returns the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", p)
		}
	}
	return nil
}

// ApplyEnv overrides fields from RECIPEGEN_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvOutputRoot); v != "" {
		c.Output.Root = v
	}
	if v := os.Getenv(EnvURLTemplate); v != "" {
		c.Fetch.URLTemplate = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		c.Fetch.Timeout = v
	}
	if v := os.Getenv(EnvBraceMode); v != "" {
		c.Normalize.BraceMode = v
	}
	if v := os.Getenv(EnvNormalizeNames); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvNormalizeNames)
		}
		c.Fetch.NormalizeNames = b
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Scan.Markers) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scan.markers cannot be empty")
	}
	if len(c.Scan.Separators) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scan.separators cannot be empty")
	}
	if err := errors.ValidateURLTemplate(c.Fetch.URLTemplate); err != nil {
		return err
	}
	if _, err := c.HTTPTimeout(); err != nil {
		return err
	}
	switch c.Normalize.BraceMode {
	case BraceModeLine, BraceModeDocument:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "normalize.brace_mode must be %q or %q, got %q",
			BraceModeLine, BraceModeDocument, c.Normalize.BraceMode)
	}
	if c.Output.Root == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output.root cannot be empty")
	}
	return nil
}

// HTTPTimeout parses Fetch.Timeout. An empty value means no timeout.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	if c.Fetch.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "fetch.timeout")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "fetch.timeout cannot be negative")
	}
	return d, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
