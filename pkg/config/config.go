// Package config loads the hdfsconn configuration used by the CLI.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (HDFSCONN_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// The library itself takes plain structs; this package exists so the CLI
// and embedding tools share one load/validate path.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/stage"
)

// Config is the full hdfsconn configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Mode is the execution mode the validation simulates.
	// Valid values: standalone, cluster-batch, cluster-streaming.
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=standalone cluster-batch cluster-streaming" yaml:"mode"`

	// ResourcesDir is the root for relative configuration-directory paths.
	ResourcesDir string `mapstructure:"resources_dir" yaml:"resources_dir"`

	// Connection describes the filesystem connection to validate.
	Connection ConnectionConfig `mapstructure:"connection" yaml:"connection"`

	// Probes lists directories to canary-probe for writability after a
	// successful connection.
	Probes []string `mapstructure:"probes" yaml:"probes"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is the log output format: text or json.
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// ConnectionConfig mirrors stage.ConnConfig in file-friendly form.
type ConnectionConfig struct {
	// URI is the explicit filesystem URI, e.g. hdfs://namenode:8020.
	URI string `mapstructure:"uri" yaml:"uri"`

	// User is the impersonated (proxy) user, when set.
	User string `mapstructure:"user" yaml:"user"`

	// Kerberos enables Kerberos authentication.
	Kerberos bool `mapstructure:"kerberos" yaml:"kerberos"`

	// ConfDir holds core-site.xml / hdfs-site.xml.
	ConfDir string `mapstructure:"conf_dir" yaml:"conf_dir"`

	// Extra are additional configuration properties applied with the
	// highest precedence.
	Extra map[string]string `mapstructure:"extra" yaml:"extra,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Mode: stage.Standalone.String(),
	}
}

// Load reads, defaults and validates the configuration at path. An empty
// path loads defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HDFSCONN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AllSettings only surfaces keys viper knows about, so environment
	// overrides must be bound explicitly.
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output",
		"mode", "resources_dir",
		"connection.uri", "connection.user", "connection.kerberos", "connection.conf_dir",
		"probes",
	} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, fmt.Errorf("build config decoder: %w", err)
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration's structural constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Save writes the configuration to path as YAML, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ExecutionMode maps the configured mode string to a stage.ExecutionMode.
func (c *Config) ExecutionMode() stage.ExecutionMode {
	switch c.Mode {
	case stage.ClusterBatch.String():
		return stage.ClusterBatch
	case stage.ClusterStreaming.String():
		return stage.ClusterStreaming
	default:
		return stage.Standalone
	}
}

// ConnConfig converts the file-friendly connection block into the stage
// library's form. Extra entries are ordered by key so repeated runs apply
// them deterministically.
func (c *Config) ConnConfig() stage.ConnConfig {
	keys := make([]string, 0, len(c.Connection.Extra))
	for k := range c.Connection.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]hadoop.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, hadoop.Entry{Key: k, Value: hadoop.Static(c.Connection.Extra[k])})
	}

	return stage.ConnConfig{
		URI:      c.Connection.URI,
		User:     c.Connection.User,
		Kerberos: c.Connection.Kerberos,
		ConfDir:  c.Connection.ConfDir,
		Extra:    entries,
	}
}
