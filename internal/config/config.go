package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Key case styles understood by Naming.KeyCase
const (
	KeyCasePreserve       = "preserve"
	KeyCaseCamel          = "camel"
	KeyCaseLowerCamel     = "lower_camel"
	KeyCaseSnake          = "snake"
	KeyCaseScreamingSnake = "screaming_snake"
	KeyCaseKebab          = "kebab"
)

// Config represents the complete configuration for jsontyped
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Naming     NamingConfig     `yaml:"naming"`
	Filter     FilterConfig     `yaml:"filter"`
	Validation ValidationConfig `yaml:"validation"`
	Log        LogConfig        `yaml:"log"`
}

// OutputConfig controls how the JSON text is written
type OutputConfig struct {
	// Indent is a space count ("2"), the word "tab", or a literal string.
	Indent    string   `yaml:"indent"`
	AllowList []string `yaml:"allow_list"`
}

// NamingConfig controls object key rewriting
type NamingConfig struct {
	KeyCase     string            `yaml:"key_case"`
	KeyMappings map[string]string `yaml:"key_mappings"`
}

// FilterConfig controls which members are dropped before encoding
type FilterConfig struct {
	DropNulls bool      `yaml:"drop_nulls"`
	DropKeys  []KeyRule `yaml:"drop_keys"`
}

// KeyRule matches object keys by regular expression
type KeyRule struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// ValidationConfig controls the opt-in value check
type ValidationConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level       string         `yaml:"level"`
	Format      string         `yaml:"format"`
	Development bool           `yaml:"development"`
	File        string         `yaml:"file"`
	Rotation    RotationConfig `yaml:"rotation"`
}

// RotationConfig controls rotation of the log file
type RotationConfig struct {
	Enable     bool `yaml:"enable"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// CLIOverrides carries flag values that take precedence over the config file.
// Zero values leave the file's setting in place.
type CLIOverrides struct {
	Indent    string
	AllowList []string
	KeyCase   string
	DropNulls bool
	Validate  bool
	Debug     bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Indent:    "",
			AllowList: nil,
		},
		Naming: NamingConfig{
			KeyCase:     KeyCasePreserve,
			KeyMappings: make(map[string]string),
		},
		Filter: FilterConfig{
			DropNulls: false,
			DropKeys:  []KeyRule{},
		},
		Validation: ValidationConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Compile(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontyped.yml", ".jsontyped.yaml", "jsontyped.yml", "jsontyped.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Compile checks the settings that have a fixed vocabulary and compiles the
// key patterns. It must be called after fields are changed by hand.
func (c *Config) Compile() error {
	if !IsKnownKeyCase(c.Naming.KeyCase) {
		return fmt.Errorf("unknown key case '%s'", c.Naming.KeyCase)
	}
	if _, _, err := c.ParseIndent(); err != nil {
		return err
	}

	for i := range c.Filter.DropKeys {
		rule := &c.Filter.DropKeys[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid drop key pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesKey checks if this rule matches the given object key
func (kr *KeyRule) MatchesKey(key string) bool {
	if kr.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(kr.Pattern)
		if err != nil {
			return false
		}
		kr.regex = regex
	}
	return kr.regex.MatchString(key)
}

// ShouldDropKey reports whether any drop rule matches key
func (c *Config) ShouldDropKey(key string) bool {
	for i := range c.Filter.DropKeys {
		if c.Filter.DropKeys[i].MatchesKey(key) {
			return true
		}
	}
	return false
}

// IsKnownKeyCase reports whether style names a supported key case
func IsKnownKeyCase(style string) bool {
	switch style {
	case "", KeyCasePreserve, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseSnake, KeyCaseScreamingSnake, KeyCaseKebab:
		return true
	}
	return false
}

// RewritesKeys reports whether GetKeyName can change any key
func (c *Config) RewritesKeys() bool {
	return len(c.Naming.KeyMappings) > 0 || (c.Naming.KeyCase != "" && c.Naming.KeyCase != KeyCasePreserve)
}

// GetKeyName returns the output name for an object key, applying naming rules
func (c *Config) GetKeyName(key string) string {
	// Check custom mappings first
	if mapped, exists := c.Naming.KeyMappings[key]; exists {
		return mapped
	}

	switch c.Naming.KeyCase {
	case KeyCaseCamel:
		return strcase.ToCamel(key)
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel(key)
	case KeyCaseSnake:
		return strcase.ToSnake(key)
	case KeyCaseScreamingSnake:
		return strcase.ToScreamingSnake(key)
	case KeyCaseKebab:
		return strcase.ToKebab(key)
	}

	return key
}

// ParseIndent interprets Output.Indent as either a space count or a literal
// indent string. Both zero means compact output.
func (c *Config) ParseIndent() (count int, literal string, err error) {
	indent := c.Output.Indent
	switch {
	case indent == "":
		return 0, "", nil
	case strings.EqualFold(indent, "tab"):
		return 0, "\t", nil
	}
	if n, convErr := strconv.Atoi(indent); convErr == nil {
		if n < 0 {
			return 0, "", fmt.Errorf("invalid indent '%s': must not be negative", indent)
		}
		return n, "", nil
	}
	if strings.TrimLeft(indent, " \t") != "" {
		return 0, "", fmt.Errorf("invalid indent '%s': must be a number, 'tab', or whitespace", indent)
	}
	return 0, indent, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	MergeCLI(cfg, cli)

	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeCLI applies CLI overrides onto cfg. Boolean flags can only switch a
// feature on, since an unset flag is indistinguishable from false.
func MergeCLI(cfg *Config, cli CLIOverrides) {
	if cli.Indent != "" {
		cfg.Output.Indent = cli.Indent
	}
	if len(cli.AllowList) > 0 {
		cfg.Output.AllowList = cli.AllowList
	}
	if cli.KeyCase != "" {
		cfg.Naming.KeyCase = cli.KeyCase
	}
	if cli.DropNulls {
		cfg.Filter.DropNulls = true
	}
	if cli.Validate {
		cfg.Validation.Enabled = true
	}
	if cli.Debug {
		cfg.Log.Level = "debug"
	}
}
