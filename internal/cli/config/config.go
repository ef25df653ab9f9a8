package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	fxtstrings "github.com/colony-core/foxtail/internal/util/strings"
)

// FileName is the configuration file written by 'foxtail init'
const FileName = "foxtail.yml"

// EnvPrefix prefixes environment overrides, e.g. FOXTAIL_HEADER_PREFIX
const EnvPrefix = "FOXTAIL"

// Config represents the foxtail configuration
type Config struct {
	Convert ConvertConfig `mapstructure:"convert"`
	Types   TypesConfig   `mapstructure:"types"`
	Header  HeaderConfig  `mapstructure:"header"`
	Points  PointsConfig  `mapstructure:"points"`
}

// ConvertConfig holds the default 'convert' flags
type ConvertConfig struct {
	Pretty bool   `mapstructure:"pretty"`
	Strip  bool   `mapstructure:"strip"`
	Header string `mapstructure:"header"`
}

// TypesConfig locates the type dictionary
type TypesConfig struct {
	Dictionary string `mapstructure:"dictionary"`
	Pattern    string `mapstructure:"pattern"`
}

// HeaderConfig configures the generated '#define' header
type HeaderConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// PointsConfig configures point allocation header generation
type PointsConfig struct {
	MarkerBegin string `mapstructure:"marker_begin"`
	MarkerEnd   string `mapstructure:"marker_end"`
	Macro       string `mapstructure:"macro"`
	Exclude     string `mapstructure:"exclude"`
	Prefix      string `mapstructure:"prefix"`
	SrcRoot     string `mapstructure:"src_root"`
}

var defaults = map[string]any{
	"convert.pretty":      false,
	"convert.strip":       false,
	"convert.header":      "",
	"types.dictionary":    "",
	"types.pattern":       "*.h",
	"header.prefix":       "FXT_PT_",
	"points.marker_begin": "MARKER_FXT_BEGIN_AUTO_GENERATION",
	"points.marker_end":   "MARKER_FXT_END_AUTO_GENERATION",
	"points.macro":        "FXT_POINT_DEFINE",
	"points.exclude":      "Fxt/Point/AutoGen.h",
	"points.prefix":       "FXT_PTID_",
	"points.src_root":     "src",
}

// Load loads the configuration from foxtail.yml or foxtail.yaml
func Load() (*Config, error) {
	return LoadWithFlags(nil, nil)
}

// LoadWithFlags loads the configuration and overlays command line flags.
// bindings maps a configuration key to the name of a flag in flags; a flag
// only overrides the file when it was set explicitly.
func LoadWithFlags(flags *pflag.FlagSet, bindings map[string]string) (*Config, error) {
	v := newViper()

	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("unknown flag %q bound to %s", name, key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("foxtail")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if root, err := GetProjectRoot(); err == nil {
		v.AddConfigPath(root)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// Write saves cfg as YAML at path
func Write(cfg *Config, path string) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	v := viper.New()
	v.Set("convert.pretty", cfg.Convert.Pretty)
	v.Set("convert.strip", cfg.Convert.Strip)
	v.Set("convert.header", cfg.Convert.Header)
	v.Set("types.dictionary", cfg.Types.Dictionary)
	v.Set("types.pattern", cfg.Types.Pattern)
	v.Set("header.prefix", cfg.Header.Prefix)
	v.Set("points.marker_begin", cfg.Points.MarkerBegin)
	v.Set("points.marker_end", cfg.Points.MarkerEnd)
	v.Set("points.macro", cfg.Points.Macro)
	v.Set("points.exclude", cfg.Points.Exclude)
	v.Set("points.prefix", cfg.Points.Prefix)
	v.Set("points.src_root", cfg.Points.SrcRoot)

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists checks if the current directory has a foxtail configuration file
func Exists() bool {
	if _, err := os.Stat("foxtail.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("foxtail.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot tries to find the project root by looking for foxtail.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "foxtail.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "foxtail.yaml")); err == nil {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !fxtstrings.IsMacroPrefix(cfg.Header.Prefix) {
		return fmt.Errorf("header.prefix must be a valid C identifier prefix, got: %q", cfg.Header.Prefix)
	}
	if !fxtstrings.IsMacroPrefix(cfg.Points.Prefix) {
		return fmt.Errorf("points.prefix must be a valid C identifier prefix, got: %q", cfg.Points.Prefix)
	}
	if cfg.Types.Pattern == "" {
		return fmt.Errorf("types.pattern must not be empty")
	}
	if cfg.Points.MarkerBegin == "" || cfg.Points.MarkerEnd == "" {
		return fmt.Errorf("points.marker_begin and points.marker_end must not be empty")
	}
	if cfg.Points.MarkerBegin == cfg.Points.MarkerEnd {
		return fmt.Errorf("points.marker_begin and points.marker_end must differ, got: %q", cfg.Points.MarkerBegin)
	}
	return nil
}
