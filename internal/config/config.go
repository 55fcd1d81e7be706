// Package config provides Viper-based configuration loading for the statblock tool.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML and Lua content.
type ContentConfig struct {
	// Dir holds the enchantments/, spells/, weapons/ and armor/ subdirectories.
	Dir string `mapstructure:"dir"`
	// LibraryDir optionally holds *.lua files whose functions formulas may call.
	LibraryDir string `mapstructure:"library_dir"`
}

// PricingConfig holds the gold piece constants used to price magic items.
type PricingConfig struct {
	WeaponCoefficient int `mapstructure:"weapon_coefficient"`
	ArmorCoefficient  int `mapstructure:"armor_coefficient"`
	MasterworkWeapon  int `mapstructure:"masterwork_weapon"`
	MasterworkArmor   int `mapstructure:"masterwork_armor"`
}

// ScriptingConfig holds Lua formula settings.
type ScriptingConfig struct {
	// InstructionLimit caps the opcodes of one formula evaluation; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePricing(c.Pricing); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.Dir == "" {
		return errors.New("content.dir must not be empty")
	}
	return nil
}

func validatePricing(p PricingConfig) error {
	var errs []string
	for _, f := range []struct {
		name  string
		value int
	}{
		{"weapon_coefficient", p.WeaponCoefficient},
		{"armor_coefficient", p.ArmorCoefficient},
		{"masterwork_weapon", p.MasterworkWeapon},
		{"masterwork_armor", p.MasterworkArmor},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Sprintf("pricing.%s must be >= 0, got %d", f.name, f.value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with STATBLOCK_ prefix
	v.SetEnvPrefix("STATBLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.library_dir", "")

	v.SetDefault("pricing.weapon_coefficient", 2000)
	v.SetDefault("pricing.armor_coefficient", 1000)
	v.SetDefault("pricing.masterwork_weapon", 300)
	v.SetDefault("pricing.masterwork_armor", 150)

	v.SetDefault("scripting.instruction_limit", 0)
}
