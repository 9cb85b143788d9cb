package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MUSE_DATASET_PATH.
const EnvPrefix = "MUSE"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
}

// Load reads the file at path, applies MUSE_* overrides and defaults, and
// validates the result. A .env file holds MUSE_* assignments; any other
// extension is parsed by type (yaml, json, toml).
func Load(path string) (*Config, error) {
	v := newViper()

	if strings.EqualFold(filepath.Ext(path), ".env") || filepath.Base(path) == ".env" {
		if err := mergeDotenv(v, path); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}
	return finalize(v)
}

// LoadFromEnv builds the configuration from defaults and MUSE_* variables.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

// mergeDotenv reads MUSE_* assignments from a dotenv file into the config
// layer, so real environment variables still take precedence.
func mergeDotenv(v *viper.Viper, path string) error {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}

	nested := map[string]interface{}{}
	for key := range defaults {
		name := strings.ToLower(EnvName(key))
		if !env.IsSet(name) {
			continue
		}
		section, field, _ := strings.Cut(key, ".")
		m, ok := nested[section].(map[string]interface{})
		if !ok {
			m = map[string]interface{}{}
			nested[section] = m
		}
		m[field] = env.GetString(name)
	}
	return v.MergeConfigMap(nested)
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
