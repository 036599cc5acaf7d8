package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultFile is consulted when no --config flag is given. A missing
// default file is not an error: defaults apply.
const DefaultFile = "config.json"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// setDefaults registers the full default tree so a partial config file
// merges over it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("download.max_file_size_mb", 100)
	v.SetDefault("download.timeout_seconds", 30)
	v.SetDefault("download.retry_attempts", 3)
	v.SetDefault("download.retry_delay_seconds", 2)
	v.SetDefault("download.verify_ssl", true)
	v.SetDefault("download.user_agent", defaultUserAgent)

	v.SetDefault("output.default_directory", "./downloads")
	v.SetDefault("output.auto_cleanup", true)

	v.SetDefault("performance.max_concurrent_downloads", 3)
	v.SetDefault("performance.enable_caching", true)
	v.SetDefault("performance.cache_directory", "./cache")

	v.SetDefault("security.validate_extension_id", true)
	v.SetDefault("security.check_file_integrity", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "crxfetch.log")
	v.SetDefault("log.file.max_size_mb", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", false)
}

// Load reads the config file at path and merges it over the defaults.
// With an empty path, DefaultFile is used if present, otherwise pure
// defaults are returned. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// The default tree always decodes; a failure here is a
		// programming error.
		panic(err)
	}
	return &cfg
}

// WriteSample writes the default configuration as indented JSON, the
// starting point for user edits.
func WriteSample(path string) error {
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
