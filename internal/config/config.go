// Package config handles configuration loading using viper.
package config

import "time"

// Config is the top-level configuration, mirroring the sections of
// config.json.
type Config struct {
	Download    DownloadConfig    `mapstructure:"download" json:"download"`
	Output      OutputConfig      `mapstructure:"output" json:"output"`
	Performance PerformanceConfig `mapstructure:"performance" json:"performance"`
	Security    SecurityConfig    `mapstructure:"security" json:"security"`
	Log         LogConfig         `mapstructure:"log" json:"log"`
}

// DownloadConfig controls the HTTP fetch behavior.
type DownloadConfig struct {
	MaxFileSizeMB     int    `mapstructure:"max_file_size_mb" json:"max_file_size_mb"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	RetryAttempts     int    `mapstructure:"retry_attempts" json:"retry_attempts"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" json:"retry_delay_seconds"`
	VerifySSL         bool   `mapstructure:"verify_ssl" json:"verify_ssl"`
	UserAgent         string `mapstructure:"user_agent" json:"user_agent"`
}

// Timeout returns the per-request timeout as a duration.
func (d DownloadConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay between retry attempts.
func (d DownloadConfig) RetryDelay() time.Duration {
	return time.Duration(d.RetryDelaySeconds) * time.Second
}

// MaxFileSize returns the size cap in bytes, 0 meaning unlimited.
func (d DownloadConfig) MaxFileSize() int64 {
	return int64(d.MaxFileSizeMB) * 1024 * 1024
}

// OutputConfig controls where results land on disk.
type OutputConfig struct {
	DefaultDirectory string `mapstructure:"default_directory" json:"default_directory"`
	// AutoCleanup removes the intermediate .crx once the .zip is written.
	AutoCleanup bool `mapstructure:"auto_cleanup" json:"auto_cleanup"`
}

// PerformanceConfig controls batch parallelism and caching.
type PerformanceConfig struct {
	MaxConcurrentDownloads int    `mapstructure:"max_concurrent_downloads" json:"max_concurrent_downloads"`
	EnableCaching          bool   `mapstructure:"enable_caching" json:"enable_caching"`
	CacheDirectory         string `mapstructure:"cache_directory" json:"cache_directory"`
}

// SecurityConfig controls input and output validation.
type SecurityConfig struct {
	ValidateExtensionID bool `mapstructure:"validate_extension_id" json:"validate_extension_id"`
	CheckFileIntegrity  bool `mapstructure:"check_file_integrity" json:"check_file_integrity"`
}

// LogConfig controls the logrus setup.
type LogConfig struct {
	Level string        `mapstructure:"level" json:"level"`
	File  FileLogConfig `mapstructure:"file" json:"file"`
}

// FileLogConfig enables rotated file output in addition to stderr.
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	Path       string `mapstructure:"path" json:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}
