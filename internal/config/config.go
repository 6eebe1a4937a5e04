// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/usestring/apitypes/internal/logging"
	"github.com/usestring/apitypes/internal/pipeline"
)

// Config holds the environment-provided defaults for the CLI and MCP server.
// Command-line flags and tool arguments override these per run.
type Config struct {
	OutputDir      string        // APITYPES_OUTPUT, default "./types"
	Format         string        // APITYPES_FORMAT, default "typescript"
	Concurrency    int           // APITYPES_PARALLEL, default 3
	TimeoutSeconds int           // APITYPES_TIMEOUT, default 30
	Retries        int           // APITYPES_RETRIES, default 2
	RetryDelay     time.Duration // APITYPES_RETRY_DELAY_MS, default 1000ms
	RuntimeCheck   bool          // APITYPES_RUNTIME, default false
	EmitJSONSchema bool          // APITYPES_JSON_SCHEMA, default false
	CacheMaxItems  int           // APITYPES_CACHE_MAX_ITEMS, default 256

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		OutputDir:      getEnvString("APITYPES_OUTPUT", pipeline.DefaultOutputDir),
		Format:         getEnvString("APITYPES_FORMAT", pipeline.DefaultOptions().Format),
		Concurrency:    getEnvInt("APITYPES_PARALLEL", pipeline.DefaultConcurrency),
		TimeoutSeconds: getEnvInt("APITYPES_TIMEOUT", pipeline.DefaultTimeout),
		Retries:        getEnvInt("APITYPES_RETRIES", pipeline.DefaultRetries),
		RetryDelay:     getEnvDurationMs("APITYPES_RETRY_DELAY_MS", int(pipeline.DefaultRetryDelay/time.Millisecond)),
		RuntimeCheck:   getEnvBool("APITYPES_RUNTIME", false),
		EmitJSONSchema: getEnvBool("APITYPES_JSON_SCHEMA", false),
		CacheMaxItems:  getEnvInt("APITYPES_CACHE_MAX_ITEMS", pipeline.DefaultCacheItems),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// PipelineOptions returns the run options described by the environment.
// The result is not validated; pipeline.New does that.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		OutputDir:      c.OutputDir,
		Concurrency:    c.Concurrency,
		TimeoutSeconds: c.TimeoutSeconds,
		Retries:        c.Retries,
		RetryDelay:     c.RetryDelay,
		Format:         c.Format,
		RuntimeCheck:   c.RuntimeCheck,
		EmitJSONSchema: c.EmitJSONSchema,
		CacheMaxItems:  c.CacheMaxItems,
	}
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
