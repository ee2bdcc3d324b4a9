// Package config handles configuration loading and persistence for chatbtc.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/models"
)

// Configuration keys, as they appear in config.json
const (
	KeyBaseURL         = "base_url"
	KeyAPIKey          = "api_key"
	KeySpecHash        = "spec_hash"
	KeyPipelineFile    = "pipeline_file"
	KeyTimeout         = "timeout"
	KeyTheme           = "theme"
	KeyVerbose         = "verbose"
	KeyLogFile         = "log_file"
	KeyCopyToClipboard = "copy_to_clipboard"
	KeyMarkdownStyle   = "markdown.style"
)

// MarkdownConfig configures markdown rendering of answers
type MarkdownConfig struct {
	Style string `mapstructure:"style" json:"style" yaml:"style"` // "dark", "light", "notty" or path to JSON theme
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the answer service endpoint the question is posted to.
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	// APIKey is sent as a bearer token.
	APIKey string `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	// SpecHash identifies the pipeline specification on the service side.
	SpecHash string `mapstructure:"spec_hash" json:"spec_hash" yaml:"spec_hash"`
	// PipelineFile optionally points to a JSON file replacing the built-in
	// provider/model/caching block.
	PipelineFile string `mapstructure:"pipeline_file" json:"pipeline_file,omitempty" yaml:"pipeline_file,omitempty"`
	// Timeout bounds a single request. Zero means no timeout.
	Timeout         time.Duration  `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	Theme           string         `mapstructure:"theme" json:"theme" yaml:"theme"`
	Verbose         bool           `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	LogFile         string         `mapstructure:"log_file" json:"log_file,omitempty" yaml:"log_file,omitempty"`
	CopyToClipboard bool           `mapstructure:"copy_to_clipboard" json:"copy_to_clipboard" yaml:"copy_to_clipboard"`
	Markdown        MarkdownConfig `mapstructure:"markdown" json:"markdown" yaml:"markdown"`
}

// envBindings maps each key to the environment variables that may supply it,
// in lookup order. The VITE_ names are the ones the web widget was built with.
var envBindings = map[string][]string{
	KeyBaseURL:         {"CHATBTC_BASE_URL", "VITE_BASE_URL"},
	KeyAPIKey:          {"CHATBTC_API_KEY", "VITE_API_KEY"},
	KeySpecHash:        {"CHATBTC_SPEC_HASH", "VITE_SPEC_HASH"},
	KeyPipelineFile:    {"CHATBTC_PIPELINE_FILE"},
	KeyTimeout:         {"CHATBTC_TIMEOUT"},
	KeyTheme:           {"CHATBTC_THEME"},
	KeyVerbose:         {"CHATBTC_VERBOSE"},
	KeyLogFile:         {"CHATBTC_LOG_FILE"},
	KeyCopyToClipboard: {"CHATBTC_COPY_TO_CLIPBOARD"},
	KeyMarkdownStyle:   {"CHATBTC_MARKDOWN_STYLE", "GLAMOUR_STYLE"},
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Timeout:         0,
		Theme:           "bitcoin",
		Verbose:         false,
		CopyToClipboard: false,
		Markdown:        MarkdownConfig{Style: "dark"},
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatbtc"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the default log file path
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatbtc.log"), nil
}

// newViper builds a viper instance with defaults and environment bindings
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault(KeyBaseURL, def.BaseURL)
	v.SetDefault(KeyAPIKey, def.APIKey)
	v.SetDefault(KeySpecHash, def.SpecHash)
	v.SetDefault(KeyPipelineFile, def.PipelineFile)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyTheme, def.Theme)
	v.SetDefault(KeyVerbose, def.Verbose)
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetDefault(KeyCopyToClipboard, def.CopyToClipboard)
	v.SetDefault(KeyMarkdownStyle, def.Markdown.Style)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		_ = v.BindEnv(args...)
	}

	return v
}

// Load reads the configuration. An empty path means the default config file,
// which is optional; an explicit path must exist. Environment variables
// override file values.
func Load(path string) (Config, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return DefaultConfig(), err
		}
	}

	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil || explicit {
		if err := v.ReadInConfig(); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads the configuration from the default location
func LoadConfig() (Config, error) {
	return Load("")
}

// Validate checks that the values needed to reach the answer service are set
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return apierrors.NewConfigError(KeyBaseURL, "not set (use CHATBTC_BASE_URL or 'chatbtc config set base_url <url>')")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return apierrors.NewConfigError(KeyAPIKey, "not set (use CHATBTC_API_KEY or 'chatbtc config set api_key <key>')")
	}
	if c.Timeout < 0 {
		return apierrors.NewConfigError(KeyTimeout, "must not be negative")
	}
	return nil
}

// Pipeline returns the provider/model/caching block to send with requests
func (c Config) Pipeline() (json.RawMessage, error) {
	if c.PipelineFile == "" {
		return models.DefaultPipelineConfig, nil
	}

	data, err := os.ReadFile(c.PipelineFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	if !json.Valid(data) {
		return nil, apierrors.NewConfigError(KeyPipelineFile, "file is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// LogPath returns the configured log file, falling back to the default
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return GetLogPath()
}

// Masked returns a copy with the API key hidden, for display
func (c Config) Masked() Config {
	c.APIKey = MaskSecret(c.APIKey)
	return c
}

// MaskSecret keeps the last four characters of a secret
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// AvailableKeys returns the keys accepted by SetValue
func AvailableKeys() []string {
	keys := make([]string, 0, len(envBindings))
	for key := range envBindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetValue updates one key in the config file at path (default location when
// empty), keeping every other value the file already holds.
func SetValue(path, key, value string) error {
	if _, ok := envBindings[key]; !ok {
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(AvailableKeys(), ", "))
	}

	if path == "" {
		configDir, err := EnsureConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(configDir, "config.json")
	}

	raw := map[string]interface{}{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read config file: %w", err)
	}

	typed, err := convertValue(key, value)
	if err != nil {
		return err
	}
	setNested(raw, key, typed)

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file holds the API key
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func convertValue(key, value string) (interface{}, error) {
	switch key {
	case KeyVerbose, KeyCopyToClipboard:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q is not a boolean", key, value)
		}
		return b, nil
	case KeyTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return value, nil
	default:
		return value, nil
	}
}

// setNested writes value at a dotted key such as "markdown.style"
func setNested(m map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}
