// Package config loads glass configuration from an optional YAML file
// and environment variables, with env taking precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Reventlow/glass/internal/domain"
)

// DefaultConfigFile is loaded when present; absence is not an error.
const DefaultConfigFile = "glass.yaml"

// Config holds process configuration. The API key must never be logged
// or included in error messages.
type Config struct {
	Server ServerConfig `koanf:"server"`
	SDP    SDPConfig    `koanf:"sdp"`
}

// ServerConfig configures the inbound HTTP listener.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// SDPConfig holds the ServiceDesk Plus credential pair. Immutable after
// load.
type SDPConfig struct {
	// BaseURL is the SDP instance address, e.g.
	// https://servicedesk.example.com. Trailing slash is stripped.
	BaseURL string `koanf:"base_url"`

	// APIKey is the technician API key. Never log this value.
	APIKey string `koanf:"api_key"`
}

// Load reads configuration from glass.yaml (if present), then the
// SDP_BASE_URL, SDP_API_KEY and GLASS_SERVER_PORT environment
// variables, and validates the result.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigFile)
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, domain.ErrConfig("parsing " + path + ": " + err.Error())
		}
	}

	// SDP_BASE_URL -> sdp.base_url, SDP_API_KEY -> sdp.api_key
	if err := k.Load(env.Provider("SDP_", ".", func(s string) string {
		return "sdp." + strings.ToLower(strings.TrimPrefix(s, "SDP_"))
	}), nil); err != nil {
		return nil, domain.ErrConfig(err.Error())
	}

	// GLASS_SERVER_PORT -> server.port
	if err := k.Load(env.Provider("GLASS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GLASS_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, domain.ErrConfig(err.Error())
	}

	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, domain.ErrConfig(err.Error())
	}

	baseURL, err := validateBaseURL(cfg.SDP.BaseURL)
	if err != nil {
		return nil, err
	}
	cfg.SDP.BaseURL = baseURL

	if err := validateAPIKey(cfg.SDP.APIKey); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateBaseURL checks the scheme and strips the trailing slash.
func validateBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrMissingEnv("SDP_BASE_URL")
	}

	raw = strings.TrimRight(raw, "/")

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "", domain.ErrConfig("SDP_BASE_URL must start with http:// or https://")
	}

	return raw, nil
}

// placeholderPatterns are substrings that indicate an API key copied
// from documentation rather than a real credential.
var placeholderPatterns = []string{
	"your_api_key",
	"your_key",
	"placeholder",
	"xxx",
	"changeme",
}

func validateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return domain.ErrMissingEnv("SDP_API_KEY")
	}

	lower := strings.ToLower(key)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(lower, pattern) {
			return domain.ErrConfig("SDP_API_KEY appears to be a placeholder value")
		}
	}

	return nil
}
