package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the startup configuration, read once at boot. It only carries
// what the request path needs: the CORS policy and the name of the header
// that identifies the tenant.
type Config struct {
	HTTPResponse ResponderConfig `yaml:"http_response"`
	Auth         AuthConfig      `yaml:"auth"`
}

// ResponderConfig is the CORS policy applied to every outgoing response.
type ResponderConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
}

// AuthConfig names the request header whose value is the tenant identifier.
type AuthConfig struct {
	AuthHeader string `yaml:"auth_header"`
}

// Load reads and parses the startup configuration file. An unreadable or
// malformed file is a startup error; the process must not serve without a
// known auth header.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config file %s malformatted: %w", path, err)
	}

	if cfg.Auth.AuthHeader == "" {
		return nil, fmt.Errorf("config file %s missing auth.auth_header", path)
	}
	return cfg, nil
}
