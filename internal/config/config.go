// Package config loads process configuration from the environment.
package config

import (
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

const defaultPort = "8081"

// Config holds everything the process reads from the environment. The
// credential is a static passthrough; it can additionally be replaced at
// runtime in http mode via connection config injection.
type Config struct {
	// Transport selects how the process listens for tool invocations.
	// "http" behaves like "sse" but additionally accepts a base64 config
	// blob on the connection query string.
	Transport string `env:"MCP_TRANSPORT" envDefault:"sse"`

	Host string `env:"HOST" envDefault:"0.0.0.0"`

	// SmitheryPort takes precedence over Port when both are set.
	SmitheryPort string `env:"SMITHERY_PORT"`
	Port         string `env:"PORT"`

	APIToken   string `env:"MM_API_TOKEN"`
	APIBaseURL string `env:"MM_API_BASE_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load parses the environment into a Config and validates the transport.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}

	switch cfg.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return Config{}, errors.Errorf("unsupported transport %q", cfg.Transport)
	}

	return cfg, nil
}

// ListenPort resolves the port chain SMITHERY_PORT, PORT, 8081. The first
// non-empty value wins; if it is not a number the default is used.
func (c Config) ListenPort() string {
	p := c.SmitheryPort
	if p == "" {
		p = c.Port
	}
	if p == "" {
		return defaultPort
	}
	if _, err := strconv.Atoi(p); err != nil {
		return defaultPort
	}
	return p
}

// ListenAddr is the host:port the HTTP transports bind to.
func (c Config) ListenAddr() string {
	return c.Host + ":" + c.ListenPort()
}
