// Package config loads veilmarket configuration from defaults, an optional
// YAML file, and VEILMARKET_-prefixed environment variables, in that order.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/veil-labs/veilmarket/pkg/vault"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Serve     ServeConfig     `koanf:"serve"`
	Vault     vault.Config    `koanf:"vault"`
	Schemas   SchemasConfig   `koanf:"schemas"`
	Agent     AgentConfig     `koanf:"agent"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp, none
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type ServeConfig struct {
	Transport string `koanf:"transport"` // stdio, http
	Addr      string `koanf:"addr"`
}

// SchemasConfig holds the remote schema identifiers assigned by the vault.
// They stay empty until provisioned through the create-remote-schema action.
type SchemasConfig struct {
	Listing  string `koanf:"listing"`
	Booking  string `koanf:"booking"`
	Feedback string `koanf:"feedback"`
}

// AgentConfig carries credentials consumed by the external agent host, not
// by this process: the LLM API key and the wallet signing key are passed
// through to the conversational runtime and blockchain tooling.
type AgentConfig struct {
	LLMAPIKey        string `koanf:"llm_api_key"`
	WalletSigningKey string `koanf:"wallet_signing_key"`
}

// Load reads configuration with defaults < file < environment precedence.
// Environment variables use double underscores for nesting, so
// VEILMARKET_VAULT__CREDENTIALS__ORG_ID maps to vault.credentials.org_id.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.exporter", "stdout")
	k.Set("serve.transport", "stdio")
	k.Set("serve.addr", "127.0.0.1:9080")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("VEILMARKET_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "VEILMARKET_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
