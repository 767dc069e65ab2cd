// Command veilmarket serves the marketplace action surface as MCP tools,
// over stdio or streamable HTTP, for any agent host to call.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/veil-labs/veilmarket/pkg/actions"
	"github.com/veil-labs/veilmarket/pkg/config"
	"github.com/veil-labs/veilmarket/pkg/mcp"
	"github.com/veil-labs/veilmarket/pkg/telemetry"
	"github.com/veil-labs/veilmarket/pkg/vault"
)

const version = "0.1.0"

func main() {
	var (
		configPath = flag.String("config", "", "Config file path")
		transport  = flag.String("transport", "", "Tool transport: stdio or http (overrides config)")
		addr       = flag.String("addr", "", "Streamable HTTP listen address (overrides config)")
	)
	flag.Parse()

	// .env keeps node credentials out of the shell history.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *transport != "" {
		cfg.Serve.Transport = *transport
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}

	// Stdio carries the MCP protocol on stdout, so logs go to stderr.
	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.Init("veilmarket", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	metrics, err := telemetry.NewActionMetrics()
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	if cfg.Agent.LLMAPIKey == "" {
		logger.Warn("agent.llm_api_key is not set; the agent host needs it to drive this tool surface")
	}

	client := vault.NewClient(cfg.Vault)
	svc := actions.NewService(client,
		actions.WithConfigurator(client),
		actions.WithSchemas(cfg.Schemas),
		actions.WithLogger(logger),
		actions.WithMetrics(metrics),
	)

	srv := mcp.NewServer("veilmarket", version)
	actions.Register(srv, svc)

	switch cfg.Serve.Transport {
	case "http":
		logger.Info("serving marketplace tools over streamable HTTP", "addr", cfg.Serve.Addr)
		if err := srv.ServeStreamableHTTP(cfg.Serve.Addr); err != nil {
			log.Fatalf("serve: %v", err)
		}
	case "", "stdio":
		logger.Info("serving marketplace tools over stdio")
		if err := srv.ServeStdio(); err != nil {
			log.Fatalf("serve: %v", err)
		}
	default:
		log.Fatalf("unknown transport %q", cfg.Serve.Transport)
	}
}
