package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgpfig/bgpfig/internal/server"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API host.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bgpfig HTTP API",
		Long: `Run the bgpfig HTTP API.

The API exposes the export pipeline over HTTP and stores named shares:

  POST   /api/v1/export       render a snapshot to the requested formats
  POST   /api/v1/shares       store a snapshot with its rendered document
  GET    /api/v1/shares/{id}  fetch a stored share
  DELETE /api/v1/shares/{id}  remove a stored share
  GET    /healthz             liveness probe
  GET    /metrics             Prometheus metrics

Without --config the server listens on :8080, caches nothing, and keeps
shares in memory. The config file selects the cache backend (file, redis)
and the share store (mongo).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe builds the configured backends and runs the server until ctx is
// cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	docCache, err := server.NewCacheFromConfig(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}

	store, err := server.NewStoreFromConfig(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("share store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close share store", "err", err)
		}
	}()

	runner := pipeline.NewRunner(docCache, nil, c.Logger)
	defer runner.Close()

	return server.New(cfg, runner, store, c.Logger).Run(ctx)
}
