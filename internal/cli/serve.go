package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sreyas-J-S/CutStack/internal/server"
	"github.com/Sreyas-J-S/CutStack/pkg/impose"
)

// serveCommand creates the serve command running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the imposition HTTP service",
		Long: `Run the imposition HTTP service.

The service exposes POST /process for imposing uploads, POST /count-pages
for a quick page count, and GET /healthz. Configuration comes from an
optional TOML file and CUTSTACK_* environment variables; --addr overrides
the configured listen address.

The process stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe loads the configuration, starts the server, and blocks until the
// context is canceled or the listener fails.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	store, err := cfg.OpenCache()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	// Closing the runner closes the cache with it.
	runner := impose.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Addr,
		"waiting_room", cfg.WaitingRoom,
		"cache_backend", cfg.CacheBackend)

	return server.New(cfg, runner, c.Logger).ListenAndServe(ctx)
}
