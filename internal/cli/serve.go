package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprint/internal/config"
	"github.com/matzehuels/stackprint/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		root    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fingerprints over HTTP",
		Long: `Run an HTTP server that fingerprints projects below --root.

Endpoints:
  GET  /healthz
  POST /v1/fingerprint  {"path": "web", "refresh": false}
  POST /v1/manifest     {"path": "web"}

The server keeps results in memory by default. Set --cache redis (and
cache.redis_url) to share results between instances.`,
		Example: `  stackprint serve
  stackprint serve --addr :9000 --root /srv/repos --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			sc := cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("root") {
				sc.Root = root
			}

			runner, err := c.newRunner(ctx, backend)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving fingerprints")
			printKeyValue("address", sc.Addr)
			printKeyValue("root", sc.Root)
			printKeyValue("cache", backend)

			srv := server.New(runner, server.Config{
				Root:    sc.Root,
				Timeout: sc.Timeout,
				Analyze: cfg.Analyze,
			}, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx, sc.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&root, "root", ".", "directory request paths are resolved against")
	cmd.Flags().StringVar(&backend, "cache", config.BackendMemory, "cache backend: memory, redis, file or none")
	return cmd
}
