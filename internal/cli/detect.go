package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Identify the ecosystem and list declared dependencies",
		Long: `Detect the package ecosystem of a project and parse its manifest.

Supported manifests, in detection order:
  package.json (npm, yarn, pnpm by lockfile)
  pyproject.toml, requirements.txt (pip)
  Cargo.toml (cargo)
  go.mod (go)`,
		Example: `  stackprint detect
  stackprint detect ./services/api`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := projectDir(args)

			backend := ""
			if noCache {
				backend = "none"
			}
			runner, err := c.newRunner(ctx, backend)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			m, cached, err := runner.Manifest(ctx, dir, false)
			if err != nil {
				return err
			}
			prog.done("Parsed manifest")

			writeManifest(os.Stdout, m)
			printStats(0, len(m.Dependencies), cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

